package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/amphora-mq/amphora/internal/cliconfig"
	"github.com/amphora-mq/amphora/internal/peersim"
	"github.com/amphora-mq/amphora/pkg/engine"
)

const longHelp = `Exercise the amphora resource lifecycle against a simulated peer.

The client spawns a connection, a number of sessions, and a number of links
per session, opens them, and closes them again, reporting how each request
resolved. The simulated peer can accept, reject, or ignore opens, and can be
told to force-close the connection mid-run.

Configuration layers: flags override AMPHORA_* environment variables, which
override the config file (default: ~/.amphora/config.toml). While the client
runs, edits to the config file adjust the log level live.`

var exampleUsage = `  amphora --behavior accept --sessions 3 --links 2
  amphora --behavior reject-unauthorized
  amphora --force-close-after 2s`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "amphora",
		Short:   "Exercise the amphora resource lifecycle against a simulated peer",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ApplyLogLevel(); err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				select {
				case <-sigCh:
					log.Info().Msg("received signal, stopping...")
					cancel()
				case <-ctx.Done():
				}
			}()

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := cliconfig.NewWatcher(cfgFile, log, func(fc cliconfig.FileConfig) {
					if fc.LogLevel == "" {
						return
					}
					reloaded := cfg
					reloaded.LogLevel = fc.LogLevel
					if err := reloaded.ApplyLogLevel(); err != nil {
						log.Warn().Err(err).Msg("ignoring reloaded log level")
						return
					}
					log.Info().Str("level", fc.LogLevel).Msg("log level updated")
				})
				go watcher.Run(ctx)
			}

			behavior, _ := peersim.ParseBehavior(cfg.PeerBehavior)
			peer := peersim.New(behavior, cfg.PeerDelay, log)
			eng := engine.New(peer, engine.WithLogger(log))
			peer.Attach(eng)

			go func() { _ = eng.Run(ctx) }()

			return runScenario(ctx, log, eng, peer, cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.amphora/config.toml)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().StringVar(&cfg.PeerBehavior, "behavior", cfg.PeerBehavior, "peer behavior (accept, reject, reject-unauthorized, ignore)")
	root.Flags().DurationVar(&cfg.PeerDelay, "peer-delay", cfg.PeerDelay, "simulated peer response delay")
	root.Flags().IntVar(&cfg.Sessions, "sessions", cfg.Sessions, "number of sessions to open")
	root.Flags().IntVar(&cfg.LinksPerSession, "links", cfg.LinksPerSession, "number of links per session")
	root.Flags().DurationVar(&cfg.OpenTimeout, "open-timeout", cfg.OpenTimeout, "deadline for each open/close request")
	root.Flags().DurationVar(&cfg.ForceCloseAfter, "force-close-after", cfg.ForceCloseAfter, "have the peer force-close the connection after this delay (0 = never)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("amphora")
		os.Exit(1)
	}
}
