package endpoint

// Well-known error condition symbols a peer may attach to a closed or
// rejected endpoint.
const (
	// ConditionUnauthorizedAccess means the peer refused the endpoint for
	// authorization reasons. The lifecycle layer classifies it as a security
	// failure; every other symbol classifies as generic.
	ConditionUnauthorizedAccess = "amqp:unauthorized-access"

	// ConditionInternalError means the peer hit an internal error.
	ConditionInternalError = "amqp:internal-error"

	// ConditionNotFound means the addressed node does not exist.
	ConditionNotFound = "amqp:not-found"

	// ConditionResourceLimit means the peer exhausted a resource limit.
	ConditionResourceLimit = "amqp:resource-limit-exceeded"

	// ConditionConnectionForced means the peer is shutting the connection
	// down regardless of local intent.
	ConditionConnectionForced = "amqp:connection:forced"
)

// Condition is the (symbol, description) pair a peer attaches to an endpoint
// it closed or rejected. The zero value means no condition was supplied.
type Condition struct {
	Symbol      string
	Description string
}

// IsSet reports whether the peer supplied a condition.
func (c Condition) IsSet() bool {
	return c.Symbol != ""
}

// String returns "symbol: description", or just the symbol when the peer
// supplied no description.
func (c Condition) String() string {
	if !c.IsSet() {
		return "<none>"
	}
	if c.Description == "" {
		return c.Symbol
	}
	return c.Symbol + ": " + c.Description
}
