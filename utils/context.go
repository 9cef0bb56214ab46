package utils

type contextKey string

// Context keys carried from the HTTP layer into business flows for
// audit logging and request tracing.
const (
	RequestIDKey  contextKey = "request_id"
	UserAgentKey  contextKey = "user_agent"
	IPAddressKey  contextKey = "ip_address"
	EndpointKey   contextKey = "endpoint"
	TimeoutKey    contextKey = "timeout"
	CancelFuncKey contextKey = "cancel_func"
	AgentIDKey    contextKey = "agent_id"
)
