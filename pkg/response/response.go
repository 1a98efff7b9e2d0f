package response

// APIResponse is the generic response envelope used by the gateway's HTTP
// APIs. It mirrors the upstream backend's {success, data, message} shape so
// the web client consumes a single envelope end to end.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Data: data}
}

// ErrorT returns a failed response carrying a human-readable message.
func ErrorT(message string) *APIResponse[any] {
	return &APIResponse[any]{Success: false, Message: message}
}
