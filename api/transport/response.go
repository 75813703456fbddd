package transport

// ErrorResponse is the only error shape the API exposes: a human-readable
// message, no machine-readable code. The HTTP status distinguishes kind.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse confirms an operation that returns no entity.
type MessageResponse struct {
	Message string `json:"message"`
}
