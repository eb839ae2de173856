package types

// SuccessEnvelope wraps all successful API payloads.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps all error API payloads.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
