package types

// SuccessEnvelope wraps every successful API response body. The editor
// frontend always reads payloads from the data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of an application error: a stable code, a
// safe message, and field details only where the code allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed API response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
