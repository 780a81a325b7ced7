// Package types holds the JSON envelopes shared by every HTTP response.
// Success payloads ride under "data"; failures carry a coded error object
// so the wheel frontend can branch on the code instead of the message text.
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
