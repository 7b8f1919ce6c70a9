// Package types holds the wire envelopes every gateway response uses.
// The storefront and the admin console both key on these shapes, so
// they change only with both clients.
package types

// SuccessEnvelope wraps every 2xx payload under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of a failure: a stable machine code plus
// a human message. Details carries field-level validation output and is
// emitted only for codes whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx payload under an error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
