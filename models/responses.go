package models

// Ack is the success acknowledgment, also returned for silently dropped
// spam so automated senders cannot distinguish a trap from a delivery.
type Ack struct {
	OK bool `json:"ok"`
}

// ErrorResponse carries a client-facing failure message.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SendFailure is returned when authentication or the upstream send fails.
// Fallback carries the plain-text rendering of the submission so the
// content survives a delivery failure.
type SendFailure struct {
	Message  string `json:"message"`
	Error    string `json:"error"`
	Fallback string `json:"fallback"`
}
