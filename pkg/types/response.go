package types

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageBody is the {"message": ...} acknowledgement shape.
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorBody is the {"error": ...} shape returned with a 200 status for
// lookups that miss.
type ErrorBody struct {
	Error string `json:"error"`
}
