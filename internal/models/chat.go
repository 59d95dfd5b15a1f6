package models

import "github.com/google/uuid"

// CheckRequest is the payload sent to the check endpoint.
type CheckRequest struct {
	Message string `json:"message"`
}

// CheckResponse is the final turn of one exchange plus its full transcript.
type CheckResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Reply     string    `json:"reply"`
	Role      Role      `json:"role"`
	Turns     []Turn    `json:"turns"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
