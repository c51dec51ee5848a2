// Package api holds the JSON response shapes of the HTTP surface.
package api

// StatusResponse carries a status discriminator plus a human message, the
// shape used for error bodies and hints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageResponse is the refresh trigger's acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ServerError is the generic upstream-failure body.
func ServerError() StatusResponse {
	return StatusResponse{Status: "error", Message: "Server Error"}
}

// Error builds an error-status body with a specific message.
func Error(msg string) StatusResponse {
	return StatusResponse{Status: "error", Message: msg}
}
