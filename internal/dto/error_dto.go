package dto

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
