package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	NextClaimAt string `json:"next_claim_at,omitempty"`
}
