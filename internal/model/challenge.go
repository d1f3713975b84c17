package model

// ChallengeResponse represents response for GET /challenge
type ChallengeResponse struct {
	Challenge  string `json:"challenge"`
	Difficulty int    `json:"difficulty"`
	Message    string `json:"message"`
}
