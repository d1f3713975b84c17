package model

// ClaimRequest represents request for POST /claim
type ClaimRequest struct {
	Address           string `json:"address"`
	VerificationToken string `json:"verification_token"`

	// Optional proof-of-work fields. Advisory only: checked and logged,
	// never part of the admission decision.
	PowChallenge string `json:"pow_challenge,omitempty"`
	PowNonce     uint64 `json:"pow_nonce,omitempty"`
}

// ClaimResponse represents response for a granted POST /claim
type ClaimResponse struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"tx_hash"`
	Amount      string `json:"amount"`
	Message     string `json:"message"`
	NextClaimAt string `json:"next_claim_at"`
}
