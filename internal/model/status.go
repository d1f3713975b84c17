package model

// RateLimits describes the faucet's grant policy for GET /status
type RateLimits struct {
	PerAddress string `json:"per_address"`
	PerIP      string `json:"per_ip"`
}

// StatusResponse represents response for GET /status
type StatusResponse struct {
	Status        string     `json:"status"`
	FaucetAddress string     `json:"faucet_address,omitempty"`
	Balance       string     `json:"balance,omitempty"`
	ClaimAmount   string     `json:"claim_amount"`
	RateLimits    RateLimits `json:"rate_limits"`
	Error         string     `json:"error,omitempty"`
}
