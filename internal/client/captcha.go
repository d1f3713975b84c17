package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CaptchaClient verifies bot-check tokens against a Turnstile-compatible
// siteverify endpoint.
type CaptchaClient struct {
	verifyURL string
	secret    string
	client    *http.Client
}

// NewCaptchaClient creates a new verification client.
func NewCaptchaClient(verifyURL, secret string) *CaptchaClient {
	return &CaptchaClient{
		verifyURL: verifyURL,
		secret:    secret,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// siteverifyResponse is the subset of the siteverify reply the faucet cares about.
type siteverifyResponse struct {
	Success bool `json:"success"`
}

// Verify sends the client-supplied token for verification and returns the
// verdict. Fail closed: any transport failure, non-2xx status or malformed
// body counts as a rejection. One attempt, no retries.
func (c *CaptchaClient) Verify(ctx context.Context, token, remoteIP string) bool {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}

	var verdict siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false
	}
	return verdict.Success
}
