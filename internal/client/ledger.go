package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// LedgerClient talks to a Kalon ledger node over its JSON HTTP API.
type LedgerClient struct {
	baseURL string
	client  *http.Client
}

// NewLedgerClient creates a new ledger node client.
func NewLedgerClient(baseURL string) *LedgerClient {
	return &LedgerClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// transferRequest is the body for POST /transfers on the ledger node.
type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Seed   string `json:"seed"`
}

// transferResponse is the ledger node's reply to a transfer submission.
// Exactly one of Hash or Error is populated.
type transferResponse struct {
	Hash   string `json:"hash"`
	Ledger int64  `json:"ledger"`
	Error  string `json:"error"`
}

// accountResponse is the ledger node's reply to a balance query.
type accountResponse struct {
	Balance string `json:"balance"`
	Error   string `json:"error"`
}

// Transfer submits a single transfer of amount from the custodial account to
// recipient, authenticated by the custodial seed. Returns the transaction hash
// on success. Single attempt; retry policy belongs to the caller.
func (c *LedgerClient) Transfer(ctx context.Context, from, seed, recipient string, amount int64) (string, error) {
	body, err := json.Marshal(transferRequest{
		From:   from,
		To:     recipient,
		Amount: strconv.FormatInt(amount, 10),
		Seed:   seed,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transfer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit transfer: %w", err)
	}
	defer resp.Body.Close()

	var result transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transfer response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ledger rejected transfer: %s", result.Error)
	}
	if result.Hash == "" {
		return "", fmt.Errorf("ledger returned neither hash nor error (status %d)", resp.StatusCode)
	}
	return result.Hash, nil
}

// Balance queries the ledger for an account's spendable balance.
func (c *LedgerClient) Balance(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/accounts/"+address, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build balance request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query balance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to query balance: status %d", resp.StatusCode)
	}

	var account accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", fmt.Errorf("failed to decode balance response: %w", err)
	}
	if account.Error != "" {
		return "", fmt.Errorf("ledger error: %s", account.Error)
	}
	return account.Balance, nil
}
