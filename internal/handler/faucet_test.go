package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kalon-network/testnet-faucet/faucet"
	"github.com/kalon-network/testnet-faucet/internal/config"
	"github.com/kalon-network/testnet-faucet/internal/model"
	"github.com/kalon-network/testnet-faucet/internal/store"
)

const testAddress = "KABC2DEF3GHI4JKL5MNO6PQR7STU2VWX3YZ4ABC5DEF6GHI7JKL2PQR7"

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type stubVerifier struct{ ok bool }

func (v stubVerifier) Verify(context.Context, string, string) bool { return v.ok }

type stubExecutor struct{ err error }

func (e stubExecutor) Send(context.Context, string, int64) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return "deadbeef", nil
}

func testConfig() *config.Config {
	return &config.Config{
		ClaimAmount:         100,
		AddressDailyLimit:   1,
		IPHourlyLimit:       10,
		ChallengeDifficulty: 4,
	}
}

func newTestHandler(t *testing.T, verified bool, executorErr error) *FaucetHandler {
	t.Helper()
	pipeline := faucet.NewPipeline(store.NewMemory(), stubVerifier{ok: verified}, stubExecutor{err: executorErr}, 100, 10)
	pipeline.SetClock(func() time.Time { return testNow })
	return NewFaucetHandler(testConfig(), pipeline, nil)
}

func postClaim(t *testing.T, h *FaucetHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/claim", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Claim(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var body model.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestClaim_Granted(t *testing.T) {
	h := newTestHandler(t, true, nil)

	rec := postClaim(t, h, model.ClaimRequest{Address: testAddress, VerificationToken: "tok"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body model.ClaimResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success=true")
	}
	if body.TxHash != "deadbeef" {
		t.Fatalf("expected tx_hash deadbeef, got %q", body.TxHash)
	}
	if body.Amount != "100" {
		t.Fatalf("expected amount \"100\", got %q", body.Amount)
	}
	if want := testNow.Add(24 * time.Hour).Format(time.RFC3339); body.NextClaimAt != want {
		t.Fatalf("expected next_claim_at %s, got %s", want, body.NextClaimAt)
	}
}

func TestClaim_InvalidAddress(t *testing.T) {
	h := newTestHandler(t, true, nil)

	rec := postClaim(t, h, model.ClaimRequest{Address: "not-an-address", VerificationToken: "tok"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != string(faucet.InvalidAddress) {
		t.Fatalf("expected invalid_address, got %q", body.Error)
	}
}

func TestClaim_WhitespacePaddedAddress(t *testing.T) {
	h := newTestHandler(t, true, nil)

	// The validator tolerates no surrounding whitespace; the handler must not
	// normalize it away.
	rec := postClaim(t, h, model.ClaimRequest{Address: " " + testAddress, VerificationToken: "tok"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != string(faucet.InvalidAddress) {
		t.Fatalf("expected invalid_address, got %q", body.Error)
	}
}

func TestClaim_MissingToken(t *testing.T) {
	h := newTestHandler(t, true, nil)

	rec := postClaim(t, h, model.ClaimRequest{Address: testAddress})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != string(faucet.VerificationRequired) {
		t.Fatalf("expected verification_required, got %q", body.Error)
	}
}

func TestClaim_VerificationFailed(t *testing.T) {
	h := newTestHandler(t, false, nil)

	rec := postClaim(t, h, model.ClaimRequest{Address: testAddress, VerificationToken: "tok"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != string(faucet.VerificationFailed) {
		t.Fatalf("expected verification_failed, got %q", body.Error)
	}
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	h := newTestHandler(t, true, nil)

	if rec := postClaim(t, h, model.ClaimRequest{Address: testAddress, VerificationToken: "tok"}); rec.Code != http.StatusOK {
		t.Fatalf("first claim failed: %d", rec.Code)
	}

	rec := postClaim(t, h, model.ClaimRequest{Address: testAddress, VerificationToken: "tok"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != string(faucet.AlreadyClaimed) {
		t.Fatalf("expected already_claimed, got %q", body.Error)
	}
	if want := testNow.Add(24 * time.Hour).Format(time.RFC3339); body.NextClaimAt != want {
		t.Fatalf("expected next_claim_at %s, got %s", want, body.NextClaimAt)
	}
}

func TestClaim_TransferFailed(t *testing.T) {
	h := newTestHandler(t, true, errors.New("ledger down"))

	rec := postClaim(t, h, model.ClaimRequest{Address: testAddress, VerificationToken: "tok"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != string(faucet.TransferFailed) {
		t.Fatalf("expected transfer_failed, got %q", body.Error)
	}
	if !strings.Contains(body.Details, "ledger down") {
		t.Fatalf("expected executor error in details, got %q", body.Details)
	}
}

func TestClaim_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, true, nil)

	req := httptest.NewRequest(http.MethodPost, "/claim", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Claim(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClaim_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/claim", nil)
	rec := httptest.NewRecorder()
	h.Claim(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestStatus_DryRun(t *testing.T) {
	h := newTestHandler(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body model.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "online" {
		t.Fatalf("expected status online, got %q", body.Status)
	}
	if body.Error == "" {
		t.Fatalf("expected unreachable-ledger condition to be reported")
	}
	if body.ClaimAmount != "100" {
		t.Fatalf("expected claim_amount 100, got %q", body.ClaimAmount)
	}
	if body.RateLimits.PerIP != "10 per hour" {
		t.Fatalf("unexpected per_ip %q", body.RateLimits.PerIP)
	}
	if body.RateLimits.PerAddress != "1 per 24h" {
		t.Fatalf("unexpected per_address %q", body.RateLimits.PerAddress)
	}
}

func TestChallenge(t *testing.T) {
	h := newTestHandler(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/challenge", nil)
	rec := httptest.NewRecorder()
	h.Challenge(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body model.ChallengeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Challenge) != 64 {
		t.Fatalf("expected 64-hex challenge, got %q", body.Challenge)
	}
	if body.Difficulty != 4 {
		t.Fatalf("expected difficulty 4, got %d", body.Difficulty)
	}
}

func TestQR(t *testing.T) {
	cfg := testConfig()
	cfg.FaucetAddress = testAddress
	pipeline := faucet.NewPipeline(store.NewMemory(), stubVerifier{ok: true}, stubExecutor{}, 100, 10)
	h := NewFaucetHandler(cfg, pipeline, nil)

	req := httptest.NewRequest(http.MethodGet, "/qr", nil)
	rec := httptest.NewRecorder()
	h.QR(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("body is not a PNG")
	}
}

func TestQR_NoLedgerConfigured(t *testing.T) {
	h := newTestHandler(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/qr", nil)
	rec := httptest.NewRecorder()
	h.QR(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "203.0.113.5:4444", nil, "203.0.113.5"},
		{"x-forwarded-for single", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "198.51.100.2"},
		{"x-forwarded-for chain", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.9"}, "198.51.100.2"},
		{"x-real-ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "198.51.100.3"}, "198.51.100.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/claim", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Fatalf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
