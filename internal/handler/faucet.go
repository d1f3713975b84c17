package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kalon-network/testnet-faucet/faucet"
	"github.com/kalon-network/testnet-faucet/internal/client"
	"github.com/kalon-network/testnet-faucet/internal/config"
	"github.com/kalon-network/testnet-faucet/internal/model"
	"github.com/kalon-network/testnet-faucet/internal/qr"
)

// maxClaimBody caps the /claim request body; prevents oversized JSON.
const maxClaimBody = 64 * 1024

var claimsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "faucet_claims_total", Help: "Claim outcomes by rejection code or grant"},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(claimsTotal)
}

// FaucetHandler holds the admission pipeline and read-only collaborators for
// the faucet's HTTP surface.
type FaucetHandler struct {
	cfg      *config.Config
	pipeline *faucet.Pipeline
	ledger   *client.LedgerClient // nil in dry-run mode
}

// NewFaucetHandler creates a handler. ledger may be nil when the faucet runs
// without a configured ledger node.
func NewFaucetHandler(cfg *config.Config, pipeline *faucet.Pipeline, ledger *client.LedgerClient) *FaucetHandler {
	return &FaucetHandler{cfg: cfg, pipeline: pipeline, ledger: ledger}
}

// Claim handles POST /claim
// @Summary      Claim testnet funds
// @Description  Runs the claim admission pipeline and transfers the fixed grant amount on success
// @Tags         faucet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ClaimRequest  true  "Claim data"
// @Success      200      {object}  model.ClaimResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      500      {object}  model.ErrorResponse
// @Router       /claim [post]
func (h *FaucetHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ClaimRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClaimBody)).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "body too large"})
			return
		}
		writeError(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid json", Details: err.Error()})
		return
	}

	origin := clientIP(r)

	// Advisory proof-of-work: outcome is logged, never enforced.
	if req.PowChallenge != "" {
		ok := faucet.CheckProof(req.PowChallenge, req.PowNonce, h.cfg.ChallengeDifficulty)
		slog.Info("claim carried proof of work", "origin", origin, "valid", ok)
	}

	grant, err := h.pipeline.Claim(r.Context(), faucet.ClaimRequest{
		Address:           req.Address,
		VerificationToken: req.VerificationToken,
		Origin:            origin,
	})
	if err != nil {
		h.writeRejection(w, origin, err)
		return
	}

	claimsTotal.WithLabelValues("granted").Inc()
	slog.Info("claim granted", "address", req.Address, "origin", origin, "tx_hash", grant.TxHash)

	writeJSON(w, http.StatusOK, model.ClaimResponse{
		Success:     true,
		TxHash:      grant.TxHash,
		Amount:      strconv.FormatInt(grant.Amount, 10),
		Message:     "Test funds are on their way",
		NextClaimAt: grant.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Status handles GET /status
// @Summary      Faucet status
// @Description  Reports the custodial balance and static grant policy
// @Tags         faucet
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /status [get]
func (h *FaucetHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp := model.StatusResponse{
		Status:        "online",
		FaucetAddress: h.cfg.FaucetAddress,
		ClaimAmount:   strconv.FormatInt(h.cfg.ClaimAmount, 10),
		RateLimits: model.RateLimits{
			PerAddress: strconv.Itoa(h.cfg.AddressDailyLimit) + " per 24h",
			PerIP:      strconv.Itoa(h.cfg.IPHourlyLimit) + " per hour",
		},
	}

	if h.ledger == nil {
		resp.Error = "ledger not configured"
	} else if balance, err := h.ledger.Balance(r.Context(), h.cfg.FaucetAddress); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Balance = balance
	}

	writeJSON(w, http.StatusOK, resp)
}

// Challenge handles GET /challenge
// @Summary      Proof-of-work challenge
// @Description  Issues a random challenge for optional client-side work; not required to claim
// @Tags         faucet
// @Produce      json
// @Success      200  {object}  model.ChallengeResponse
// @Router       /challenge [get]
func (h *FaucetHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	challenge, err := faucet.NewChallenge()
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal error", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, model.ChallengeResponse{
		Challenge:  challenge,
		Difficulty: h.cfg.ChallengeDifficulty,
		Message:    "Proof of work is optional and not verified for claims",
	})
}

// QR handles GET /qr
// @Summary      Faucet address QR code
// @Description  Renders the custodial address as a PNG QR code for returning unused test funds
// @Tags         faucet
// @Produce      png
// @Success      200  {file}    binary
// @Failure      404  {object}  model.ErrorResponse
// @Router       /qr [get]
func (h *FaucetHandler) QR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	if h.cfg.FaucetAddress == "" {
		writeError(w, http.StatusNotFound, model.ErrorResponse{Error: "ledger not configured"})
		return
	}

	png, err := qr.Render(h.cfg.FaucetAddress)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal error", Details: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// writeRejection maps a pipeline outcome to its one exact response shape.
func (h *FaucetHandler) writeRejection(w http.ResponseWriter, origin string, err error) {
	rej, ok := faucet.AsRejection(err)
	if !ok {
		claimsTotal.WithLabelValues(string(faucet.InternalError)).Inc()
		slog.Error("claim failed", "origin", origin, "err", err)
		writeError(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal error", Details: err.Error()})
		return
	}

	claimsTotal.WithLabelValues(string(rej.Code)).Inc()
	slog.Info("claim rejected", "origin", origin, "code", rej.Code, "detail", rej.Detail)

	body := model.ErrorResponse{Error: string(rej.Code), Details: rej.Detail}
	if !rej.NextClaimAt.IsZero() {
		body.NextClaimAt = rej.NextClaimAt.UTC().Format(time.RFC3339)
	}
	writeError(w, statusFor(rej.Code), body)
}

func statusFor(code faucet.RejectionCode) int {
	switch code {
	case faucet.InvalidAddress, faucet.VerificationRequired:
		return http.StatusBadRequest
	case faucet.VerificationFailed:
		return http.StatusForbidden
	case faucet.AlreadyClaimed, faucet.OriginRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, body model.ErrorResponse) {
	writeJSON(w, status, body)
}

// clientIP derives the requester origin from the connection, preferring the
// leftmost X-Forwarded-For entry when the faucet sits behind a proxy.
func clientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
