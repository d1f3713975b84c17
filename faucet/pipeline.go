// Package faucet implements the claim admission pipeline for the Kalon
// testnet faucet: syntactic validation, bot verification, two-dimensional
// rate limiting over a TTL key/value store, and the single transfer call.
package faucet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kalon-network/testnet-faucet/internal/store"
)

const (
	// ClaimTTL is how long a successful grant blocks further claims to the
	// same address.
	ClaimTTL = 24 * time.Hour
	// OriginTTL is the window for the per-origin grant counter.
	OriginTTL = time.Hour

	claimKeyPrefix  = "faucet:claim:"
	originKeyPrefix = "faucet:origin:"
)

// Verifier decides whether a claim's bot-check token is acceptable.
// Implementations fail closed: any doubt is a rejection.
type Verifier interface {
	Verify(ctx context.Context, token, origin string) bool
}

// ClaimRequest is the input to one admission run. Origin is derived from the
// inbound connection by the handler, never supplied by the client.
type ClaimRequest struct {
	Address           string
	VerificationToken string
	Origin            string
}

// ClaimRecord is persisted per address on a successful grant and expires via
// store TTL; while present, its existence alone blocks further grants.
type ClaimRecord struct {
	Address   string    `json:"address"`
	Origin    string    `json:"origin"`
	Amount    int64     `json:"amount"`
	TxHash    string    `json:"tx_hash"`
	GrantedAt time.Time `json:"granted_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Grant is the successful terminal outcome of a claim.
type Grant struct {
	TxHash    string
	Amount    int64
	ExpiresAt time.Time
}

// Pipeline orchestrates the admission stages in a fixed order. It is the sole
// writer of claim records and origin counters.
type Pipeline struct {
	store    store.Store
	verifier Verifier
	executor TransferExecutor

	amount      int64
	originLimit int

	now func() time.Time
}

// NewPipeline wires the pipeline's collaborators. amount is the fixed grant
// per claim; originLimit is the per-origin hourly grant cap.
func NewPipeline(st store.Store, verifier Verifier, executor TransferExecutor, amount int64, originLimit int) *Pipeline {
	return &Pipeline{
		store:       st,
		verifier:    verifier,
		executor:    executor,
		amount:      amount,
		originLimit: originLimit,
		now:         time.Now,
	}
}

// SetClock overrides the pipeline's clock. Intended for tests.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Claim runs the admission pipeline to a single terminal outcome: a *Grant, a
// *Rejection (via AsRejection), or a plain error for store failures the
// caller maps to an internal error.
//
// Stage order is fixed and short-circuiting. Validation comes before any
// external call so malformed input spends no verification quota or store
// reads, and all bookkeeping happens only after a successful transfer so a
// failed transfer never consumes rate-limit allowance.
func (p *Pipeline) Claim(ctx context.Context, req ClaimRequest) (*Grant, error) {
	// Stage 1: syntax
	if !ValidAddress(req.Address) {
		return nil, &Rejection{
			Code:   InvalidAddress,
			Detail: fmt.Sprintf("address must be %d characters: K followed by 55 of A-Z and 2-7", AddressLen),
		}
	}

	// Stage 2: token presence
	if req.VerificationToken == "" {
		return nil, &Rejection{Code: VerificationRequired, Detail: "verification token is required"}
	}

	// Stage 3: bot verification (fail closed)
	if !p.verifier.Verify(ctx, req.VerificationToken, req.Origin) {
		return nil, &Rejection{Code: VerificationFailed, Detail: "verification was rejected"}
	}

	now := p.now()

	// Stage 4: per-address limit. With an atomic store this reserves the
	// claim record up front, so concurrent identical requests cannot both
	// reach the transfer; the reservation is rolled back on transfer failure.
	atomic, isAtomic := p.store.(store.AtomicStore)
	record := ClaimRecord{
		Address:   req.Address,
		Origin:    req.Origin,
		Amount:    p.amount,
		GrantedAt: now,
		ExpiresAt: now.Add(ClaimTTL),
	}
	if isAtomic {
		created, err := p.reserveClaim(ctx, atomic, record)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, p.alreadyClaimed(ctx, req.Address, now)
		}
	} else {
		_, found, err := p.store.Get(ctx, claimKey(req.Address))
		if err != nil {
			return nil, fmt.Errorf("failed to read claim record: %w", err)
		}
		if found {
			return nil, p.alreadyClaimed(ctx, req.Address, now)
		}
	}

	// Stage 5: per-origin limit
	count, err := p.originCount(ctx, req.Origin)
	if err != nil {
		p.releaseReservation(ctx, isAtomic, atomic, req.Address)
		return nil, err
	}
	if count >= int64(p.originLimit) {
		p.releaseReservation(ctx, isAtomic, atomic, req.Address)
		return nil, &Rejection{
			Code:        OriginRateLimited,
			Detail:      fmt.Sprintf("origin reached its limit of %d claims per hour", p.originLimit),
			NextClaimAt: now.Add(OriginTTL),
		}
	}

	// Stage 6: transfer. Last stage that can fail.
	receipt, err := p.executor.Send(ctx, req.Address, p.amount)
	if err != nil {
		p.releaseReservation(ctx, isAtomic, atomic, req.Address)
		return nil, &Rejection{Code: TransferFailed, Detail: err.Error()}
	}
	record.TxHash = receipt

	// Stage 7: bookkeeping. The transfer is the one irreversible side effect;
	// store failures past this point are logged, not surfaced, so the user
	// still receives the receipt.
	p.recordGrant(ctx, isAtomic, atomic, record)

	return &Grant{TxHash: receipt, Amount: p.amount, ExpiresAt: record.ExpiresAt}, nil
}

// reserveClaim writes the (receipt-less) claim record iff the address has no
// live record. Returns false when another grant already holds the address.
func (p *Pipeline) reserveClaim(ctx context.Context, atomic store.AtomicStore, record ClaimRecord) (bool, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to encode claim record: %w", err)
	}
	created, err := atomic.PutIfAbsent(ctx, claimKey(record.Address), string(raw), ClaimTTL)
	if err != nil {
		return false, fmt.Errorf("failed to reserve claim record: %w", err)
	}
	return created, nil
}

// releaseReservation undoes a stage-4 reservation when a later stage rejects
// the claim. No-op for plain stores, which only write after the transfer.
func (p *Pipeline) releaseReservation(ctx context.Context, isAtomic bool, atomic store.AtomicStore, address string) {
	if !isAtomic {
		return
	}
	if err := atomic.Del(ctx, claimKey(address)); err != nil {
		slog.Error("failed to release claim reservation", "address", address, "err", err)
	}
}

// alreadyClaimed builds the rate-limit rejection for an address with a live
// claim record. The record's existence alone blocks regardless of content; if
// its body cannot be parsed the full TTL is reported as an upper bound.
func (p *Pipeline) alreadyClaimed(ctx context.Context, address string, now time.Time) error {
	expiresAt := now.Add(ClaimTTL)
	if raw, found, err := p.store.Get(ctx, claimKey(address)); err == nil && found {
		var prev ClaimRecord
		if jsonErr := json.Unmarshal([]byte(raw), &prev); jsonErr == nil && !prev.ExpiresAt.IsZero() {
			expiresAt = prev.ExpiresAt
		}
	}

	return &Rejection{
		Code:        AlreadyClaimed,
		Detail:      fmt.Sprintf("address already claimed, try again in %d hour(s)", hoursRemaining(expiresAt, now)),
		NextClaimAt: expiresAt,
	}
}

// originCount reads the current grant count for an origin. A missing counter
// counts as zero; an unparsable one is treated as zero and logged.
func (p *Pipeline) originCount(ctx context.Context, origin string) (int64, error) {
	raw, found, err := p.store.Get(ctx, originKey(origin))
	if err != nil {
		return 0, fmt.Errorf("failed to read origin counter: %w", err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("unparsable origin counter", "origin", origin, "value", raw)
		return 0, nil
	}
	return n, nil
}

// recordGrant finalizes the claim record and bumps the origin counter.
func (p *Pipeline) recordGrant(ctx context.Context, isAtomic bool, atomic store.AtomicStore, record ClaimRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to encode claim record", "address", record.Address, "err", err)
	} else if err := p.store.Put(ctx, claimKey(record.Address), string(raw), ClaimTTL); err != nil {
		slog.Error("failed to write claim record", "address", record.Address, "err", err)
	}

	if isAtomic {
		if _, err := atomic.Incr(ctx, originKey(record.Origin), OriginTTL); err != nil {
			slog.Error("failed to increment origin counter", "origin", record.Origin, "err", err)
		}
		return
	}

	count, err := p.originCount(ctx, record.Origin)
	if err != nil {
		slog.Error("failed to read origin counter", "origin", record.Origin, "err", err)
		count = 0
	}
	if err := p.store.Put(ctx, originKey(record.Origin), strconv.FormatInt(count+1, 10), OriginTTL); err != nil {
		slog.Error("failed to write origin counter", "origin", record.Origin, "err", err)
	}
}

// hoursRemaining rounds the time until expiry up to whole hours, so a record
// expiring in one second still reports one hour. User-facing only.
func hoursRemaining(expiresAt, now time.Time) int {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	hours := int(remaining / time.Hour)
	if remaining%time.Hour != 0 {
		hours++
	}
	return hours
}

func claimKey(address string) string { return claimKeyPrefix + address }
func originKey(origin string) string { return originKeyPrefix + origin }
