package faucet

import (
	"errors"
	"time"
)

// RejectionCode identifies why a claim was refused.
type RejectionCode string

const (
	InvalidAddress       RejectionCode = "invalid_address"
	VerificationRequired RejectionCode = "verification_required"
	VerificationFailed   RejectionCode = "verification_failed"
	AlreadyClaimed       RejectionCode = "already_claimed"
	OriginRateLimited    RejectionCode = "origin_rate_limited"
	TransferFailed       RejectionCode = "transfer_failed"
	InternalError        RejectionCode = "internal_error"
)

// Rejection is the typed terminal outcome for a refused claim.
type Rejection struct {
	Code   RejectionCode
	Detail string

	// NextClaimAt is set for rate-limit rejections: the earliest instant at
	// which a retry can succeed.
	NextClaimAt time.Time
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Code)
	}
	return string(r.Code) + ": " + r.Detail
}

// AsRejection extracts a *Rejection from err, if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
