package api

import (
	"context"
	"fmt"

	"trade-desk-go/internal/store"

	"github.com/shopspring/decimal"
)

// LedgerService is the workflow layer over the ledger store. It owns input
// validation and the trade fee rate; all balance-affecting work is delegated
// to the store's atomic operations.
type LedgerService struct {
	db      store.LedgerStore
	feeRate decimal.Decimal
}

func NewLedgerService(db store.LedgerStore, feeRate decimal.Decimal) *LedgerService {
	return &LedgerService{
		db:      db,
		feeRate: feeRate,
	}
}

// FeeRate returns the configured trade fee rate.
func (s *LedgerService) FeeRate() decimal.Decimal {
	return s.feeRate
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if _, err := s.db.GetWalletConfigs(ctx, true); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}
