package api

import (
	"context"
	"fmt"

	"trade-desk-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetBalance returns the current fiat balance for a user (zero if no ledger
// activity yet).
func (s *LedgerService) GetBalance(ctx context.Context, userId string) (decimal.Decimal, error) {
	if userId == "" {
		return decimal.Zero, fmt.Errorf("user_id is required")
	}

	balance, err := s.db.GetBalance(ctx, userId)
	if err != nil {
		zap.L().Error("Failed to get balance", zap.String("user_id", userId), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to retrieve balance")
	}
	return balance, nil
}

// GetHolding returns the quantity held for an asset (zero if none).
func (s *LedgerService) GetHolding(ctx context.Context, userId, asset string) (decimal.Decimal, error) {
	if userId == "" || asset == "" {
		return decimal.Zero, fmt.Errorf("user_id and asset are required")
	}

	holding, err := s.db.GetHolding(ctx, userId, asset)
	if err != nil {
		zap.L().Error("Failed to get holding",
			zap.String("user_id", userId),
			zap.String("asset", asset),
			zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to retrieve holding")
	}
	return holding, nil
}

// GetHoldings returns all non-zero asset positions for a user.
func (s *LedgerService) GetHoldings(ctx context.Context, userId string) ([]models.HoldingSummary, error) {
	if userId == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	holdings, err := s.db.GetAllHoldings(ctx, userId)
	if err != nil {
		zap.L().Error("Failed to get holdings", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve holdings")
	}

	result := make([]models.HoldingSummary, len(holdings))
	for i, h := range holdings {
		result[i] = models.HoldingSummary{
			Asset:    h.Asset,
			Quantity: h.Quantity,
		}
	}
	return result, nil
}

// GetLedgerHistory returns paginated balance mutation history.
func (s *LedgerService) GetLedgerHistory(ctx context.Context, userId string, limit, offset int) ([]models.LedgerRecord, error) {
	if userId == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.db.GetLedgerHistory(ctx, userId, limit, offset)
	if err != nil {
		zap.L().Error("Failed to get ledger history", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve ledger history")
	}

	result := make([]models.LedgerRecord, len(entries))
	for i, e := range entries {
		result[i] = models.LedgerRecord{
			Id:           e.Id,
			Type:         e.EntryType,
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			ReferenceId:  e.ReferenceId,
			CreatedAt:    e.CreatedAt,
		}
	}
	return result, nil
}
