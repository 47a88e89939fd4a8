package api

import (
	"context"
	"errors"
	"fmt"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExecuteTradeParams is the caller-facing shape of a trade request. UnitPrice
// comes from a price snapshot the caller obtained; the ledger never fetches
// market data itself.
type ExecuteTradeParams struct {
	UserId         string
	Side           string
	Asset          string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	IdempotencyKey string
}

// ExecuteTrade validates and settles a trade at the configured fee rate. On
// success the returned result carries the post-trade balance and holding.
func (s *LedgerService) ExecuteTrade(ctx context.Context, params ExecuteTradeParams) (*models.TradeResult, error) {
	if params.UserId == "" || params.Asset == "" {
		return nil, fmt.Errorf("user_id and asset are required")
	}
	if params.Quantity.LessThanOrEqual(decimal.Zero) || params.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity %s at price %s",
			store.ErrInvalidAmount, params.Quantity.String(), params.UnitPrice.String())
	}

	trade, err := s.db.ExecuteTrade(ctx, store.ExecuteTradeParams{
		UserId:         params.UserId,
		Side:           params.Side,
		Asset:          params.Asset,
		Quantity:       params.Quantity,
		UnitPrice:      params.UnitPrice,
		FeeRate:        s.feeRate,
		IdempotencyKey: params.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientFunds):
			zap.L().Info("Trade rejected for insufficient funds",
				zap.String("user_id", params.UserId),
				zap.String("asset", params.Asset),
				zap.String("quantity", params.Quantity.String()))
		case errors.Is(err, store.ErrInsufficientHoldings):
			zap.L().Info("Trade rejected for insufficient holdings",
				zap.String("user_id", params.UserId),
				zap.String("asset", params.Asset),
				zap.String("quantity", params.Quantity.String()))
		case errors.Is(err, store.ErrDuplicateTrade):
			zap.L().Info("Duplicate trade detected",
				zap.String("user_id", params.UserId),
				zap.String("idempotency_key", params.IdempotencyKey))
		default:
			zap.L().Error("Trade execution failed",
				zap.String("user_id", params.UserId),
				zap.String("side", params.Side),
				zap.String("asset", params.Asset),
				zap.Error(err))
		}
		return nil, err
	}

	newBalance, err := s.db.GetBalance(ctx, params.UserId)
	if err != nil {
		zap.L().Error("Balance lookup failed after trade", zap.String("user_id", params.UserId), zap.Error(err))
		return nil, fmt.Errorf("balance lookup failed after trade: %w", err)
	}
	newHolding, err := s.db.GetHolding(ctx, params.UserId, params.Asset)
	if err != nil {
		zap.L().Error("Holding lookup failed after trade",
			zap.String("user_id", params.UserId),
			zap.String("asset", params.Asset),
			zap.Error(err))
		return nil, fmt.Errorf("holding lookup failed after trade: %w", err)
	}

	return &models.TradeResult{
		TradeId:    trade.Id,
		Side:       trade.Side,
		Asset:      trade.Asset,
		Quantity:   trade.Quantity,
		UnitPrice:  trade.UnitPrice,
		Total:      trade.Total,
		Fee:        trade.Fee,
		NewBalance: newBalance,
		NewHolding: newHolding,
		ExecutedAt: trade.CreatedAt,
	}, nil
}

// ListTrades returns paginated trade history.
func (s *LedgerService) ListTrades(ctx context.Context, userId, asset string, limit, offset int) ([]models.Trade, error) {
	if userId == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.db.GetTrades(ctx, userId, asset, limit, offset)
}
