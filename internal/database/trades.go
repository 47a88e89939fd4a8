package database

import (
	"context"
	"database/sql"
	"fmt"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	entryTypeTradeBuy  = "trade_buy"
	entryTypeTradeSell = "trade_sell"
)

// ExecuteTrade settles a buy or sell as one atomic unit: the balance
// mutation, the holding adjustment and the immutable trade record either all
// commit or none do. Buys debit total+fee; sells require sufficient holdings
// and credit total-fee.
func (s *Service) ExecuteTrade(ctx context.Context, params store.ExecuteTradeParams) (*models.Trade, error) {
	if params.Side != store.SideBuy && params.Side != store.SideSell {
		return nil, fmt.Errorf("invalid trade side %q", params.Side)
	}
	if params.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: trade quantity %s", store.ErrInvalidAmount, params.Quantity.String())
	}
	if params.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: unit price %s", store.ErrInvalidAmount, params.UnitPrice.String())
	}
	if params.FeeRate.IsNegative() {
		return nil, fmt.Errorf("%w: fee rate %s", store.ErrInvalidAmount, params.FeeRate.String())
	}

	total := params.Quantity.Mul(params.UnitPrice)
	fee := total.Mul(params.FeeRate)

	// Idempotency: a repeated client key must not settle twice.
	if params.IdempotencyKey != "" {
		var existingId string
		err := s.db.QueryRowContext(ctx, queryCheckDuplicateTrade, params.IdempotencyKey).Scan(&existingId)
		if err == nil {
			zap.L().Warn("Duplicate trade idempotency key, skipping",
				zap.String("idempotency_key", params.IdempotencyKey),
				zap.String("existing_trade_id", existingId))
			return nil, fmt.Errorf("%w: idempotency key %s already used", store.ErrDuplicateTrade, params.IdempotencyKey)
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to check for duplicate trade: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tradeId := uuid.New().String()

	switch params.Side {
	case store.SideBuy:
		required := total.Add(fee)
		if _, _, err := s.applyBalanceDeltaTx(ctx, tx, params.UserId, required.Neg(), entryTypeTradeBuy, tradeId); err != nil {
			return nil, err
		}
		if _, err := s.adjustHoldingTx(ctx, tx, params.UserId, params.Asset, params.Quantity); err != nil {
			return nil, err
		}
	case store.SideSell:
		if _, err := s.adjustHoldingTx(ctx, tx, params.UserId, params.Asset, params.Quantity.Neg()); err != nil {
			return nil, err
		}
		proceeds := total.Sub(fee)
		if _, _, err := s.applyBalanceDeltaTx(ctx, tx, params.UserId, proceeds, entryTypeTradeSell, tradeId); err != nil {
			return nil, err
		}
	}

	// Record append comes last; the commit below makes it and the balance
	// mutation visible together.
	var idempotencyKey any
	if params.IdempotencyKey != "" {
		idempotencyKey = params.IdempotencyKey
	}
	trade, err := scanTrade(tx.QueryRowContext(ctx, queryInsertTrade,
		tradeId, params.UserId, params.Side, params.Asset,
		params.Quantity.String(), params.UnitPrice.String(),
		total.String(), fee.String(), idempotencyKey))
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Trade settled",
		zap.String("trade_id", trade.Id),
		zap.String("user_id", trade.UserId),
		zap.String("side", trade.Side),
		zap.String("asset", trade.Asset),
		zap.String("quantity", trade.Quantity.String()),
		zap.String("unit_price", trade.UnitPrice.String()),
		zap.String("total", trade.Total.String()),
		zap.String("fee", trade.Fee.String()))
	return trade, nil
}

// GetTrades returns paginated trade history for a user, optionally filtered
// by asset.
func (s *Service) GetTrades(ctx context.Context, userId, asset string, limit, offset int) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTrades, userId, asset, asset, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var quantityStr, unitPriceStr, totalStr, feeStr string
	var idempotencyKey sql.NullString
	err := row.Scan(&t.Id, &t.UserId, &t.Side, &t.Asset,
		&quantityStr, &unitPriceStr, &totalStr, &feeStr, &idempotencyKey, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}
	if t.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse trade quantity %q: %w", quantityStr, err)
	}
	if t.UnitPrice, err = decimal.NewFromString(unitPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse unit price %q: %w", unitPriceStr, err)
	}
	if t.Total, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("failed to parse trade total %q: %w", totalStr, err)
	}
	if t.Fee, err = decimal.NewFromString(feeStr); err != nil {
		return nil, fmt.Errorf("failed to parse trade fee %q: %w", feeStr, err)
	}
	if idempotencyKey.Valid {
		t.IdempotencyKey = idempotencyKey.String
	}
	return &t, nil
}
