package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetBalance returns the current fiat balance for a user. A missing balance
// row means zero, not an error.
func (s *Service) GetBalance(ctx context.Context, userId string) (decimal.Decimal, error) {
	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetBalance, userId).Scan(&balanceStr)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		zap.L().Error("Failed to get balance", zap.String("user_id", userId), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance %q: %w", balanceStr, err)
	}
	return balance, nil
}

// GetHolding returns the materialized quantity for a user/asset, zero if none.
func (s *Service) GetHolding(ctx context.Context, userId, asset string) (decimal.Decimal, error) {
	var quantityStr string
	err := s.db.QueryRowContext(ctx, queryGetHolding, userId, asset).Scan(&quantityStr)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		zap.L().Error("Failed to get holding",
			zap.String("user_id", userId),
			zap.String("asset", asset),
			zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get holding: %w", err)
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse quantity %q: %w", quantityStr, err)
	}
	return quantity, nil
}

// GetAllHoldings returns all non-zero holdings for a user.
func (s *Service) GetAllHoldings(ctx context.Context, userId string) ([]models.Holding, error) {
	rows, err := s.db.QueryContext(ctx, queryGetAllHoldings, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		var quantityStr string
		if err := rows.Scan(&h.Id, &h.UserId, &h.Asset, &quantityStr, &h.Version, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		h.Quantity, err = decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quantity %q: %w", quantityStr, err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding rows: %w", err)
	}
	return holdings, nil
}

// ApplyBalanceDelta atomically adds delta to the user's balance and appends a
// ledger entry. Fails with store.ErrInsufficientFunds if the result would be
// negative; on failure nothing is persisted.
func (s *Service) ApplyBalanceDelta(ctx context.Context, userId string, delta decimal.Decimal, entryType, referenceId string) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, newBalance, err := s.applyBalanceDeltaTx(ctx, tx, userId, delta, entryType, referenceId)
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newBalance, nil
}

// applyBalanceDeltaTx is the single enforcement point for the no-negative-
// balance invariant. It must be called inside an open transaction; workflow
// operations combine it with their own writes so either everything commits or
// nothing does.
func (s *Service) applyBalanceDeltaTx(ctx context.Context, tx *sql.Tx, userId string, delta decimal.Decimal, entryType, referenceId string) (decimal.Decimal, decimal.Decimal, error) {
	var accountId, balanceStr string
	var version int64

	err := tx.QueryRowContext(ctx, queryGetBalanceForUpdate, userId).Scan(&accountId, &balanceStr, &version)

	var currentBalance decimal.Decimal
	if err == sql.ErrNoRows {
		accountId = uuid.New().String()
		currentBalance = decimal.Zero
		version = 1
		if _, err := tx.ExecContext(ctx, queryInsertBalance, accountId, userId, "0", 1); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to create balance record: %w", err)
		}
	} else if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to get current balance: %w", err)
	} else {
		currentBalance, err = decimal.NewFromString(balanceStr)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to parse current balance %q: %w", balanceStr, err)
		}
	}

	newBalance := currentBalance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: balance %s, delta %s",
			store.ErrInsufficientFunds, currentBalance.String(), delta.String())
	}

	entryId := uuid.New().String()
	_, err = tx.ExecContext(ctx, queryInsertLedgerEntry,
		entryId, userId, entryType,
		delta.String(), currentBalance.String(), newBalance.String(), referenceId)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryUpdateBalance, newBalance.String(), entryId, userId, version)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("balance update failed: %w", store.ErrConcurrentModification)
	}

	return currentBalance, newBalance, nil
}

// adjustHoldingTx adds delta to a user's asset holding inside an open
// transaction. A negative result fails with store.ErrInsufficientHoldings.
func (s *Service) adjustHoldingTx(ctx context.Context, tx *sql.Tx, userId, asset string, delta decimal.Decimal) (decimal.Decimal, error) {
	var holdingId, quantityStr string
	var version int64

	err := tx.QueryRowContext(ctx, queryGetHoldingForUpdate, userId, asset).Scan(&holdingId, &quantityStr, &version)

	var currentQuantity decimal.Decimal
	if err == sql.ErrNoRows {
		holdingId = uuid.New().String()
		currentQuantity = decimal.Zero
		version = 1
		if _, err := tx.ExecContext(ctx, queryInsertHolding, holdingId, userId, asset, "0", 1); err != nil {
			return decimal.Zero, fmt.Errorf("failed to create holding record: %w", err)
		}
	} else if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get current holding: %w", err)
	} else {
		currentQuantity, err = decimal.NewFromString(quantityStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse current quantity %q: %w", quantityStr, err)
		}
	}

	newQuantity := currentQuantity.Add(delta)
	if newQuantity.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: holding %s, delta %s",
			store.ErrInsufficientHoldings, currentQuantity.String(), delta.String())
	}

	result, err := tx.ExecContext(ctx, queryUpdateHolding, newQuantity.String(), userId, asset, version)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update holding: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, fmt.Errorf("holding update failed: %w", store.ErrConcurrentModification)
	}

	return newQuantity, nil
}

// GetLedgerHistory returns paginated balance mutation history for a user.
func (s *Service) GetLedgerHistory(ctx context.Context, userId string, limit, offset int) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, queryGetLedgerHistory, userId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var amountStr, beforeStr, afterStr string
		err := rows.Scan(&e.Id, &e.UserId, &e.EntryType, &amountStr, &beforeStr, &afterStr, &e.ReferenceId, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
		}
		if e.BalanceBefore, err = decimal.NewFromString(beforeStr); err != nil {
			return nil, fmt.Errorf("failed to parse balance_before %q: %w", beforeStr, err)
		}
		if e.BalanceAfter, err = decimal.NewFromString(afterStr); err != nil {
			return nil, fmt.Errorf("failed to parse balance_after %q: %w", afterStr, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return entries, nil
}

// ReconcileBalance verifies that the materialized balance equals the sum of
// all ledger entries for the user. The sum is folded in Go so decimal values
// stay exact.
func (s *Service) ReconcileBalance(ctx context.Context, userId string) error {
	currentBalance, err := s.GetBalance(ctx, userId)
	if err != nil {
		return fmt.Errorf("failed to get current balance: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, queryGetLedgerEntriesForUser, userId)
	if err != nil {
		return fmt.Errorf("failed to read ledger entries: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	calculated := decimal.Zero
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			return fmt.Errorf("failed to scan ledger amount: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("failed to parse ledger amount %q: %w", amountStr, err)
		}
		calculated = calculated.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating ledger rows: %w", err)
	}

	if !currentBalance.Equal(calculated) {
		zap.L().Error("Balance reconciliation failed",
			zap.String("user_id", userId),
			zap.String("current_balance", currentBalance.String()),
			zap.String("calculated_balance", calculated.String()),
			zap.String("difference", currentBalance.Sub(calculated).String()))
		return fmt.Errorf("balance mismatch: current=%s, calculated=%s", currentBalance.String(), calculated.String())
	}

	return nil
}

// ReconcileHoldings verifies that the materialized holding equals the signed
// sum of trade quantities for the user/asset.
func (s *Service) ReconcileHoldings(ctx context.Context, userId, asset string) error {
	currentQuantity, err := s.GetHolding(ctx, userId, asset)
	if err != nil {
		return fmt.Errorf("failed to get current holding: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, queryGetTradeQuantities, userId, asset)
	if err != nil {
		return fmt.Errorf("failed to read trades: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	calculated := decimal.Zero
	for rows.Next() {
		var side, quantityStr string
		if err := rows.Scan(&side, &quantityStr); err != nil {
			return fmt.Errorf("failed to scan trade: %w", err)
		}
		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return fmt.Errorf("failed to parse trade quantity %q: %w", quantityStr, err)
		}
		if side == store.SideSell {
			quantity = quantity.Neg()
		}
		calculated = calculated.Add(quantity)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating trade rows: %w", err)
	}

	if !currentQuantity.Equal(calculated) {
		zap.L().Error("Holdings reconciliation failed",
			zap.String("user_id", userId),
			zap.String("asset", asset),
			zap.String("current_quantity", currentQuantity.String()),
			zap.String("calculated_quantity", calculated.String()))
		return fmt.Errorf("holdings mismatch: current=%s, calculated=%s", currentQuantity.String(), calculated.String())
	}

	return nil
}

// GetMostRecentTradeTime returns the timestamp of the latest trade, or zero
// time if no trades exist.
func (s *Service) GetMostRecentTradeTime(ctx context.Context) (time.Time, error) {
	var timestampStr sql.NullString
	err := s.db.QueryRowContext(ctx, queryGetMostRecentTradeTime).Scan(&timestampStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get most recent trade time: %w", err)
	}
	if !timestampStr.Valid || timestampStr.String == "" {
		return time.Time{}, nil
	}
	return parseSqliteTimestamp(timestampStr.String)
}

// parseSqliteTimestamp handles the formats SQLite emits for TIMESTAMP columns.
func parseSqliteTimestamp(value string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05.999999-07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", strings.TrimSpace(value))
}
