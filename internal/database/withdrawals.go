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

// SubmitWithdrawal reserves funds at submission time: the balance debit and
// the request insert happen in one transaction. An insufficient balance fails
// the whole submission and no request row is created.
func (s *Service) SubmitWithdrawal(ctx context.Context, params store.SubmitWithdrawalParams) (*models.Withdrawal, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdrawal amount %s", store.ErrInvalidAmount, params.Amount.String())
	}
	if params.Type != store.WithdrawalTypeCrypto && params.Type != store.WithdrawalTypeBank {
		return nil, fmt.Errorf("invalid withdrawal type %q", params.Type)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	requestId := uuid.New().String()

	if _, _, err := s.applyBalanceDeltaTx(ctx, tx, params.UserId, params.Amount.Neg(), entryTypeWithdrawalHold, requestId); err != nil {
		return nil, fmt.Errorf("failed to reserve withdrawal funds: %w", err)
	}

	withdrawal, err := scanWithdrawal(tx.QueryRowContext(ctx, queryInsertWithdrawal,
		requestId, params.UserId, params.Amount.String(), params.Type,
		params.WalletAddress, params.WalletChain,
		params.BankName, params.BankAccount, params.BankHolder))
	if err != nil {
		return nil, fmt.Errorf("failed to insert withdrawal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Withdrawal request submitted",
		zap.String("request_id", withdrawal.Id),
		zap.String("user_id", withdrawal.UserId),
		zap.String("type", withdrawal.Type),
		zap.String("amount", withdrawal.Amount.String()))
	return withdrawal, nil
}

// ResolveWithdrawal flips a pending request to approved or rejected exactly
// once. Rejection refunds the reservation in the same transaction; approval
// leaves the balance as debited at submission time.
func (s *Service) ResolveWithdrawal(ctx context.Context, requestId, decision, resolverId string) error {
	if decision != store.DecisionApproved && decision != store.DecisionRejected {
		return fmt.Errorf("invalid decision %q", decision)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userId, amountStr, status string
	err = tx.QueryRowContext(ctx, queryGetWithdrawalForUpdate, requestId).Scan(&userId, &amountStr, &status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: withdrawal %s", store.ErrNotFound, requestId)
	}
	if err != nil {
		return fmt.Errorf("failed to get withdrawal: %w", err)
	}
	if status != "pending" {
		return fmt.Errorf("%w: withdrawal %s is %s", store.ErrAlreadyResolved, requestId, status)
	}

	result, err := tx.ExecContext(ctx, queryResolveWithdrawal, decision, resolverId, requestId)
	if err != nil {
		return fmt.Errorf("failed to resolve withdrawal: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: withdrawal %s", store.ErrAlreadyResolved, requestId)
	}

	if decision == store.DecisionRejected {
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("failed to parse withdrawal amount %q: %w", amountStr, err)
		}
		if _, _, err := s.applyBalanceDeltaTx(ctx, tx, userId, amount, entryTypeWithdrawalRefund, requestId); err != nil {
			return fmt.Errorf("failed to refund withdrawal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Withdrawal request resolved",
		zap.String("request_id", requestId),
		zap.String("decision", decision),
		zap.String("resolver_id", resolverId),
		zap.String("user_id", userId))
	return nil
}

// GetWithdrawals returns withdrawal requests, optionally filtered by user and status.
func (s *Service) GetWithdrawals(ctx context.Context, userId, status string) ([]models.Withdrawal, error) {
	rows, err := s.db.QueryContext(ctx, queryGetWithdrawals, userId, userId, status, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var withdrawals []models.Withdrawal
	for rows.Next() {
		withdrawal, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *withdrawal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawal rows: %w", err)
	}
	return withdrawals, nil
}

func scanWithdrawal(row rowScanner) (*models.Withdrawal, error) {
	var w models.Withdrawal
	var amountStr string
	var resolvedAt sql.NullTime
	err := row.Scan(&w.Id, &w.UserId, &amountStr, &w.Type,
		&w.WalletAddress, &w.WalletChain, &w.BankName, &w.BankAccount, &w.BankHolder,
		&w.Status, &w.ResolvedBy, &resolvedAt, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
	}
	if w.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse withdrawal amount %q: %w", amountStr, err)
	}
	if resolvedAt.Valid {
		w.ResolvedAt = resolvedAt.Time
	}
	return &w, nil
}
