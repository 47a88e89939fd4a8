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

// Ledger entry types written by the deposit and withdrawal workflows.
const (
	entryTypeDeposit          = "deposit"
	entryTypeWithdrawalHold   = "withdrawal_hold"
	entryTypeWithdrawalRefund = "withdrawal_refund"
)

// SubmitDeposit creates a pending deposit claim. The claimed amount must be
// positive and the target wallet configuration must exist and be active.
func (s *Service) SubmitDeposit(ctx context.Context, params store.SubmitDepositParams) (*models.Deposit, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit amount %s", store.ErrInvalidAmount, params.Amount.String())
	}

	var active bool
	err := s.db.QueryRowContext(ctx, queryGetActiveWalletConfig, params.WalletConfigId).Scan(&active)
	if err == sql.ErrNoRows || (err == nil && !active) {
		return nil, fmt.Errorf("%w: wallet config %s", store.ErrWalletInactive, params.WalletConfigId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet config: %w", err)
	}

	deposit, err := scanDeposit(s.db.QueryRowContext(ctx, queryInsertDeposit,
		uuid.New().String(), params.UserId, params.WalletConfigId,
		params.Amount.String(), params.ProofUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to insert deposit: %w", err)
	}

	zap.L().Info("Deposit claim submitted",
		zap.String("claim_id", deposit.Id),
		zap.String("user_id", deposit.UserId),
		zap.String("wallet_config_id", deposit.WalletConfigId),
		zap.String("amount", deposit.Amount.String()))
	return deposit, nil
}

// ResolveDeposit flips a pending claim to approved or rejected exactly once.
// Approval credits the user's balance in the same database transaction as the
// status transition, so a failed credit leaves the claim pending.
func (s *Service) ResolveDeposit(ctx context.Context, claimId, decision, resolverId string) error {
	if decision != store.DecisionApproved && decision != store.DecisionRejected {
		return fmt.Errorf("invalid decision %q", decision)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userId, amountStr, status string
	err = tx.QueryRowContext(ctx, queryGetDepositForUpdate, claimId).Scan(&userId, &amountStr, &status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: deposit %s", store.ErrNotFound, claimId)
	}
	if err != nil {
		return fmt.Errorf("failed to get deposit: %w", err)
	}
	if status != "pending" {
		return fmt.Errorf("%w: deposit %s is %s", store.ErrAlreadyResolved, claimId, status)
	}

	result, err := tx.ExecContext(ctx, queryResolveDeposit, decision, resolverId, claimId)
	if err != nil {
		return fmt.Errorf("failed to resolve deposit: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: deposit %s", store.ErrAlreadyResolved, claimId)
	}

	if decision == store.DecisionApproved {
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("failed to parse deposit amount %q: %w", amountStr, err)
		}
		if _, _, err := s.applyBalanceDeltaTx(ctx, tx, userId, amount, entryTypeDeposit, claimId); err != nil {
			return fmt.Errorf("failed to credit deposit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Deposit claim resolved",
		zap.String("claim_id", claimId),
		zap.String("decision", decision),
		zap.String("resolver_id", resolverId),
		zap.String("user_id", userId))
	return nil
}

// GetDeposits returns deposit claims, optionally filtered by user and status.
func (s *Service) GetDeposits(ctx context.Context, userId, status string) ([]models.Deposit, error) {
	rows, err := s.db.QueryContext(ctx, queryGetDeposits, userId, userId, status, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var deposits []models.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, *deposit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposit rows: %w", err)
	}
	return deposits, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeposit(row rowScanner) (*models.Deposit, error) {
	var d models.Deposit
	var amountStr string
	var resolvedAt sql.NullTime
	err := row.Scan(&d.Id, &d.UserId, &d.WalletConfigId, &amountStr, &d.ProofUrl,
		&d.Status, &d.ResolvedBy, &resolvedAt, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan deposit: %w", err)
	}
	if d.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse deposit amount %q: %w", amountStr, err)
	}
	if resolvedAt.Valid {
		d.ResolvedAt = resolvedAt.Time
	}
	return &d, nil
}
