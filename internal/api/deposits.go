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

// SubmitDeposit validates and records a user's deposit claim against a
// configured wallet. The claim starts pending; no balance is touched until an
// admin approves it.
func (s *LedgerService) SubmitDeposit(ctx context.Context, userId, walletConfigId string, amount decimal.Decimal, proofUrl string) (*models.Deposit, error) {
	if userId == "" || walletConfigId == "" {
		return nil, fmt.Errorf("user_id and wallet_config_id are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidAmount, amount.String())
	}

	deposit, err := s.db.SubmitDeposit(ctx, store.SubmitDepositParams{
		UserId:         userId,
		WalletConfigId: walletConfigId,
		Amount:         amount,
		ProofUrl:       proofUrl,
	})
	if err != nil {
		if errors.Is(err, store.ErrWalletInactive) {
			zap.L().Warn("Deposit submitted against inactive wallet",
				zap.String("user_id", userId),
				zap.String("wallet_config_id", walletConfigId))
		} else {
			zap.L().Error("Deposit submission failed",
				zap.String("user_id", userId),
				zap.String("wallet_config_id", walletConfigId),
				zap.String("amount", amount.String()),
				zap.Error(err))
		}
		return nil, err
	}

	return deposit, nil
}

// ResolveDeposit applies an admin decision to a pending claim. The credit on
// approval is exactly-once: a second resolution fails with ErrAlreadyResolved
// and has no balance effect.
func (s *LedgerService) ResolveDeposit(ctx context.Context, claimId, decision, resolverId string) error {
	if claimId == "" || resolverId == "" {
		return fmt.Errorf("claim_id and resolver_id are required")
	}

	err := s.db.ResolveDeposit(ctx, claimId, decision, resolverId)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyResolved) {
			zap.L().Info("Deposit already resolved",
				zap.String("claim_id", claimId),
				zap.String("resolver_id", resolverId))
		} else {
			zap.L().Error("Deposit resolution failed",
				zap.String("claim_id", claimId),
				zap.String("decision", decision),
				zap.Error(err))
		}
		return err
	}

	return nil
}

// ListDeposits returns claims filtered by user and/or status. Admin callers
// pass an empty userId to see everyone's claims.
func (s *LedgerService) ListDeposits(ctx context.Context, userId, status string) ([]models.Deposit, error) {
	return s.db.GetDeposits(ctx, userId, status)
}
