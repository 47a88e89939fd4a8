package api

import (
	"context"
	"errors"
	"fmt"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"go.uber.org/zap"
)

// SubmitWithdrawal validates the destination payload and reserves the funds.
// The debit happens at submission time so a user cannot queue requests beyond
// their balance while earlier ones are pending.
func (s *LedgerService) SubmitWithdrawal(ctx context.Context, params store.SubmitWithdrawalParams) (*models.Withdrawal, error) {
	if params.UserId == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	switch params.Type {
	case store.WithdrawalTypeCrypto:
		if params.WalletAddress == "" || params.WalletChain == "" {
			return nil, fmt.Errorf("wallet_address and wallet_chain are required for crypto withdrawals")
		}
	case store.WithdrawalTypeBank:
		if params.BankName == "" || params.BankAccount == "" || params.BankHolder == "" {
			return nil, fmt.Errorf("bank_name, bank_account and bank_holder are required for bank withdrawals")
		}
	default:
		return nil, fmt.Errorf("invalid withdrawal type %q", params.Type)
	}

	withdrawal, err := s.db.SubmitWithdrawal(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			zap.L().Info("Withdrawal rejected for insufficient funds",
				zap.String("user_id", params.UserId),
				zap.String("amount", params.Amount.String()))
		} else {
			zap.L().Error("Withdrawal submission failed",
				zap.String("user_id", params.UserId),
				zap.String("amount", params.Amount.String()),
				zap.Error(err))
		}
		return nil, err
	}

	return withdrawal, nil
}

// ResolveWithdrawal applies an admin decision. Rejection refunds the
// reservation; approval finalizes the debit taken at submission time.
func (s *LedgerService) ResolveWithdrawal(ctx context.Context, requestId, decision, resolverId string) error {
	if requestId == "" || resolverId == "" {
		return fmt.Errorf("request_id and resolver_id are required")
	}

	err := s.db.ResolveWithdrawal(ctx, requestId, decision, resolverId)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyResolved) {
			zap.L().Info("Withdrawal already resolved",
				zap.String("request_id", requestId),
				zap.String("resolver_id", resolverId))
		} else {
			zap.L().Error("Withdrawal resolution failed",
				zap.String("request_id", requestId),
				zap.String("decision", decision),
				zap.Error(err))
		}
		return err
	}

	return nil
}

// ListWithdrawals returns requests filtered by user and/or status.
func (s *LedgerService) ListWithdrawals(ctx context.Context, userId, status string) ([]models.Withdrawal, error) {
	return s.db.GetWithdrawals(ctx, userId, status)
}
