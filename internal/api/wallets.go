package api

import (
	"context"
	"fmt"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"go.uber.org/zap"
)

// CreateWalletConfig registers a deposit destination that users can claim
// deposits against.
func (s *LedgerService) CreateWalletConfig(ctx context.Context, params store.WalletConfigParams) (*models.WalletConfig, error) {
	if params.Asset == "" || params.Address == "" {
		return nil, fmt.Errorf("asset and address are required")
	}

	config, err := s.db.CreateWalletConfig(ctx, params)
	if err != nil {
		zap.L().Error("Wallet config creation failed",
			zap.String("asset", params.Asset),
			zap.Error(err))
		return nil, err
	}

	return config, nil
}

// UpdateWalletConfig replaces a wallet config's fields. Deactivating a config
// blocks new deposit claims against it but leaves existing claims untouched.
func (s *LedgerService) UpdateWalletConfig(ctx context.Context, configId string, params store.WalletConfigParams) (*models.WalletConfig, error) {
	if configId == "" {
		return nil, fmt.Errorf("config_id is required")
	}

	config, err := s.db.UpdateWalletConfig(ctx, configId, params)
	if err != nil {
		zap.L().Error("Wallet config update failed",
			zap.String("config_id", configId),
			zap.Error(err))
		return nil, err
	}

	return config, nil
}

// ListWalletConfigs returns wallet configs, optionally restricted to active
// ones. User-facing callers should pass activeOnly.
func (s *LedgerService) ListWalletConfigs(ctx context.Context, activeOnly bool) ([]models.WalletConfig, error) {
	return s.db.GetWalletConfigs(ctx, activeOnly)
}
