package database

import (
	"context"
	"database/sql"
	"fmt"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateWalletConfig creates a new deposit-target configuration (admin only;
// the caller enforces the role).
func (s *Service) CreateWalletConfig(ctx context.Context, params store.WalletConfigParams) (*models.WalletConfig, error) {
	if params.Asset == "" || params.Address == "" {
		return nil, fmt.Errorf("asset and address are required")
	}

	config, err := scanWalletConfig(s.db.QueryRowContext(ctx, queryInsertWalletConfig,
		uuid.New().String(), params.Asset, params.DisplayName, params.Network,
		params.Address, params.QrUrl, params.Active))
	if err != nil {
		return nil, fmt.Errorf("failed to insert wallet config: %w", err)
	}

	zap.L().Info("Wallet config created",
		zap.String("config_id", config.Id),
		zap.String("asset", config.Asset),
		zap.String("network", config.Network),
		zap.Bool("active", config.Active))
	return config, nil
}

// UpdateWalletConfig replaces the editable fields of a configuration.
// Deactivation happens here by setting Active to false; existing deposits are
// unaffected, new submissions against the config fail.
func (s *Service) UpdateWalletConfig(ctx context.Context, configId string, params store.WalletConfigParams) (*models.WalletConfig, error) {
	result, err := s.db.ExecContext(ctx, queryUpdateWalletConfig,
		params.Asset, params.DisplayName, params.Network,
		params.Address, params.QrUrl, params.Active, configId)
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet config: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: wallet config %s", store.ErrNotFound, configId)
	}

	config, err := scanWalletConfig(s.db.QueryRowContext(ctx, queryGetWalletConfigById, configId))
	if err != nil {
		return nil, fmt.Errorf("failed to reload wallet config: %w", err)
	}

	zap.L().Info("Wallet config updated",
		zap.String("config_id", config.Id),
		zap.String("asset", config.Asset),
		zap.Bool("active", config.Active))
	return config, nil
}

// GetWalletConfigs lists configurations. The deposit flow passes
// activeOnly=true so disabled targets are never offered.
func (s *Service) GetWalletConfigs(ctx context.Context, activeOnly bool) ([]models.WalletConfig, error) {
	activeFlag := 0
	if activeOnly {
		activeFlag = 1
	}

	rows, err := s.db.QueryContext(ctx, queryGetWalletConfigs, activeFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet configs: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var configs []models.WalletConfig
	for rows.Next() {
		config, err := scanWalletConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet config rows: %w", err)
	}
	return configs, nil
}

func scanWalletConfig(row rowScanner) (*models.WalletConfig, error) {
	var c models.WalletConfig
	err := row.Scan(&c.Id, &c.Asset, &c.DisplayName, &c.Network,
		&c.Address, &c.QrUrl, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallet config: %w", err)
	}
	return &c, nil
}
