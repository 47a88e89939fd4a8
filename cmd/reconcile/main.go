package main

import (
	"context"
	"flag"
	"fmt"

	"trade-desk-go/internal/common"
	"trade-desk-go/internal/config"
	"trade-desk-go/internal/database"
	"trade-desk-go/internal/models"

	"go.uber.org/zap"
)

type reconcileStats struct {
	usersChecked  int
	assetsChecked int
	mismatches    []string
}

// reconcileUser replays the user's ledger entries against the materialized
// balance, then replays trades against each asset's materialized holding.
func reconcileUser(ctx context.Context, dbService *database.Service, user models.User, assets []string, stats *reconcileStats) {
	stats.usersChecked++

	if err := dbService.ReconcileBalance(ctx, user.Id); err != nil {
		zap.L().Error("Balance reconciliation failed",
			zap.String("user_id", user.Id),
			zap.String("email", user.Email),
			zap.Error(err))
		fmt.Printf("✗ %s: balance mismatch (%v)\n", user.Email, err)
		stats.mismatches = append(stats.mismatches, fmt.Sprintf("%s/USD", user.Email))
	} else {
		fmt.Printf("✓ %s: balance consistent\n", user.Email)
	}

	for _, asset := range assets {
		stats.assetsChecked++
		if err := dbService.ReconcileHoldings(ctx, user.Id, asset); err != nil {
			zap.L().Error("Holdings reconciliation failed",
				zap.String("user_id", user.Id),
				zap.String("asset", asset),
				zap.Error(err))
			fmt.Printf("✗ %s: %s holdings mismatch (%v)\n", user.Email, asset, err)
			stats.mismatches = append(stats.mismatches, fmt.Sprintf("%s/%s", user.Email, asset))
		}
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Reconcile a single user by email (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	seed, err := common.LoadSeedFile(cfg.Oracle.AssetsFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed file",
			zap.String("file", cfg.Oracle.AssetsFile),
			zap.Error(err))
	}

	assets := make([]string, 0, len(seed.Assets))
	for _, mapping := range seed.Assets {
		assets = append(assets, mapping.Symbol)
	}

	var users []models.User
	if *emailFlag != "" {
		user, err := dbService.GetUserByEmail(ctx, *emailFlag)
		if err != nil {
			zap.L().Fatal("Failed to look up user",
				zap.String("email", *emailFlag),
				zap.Error(err))
		}
		users = []models.User{*user}
	} else {
		users, err = dbService.GetUsers(ctx)
		if err != nil {
			zap.L().Fatal("Failed to read users from database", zap.Error(err))
		}
	}

	common.PrintHeader("LEDGER RECONCILIATION", common.DefaultWidth)

	stats := reconcileStats{}
	for _, user := range users {
		reconcileUser(ctx, dbService, user, assets, &stats)
	}

	if lastTrade, err := dbService.GetMostRecentTradeTime(ctx); err == nil && !lastTrade.IsZero() {
		fmt.Printf("\nMost recent trade: %s\n", lastTrade.Format("2006-01-02 15:04:05"))
	}

	summary := fmt.Sprintf("SUMMARY: %d users, %d asset checks, %d mismatches",
		stats.usersChecked, stats.assetsChecked, len(stats.mismatches))
	common.PrintFooter(summary, common.DefaultWidth)

	if len(stats.mismatches) > 0 {
		zap.L().Fatal("Reconciliation found mismatches",
			zap.Strings("mismatches", stats.mismatches))
	}

	zap.L().Info("Reconciliation completed cleanly",
		zap.Int("users", stats.usersChecked),
		zap.Int("asset_checks", stats.assetsChecked))
}
