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

type balanceStats struct {
	totalUsers        int
	totalHoldings     int
	usersWithHoldings int
}

func printHolding(holding models.Holding, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s %-10s: %20s (v%d, updated: %s)\n",
		symbol,
		holding.Asset,
		holding.Quantity.String(),
		holding.Version,
		holding.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printUserHeader(user models.User, balance string, holdingCount int) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("│  ID: %s\n", user.Id)
	fmt.Printf("│  Balance: %s USD\n", balance)
	fmt.Printf("│  Assets: %d\n", holdingCount)
	common.PrintBoxSeparator(78)
}

func processUser(ctx context.Context, user models.User, dbService *database.Service) (int, error) {
	balance, err := dbService.GetBalance(ctx, user.Id)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	holdings, err := dbService.GetAllHoldings(ctx, user.Id)
	if err != nil {
		return 0, fmt.Errorf("failed to get holdings: %w", err)
	}

	if balance.IsZero() && len(holdings) == 0 {
		return 0, nil
	}

	printUserHeader(user, balance.String(), len(holdings))
	for i, holding := range holdings {
		printHolding(holding, i == len(holdings)-1)
	}

	return len(holdings), nil
}

func resolveUsers(ctx context.Context, dbService *database.Service, email string) ([]models.User, error) {
	if email == "" {
		return dbService.GetUsers(ctx)
	}
	user, err := dbService.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return []models.User{*user}, nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	flag.Parse()

	logger.Info("Starting balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	users, err := resolveUsers(ctx, dbService, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to resolve users", zap.Error(err))
	}

	common.PrintHeader("USER BALANCE REPORT", common.DefaultWidth)

	stats := balanceStats{}
	for _, user := range users {
		stats.totalUsers++

		holdingCount, err := processUser(ctx, user, dbService)
		if err != nil {
			logger.Error("Failed to process user",
				zap.String("user_id", user.Id),
				zap.String("user_name", user.Name),
				zap.Error(err))
			continue
		}

		if holdingCount > 0 {
			stats.usersWithHoldings++
			stats.totalHoldings += holdingCount
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d users with holdings (%d total holdings across %d users queried)",
		stats.usersWithHoldings, stats.totalHoldings, stats.totalUsers)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("users_with_holdings", stats.usersWithHoldings),
		zap.Int("total_holdings", stats.totalHoldings))
}
