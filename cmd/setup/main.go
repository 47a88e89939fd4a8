package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"

	"trade-desk-go/internal/common"
	"trade-desk-go/internal/config"
	"trade-desk-go/internal/database"
	"trade-desk-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type seedStats struct {
	created int
	skipped int
	failed  []string
}

// seedWalletConfigs creates any wallet configs from the seed file that do not
// exist yet. Existing configs are matched by asset and address and left alone
// so re-running setup is safe.
func seedWalletConfigs(ctx context.Context, dbService *database.Service, wallets []common.WalletSeed) seedStats {
	existing, err := dbService.GetWalletConfigs(ctx, false)
	if err != nil {
		zap.L().Fatal("Failed to list wallet configs", zap.Error(err))
	}

	known := make(map[string]bool, len(existing))
	for _, cfg := range existing {
		known[cfg.Asset+"|"+cfg.Address] = true
	}

	stats := seedStats{}
	for _, seed := range wallets {
		if known[seed.Asset+"|"+seed.Address] {
			fmt.Printf("✓ %s: wallet config already exists\n", seed.Asset)
			stats.skipped++
			continue
		}

		created, err := dbService.CreateWalletConfig(ctx, seed.WalletConfigParams())
		if err != nil {
			zap.L().Error("Failed to create wallet config",
				zap.String("asset", seed.Asset),
				zap.Error(err))
			fmt.Printf("✗ %s: failed to create wallet config\n", seed.Asset)
			stats.failed = append(stats.failed, seed.Asset)
			continue
		}

		fmt.Printf("✓ %s: %s\n", created.Asset, created.Address)
		stats.created++
	}

	return stats
}

func bootstrapAdmin(ctx context.Context, dbService *database.Service, name, email string) *models.User {
	if _, err := dbService.GetUserByEmail(ctx, email); err == nil {
		zap.L().Info("Admin user already exists", zap.String("email", email))
		return nil
	}

	user, err := dbService.CreateUser(ctx, uuid.New().String(), name, email, "admin")
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			zap.L().Fatal("User already exists with this email", zap.String("email", email))
		}
		zap.L().Fatal("Failed to create admin user", zap.Error(err))
	}
	return user
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	adminNameFlag := flag.String("admin-name", "", "Bootstrap an admin user with this name (requires --admin-email)")
	adminEmailFlag := flag.String("admin-email", "", "Bootstrap an admin user with this email (requires --admin-name)")
	flag.Parse()

	if (*adminNameFlag == "") != (*adminEmailFlag == "") {
		zap.L().Fatal("--admin-name and --admin-email must be provided together")
	}
	if *adminEmailFlag != "" && !emailRegex.MatchString(*adminEmailFlag) {
		zap.L().Fatal("Invalid admin email", zap.String("email", *adminEmailFlag))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Setting up SQLite database", zap.String("path", cfg.Database.Path))
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

	fmt.Println()
	common.PrintHeader("WALLET CONFIG SEEDING", common.DefaultWidth)
	stats := seedWalletConfigs(ctx, dbService, seed.Wallets)
	summary := fmt.Sprintf("SUMMARY: %d created, %d skipped, %d failed",
		stats.created, stats.skipped, len(stats.failed))
	common.PrintFooter(summary, common.DefaultWidth)

	if len(stats.failed) > 0 {
		zap.L().Warn("Setup completed with some failures",
			zap.Strings("failed_assets", stats.failed))
	}

	if *adminEmailFlag != "" {
		if user := bootstrapAdmin(ctx, dbService, *adminNameFlag, *adminEmailFlag); user != nil {
			fmt.Println()
			common.PrintHeader("ADMIN USER CREATED", common.DefaultWidth)
			fmt.Printf("ID:    %s\n", user.Id)
			fmt.Printf("Name:  %s\n", user.Name)
			fmt.Printf("Email: %s\n", user.Email)
			common.PrintSeparator("=", common.DefaultWidth)
			fmt.Println()
		}
	}

	zap.L().Info("Setup complete",
		zap.Int("wallets_created", stats.created),
		zap.Int("wallets_skipped", stats.skipped),
		zap.Int("priced_assets", len(seed.Assets)))
}
