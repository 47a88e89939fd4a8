package main

import (
	"context"
	"flag"
	"fmt"

	"trade-desk-go/internal/common"
	"trade-desk-go/internal/config"
	"trade-desk-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "User's email address (required)")
	flag.Parse()

	if *emailFlag == "" {
		zap.L().Fatal("Flag is required: --email")
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	user, err := dbService.GetUserByEmail(ctx, *emailFlag)
	if err != nil {
		zap.L().Fatal("Failed to look up user",
			zap.String("email", *emailFlag),
			zap.Error(err))
	}

	sessions := session.NewManager(cfg.Session.SigningKey, cfg.Session.TokenTTL)
	token, err := sessions.Issue(user.Id, user.Role)
	if err != nil {
		zap.L().Fatal("Failed to issue token", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("SESSION TOKEN", common.DefaultWidth)
	fmt.Printf("User:    %s (%s)\n", user.Name, user.Email)
	fmt.Printf("Role:    %s\n", user.Role)
	fmt.Printf("Expires: in %s\n", cfg.Session.TokenTTL)
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println(token)
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()
}
