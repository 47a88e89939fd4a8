package main

import (
	"context"
	"os/signal"
	"syscall"

	"trade-desk-go/internal/api"
	"trade-desk-go/internal/common"
	"trade-desk-go/internal/config"
	"trade-desk-go/internal/oracle"
	"trade-desk-go/internal/server"
	"trade-desk-go/internal/session"
	"trade-desk-go/internal/uploads"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

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
		zap.L().Fatal("Failed to load asset configuration",
			zap.String("file", cfg.Oracle.AssetsFile),
			zap.Error(err))
	}

	uploadStore, err := uploads.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.BaseUrl)
	if err != nil {
		zap.L().Fatal("Failed to initialize upload store", zap.Error(err))
	}

	poller := oracle.NewPoller(oracle.PollerConfig{
		Client:          oracle.NewClient(cfg.Oracle.BaseUrl, cfg.Oracle.RequestTimeout),
		Assets:          seed.Assets,
		PollingInterval: cfg.Oracle.PollingInterval,
		MaxStaleness:    cfg.Oracle.MaxStaleness,
	})

	ledger := api.NewLedgerService(dbService, cfg.Trading.FeeRate)
	sessions := session.NewManager(cfg.Session.SigningKey, cfg.Session.TokenTTL)
	srv := server.New(cfg.Server, ledger, poller, sessions, uploadStore, cfg.Uploads.BaseUrl)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		poller.Start(groupCtx)
		return nil
	})

	group.Go(func() error {
		return srv.Run(groupCtx)
	})

	if err := group.Wait(); err != nil {
		zap.L().Fatal("Server exited with error", zap.Error(err))
	}

	poller.Stop()
	zap.L().Info("Shutdown complete")
}
