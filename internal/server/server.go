package server

import (
	"context"
	"net/http"

	"trade-desk-go/internal/api"
	"trade-desk-go/internal/models"
	"trade-desk-go/internal/oracle"
	"trade-desk-go/internal/session"
	"trade-desk-go/internal/uploads"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wires the workflow service, price poller, session manager and upload
// store behind the HTTP API.
type Server struct {
	ledger   *api.LedgerService
	poller   *oracle.Poller
	sessions *session.Manager
	uploads  *uploads.DiskStore
	cfg      models.ServerConfig

	engine *gin.Engine
	http   *http.Server
}

func New(cfg models.ServerConfig, ledger *api.LedgerService, poller *oracle.Poller, sessions *session.Manager, uploadStore *uploads.DiskStore, uploadsBaseUrl string) *Server {
	s := &Server{
		ledger:   ledger,
		poller:   poller,
		sessions: sessions,
		uploads:  uploadStore,
		cfg:      cfg,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.handleHealth)
	engine.Static(uploadsBaseUrl, uploadStore.Dir())

	apiGroup := engine.Group("/api", s.authMiddleware())
	{
		apiGroup.GET("/balance", s.handleGetBalance)
		apiGroup.GET("/holdings", s.handleGetHoldings)
		apiGroup.GET("/holdings/:asset", s.handleGetHolding)
		apiGroup.GET("/ledger", s.handleGetLedgerHistory)

		apiGroup.GET("/wallets", s.handleGetActiveWallets)
		apiGroup.POST("/uploads", s.handleUpload)

		apiGroup.POST("/deposits", s.handleSubmitDeposit)
		apiGroup.GET("/deposits", s.handleListOwnDeposits)

		apiGroup.POST("/withdrawals", s.handleSubmitWithdrawal)
		apiGroup.GET("/withdrawals", s.handleListOwnWithdrawals)

		apiGroup.POST("/trades", s.handleExecuteTrade)
		apiGroup.GET("/trades", s.handleListTrades)

		apiGroup.GET("/prices", s.handleGetPrices)
		apiGroup.GET("/prices/stream", s.handlePriceStream)
	}

	adminGroup := engine.Group("/api/admin", s.authMiddleware(), s.requireAdmin())
	{
		adminGroup.GET("/deposits", s.handleAdminListDeposits)
		adminGroup.POST("/deposits/:id/resolve", s.handleResolveDeposit)

		adminGroup.GET("/withdrawals", s.handleAdminListWithdrawals)
		adminGroup.POST("/withdrawals/:id/resolve", s.handleResolveWithdrawal)

		adminGroup.GET("/wallets", s.handleAdminListWallets)
		adminGroup.POST("/wallets", s.handleCreateWallet)
		adminGroup.PUT("/wallets/:id", s.handleUpdateWallet)
	}

	s.engine = engine
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		zap.L().Info("Shutting down HTTP server")
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.ledger.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
