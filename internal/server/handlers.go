package server

import (
	"net/http"
	"strconv"

	"trade-desk-go/internal/api"
	"trade-desk-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) handleGetBalance(c *gin.Context) {
	sess := currentSession(c)
	balance, err := s.ledger.GetBalance(c.Request.Context(), sess.UserId)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": sess.UserId, "balance": balance})
}

func (s *Server) handleGetHoldings(c *gin.Context) {
	sess := currentSession(c)
	holdings, err := s.ledger.GetHoldings(c.Request.Context(), sess.UserId)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

func (s *Server) handleGetHolding(c *gin.Context) {
	sess := currentSession(c)
	quantity, err := s.ledger.GetHolding(c.Request.Context(), sess.UserId, c.Param("asset"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": c.Param("asset"), "quantity": quantity})
}

func (s *Server) handleGetLedgerHistory(c *gin.Context) {
	sess := currentSession(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := s.ledger.GetLedgerHistory(c.Request.Context(), sess.UserId, limit, offset)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": records})
}

func (s *Server) handleGetActiveWallets(c *gin.Context) {
	configs, err := s.ledger.ListWalletConfigs(c.Request.Context(), true)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": configs})
}

func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read file"})
		return
	}
	defer f.Close()

	url, err := s.uploads.Save(fileHeader.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

type submitDepositRequest struct {
	WalletConfigId string `json:"wallet_config_id" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	ProofUrl       string `json:"proof_url"`
}

func (s *Server) handleSubmitDeposit(c *gin.Context) {
	var req submitDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
		return
	}

	sess := currentSession(c)
	deposit, err := s.ledger.SubmitDeposit(c.Request.Context(), sess.UserId, req.WalletConfigId, amount, req.ProofUrl)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deposit)
}

func (s *Server) handleListOwnDeposits(c *gin.Context) {
	sess := currentSession(c)
	deposits, err := s.ledger.ListDeposits(c.Request.Context(), sess.UserId, c.Query("status"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

type submitWithdrawalRequest struct {
	Amount        string `json:"amount" binding:"required"`
	Type          string `json:"withdrawal_type" binding:"required"`
	WalletAddress string `json:"wallet_address"`
	WalletChain   string `json:"wallet_chain"`
	BankName      string `json:"bank_name"`
	BankAccount   string `json:"bank_account"`
	BankHolder    string `json:"bank_holder"`
}

func (s *Server) handleSubmitWithdrawal(c *gin.Context) {
	var req submitWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
		return
	}

	sess := currentSession(c)
	withdrawal, err := s.ledger.SubmitWithdrawal(c.Request.Context(), store.SubmitWithdrawalParams{
		UserId:        sess.UserId,
		Amount:        amount,
		Type:          req.Type,
		WalletAddress: req.WalletAddress,
		WalletChain:   req.WalletChain,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		BankHolder:    req.BankHolder,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, withdrawal)
}

func (s *Server) handleListOwnWithdrawals(c *gin.Context) {
	sess := currentSession(c)
	withdrawals, err := s.ledger.ListWithdrawals(c.Request.Context(), sess.UserId, c.Query("status"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

type executeTradeRequest struct {
	Side           string `json:"side" binding:"required"`
	Asset          string `json:"asset" binding:"required"`
	Quantity       string `json:"quantity" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (s *Server) handleExecuteTrade(c *gin.Context) {
	var req executeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
		return
	}

	// Trades settle against the server's price snapshot; a missing or stale
	// snapshot refuses execution rather than settling at an unknown price.
	quote, ok := s.poller.Snapshot(req.Asset)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price_unavailable"})
		return
	}

	sess := currentSession(c)
	result, err := s.ledger.ExecuteTrade(c.Request.Context(), api.ExecuteTradeParams{
		UserId:         sess.UserId,
		Side:           req.Side,
		Asset:          req.Asset,
		Quantity:       quantity,
		UnitPrice:      quote.Price,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleListTrades(c *gin.Context) {
	sess := currentSession(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	trades, err := s.ledger.ListTrades(c.Request.Context(), sess.UserId, c.Query("asset"), limit, offset)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

func (s *Server) handleGetPrices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prices": s.poller.Snapshots()})
}

// --- Admin handlers ---

type resolveRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func (s *Server) handleAdminListDeposits(c *gin.Context) {
	deposits, err := s.ledger.ListDeposits(c.Request.Context(), c.Query("user_id"), c.Query("status"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

func (s *Server) handleResolveDeposit(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := currentSession(c)
	if err := s.ledger.ResolveDeposit(c.Request.Context(), c.Param("id"), req.Decision, sess.UserId); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Decision})
}

func (s *Server) handleAdminListWithdrawals(c *gin.Context) {
	withdrawals, err := s.ledger.ListWithdrawals(c.Request.Context(), c.Query("user_id"), c.Query("status"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

func (s *Server) handleResolveWithdrawal(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := currentSession(c)
	if err := s.ledger.ResolveWithdrawal(c.Request.Context(), c.Param("id"), req.Decision, sess.UserId); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Decision})
}

func (s *Server) handleAdminListWallets(c *gin.Context) {
	configs, err := s.ledger.ListWalletConfigs(c.Request.Context(), false)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": configs})
}

type walletConfigRequest struct {
	Asset       string `json:"asset" binding:"required"`
	DisplayName string `json:"display_name"`
	Network     string `json:"network"`
	Address     string `json:"address" binding:"required"`
	QrUrl       string `json:"qr_url"`
	Active      bool   `json:"active"`
}

func (s *Server) handleCreateWallet(c *gin.Context) {
	var req walletConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := s.ledger.CreateWalletConfig(c.Request.Context(), store.WalletConfigParams{
		Asset:       req.Asset,
		DisplayName: req.DisplayName,
		Network:     req.Network,
		Address:     req.Address,
		QrUrl:       req.QrUrl,
		Active:      req.Active,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, config)
}

func (s *Server) handleUpdateWallet(c *gin.Context) {
	var req walletConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := s.ledger.UpdateWalletConfig(c.Request.Context(), c.Param("id"), store.WalletConfigParams{
		Asset:       req.Asset,
		DisplayName: req.DisplayName,
		Network:     req.Network,
		Address:     req.Address,
		QrUrl:       req.QrUrl,
		Active:      req.Active,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}
