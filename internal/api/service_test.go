package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"trade-desk-go/internal/database"
	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"github.com/shopspring/decimal"
)

func setupTestLedger(t *testing.T) (*LedgerService, func()) {
	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := NewLedgerService(dbService, decimal.NewFromFloat(0.001))
	cleanup := func() {
		dbService.Close()
	}
	return service, cleanup
}

func TestExecuteTrade_AppliesConfiguredFeeRate(t *testing.T) {
	service, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	if _, err := service.db.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(1000), "deposit", "seed"); err != nil {
		t.Fatalf("Failed to fund user: %v", err)
	}

	result, err := service.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:    userId,
		Side:      store.SideBuy,
		Asset:     "BTC",
		Quantity:  decimal.NewFromFloat(0.01),
		UnitPrice: decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("ExecuteTrade failed: %v", err)
	}

	if !result.Fee.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("Expected fee 0.5 at rate 0.001, got %s", result.Fee.String())
	}
	if !result.NewBalance.Equal(decimal.NewFromFloat(499.5)) {
		t.Errorf("Expected new balance 499.5, got %s", result.NewBalance.String())
	}
	if !result.NewHolding.Equal(decimal.NewFromFloat(0.01)) {
		t.Errorf("Expected new holding 0.01, got %s", result.NewHolding.String())
	}
}

func TestExecuteTrade_RejectsNonPositiveInputs(t *testing.T) {
	service, cleanup := setupTestLedger(t)
	defer cleanup()

	_, err := service.ExecuteTrade(context.Background(), ExecuteTradeParams{
		UserId:    "user1",
		Side:      store.SideBuy,
		Asset:     "BTC",
		Quantity:  decimal.Zero,
		UnitPrice: decimal.NewFromInt(50000),
	})
	if !errors.Is(err, store.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestSubmitWithdrawal_ValidatesDestination(t *testing.T) {
	service, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId: "user1",
		Amount: decimal.NewFromInt(100),
		Type:   store.WithdrawalTypeCrypto,
		// missing wallet address and chain
	})
	if err == nil {
		t.Fatal("Expected error for crypto withdrawal without destination")
	}

	_, err = service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId:      "user1",
		Amount:      decimal.NewFromInt(100),
		Type:        store.WithdrawalTypeBank,
		BankName:    "Test Bank",
		BankAccount: "12345678",
		// missing bank holder
	})
	if err == nil {
		t.Fatal("Expected error for bank withdrawal without holder name")
	}
}

func TestGetBalance_RequiresUserId(t *testing.T) {
	service, cleanup := setupTestLedger(t)
	defer cleanup()

	if _, err := service.GetBalance(context.Background(), ""); err == nil {
		t.Fatal("Expected error for empty user id")
	}
}
