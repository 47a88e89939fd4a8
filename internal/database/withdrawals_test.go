package database

import (
	"context"
	"errors"
	"testing"

	"trade-desk-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestSubmitWithdrawal_ReservesFunds(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(1000))

	withdrawal, err := service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId:        userId,
		Amount:        decimal.NewFromInt(400),
		Type:          store.WithdrawalTypeCrypto,
		WalletAddress: "bc1qdest",
		WalletChain:   "bitcoin",
	})
	if err != nil {
		t.Fatalf("SubmitWithdrawal failed: %v", err)
	}
	if withdrawal.Status != "pending" {
		t.Errorf("Expected status pending, got %s", withdrawal.Status)
	}

	balance, err := service.GetBalance(ctx, userId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected balance 600 after reservation, got %s", balance.String())
	}
}

func TestSubmitWithdrawal_InsufficientFunds(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(100))

	_, err := service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId:        userId,
		Amount:        decimal.NewFromInt(101),
		Type:          store.WithdrawalTypeCrypto,
		WalletAddress: "bc1qdest",
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	// The failed submission must leave no request row behind.
	requests, err := service.GetWithdrawals(ctx, userId, "")
	if err != nil {
		t.Fatalf("GetWithdrawals failed: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("Expected no withdrawal rows, got %d", len(requests))
	}

	balance, err := service.GetBalance(ctx, userId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance unchanged at 100, got %s", balance.String())
	}
}

func TestSubmitWithdrawal_InvalidType(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.SubmitWithdrawal(context.Background(), store.SubmitWithdrawalParams{
		UserId: "user1",
		Amount: decimal.NewFromInt(10),
		Type:   "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("Expected error for invalid withdrawal type")
	}
}

func TestResolveWithdrawal_RejectRefunds(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(1000))

	withdrawal, err := service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId:      userId,
		Amount:      decimal.NewFromInt(400),
		Type:        store.WithdrawalTypeBank,
		BankName:    "Test Bank",
		BankAccount: "12345678",
		BankHolder:  "Test User",
	})
	if err != nil {
		t.Fatalf("SubmitWithdrawal failed: %v", err)
	}

	if err := service.ResolveWithdrawal(ctx, withdrawal.Id, store.DecisionRejected, "admin1"); err != nil {
		t.Fatalf("ResolveWithdrawal failed: %v", err)
	}

	balance, err := service.GetBalance(ctx, userId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected balance restored to 1000 after rejection, got %s", balance.String())
	}

	if err := service.ReconcileBalance(ctx, userId); err != nil {
		t.Errorf("Expected clean reconciliation after refund, got %v", err)
	}
}

func TestResolveWithdrawal_ApproveKeepsDebit(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(1000))

	withdrawal, err := service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId:        userId,
		Amount:        decimal.NewFromInt(400),
		Type:          store.WithdrawalTypeCrypto,
		WalletAddress: "bc1qdest",
	})
	if err != nil {
		t.Fatalf("SubmitWithdrawal failed: %v", err)
	}

	if err := service.ResolveWithdrawal(ctx, withdrawal.Id, store.DecisionApproved, "admin1"); err != nil {
		t.Fatalf("ResolveWithdrawal failed: %v", err)
	}

	balance, err := service.GetBalance(ctx, userId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected balance to stay at 600 after approval, got %s", balance.String())
	}
}

func TestResolveWithdrawal_Twice(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(1000))

	withdrawal, err := service.SubmitWithdrawal(ctx, store.SubmitWithdrawalParams{
		UserId:        userId,
		Amount:        decimal.NewFromInt(100),
		Type:          store.WithdrawalTypeCrypto,
		WalletAddress: "bc1qdest",
	})
	if err != nil {
		t.Fatalf("SubmitWithdrawal failed: %v", err)
	}

	if err := service.ResolveWithdrawal(ctx, withdrawal.Id, store.DecisionRejected, "admin1"); err != nil {
		t.Fatalf("ResolveWithdrawal failed: %v", err)
	}

	// A second rejection must not refund a second time.
	err = service.ResolveWithdrawal(ctx, withdrawal.Id, store.DecisionRejected, "admin1")
	if !errors.Is(err, store.ErrAlreadyResolved) {
		t.Fatalf("Expected ErrAlreadyResolved, got %v", err)
	}

	balance, err := service.GetBalance(ctx, userId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected balance 1000 after single refund, got %s", balance.String())
	}
}
