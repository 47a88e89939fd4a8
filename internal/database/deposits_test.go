package database

import (
	"context"
	"errors"
	"testing"

	"trade-desk-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestSubmitDeposit_InvalidAmount(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	walletId := createTestWallet(t, service, "BTC", true)

	_, err := service.SubmitDeposit(context.Background(), store.SubmitDepositParams{
		UserId:         "user1",
		WalletConfigId: walletId,
		Amount:         decimal.Zero,
	})
	if !errors.Is(err, store.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestSubmitDeposit_InactiveWallet(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	walletId := createTestWallet(t, service, "BTC", false)

	_, err := service.SubmitDeposit(context.Background(), store.SubmitDepositParams{
		UserId:         "user1",
		WalletConfigId: walletId,
		Amount:         decimal.NewFromInt(100),
	})
	if !errors.Is(err, store.ErrWalletInactive) {
		t.Fatalf("Expected ErrWalletInactive, got %v", err)
	}
}

func TestSubmitDeposit_UnknownWallet(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.SubmitDeposit(context.Background(), store.SubmitDepositParams{
		UserId:         "user1",
		WalletConfigId: "no-such-wallet",
		Amount:         decimal.NewFromInt(100),
	})
	if !errors.Is(err, store.ErrWalletInactive) {
		t.Fatalf("Expected ErrWalletInactive, got %v", err)
	}
}

func TestSubmitDeposit_PendingHasNoBalanceEffect(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	walletId := createTestWallet(t, service, "BTC", true)

	deposit, err := service.SubmitDeposit(ctx, store.SubmitDepositParams{
		UserId:         "user1",
		WalletConfigId: walletId,
		Amount:         decimal.NewFromInt(250),
		ProofUrl:       "/uploads/proof.png",
	})
	if err != nil {
		t.Fatalf("SubmitDeposit failed: %v", err)
	}
	if deposit.Status != "pending" {
		t.Errorf("Expected status pending, got %s", deposit.Status)
	}

	balance, err := service.GetBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected balance 0 while pending, got %s", balance.String())
	}
}

func TestResolveDeposit_ApproveCreditsExactlyOnce(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	walletId := createTestWallet(t, service, "BTC", true)

	deposit, err := service.SubmitDeposit(ctx, store.SubmitDepositParams{
		UserId:         "user1",
		WalletConfigId: walletId,
		Amount:         decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("SubmitDeposit failed: %v", err)
	}

	if err := service.ResolveDeposit(ctx, deposit.Id, store.DecisionApproved, "admin1"); err != nil {
		t.Fatalf("ResolveDeposit failed: %v", err)
	}

	balance, err := service.GetBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected balance 250 after approval, got %s", balance.String())
	}

	// Second resolution must fail and must not credit again.
	err = service.ResolveDeposit(ctx, deposit.Id, store.DecisionApproved, "admin1")
	if !errors.Is(err, store.ErrAlreadyResolved) {
		t.Fatalf("Expected ErrAlreadyResolved, got %v", err)
	}

	balance, err = service.GetBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected balance still 250 after double resolve, got %s", balance.String())
	}
}

func TestResolveDeposit_RejectNeverCredits(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	walletId := createTestWallet(t, service, "BTC", true)

	deposit, err := service.SubmitDeposit(ctx, store.SubmitDepositParams{
		UserId:         "user1",
		WalletConfigId: walletId,
		Amount:         decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("SubmitDeposit failed: %v", err)
	}

	if err := service.ResolveDeposit(ctx, deposit.Id, store.DecisionRejected, "admin1"); err != nil {
		t.Fatalf("ResolveDeposit failed: %v", err)
	}

	balance, err := service.GetBalance(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected balance 0 after rejection, got %s", balance.String())
	}

	// Rejection is final; the claim cannot be approved afterwards.
	err = service.ResolveDeposit(ctx, deposit.Id, store.DecisionApproved, "admin1")
	if !errors.Is(err, store.ErrAlreadyResolved) {
		t.Fatalf("Expected ErrAlreadyResolved, got %v", err)
	}
}

func TestResolveDeposit_NotFound(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	err := service.ResolveDeposit(context.Background(), "no-such-claim", store.DecisionApproved, "admin1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetDeposits_Filters(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	walletId := createTestWallet(t, service, "BTC", true)

	first, err := service.SubmitDeposit(ctx, store.SubmitDepositParams{
		UserId: "user1", WalletConfigId: walletId, Amount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("SubmitDeposit failed: %v", err)
	}
	if _, err := service.SubmitDeposit(ctx, store.SubmitDepositParams{
		UserId: "user2", WalletConfigId: walletId, Amount: decimal.NewFromInt(200),
	}); err != nil {
		t.Fatalf("SubmitDeposit failed: %v", err)
	}
	if err := service.ResolveDeposit(ctx, first.Id, store.DecisionApproved, "admin1"); err != nil {
		t.Fatalf("ResolveDeposit failed: %v", err)
	}

	pending, err := service.GetDeposits(ctx, "", "pending")
	if err != nil {
		t.Fatalf("GetDeposits failed: %v", err)
	}
	if len(pending) != 1 || pending[0].UserId != "user2" {
		t.Errorf("Expected one pending deposit for user2, got %d", len(pending))
	}

	mine, err := service.GetDeposits(ctx, "user1", "")
	if err != nil {
		t.Fatalf("GetDeposits failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != "approved" {
		t.Errorf("Expected one approved deposit for user1, got %d", len(mine))
	}
}
