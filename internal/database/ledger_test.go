package database

import (
	"context"
	"errors"
	"testing"

	"trade-desk-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestGetBalance_NoRow(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	balance, err := service.GetBalance(context.Background(), "user1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected balance 0, got %s", balance.String())
	}
}

func TestApplyBalanceDelta_CreditAndDebit(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	balance, err := service.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(100), "deposit", "ref1")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance 100 after credit, got %s", balance.String())
	}

	balance, err = service.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(-30), "withdrawal_hold", "ref2")
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected balance 70 after debit, got %s", balance.String())
	}
}

func TestApplyBalanceDelta_InsufficientFunds(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(50))

	_, err := service.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(-51), "withdrawal_hold", "ref1")
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := service.GetBalance(ctx, userId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected balance unchanged at 50, got %s", balance.String())
	}
}

func TestGetLedgerHistory_RecordsBeforeAndAfter(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	if _, err := service.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(100), "deposit", "ref1"); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if _, err := service.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(-40), "withdrawal_hold", "ref2"); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}

	entries, err := service.GetLedgerHistory(ctx, userId, 10, 0)
	if err != nil {
		t.Fatalf("GetLedgerHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 ledger entries, got %d", len(entries))
	}

	found := make(map[string]bool)
	for _, entry := range entries {
		found[entry.EntryType] = true
		if !entry.BalanceAfter.Equal(entry.BalanceBefore.Add(entry.Amount)) {
			t.Errorf("Entry %s: balance_after %s != balance_before %s + amount %s",
				entry.Id, entry.BalanceAfter.String(), entry.BalanceBefore.String(), entry.Amount.String())
		}
	}
	if !found["deposit"] || !found["withdrawal_hold"] {
		t.Errorf("Expected both entry types in history, got %v", found)
	}
}

func TestReconcileBalance_Clean(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(1000))

	if _, err := service.ApplyBalanceDelta(ctx, userId, decimal.NewFromInt(-250), "withdrawal_hold", "ref1"); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}

	if err := service.ReconcileBalance(ctx, userId); err != nil {
		t.Errorf("Expected clean reconciliation, got %v", err)
	}
}

func TestReconcileBalance_DetectsDrift(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(1000))

	// Corrupt the materialized balance behind the ledger's back.
	if _, err := service.db.Exec("UPDATE account_balances SET balance = '999' WHERE user_id = ?", userId); err != nil {
		t.Fatalf("Failed to corrupt balance: %v", err)
	}

	if err := service.ReconcileBalance(ctx, userId); err == nil {
		t.Error("Expected reconciliation to detect drift")
	}
}

func TestReconcileHoldings_CleanAfterTrades(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(10000))

	feeRate := decimal.NewFromFloat(0.001)
	buy := store.ExecuteTradeParams{
		UserId:    userId,
		Side:      store.SideBuy,
		Asset:     "BTC",
		Quantity:  decimal.NewFromFloat(0.05),
		UnitPrice: decimal.NewFromInt(50000),
		FeeRate:   feeRate,
	}
	if _, err := service.ExecuteTrade(ctx, buy); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	sell := buy
	sell.Side = store.SideSell
	sell.Quantity = decimal.NewFromFloat(0.02)
	if _, err := service.ExecuteTrade(ctx, sell); err != nil {
		t.Fatalf("Sell failed: %v", err)
	}

	if err := service.ReconcileHoldings(ctx, userId, "BTC"); err != nil {
		t.Errorf("Expected clean holdings reconciliation, got %v", err)
	}
	if err := service.ReconcileBalance(ctx, userId); err != nil {
		t.Errorf("Expected clean balance reconciliation, got %v", err)
	}
}

func TestGetAllHoldings_SkipsZeroQuantity(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"
	fundTestUser(t, service, userId, decimal.NewFromInt(10000))

	feeRate := decimal.NewFromFloat(0.001)
	buy := store.ExecuteTradeParams{
		UserId:    userId,
		Side:      store.SideBuy,
		Asset:     "ETH",
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(2000),
		FeeRate:   feeRate,
	}
	if _, err := service.ExecuteTrade(ctx, buy); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	sell := buy
	sell.Side = store.SideSell
	if _, err := service.ExecuteTrade(ctx, sell); err != nil {
		t.Fatalf("Sell failed: %v", err)
	}

	holdings, err := service.GetAllHoldings(ctx, userId)
	if err != nil {
		t.Fatalf("GetAllHoldings failed: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("Expected no nonzero holdings, got %d", len(holdings))
	}
}
