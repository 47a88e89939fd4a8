package database

import (
	"context"
	"database/sql"
	"testing"

	"trade-desk-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestService(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A second connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	service := &Service{db: db}
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func createTestUser(t *testing.T, service *Service, userId, email string) {
	t.Helper()
	_, err := service.CreateUser(context.Background(), userId, "Test User", email, "user")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

func createTestWallet(t *testing.T, service *Service, asset string, active bool) string {
	t.Helper()
	config, err := service.CreateWalletConfig(context.Background(), store.WalletConfigParams{
		Asset:       asset,
		DisplayName: asset + " Deposit",
		Network:     "testnet",
		Address:     "addr-" + asset,
		Active:      active,
	})
	if err != nil {
		t.Fatalf("Failed to create wallet config: %v", err)
	}
	return config.Id
}

func fundTestUser(t *testing.T, service *Service, userId string, amount decimal.Decimal) {
	t.Helper()
	_, err := service.ApplyBalanceDelta(context.Background(), userId, amount, "deposit", "test-seed")
	if err != nil {
		t.Fatalf("Failed to fund test user: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "one@example.com")

	_, err := service.CreateUser(ctx, "user2", "Other User", "one@example.com", "user")
	if err == nil {
		t.Fatal("Expected error creating user with duplicate email")
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateUser(context.Background(), "user1", "Test User", "one@example.com", "superuser")
	if err == nil {
		t.Fatal("Expected error creating user with invalid role")
	}
}

func TestGetUserByEmail(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "one@example.com")

	user, err := service.GetUserByEmail(ctx, "one@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.Id != "user1" {
		t.Errorf("Expected user id user1, got %s", user.Id)
	}
}
