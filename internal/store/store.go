package store

import (
	"context"
	"errors"
	"time"

	"trade-desk-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations. Workflow code and
// the HTTP layer match on these with errors.Is.
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInsufficientHoldings   = errors.New("insufficient holdings")
	ErrWalletInactive         = errors.New("wallet configuration inactive or unknown")
	ErrAlreadyResolved        = errors.New("claim already resolved")
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateTrade         = errors.New("duplicate trade")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrStoreUnavailable       = errors.New("store unavailable")
)

// Resolution decisions for deposit claims and withdrawal requests.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Trade sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Withdrawal destination types.
const (
	WithdrawalTypeCrypto = "crypto"
	WithdrawalTypeBank   = "bank"
)

// SubmitDepositParams contains the parameters for a user-submitted deposit claim.
type SubmitDepositParams struct {
	UserId         string
	WalletConfigId string
	Amount         decimal.Decimal
	ProofUrl       string
}

// SubmitWithdrawalParams contains the parameters for a withdrawal request. The
// destination payload depends on Type: crypto withdrawals carry WalletAddress
// and WalletChain, bank withdrawals carry the Bank* fields.
type SubmitWithdrawalParams struct {
	UserId        string
	Amount        decimal.Decimal
	Type          string
	WalletAddress string
	WalletChain   string
	BankName      string
	BankAccount   string
	BankHolder    string
}

// ExecuteTradeParams contains the parameters for a trade execution. UnitPrice
// is the caller-supplied market price snapshot; the store never fetches prices.
// IdempotencyKey is optional; a repeated key fails with ErrDuplicateTrade.
type ExecuteTradeParams struct {
	UserId         string
	Side           string
	Asset          string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	FeeRate        decimal.Decimal
	IdempotencyKey string
}

// WalletConfigParams contains the admin-supplied fields of a wallet configuration.
type WalletConfigParams struct {
	Asset       string
	DisplayName string
	Network     string
	Address     string
	QrUrl       string
	Active      bool
}

// LedgerStore defines the contract that every backend must satisfy. All balance
// mutation funnels through ApplyBalanceDelta (or its transactional equivalent
// inside the workflow operations) so the balance row is the sole serialization
// point.
type LedgerStore interface {
	// --- Users ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, userId, name, email, role string) (*models.User, error)

	// --- Ledger ---
	GetBalance(ctx context.Context, userId string) (decimal.Decimal, error)
	GetHolding(ctx context.Context, userId, asset string) (decimal.Decimal, error)
	GetAllHoldings(ctx context.Context, userId string) ([]models.Holding, error)
	ApplyBalanceDelta(ctx context.Context, userId string, delta decimal.Decimal, entryType, referenceId string) (decimal.Decimal, error)
	GetLedgerHistory(ctx context.Context, userId string, limit, offset int) ([]models.LedgerEntry, error)

	// --- Deposits ---
	SubmitDeposit(ctx context.Context, params SubmitDepositParams) (*models.Deposit, error)
	ResolveDeposit(ctx context.Context, claimId, decision, resolverId string) error
	GetDeposits(ctx context.Context, userId, status string) ([]models.Deposit, error)

	// --- Withdrawals ---
	SubmitWithdrawal(ctx context.Context, params SubmitWithdrawalParams) (*models.Withdrawal, error)
	ResolveWithdrawal(ctx context.Context, requestId, decision, resolverId string) error
	GetWithdrawals(ctx context.Context, userId, status string) ([]models.Withdrawal, error)

	// --- Trades ---
	ExecuteTrade(ctx context.Context, params ExecuteTradeParams) (*models.Trade, error)
	GetTrades(ctx context.Context, userId, asset string, limit, offset int) ([]models.Trade, error)

	// --- Wallet configurations ---
	CreateWalletConfig(ctx context.Context, params WalletConfigParams) (*models.WalletConfig, error)
	UpdateWalletConfig(ctx context.Context, configId string, params WalletConfigParams) (*models.WalletConfig, error)
	GetWalletConfigs(ctx context.Context, activeOnly bool) ([]models.WalletConfig, error)

	// --- Reconciliation ---
	ReconcileBalance(ctx context.Context, userId string) error
	ReconcileHoldings(ctx context.Context, userId, asset string) error
	GetMostRecentTradeTime(ctx context.Context) (time.Time, error)

	// --- Lifecycle ---
	Close()
}
