package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a platform user. Role is "user" or "admin".
type User struct {
	Id        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WalletConfig is the admin-managed metadata for a deposit-receiving address.
// The deposit flow only ever sees active configurations.
type WalletConfig struct {
	Id          string    `db:"id" json:"id"`
	Asset       string    `db:"asset" json:"asset"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Network     string    `db:"network" json:"network"`
	Address     string    `db:"address" json:"address"`
	QrUrl       string    `db:"qr_url" json:"qr_url"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AccountBalance is the current fiat balance state for a user (hot data).
type AccountBalance struct {
	Id          string          `db:"id" json:"id"`
	UserId      string          `db:"user_id" json:"user_id"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	LastEntryId string          `db:"last_entry_id" json:"last_entry_id"`
	Version     int64           `db:"version" json:"version"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Holding is the materialized per-user, per-asset quantity, kept in sync
// transactionally with every trade append.
type Holding struct {
	Id        string          `db:"id" json:"id"`
	UserId    string          `db:"user_id" json:"user_id"`
	Asset     string          `db:"asset" json:"asset"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	Version   int64           `db:"version" json:"version"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Deposit is a user's claim of having sent funds to a configured wallet.
// Status is pending, approved or rejected; approved and rejected are terminal.
type Deposit struct {
	Id             string          `db:"id" json:"id"`
	UserId         string          `db:"user_id" json:"user_id"`
	WalletConfigId string          `db:"wallet_config_id" json:"wallet_config_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	ProofUrl       string          `db:"proof_url" json:"proof_url"`
	Status         string          `db:"status" json:"status"`
	ResolvedBy     string          `db:"resolved_by" json:"resolved_by"`
	ResolvedAt     time.Time       `db:"resolved_at" json:"resolved_at"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Withdrawal is an outbound transfer request. Funds are reserved (debited) at
// submission time and refunded on rejection.
type Withdrawal struct {
	Id            string          `db:"id" json:"id"`
	UserId        string          `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Type          string          `db:"withdrawal_type" json:"withdrawal_type"`
	WalletAddress string          `db:"wallet_address" json:"wallet_address"`
	WalletChain   string          `db:"wallet_chain" json:"wallet_chain"`
	BankName      string          `db:"bank_name" json:"bank_name"`
	BankAccount   string          `db:"bank_account" json:"bank_account"`
	BankHolder    string          `db:"bank_holder" json:"bank_holder"`
	Status        string          `db:"status" json:"status"`
	ResolvedBy    string          `db:"resolved_by" json:"resolved_by"`
	ResolvedAt    time.Time       `db:"resolved_at" json:"resolved_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Trade is immutable once created. It is both a ledger entry and an audit
// record; holdings are the running sum of signed trade quantities.
type Trade struct {
	Id             string          `db:"id" json:"id"`
	UserId         string          `db:"user_id" json:"user_id"`
	Side           string          `db:"side" json:"side"`
	Asset          string          `db:"asset" json:"asset"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Fee            decimal.Decimal `db:"fee" json:"fee"`
	IdempotencyKey string          `db:"idempotency_key" json:"idempotency_key"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// LedgerEntry records a single balance mutation with before/after amounts
// (cold data, append-only audit trail).
type LedgerEntry struct {
	Id            string          `db:"id" json:"id"`
	UserId        string          `db:"user_id" json:"user_id"`
	EntryType     string          `db:"entry_type" json:"entry_type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	ReferenceId   string          `db:"reference_id" json:"reference_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
