package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSummary represents a user's fiat balance for API responses.
type BalanceSummary struct {
	UserId  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// HoldingSummary represents one asset position for API responses.
type HoldingSummary struct {
	Asset    string          `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LedgerRecord represents a balance mutation in the user's history.
type LedgerRecord struct {
	Id            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceId   string          `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TradeResult represents the outcome of a successful trade execution.
type TradeResult struct {
	TradeId    string          `json:"trade_id"`
	Side       string          `json:"side"`
	Asset      string          `json:"asset"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
	Fee        decimal.Decimal `json:"fee"`
	NewBalance decimal.Decimal `json:"new_balance"`
	NewHolding decimal.Decimal `json:"new_holding"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// PriceQuote is a cached market-data snapshot for one asset.
type PriceQuote struct {
	Asset     string          `json:"asset"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change_24h"`
	FetchedAt time.Time       `json:"fetched_at"`
}
