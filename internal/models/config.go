package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Oracle   OracleConfig
	Trading  TradingConfig
	Session  SessionConfig
	Uploads  UploadsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// OracleConfig holds market-data poller settings
type OracleConfig struct {
	BaseUrl         string
	PollingInterval time.Duration
	RequestTimeout  time.Duration
	MaxStaleness    time.Duration
	AssetsFile      string
}

// TradingConfig holds trade settlement settings
type TradingConfig struct {
	FeeRate decimal.Decimal
}

// SessionConfig holds session token settings
type SessionConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// UploadsConfig holds proof-of-payment upload settings
type UploadsConfig struct {
	Dir     string
	BaseUrl string
}
