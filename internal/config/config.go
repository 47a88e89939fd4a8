package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"trade-desk-go/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultFeeRate is the trade fee rate applied when TRADE_FEE_RATE is unset.
var DefaultFeeRate = decimal.NewFromFloat(0.001)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("ORACLE_POLLING_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("ORACLE_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	maxStaleness, err := getEnvDuration("PRICE_MAX_STALENESS", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getEnvDuration("SESSION_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	feeRate, err := getEnvDecimal("TRADE_FEE_RATE", DefaultFeeRate)
	if err != nil {
		return nil, err
	}
	if feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("TRADE_FEE_RATE must be in [0, 1), got %s", feeRate.String())
	}

	signingKey := getEnvString("SESSION_SIGNING_KEY", "")
	if signingKey == "" {
		return nil, fmt.Errorf("SESSION_SIGNING_KEY is required")
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "tradedesk.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Server: models.ServerConfig{
			Addr:            getEnvString("SERVER_ADDR", ":8080"),
			ShutdownTimeout: shutdownTimeout,
		},
		Oracle: models.OracleConfig{
			BaseUrl:         getEnvString("ORACLE_BASE_URL", "https://api.coingecko.com/api/v3"),
			PollingInterval: pollingInterval,
			RequestTimeout:  requestTimeout,
			MaxStaleness:    maxStaleness,
			AssetsFile:      getEnvString("ASSETS_FILE", "assets.yaml"),
		},
		Trading: models.TradingConfig{
			FeeRate: feeRate,
		},
		Session: models.SessionConfig{
			SigningKey: signingKey,
			TokenTTL:   tokenTTL,
		},
		Uploads: models.UploadsConfig{
			Dir:     getEnvString("UPLOADS_DIR", "uploads"),
			BaseUrl: getEnvString("UPLOADS_BASE_URL", "/uploads"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if value := os.Getenv(key); value != "" {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid decimal for %s: %q (%w)", key, value, err)
		}
		return d, nil
	}
	return defaultValue, nil
}
