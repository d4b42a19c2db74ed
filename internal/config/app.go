package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	LedgerModeSimulated = "simulated"
	LedgerModeCometBFT  = "cometbft"
)

// AppConfig holds the settings of the HTTP service
type AppConfig struct {
	ServerPort      string
	GinMode         string
	JWTSecret       string
	JWTExpiration   time.Duration
	LedgerMode      string
	CometBFTRPCAddr string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; the environment alone is then used.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		logrus.WithField("path", path).Debug("No env file loaded, relying on environment variables")
	}
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("LEDGER_MODE", LedgerModeSimulated)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	return v
}

// LoadAppConfig reads the service settings from the environment
func LoadAppConfig() (*AppConfig, error) {
	v := newEnv()

	cfg := &AppConfig{
		ServerPort:      v.GetString("SERVER_PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		JWTSecret:       v.GetString("JWT_SECRET_KEY"),
		LedgerMode:      strings.ToLower(v.GetString("LEDGER_MODE")),
		CometBFTRPCAddr: v.GetString("COMETBFT_RPC_ADDR"),
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET_KEY not set in environment")
	}

	hours := v.GetInt64("JWT_EXPIRATION_HOURS")
	if hours <= 0 {
		logrus.WithField("value", v.GetString("JWT_EXPIRATION_HOURS")).Warn("Invalid JWT_EXPIRATION_HOURS, defaulting to 24")
		hours = 24
	}
	cfg.JWTExpiration = time.Duration(hours) * time.Hour

	switch cfg.LedgerMode {
	case LedgerModeSimulated:
	case LedgerModeCometBFT:
		if cfg.CometBFTRPCAddr == "" {
			return nil, errors.New("COMETBFT_RPC_ADDR is required when LEDGER_MODE=cometbft")
		}
	default:
		return nil, errors.Errorf("unknown LEDGER_MODE %q", cfg.LedgerMode)
	}

	return cfg, nil
}
