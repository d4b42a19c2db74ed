package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN           string
	MaxRetries    int
	RetryInterval time.Duration
}

// LoadDBConfig loads database configuration from the environment.
// DATABASE_URL wins over the individual DB_* variables.
func LoadDBConfig() (*DBConfig, error) {
	v := newEnv()
	cfg := &DBConfig{MaxRetries: 5, RetryInterval: 5 * time.Second}

	if url := v.GetString("DATABASE_URL"); url != "" {
		cfg.DSN = url
		return cfg, nil
	}

	dbHost := v.GetString("DB_HOST")
	dbPort := v.GetString("DB_PORT")
	dbUser := v.GetString("DB_USER")
	dbName := v.GetString("DB_NAME")
	if dbHost == "" || dbUser == "" || dbName == "" {
		return nil, errors.New("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	cfg.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, v.GetString("DB_PASSWORD"), dbName, v.GetString("DB_SSLMODE"))
	return cfg, nil
}

// ConnectDB builds the connection pool and waits until PostgreSQL answers a ping
func ConnectDB(ctx context.Context, cfg *DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "invalid database configuration")
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	for i := 1; i <= cfg.MaxRetries; i++ {
		err = pool.Ping(ctx)
		if err == nil {
			logrus.Info("Successfully connected to PostgreSQL")
			return pool, nil
		}
		logrus.WithFields(logrus.Fields{
			"attempt": i,
			"max":     cfg.MaxRetries,
			"retry":   cfg.RetryInterval,
		}).WithError(err).Warn("Failed to connect to database")

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, errors.Wrap(ctx.Err(), "database connection aborted")
		case <-time.After(cfg.RetryInterval):
		}
	}
	pool.Close()
	return nil, errors.Wrapf(err, "unable to connect to database after %d attempts", cfg.MaxRetries)
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('buyer', 'seller', 'agent', 'admin')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS properties (
		id SERIAL PRIMARY KEY,
		owner_id INTEGER NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		price NUMERIC(15, 2) NOT NULL CHECK (price > 0),
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		blockchain_hash TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		buyer_id INTEGER NOT NULL REFERENCES users(id),
		seller_id INTEGER NOT NULL REFERENCES users(id),
		agent_id INTEGER REFERENCES users(id),
		amount NUMERIC(15, 2) NOT NULL CHECK (amount > 0),
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'verified', 'completed')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		verified_at TIMESTAMP WITH TIME ZONE,
		completed_at TIMESTAMP WITH TIME ZONE,
		blockchain_tx_id TEXT
	);

	CREATE TABLE IF NOT EXISTS blockchain_records (
		id SERIAL PRIMARY KEY,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		blockchain_address TEXT NOT NULL,
		token_id INTEGER NOT NULL,
		previous_owner INTEGER NOT NULL REFERENCES users(id),
		new_owner INTEGER NOT NULL REFERENCES users(id),
		tx_hash TEXT NOT NULL,
		block_number BIGINT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_properties_owner_id ON properties(owner_id);
	CREATE INDEX IF NOT EXISTS idx_properties_is_verified ON properties(is_verified);
	CREATE INDEX IF NOT EXISTS idx_transactions_property_status ON transactions(property_id, status);
	CREATE INDEX IF NOT EXISTS idx_transactions_buyer_id ON transactions(buyer_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_seller_id ON transactions(seller_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_agent_id ON transactions(agent_id);
	CREATE INDEX IF NOT EXISTS idx_blockchain_records_property_id ON blockchain_records(property_id);

	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1
			FROM pg_trigger
			WHERE tgname = 'set_properties_updated_at' AND tgrelid = 'properties'::regclass
		) THEN
			CREATE TRIGGER set_properties_updated_at
			BEFORE UPDATE ON properties
			FOR EACH ROW
			EXECUTE FUNCTION update_updated_at_column();
		END IF;
	END
	$$;
`

// Execer is the part of a pool AutoMigrate needs
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AutoMigrate creates tables, indexes and triggers if they don't exist
func AutoMigrate(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "unable to apply migrations")
	}
	logrus.Info("AutoMigrate applied successfully")
	return nil
}
