package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// DBTX is satisfied by *pgxpool.Pool and by pgx.Tx, so repository methods can run
// either directly on the pool or inside a caller's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts database transactions
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool is the injected data-access handle: *pgxpool.Pool in production, pgxmock in tests.
type Pool interface {
	DBTX
	TxBeginner
	Ping(ctx context.Context) error
}

// WithTx runs fn inside a database transaction. fn's error rolls everything back;
// otherwise the transaction is committed. The connection goes back to the pool on
// every path, including a panic in fn.
func WithTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logrus.WithError(rbErr).Warn("Rollback failed")
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
