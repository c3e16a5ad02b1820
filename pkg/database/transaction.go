package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager begins and ends transactions.
// Postgres uses pgxpool, memstore an in-process snapshot.
type TransactionManager interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

// PoolTransactionManager runs transactions at READ COMMITTED on a pgx pool.
// Uniqueness races are settled by unique indexes, not by isolation level.
type PoolTransactionManager struct {
	pool *pgxpool.Pool
}

func NewPoolTransactionManager(pool *pgxpool.Pool) *PoolTransactionManager {
	return &PoolTransactionManager{pool: pool}
}

func (m *PoolTransactionManager) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
}

func (m *PoolTransactionManager) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (m *PoolTransactionManager) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// TxFunc runs inside a transaction.
type TxFunc func(pgx.Tx) error

// WithTransaction wraps fn in a transaction.
// Rollback on error or panic, commit otherwise.
func WithTransaction(ctx context.Context, tm TransactionManager, fn TxFunc) (err error) {
	tx, err := tm.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tm.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = tm.RollbackTx(ctx, tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tm.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithTransactionResult is WithTransaction for functions that return a value.
func WithTransactionResult[T any](ctx context.Context, tm TransactionManager, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, tm, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
