package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner lo implementan *pgxpool.Pool y *pgx.Conn.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con la tx como Querier y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}

// Locked como Run pero toma antes un advisory lock de transacción con la clave dada.
func (r *TxRunner) Locked(ctx context.Context, key int64, fn func(q Querier) error) error {
	return r.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
			return fmt.Errorf("advisory lock %d: %w", key, err)
		}
		return fn(q)
	})
}
