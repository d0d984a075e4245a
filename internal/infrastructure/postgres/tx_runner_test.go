package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/domain"
)

// fakeTx implementa la parte de pgx.Tx que usa TxRunner.
type fakeTx struct {
	pgx.Tx
	execs      []string
	execErr    error
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	return pgconn.NewCommandTag("SELECT 1"), t.execErr
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = t.commitErr == nil
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestEnsureSchema_BloqueaYAplicaEnUnaTransaccion(t *testing.T) {
	tx := &fakeTx{}
	require.NoError(t, EnsureSchema(context.Background(), NewTxRunner(fakeBeginner{tx: tx})))

	require.Len(t, tx.execs, 2)
	assert.Equal(t, "SELECT pg_advisory_xact_lock($1)", tx.execs[0])
	assert.Contains(t, tx.execs[1], "CREATE TABLE IF NOT EXISTS invoices")
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestTxRunner_ErrorHaceRollback(t *testing.T) {
	tx := &fakeTx{}
	boom := errors.New("boom")

	err := NewTxRunner(fakeBeginner{tx: tx}).Run(context.Background(), func(Querier) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestTxRunner_FallosDeConexion(t *testing.T) {
	err := NewTxRunner(fakeBeginner{err: errors.New("dial tcp")}).Run(context.Background(), func(Querier) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	tx := &fakeTx{commitErr: errors.New("conn closed")}
	err = NewTxRunner(fakeBeginner{tx: tx}).Run(context.Background(), func(Querier) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, tx.rolledBack)
}
