package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func countEmployees(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&n))
	return n
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, 0, countEmployees(t, db))
}

func TestTransactionManager_Commit(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	tm := NewTransactionManager(db, zerolog.Nop())

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		exec := ExecutorFromContext(ctx, db)
		_, ok := exec.(*sql.Tx)
		assert.True(t, ok, "transaction not injected into context")
		_, err := exec.ExecContext(ctx, `INSERT INTO employees (first_name, last_name, email) VALUES ('a', 'b', 'c')`)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countEmployees(t, db))
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	tm := NewTransactionManager(db, zerolog.Nop())
	expectedErr := errors.New("usecase error")

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		exec := ExecutorFromContext(ctx, db)
		if _, err := exec.ExecContext(ctx, `INSERT INTO employees (first_name, last_name, email) VALUES ('a', 'b', 'c')`); err != nil {
			return err
		}
		return expectedErr
	})

	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, countEmployees(t, db))
}

func TestTransactionManager_NestedReuse(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	tm := NewTransactionManager(db, zerolog.Nop())

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		outer := ExecutorFromContext(ctx, db)
		return tm.WithinReadOnly(ctx, func(inner context.Context) error {
			assert.Same(t, outer, ExecutorFromContext(inner, db))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestTransactionManager_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewTransactionManager(nil, zerolog.Nop()))

	var tm *TransactionManager
	called := false
	require.NoError(t, tm.WithinReadOnly(context.Background(), func(context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}
