package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoWTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func countSteps(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM steps`).Scan(&n))
	return n
}

func insertStep(ctx context.Context, tx DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO steps
		(id, project_id, name, created_by_id, created_at, updated_at)
		VALUES (?, ?, 'UoW test', 'u', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`, id, id)
	return err
}

func TestWithinTx_Commit(t *testing.T) {
	database := newUoWTestDB(t)
	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		return insertStep(ctx, tx, "s1")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countSteps(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database := newUoWTestDB(t)
	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := insertStep(ctx, tx, "s1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countSteps(t, database), "failed transaction must leave no rows")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database := newUoWTestDB(t)
	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
			if err := insertStep(ctx, tx, "s1"); err != nil {
				return err
			}
			panic("mid-transaction panic")
		})
	})
	assert.Equal(t, 0, countSteps(t, database))
}
