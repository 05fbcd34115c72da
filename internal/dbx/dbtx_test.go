package dbx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPing_OK(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, Ping(context.Background(), db))
}

func TestPing_InsideTx(t *testing.T) {
	db := setupDB(t)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	require.NoError(t, Ping(context.Background(), tx))
}

func TestPing_ClosedDB(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := Ping(context.Background(), db)
	require.Error(t, err, "ping should fail when DB is closed")
	require.Contains(t, err.Error(), "SELECT 1 failed")
}

func TestPing_CanceledContext(t *testing.T) {
	db := setupDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, Ping(ctx, db))
}
