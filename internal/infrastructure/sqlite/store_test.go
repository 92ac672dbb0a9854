package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_QueryPreservesOrder(t *testing.T) {
	store := NewStore(newBudgetDB(t, 3))

	rows, err := store.Query(context.Background(),
		"SELECT Expenditure, Category, id FROM budget_tracker ORDER BY id DESC")

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Expenditure", "Category", "id"}, rows[0].Columns)
	assert.Equal(t, int64(3), rows[0].Values[2])
	assert.Equal(t, int64(1), rows[2].Values[2])
	assert.Equal(t, "Groceries", rows[0].Values[1])
}

func TestStore_QuerySelectOne(t *testing.T) {
	store := NewStore(newBudgetDB(t, 0))

	rows, err := store.Query(context.Background(), "SELECT 1")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1"}, rows[0].Columns)
	assert.Equal(t, int64(1), rows[0].Values[0])
}

func TestStore_QueryEmptyResult(t *testing.T) {
	store := NewStore(newBudgetDB(t, 2))

	rows, err := store.Query(context.Background(), "SELECT * FROM budget_tracker WHERE id > 100")

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestStore_QueryError(t *testing.T) {
	store := NewStore(newBudgetDB(t, 1))

	_, err := store.Query(context.Background(), "SELECT * FROM nonexistent")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestStore_InspectLimitsSamples(t *testing.T) {
	store := NewStore(newBudgetDB(t, 8))

	tables, err := store.Inspect(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "budget_tracker", tables[0].Name)
	assert.Equal(t, "budget_set", tables[1].Name)
	assert.Contains(t, tables[0].Schema, "CREATE TABLE budget_tracker")
	assert.Len(t, tables[0].SampleRows, 5)
	assert.Len(t, tables[1].SampleRows, 1)

	first := tables[0].SampleRows[0]
	assert.Equal(t, []string{"id", "Date", "Category", "Expenditure", "Year", "Month", "Day"}, first.Columns)
	assert.Equal(t, int64(1), first.Values[0])
}

func TestStore_InspectSkipsInternalTables(t *testing.T) {
	path := newBudgetDB(t, 1)
	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE auto (id INTEGER PRIMARY KEY AUTOINCREMENT, v TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO auto (v) VALUES ('x')")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	store := NewStore(path)

	tables, err := store.Inspect(context.Background(), 5)

	require.NoError(t, err)
	for _, table := range tables {
		assert.NotEqual(t, "sqlite_sequence", table.Name)
	}
	assert.Len(t, tables, 3)
}

func TestStore_OpenFailure(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "dir", "budget.db"))

	_, err := store.Inspect(context.Background(), 5)

	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"budget"`, quoteIdent("budget"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM "+quoteIdent(table)).Scan(&n))
	return n
}

func TestStore_ConnectionIsReadOnly(t *testing.T) {
	path := newBudgetDB(t, 3)
	store := NewStore(path)
	ctx := context.Background()

	for _, q := range []string{
		"DELETE FROM budget_tracker",
		"DROP TABLE budget_tracker",
		"SELECT 1; DELETE FROM budget_tracker",
		"SELECT 1; DROP TABLE budget_tracker",
	} {
		_, _ = store.Query(ctx, q)
	}

	assert.Equal(t, 3, countRows(t, path, "budget_tracker"))
}

func TestStore_DoesNotCreateMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	store := NewStore(path)

	_, err := store.Query(context.Background(), "SELECT 1")

	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
