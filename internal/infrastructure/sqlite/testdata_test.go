package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newBudgetDB creates a budget database with budget_tracker holding n rows
// and a single-row budget_set table.
func newBudgetDB(t *testing.T, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budget.db")
	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE budget_tracker (
		id INTEGER PRIMARY KEY,
		Date TEXT,
		Category TEXT,
		Expenditure REAL,
		Year INT,
		Month INT,
		Day INT
	)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE budget_set (
		id INTEGER PRIMARY KEY,
		MonthYear TEXT,
		Category TEXT,
		Budget REAL
	)`)
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		_, err = db.ExecContext(ctx,
			"INSERT INTO budget_tracker VALUES (?, ?, ?, ?, 2024, 1, ?)",
			i, fmt.Sprintf("2024-01-%02d", i), "Groceries", float64(i)*10.5, i)
		require.NoError(t, err)
	}
	_, err = db.ExecContext(ctx, "INSERT INTO budget_set VALUES (1, 'Jan 2024', 'Groceries', 500.0)")
	require.NoError(t, err)

	return path
}
