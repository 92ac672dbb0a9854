package tool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"budget-agent/internal/domain/entity"
	"budget-agent/internal/infrastructure/logger"
	"budget-agent/internal/infrastructure/sqlite"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var nopLog = logger.NewNop()

func newBudgetStore(t *testing.T, rows int) *sqlite.Store {
	t.Helper()
	return sqlite.NewStore(newBudgetDB(t, rows))
}

// newBudgetDB writes budget_tracker (with rows entries) and budget_set to a
// temp file and returns its path.
func newBudgetDB(t *testing.T, rows int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budget.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE budget_tracker (
		id INTEGER PRIMARY KEY,
		Category TEXT,
		Expenditure REAL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE budget_set (id INTEGER PRIMARY KEY, MonthYear TEXT, Category TEXT, Budget REAL)`)
	require.NoError(t, err)
	for i := 1; i <= rows; i++ {
		_, err = db.Exec("INSERT INTO budget_tracker VALUES (?, ?, ?)", i, fmt.Sprintf("Category%d", i), float64(i)*25)
		require.NoError(t, err)
	}
	_, err = db.Exec("INSERT INTO budget_set VALUES (1, 'Jan 2024', 'Groceries', 500.0)")
	require.NoError(t, err)

	return path
}

func tableNames(t *testing.T, path string) []string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' ORDER BY rowid")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM "+table).Scan(&n))
	return n
}

type failingDB struct {
	err     error
	queries []string
}

func (f *failingDB) Query(_ context.Context, query string) ([]entity.Row, error) {
	f.queries = append(f.queries, query)
	return nil, f.err
}

func (f *failingDB) Inspect(context.Context, int) ([]entity.TableInfo, error) {
	return nil, f.err
}

var errDatabase = errors.New("Database error")
