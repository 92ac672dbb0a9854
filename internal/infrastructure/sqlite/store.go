// Package sqlite is the file-backed relational store the budget tools query.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"

	_ "modernc.org/sqlite"
)

var _ output.DatabasePort = (*Store)(nil)

const driverName = "sqlite"

// Store opens a fresh read-only connection for every call and closes it
// before returning. No connection is held between calls.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// dsn opens the file read-only with query_only set, so no statement can
// write to it.
func (s *Store) dsn() string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)", s.path)
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverName, s.dsn())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (s *Store) Query(ctx context.Context, query string) ([]entity.Row, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *Store) Inspect(ctx context.Context, sampleLimit int) ([]entity.TableInfo, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		"SELECT name, sql FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var tables []entity.TableInfo
	for rows.Next() {
		var (
			name   string
			schema sql.NullString
		)
		if err := rows.Scan(&name, &schema); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, entity.TableInfo{Name: name, Schema: schema.String})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list tables: %w", err)
	}
	rows.Close()

	for i := range tables {
		sample, err := db.QueryContext(ctx,
			fmt.Sprintf("SELECT * FROM %s LIMIT ?", quoteIdent(tables[i].Name)), sampleLimit)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", tables[i].Name, err)
		}
		result, err := scanRows(sample)
		sample.Close()
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", tables[i].Name, err)
		}
		tables[i].SampleRows = result
	}
	return tables, nil
}

// scanRows reads every row, keeping column and row order as reported.
func scanRows(rows *sql.Rows) ([]entity.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := make([]entity.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result = append(result, entity.NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
