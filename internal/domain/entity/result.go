package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Row is one result row with column order preserved.
type Row struct {
	Columns []string
	Values  []any
}

func NewRow(columns []string, values []any) Row {
	r := Row{Columns: columns, Values: make([]any, len(values))}
	for i, v := range values {
		r.Values[i] = normalizeCell(v)
	}
	return r
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON renders the row as an object whose keys follow column order.
func (r Row) MarshalJSON() ([]byte, error) {
	if len(r.Columns) != len(r.Values) {
		return nil, fmt.Errorf("row has %d columns but %d values", len(r.Columns), len(r.Values))
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func normalizeCell(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// TableInfo describes one table for schema inspection.
type TableInfo struct {
	Name       string `json:"-"`
	Schema     string `json:"schema"`
	SampleRows []Row  `json:"sample_rows"`
}

// Schema marshals to an object keyed by table name, in slice order.
type Schema []TableInfo

func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, table := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(table.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(table)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", table.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
