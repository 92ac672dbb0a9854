package output

import (
	"context"

	"budget-agent/internal/domain/entity"
)

// DatabasePort is the relational store behind the tools. Each call uses its
// own connection for the lifetime of one operation.
type DatabasePort interface {
	// Query runs a statement verbatim and returns all rows in database order.
	Query(ctx context.Context, query string) ([]entity.Row, error)
	// Inspect lists user tables with their definitions and up to sampleLimit rows each.
	Inspect(ctx context.Context, sampleLimit int) ([]entity.TableInfo, error)
}
