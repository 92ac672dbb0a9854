package tool

import (
	"time"

	"budget-agent/internal/application/port/output"
)

// NewBudgetTools returns the three tools exposed to the model.
func NewBudgetTools(db output.DatabasePort, now func() time.Time, logger output.LoggerPort) []output.ToolPort {
	return []output.ToolPort{
		NewDateTool(now, logger),
		NewSchemaTool(db, logger),
		NewQueryTool(db, logger),
	}
}
