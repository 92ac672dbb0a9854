package tool

import (
	"context"
	"time"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type DateTool struct {
	now    func() time.Time
	logger output.LoggerPort
}

func NewDateTool(now func() time.Time, logger output.LoggerPort) *DateTool {
	if now == nil {
		now = time.Now
	}
	return &DateTool{now: now, logger: logger}
}

func (t *DateTool) Name() entity.ToolName { return entity.ToolGetTodaysDate }
func (t *DateTool) Description() string {
	return "Get today's date in YYYY-MM-DD format. Use it to resolve relative periods such as 'last month' or 'this year' before filtering on Year/Month/Day columns."
}
func (t *DateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *DateTool) Execute(ctx context.Context, _ string) (string, error) {
	today := t.now().Format(dateLayout)
	t.logger.Debug("Resolved current date", "date", today)
	return today, nil
}
