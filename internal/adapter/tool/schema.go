package tool

import (
	"context"
	"encoding/json"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"
)

// SampleRowLimit caps the rows returned per table by schema inspection.
const SampleRowLimit = 5

type SchemaTool struct {
	db     output.DatabasePort
	logger output.LoggerPort
}

func NewSchemaTool(db output.DatabasePort, logger output.LoggerPort) *SchemaTool {
	return &SchemaTool{db: db, logger: logger}
}

func (t *SchemaTool) Name() entity.ToolName { return entity.ToolInspectDatabase }
func (t *SchemaTool) Description() string {
	return "Inspect the complete structure of the budget database. Returns every table with its CREATE TABLE statement and up to 5 sample rows, as JSON. Use this before writing queries to learn table and column names."
}
func (t *SchemaTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// Execute always returns a JSON document. Database failures are reported as
// {"error": "..."} rather than as a Go error.
func (t *SchemaTool) Execute(ctx context.Context, _ string) (string, error) {
	tables, err := t.db.Inspect(ctx, SampleRowLimit)
	if err != nil {
		t.logger.Warn("Schema inspection failed", "error", err)
		return errorDocument(err), nil
	}

	doc := make(entity.Schema, 0, len(tables))
	for _, table := range tables {
		if table.SampleRows == nil {
			table.SampleRows = []entity.Row{}
		}
		doc = append(doc, table)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.logger.Warn("Schema document encoding failed", "error", err)
		return errorDocument(err), nil
	}

	t.logger.Info("Inspected database", "tables", len(tables))
	return string(data), nil
}

func errorDocument(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
