package prompts

import (
	"strings"
	"testing"
	"time"

	"budget-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSystemPrompt(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	tools := []entity.ToolDefinition{
		{Name: entity.ToolInspectDatabase, Description: "Inspect tables."},
		{Name: entity.ToolExecuteSelect, Description: "Run a SELECT."},
		{Name: entity.ToolGetTodaysDate, Description: "Today's date."},
	}

	prompt, err := GenerateSystemPrompt(SystemPrompt, now, tools)

	require.NoError(t, err)
	assert.Contains(t, prompt, "System time: 2024-03-15T07:00:00Z")
	assert.Contains(t, prompt, "- get_todays_date: Today's date.")

	execIdx := strings.Index(prompt, "execute_sqlite_select")
	dateIdx := strings.Index(prompt, "get_todays_date")
	inspectIdx := strings.Index(prompt, "inspect_sqlite_db")
	assert.True(t, execIdx < dateIdx && dateIdx < inspectIdx, "tools should be sorted by name")
	assert.NotContains(t, prompt, "{{")
}

func TestGenerateSystemPrompt_NoTools(t *testing.T) {
	prompt, err := GenerateSystemPrompt("Time {{.SystemTime}}{{range .Tools}} {{.Name}}{{end}}", time.Unix(0, 0), nil)

	require.NoError(t, err)
	assert.Equal(t, "Time 1970-01-01T00:00:00Z", prompt)
}

func TestGenerateSystemPrompt_InvalidTemplate(t *testing.T) {
	_, err := GenerateSystemPrompt("{{.Missing", time.Now(), nil)
	assert.Error(t, err)
}
