package prompts

import (
	"bytes"
	"sort"
	"text/template"
	"time"

	"budget-agent/internal/domain/entity"
)

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	SystemTime string
	Tools      []ToolInfo
}

// GenerateSystemPrompt renders baseTemplate with the given time (as UTC
// RFC 3339) and the tool list sorted by name.
func GenerateSystemPrompt(baseTemplate string, now time.Time, tools []entity.ToolDefinition) (string, error) {
	toolInfos := make([]ToolInfo, 0, len(tools))
	for _, tool := range tools {
		toolInfos = append(toolInfos, ToolInfo{
			Name:        tool.Name.String(),
			Description: tool.Description,
		})
	}

	sort.Slice(toolInfos, func(i, j int) bool {
		return toolInfos[i].Name < toolInfos[j].Name
	})

	data := SystemPromptData{
		SystemTime: now.UTC().Format(time.RFC3339),
		Tools:      toolInfos,
	}

	tmpl, err := template.New("system").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
