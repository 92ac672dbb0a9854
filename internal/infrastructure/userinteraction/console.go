package userinteraction

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

// ConsoleUserInteraction prints loop progress and reads questions for the
// interactive chat.
type ConsoleUserInteraction struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return NewConsole(os.Stdin, color.Output)
}

func NewConsole(in io.Reader, out io.Writer) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ReadQuestion prompts for the next question. io.EOF means the user is done.
func (u *ConsoleUserInteraction) ReadQuestion(ctx context.Context) (string, error) {
	color.New(color.FgMagenta, color.Bold).Fprint(u.out, "\n? ")

	line, err := u.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (u *ConsoleUserInteraction) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Step %d/%d ━━━\n", iteration, maxIterations)
}

func (u *ConsoleUserInteraction) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}

	blue := color.New(color.FgBlue)
	blue.Fprint(u.out, "\n💭 ")

	dim := color.New(color.Faint)
	dim.Fprintln(u.out, truncate(content, 500))
}

func (u *ConsoleUserInteraction) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := getToolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.out, "\n%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(u.out, "   %s\n", summary)
	}
}

func (u *ConsoleUserInteraction) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(u.out, "❌ ")

		dim := color.New(color.Faint)
		dim.Fprintln(u.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(u.out, "✓ %s\n", formatToolResult(toolName, result))
}

// ShowAnswer prints the final narrative and the queries run for it.
func (u *ConsoleUserInteraction) ShowAnswer(ctx context.Context, answer string, queries []string) {
	fmt.Fprintln(u.out)
	color.New(color.Bold).Fprintln(u.out, answer)

	if len(queries) == 0 {
		return
	}
	dim := color.New(color.Faint)
	dim.Fprintln(u.out, "\nQueries:")
	for _, q := range queries {
		dim.Fprintf(u.out, "  %s\n", q)
	}
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		entity.ToolGetTodaysDate.String():   {"📅", "Today's date"},
		entity.ToolInspectDatabase.String(): {"🗂️", "Inspect database"},
		entity.ToolExecuteSelect.String():   {"🔍", "Run query"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	if toolName != entity.ToolExecuteSelect.String() {
		return ""
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}
	if query, ok := args["query"].(string); ok {
		return truncate(strings.Join(strings.Fields(query), " "), 120)
	}
	return ""
}

func formatToolResult(toolName, result string) string {
	switch toolName {
	case entity.ToolGetTodaysDate.String():
		return result

	case entity.ToolInspectDatabase.String():
		var tables map[string]json.RawMessage
		if err := json.Unmarshal([]byte(result), &tables); err == nil {
			if _, failed := tables["error"]; !failed {
				return fmt.Sprintf("%d table(s)", len(tables))
			}
		}
		return truncate(result, 100)

	case entity.ToolExecuteSelect.String():
		var rows []json.RawMessage
		if err := json.Unmarshal([]byte(result), &rows); err == nil {
			return fmt.Sprintf("%d row(s)", len(rows))
		}
		return truncate(result, 100)
	}

	return truncate(result, 100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
