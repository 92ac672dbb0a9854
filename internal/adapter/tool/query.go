package tool

import (
	"context"
	"encoding/json"
	"strings"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"
)

const (
	RejectionMessage = "Error: Only SELECT queries are allowed."
	ExecutionPrefix  = "Error executing query: "
)

var _ output.StatefulToolPort = (*QueryTool)(nil)

type QueryTool struct {
	db     output.DatabasePort
	logger output.LoggerPort
}

func NewQueryTool(db output.DatabasePort, logger output.LoggerPort) *QueryTool {
	return &QueryTool{db: db, logger: logger}
}

func (t *QueryTool) Name() entity.ToolName { return entity.ToolExecuteSelect }
func (t *QueryTool) Description() string {
	return "Execute a SELECT query on the budget SQLite database and return the rows as a JSON list of objects keyed by column name. Only SELECT statements are allowed. Prefer the structured Year, Month and Day columns over free-text dates."
}
func (t *QueryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "SQL SELECT query to execute. Must start with SELECT. Example: SELECT * FROM budget_tracker WHERE Expenditure > 100",
			},
		},
		"required": []string{"query"},
	}
}

// IsSelect reports whether q passes the SELECT-only gate: it must start with
// SELECT and hold exactly one statement.
func IsSelect(q string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(q)), "select") && IsSingleStatement(q)
}

// IsSingleStatement reports whether nothing but whitespace, comments and
// semicolons follows the first statement terminator in q. Semicolons inside
// string literals, quoted identifiers and comments do not terminate.
func IsSingleStatement(q string) bool {
	end, ok := statementEnd(q)
	if !ok {
		return false
	}
	return onlyTrivia(q[end:])
}

// statementEnd returns the index just past the first top-level ';', or
// len(q) when there is none. ok is false for an unterminated literal or
// comment.
func statementEnd(q string) (int, bool) {
	for i := 0; i < len(q); i++ {
		switch c := q[i]; c {
		case '\'', '"', '`':
			j := closeQuote(q, i+1, c)
			if j < 0 {
				return 0, false
			}
			i = j
		case '[':
			j := strings.IndexByte(q[i+1:], ']')
			if j < 0 {
				return 0, false
			}
			i += j + 1
		case '-', '/':
			j, isComment, ok := skipComment(q, i)
			if !ok {
				return 0, false
			}
			if isComment {
				i = j - 1
			}
		case ';':
			return i + 1, true
		}
	}
	return len(q), true
}

// closeQuote finds the closing quote starting at from; a doubled quote is an
// escaped quote.
func closeQuote(q string, from int, quote byte) int {
	for i := from; i < len(q); i++ {
		if q[i] != quote {
			continue
		}
		if i+1 < len(q) && q[i+1] == quote {
			i++
			continue
		}
		return i
	}
	return -1
}

// skipComment returns the index just past a comment starting at i.
func skipComment(q string, i int) (next int, isComment, ok bool) {
	switch {
	case strings.HasPrefix(q[i:], "--"):
		nl := strings.IndexByte(q[i:], '\n')
		if nl < 0 {
			return len(q), true, true
		}
		return i + nl + 1, true, true
	case strings.HasPrefix(q[i:], "/*"):
		end := strings.Index(q[i+2:], "*/")
		if end < 0 {
			return 0, true, false
		}
		return i + 2 + end + 2, true, true
	}
	return i + 1, false, true
}

func onlyTrivia(rest string) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v', ';':
		case '-', '/':
			j, isComment, ok := skipComment(rest, i)
			if !isComment || !ok {
				return false
			}
			i = j - 1
		default:
			return false
		}
	}
	return true
}

// Invoke runs the call against the session's query log and returns the
// updated log together with the tool message. It never fails.
func (t *QueryTool) Invoke(ctx context.Context, call entity.ToolCall, queries []string) entity.StateUpdate {
	log := append([]string(nil), queries...)

	query, ok := queryArgument(call.Arguments)
	if !ok || !IsSelect(query) {
		t.logger.Warn("Rejected non-SELECT query", "query", query, "callID", call.ID)
		return t.update(call, log, RejectionMessage)
	}

	log = append(log, query)

	rows, err := t.db.Query(ctx, query)
	if err != nil {
		t.logger.Error("Query failed", "query", query, "error", err)
		return t.update(call, log, ExecutionPrefix+err.Error())
	}

	data, err := json.Marshal(rows)
	if err != nil {
		t.logger.Error("Query result encoding failed", "query", query, "error", err)
		return t.update(call, log, ExecutionPrefix+err.Error())
	}

	t.logger.Info("Query executed", "query", query, "rows", len(rows))
	return t.update(call, log, string(data))
}

// Execute runs a query outside any session; the query log is discarded.
func (t *QueryTool) Execute(ctx context.Context, arguments string) (string, error) {
	u := t.Invoke(ctx, entity.ToolCall{Name: t.Name(), Arguments: arguments}, nil)
	return u.Message.Text(), nil
}

func (t *QueryTool) update(call entity.ToolCall, log []string, content string) entity.StateUpdate {
	return entity.StateUpdate{
		Queries: log,
		Message: entity.NewToolMessage(call.ID, t.Name(), content),
	}
}

func queryArgument(arguments string) (string, bool) {
	var input struct {
		Query *string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &input); err != nil || input.Query == nil {
		return "", false
	}
	return *input.Query, true
}
