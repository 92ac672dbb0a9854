package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget-agent/internal/adapter/httpapi"
	"budget-agent/internal/application/port/input"
	"budget-agent/internal/application/service"
	"budget-agent/internal/domain/entity"
	"budget-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor answers every question with one query and echoes it back.
type fakeExecutor struct {
	err error
}

func (f *fakeExecutor) Execute(_ context.Context, state *entity.ConversationState, question string) (*input.ExecuteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	query := "SELECT SUM(Expenditure) FROM budget_tracker"
	state.Append(entity.NewHumanMessage(question))
	state.Append(entity.NewAssistantMessage("", entity.ToolCall{ID: "c1", Name: entity.ToolExecuteSelect, Arguments: `{"query":"` + query + `"}`}))
	state.Apply(entity.StateUpdate{
		Queries: append(state.QueryLog(), query),
		Message: entity.NewToolMessage("c1", entity.ToolExecuteSelect, `[{"SUM(Expenditure)":450}]`),
	})
	state.Append(entity.NewAssistantMessage("You spent ₹450."))
	return &input.ExecuteResult{FinalAnswer: "You spent ₹450.", Iterations: 2, Queries: []string{query}}, nil
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type messageResponse struct {
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Steps     int      `json:"steps"`
	Queries   []string `json:"queries"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Messages  []struct {
		Role      string `json:"role"`
		Content   string `json:"content"`
		ToolCalls []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"tool_calls"`
		ToolCallID string `json:"tool_call_id"`
	} `json:"messages"`
	Queries []string `json:"queries"`
}

func newTestServer(t *testing.T, exec input.TaskExecutor) *httptest.Server {
	t.Helper()
	router := httpapi.NewRouter(service.NewSessionStore(), exec, logger.NewNop(), httpapi.Options{})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func performJSON(t *testing.T, client *http.Client, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createSession(t *testing.T, server *httptest.Server) string {
	t.Helper()
	var created struct {
		SessionID string `json:"session_id"`
	}
	status := performJSON(t, server.Client(), http.MethodPost, server.URL+"/v1/sessions", nil, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &fakeExecutor{})

	var body map[string]string
	status := performJSON(t, server.Client(), http.MethodGet, server.URL+"/healthz", nil, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSessionMessageAndQuery(t *testing.T) {
	server := newTestServer(t, &fakeExecutor{})
	id := createSession(t, server)

	var answered messageResponse
	status := performJSON(t, server.Client(), http.MethodPost, server.URL+"/v1/sessions/"+id+"/messages",
		map[string]any{"question": "How much did I spend?"}, &answered)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, answered.SessionID)
	assert.Equal(t, "You spent ₹450.", answered.Answer)
	assert.Equal(t, 2, answered.Steps)
	assert.Equal(t, []string{"SELECT SUM(Expenditure) FROM budget_tracker"}, answered.Queries)

	var session sessionResponse
	status = performJSON(t, server.Client(), http.MethodGet, server.URL+"/v1/sessions/"+id, nil, &session)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, session.Messages, 4)
	assert.Equal(t, "human", session.Messages[0].Role)
	assert.Equal(t, "How much did I spend?", session.Messages[0].Content)
	require.Len(t, session.Messages[1].ToolCalls, 1)
	assert.Equal(t, "execute_sqlite_select", session.Messages[1].ToolCalls[0].Name)
	assert.Equal(t, "c1", session.Messages[2].ToolCallID)
	assert.Equal(t, []string{"SELECT SUM(Expenditure) FROM budget_tracker"}, session.Queries)
}

func TestSessionsAreIsolated(t *testing.T) {
	server := newTestServer(t, &fakeExecutor{})
	first := createSession(t, server)
	second := createSession(t, server)
	require.NotEqual(t, first, second)

	status := performJSON(t, server.Client(), http.MethodPost, server.URL+"/v1/sessions/"+first+"/messages",
		map[string]any{"question": "q"}, &messageResponse{})
	require.Equal(t, http.StatusOK, status)

	var session sessionResponse
	status = performJSON(t, server.Client(), http.MethodGet, server.URL+"/v1/sessions/"+second, nil, &session)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, session.Messages)
	assert.Empty(t, session.Queries)
}

func TestSessionErrors(t *testing.T) {
	server := newTestServer(t, &fakeExecutor{})
	id := createSession(t, server)

	var unknown errorResponse
	status := performJSON(t, server.Client(), http.MethodGet, server.URL+"/v1/sessions/does-not-exist", nil, &unknown)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", unknown.Error.Code)

	var invalid errorResponse
	status = performJSON(t, server.Client(), http.MethodPost, server.URL+"/v1/sessions/"+id+"/messages",
		map[string]any{"question": "   "}, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_request", invalid.Error.Code)

	status = performJSON(t, server.Client(), http.MethodPost, server.URL+"/v1/sessions/"+id+"/messages",
		`{"question":"q","extra":1}`, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)

	status = performJSON(t, server.Client(), http.MethodDelete, server.URL+"/v1/sessions/"+id, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = performJSON(t, server.Client(), http.MethodDelete, server.URL+"/v1/sessions/"+id, nil, &unknown)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionMessageRuntimeError(t *testing.T) {
	server := newTestServer(t, &fakeExecutor{err: errors.New("llm request failed: connection refused")})
	id := createSession(t, server)

	var failed errorResponse
	status := performJSON(t, server.Client(), http.MethodPost, server.URL+"/v1/sessions/"+id+"/messages",
		map[string]any{"question": "q"}, &failed)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "runtime_error", failed.Error.Code)
	assert.Contains(t, failed.Error.Message, "connection refused")
}
