package httpapi

import (
	"net/http"
	"strings"

	"budget-agent/internal/application/port/input"
	"budget-agent/internal/domain/entity"

	"github.com/go-chi/chi/v5"
)

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type messageRequest struct {
	Question string `json:"question"`
}

type messageResponse struct {
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Steps     int      `json:"steps"`
	Queries   []string `json:"queries"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []messageView `json:"messages"`
	Queries   []string      `json:"queries"`
}

func (h *handlers) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create(r.Context())
	h.logger.Info("Session created", "sessionID", session.ID)
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: session.ID})
}

func (h *handlers) handleSessionQuery(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	messages, queries := session.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: session.ID,
		Messages:  toMessageViews(messages),
		Queries:   queries,
	})
}

func (h *handlers) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "session_id")); err != nil {
		writeMappedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleSessionMessage(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	var request messageRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	question := strings.TrimSpace(request.Question)
	if question == "" {
		writeInvalidRequest(w, "question is required")
		return
	}

	log := h.logger.WithField("sessionID", session.ID)

	var result *input.ExecuteResult
	err = session.Do(func(state *entity.ConversationState) error {
		var execErr error
		result, execErr = h.executor.Execute(r.Context(), state, question)
		return execErr
	})
	if err != nil {
		log.Error("Turn failed", "error", err)
		writeMappedError(w, err)
		return
	}

	log.Info("Turn completed", "steps", result.Iterations, "queries", len(result.Queries))
	writeJSON(w, http.StatusOK, messageResponse{
		SessionID: session.ID,
		Answer:    result.FinalAnswer,
		Steps:     result.Iterations,
		Queries:   result.Queries,
	})
}
