package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/openclaw/openclaw/internal/store"
)

// TracesHandler exposes read-only LLM trace/span listing (managed mode): the
// in-process tracing.Collector drives live WebSocket events, this surface is
// for after-the-fact inspection of persisted runs.
type TracesHandler struct {
	store store.TracingStore
	token string
}

func NewTracesHandler(s store.TracingStore, token string) *TracesHandler {
	return &TracesHandler{store: s, token: token}
}

func (h *TracesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/traces", h.auth(h.handleList))
	mux.HandleFunc("GET /v1/traces/{id}", h.auth(h.handleGet))
}

func (h *TracesHandler) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && extractBearerToken(r) != h.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (h *TracesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var agentID *uuid.UUID
	if raw := r.URL.Query().Get("agent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid agent_id"})
			return
		}
		agentID = &id
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	traces, err := h.store.ListTraces(agentID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"traces": traces})
}

func (h *TracesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid trace ID"})
		return
	}
	trace, spans, err := h.store.GetTrace(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "trace not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trace": trace, "spans": spans})
}
