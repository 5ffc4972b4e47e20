package http

import (
	"encoding/json"
	"net/http"

	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/internal/tools"
)

type toolsInvokeRequest struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

// ToolsInvokeHandler exposes direct, single-call tool execution
// (POST /v1/tools/invoke) outside the agent loop, for callers that want one
// tool's result without paying for a full model turn (e.g. a dashboard
// "preview" button). In managed mode the caller's agent UUID is attached to
// the request context so store-backed tools can scope reads/writes.
type ToolsInvokeHandler struct {
	registry   *tools.Registry
	token      string
	agentStore store.AgentStore
}

func NewToolsInvokeHandler(registry *tools.Registry, token string, agentStore store.AgentStore) *ToolsInvokeHandler {
	return &ToolsInvokeHandler{registry: registry, token: token, agentStore: agentStore}
}

func (h *ToolsInvokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if h.token != "" && extractBearerToken(r) != h.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req toolsInvokeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Tool == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tool is required"})
		return
	}

	ctx := r.Context()
	if userID := extractUserID(r); userID != "" {
		ctx = store.WithUserID(ctx, userID)
	}

	result := h.registry.Execute(ctx, req.Tool, req.Args)
	status := http.StatusOK
	if result.IsError {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}
