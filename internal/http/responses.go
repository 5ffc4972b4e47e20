package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openclaw/openclaw/internal/agent"
	"github.com/openclaw/openclaw/internal/sessions"
	"github.com/openclaw/openclaw/internal/store"
)

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	User  string `json:"user,omitempty"`
}

type responsesOutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesOutput struct {
	Type    string                   `json:"type"`
	Role    string                   `json:"role"`
	Content []responsesOutputContent `json:"content"`
}

type responsesResponse struct {
	ID        string             `json:"id"`
	Object    string             `json:"object"`
	CreatedAt int64              `json:"created_at"`
	Model     string             `json:"model"`
	Status    string             `json:"status"`
	Output    []responsesOutput  `json:"output"`
}

// ResponsesHandler implements the simpler single-turn OpenResponses protocol
// (POST /v1/responses: {model, input} → {output: [...]}) as an alternative
// to /v1/chat/completions for callers that don't track a message array.
type ResponsesHandler struct {
	agents   *agent.Router
	sessions store.SessionStore
	token    string
}

func NewResponsesHandler(agents *agent.Router, sess store.SessionStore, token string) *ResponsesHandler {
	return &ResponsesHandler{agents: agents, sessions: sess, token: token}
}

func (h *ResponsesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if h.token != "" && extractBearerToken(r) != h.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req responsesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Model == "" || req.Input == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "model and input are required"})
		return
	}

	ag, err := h.agents.Get(req.Model)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown model/agent: " + req.Model})
		return
	}

	convID := req.User
	if convID == "" {
		convID = extractUserID(r)
	}
	if convID == "" {
		convID = "anonymous"
	}
	sessionKey := sessions.BuildSessionKey(req.Model, "api", sessions.PeerDirect, convID)

	result, err := ag.Run(r.Context(), agent.RunRequest{
		SessionKey: sessionKey,
		Message:    req.Input,
		Channel:    "api",
		ChatID:     convID,
		PeerKind:   "direct",
		RunID:      uuid.NewString(),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, responsesResponse{
		ID:        fmt.Sprintf("resp-%s", result.RunID),
		Object:    "response",
		CreatedAt: time.Now().Unix(),
		Model:     req.Model,
		Status:    "completed",
		Output: []responsesOutput{{
			Type: "message",
			Role: "assistant",
			Content: []responsesOutputContent{{
				Type: "output_text",
				Text: result.Content,
			}},
		}},
	})
}
