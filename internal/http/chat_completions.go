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

// chatMessage is one OpenAI-style chat message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
	User     string        `json:"user,omitempty"`
}

type chatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatCompletionUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type chatCompletionsResponse struct {
	ID      string                  `json:"id"`
	Object  string                  `json:"object"`
	Created int64                   `json:"created"`
	Model   string                  `json:"model"`
	Choices []chatCompletionChoice  `json:"choices"`
	Usage   chatCompletionUsage     `json:"usage"`
}

// ChatCompletionsHandler implements an OpenAI-compatible /v1/chat/completions
// endpoint over the agent runtime: the last user message in the request
// becomes the turn, and the rest of the array is treated as already present
// in session history (the session IS the conversation, so repeated full
// histories are accepted but not replayed).
type ChatCompletionsHandler struct {
	agents    *agent.Router
	sessions  store.SessionStore
	token     string
	isManaged bool
	allow     func(id string) bool
}

// NewChatCompletionsHandler builds the /v1/chat/completions handler.
// isManaged enables per-request agent UUID resolution; standalone mode
// resolves "model" directly against the agent router by agent id.
func NewChatCompletionsHandler(agents *agent.Router, sess store.SessionStore, token string, isManaged bool) *ChatCompletionsHandler {
	return &ChatCompletionsHandler{agents: agents, sessions: sess, token: token, isManaged: isManaged}
}

// SetRateLimiter installs a per-request admission check (true = allowed).
func (h *ChatCompletionsHandler) SetRateLimiter(allow func(id string) bool) {
	h.allow = allow
}

func (h *ChatCompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if h.token != "" && extractBearerToken(r) != h.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	if h.allow != nil {
		id := extractUserID(r)
		if id == "" {
			id = r.RemoteAddr
		}
		if !h.allow(id) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
	}

	var req chatCompletionsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Model == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "model is required"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages is required"})
		return
	}

	lastUser := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUser = req.Messages[i].Content
			break
		}
	}
	if lastUser == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no user message found"})
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
		Message:    lastUser,
		Channel:    "api",
		ChatID:     convID,
		PeerKind:   "direct",
		RunID:      uuid.NewString(),
		Stream:     false,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := chatCompletionsResponse{
		ID:      fmt.Sprintf("chatcmpl-%s", result.RunID),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatCompletionChoice{{
			Index:        0,
			Message:      chatMessage{Role: "assistant", Content: result.Content},
			FinishReason: "stop",
		}},
	}
	if result.Usage != nil {
		resp.Usage = chatCompletionUsage{
			PromptTokens:     int64(result.Usage.PromptTokens),
			CompletionTokens: int64(result.Usage.CompletionTokens),
			TotalTokens:      int64(result.Usage.TotalTokens),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
