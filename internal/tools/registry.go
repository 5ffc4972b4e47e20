package tools

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/openclaw/openclaw/internal/providers"
)

// Tool is anything the agent loop can offer to the model as a function call.
// Parameters returns a JSON-schema "properties" object (the same shape every
// tool in this package already builds for Execute's args map).
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args map[string]interface{}) *Result
}

// AsyncCallback is invoked once a tool that returned an Async result (e.g. a
// spawned subagent) actually finishes, so the agent loop can fold the real
// result back into the conversation instead of the original placeholder.
type AsyncCallback func(ctx context.Context, result *Result)

// Registry is the set of tools wired into one agent's loop. It is built once
// per agent (or per subagent spawn, via the createTools closures in
// subagent.go) and handed to the provider call as the function-calling
// surface.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string

	rateLimiter *ToolRateLimiter
	scrub       bool // auto-redact API keys/tokens in tool output; default true
}

// NewRegistry returns an empty tool registry with credential scrubbing on.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool), scrub: true}
}

// Register adds t, keyed by its own Name(). A later Register under the same
// name replaces the earlier tool without changing its position.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Unregister removes a tool by name, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; !ok {
		return
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the tool registered under name, if any.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every registered tool in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.tools[n])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered tools, for startup log lines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// SetRateLimiter installs a per-hour call limiter shared across every tool
// in the registry. A nil limiter (the default) disables limiting.
func (r *Registry) SetRateLimiter(rl *ToolRateLimiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateLimiter = rl
}

// SetScrubbing toggles whether tool output is passed through the credential
// scrubber before it reaches the model or the user.
func (r *Registry) SetScrubbing(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrub = enabled
}

// Execute dispatches a call by tool name, used by both the agent loop's
// function-calling step and the /v1/tools/invoke HTTP surface.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) *Result {
	t, ok := r.Get(name)
	if !ok {
		return &Result{ForLLM: fmt.Sprintf("unknown tool: %s", name), IsError: true}
	}

	r.mu.RLock()
	limiter, scrub := r.rateLimiter, r.scrub
	r.mu.RUnlock()

	if limiter != nil {
		key := ToolSandboxKeyFromCtx(ctx)
		if key == "" {
			key = name
		}
		if !limiter.Allow(key) {
			return &Result{ForLLM: "tool rate limit exceeded for this session, try again later", IsError: true}
		}
	}

	result := t.Execute(ctx, args)
	if scrub && result != nil {
		result.ForLLM = scrubCredentials(result.ForLLM)
		result.ForUser = scrubCredentials(result.ForUser)
	}
	return result
}

// ExecuteWithContext is Execute plus the per-call routing context (origin
// channel/chat/session and an optional async completion callback) that
// session-aware and subagent-spawning tools read back via the
// ToolXFromCtx helpers in context_keys.go.
func (r *Registry) ExecuteWithContext(
	ctx context.Context,
	name string,
	args map[string]interface{},
	channel, chatID, peerKind, sessionKey string,
	asyncCB AsyncCallback,
) *Result {
	ctx = WithToolChannel(ctx, channel)
	ctx = WithToolChatID(ctx, chatID)
	ctx = WithToolPeerKind(ctx, peerKind)
	ctx = WithToolSandboxKey(ctx, sessionKey)
	if asyncCB != nil {
		ctx = WithToolAsyncCB(ctx, asyncCB)
	}
	return r.Execute(ctx, name, args)
}

// Definitions returns the provider-agnostic {name, description, parameters}
// schema for every registered tool, used by the OpenAI-compatible REST
// surface (internal/http) which speaks plain JSON rather than a specific
// provider's ToolDefinition shape.
func (r *Registry) Definitions() []map[string]interface{} {
	tools := r.List()
	out := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]interface{}{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		})
	}
	return out
}

// ProviderDefs returns every registered tool's schema as a
// providers.ToolDefinition, ready to hand to Provider.Chat/ChatStream.
func (r *Registry) ProviderDefs() []providers.ToolDefinition {
	tools := r.List()
	out := make([]providers.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToProviderDef(t))
	}
	return out
}

// ToProviderDef converts one Tool into the wire schema a provider expects.
func ToProviderDef(t Tool) providers.ToolDefinition {
	return providers.ToolDefinition{
		Type: "function",
		Function: providers.ToolFunctionSchema{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}

// credentialPatterns matches the common secret shapes worth redacting from
// tool output before it reaches the model or a chat transcript: provider API
// keys, bearer tokens, and AWS-style access keys.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`xox[baprs]-[A-Za-z0-9-]{10,}`),
}

// scrubCredentials redacts recognizable secret shapes from s. It is
// deliberately conservative (pattern-based, not heuristic-based) to avoid
// mangling ordinary output.
func scrubCredentials(s string) string {
	if s == "" {
		return s
	}
	for _, re := range credentialPatterns {
		s = re.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}
