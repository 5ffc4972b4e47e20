package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Agent is anything that can execute a single turn of conversation.
// *Loop satisfies this directly; ResolverFunc implementations may
// build alternate agent types (e.g. cron-only runners) around it.
type Agent interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

// agentEntry caches a registered or resolved Agent; InvalidateAgent and
// InvalidateAll drop entries to force re-resolution on the next Get.
type agentEntry struct {
	agent Agent
}

// ResolverFunc resolves an agentKey (agent id) to a runnable Agent,
// building it lazily on first use. Standalone mode registers concrete
// *Loop values directly via Register and never needs a resolver at all.
type ResolverFunc func(agentKey string) (Agent, error)

// Router is the process-wide directory of runnable agents. Callers look
// agents up by id (the "default" agent plus any named in agents.list)
// and the router caches what it resolves so repeat lookups are free.
type Router struct {
	mu       sync.RWMutex
	agents   map[string]*agentEntry
	resolver ResolverFunc
}

// NewRouter creates an empty Router. Use Register to add agents eagerly
// (the standalone, config-driven path) or SetResolver to resolve agents
// lazily on first Get (the managed, store-driven path).
func NewRouter() *Router {
	return &Router{
		agents: make(map[string]*agentEntry),
	}
}

// SetResolver installs a lazy resolver used when Get misses the cache.
func (r *Router) SetResolver(resolver ResolverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = resolver
}

// Register adds or replaces a concrete agent under agentID.
func (r *Router) Register(agentID string, a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agentID] = &agentEntry{agent: a}
}

// Get returns the agent for agentID, resolving it via the installed
// resolver (if any) on a cache miss.
func (r *Router) Get(agentID string) (Agent, error) {
	r.mu.RLock()
	entry, ok := r.agents[agentID]
	resolver := r.resolver
	r.mu.RUnlock()
	if ok {
		return entry.agent, nil
	}
	if resolver == nil {
		return nil, fmt.Errorf("agent %q not registered", agentID)
	}
	a, err := resolver(agentID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.agents[agentID] = &agentEntry{agent: a}
	r.mu.Unlock()
	return a, nil
}

// List returns the ids of every agent currently cached in the router.
func (r *Router) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	return ids
}

// InvalidateAgent removes an agent from the router cache, forcing
// re-resolution on the next Get. Used when agent config is updated.
func (r *Router) InvalidateAgent(agentKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, agentKey)
	slog.Debug("invalidated agent cache", "agent", agentKey)
}

// InvalidateAll clears the entire agent cache, forcing every agent to
// re-resolve. Used when global tools or config change.
func (r *Router) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents = make(map[string]*agentEntry)
	slog.Debug("invalidated all agent caches")
}
