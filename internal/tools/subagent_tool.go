package tools

import (
	"context"
	"fmt"
)

// SpawnTool lets the agent fire off a background subagent and keep working;
// the result is announced back into the conversation once it finishes.
type SpawnTool struct {
	mgr      *SubagentManager
	agentID  string
	maxDepth int
}

// NewSpawnTool wraps mgr for agentID, treating maxDepth as the depth this
// tool itself runs at (0 for a top-level agent's spawn tool).
func NewSpawnTool(mgr *SubagentManager, agentID string, maxDepth int) *SpawnTool {
	return &SpawnTool{mgr: mgr, agentID: agentID, maxDepth: maxDepth}
}

func (t *SpawnTool) Name() string { return "spawn" }
func (t *SpawnTool) Description() string {
	return "Spawn a background subagent to work on a task asynchronously; its result is announced back to you when done"
}

func (t *SpawnTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task":  map[string]interface{}{"type": "string", "description": "The task for the subagent to perform"},
			"label": map[string]interface{}{"type": "string", "description": "Short human-readable label for this subagent"},
			"model": map[string]interface{}{"type": "string", "description": "Optional model override for the subagent"},
		},
		"required": []string{"task"},
	}
}

func (t *SpawnTool) Execute(ctx context.Context, args map[string]interface{}) *Result {
	task, _ := args["task"].(string)
	if task == "" {
		return ErrorResult("task is required")
	}
	label, _ := args["label"].(string)
	model, _ := args["model"].(string)

	channel := ToolChannelFromCtx(ctx)
	chatID := ToolChatIDFromCtx(ctx)
	peerKind := ToolPeerKindFromCtx(ctx)
	asyncCB := ToolAsyncCBFromCtx(ctx)

	msg, err := t.mgr.Spawn(ctx, t.agentID, t.maxDepth, task, label, model, channel, chatID, peerKind, asyncCB)
	if err != nil {
		return ErrorResult(err.Error())
	}
	return AsyncResult(msg)
}

// SubagentTool is the synchronous counterpart to spawn: it blocks until the
// subagent finishes and returns its result directly as the tool call's
// output, for cases where the caller needs the answer before continuing.
type SubagentTool struct {
	mgr      *SubagentManager
	agentID  string
	maxDepth int
}

func NewSubagentTool(mgr *SubagentManager, agentID string, maxDepth int) *SubagentTool {
	return &SubagentTool{mgr: mgr, agentID: agentID, maxDepth: maxDepth}
}

func (t *SubagentTool) Name() string { return "subagent" }
func (t *SubagentTool) Description() string {
	return "Run a subagent synchronously and wait for its result before continuing"
}

func (t *SubagentTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task":  map[string]interface{}{"type": "string", "description": "The task for the subagent to perform"},
			"label": map[string]interface{}{"type": "string", "description": "Short human-readable label for this subagent"},
		},
		"required": []string{"task"},
	}
}

func (t *SubagentTool) Execute(ctx context.Context, args map[string]interface{}) *Result {
	task, _ := args["task"].(string)
	if task == "" {
		return ErrorResult("task is required")
	}
	label, _ := args["label"].(string)

	channel := ToolChannelFromCtx(ctx)
	chatID := ToolChatIDFromCtx(ctx)

	result, iterations, err := t.mgr.RunSync(ctx, t.agentID, t.maxDepth, task, label, channel, chatID)
	if err != nil {
		return ErrorResult(fmt.Sprintf("subagent failed after %d iterations: %v", iterations, err))
	}
	return SilentResult(result)
}
