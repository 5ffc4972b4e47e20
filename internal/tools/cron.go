package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/openclaw/openclaw/internal/store"
)

// CronTool lets the agent manage its own scheduled, isolated-session runs.
type CronTool struct {
	cron store.CronStore
}

func NewCronTool(c store.CronStore) *CronTool { return &CronTool{cron: c} }

func (t *CronTool) Name() string { return "cron" }
func (t *CronTool) Description() string {
	return "List, create, update, or delete scheduled agent runs (cron jobs)."
}

func (t *CronTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"list", "create", "update", "delete", "enable", "disable"},
				"description": "Operation to perform",
			},
			"id": map[string]interface{}{
				"type":        "string",
				"description": "Job id (required for update/delete/enable/disable)",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable job name (create/update)",
			},
			"schedule": map[string]interface{}{
				"type":        "string",
				"description": "5-field cron expression (create/update)",
			},
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Prompt to send the agent when the job fires (create/update)",
			},
			"channel": map[string]interface{}{
				"type":        "string",
				"description": "Channel to deliver the result to, if deliver is true",
			},
			"to": map[string]interface{}{
				"type":        "string",
				"description": "Chat id to deliver the result to, if deliver is true",
			},
			"deliver": map[string]interface{}{
				"type":        "boolean",
				"description": "Push the run result to channel/to instead of only archiving it",
			},
		},
		"required": []string{"action"},
	}
}

func (t *CronTool) Execute(ctx context.Context, args map[string]interface{}) *Result {
	if t.cron == nil {
		return ErrorResult("cron store not available")
	}

	action, _ := args["action"].(string)
	agentID := resolveAgentIDString(ctx)

	switch action {
	case "list":
		jobs := t.cron.List(agentID)
		out, _ := json.Marshal(jobs)
		return SilentResult(string(out))

	case "create":
		name, _ := args["name"].(string)
		schedule, _ := args["schedule"].(string)
		message, _ := args["message"].(string)
		if schedule == "" || message == "" {
			return ErrorResult("schedule and message are required to create a cron job")
		}
		channel, _ := args["channel"].(string)
		to, _ := args["to"].(string)
		deliver, _ := args["deliver"].(bool)

		job := &store.CronJob{
			ID:       uuid.NewString(),
			Name:     name,
			AgentID:  agentID,
			Schedule: schedule,
			Enabled:  true,
			Payload: store.CronPayload{
				Channel: channel,
				To:      to,
				Message: message,
				Deliver: deliver,
			},
		}
		if err := t.cron.Create(job); err != nil {
			return ErrorResult("failed to create cron job: " + err.Error())
		}
		out, _ := json.Marshal(job)
		return SilentResult(string(out))

	case "update":
		id, _ := args["id"].(string)
		if id == "" {
			return ErrorResult("id is required to update a cron job")
		}
		err := t.cron.Update(id, func(job *store.CronJob) {
			if v, ok := args["name"].(string); ok && v != "" {
				job.Name = v
			}
			if v, ok := args["schedule"].(string); ok && v != "" {
				job.Schedule = v
			}
			if v, ok := args["message"].(string); ok && v != "" {
				job.Payload.Message = v
			}
			if v, ok := args["channel"].(string); ok && v != "" {
				job.Payload.Channel = v
			}
			if v, ok := args["to"].(string); ok && v != "" {
				job.Payload.To = v
			}
			if v, ok := args["deliver"].(bool); ok {
				job.Payload.Deliver = v
			}
		})
		if err != nil {
			return ErrorResult("failed to update cron job: " + err.Error())
		}
		updated, err := t.cron.Get(id)
		if err != nil {
			return ErrorResult("failed to reload cron job: " + err.Error())
		}
		out, _ := json.Marshal(updated)
		return SilentResult(string(out))

	case "delete":
		id, _ := args["id"].(string)
		if id == "" {
			return ErrorResult("id is required to delete a cron job")
		}
		if err := t.cron.Delete(id); err != nil {
			return ErrorResult("failed to delete cron job: " + err.Error())
		}
		return SilentResult(fmt.Sprintf("cron job %s deleted", id))

	case "enable", "disable":
		id, _ := args["id"].(string)
		if id == "" {
			return ErrorResult("id is required")
		}
		if err := t.cron.SetEnabled(id, action == "enable"); err != nil {
			return ErrorResult(err.Error())
		}
		return SilentResult(fmt.Sprintf("cron job %s %sd", id, action))

	default:
		return ErrorResult("unknown action: " + action)
	}
}
