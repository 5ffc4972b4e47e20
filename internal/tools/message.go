package tools

import (
	"context"

	"github.com/openclaw/openclaw/internal/bus"
)

// MessageTool lets the agent push a message to a channel/chat outside the
// normal reply flow (e.g. proactively pinging a user from a cron run).
type MessageTool struct {
	msgBus  *bus.MessageBus
	sender  ChannelSender
}

func NewMessageTool() *MessageTool { return &MessageTool{} }

func (t *MessageTool) SetMessageBus(b *bus.MessageBus)    { t.msgBus = b }
func (t *MessageTool) SetChannelSender(s ChannelSender)   { t.sender = s }

func (t *MessageTool) Name() string        { return "message" }
func (t *MessageTool) Description() string { return "Send a message to a user on a specific channel" }

func (t *MessageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"channel": map[string]interface{}{
				"type":        "string",
				"description": "Channel name to send through, e.g. telegram, discord",
			},
			"chat_id": map[string]interface{}{
				"type":        "string",
				"description": "Destination chat/user id on that channel",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Message content to send",
			},
		},
		"required": []string{"channel", "chat_id", "content"},
	}
}

func (t *MessageTool) Execute(ctx context.Context, args map[string]interface{}) *Result {
	channel, _ := args["channel"].(string)
	chatID, _ := args["chat_id"].(string)
	content, _ := args["content"].(string)

	if channel == "" || chatID == "" || content == "" {
		return ErrorResult("channel, chat_id and content are all required")
	}
	if t.sender == nil {
		return ErrorResult("channel sender not available")
	}

	if err := t.sender(ctx, channel, chatID, content); err != nil {
		return ErrorResult("failed to send message: " + err.Error())
	}
	return SilentResult("message sent")
}
