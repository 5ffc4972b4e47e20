package feishu

// MessageEvent is the decoded payload of a Feishu/Lark "im.message.receive_v1"
// event, shared by both the WebSocket long-connection frame and the webhook
// POST body once decrypted.
type MessageEvent struct {
	Schema string      `json:"schema,omitempty"`
	Header EventHeader `json:"header"`
	Event  struct {
		Sender  EventSender  `json:"sender"`
		Message EventMessage `json:"message"`
	} `json:"event"`
}

// EventHeader carries the envelope fields common to every Feishu event type.
type EventHeader struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	CreateTime string `json:"create_time"`
	Token      string `json:"token"`
	AppID      string `json:"app_id"`
	TenantKey  string `json:"tenant_key"`
}

// OpenIDRef identifies a user by the three ID spaces Feishu exposes.
type OpenIDRef struct {
	UnionID string `json:"union_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	OpenID  string `json:"open_id"`
}

// EventSender identifies who sent a message.
type EventSender struct {
	SenderID   OpenIDRef `json:"sender_id"`
	SenderType string    `json:"sender_type,omitempty"`
	TenantKey  string    `json:"tenant_key,omitempty"`
}

// EventMessage is the message body of a receive_v1 event.
type EventMessage struct {
	MessageID   string         `json:"message_id"`
	RootID      string         `json:"root_id,omitempty"`
	ParentID    string         `json:"parent_id,omitempty"`
	CreateTime  string         `json:"create_time,omitempty"`
	ChatID      string         `json:"chat_id"`
	ChatType    string         `json:"chat_type"`
	MessageType string         `json:"message_type"`
	Content     string         `json:"content"`
	Mentions    []EventMention `json:"mentions,omitempty"`
}

// EventMention is one @-mention entry inside a message's content.
type EventMention struct {
	Key       string    `json:"key"`
	ID        OpenIDRef `json:"id"`
	Name      string    `json:"name,omitempty"`
	TenantKey string    `json:"tenant_key,omitempty"`
}

// webhookChallenge is Feishu's one-time URL verification handshake: on
// subscription setup it POSTs this instead of a real event, and expects the
// challenge echoed back verbatim.
type webhookChallenge struct {
	Challenge string `json:"challenge"`
	Token     string `json:"token"`
	Type      string `json:"type"`
}

// encryptedEnvelope wraps an AES-encrypted webhook body when an encrypt key
// is configured for the app.
type encryptedEnvelope struct {
	Encrypt string `json:"encrypt"`
}
