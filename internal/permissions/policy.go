// Package permissions implements the group/DM policy evaluator: the
// decision of whether an inbound group or DM message is authorized to reach
// an agent session, and whether a reply must first see an explicit mention.
package permissions

import (
	"log/slog"
	"strings"
	"sync"
)

// GroupPolicyMode controls how group chats are gated for a channel.
type GroupPolicyMode string

const (
	GroupPolicyOpen      GroupPolicyMode = "open"
	GroupPolicyAllowlist GroupPolicyMode = "allowlist"
	GroupPolicyDisabled  GroupPolicyMode = "disabled"
)

// GroupConfig is the per-group override under a channel's "groups" map.
// RequireMention is a pointer so "unset" is distinguishable from "false".
type GroupConfig struct {
	RequireMention *bool
	AllowFrom      []string
}

// ChannelPolicyConfig is the policy configuration for one channel-account.
type ChannelPolicyConfig struct {
	GroupPolicy           GroupPolicyMode
	DefaultRequireMention bool
	// Groups maps a groupId (or the wildcard "*") to its GroupConfig.
	Groups map[string]GroupConfig
}

// Sender identifies the author of an inbound message for allowlist matching.
type Sender struct {
	ID       string
	Username string
	E164     string
	Name     string
}

// Decision is the outcome of evaluating one inbound message.
type Decision struct {
	Allow          bool
	RequireMention bool
	Reason         string
}

func deny(reason string) Decision { return Decision{Allow: false, Reason: reason} }

// PolicyEngine evaluates inbound group/DM messages against per-channel
// policy configuration. Owners are always allowed, matching the
// convention that the gateway's configured owner ids bypass group/DM
// gating entirely.
type PolicyEngine struct {
	ownerIDs map[string]bool

	mu       sync.RWMutex
	channels map[string]ChannelPolicyConfig

	warnOnce sync.Map // unprefixed key -> struct{}, for the deprecation warning
}

// NewPolicyEngine builds a PolicyEngine. ownerIDs are sender ids (matched
// the same way as "id:" prefixed allowlist entries: lowercased, trimmed)
// that are always authorized regardless of group/DM policy.
func NewPolicyEngine(ownerIDs []string) *PolicyEngine {
	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[normalizeKey(id)] = true
	}
	return &PolicyEngine{
		ownerIDs: owners,
		channels: make(map[string]ChannelPolicyConfig),
	}
}

// SetChannelConfig installs (or replaces) the policy configuration for one
// channel. Channel identifiers are matched case-sensitively as given by the
// channel plugin (e.g. "telegram", "discord").
func (p *PolicyEngine) SetChannelConfig(channel string, cfg ChannelPolicyConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[channel] = cfg
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Evaluate decides whether an inbound message from sender is authorized,
// and whether a reply on this thread must first see an explicit mention.
// groupID is ignored (and must be empty) for direct messages.
func (p *PolicyEngine) Evaluate(channel string, isGroup bool, groupID string, sender Sender) Decision {
	if p.isOwner(sender) {
		return Decision{Allow: true}
	}

	p.mu.RLock()
	cfg, ok := p.channels[channel]
	p.mu.RUnlock()
	if !ok {
		// No policy configured for this channel: default-allow, matching
		// the "groupPolicy implicit when groups non-empty" fallback for an
		// otherwise-unconfigured channel.
		return Decision{Allow: true}
	}

	if cfg.GroupPolicy == GroupPolicyDisabled && isGroup {
		return deny("group-policy-disabled")
	}
	if cfg.GroupPolicy == GroupPolicyOpen {
		return Decision{Allow: true}
	}

	// "allowlist" or implicit (groups non-empty): DMs are allowed here; the
	// DM-specific path (pairing, §4.F) evaluates DMs separately.
	if !isGroup {
		return Decision{Allow: true}
	}

	groupCfg, hasExact := cfg.Groups[groupID]
	wildcard, hasWildcard := cfg.Groups["*"]
	if !hasExact && !hasWildcard {
		return deny("group-chat-not-allowed")
	}
	effective := groupCfg
	if !hasExact {
		effective = wildcard
	}

	if len(effective.AllowFrom) == 0 {
		return deny("group-policy-allowlist-empty")
	}
	if !p.senderMatches(effective.AllowFrom, sender) {
		return deny("group-policy-allowlist-unauthorized")
	}

	requireMention := cfg.DefaultRequireMention
	if effective.RequireMention != nil {
		requireMention = *effective.RequireMention
	}
	return Decision{Allow: true, RequireMention: requireMention}
}

func (p *PolicyEngine) isOwner(sender Sender) bool {
	if sender.ID == "" {
		return false
	}
	return p.ownerIDs[normalizeKey(sender.ID)]
}

// senderMatches reports whether sender matches any entry of allowFrom.
// Entries may be typed ("id:", "e164:", "username:", "name:") or the
// wildcard "*". An unprefixed entry is matched as "id:" for back-compat,
// with a deprecation warning logged at most once per distinct key.
func (p *PolicyEngine) senderMatches(allowFrom []string, sender Sender) bool {
	for _, raw := range allowFrom {
		entry := strings.TrimSpace(raw)
		if entry == "*" {
			return true
		}
		typ, val, hasPrefix := splitTyped(entry)
		if !hasPrefix {
			p.warnUnprefixed(entry)
			typ, val = "id", entry
		}
		val = normalizeKey(val)
		if typ == "username" {
			val = strings.TrimPrefix(val, "@")
		}

		var candidate string
		switch typ {
		case "id":
			candidate = sender.ID
		case "e164":
			candidate = sender.E164
		case "username":
			candidate = strings.TrimPrefix(sender.Username, "@")
		case "name":
			candidate = sender.Name
		default:
			continue
		}
		if candidate != "" && normalizeKey(candidate) == val {
			return true
		}
	}
	return false
}

func splitTyped(entry string) (typ, val string, ok bool) {
	for _, prefix := range []string{"id:", "e164:", "username:", "name:"} {
		if strings.HasPrefix(strings.ToLower(entry), prefix) {
			return prefix[:len(prefix)-1], entry[len(prefix):], true
		}
	}
	return "", entry, false
}

func (p *PolicyEngine) warnUnprefixed(key string) {
	if _, loaded := p.warnOnce.LoadOrStore(key, struct{}{}); !loaded {
		slog.Warn("permissions: unprefixed allowlist entry treated as id:, add an explicit prefix", "entry", key)
	}
}
