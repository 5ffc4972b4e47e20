package permissions

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestEvaluate_GroupPolicyDisabledDeniesGroup(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{GroupPolicy: GroupPolicyDisabled})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "u1"})
	if got.Allow {
		t.Fatal("expected deny for disabled group policy")
	}
	if got.Reason != "group-policy-disabled" {
		t.Fatalf("unexpected reason: %q", got.Reason)
	}
}

func TestEvaluate_GroupPolicyOpenAllows(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{GroupPolicy: GroupPolicyOpen})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "u1"})
	if !got.Allow {
		t.Fatalf("expected allow, got deny: %s", got.Reason)
	}
}

func TestEvaluate_DMAlwaysAllowedUnderAllowlistPolicy(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{GroupPolicy: GroupPolicyAllowlist})

	got := pe.Evaluate("telegram", false, "", Sender{ID: "u1"})
	if !got.Allow {
		t.Fatalf("expected DM to be allowed by the DM path, got deny: %s", got.Reason)
	}
}

func TestEvaluate_GroupChatNotAllowedWithoutConfigOrWildcard(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{
		GroupPolicy: GroupPolicyAllowlist,
		Groups:      map[string]GroupConfig{},
	})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "u1"})
	if got.Allow || got.Reason != "group-chat-not-allowed" {
		t.Fatalf("expected group-chat-not-allowed, got %+v", got)
	}
}

func TestEvaluate_AllowlistEmptyDenies(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{
		GroupPolicy: GroupPolicyAllowlist,
		Groups: map[string]GroupConfig{
			"g1": {AllowFrom: nil},
		},
	})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "u1"})
	if got.Allow || got.Reason != "group-policy-allowlist-empty" {
		t.Fatalf("expected group-policy-allowlist-empty, got %+v", got)
	}
}

func TestEvaluate_AllowlistUnauthorizedSenderDenied(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{
		GroupPolicy: GroupPolicyAllowlist,
		Groups: map[string]GroupConfig{
			"g1": {AllowFrom: []string{"id:u2"}},
		},
	})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "u1"})
	if got.Allow || got.Reason != "group-policy-allowlist-unauthorized" {
		t.Fatalf("expected group-policy-allowlist-unauthorized, got %+v", got)
	}
}

func TestEvaluate_AllowlistMatchByTypedKeys(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{
		GroupPolicy: GroupPolicyAllowlist,
		Groups: map[string]GroupConfig{
			"g1": {AllowFrom: []string{"e164:+15551234567", "username:alice", "name:Bob Smith"}},
		},
	})

	cases := []Sender{
		{ID: "x", E164: "+15551234567"},
		{ID: "y", Username: "@Alice"},
		{ID: "z", Name: "bob smith"},
	}
	for _, s := range cases {
		got := pe.Evaluate("telegram", true, "g1", s)
		if !got.Allow {
			t.Fatalf("expected allow for sender %+v, got deny: %s", s, got.Reason)
		}
	}
}

func TestEvaluate_WildcardGroupFallback(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{
		GroupPolicy: GroupPolicyAllowlist,
		Groups: map[string]GroupConfig{
			"*": {AllowFrom: []string{"id:u1"}, RequireMention: boolPtr(false)},
		},
	})

	got := pe.Evaluate("telegram", true, "unknown-group", Sender{ID: "u1"})
	if !got.Allow {
		t.Fatalf("expected wildcard group to allow, got deny: %s", got.Reason)
	}
	if got.RequireMention {
		t.Fatal("expected RequireMention false from wildcard override")
	}
}

func TestEvaluate_RequireMentionDefaultsTrue(t *testing.T) {
	pe := NewPolicyEngine(nil)
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{
		GroupPolicy:           GroupPolicyAllowlist,
		DefaultRequireMention: true,
		Groups: map[string]GroupConfig{
			"g1": {AllowFrom: []string{"id:u1"}},
		},
	})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "u1"})
	if !got.Allow || !got.RequireMention {
		t.Fatalf("expected allow+requireMention, got %+v", got)
	}
}

func TestEvaluate_OwnerBypassesGroupPolicy(t *testing.T) {
	pe := NewPolicyEngine([]string{"owner-1"})
	pe.SetChannelConfig("telegram", ChannelPolicyConfig{GroupPolicy: GroupPolicyDisabled})

	got := pe.Evaluate("telegram", true, "g1", Sender{ID: "Owner-1"})
	if !got.Allow {
		t.Fatal("expected owner to bypass group-policy-disabled")
	}
}

func TestEvaluate_UnconfiguredChannelDefaultsAllow(t *testing.T) {
	pe := NewPolicyEngine(nil)
	got := pe.Evaluate("discord", true, "g1", Sender{ID: "u1"})
	if !got.Allow {
		t.Fatal("expected default-allow for a channel with no policy configured")
	}
}
