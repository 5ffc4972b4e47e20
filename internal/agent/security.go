package agent

import (
	"regexp"
)

// InputGuard scans inbound user messages for common prompt-injection
// patterns before they reach the model. It's a coarse heuristic filter,
// not a guarantee — callers decide what to do with a match via
// injectionAction ("log", "warn", "block").
type InputGuard struct {
	patterns []namedPattern
}

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// NewInputGuard builds an InputGuard with the default pattern set.
func NewInputGuard() *InputGuard {
	return &InputGuard{patterns: defaultInjectionPatterns()}
}

// Scan returns the names of every pattern that matched message. An empty
// slice means no matches.
func (g *InputGuard) Scan(message string) []string {
	if g == nil || message == "" {
		return nil
	}
	var matches []string
	for _, p := range g.patterns {
		if p.re.MatchString(message) {
			matches = append(matches, p.name)
		}
	}
	return matches
}

func defaultInjectionPatterns() []namedPattern {
	raw := []struct {
		name    string
		pattern string
	}{
		{"ignore-instructions", `(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions|prompts?)`},
		{"override-system", `(?i)(disregard|forget)\s+(your|the)\s+(system\s+)?prompt`},
		{"role-override", `(?i)you\s+are\s+now\s+(in\s+)?(dan|developer\s+mode|unrestricted|jailbroken?)`},
		{"reveal-system-prompt", `(?i)(reveal|print|repeat|show)\s+(your|the)\s+(system\s+prompt|instructions)`},
		{"act-as", `(?i)act\s+as\s+(if\s+you\s+(are|have)|an?\s+unrestricted)`},
		{"exfiltrate-secrets", `(?i)(dump|leak|export)\s+(all\s+)?(api\s*keys?|secrets?|credentials?|tokens?)`},
		{"hidden-instruction-marker", `(?i)\[\s*(system|admin|root)\s*(override|instruction)?\s*\]`},
	}
	out := make([]namedPattern, 0, len(raw))
	for _, r := range raw {
		out = append(out, namedPattern{name: r.name, re: regexp.MustCompile(r.pattern)})
	}
	return out
}
