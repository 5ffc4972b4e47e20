package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/openclaw/openclaw/internal/skills"
)

// SkillSearchTool lets the agent look up on-demand skill instructions by
// name or keyword instead of carrying every skill in the system prompt.
type SkillSearchTool struct {
	loader *skills.Loader
}

func NewSkillSearchTool(loader *skills.Loader) *SkillSearchTool {
	return &SkillSearchTool{loader: loader}
}

func (t *SkillSearchTool) Name() string { return "skill_search" }
func (t *SkillSearchTool) Description() string {
	return "Search available skills by name or keyword and return matching skill instructions"
}

func (t *SkillSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Skill name or keyword to search for",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SkillSearchTool) Execute(ctx context.Context, args map[string]interface{}) *Result {
	query, _ := args["query"].(string)
	if query == "" {
		return ErrorResult("query is required")
	}
	if t.loader == nil {
		return ErrorResult("skill loader not available")
	}

	if sk, ok := t.loader.Get(query); ok {
		return SilentResult(fmt.Sprintf("## %s\n\n%s", sk.Name, sk.Content))
	}

	q := strings.ToLower(query)
	var matches []skills.Skill
	for _, sk := range t.loader.ListSkills() {
		if strings.Contains(strings.ToLower(sk.Name), q) || strings.Contains(strings.ToLower(sk.Description), q) {
			matches = append(matches, sk)
		}
	}
	if len(matches) == 0 {
		return SilentResult(fmt.Sprintf("no skills found matching %q", query))
	}

	var sb strings.Builder
	for _, sk := range matches {
		fmt.Fprintf(&sb, "## %s\n%s\n\n", sk.Name, sk.Description)
	}
	return SilentResult(sb.String())
}
