// Package skills loads SKILL.md bundles from the workspace and a global
// skills directory, making them available to the skill_search tool and the
// agent's system prompt.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const skillFileName = "SKILL.md"

// Skill is one loaded SKILL.md bundle.
type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Source      string `yaml:"-" json:"source"` // "workspace", "global", or "extra"
	Dir         string `yaml:"-" json:"dir"`
	Content     string `yaml:"-" json:"-"` // body after frontmatter
}

// parseFrontmatter splits a SKILL.md file into its YAML frontmatter and body.
func parseFrontmatter(raw string) (Skill, string, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return Skill{}, raw, nil
	}
	rest := raw[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return Skill{}, raw, fmt.Errorf("unterminated frontmatter")
	}
	header := rest[:end]
	body := strings.TrimLeft(rest[end+len("\n---"):], "\n")

	var sk Skill
	if err := yaml.Unmarshal([]byte(header), &sk); err != nil {
		return Skill{}, raw, fmt.Errorf("parse frontmatter: %w", err)
	}
	return sk, body, nil
}

// loadSkillDir loads a single skill from dir/SKILL.md, if present.
func loadSkillDir(dir, source string) (*Skill, error) {
	data, err := os.ReadFile(filepath.Join(dir, skillFileName))
	if err != nil {
		return nil, err
	}
	sk, body, err := parseFrontmatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	sk.Dir = dir
	sk.Source = source
	sk.Content = body
	if sk.Name == "" {
		sk.Name = filepath.Base(dir)
	}
	return &sk, nil
}

// scanDir lists every immediate subdirectory of root containing a SKILL.md.
func scanDir(root, source string) []Skill {
	if root == "" {
		return nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []Skill
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sk, err := loadSkillDir(filepath.Join(root, e.Name()), source)
		if err != nil {
			continue
		}
		out = append(out, *sk)
	}
	return out
}
