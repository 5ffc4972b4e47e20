package file

import (
	"github.com/openclaw/openclaw/internal/skills"
	"github.com/openclaw/openclaw/internal/store"
)

// FileSkillStore adapts a skills.Loader to store.SkillStore.
type FileSkillStore struct {
	loader *skills.Loader
}

func NewFileSkillStore(loader *skills.Loader) *FileSkillStore {
	return &FileSkillStore{loader: loader}
}

func (s *FileSkillStore) List() []store.SkillInfo {
	loaded := s.loader.ListSkills()
	out := make([]store.SkillInfo, 0, len(loaded))
	for _, sk := range loaded {
		out = append(out, store.SkillInfo{Name: sk.Name, Description: sk.Description, Path: sk.Dir})
	}
	return out
}

func (s *FileSkillStore) Reload() error { return s.loader.Reload() }

var _ store.SkillStore = (*FileSkillStore)(nil)
