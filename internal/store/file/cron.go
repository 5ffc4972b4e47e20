package file

import (
	"github.com/openclaw/openclaw/internal/cron"
	"github.com/openclaw/openclaw/internal/store"
)

// FileCronStore wraps cron.Service to implement store.CronStore; it is
// already a full CronStore on its own, so this type exists to give the
// package a consistent "file-backed adapter" entry point alongside
// FileSessionStore, FilePairingStore, and FileSkillStore.
type FileCronStore struct {
	*cron.Service
}

func NewFileCronStore(svc *cron.Service) *FileCronStore {
	return &FileCronStore{Service: svc}
}

var _ store.CronStore = (*FileCronStore)(nil)
