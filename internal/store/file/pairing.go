package file

import (
	"github.com/openclaw/openclaw/internal/pairing"
	"github.com/openclaw/openclaw/internal/store"
)

// FilePairingStore wraps pairing.Service to implement store.PairingStore;
// it is already a full PairingStore on its own, so this type exists to
// give the package a consistent "file-backed adapter" entry point
// alongside FileSessionStore, FileCronStore, and FileSkillStore.
type FilePairingStore struct {
	*pairing.Service
}

func NewFilePairingStore(svc *pairing.Service) *FilePairingStore {
	return &FilePairingStore{Service: svc}
}

var _ store.PairingStore = (*FilePairingStore)(nil)
