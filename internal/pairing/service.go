// Package pairing implements channel-identity approval: an unrecognized
// sender on a chat channel requests a short code, an operator approves it
// out of band (CLI or admin RPC), and the sender is then considered paired
// for that channel going forward.
package pairing

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/openclaw/openclaw/internal/store"
)

const codeTTL = 15 * time.Minute

type pairedIdentity struct {
	SenderID string    `json:"senderId"`
	Channel  string    `json:"channel"`
	PairedAt time.Time `json:"pairedAt"`
}

type stateFile struct {
	Version  int                               `json:"version"`
	Paired   []pairedIdentity                  `json:"paired"`
	Requests map[string]store.PairingRequest   `json:"requests"`
}

// Service is a file-backed store.PairingStore.
type Service struct {
	storePath string

	mu       sync.Mutex
	paired   map[string]pairedIdentity // key: channel+":"+senderID
	requests map[string]store.PairingRequest
}

// NewService builds a Service persisting pairing state under storePath.
func NewService(storePath string) *Service {
	s := &Service{
		storePath: storePath,
		paired:    make(map[string]pairedIdentity),
		requests:  make(map[string]store.PairingRequest),
	}
	if storePath != "" {
		os.MkdirAll(filepath.Dir(storePath), 0755)
		s.load()
	}
	return s
}

func pairKey(senderID, channel string) string { return channel + ":" + senderID }

func (s *Service) load() {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		return
	}
	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return
	}
	for _, p := range sf.Paired {
		s.paired[pairKey(p.SenderID, p.Channel)] = p
	}
	if sf.Requests != nil {
		s.requests = sf.Requests
	}
}

// saveLocked writes state to disk. Caller must hold s.mu.
func (s *Service) saveLocked() {
	if s.storePath == "" {
		return
	}
	sf := stateFile{Version: 1, Requests: s.requests}
	for _, p := range s.paired {
		sf.Paired = append(sf.Paired, p)
	}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return
	}
	tmp := s.storePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return
	}
	os.Rename(tmp, s.storePath)
}

// IsPaired reports whether senderID on channel is already approved.
func (s *Service) IsPaired(senderID, channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.paired[pairKey(senderID, channel)]
	return ok
}

// RequestPairing issues a pairing code for senderID, reusing any still-valid
// outstanding code for the same sender+channel.
func (s *Service) RequestPairing(senderID, channel, chatID, scope string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for code, req := range s.requests {
		if req.SenderID == senderID && req.Channel == channel && now.Before(req.ExpiresAt) {
			return code, nil
		}
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate pairing code: %w", err)
	}
	s.requests[code] = store.PairingRequest{
		Code:      code,
		SenderID:  senderID,
		Channel:   channel,
		ChatID:    chatID,
		Scope:     scope,
		CreatedAt: now,
		ExpiresAt: now.Add(codeTTL),
	}
	s.saveLocked()
	return code, nil
}

// Approve marks code as accepted, pairing its sender.
func (s *Service) Approve(code string) (*store.PairingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[code]
	if !ok {
		return nil, fmt.Errorf("unknown pairing code: %s", code)
	}
	if time.Now().After(req.ExpiresAt) {
		delete(s.requests, code)
		s.saveLocked()
		return nil, fmt.Errorf("pairing code expired: %s", code)
	}
	delete(s.requests, code)
	s.paired[pairKey(req.SenderID, req.Channel)] = pairedIdentity{
		SenderID: req.SenderID,
		Channel:  req.Channel,
		PairedAt: time.Now(),
	}
	s.saveLocked()
	return &req, nil
}

// List returns every outstanding, unexpired pairing request.
func (s *Service) List() []store.PairingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	out := make([]store.PairingRequest, 0, len(s.requests))
	for _, req := range s.requests {
		if now.Before(req.ExpiresAt) {
			out = append(out, req)
		}
	}
	return out
}

// Revoke removes a previously approved pairing.
func (s *Service) Revoke(senderID, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.paired, pairKey(senderID, channel))
	s.saveLocked()
	return nil
}

func generateCode() (string, error) {
	const digits = "0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, 6)
	for i, v := range b {
		out[i] = digits[int(v)%len(digits)]
	}
	return string(out), nil
}
