// Package cron implements the isolated-agent cron runner: jobs are stored
// as plain JSON, evaluated against their 5-field expression on a
// tick, and every due run gets a brand-new session key so cron runs never
// share context with each other or with live chat sessions.
package cron

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"

	"github.com/openclaw/openclaw/internal/store"
)

// RetryConfig controls retry backoff for a job whose handler returns an error.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig matches TS cron defaults: 3 retries, 2s→30s backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 3, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}
}

type jobFile struct {
	Version int             `json:"version"`
	Jobs    map[string]*store.CronJob `json:"jobs"`
}

// Service is a file-backed store.CronStore: it persists jobs to storePath
// and drives them with a one-tick-per-minute scheduler loop.
type Service struct {
	storePath string
	logger    *slog.Logger
	retryCfg  RetryConfig

	mu   sync.Mutex
	jobs map[string]*store.CronJob

	onJob  store.CronJobHandler
	gron   gronx.Gronx
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewService builds a cron Service persisting jobs under storePath. A nil
// logger falls back to slog.Default().
func NewService(storePath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		storePath: storePath,
		logger:    logger,
		retryCfg:  DefaultRetryConfig(),
		jobs:      make(map[string]*store.CronJob),
		gron:      gronx.New(),
	}
	if storePath != "" {
		os.MkdirAll(filepath.Dir(storePath), 0755)
		s.load()
	}
	return s
}

// SetRetryConfig overrides the default retry backoff.
func (s *Service) SetRetryConfig(cfg RetryConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCfg = cfg
}

func (s *Service) SetOnJob(handler store.CronJobHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onJob = handler
}

func (s *Service) Create(job *store.CronJob) error {
	if job.Schedule == "" {
		return fmt.Errorf("cron: schedule is required")
	}
	if !gronx.IsValid(job.Schedule) {
		return fmt.Errorf("cron: invalid schedule %q", job.Schedule)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Enabled = true

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return s.persist()
}

func (s *Service) Get(id string) (*store.CronJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("cron: job %q not found", id)
	}
	cp := *job
	return &cp, nil
}

func (s *Service) List(agentID string) []store.CronJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.CronJob
	for _, j := range s.jobs {
		if agentID != "" && j.AgentID != agentID {
			continue
		}
		out = append(out, *j)
	}
	return out
}

func (s *Service) Update(id string, mutate func(*store.CronJob)) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("cron: job %q not found", id)
	}
	mutate(job)
	job.UpdatedAt = time.Now()
	s.mu.Unlock()
	return s.persist()
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
	return s.persist()
}

func (s *Service) SetEnabled(id string, enabled bool) error {
	return s.Update(id, func(j *store.CronJob) { j.Enabled = enabled })
}

// Start begins the minute-resolution tick loop.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.stopCh != nil {
		s.mu.Unlock()
		return fmt.Errorf("cron: already started")
	}
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(stopCh)
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	stopCh := s.stopCh
	s.stopCh = nil
	s.mu.Unlock()
	if stopCh != nil {
		close(stopCh)
		s.wg.Wait()
	}
}

func (s *Service) loop(stopCh chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case t := <-ticker.C:
			s.tick(t)
		}
	}
}

func (s *Service) tick(now time.Time) {
	s.mu.Lock()
	var due []*store.CronJob
	for _, j := range s.jobs {
		if !j.Enabled {
			continue
		}
		isDue, err := s.gron.IsDue(j.Schedule, now)
		if err != nil {
			s.logger.Warn("cron: invalid schedule", "job", j.ID, "error", err)
			continue
		}
		if isDue {
			due = append(due, j)
		}
	}
	handler := s.onJob
	s.mu.Unlock()

	for _, j := range due {
		go s.runWithRetry(j, handler)
	}
}

func (s *Service) runWithRetry(job *store.CronJob, handler store.CronJobHandler) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	retryCfg := s.retryCfg
	s.mu.Unlock()

	delay := retryCfg.BaseDelay
	var result *store.CronJobResult
	var err error
	for attempt := 0; attempt <= retryCfg.MaxRetries; attempt++ {
		result, err = handler(job)
		if err == nil {
			break
		}
		s.logger.Warn("cron: job run failed", "job", job.ID, "attempt", attempt, "error", err)
		if attempt == retryCfg.MaxRetries {
			break
		}
		time.Sleep(delay)
		delay *= 2
		if delay > retryCfg.MaxDelay {
			delay = retryCfg.MaxDelay
		}
	}

	s.Update(job.ID, func(j *store.CronJob) {
		j.LastRun = time.Now()
		j.RunCount++
		if err != nil {
			j.LastStatus = "error"
			j.LastError = err.Error()
		} else {
			j.LastStatus = "ok"
			j.LastError = ""
			_ = result
		}
	})
}

func (s *Service) persist() error {
	if s.storePath == "" {
		return nil
	}
	s.mu.Lock()
	snap := jobFile{Version: 1, Jobs: make(map[string]*store.CronJob, len(s.jobs))}
	for id, j := range s.jobs {
		cp := *j
		snap.Jobs[id] = &cp
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.storePath), "cron-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	tmp.Close()
	return os.Rename(tmpPath, s.storePath)
}

func (s *Service) load() {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		return
	}
	var jf jobFile
	if err := json.Unmarshal(data, &jf); err != nil {
		s.logger.Warn("cron: failed to parse jobs.json, starting empty", "error", err)
		return
	}
	for id, j := range jf.Jobs {
		s.jobs[id] = j
	}
}
