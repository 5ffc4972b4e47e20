package store

import "time"

// CronPayload is the run request carried by a scheduled job.
type CronPayload struct {
	Channel string `json:"channel,omitempty"` // delivery channel, e.g. "telegram"
	To      string `json:"to,omitempty"`      // delivery chat id
	Message string `json:"message"`           // prompt sent to the agent
	Deliver bool   `json:"deliver,omitempty"` // push the result to Channel/To when true
}

// CronJob is one scheduled, isolated-session agent run.
type CronJob struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	AgentID  string      `json:"agentId,omitempty"`
	UserID   string      `json:"userId,omitempty"`
	Schedule string      `json:"schedule"` // 5-field cron expression
	Payload  CronPayload `json:"payload"`
	Enabled  bool        `json:"enabled"`

	NextRun    time.Time `json:"nextRun,omitempty"`
	LastRun    time.Time `json:"lastRun,omitempty"`
	LastStatus string    `json:"lastStatus,omitempty"` // "ok", "error", ""
	LastError  string    `json:"lastError,omitempty"`
	RunCount   int       `json:"runCount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CronJobResult is what a completed cron run produced.
type CronJobResult struct {
	Content      string `json:"content"`
	InputTokens  int64  `json:"inputTokens,omitempty"`
	OutputTokens int64  `json:"outputTokens,omitempty"`
}

// CronJobHandler executes one due job and returns its result.
type CronJobHandler func(job *CronJob) (*CronJobResult, error)

// CronStore manages scheduled jobs and drives them on their schedule.
type CronStore interface {
	Create(job *CronJob) error
	Get(id string) (*CronJob, error)
	List(agentID string) []CronJob
	Update(id string, mutate func(*CronJob)) error
	Delete(id string) error
	SetEnabled(id string, enabled bool) error

	// SetOnJob installs the handler invoked for every due job. Must be
	// called before Start.
	SetOnJob(handler CronJobHandler)
	Start() error
	Stop()
}
