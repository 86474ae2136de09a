package ports

import (
	"context"
	"time"
)

type AssessJob struct {
	ID            string
	StakeholderID string
}

// Job states.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// JobStatus is the externally visible state of an assessment job.
type JobStatus struct {
	ID            string     `json:"id"`
	StakeholderID string     `json:"stakeholder_id"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	Error         string     `json:"error,omitempty"`
	QueuedAt      time.Time  `json:"queued_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// JobRepository supports enqueueing, claiming and updating assessment jobs.
type JobRepository interface {
	Enqueue(ctx context.Context, stakeholderID string) (jobID string, err error)
	ClaimNext(ctx context.Context) (job AssessJob, found bool, err error)
	StartJob(ctx context.Context, jobID string) error
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
	JobStatus(ctx context.Context, jobID string) (JobStatus, error)
}
