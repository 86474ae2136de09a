package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"maturity/internal/ports"
)

var _ ports.JobRepository = (*DB)(nil)

func (db *DB) Enqueue(ctx context.Context, stakeholderID string) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO assessment_jobs (stakeholder_id) VALUES ($1) RETURNING id::text
	`, stakeholderID).Scan(&id)
	return id, err
}

// ClaimNext selects the oldest queued job using SKIP LOCKED and marks it running.
func (db *DB) ClaimNext(ctx context.Context) (job ports.AssessJob, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		SELECT id::text, stakeholder_id FROM assessment_jobs
		WHERE status = 'queued'
		ORDER BY queued_at
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`).Scan(&job.ID, &job.StakeholderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}
	if _, err = tx.Exec(ctx, `
		UPDATE assessment_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
	`, job.ID); err != nil {
		return job, false, err
	}
	return job, true, nil
}

// StartJob moves one specific queued job to running for inline processing.
func (db *DB) StartJob(ctx context.Context, jobID string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE assessment_jobs SET status='running', started_at=now(), attempts=attempts+1
		WHERE id=$1 AND status='queued'
	`, jobID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (db *DB) MarkCompleted(ctx context.Context, jobID string) error {
	return db.finish(ctx, jobID, ports.JobCompleted, "")
}

func (db *DB) MarkFailed(ctx context.Context, jobID string, reason string) error {
	return db.finish(ctx, jobID, ports.JobFailed, reason)
}

func (db *DB) finish(ctx context.Context, jobID, status, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE assessment_jobs SET status=$2, error=$3, finished_at=now() WHERE id=$1
	`, jobID, status, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (db *DB) JobStatus(ctx context.Context, jobID string) (ports.JobStatus, error) {
	var st ports.JobStatus
	err := db.Pool.QueryRow(ctx, `
		SELECT id::text, stakeholder_id, status, attempts, error, queued_at, finished_at
		FROM assessment_jobs WHERE id::text = $1
	`, jobID).Scan(&st.ID, &st.StakeholderID, &st.Status, &st.Attempts, &st.Error, &st.QueuedAt, &st.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return st, ports.ErrNotFound
	}
	return st, err
}
