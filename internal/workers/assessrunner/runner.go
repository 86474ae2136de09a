package assessrunner

import (
	"context"
	"time"

	"maturity/internal/logger"
	"maturity/internal/ports"
)

// Processor performs the assessment work for a job's stakeholder.
type Processor interface {
	Process(ctx context.Context, stakeholderID string) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, stakeholderID string) error

func (f ProcessorFunc) Process(ctx context.Context, stakeholderID string) error {
	return f(ctx, stakeholderID)
}

// Run starts a dispatcher that claims queued jobs every pollInterval and
// concurrency workers that process them. It returns immediately; everything
// stops when ctx is cancelled.
func Run(ctx context.Context, repo ports.JobRepository, processor Processor, concurrency int, pollInterval time.Duration, log *logger.Logger) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan ports.AssessJob, concurrency)

	go func() {
		defer close(jobsCh)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						if ctx.Err() == nil {
							log.Warn("job claim failed", "error", err)
						}
						break
					}
					if !found {
						break
					}
					select {
					case jobsCh <- job:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			wlog := log.With("worker", idx)
			for job := range jobsCh {
				finish(ctx, repo, job, processor.Process(ctx, job.StakeholderID), wlog)
			}
		}(i)
	}
}

func finish(ctx context.Context, repo ports.JobRepository, job ports.AssessJob, err error, log *logger.Logger) {
	if err != nil {
		log.Error("assessment failed", "job_id", job.ID, "stakeholder_id", job.StakeholderID, "error", err)
		if merr := repo.MarkFailed(ctx, job.ID, err.Error()); merr != nil {
			log.Error("mark failed", "job_id", job.ID, "error", merr)
		}
		return
	}
	if err := repo.MarkCompleted(ctx, job.ID); err != nil {
		log.Error("mark completed", "job_id", job.ID, "error", err)
		return
	}
	log.Debug("assessment completed", "job_id", job.ID, "stakeholder_id", job.StakeholderID)
}

// ProcessInline claims the given queued job and processes it synchronously with
// the same processor the background workers use.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor Processor, jobID string) error {
	st, err := repo.JobStatus(ctx, jobID)
	if err != nil {
		return err
	}
	if err := repo.StartJob(ctx, jobID); err != nil {
		return err
	}
	if err := processor.Process(ctx, st.StakeholderID); err != nil {
		_ = repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}
	return repo.MarkCompleted(ctx, jobID)
}
