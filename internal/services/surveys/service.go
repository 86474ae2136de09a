// Package surveys links incoming survey responses to the catalogued roster.
package surveys

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"maturity/internal/domain"
	"maturity/internal/logger"
	"maturity/internal/matching"
	"maturity/internal/ports"
)

// AutoLink lists the confidence tiers that link a response without review.
var AutoLink = map[domain.ConfidenceTier]bool{
	domain.TierHigh:   true,
	domain.TierMedium: true,
}

// Enqueuer queues a reassessment once a response is linked.
type Enqueuer interface {
	Enqueue(ctx context.Context, stakeholderID string) (string, error)
}

type Service struct {
	roster  ports.StakeholderRepository
	surveys ports.SurveyRepository
	queue   Enqueuer
	log     *logger.Logger
	now     func() time.Time
}

func New(roster ports.StakeholderRepository, surveys ports.SurveyRepository, queue Enqueuer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{roster: roster, surveys: surveys, queue: queue, log: log, now: time.Now}
}

// Intake matches r against the stored roster. HIGH and MEDIUM matches are
// linked and trigger a reassessment; everything else is stored unmatched with
// its ranked candidates for manual review.
func (s *Service) Intake(ctx context.Context, r domain.SurveyResponse) (ports.IntakeResult, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = s.now().UTC()
	}
	roster, err := s.roster.List(ctx)
	if err != nil {
		return ports.IntakeResult{}, fmt.Errorf("load roster: %w", err)
	}
	res := matching.NewIndex(roster).Match(r)

	stored := ports.StoredSurvey{Response: r, Match: res}
	if res.Matched != nil && AutoLink[res.Tier] {
		stored.StakeholderID = res.Matched.EntityID
	}
	if err := s.surveys.SaveSurvey(ctx, stored); err != nil {
		return ports.IntakeResult{}, fmt.Errorf("save survey: %w", err)
	}

	out := ports.IntakeResult{SurveyID: r.ID, StakeholderID: stored.StakeholderID, Match: res}
	if stored.StakeholderID == "" {
		s.log.Info("survey awaiting review", "survey_id", r.ID, "tier", res.Tier, "reason", res.Reason, "candidates", len(res.Candidates))
		return out, nil
	}
	if s.queue != nil {
		jobID, err := s.queue.Enqueue(ctx, stored.StakeholderID)
		if err != nil {
			return out, fmt.Errorf("enqueue reassessment: %w", err)
		}
		out.JobID = jobID
	}
	s.log.Info("survey linked", "survey_id", r.ID, "stakeholder_id", stored.StakeholderID, "tier", res.Tier, "score", res.Matched.Score)
	return out, nil
}

func (s *Service) Unmatched(ctx context.Context) ([]ports.StoredSurvey, error) {
	return s.surveys.Unmatched(ctx)
}
