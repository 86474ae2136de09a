package assessments

import (
	"context"
	"fmt"
	"time"

	"maturity/internal/domain"
	"maturity/internal/engine"
	"maturity/internal/logger"
	"maturity/internal/ports"
	"maturity/internal/workers/assessrunner"
)

// Service loads a stakeholder's evidence, runs the engine and stores the
// result. It is also the Processor the background workers use.
type Service struct {
	jobs         ports.JobRepository
	stakeholders ports.StakeholderRepository
	evidence     ports.EvidenceRepository
	surveys      ports.SurveyRepository
	assessments  ports.AssessmentRepository
	engine       *engine.Engine
	log          *logger.Logger
}

type Deps struct {
	Jobs         ports.JobRepository
	Stakeholders ports.StakeholderRepository
	Evidence     ports.EvidenceRepository
	Surveys      ports.SurveyRepository
	Assessments  ports.AssessmentRepository
	Engine       *engine.Engine
	Log          *logger.Logger
}

func New(d Deps) *Service {
	if d.Engine == nil {
		d.Engine = engine.New()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Service{
		jobs:         d.Jobs,
		stakeholders: d.Stakeholders,
		evidence:     d.Evidence,
		surveys:      d.Surveys,
		assessments:  d.Assessments,
		engine:       d.Engine,
		log:          d.Log,
	}
}

// Enqueue queues an assessment of an existing stakeholder.
func (s *Service) Enqueue(ctx context.Context, stakeholderID string) (string, error) {
	if _, err := s.stakeholders.Get(ctx, stakeholderID); err != nil {
		return "", err
	}
	return s.jobs.Enqueue(ctx, stakeholderID)
}

// RunInline processes a queued job synchronously and returns its assessment.
func (s *Service) RunInline(ctx context.Context, jobID string) (ports.AssessmentRecord, error) {
	if err := assessrunner.ProcessInline(ctx, s.jobs, s, jobID); err != nil {
		return ports.AssessmentRecord{}, err
	}
	st, err := s.jobs.JobStatus(ctx, jobID)
	if err != nil {
		return ports.AssessmentRecord{}, err
	}
	return s.assessments.LatestAssessment(ctx, st.StakeholderID)
}

func (s *Service) Job(ctx context.Context, jobID string) (ports.JobStatus, error) {
	return s.jobs.JobStatus(ctx, jobID)
}

// Process assesses one stakeholder end to end. The raw category scores and
// accepted official links are written back to the roster record.
func (s *Service) Process(ctx context.Context, stakeholderID string) error {
	entity, err := s.stakeholders.Get(ctx, stakeholderID)
	if err != nil {
		return fmt.Errorf("load stakeholder: %w", err)
	}
	ev, err := s.evidence.GetEvidence(ctx, stakeholderID)
	if err != nil {
		return fmt.Errorf("load evidence: %w", err)
	}
	resp, err := s.surveys.LatestSurvey(ctx, stakeholderID)
	if err != nil {
		return fmt.Errorf("load survey: %w", err)
	}

	report, err := s.engine.Evaluate(engine.Input{
		Entity:     entity,
		Links:      ev.Links,
		Page:       ev.Page,
		Survey:     resp,
		Narratives: ev.Narratives,
	})
	if err != nil {
		return err
	}

	id, err := s.assessments.SaveAssessment(ctx, ports.AssessmentRecord{
		StakeholderID: stakeholderID,
		Assessment:    report.Assessment,
		Categories:    report.Categories,
		Capacity:      report.Capacity,
		Validations:   report.Validations,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	if err := s.stakeholders.UpdateScores(ctx, stakeholderID, rawScores(report.Categories)); err != nil {
		return fmt.Errorf("update scores: %w", err)
	}
	if links := mergeLinks(entity.Links, report.OfficialLinks()); len(links) > len(entity.Links) {
		if err := s.stakeholders.UpdateLinks(ctx, stakeholderID, links); err != nil {
			return fmt.Errorf("update links: %w", err)
		}
	}
	s.log.Info("stakeholder assessed",
		"stakeholder_id", stakeholderID,
		"assessment_id", id,
		"tier", report.Assessment.Tier,
		"combined", report.Assessment.CombinedTotal,
		"surveyed", resp != nil,
	)
	return nil
}

func rawScores(cats []domain.CategoryScore) map[domain.Category]int {
	out := make(map[domain.Category]int, len(cats))
	for _, c := range cats {
		out[c.Category] = c.RawScore
	}
	return out
}

// mergeLinks keeps every declared link and adds newly accepted platforms.
func mergeLinks(declared, accepted map[domain.Platform]string) map[domain.Platform]string {
	out := make(map[domain.Platform]string, len(declared)+len(accepted))
	for p, u := range accepted {
		out[p] = u
	}
	for p, u := range declared {
		out[p] = u
	}
	return out
}
