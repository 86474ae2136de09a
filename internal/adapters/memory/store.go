// Package memory is an in-process implementation of every repository port. The
// server falls back to it when no database is configured; tests use it as a
// fake.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"maturity/internal/domain"
	"maturity/internal/ports"
)

type Store struct {
	mu           sync.Mutex
	stakeholders map[string]domain.EntityRecord
	order        []string
	evidence     map[string]ports.Evidence
	surveys      []ports.StoredSurvey
	assessments  map[string][]ports.AssessmentRecord
	jobs         map[string]*ports.JobStatus
	jobOrder     []string
	seq          int
	now          func() time.Time
}

func New() *Store {
	return &Store{
		stakeholders: make(map[string]domain.EntityRecord),
		evidence:     make(map[string]ports.Evidence),
		assessments:  make(map[string][]ports.AssessmentRecord),
		jobs:         make(map[string]*ports.JobStatus),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var (
	_ ports.StakeholderRepository = (*Store)(nil)
	_ ports.EvidenceRepository    = (*Store)(nil)
	_ ports.SurveyRepository      = (*Store)(nil)
	_ ports.AssessmentRepository  = (*Store)(nil)
	_ ports.JobRepository         = (*Store)(nil)
)

func (s *Store) nextID(prefix string) string {
	s.seq++
	return prefix + "-" + strconv.Itoa(s.seq)
}

// StakeholderRepository

func (s *Store) List(context.Context) ([]domain.EntityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EntityRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.stakeholders[id])
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (domain.EntityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stakeholders[id]
	if !ok {
		return domain.EntityRecord{}, ports.ErrNotFound
	}
	return e, nil
}

func (s *Store) Upsert(_ context.Context, e domain.EntityRecord) (domain.EntityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if prev, ok := s.stakeholders[e.ID]; ok {
		e.CreatedAt = prev.CreatedAt
	} else {
		if e.ID == "" {
			e.ID = s.nextID("stakeholder")
		}
		e.CreatedAt = now
		s.order = append(s.order, e.ID)
	}
	e.UpdatedAt = now
	s.stakeholders[e.ID] = e
	return e, nil
}

func (s *Store) UpdateLinks(_ context.Context, id string, links map[domain.Platform]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stakeholders[id]
	if !ok {
		return ports.ErrNotFound
	}
	e.Links = links
	e.UpdatedAt = s.now()
	s.stakeholders[id] = e
	return nil
}

func (s *Store) UpdateScores(_ context.Context, id string, scores map[domain.Category]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stakeholders[id]
	if !ok {
		return ports.ErrNotFound
	}
	e.CategoryScores = scores
	e.UpdatedAt = s.now()
	s.stakeholders[id] = e
	return nil
}

// EvidenceRepository

func (s *Store) GetEvidence(_ context.Context, stakeholderID string) (ports.Evidence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evidence[stakeholderID], nil
}

func (s *Store) SaveEvidence(_ context.Context, stakeholderID string, ev ports.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence[stakeholderID] = ev
	return nil
}

// SurveyRepository

func (s *Store) SaveSurvey(_ context.Context, sv ports.StoredSurvey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveys = append(s.surveys, sv)
	return nil
}

func (s *Store) LatestSurvey(_ context.Context, stakeholderID string) (*domain.SurveyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.SurveyResponse
	for i := range s.surveys {
		sv := s.surveys[i]
		if sv.StakeholderID != stakeholderID {
			continue
		}
		if latest == nil || !sv.Response.SubmittedAt.Before(latest.SubmittedAt) {
			r := sv.Response
			latest = &r
		}
	}
	return latest, nil
}

func (s *Store) Unmatched(context.Context) ([]ports.StoredSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.StoredSurvey
	for _, sv := range s.surveys {
		if sv.StakeholderID == "" {
			out = append(out, sv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Response.SubmittedAt.Before(out[j].Response.SubmittedAt)
	})
	return out, nil
}

// AssessmentRepository

func (s *Store) SaveAssessment(_ context.Context, rec ports.AssessmentRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID("assessment")
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	s.assessments[rec.StakeholderID] = append(s.assessments[rec.StakeholderID], rec)
	return rec.ID, nil
}

func (s *Store) LatestAssessment(_ context.Context, stakeholderID string) (ports.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.assessments[stakeholderID]
	if len(h) == 0 {
		return ports.AssessmentRecord{}, ports.ErrNotFound
	}
	return h[len(h)-1], nil
}

// JobRepository

func (s *Store) Enqueue(_ context.Context, stakeholderID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("job")
	s.jobs[id] = &ports.JobStatus{ID: id, StakeholderID: stakeholderID, Status: ports.JobQueued, QueuedAt: s.now()}
	s.jobOrder = append(s.jobOrder, id)
	return id, nil
}

func (s *Store) ClaimNext(context.Context) (ports.AssessJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.jobOrder {
		j := s.jobs[id]
		if j.Status == ports.JobQueued {
			j.Status = ports.JobRunning
			j.Attempts++
			return ports.AssessJob{ID: j.ID, StakeholderID: j.StakeholderID}, true, nil
		}
	}
	return ports.AssessJob{}, false, nil
}

func (s *Store) StartJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok || j.Status != ports.JobQueued {
		return ports.ErrNotFound
	}
	j.Status = ports.JobRunning
	j.Attempts++
	return nil
}

func (s *Store) finish(jobID, status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return ports.ErrNotFound
	}
	now := s.now()
	j.Status, j.Error, j.FinishedAt = status, reason, &now
	return nil
}

func (s *Store) MarkCompleted(_ context.Context, jobID string) error {
	return s.finish(jobID, ports.JobCompleted, "")
}

func (s *Store) MarkFailed(_ context.Context, jobID, reason string) error {
	return s.finish(jobID, ports.JobFailed, reason)
}

func (s *Store) JobStatus(_ context.Context, jobID string) (ports.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return ports.JobStatus{}, ports.ErrNotFound
	}
	return *j, nil
}
