package ports

import (
	"context"
	"errors"
	"time"

	"maturity/internal/domain"
)

// ErrNotFound is returned by repositories and services for missing rows.
var ErrNotFound = errors.New("not found")

// StakeholderRepository stores the catalogued roster. Records are upserted,
// never deleted.
type StakeholderRepository interface {
	List(ctx context.Context) ([]domain.EntityRecord, error)
	Get(ctx context.Context, id string) (domain.EntityRecord, error)
	Upsert(ctx context.Context, e domain.EntityRecord) (domain.EntityRecord, error)
	UpdateLinks(ctx context.Context, id string, links map[domain.Platform]string) error
	// UpdateScores replaces the record's raw category scores and bumps UpdatedAt.
	UpdateScores(ctx context.Context, id string, scores map[domain.Category]int) error
}

// Evidence is the gathered web evidence of one stakeholder.
type Evidence struct {
	Links      []domain.DiscoveredLink
	Page       *domain.PageFeatures
	Narratives map[domain.Category]domain.Narrative
}

// EvidenceRepository stores discovered links and the scraped page per stakeholder.
type EvidenceRepository interface {
	GetEvidence(ctx context.Context, stakeholderID string) (Evidence, error)
	SaveEvidence(ctx context.Context, stakeholderID string, ev Evidence) error
}

// StoredSurvey is a survey response with its match outcome. StakeholderID is
// empty for responses awaiting manual review.
type StoredSurvey struct {
	Response      domain.SurveyResponse
	StakeholderID string
	Match         domain.MatchResult
}

// SurveyRepository stores linked and unmatched responses.
type SurveyRepository interface {
	SaveSurvey(ctx context.Context, s StoredSurvey) error
	LatestSurvey(ctx context.Context, stakeholderID string) (*domain.SurveyResponse, error)
	Unmatched(ctx context.Context) ([]StoredSurvey, error)
}

// AssessmentRecord is one persisted assessment run.
type AssessmentRecord struct {
	ID            string                    `json:"id"`
	StakeholderID string                    `json:"stakeholder_id"`
	Assessment    domain.MaturityAssessment `json:"assessment"`
	Categories    []domain.CategoryScore    `json:"categories"`
	Capacity      *domain.CapacityResult    `json:"capacity,omitempty"`
	Validations   []domain.ValidationResult `json:"validations"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// AssessmentRepository keeps assessment history; the newest row is current.
type AssessmentRepository interface {
	SaveAssessment(ctx context.Context, rec AssessmentRecord) (string, error)
	LatestAssessment(ctx context.Context, stakeholderID string) (AssessmentRecord, error)
}
