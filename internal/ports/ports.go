package ports

import (
	"context"

	"maturity/internal/domain"
)

// Stakeholders serves the roster.
type Stakeholders interface {
	List(ctx context.Context) ([]domain.EntityRecord, error)
	Get(ctx context.Context, id string) (domain.EntityRecord, error)
}

// Assessments enqueues and tracks stakeholder assessments.
type Assessments interface {
	Enqueue(ctx context.Context, stakeholderID string) (jobID string, err error)
	RunInline(ctx context.Context, jobID string) (AssessmentRecord, error)
	Job(ctx context.Context, jobID string) (JobStatus, error)
}

// Profiles provides the latest assessment per stakeholder.
type Profiles interface {
	GetLatest(ctx context.Context, stakeholderID string) (AssessmentRecord, error)
}

// IntakeResult reports what happened to one submitted survey response.
type IntakeResult struct {
	SurveyID      string             `json:"survey_id"`
	StakeholderID string             `json:"stakeholder_id,omitempty"`
	Match         domain.MatchResult `json:"match"`
	JobID         string             `json:"job_id,omitempty"`
}

// Surveys links incoming survey responses to the roster.
type Surveys interface {
	Intake(ctx context.Context, r domain.SurveyResponse) (IntakeResult, error)
	Unmatched(ctx context.Context) ([]StoredSurvey, error)
}
