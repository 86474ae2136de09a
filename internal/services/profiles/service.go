package profiles

import (
	"context"

	"maturity/internal/ports"
)

type Service struct {
	assessments ports.AssessmentRepository
}

func New(assessments ports.AssessmentRepository) *Service {
	return &Service{assessments: assessments}
}

// GetLatest returns the newest assessment of the stakeholder, or
// ports.ErrNotFound when it was never assessed.
func (s *Service) GetLatest(ctx context.Context, stakeholderID string) (ports.AssessmentRecord, error) {
	return s.assessments.LatestAssessment(ctx, stakeholderID)
}
