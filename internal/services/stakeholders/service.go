package stakeholders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"maturity/internal/domain"
	"maturity/internal/identity"
	"maturity/internal/ports"
)

type Service struct {
	repo ports.StakeholderRepository
}

func New(repo ports.StakeholderRepository) *Service { return &Service{repo: repo} }

func (s *Service) List(ctx context.Context) ([]domain.EntityRecord, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.EntityRecord, error) {
	return s.repo.Get(ctx, id)
}

// Import upserts roster records. Records without an ID get one; declared links
// without a platform key are keyed by the platform detected from the URL.
func (s *Service) Import(ctx context.Context, records []domain.EntityRecord) ([]domain.EntityRecord, error) {
	out := make([]domain.EntityRecord, 0, len(records))
	for i, e := range records {
		if strings.TrimSpace(e.Name) == "" {
			return out, fmt.Errorf("roster record %d: name is required", i+1)
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.Links = cleanLinks(e.Links)
		saved, err := s.repo.Upsert(ctx, e)
		if err != nil {
			return out, fmt.Errorf("upsert %s: %w", e.ID, err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func cleanLinks(links map[domain.Platform]string) map[domain.Platform]string {
	if len(links) == 0 {
		return nil
	}
	out := make(map[domain.Platform]string, len(links))
	for p, u := range links {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if p == "" {
			p = identity.DetectPlatform(u)
		}
		out[p] = u
	}
	return out
}
