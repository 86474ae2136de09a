// Package engine runs the per-entity assessment pipeline: identity validation,
// rubric scoring, survey capacity and the composite verdict. It performs no
// I/O; every input arrives already resolved.
package engine

import (
	"fmt"
	"strings"

	"maturity/internal/capacity"
	"maturity/internal/domain"
	"maturity/internal/identity"
	"maturity/internal/rubric"
	"maturity/internal/scoring"
)

// Input is the resolved evidence for one entity.
type Input struct {
	Entity     domain.EntityRecord                  `json:"entity"`
	Links      []domain.DiscoveredLink              `json:"links,omitempty"`
	Page       *domain.PageFeatures                 `json:"page,omitempty"`
	Survey     *domain.SurveyResponse               `json:"survey,omitempty"`
	Narratives map[domain.Category]domain.Narrative `json:"narratives,omitempty"`
	SectorType domain.SectorType                    `json:"sector_type,omitempty"`
}

// Report is the full, explainable outcome for one entity.
type Report struct {
	Entity      domain.EntityRecord       `json:"entity"`
	Validations []domain.ValidationResult `json:"validations"`
	Categories  []domain.CategoryScore    `json:"categories"`
	Capacity    *domain.CapacityResult    `json:"capacity,omitempty"`
	Assessment  domain.MaturityAssessment `json:"assessment"`
}

// OfficialLinks returns the highest-confidence accepted URL per platform.
func (r Report) OfficialLinks() map[domain.Platform]string {
	best := make(map[domain.Platform]domain.ValidationResult)
	for _, v := range r.Validations {
		if !v.IsOfficial {
			continue
		}
		if cur, ok := best[v.Platform]; !ok || v.Confidence > cur.Confidence {
			best[v.Platform] = v
		}
	}
	out := make(map[domain.Platform]string, len(best))
	for p, v := range best {
		out[p] = v.URL
	}
	return out
}

// Engine holds the three scorers. The zero value is not usable; use New.
type Engine struct {
	rubric   *rubric.Scorer
	capacity *capacity.Scorer
	scoring  *scoring.Engine
}

type Option func(*Engine)

func WithRubric(s *rubric.Scorer) Option     { return func(e *Engine) { e.rubric = s } }
func WithCapacity(s *capacity.Scorer) Option { return func(e *Engine) { e.capacity = s } }
func WithScoring(s *scoring.Engine) Option   { return func(e *Engine) { e.scoring = s } }

// New returns an Engine over the default tables unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		rubric:   rubric.Default(),
		capacity: capacity.Default(),
		scoring:  scoring.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate assesses one entity. Data problems degrade to lower scores; only a
// rubric defect or an unknown sector type is returned as an error.
func (e *Engine) Evaluate(in Input) (Report, error) {
	out := Report{Entity: in.Entity}
	out.Validations = ValidateLinks(in.Entity, in.Links, in.Page)

	bundle := &domain.EvidenceBundle{
		Entity:      in.Entity,
		Links:       in.Links,
		Page:        in.Page,
		Validations: out.Validations,
		Survey:      in.Survey,
		Narratives:  in.Narratives,
	}
	cats, err := e.rubric.ScoreAll(bundle)
	if err != nil {
		return Report{}, fmt.Errorf("score %s: %w", in.Entity.ID, err)
	}
	out.Categories = cats

	var survey domain.Contribution
	if in.Survey != nil {
		c := e.capacity.Score(in.Survey)
		out.Capacity = &c
		survey = c
	}

	st := in.SectorType
	if st == "" {
		st = scoring.SectorTypeFor(in.Entity.Sector)
	}
	a, err := e.scoring.Assess(cats, st, survey)
	if err != nil {
		return Report{}, fmt.Errorf("assess %s: %w", in.Entity.ID, err)
	}
	out.Assessment = a
	return out, nil
}

// ValidateLinks validates the entity's declared links and every discovered
// link once per URL. Page content only informs the website whose registrable
// domain it was scraped from.
func ValidateLinks(entity domain.EntityRecord, links []domain.DiscoveredLink, page *domain.PageFeatures) []domain.ValidationResult {
	type candidate struct {
		url      string
		platform domain.Platform
	}
	var cands []candidate
	seen := make(map[string]bool)
	add := func(raw string, p domain.Platform) {
		raw = strings.TrimSpace(raw)
		if raw == "" || seen[raw] {
			return
		}
		seen[raw] = true
		cands = append(cands, candidate{raw, p})
	}
	for _, p := range declaredOrder(entity.Links) {
		add(entity.Links[p], p)
	}
	for _, l := range links {
		add(l.URL, "")
	}

	out := make([]domain.ValidationResult, 0, len(cands))
	for _, c := range cands {
		out = append(out, identity.Validate(c.url, entity.Name, c.platform, pageFor(c.url, page)))
	}
	return out
}

var platformOrder = []domain.Platform{
	domain.PlatformWebsite,
	domain.PlatformFacebook,
	domain.PlatformInstagram,
	domain.PlatformYouTube,
	domain.PlatformLinkedIn,
	domain.PlatformTikTok,
	domain.PlatformTwitter,
	domain.PlatformTripAdvisor,
	domain.PlatformGoogleMaps,
	domain.PlatformBooking,
}

func declaredOrder(links map[domain.Platform]string) []domain.Platform {
	var out []domain.Platform
	for _, p := range platformOrder {
		if _, ok := links[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func pageFor(raw string, page *domain.PageFeatures) *domain.PageFeatures {
	if page == nil {
		return nil
	}
	a, b := identity.RegistrableOf(raw), identity.RegistrableOf(page.URL)
	if a == "" || a != b {
		return nil
	}
	return page
}
