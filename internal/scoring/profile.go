package scoring

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"maturity/internal/domain"
)

var ErrInvalidProfile = errors.New("invalid scoring profile")

// Weights scales each category's raw 0..10 score.
type Weights map[domain.Category]float64

// Max is the highest weighted total the table can produce.
func (w Weights) Max() float64 {
	var sum float64
	for _, c := range domain.Categories {
		sum += w[c] * 10
	}
	return round2(sum)
}

// Profile holds the sector weighting tables and the survey blend.
type Profile struct {
	Weights       map[domain.SectorType]Weights
	ExternalShare float64
	SurveyShare   float64
}

// DefaultProfile is the canonical table: creative stakeholders weigh visual
// content and social media up, tour operators weigh discoverability and sales
// up. Maximums are 60 and 65.
func DefaultProfile() Profile {
	return Profile{
		Weights: map[domain.SectorType]Weights{
			domain.SectorCreative: {
				domain.CategorySocialMedia:         1.2,
				domain.CategoryWebsite:             1.0,
				domain.CategoryVisualContent:       1.3,
				domain.CategoryDiscoverability:     0.9,
				domain.CategoryDigitalSales:        0.8,
				domain.CategoryPlatformIntegration: 0.8,
			},
			domain.SectorTourOperator: {
				domain.CategorySocialMedia:         1.0,
				domain.CategoryWebsite:             1.1,
				domain.CategoryVisualContent:       0.9,
				domain.CategoryDiscoverability:     1.3,
				domain.CategoryDigitalSales:        1.2,
				domain.CategoryPlatformIntegration: 1.0,
			},
		},
		ExternalShare: 0.70,
		SurveyShare:   0.30,
	}
}

// Validate checks that both sector types weight every category positively and
// that the blend shares sum to one.
func (p Profile) Validate() error {
	for _, st := range []domain.SectorType{domain.SectorCreative, domain.SectorTourOperator} {
		w, ok := p.Weights[st]
		if !ok {
			return fmt.Errorf("%w: no weights for %s", ErrInvalidProfile, st)
		}
		for _, c := range domain.Categories {
			if w[c] <= 0 {
				return fmt.Errorf("%w: %s weight for %s must be positive", ErrInvalidProfile, st, c)
			}
		}
		for c := range w {
			if !c.Valid() {
				return fmt.Errorf("%w: %s weights unknown category %q", ErrInvalidProfile, st, c)
			}
		}
	}
	for st := range p.Weights {
		if _, err := ParseSectorType(string(st)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
	}
	if p.ExternalShare < 0 || p.SurveyShare < 0 || math.Abs(p.ExternalShare+p.SurveyShare-1) > 1e-9 {
		return fmt.Errorf("%w: blend shares %g + %g must be non-negative and sum to 1", ErrInvalidProfile, p.ExternalShare, p.SurveyShare)
	}
	return nil
}

type profileFile struct {
	Blend *struct {
		External float64 `yaml:"external"`
		Survey   float64 `yaml:"survey"`
	} `yaml:"blend"`
	Weights map[string]map[string]float64 `yaml:"weights"`
}

// ParseProfile overlays a YAML document onto DefaultProfile:
//
//	blend:
//	  external: 0.7
//	  survey: 0.3
//	weights:
//	  creative:
//	    visual_content: 1.4
//
// Omitted entries keep their default. The result is validated.
func ParseProfile(data []byte) (Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	p := DefaultProfile()
	if f.Blend != nil {
		p.ExternalShare = f.Blend.External
		p.SurveyShare = f.Blend.Survey
	}
	for sector, weights := range f.Weights {
		st, err := ParseSectorType(sector)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		for cat, v := range weights {
			c := domain.Category(cat)
			if !c.Valid() {
				return Profile{}, fmt.Errorf("%w: %s weights unknown category %q", ErrInvalidProfile, st, cat)
			}
			p.Weights[st][c] = v
		}
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
