// Package scoring turns six raw category scores into a sector-weighted maturity
// verdict, optionally blended with the survey capacity score.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"maturity/internal/domain"
)

var (
	ErrUnknownSectorType = errors.New("unknown sector type")
	ErrInvalidScore      = errors.New("invalid category score")
)

// Tier cut-points, in percent. They apply identically to every sector type
// with or without survey data.
var thresholds = []struct {
	min  float64
	tier domain.MaturityTier
}{
	{80, domain.TierExpert},
	{60, domain.TierAdvanced},
	{40, domain.TierIntermediate},
	{20, domain.TierEmerging},
}

// TierFor buckets a 0..100 percentage.
func TierFor(pct float64) domain.MaturityTier {
	for _, t := range thresholds {
		if pct >= t.min {
			return t.tier
		}
	}
	return domain.TierAbsent
}

// ParseSectorType accepts the two sector type names.
func ParseSectorType(s string) (domain.SectorType, error) {
	switch st := domain.SectorType(strings.ToLower(strings.TrimSpace(s))); st {
	case domain.SectorCreative, domain.SectorTourOperator:
		return st, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownSectorType, s)
}

var tourWords = []string{"tour", "travel", "operator", "excursion", "safari", "guide", "expedition"}

// SectorTypeFor maps a free-text roster sector onto a sector type. Anything
// that does not read as a tour or travel business is creative.
func SectorTypeFor(sector string) domain.SectorType {
	s := strings.ToLower(sector)
	for _, w := range tourWords {
		if strings.Contains(s, w) {
			return domain.SectorTourOperator
		}
	}
	return domain.SectorCreative
}

// Engine assesses against one validated profile.
type Engine struct {
	profile Profile
}

// New validates p and returns an Engine over it.
func New(p Profile) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{profile: p}, nil
}

var defaultEngine = func() *Engine {
	e, err := New(DefaultProfile())
	if err != nil {
		panic(err)
	}
	return e
}()

// Default returns the engine over DefaultProfile.
func Default() *Engine { return defaultEngine }

// Profile returns the engine's profile.
func (e *Engine) Profile() Profile { return e.profile }

// Assess weights scores for st and blends in survey when it is non-nil. A nil
// pointer inside the interface (a (*domain.CapacityResult)(nil)) also means no
// survey. A category missing from scores counts as zero; a duplicated or
// unknown one is an error.
func (e *Engine) Assess(scores []domain.CategoryScore, st domain.SectorType, survey domain.Contribution) (domain.MaturityAssessment, error) {
	weights, ok := e.profile.Weights[st]
	if !ok {
		return domain.MaturityAssessment{}, fmt.Errorf("%w %q", ErrUnknownSectorType, st)
	}
	raw := make(map[domain.Category]int, len(scores))
	for _, s := range scores {
		if !s.Category.Valid() {
			return domain.MaturityAssessment{}, fmt.Errorf("%w: unknown category %q", ErrInvalidScore, s.Category)
		}
		if _, dup := raw[s.Category]; dup {
			return domain.MaturityAssessment{}, fmt.Errorf("%w: %s scored twice", ErrInvalidScore, s.Category)
		}
		if s.RawScore < 0 || s.RawScore > 10 {
			return domain.MaturityAssessment{}, fmt.Errorf("%w: %s raw score %d outside 0..10", ErrInvalidScore, s.Category, s.RawScore)
		}
		raw[s.Category] = s.RawScore
	}

	out := domain.MaturityAssessment{SectorType: st, ExternalMax: weights.Max()}
	var total float64
	for _, c := range domain.Categories {
		w := weights[c]
		weighted := float64(raw[c]) * w
		total += weighted
		out.Categories = append(out.Categories, domain.WeightedCategory{
			Category: c,
			Raw:      raw[c],
			Weight:   w,
			Weighted: round2(weighted),
			Max:      round2(10 * w),
		})
	}
	out.ExternalTotal = round2(total)
	external := 100 * total / out.ExternalMax
	out.ExternalPercent = round2(external)

	if absent(survey) {
		out.CombinedTotal = round2(external)
		out.Formula = "combined = external% (no survey)"
	} else {
		if survey.MaxPoints() <= 0 {
			return domain.MaturityAssessment{}, fmt.Errorf("%w: survey contribution has no maximum", ErrInvalidScore)
		}
		points := math.Max(0, math.Min(survey.Points(), survey.MaxPoints()))
		pct := 100 * points / survey.MaxPoints()
		surveyTotal, surveyPct := round2(points), round2(pct)
		out.SurveyTotal, out.SurveyMax, out.SurveyPercent = &surveyTotal, survey.MaxPoints(), &surveyPct
		out.CombinedTotal = round2(e.profile.ExternalShare*external + e.profile.SurveyShare*pct)
		out.Formula = fmt.Sprintf("combined = %.2f × external%% + %.2f × survey%%", e.profile.ExternalShare, e.profile.SurveyShare)
	}
	out.Tier = TierFor(out.CombinedTotal)
	return out, nil
}

// Assess is Default().Assess.
func Assess(scores []domain.CategoryScore, st domain.SectorType, survey domain.Contribution) (domain.MaturityAssessment, error) {
	return defaultEngine.Assess(scores, st, survey)
}

func absent(c domain.Contribution) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
