// Package matching reconciles a self-reported survey response with the roster
// of catalogued stakeholders.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"maturity/internal/domain"
	"maturity/internal/normalize"
	"maturity/internal/survey"
)

// Composite weights, out of 100.
const (
	NameWeight    = 70.0
	ContactWeight = 20.0
	SectorWeight  = 10.0
)

// Tier cut-points on the composite score.
const (
	HighThreshold   = 85.0
	MediumThreshold = 65.0
	LowThreshold    = 45.0
)

const (
	contactDigits = 7
	maxCandidates = 3
)

// ReasonMissingName is reported when the response carries no usable name.
const ReasonMissingName = "missing required field: business name"

type indexed struct {
	position int
	entity   domain.EntityRecord
	forms    []string
	phone    string
	sector   string
}

// Index is a read-only, pre-normalized roster. It is safe for concurrent use.
type Index struct {
	entries []indexed
}

// NewIndex normalizes roster once. Entries without a usable name are skipped.
func NewIndex(roster []domain.EntityRecord) *Index {
	idx := &Index{entries: make([]indexed, 0, len(roster))}
	for i, e := range roster {
		forms := Forms(e.Name)
		if len(forms) == 0 {
			continue
		}
		idx.entries = append(idx.entries, indexed{
			position: i,
			entity:   e,
			forms:    forms,
			phone:    lastDigits(e.Contact),
			sector:   normalize.Canonical(e.Sector),
		})
	}
	return idx
}

// Len is the number of scorable roster entries.
func (x *Index) Len() int { return len(x.entries) }

// Match scores one response against roster. See Index.Match.
func Match(r domain.SurveyResponse, roster []domain.EntityRecord) domain.MatchResult {
	return NewIndex(roster).Match(r)
}

// Match returns the best roster entry for r with a confidence tier and the
// top three candidates. Ties keep roster order. A NO_MATCH result never carries
// a matched entity, but still lists candidates for manual review.
func (x *Index) Match(r domain.SurveyResponse) domain.MatchResult {
	name := survey.Value(&r, survey.BusinessName)
	forms := Forms(name)
	if len(forms) == 0 {
		return domain.MatchResult{Tier: domain.TierNoMatch, Candidates: []domain.CandidateScore{}, Reason: ReasonMissingName}
	}
	phone := lastDigits(survey.Value(&r, survey.Contact))
	sector := normalize.Canonical(survey.Value(&r, survey.Sector))

	scored := make([]domain.CandidateScore, 0, len(x.entries))
	for _, e := range x.entries {
		c := domain.CandidateScore{
			EntityID:       e.entity.ID,
			Name:           e.entity.Name,
			Position:       e.position,
			NameSimilarity: bestRatio(forms, e.forms),
			ContactMatch:   phone != "" && phone == e.phone,
		}
		if sector != "" && e.sector != "" {
			c.SectorSimilarity = Ratio(sector, e.sector)
		}
		c.Score = composite(c)
		scored = append(scored, c)
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	top := scored
	if len(top) > maxCandidates {
		top = top[:maxCandidates]
	}
	res := domain.MatchResult{Tier: domain.TierNoMatch, Candidates: top}
	if len(top) == 0 {
		res.Reason = "empty roster"
		return res
	}
	res.Tier = TierFor(top[0].Score)
	if res.Tier != domain.TierNoMatch {
		best := top[0]
		res.Matched = &best
	}
	return res
}

// TierFor maps a composite score to its confidence tier.
func TierFor(score float64) domain.ConfidenceTier {
	switch {
	case score >= HighThreshold:
		return domain.TierHigh
	case score >= MediumThreshold:
		return domain.TierMedium
	case score >= LowThreshold:
		return domain.TierLow
	default:
		return domain.TierNoMatch
	}
}

func composite(c domain.CandidateScore) float64 {
	s := c.NameSimilarity*NameWeight + c.SectorSimilarity*SectorWeight
	if c.ContactMatch {
		s += ContactWeight
	}
	return math.Round(s*100) / 100
}

// Forms is the set of normalized strings a name is compared through: its
// variants plus its canonical form.
func Forms(name string) []string {
	canon := normalize.Canonical(name)
	if canon == "" {
		return nil
	}
	forms := normalize.Variants(name)
	for _, f := range forms {
		if f == canon {
			return forms
		}
	}
	return append(forms, canon)
}

// Ratio is the matching-subsequence similarity of a and b in [0, 1]
// (2*M/T over runes, as difflib's SequenceMatcher computes it).
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func bestRatio(as, bs []string) float64 {
	var best float64
	for _, a := range as {
		for _, b := range bs {
			if r := Ratio(a, b); r > best {
				best = r
				if best == 1 {
					return best
				}
			}
		}
	}
	return best
}

func lastDigits(contact string) string {
	d := normalize.Digits(contact)
	if len(d) < contactDigits {
		return ""
	}
	return d[len(d)-contactDigits:]
}
