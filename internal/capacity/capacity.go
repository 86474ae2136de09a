// Package capacity scores a survey response for internal digital capacity:
// three sections of ten points each. Unlike the rubric, items are not binary;
// every answer-to-points mapping is a declared table.
package capacity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"maturity/internal/domain"
	"maturity/internal/survey"
)

// SectionMax is the point budget of every section.
const SectionMax = 10

var ErrTableDefect = errors.New("capacity table defect")

// Rule maps an answer matching Pattern to Points. Rules are tried in order and
// the first match wins.
type Rule struct {
	Pattern *regexp.Regexp
	Points  float64
	Label   string
}

// Mapping turns one answer into points plus a human-readable reason.
type Mapping interface {
	Apply(answer string) (points float64, reason string)
	Ceiling() float64
}

// Patterns is an ordered first-match-wins table.
type Patterns []Rule

func (p Patterns) Apply(answer string) (float64, string) {
	for _, r := range p {
		if r.Pattern.MatchString(answer) {
			return r.Points, "matched " + r.Label
		}
	}
	return 0, "no rule matched"
}

func (p Patterns) Ceiling() float64 {
	var m float64
	for _, r := range p {
		m = math.Max(m, r.Points)
	}
	return m
}

// Term is one countable thing an answer may mention.
type Term struct {
	Name    string
	Pattern *regexp.Regexp
}

// Count counts distinct Terms mentioned and reads the points off Curve; counts
// past the end of the curve take its last value.
type Count struct {
	Terms []Term
	Curve []float64
}

func (c Count) Apply(answer string) (float64, string) {
	var names []string
	for _, t := range c.Terms {
		if t.Pattern.MatchString(answer) {
			names = append(names, t.Name)
		}
	}
	n := len(names)
	if n >= len(c.Curve) {
		n = len(c.Curve) - 1
	}
	if len(names) == 0 {
		return c.Curve[0], "none recognised"
	}
	return c.Curve[n], fmt.Sprintf("%d recognised: %s", len(names), strings.Join(names, ", "))
}

func (c Count) Ceiling() float64 {
	if len(c.Curve) == 0 {
		return 0
	}
	return c.Curve[len(c.Curve)-1]
}

// Band awards Points to percentages at or above Min.
type Band struct {
	Min    float64
	Points float64
}

// Bands reads the first number of the answer as a percentage and awards the
// first band (highest Min first) it reaches. Answers without a number fall
// back to Words.
type Bands struct {
	Bands []Band
	Words Patterns
}

var number = regexp.MustCompile(`\d+(?:\.\d+)?`)

func (b Bands) Apply(answer string) (float64, string) {
	m := number.FindString(answer)
	if m == "" {
		return b.Words.Apply(answer)
	}
	pct, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return b.Words.Apply(answer)
	}
	for _, band := range b.Bands {
		if pct >= band.Min {
			return band.Points, fmt.Sprintf("%g%% >= %g%%", pct, band.Min)
		}
	}
	return 0, fmt.Sprintf("%g%% below every band", pct)
}

func (b Bands) Ceiling() float64 {
	m := b.Words.Ceiling()
	for _, band := range b.Bands {
		m = math.Max(m, band.Points)
	}
	return m
}

// Floor raises an item's score from a related answer.
type Floor struct {
	Field survey.Field
	Rules Patterns
}

// Item is one sub-criterion of a section.
type Item struct {
	Field   survey.Field
	Max     float64
	Mapping Mapping
	Floor   *Floor
}

// Section is Foundation, Capability or Growth.
type Section struct {
	Name  string
	Items []Item
}

// Scorer evaluates a validated set of sections.
type Scorer struct {
	sections []Section
}

// Validate checks that every section budgets exactly SectionMax points and that
// no mapping can award more than its item's Max.
func Validate(sections []Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrTableDefect)
	}
	for _, s := range sections {
		var sum float64
		for _, it := range s.Items {
			if it.Mapping == nil || it.Max <= 0 {
				return fmt.Errorf("%w: %s/%s is incomplete", ErrTableDefect, s.Name, it.Field)
			}
			if c, ok := it.Mapping.(Count); ok && len(c.Curve) == 0 {
				return fmt.Errorf("%w: %s/%s has an empty count curve", ErrTableDefect, s.Name, it.Field)
			}
			if c := it.Mapping.Ceiling(); c > it.Max {
				return fmt.Errorf("%w: %s/%s can award %g of %g", ErrTableDefect, s.Name, it.Field, c, it.Max)
			}
			if it.Floor != nil && it.Floor.Rules.Ceiling() > it.Max {
				return fmt.Errorf("%w: %s/%s floor exceeds %g", ErrTableDefect, s.Name, it.Field, it.Max)
			}
			sum += it.Max
		}
		if math.Abs(sum-SectionMax) > 1e-9 {
			return fmt.Errorf("%w: section %s budgets %g points, want %d", ErrTableDefect, s.Name, sum, SectionMax)
		}
	}
	return nil
}

// New validates sections and returns a Scorer over them.
func New(sections []Section) (*Scorer, error) {
	if err := Validate(sections); err != nil {
		return nil, err
	}
	return &Scorer{sections: sections}, nil
}

var defaultScorer = func() *Scorer {
	s, err := New(DefaultSections())
	if err != nil {
		panic(err)
	}
	return s
}()

// Default returns the scorer over DefaultSections.
func Default() *Scorer { return defaultScorer }

// Score is Default().Score.
func Score(r *domain.SurveyResponse) domain.CapacityResult {
	return defaultScorer.Score(r)
}

// Score evaluates every item. Unanswered items score zero; a nil response
// scores zero everywhere.
func (s *Scorer) Score(r *domain.SurveyResponse) domain.CapacityResult {
	var out domain.CapacityResult
	for _, sec := range s.sections {
		cs := domain.CapacitySection{Name: sec.Name, Items: make([]domain.CapacityItem, 0, len(sec.Items))}
		for _, it := range sec.Items {
			item := scoreItem(it, r)
			cs.Points += item.Points
			cs.Max += item.Max
			cs.Items = append(cs.Items, item)
		}
		cs.Points = round2(cs.Points)
		out.Total += cs.Points
		out.Max += cs.Max
		out.Sections = append(out.Sections, cs)
	}
	out.Total = round2(out.Total)
	return out
}

func scoreItem(it Item, r *domain.SurveyResponse) domain.CapacityItem {
	out := domain.CapacityItem{Key: string(it.Field), Max: it.Max, Rule: "unanswered"}
	answer, ok := survey.Lookup(r, it.Field)
	if ok {
		out.Answer = answer
		out.Points, out.Rule = it.Mapping.Apply(answer)
	}
	if it.Floor == nil {
		return out
	}
	related, ok := survey.Lookup(r, it.Floor.Field)
	if !ok {
		return out
	}
	floor, reason := it.Floor.Rules.Apply(related)
	if floor > out.Points {
		out.Points = floor
		out.Rule = fmt.Sprintf("floor from %s (%s)", it.Floor.Field, strings.TrimPrefix(reason, "matched "))
	}
	out.Points = math.Min(out.Points, it.Max)
	return out
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
