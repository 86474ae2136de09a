// Package rubric scores the six external categories against a declared table
// of binary criteria. The table is data: adding or dropping a criterion never
// touches the scoring code below.
package rubric

import (
	"errors"
	"fmt"

	"maturity/internal/domain"
)

// CriteriaPerCategory is fixed; a table that declares anything else is a defect.
const CriteriaPerCategory = 10

var (
	// ErrRubricDefect marks a malformed rubric table. It is a programming error,
	// not a data-quality issue.
	ErrRubricDefect    = errors.New("rubric defect")
	ErrUnknownCategory = errors.New("unknown category")
)

// Predicate reports whether one criterion is met. Predicates must treat missing
// evidence as not met.
type Predicate func(b *domain.EvidenceBundle) bool

// Criterion is one auditable yes/no question.
type Criterion struct {
	ID   string
	Text string
	Met  Predicate
}

// Table maps each category to its ordered criteria.
type Table map[domain.Category][]Criterion

// Validate checks that every category declares exactly CriteriaPerCategory
// criteria with unique IDs and non-nil predicates.
func Validate(t Table) error {
	seen := make(map[string]domain.Category)
	for _, c := range domain.Categories {
		crit, ok := t[c]
		if !ok {
			return fmt.Errorf("%w: category %s is not declared", ErrRubricDefect, c)
		}
		if len(crit) != CriteriaPerCategory {
			return fmt.Errorf("%w: category %s declares %d criteria, want %d", ErrRubricDefect, c, len(crit), CriteriaPerCategory)
		}
		for i, k := range crit {
			if k.Met == nil || k.Text == "" || k.ID == "" {
				return fmt.Errorf("%w: category %s criterion %d is incomplete", ErrRubricDefect, c, i+1)
			}
			if prev, dup := seen[k.ID]; dup {
				return fmt.Errorf("%w: criterion id %s declared in %s and %s", ErrRubricDefect, k.ID, prev, c)
			}
			seen[k.ID] = c
		}
	}
	for c := range t {
		if !c.Valid() {
			return fmt.Errorf("%w: %w %q", ErrRubricDefect, ErrUnknownCategory, c)
		}
	}
	return nil
}

// Scorer evaluates a validated table.
type Scorer struct {
	table Table
}

// New validates t and returns a Scorer over it.
func New(t Table) (*Scorer, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	return &Scorer{table: t}, nil
}

var defaultScorer = mustNew(DefaultTable())

func mustNew(t Table) *Scorer {
	s, err := New(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the scorer over DefaultTable.
func Default() *Scorer { return defaultScorer }

// Criteria returns the ordered criteria of c, e.g. to hand their texts to an
// external narrative assessor.
func (s *Scorer) Criteria(c domain.Category) []Criterion {
	return s.table[c]
}

// ScoreCategory evaluates every criterion of c against b. A narrative with
// exactly ten verdicts is taken as the pre-computed score; otherwise the
// table's predicates decide.
func (s *Scorer) ScoreCategory(c domain.Category, b *domain.EvidenceBundle) (domain.CategoryScore, error) {
	if !c.Valid() {
		return domain.CategoryScore{}, fmt.Errorf("%w %q", ErrUnknownCategory, c)
	}
	crit := s.table[c]
	if len(crit) != CriteriaPerCategory {
		return domain.CategoryScore{}, fmt.Errorf("%w: category %s declares %d criteria", ErrRubricDefect, c, len(crit))
	}
	if b == nil {
		b = &domain.EvidenceBundle{}
	}

	out := domain.CategoryScore{
		Category: c,
		Criteria: make([]domain.CriterionResult, 0, CriteriaPerCategory),
		Source:   domain.SourceRubric,
	}
	verdicts, narrative := narrativeVerdicts(b, c)
	if narrative {
		out.Source = domain.SourceNarrative
	}
	for i, k := range crit {
		var met bool
		if narrative {
			met = verdicts[i]
		} else {
			met = k.Met(b)
		}
		if met {
			out.RawScore++
		}
		out.Criteria = append(out.Criteria, domain.CriterionResult{ID: k.ID, Criterion: k.Text, Met: met})
	}
	return out, nil
}

// ScoreAll scores every category in domain.Categories order.
func (s *Scorer) ScoreAll(b *domain.EvidenceBundle) ([]domain.CategoryScore, error) {
	out := make([]domain.CategoryScore, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		cs, err := s.ScoreCategory(c, b)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}

func narrativeVerdicts(b *domain.EvidenceBundle, c domain.Category) ([]bool, bool) {
	n, ok := b.Narratives[c]
	if !ok || len(n.Verdicts) != CriteriaPerCategory {
		return nil, false
	}
	return n.Verdicts, true
}
