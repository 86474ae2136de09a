package domain

import "strings"

// Category is one of the six externally observable scoring categories.
type Category string

const (
	CategorySocialMedia         Category = "social_media"
	CategoryWebsite             Category = "website"
	CategoryVisualContent       Category = "visual_content"
	CategoryDiscoverability     Category = "discoverability"
	CategoryDigitalSales        Category = "digital_sales"
	CategoryPlatformIntegration Category = "platform_integration"
)

// Categories is the fixed evaluation order.
var Categories = []Category{
	CategorySocialMedia,
	CategoryWebsite,
	CategoryVisualContent,
	CategoryDiscoverability,
	CategoryDigitalSales,
	CategoryPlatformIntegration,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Contribution is anything that produces a 0..N point contribution.
type Contribution interface {
	Points() float64
	MaxPoints() float64
}

// ValidationResult is the verdict on one (URL, candidate name) pair.
type ValidationResult struct {
	URL        string   `json:"url"`
	Platform   Platform `json:"platform"`
	IsOfficial bool     `json:"is_official"`
	Confidence float64  `json:"confidence"`
	Score      float64  `json:"score"`
	MaxScore   float64  `json:"max_score"`
	Signals    []string `json:"signals"`
}

// ConfidenceTier buckets a composite match score.
type ConfidenceTier string

const (
	TierHigh    ConfidenceTier = "HIGH"
	TierMedium  ConfidenceTier = "MEDIUM"
	TierLow     ConfidenceTier = "LOW"
	TierNoMatch ConfidenceTier = "NO_MATCH"
)

// CandidateScore is one scored roster entry.
type CandidateScore struct {
	EntityID         string  `json:"entity_id"`
	Name             string  `json:"name"`
	Position         int     `json:"position"`
	NameSimilarity   float64 `json:"name_similarity"`
	ContactMatch     bool    `json:"contact_match"`
	SectorSimilarity float64 `json:"sector_similarity"`
	Score            float64 `json:"score"`
}

// MatchResult is the outcome of matching one survey response to the roster.
// Matched is nil for NO_MATCH; Candidates are still reported for review.
type MatchResult struct {
	Matched    *CandidateScore  `json:"matched,omitempty"`
	Tier       ConfidenceTier   `json:"tier"`
	Candidates []CandidateScore `json:"candidates"`
	Reason     string           `json:"reason,omitempty"`
}

// CriterionResult is one evaluated rubric criterion.
type CriterionResult struct {
	ID        string `json:"id"`
	Criterion string `json:"criterion"`
	Met       bool   `json:"met"`
}

// Score sources.
const (
	SourceRubric    = "rubric"
	SourceNarrative = "narrative"
)

// CategoryScore is the raw 0..10 score of one category.
type CategoryScore struct {
	Category Category          `json:"category"`
	RawScore int               `json:"raw_score"`
	Criteria []CriterionResult `json:"criteria_evaluated"`
	Source   string            `json:"source"`
}

func (s CategoryScore) Points() float64    { return float64(s.RawScore) }
func (s CategoryScore) MaxPoints() float64 { return float64(len(s.Criteria)) }

// CapacityItem is one scored sub-criterion of the survey capacity scorer.
type CapacityItem struct {
	Key    string  `json:"key"`
	Answer string  `json:"answer,omitempty"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
	Rule   string  `json:"rule"`
}

// CapacitySection is one of Foundation, Capability, Growth.
type CapacitySection struct {
	Name   string         `json:"name"`
	Points float64        `json:"points"`
	Max    float64        `json:"max"`
	Items  []CapacityItem `json:"items"`
}

// CapacityResult is the internal-capacity score of a survey response.
type CapacityResult struct {
	Sections []CapacitySection `json:"sections"`
	Total    float64           `json:"total"`
	Max      float64           `json:"max"`
}

func (r CapacityResult) Points() float64    { return r.Total }
func (r CapacityResult) MaxPoints() float64 { return r.Max }

// SectorType selects a weighting table.
type SectorType string

const (
	SectorCreative     SectorType = "creative"
	SectorTourOperator SectorType = "tour_operator"
)

// MaturityTier is the qualitative verdict derived from a percentage.
type MaturityTier string

const (
	TierAbsent       MaturityTier = "Absent/Basic"
	TierEmerging     MaturityTier = "Emerging"
	TierIntermediate MaturityTier = "Intermediate"
	TierAdvanced     MaturityTier = "Advanced"
	TierExpert       MaturityTier = "Expert"
)

// MaturityTiers is ordered from lowest to highest.
var MaturityTiers = []MaturityTier{TierAbsent, TierEmerging, TierIntermediate, TierAdvanced, TierExpert}

// Rank returns the position of t in MaturityTiers, or -1.
func (t MaturityTier) Rank() int {
	for i, k := range MaturityTiers {
		if k == t {
			return i
		}
	}
	return -1
}

// WeightedCategory is one line of the composite breakdown.
type WeightedCategory struct {
	Category Category `json:"category"`
	Raw      int      `json:"raw"`
	Weight   float64  `json:"weight"`
	Weighted float64  `json:"weighted"`
	Max      float64  `json:"max"`
}

// MaturityAssessment is the final verdict for one entity. CombinedTotal is a
// percentage of the declared maximum.
type MaturityAssessment struct {
	SectorType      SectorType         `json:"sector_type"`
	Categories      []WeightedCategory `json:"categories"`
	ExternalTotal   float64            `json:"external_total"`
	ExternalMax     float64            `json:"external_max"`
	ExternalPercent float64            `json:"external_percent"`
	SurveyTotal     *float64           `json:"survey_total,omitempty"`
	SurveyMax       float64            `json:"survey_max,omitempty"`
	SurveyPercent   *float64           `json:"survey_percent,omitempty"`
	CombinedTotal   float64            `json:"combined_total"`
	Tier            MaturityTier       `json:"tier"`
	Formula         string             `json:"formula"`
}

func equalKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func trimmed(s string) string { return strings.TrimSpace(s) }
