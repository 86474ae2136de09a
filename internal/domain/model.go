package domain

import "time"

// Core domain models shared by the engine, the services and the adapters. All of
// them are plain records so storage and report layers can persist or render them
// without reaching into engine state.

// Platform identifies where a discovered URL lives.
type Platform string

const (
	PlatformWebsite     Platform = "website"
	PlatformFacebook    Platform = "facebook"
	PlatformInstagram   Platform = "instagram"
	PlatformYouTube     Platform = "youtube"
	PlatformLinkedIn    Platform = "linkedin"
	PlatformTikTok      Platform = "tiktok"
	PlatformTwitter     Platform = "twitter"
	PlatformTripAdvisor Platform = "tripadvisor"
	PlatformGoogleMaps  Platform = "google_maps"
	PlatformBooking     Platform = "booking"
)

// SocialPlatforms lists the platforms validated by profile URL shape.
var SocialPlatforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformYouTube,
	PlatformLinkedIn,
	PlatformTikTok,
	PlatformTwitter,
}

// IsSocial reports whether p is a social profile platform.
func (p Platform) IsSocial() bool {
	for _, s := range SocialPlatforms {
		if s == p {
			return true
		}
	}
	return false
}

// IsListing reports whether p is a third-party listing platform that is never
// "official" in the website sense.
func (p Platform) IsListing() bool {
	switch p {
	case PlatformTripAdvisor, PlatformGoogleMaps, PlatformBooking:
		return true
	}
	return false
}

// EntityRecord is a catalogued stakeholder. Records are never deleted; stale
// records keep their UpdatedAt.
type EntityRecord struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Sector         string              `json:"sector"`
	Country        string              `json:"country,omitempty"`
	Region         string              `json:"region,omitempty"`
	Contact        string              `json:"contact,omitempty"`
	Links          map[Platform]string `json:"links,omitempty"`
	CategoryScores map[Category]int    `json:"category_scores,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Answer is one question-key/answer pair of a survey response.
type Answer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SurveyResponse is a self-reported record. Answers keep submission order.
type SurveyResponse struct {
	ID          string    `json:"id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
	Answers     []Answer  `json:"answers"`
}

// Get returns the first non-blank answer stored under key (case-insensitive).
func (r SurveyResponse) Get(key string) (string, bool) {
	for _, a := range r.Answers {
		if equalKey(a.Key, key) && trimmed(a.Value) != "" {
			return a.Value, true
		}
	}
	return "", false
}

// DiscoveredLink is one web-search result gathered for an entity.
type DiscoveredLink struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	SourceQuery string `json:"source_query,omitempty"`
}

// PageFeatures is the scraped feature record of an entity's website.
type PageFeatures struct {
	URL               string   `json:"url"`
	Title             string   `json:"title,omitempty"`
	MetaDescription   string   `json:"meta_description,omitempty"`
	Headings          []string `json:"headings,omitempty"`
	ImageCount        int      `json:"image_count"`
	HasContactForm    bool     `json:"has_contact_form"`
	HasViewportMeta   bool     `json:"has_viewport_meta"`
	HasStructuredData bool     `json:"has_structured_data"`
	Emails            []string `json:"emails,omitempty"`
	Phones            []string `json:"phones,omitempty"`
	Text              string   `json:"text,omitempty"`
	OutboundLinks     []string `json:"outbound_links,omitempty"`
}

// Narrative is an externally produced judgement of one category: ten ordered
// verdicts against the same criterion texts the rubric declares.
type Narrative struct {
	Verdicts  []bool `json:"verdicts"`
	Rationale string `json:"rationale,omitempty"`
}

// EvidenceBundle is everything known about one entity at scoring time.
type EvidenceBundle struct {
	Entity      EntityRecord           `json:"entity"`
	Links       []DiscoveredLink       `json:"links,omitempty"`
	Page        *PageFeatures          `json:"page,omitempty"`
	Validations []ValidationResult     `json:"validations,omitempty"`
	Survey      *SurveyResponse        `json:"survey,omitempty"`
	Narratives  map[Category]Narrative `json:"narratives,omitempty"`
}

// Official returns the accepted validation for platform p, if any.
func (b *EvidenceBundle) Official(p Platform) (ValidationResult, bool) {
	var best ValidationResult
	found := false
	for _, v := range b.Validations {
		if v.Platform != p || !v.IsOfficial {
			continue
		}
		if !found || v.Confidence > best.Confidence {
			best = v
			found = true
		}
	}
	return best, found
}

// OfficialPlatforms returns the distinct social platforms with an accepted profile.
func (b *EvidenceBundle) OfficialPlatforms() []Platform {
	var out []Platform
	for _, p := range SocialPlatforms {
		if _, ok := b.Official(p); ok {
			out = append(out, p)
		}
	}
	return out
}
