package rubric

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"maturity/internal/domain"
)

func constTable(met bool) Table {
	t := make(Table)
	for _, c := range domain.Categories {
		for i := 0; i < CriteriaPerCategory; i++ {
			t[c] = append(t[c], Criterion{
				ID:   string(c) + "-" + strconv.Itoa(i),
				Text: "criterion " + strconv.Itoa(i),
				Met:  func(*domain.EvidenceBundle) bool { return met },
			})
		}
	}
	return t
}

func TestDefaultTableIsValid(t *testing.T) {
	if err := Validate(DefaultTable()); err != nil {
		t.Fatalf("Validate(DefaultTable()) = %v", err)
	}
	for _, c := range domain.Categories {
		if n := len(Default().Criteria(c)); n != CriteriaPerCategory {
			t.Errorf("Criteria(%s) has %d entries, want %d", c, n, CriteriaPerCategory)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	for _, met := range []bool{true, false} {
		s, err := New(constTable(met))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		scores, err := s.ScoreAll(&domain.EvidenceBundle{})
		if err != nil {
			t.Fatalf("ScoreAll: %v", err)
		}
		want := 0
		if met {
			want = CriteriaPerCategory
		}
		for _, cs := range scores {
			if cs.RawScore != want {
				t.Errorf("met=%v %s RawScore = %d, want %d", met, cs.Category, cs.RawScore, want)
			}
			if len(cs.Criteria) != CriteriaPerCategory {
				t.Errorf("met=%v %s has %d criteria, want %d", met, cs.Category, len(cs.Criteria), CriteriaPerCategory)
			}
		}
	}
}

func TestEmptyEvidenceScoresZero(t *testing.T) {
	for _, b := range []*domain.EvidenceBundle{nil, {}} {
		scores, err := Default().ScoreAll(b)
		if err != nil {
			t.Fatalf("ScoreAll: %v", err)
		}
		if len(scores) != len(domain.Categories) {
			t.Fatalf("got %d categories, want %d", len(scores), len(domain.Categories))
		}
		for i, cs := range scores {
			if cs.Category != domain.Categories[i] {
				t.Errorf("scores[%d].Category = %s, want %s", i, cs.Category, domain.Categories[i])
			}
			if cs.RawScore != 0 || cs.Source != domain.SourceRubric {
				t.Errorf("%s = %d (%s), want 0 (rubric)", cs.Category, cs.RawScore, cs.Source)
			}
		}
	}
}

func TestRawScoreCountsMetCriteria(t *testing.T) {
	cs, err := Default().ScoreCategory(domain.CategoryWebsite, richBundle())
	if err != nil {
		t.Fatalf("ScoreCategory: %v", err)
	}
	met := 0
	for _, r := range cs.Criteria {
		if r.Met {
			met++
		}
	}
	if cs.RawScore != met {
		t.Errorf("RawScore = %d, want %d met criteria", cs.RawScore, met)
	}
}

func TestNarrative(t *testing.T) {
	verdicts := []bool{true, true, false, true, false, false, false, false, false, true}
	b := &domain.EvidenceBundle{Narratives: map[domain.Category]domain.Narrative{
		domain.CategorySocialMedia: {Verdicts: verdicts, Rationale: "active on facebook"},
		domain.CategoryWebsite:     {Verdicts: []bool{true, true, true}},
	}}

	cs, err := Default().ScoreCategory(domain.CategorySocialMedia, b)
	if err != nil {
		t.Fatalf("ScoreCategory: %v", err)
	}
	if cs.RawScore != 4 || cs.Source != domain.SourceNarrative {
		t.Errorf("social_media = %d (%s), want 4 (narrative)", cs.RawScore, cs.Source)
	}
	var got []bool
	for _, r := range cs.Criteria {
		got = append(got, r.Met)
	}
	if diff := cmp.Diff(verdicts, got); diff != "" {
		t.Errorf("verdicts mismatch (-want +got):\n%s", diff)
	}
	if cs.Criteria[0].ID != "SM01" {
		t.Errorf("first criterion = %s, want SM01", cs.Criteria[0].ID)
	}

	// Malformed narratives fall back to the rubric.
	cs, err = Default().ScoreCategory(domain.CategoryWebsite, b)
	if err != nil {
		t.Fatalf("ScoreCategory: %v", err)
	}
	if cs.RawScore != 0 || cs.Source != domain.SourceRubric {
		t.Errorf("website = %d (%s), want 0 (rubric)", cs.RawScore, cs.Source)
	}
}

func TestUnknownCategory(t *testing.T) {
	_, err := Default().ScoreCategory("podcasts", &domain.EvidenceBundle{})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestValidateDefects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Table)
	}{
		{"missing category", func(t Table) { delete(t, domain.CategoryDigitalSales) }},
		{"nine criteria", func(t Table) { t[domain.CategoryWebsite] = t[domain.CategoryWebsite][:9] }},
		{"eleven criteria", func(t Table) {
			t[domain.CategoryWebsite] = append(t[domain.CategoryWebsite], Criterion{ID: "x", Text: "x", Met: func(*domain.EvidenceBundle) bool { return true }})
		}},
		{"nil predicate", func(t Table) { t[domain.CategorySocialMedia][3].Met = nil }},
		{"duplicate id", func(t Table) { t[domain.CategoryWebsite][0].ID = t[domain.CategorySocialMedia][0].ID }},
		{"unknown category", func(t Table) { t["podcasts"] = t[domain.CategoryWebsite] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := constTable(true)
			tt.mutate(tbl)
			if _, err := New(tbl); !errors.Is(err, ErrRubricDefect) {
				t.Errorf("New() err = %v, want ErrRubricDefect", err)
			}
		})
	}
}

func TestScoringIsPure(t *testing.T) {
	b := richBundle()
	first, err := Default().ScoreAll(b)
	if err != nil {
		t.Fatalf("ScoreAll: %v", err)
	}
	second, err := Default().ScoreAll(b)
	if err != nil {
		t.Fatalf("ScoreAll: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func richBundle() *domain.EvidenceBundle {
	return &domain.EvidenceBundle{
		Entity: domain.EntityRecord{ID: "e1", Name: "Abuko Nature Reserve", Sector: "Tour operator", Contact: "+220 712 3456"},
		Links: []domain.DiscoveredLink{
			{URL: "https://abukoreserve.gm", Title: "Abuko Nature Reserve | Official site", SourceQuery: "abuko nature reserve"},
			{URL: "https://travelblog.example.com/gambia", Title: "Ten days in the Gambia", Snippet: "We visited Abuko and took photos of monkeys", SourceQuery: "abuko gambia"},
			{URL: "https://www.facebook.com/abukoreserve", Title: "Abuko Nature Reserve", Snippet: "2,400 followers", SourceQuery: "abuko facebook"},
		},
		Page: &domain.PageFeatures{
			URL:               "https://abukoreserve.gm",
			Title:             "Abuko Nature Reserve - Gambia's oldest reserve",
			MetaDescription:   "Guided walks, birdwatching and wildlife in Gambia's first nature reserve.",
			Headings:          []string{"Visit", "Gallery", "Prices", "Contact"},
			ImageCount:        18,
			HasContactForm:    true,
			HasViewportMeta:   true,
			HasStructuredData: false,
			Phones:            []string{"712 3456"},
			Text:              "Book now for guided walks. Entrance prices from 100 GMD. We accept Wave mobile money.",
			OutboundLinks: []string{
				"https://www.facebook.com/abukoreserve",
				"https://instagram.com/abukoreserve/",
				"https://www.tripadvisor.com/Attraction_Review-abuko",
				"https://wa.me/2207123456",
			},
		},
		Validations: []domain.ValidationResult{
			{URL: "https://abukoreserve.gm", Platform: domain.PlatformWebsite, IsOfficial: true, Confidence: 0.9},
			{URL: "https://www.facebook.com/abukoreserve", Platform: domain.PlatformFacebook, IsOfficial: true, Confidence: 0.8},
			{URL: "https://instagram.com/abukoreserve/", Platform: domain.PlatformInstagram, IsOfficial: true, Confidence: 0.8},
			{URL: "https://www.tripadvisor.com/Attraction_Review-abuko", Platform: domain.PlatformTripAdvisor, IsOfficial: true, Confidence: 0.7},
		},
		Survey: &domain.SurveyResponse{Answers: []domain.Answer{
			{Key: "How often do you post?", Value: "Weekly"},
			{Key: "content_creation", Value: "We take our own photos"},
			{Key: "payment_methods", Value: "Cash, Wave"},
		}},
	}
}

func TestDefaultCriteria(t *testing.T) {
	scores, err := Default().ScoreAll(richBundle())
	if err != nil {
		t.Fatalf("ScoreAll: %v", err)
	}
	met := make(map[string]bool)
	for _, cs := range scores {
		for _, r := range cs.Criteria {
			met[r.ID] = r.Met
		}
	}
	tests := []struct {
		id   string
		want bool
	}{
		{"SM01", true},  // facebook
		{"SM02", true},  // instagram
		{"SM03", false}, // no video or professional network
		{"SM04", false}, // two platforms only
		{"SM05", true},
		{"SM06", true}, // weekly
		{"SM07", false},
		{"SM08", true},
		{"SM09", true},
		{"WS01", true},
		{"WS02", true},
		{"WS03", true},
		{"WS07", false},
		{"VC02", true},
		{"VC05", true},
		{"VC06", true},
		{"VC07", false},
		{"DS01", true},
		{"DS03", true},
		{"DS06", true},
		{"DS08", true},
		{"DS09", true},
		{"SA01", true},
		{"SA02", false},
		{"SA04", true},
		{"SA05", true},
		{"SA07", true},
		{"PI01", true},
		{"PI02", true},
		{"PI06", true},
		{"PI09", true},
		{"PI10", false},
	}
	for _, tt := range tests {
		if met[tt.id] != tt.want {
			t.Errorf("%s met = %v, want %v", tt.id, met[tt.id], tt.want)
		}
	}
}

func metCriteria(t *testing.T, b *domain.EvidenceBundle) map[string]bool {
	t.Helper()
	scores, err := Default().ScoreAll(b)
	if err != nil {
		t.Fatalf("ScoreAll: %v", err)
	}
	met := make(map[string]bool)
	for _, cs := range scores {
		for _, r := range cs.Criteria {
			met[r.ID] = r.Met
		}
	}
	return met
}

func TestNegatedAnswersAreNotMet(t *testing.T) {
	tests := []struct {
		id, key, answer string
		want            bool
	}{
		{"PI05", "analytics_use", "Not regularly", false},
		{"PI05", "analytics_use", "Monthly, through Facebook insights", true},
		{"SM06", "posting_frequency", "Not weekly, maybe monthly", false},
		{"SM06", "posting_frequency", "Weekly", true},
		{"DS10", "review_management", "Not really monitored", false},
		{"SA08", "online_sales_share", "Not much, some bookings", false},
		{"SA08", "online_sales_share", "Some bookings", true},
		{"PI08", "digital_tools", "None", false},
		{"PI08", "digital_tools", "Don't use any", false},
	}
	for _, tt := range tests {
		b := &domain.EvidenceBundle{Survey: &domain.SurveyResponse{Answers: []domain.Answer{{Key: tt.key, Value: tt.answer}}}}
		if got := metCriteria(t, b)[tt.id]; got != tt.want {
			t.Errorf("%s with %s=%q met = %v, want %v", tt.id, tt.key, tt.answer, got, tt.want)
		}
	}
}

func TestOutboundLinksMatchByHost(t *testing.T) {
	tests := []struct {
		link string
		id   string
		want bool
	}{
		{"https://www.fedex.com/en-gm/", "SM05", false},
		{"https://dropbox.com/s/brochure.pdf", "SM05", false},
		{"https://notfacebook.com/abuko", "SM05", false},
		{"https://m.facebook.com/abukoreserve", "SM05", true},
		{"https://x.com/abukoreserve", "SM05", true},
		{"https://maps.google.gm/?q=abuko", "PI03", true},
		{"https://www.google.com/maps/place/Abuko", "PI03", true},
		{"https://www.google.com/search?q=abuko", "PI03", false},
		{"https://abuko.checkfront.com/reserve", "PI04", true},
		{"https://checkfrontier.example.com", "PI04", false},
		{"https://www.tripadvisor.co.uk/Attraction_Review-abuko", "PI06", true},
		{"https://mytripadvisor.example.com", "PI06", false},
	}
	for _, tt := range tests {
		b := &domain.EvidenceBundle{Page: &domain.PageFeatures{URL: "https://abukoreserve.gm", OutboundLinks: []string{tt.link}}}
		if got := metCriteria(t, b)[tt.id]; got != tt.want {
			t.Errorf("%s with link %s met = %v, want %v", tt.id, tt.link, got, tt.want)
		}
	}
}
