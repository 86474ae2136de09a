package engine

import (
	"errors"
	"testing"

	"maturity/internal/domain"
	"maturity/internal/scoring"
)

func abuko() Input {
	return Input{
		Entity: domain.EntityRecord{
			ID:     "e1",
			Name:   "Abuko Nature Reserve",
			Sector: "Tour operator",
			Links:  map[domain.Platform]string{domain.PlatformWebsite: "https://www.abukonaturereserve.gm"},
		},
		Links: []domain.DiscoveredLink{
			{URL: "https://www.abukonaturereserve.gm", Title: "Abuko Nature Reserve"},
			{URL: "https://www.facebook.com/SomePage/posts/12345", Title: "Abuko trip"},
			{URL: "not a url"},
		},
	}
}

func TestEvaluate(t *testing.T) {
	r, err := New().Evaluate(abuko())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(r.Validations) != 3 {
		t.Fatalf("got %d validations, want 3 (duplicate URL validated once)", len(r.Validations))
	}
	site := r.Validations[0]
	if site.Platform != domain.PlatformWebsite || !site.IsOfficial || site.Confidence < 0.83 {
		t.Errorf("website = %+v, want official with confidence >= 0.83", site)
	}
	if post := r.Validations[1]; post.Platform != domain.PlatformFacebook || post.IsOfficial {
		t.Errorf("facebook post = %+v, want not official", post)
	}
	if bad := r.Validations[2]; bad.IsOfficial || bad.Confidence != 0 {
		t.Errorf("malformed = %+v, want confidence 0", bad)
	}
	if got := r.OfficialLinks()[domain.PlatformWebsite]; got != "https://www.abukonaturereserve.gm" {
		t.Errorf("official website = %q", got)
	}

	if len(r.Categories) != len(domain.Categories) {
		t.Fatalf("got %d categories, want %d", len(r.Categories), len(domain.Categories))
	}
	for _, c := range r.Categories {
		if len(c.Criteria) != 10 {
			t.Errorf("%s has %d criteria, want 10", c.Category, len(c.Criteria))
		}
	}
	a := r.Assessment
	if a.SectorType != domain.SectorTourOperator || a.ExternalMax != 65 {
		t.Errorf("assessment = %s max %g, want tour_operator max 65", a.SectorType, a.ExternalMax)
	}
	if r.Capacity != nil || a.SurveyTotal != nil {
		t.Errorf("capacity scored without a survey")
	}
	if a.CombinedTotal != a.ExternalPercent {
		t.Errorf("combined %g != external %g without survey", a.CombinedTotal, a.ExternalPercent)
	}
}

func TestEvaluateWithSurvey(t *testing.T) {
	in := abuko()
	in.Survey = &domain.SurveyResponse{Answers: []domain.Answer{
		{Key: "posting_frequency", Value: "weekly"},
		{Key: "content_creation", Value: "none"},
	}}
	r, err := New().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if r.Capacity == nil {
		t.Fatal("capacity missing")
	}
	// posting 2 + content floor 1.5
	if r.Capacity.Total != 3.5 {
		t.Errorf("capacity total = %g, want 3.5", r.Capacity.Total)
	}
	a := r.Assessment
	if a.SurveyPercent == nil || *a.SurveyPercent != 11.67 {
		t.Errorf("survey percent = %v, want 11.67", a.SurveyPercent)
	}
	if a.Formula == "combined = external% (no survey)" {
		t.Errorf("survey branch not taken")
	}
}

func TestEvaluateSectorOverride(t *testing.T) {
	in := abuko()
	in.SectorType = domain.SectorCreative
	r, err := New().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if r.Assessment.ExternalMax != 60 {
		t.Errorf("ExternalMax = %g, want 60", r.Assessment.ExternalMax)
	}

	in.SectorType = "museum"
	if _, err := New().Evaluate(in); !errors.Is(err, scoring.ErrUnknownSectorType) {
		t.Errorf("err = %v, want ErrUnknownSectorType", err)
	}
}

func TestValidateLinksUsesPageOnlyForItsSite(t *testing.T) {
	entity := domain.EntityRecord{Name: "Abuko Nature Reserve"}
	links := []domain.DiscoveredLink{
		{URL: "https://www.abukonaturereserve.gm/about"},
		{URL: "https://kololi-lodge.gm/"},
	}
	page := &domain.PageFeatures{URL: "https://abukonaturereserve.gm/", Title: "Abuko Nature Reserve"}

	got := ValidateLinks(entity, links, page)
	if len(got) != 2 {
		t.Fatalf("got %d validations, want 2", len(got))
	}
	if got[0].MaxScore != 10 {
		t.Errorf("own site MaxScore = %g, want 10 (content scored)", got[0].MaxScore)
	}
	if got[1].MaxScore != 7 {
		t.Errorf("other site MaxScore = %g, want 7 (content ignored)", got[1].MaxScore)
	}
}
