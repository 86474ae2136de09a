package identity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"maturity/internal/domain"
)

func TestValidateWebsiteWithoutContent(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		entity       string
		wantOfficial bool
		wantMin      float64
		wantMax      float64
	}{
		{
			name:         "full name in domain, clean path",
			url:          "https://www.abukonaturereserve.gm/about",
			entity:       "Abuko Nature Reserve",
			wantOfficial: true,
			wantMin:      0.83,
			wantMax:      1.0,
		},
		{
			name:         "hyphenated domain with parenthetical name",
			url:          "abuko-nature-reserve.com",
			entity:       "Abuko Nature Reserve (ANR)",
			wantOfficial: true,
			wantMin:      0.83,
			wantMax:      1.0,
		},
		{
			name:         "partial name, clean path",
			url:          "https://abukotours.com/",
			entity:       "Abuko Nature Reserve",
			wantOfficial: true,
			wantMin:      0.60,
			wantMax:      0.80,
		},
		{
			name:         "blog article on unrelated domain",
			url:          "https://travelmag.com/blog/2023/05/visiting-abuko",
			entity:       "Abuko Nature Reserve",
			wantOfficial: false,
			wantMin:      0.28,
			wantMax:      0.29,
		},
		{
			name:         "listing on tripadvisor as website",
			url:          "https://www.tripadvisor.com/Attraction_Review-g293794-d317789-Reviews-Abuko_Nature_Reserve.html",
			entity:       "Abuko Nature Reserve",
			wantOfficial: false,
			wantMin:      0,
			wantMax:      0.3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.url, tt.entity, domain.PlatformWebsite, nil)
			if got.IsOfficial != tt.wantOfficial {
				t.Errorf("IsOfficial = %v, want %v (signals %v)", got.IsOfficial, tt.wantOfficial, got.Signals)
			}
			if got.Confidence < tt.wantMin || got.Confidence > tt.wantMax {
				t.Errorf("Confidence = %v, want in [%v, %v] (signals %v)", got.Confidence, tt.wantMin, tt.wantMax, got.Signals)
			}
			if got.MaxScore != 7 {
				t.Errorf("MaxScore = %v, want 7 without page content", got.MaxScore)
			}
		})
	}
}

func TestValidateWebsiteWithContent(t *testing.T) {
	page := &domain.PageFeatures{
		Title:    "Kachikally Crocodile Pool | Bakau",
		Headings: []string{"Home", "About", "Gallery", "Contact"},
		Text:     "Welcome to Kachikally. About us: we are a family run sacred site. Contact us to visit.",
	}
	got := Validate("https://kachikally.gm", "Kachikally Crocodile Pool", domain.PlatformWebsite, page)
	if got.MaxScore != 10 {
		t.Fatalf("MaxScore = %v, want 10 with content", got.MaxScore)
	}
	if got.Score != 8.5 {
		t.Errorf("Score = %v, want 8.5 (signals %v)", got.Score, got.Signals)
	}
	if !got.IsOfficial {
		t.Errorf("expected official, signals %v", got.Signals)
	}

	article := &domain.PageFeatures{
		Title:    "Top 10 things to do in Bakau (2024 guide)",
		Headings: []string{"Kachikally", "Comments"},
		Text:     "Posted by our reporter. According to locals the pool is sacred. Read more. Share this.",
	}
	got = Validate("https://gambiaguide.net/kachikally-crocodile-pool-bakau-guide-review", "Kachikally Crocodile Pool", domain.PlatformWebsite, article)
	if got.IsOfficial {
		t.Errorf("article page classified official: %v", got.Signals)
	}
}

func TestValidateMalformedURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "http://", "ftp://files.example.com", "localhost"} {
		got := Validate(raw, "Abuko", domain.PlatformWebsite, nil)
		want := domain.ValidationResult{URL: raw, Platform: domain.PlatformWebsite, Signals: []string{"malformed URL"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Validate(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestValidateSocial(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		entity       string
		platform     domain.Platform
		wantOfficial bool
		wantConf     float64
	}{
		{"facebook post vetoed", "https://facebook.com/SomePage/posts/12345", "Some Page", domain.PlatformFacebook, false, 0},
		{"facebook post vetoed even on name match", "https://www.facebook.com/abukoreserve/posts/99", "Abuko Reserve", domain.PlatformFacebook, false, 0},
		{"facebook photo vetoed", "https://facebook.com/photo.php?fbid=1", "Abuko", domain.PlatformFacebook, false, 0},
		{"facebook page with name", "https://www.facebook.com/AbukoNatureReserve", "Abuko Nature Reserve", domain.PlatformFacebook, true, 1},
		{"facebook page without name", "https://facebook.com/gambiawild", "Abuko Nature Reserve", domain.PlatformFacebook, true, 0.6},
		{"facebook numeric id", "https://facebook.com/profile.php?id=1000123", "Abuko Nature Reserve", domain.PlatformFacebook, true, 0.6},
		{"instagram reel vetoed", "https://instagram.com/reel/Cx1", "Abuko", domain.PlatformInstagram, false, 0},
		{"instagram profile", "https://instagram.com/abuko_reserve/", "Abuko Nature Reserve", domain.PlatformInstagram, true, 1},
		{"youtube watch vetoed", "https://www.youtube.com/watch?v=abc", "Abuko", domain.PlatformYouTube, false, 0},
		{"youtube handle", "https://youtube.com/@abukoreserve", "Abuko Reserve", domain.PlatformYouTube, true, 1},
		{"youtu.be short link", "https://youtu.be/abc", "Abuko", domain.PlatformYouTube, false, 0},
		{"linkedin company", "https://www.linkedin.com/company/senegambia-crafts", "Senegambia Crafts", domain.PlatformLinkedIn, true, 1},
		{"linkedin pulse vetoed", "https://www.linkedin.com/pulse/senegambia-crafts-story", "Senegambia Crafts", domain.PlatformLinkedIn, false, 0},
		{"wrong host", "https://example.com/abuko", "Abuko", domain.PlatformFacebook, false, 0},
		{"twitter status vetoed", "https://x.com/abuko/status/1", "Abuko", domain.PlatformTwitter, false, 0},
		{"tiktok handle", "https://www.tiktok.com/@kairoclub", "Kairo Club", domain.PlatformTikTok, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.url, tt.entity, tt.platform, nil)
			if got.IsOfficial != tt.wantOfficial {
				t.Errorf("IsOfficial = %v, want %v (signals %v)", got.IsOfficial, tt.wantOfficial, got.Signals)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v (signals %v)", got.Confidence, tt.wantConf, got.Signals)
			}
		})
	}
}

func TestValidateListing(t *testing.T) {
	got := Validate("https://www.tripadvisor.com/Attraction_Review-g1-d2", "Abuko", "", nil)
	if got.Platform != domain.PlatformTripAdvisor || !got.IsOfficial || got.Confidence != ListingConfidence {
		t.Errorf("unexpected listing result %+v", got)
	}
}

func TestValidateIsPure(t *testing.T) {
	page := &domain.PageFeatures{Title: "Home", Headings: []string{"About", "Contact"}}
	a := Validate("https://abuko.gm", "Abuko", domain.PlatformWebsite, page)
	b := Validate("https://abuko.gm", "Abuko", domain.PlatformWebsite, page)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Validate not deterministic:\n%s", diff)
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want domain.Platform
	}{
		{"https://m.facebook.com/abuko", domain.PlatformFacebook},
		{"instagram.com/abuko", domain.PlatformInstagram},
		{"https://x.com/abuko", domain.PlatformTwitter},
		{"https://www.tripadvisor.co.uk/Hotel_Review", domain.PlatformTripAdvisor},
		{"https://www.google.com/maps/place/Abuko", domain.PlatformGoogleMaps},
		{"https://www.booking.com/hotel/gm/x.html", domain.PlatformBooking},
		{"https://abuko.gm", domain.PlatformWebsite},
		{"::::", domain.PlatformWebsite},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := DetectPlatform(tt.url); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsThirdPartyDomain(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"www.tripadvisor.com", true},
		{"tripadvisor.fr", true},
		{"en.wikipedia.org", true},
		{"abuko.gm", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsThirdPartyDomain(tt.host); got != tt.want {
			t.Errorf("IsThirdPartyDomain(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
