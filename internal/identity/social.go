package identity

import (
	"fmt"
	"regexp"
	"strings"

	"maturity/internal/domain"
	"maturity/internal/normalize"
)

// socialRule declares how profile URLs look on one platform.
type socialRule struct {
	// veto path fragments mark posts, media and other non-profile pages.
	veto []string
	// canonical shapes earn the full shape budget, partial shapes earn half.
	canonical []*regexp.Regexp
	partial   []*regexp.Regexp
	reserved  map[string]bool
	shape     float64
	name      float64
	// queryID marks shapes that only identify a page through ?id=.
	queryID *regexp.Regexp
}

var socialRules = map[domain.Platform]socialRule{
	domain.PlatformFacebook: {
		veto: []string{
			"/posts/", "/photo.php", "/photos/", "/photo/", "/videos/", "/events/",
			"/permalink.php", "/story.php", "/watch/", "/reel/", "/groups/", "/sharer.php", "/sharer/",
			"/share/", "/hashtag/", "/media/", "/notes/",
		},
		canonical: []*regexp.Regexp{
			regexp.MustCompile(`^/pages/[^/]+/\d+/?$`),
			regexp.MustCompile(`^/people/[^/]+/\d+/?$`),
			regexp.MustCompile(`^/pg/[^/]+/?$`),
			regexp.MustCompile(`^/[a-z0-9.\-]{3,}/?$`),
		},
		partial: []*regexp.Regexp{
			regexp.MustCompile(`^/[a-z0-9.\-]{3,}/(about|reviews|services|menu|community)/?$`),
		},
		queryID:  regexp.MustCompile(`^/profile\.php$`),
		reserved: map[string]bool{"login": true, "home.php": true, "profile.php": true, "search": true, "marketplace": true, "gaming": true},
		shape:    3,
		name:     2,
	},
	domain.PlatformInstagram: {
		veto:      []string{"/p/", "/reel/", "/reels/", "/tv/", "/stories/", "/explore/", "/accounts/"},
		canonical: []*regexp.Regexp{regexp.MustCompile(`^/[a-z0-9._]{1,30}/?$`)},
		reserved:  map[string]bool{"about": true, "developer": true, "legal": true},
		shape:     2,
		name:      2,
	},
	domain.PlatformYouTube: {
		veto: []string{"/watch/", "/shorts/", "/embed/", "/playlist/", "/results/", "/live/", "/clip/"},
		canonical: []*regexp.Regexp{
			regexp.MustCompile(`^/@[^/]+/?$`),
			regexp.MustCompile(`^/channel/[^/]+/?$`),
			regexp.MustCompile(`^/c/[^/]+/?$`),
			regexp.MustCompile(`^/user/[^/]+/?$`),
		},
		partial: []*regexp.Regexp{
			regexp.MustCompile(`^/(@[^/]+|channel/[^/]+|c/[^/]+|user/[^/]+)/(videos|featured|about|playlists|community|streams)/?$`),
		},
		shape: 2,
		name:  2,
	},
	domain.PlatformLinkedIn: {
		veto: []string{"/posts/", "/pulse/", "/feed/", "/jobs/view/", "/events/", "/learning/"},
		canonical: []*regexp.Regexp{
			regexp.MustCompile(`^/company/[^/]+/?$`),
			regexp.MustCompile(`^/school/[^/]+/?$`),
			regexp.MustCompile(`^/showcase/[^/]+/?$`),
		},
		partial: []*regexp.Regexp{
			regexp.MustCompile(`^/in/[^/]+/?$`),
			regexp.MustCompile(`^/company/[^/]+/(about|posts|people|jobs)/?$`),
		},
		shape: 2,
		name:  1,
	},
	domain.PlatformTikTok: {
		veto:      []string{"/video/", "/tag/", "/music/", "/discover/", "/photo/"},
		canonical: []*regexp.Regexp{regexp.MustCompile(`^/@[^/]+/?$`)},
		shape:     2,
		name:      2,
	},
	domain.PlatformTwitter: {
		veto:      []string{"/status/", "/search/", "/hashtag/", "/i/", "/intent/", "/share/"},
		canonical: []*regexp.Regexp{regexp.MustCompile(`^/[a-z0-9_]{1,15}/?$`)},
		reserved:  map[string]bool{"home": true, "explore": true, "notifications": true, "messages": true, "login": true},
		shape:     2,
		name:      2,
	},
}

// nameFragmentLen is the minimum length (exclusive) of a name word that counts
// as evidence when found in a profile path.
const nameFragmentLen = 4

func validateSocial(rawURL, host, path, query, name string, p domain.Platform) domain.ValidationResult {
	rule := socialRules[p]
	budget := rule.shape + rule.name
	reject := func(reason string) domain.ValidationResult {
		return domain.ValidationResult{
			URL:      rawURL,
			Platform: p,
			MaxScore: budget,
			Signals:  []string{reason},
		}
	}

	if !onPlatformHost(p, host) {
		return reject(fmt.Sprintf("host %s is not a %s domain", host, p))
	}
	if p == domain.PlatformYouTube && strings.HasSuffix(strings.ToLower(host), "youtu.be") {
		return reject("youtu.be short links point at single videos")
	}
	lower := strings.ToLower(path)
	probe := lower
	if !strings.HasSuffix(probe, "/") {
		probe += "/"
	}
	for _, v := range rule.veto {
		if strings.Contains(probe, v) {
			return reject(fmt.Sprintf("path %q is a %s post/media page, not a profile", path, p))
		}
	}

	var t tally
	switch {
	case rule.queryID != nil && rule.queryID.MatchString(lower) && strings.Contains(query, "id="):
		t.add(rule.shape, rule.shape, "numeric profile id page")
	case matchesAny(rule.canonical, lower) && !rule.reserved[firstSegment(lower)]:
		t.add(rule.shape, rule.shape, "canonical %s profile path", p)
	case matchesAny(rule.partial, lower):
		t.add(rule.shape/2, rule.shape, "%s profile sub-page or personal profile", p)
	default:
		t.add(0, rule.shape, "path %q is not a recognised %s profile shape", path, p)
	}

	if frag, ok := nameInPath(lower, name); ok {
		t.add(rule.name, rule.name, "name fragment %q in path", frag)
	} else {
		t.add(0, rule.name, "no name fragment in path")
	}

	return t.result(rawURL, p, SocialThreshold)
}

func nameInPath(path, name string) (string, bool) {
	compactPath := alnum(path)
	if compactPath == "" {
		return "", false
	}
	if c := normalize.Compact(name); len(c) > nameFragmentLen && strings.Contains(compactPath, c) {
		return c, true
	}
	for _, w := range normalize.SignificantWords(name, nameFragmentLen) {
		if strings.Contains(compactPath, w) {
			return w, true
		}
	}
	return "", false
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func firstSegment(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
