package rubric

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"maturity/internal/domain"
	"maturity/internal/normalize"
	"maturity/internal/survey"
)

// Evidence accessors. Every helper answers false/empty when its evidence is
// missing.

func pageText(b *domain.EvidenceBundle) string {
	if b.Page == nil {
		return ""
	}
	p := b.Page
	parts := append([]string{p.Title, p.MetaDescription, p.Text}, p.Headings...)
	return strings.ToLower(strings.Join(parts, " "))
}

func pageMatches(re *regexp.Regexp) Predicate {
	return func(b *domain.EvidenceBundle) bool {
		t := pageText(b)
		return t != "" && re.MatchString(t)
	}
}

func page(f func(p *domain.PageFeatures) bool) Predicate {
	return func(b *domain.EvidenceBundle) bool {
		return b.Page != nil && f(b.Page)
	}
}

func official(platforms ...domain.Platform) Predicate {
	return func(b *domain.EvidenceBundle) bool {
		for _, p := range platforms {
			if _, ok := b.Official(p); ok {
				return true
			}
		}
		return false
	}
}

var negative = regexp.MustCompile(`(?i)^\s*(no|none|never|nothing|not|n/?a|nil|don'?t|do not)\b`)

// answered is true when the survey field is present, not a negative answer and
// matches re.
func answered(f survey.Field, re *regexp.Regexp) Predicate {
	return func(b *domain.EvidenceBundle) bool {
		v, ok := survey.Lookup(b.Survey, f)
		return ok && !negative.MatchString(v) && re.MatchString(v)
	}
}

type outbound struct {
	host, path string
}

func outboundLinks(b *domain.EvidenceBundle) []outbound {
	if b.Page == nil {
		return nil
	}
	var out []outbound
	for _, l := range b.Page.OutboundLinks {
		s := l
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, outbound{
			host: strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."),
			path: strings.ToLower(u.Path),
		})
	}
	return out
}

// hostMatches compares host against a target written as a domain
// ("facebook.com", matching subdomains too), a label prefix ending in a dot
// ("tripadvisor.", any public suffix) or a bare brand label ("fareharbor").
func hostMatches(host, target string) bool {
	switch {
	case strings.HasSuffix(target, "."):
		return strings.HasPrefix(host, target) || strings.Contains(host, "."+target)
	case !strings.Contains(target, "."):
		for _, label := range strings.Split(host, ".") {
			if label == target {
				return true
			}
		}
		return false
	default:
		return host == target || strings.HasSuffix(host, "."+target)
	}
}

// linksTo is true when an outbound link points at one of targets. A target may
// carry a path prefix ("google.com/maps").
func linksTo(targets ...string) Predicate {
	return func(b *domain.EvidenceBundle) bool {
		for _, l := range outboundLinks(b) {
			for _, t := range targets {
				host, path, hasPath := strings.Cut(t, "/")
				if !hostMatches(l.host, host) {
					continue
				}
				if !hasPath || strings.HasPrefix(l.path, "/"+path) {
					return true
				}
			}
		}
		return false
	}
}

var socialHosts = map[string]string{
	"facebook.com": "facebook", "fb.com": "facebook", "instagram.com": "instagram",
	"youtube.com": "youtube", "tiktok.com": "tiktok", "linkedin.com": "linkedin",
	"twitter.com": "twitter", "x.com": "twitter",
}

func linkedSocialPlatforms(b *domain.EvidenceBundle) int {
	seen := make(map[string]bool)
	for _, l := range outboundLinks(b) {
		for known, name := range socialHosts {
			if hostMatches(l.host, known) {
				seen[name] = true
			}
		}
	}
	return len(seen)
}

func anyOf(ps ...Predicate) Predicate {
	return func(b *domain.EvidenceBundle) bool {
		for _, p := range ps {
			if p(b) {
				return true
			}
		}
		return false
	}
}

// nameMentions counts discovered links whose title or snippet mentions a
// significant word of the entity name.
func nameMentions(b *domain.EvidenceBundle, keep func(domain.DiscoveredLink) bool) []domain.DiscoveredLink {
	words := normalize.SignificantWords(b.Entity.Name, 3)
	if len(words) == 0 {
		return nil
	}
	var out []domain.DiscoveredLink
	for _, l := range b.Links {
		text := normalize.Canonical(l.Title + " " + l.Snippet)
		for _, w := range words {
			if strings.Contains(text, w) {
				if keep == nil || keep(l) {
					out = append(out, l)
				}
				break
			}
		}
	}
	return out
}

func isOfficialURL(b *domain.EvidenceBundle, raw string) bool {
	for _, v := range b.Validations {
		if v.URL == raw && v.IsOfficial && !v.Platform.IsListing() {
			return true
		}
	}
	return false
}

var percent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?`)

// percentAnswer parses the first number of a free-text percentage answer.
func percentAnswer(v string) (float64, bool) {
	m := percent.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// handle is the profile identifier of a social URL ("abuko" for
// instagram.com/abuko/ or youtube.com/@abuko).
func handle(raw string) string {
	s := raw
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	h := segs[len(segs)-1]
	if len(segs) > 1 && (segs[0] == "company" || segs[0] == "channel" || segs[0] == "c" || segs[0] == "user") {
		h = segs[1]
	}
	return strings.ToLower(strings.TrimPrefix(h, "@"))
}

func lastSeven(s string) string {
	d := normalize.Digits(s)
	if len(d) < 7 {
		return ""
	}
	return d[len(d)-7:]
}
