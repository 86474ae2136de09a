// Package identity decides whether a discovered URL is an entity's official
// website or social profile, or merely a page about it.
package identity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"maturity/internal/domain"
	"maturity/internal/normalize"
)

// Thresholds and fixed confidences.
const (
	WebsiteThreshold  = 0.60
	SocialThreshold   = 0.50
	ListingConfidence = 0.70
)

// Website point budgets.
const (
	domainNamePoints  = 3.0
	pathShapePoints   = 2.0
	blacklistPoints   = 2.0
	partialNamePoints = 1.5
	overlongPoints    = 1.0
	languagePoints    = 1.5
	languageTiePoints = 0.5
	titlePoints       = 0.75
	navigationPoints  = 0.75
)

var errMalformed = errors.New("malformed url")

// Validate scores one URL against a candidate entity name. An empty platform is
// detected from the URL. page may be nil when no content was scraped.
func Validate(rawURL, entityName string, platform domain.Platform, page *domain.PageFeatures) domain.ValidationResult {
	if platform == "" {
		platform = DetectPlatform(rawURL)
	}
	u, err := parse(rawURL)
	if err != nil {
		return domain.ValidationResult{
			URL:      rawURL,
			Platform: platform,
			Signals:  []string{"malformed URL"},
		}
	}

	switch {
	case platform.IsListing():
		return domain.ValidationResult{
			URL:        rawURL,
			Platform:   platform,
			IsOfficial: true,
			Confidence: ListingConfidence,
			Signals:    []string{fmt.Sprintf("listing platform %s: presence accepted at fixed confidence", platform)},
		}
	case platform.IsSocial():
		return validateSocial(rawURL, u.Hostname(), u.Path, u.RawQuery, entityName, platform)
	default:
		return validateWebsite(rawURL, u.Hostname(), u.Path, entityName, page)
	}
}

type tally struct {
	score, max float64
	signals    []string
}

func (t *tally) add(points, budget float64, format string, args ...any) {
	t.score += points
	t.max += budget
	t.signals = append(t.signals, fmt.Sprintf("%s (%s/%s)", fmt.Sprintf(format, args...), pts(points), pts(budget)))
}

func (t *tally) result(rawURL string, p domain.Platform, threshold float64) domain.ValidationResult {
	var conf float64
	if t.max > 0 {
		conf = t.score / t.max
	}
	return domain.ValidationResult{
		URL:        rawURL,
		Platform:   p,
		IsOfficial: conf >= threshold,
		Confidence: math.Round(conf*10000) / 10000,
		Score:      t.score,
		MaxScore:   t.max,
		Signals:    t.signals,
	}
}

func pts(f float64) string { return fmt.Sprintf("%g", f) }

func validateWebsite(rawURL, host, path, name string, page *domain.PageFeatures) domain.ValidationResult {
	var t tally
	label := compactLabel(host)
	registrable := Registrable(host)

	// (a) entity name in domain
	full, words, total := nameInLabel(label, name)
	switch {
	case full:
		t.add(domainNamePoints, domainNamePoints, "domain contains full entity name")
	case words > 0:
		t.add(partialNamePoints, domainNamePoints, "domain contains %d of %d name words", words, total)
	default:
		t.add(0, domainNamePoints, "entity name not found in domain")
	}

	// (b) path shape
	points, why := pathShape(path)
	t.add(points, pathShapePoints, "%s", why)

	// (c) page content, only when scraped
	if page != nil {
		scoreContent(&t, page)
	}

	// (d) third-party blacklist
	if IsThirdPartyDomain(host) {
		if full {
			t.add(blacklistPoints, blacklistPoints, "third-party domain %s carries the entity name", registrable)
		} else {
			t.add(0, blacklistPoints, "third-party domain %s", registrable)
		}
	} else {
		t.add(blacklistPoints, blacklistPoints, "domain %s is not a known third-party site", registrable)
	}

	return t.result(rawURL, domain.PlatformWebsite, WebsiteThreshold)
}

func compactLabel(host string) string {
	return alnum(siteLabel(host))
}

// nameInLabel checks every name variant compacted against the domain label, then
// falls back to counting significant words.
func nameInLabel(label, name string) (full bool, words, total int) {
	if label == "" {
		return false, 0, 0
	}
	for _, v := range normalize.Variants(name) {
		c := normalize.Compact(v)
		if len(c) >= 3 && strings.Contains(label, c) {
			return true, 0, 0
		}
	}
	sig := normalize.SignificantWords(name, 3)
	for _, w := range sig {
		if strings.Contains(label, w) {
			words++
		}
	}
	return false, words, len(sig)
}

var (
	articleWords = map[string]bool{
		"blog": true, "blogs": true, "news": true, "article": true, "articles": true,
		"post": true, "posts": true, "story": true, "stories": true, "press": true,
		"review": true, "reviews": true, "tag": true, "tags": true, "category": true,
		"author": true, "magazine": true, "listing": true, "listings": true,
	}
	yearSegment = regexp.MustCompile(`^(19|20)\d{2}$`)
	datePattern = regexp.MustCompile(`(19|20)\d{2}[-/_](0[1-9]|1[0-2])([-/_]\d{2})?`)
	tokenSplit  = regexp.MustCompile(`[-_.+]+`)
)

const (
	maxCleanSegments = 2
	overlongSegment  = 30
	overlongHyphens  = 4
)

func pathShape(path string) (float64, string) {
	var segs []string
	for _, s := range strings.Split(strings.ToLower(path), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if datePattern.MatchString(strings.ToLower(path)) {
		return 0, "path contains a date"
	}
	for _, s := range segs {
		if yearSegment.MatchString(s) {
			return 0, "path contains a date"
		}
		for _, tok := range tokenSplit.Split(s, -1) {
			if articleWords[tok] {
				return 0, fmt.Sprintf("path looks like an article (%q)", tok)
			}
		}
	}
	overlong := false
	for _, s := range segs {
		if len(s) > overlongSegment || strings.Count(s, "-") >= overlongHyphens {
			overlong = true
		}
	}
	switch {
	case len(segs) == 0:
		return pathShapePoints, "root path"
	case len(segs) <= maxCleanSegments && !overlong:
		return pathShapePoints, fmt.Sprintf("clean %d-segment path", len(segs))
	case len(segs) == 1 && overlong:
		return overlongPoints, "single overlong path segment"
	default:
		return 0, fmt.Sprintf("deep or slug-like path (%d segments)", len(segs))
	}
}

var (
	firstPerson = []string{
		"about us", "contact us", "our team", "our story", "our mission", "we offer",
		"we are", "our services", "book with us", "welcome to", "visit us", "our tours",
		"our rooms", "our products", "join us", "meet the team",
	}
	thirdPerson = []string{
		"posted by", "written by", "according to", "reported", "reviewed by",
		"read more", "share this", "published on", "comments", "editor", "reporter",
		"related articles",
	}
	articleTitle = regexp.MustCompile(`(?i)\b(news|blog|review|reviews|article|things to do|guide to|how to|top \d+|\d+ best)\b|\bbest .+ in\b|(19|20)\d{2}`)
	navWords     = []string{
		"home", "about", "contact", "services", "tours", "gallery", "booking", "book now",
		"rooms", "menu", "events", "shop", "products", "team", "faq", "prices", "rates",
		"activities", "accommodation", "portfolio",
	}
)

const minNavHeadings = 2

func scoreContent(t *tally, page *domain.PageFeatures) {
	body := strings.ToLower(strings.Join(append([]string{page.Title, page.MetaDescription, page.Text}, page.Headings...), " "))
	fp := countPhrases(body, firstPerson)
	tp := countPhrases(body, thirdPerson)
	switch {
	case fp > tp:
		t.add(languagePoints, languagePoints, "first-person phrasing outweighs third-person (%d vs %d)", fp, tp)
	case fp == tp && fp > 0:
		t.add(languageTiePoints, languagePoints, "first- and third-person phrasing balanced (%d each)", fp)
	default:
		t.add(0, languagePoints, "third-person or no self-description (%d vs %d)", fp, tp)
	}

	title := strings.TrimSpace(page.Title)
	switch {
	case title == "":
		t.add(0, titlePoints, "page has no title")
	case articleTitle.MatchString(title):
		t.add(0, titlePoints, "article-style title %q", title)
	default:
		t.add(titlePoints, titlePoints, "non-article title")
	}

	nav := 0
	for _, h := range page.Headings {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, w := range navWords {
			if h == w || strings.HasPrefix(h, w+" ") || strings.HasSuffix(h, " "+w) {
				nav++
				break
			}
		}
	}
	if nav >= minNavHeadings {
		t.add(navigationPoints, navigationPoints, "%d navigation-like headings", nav)
	} else {
		t.add(0, navigationPoints, "%d navigation-like headings", nav)
	}
}

func countPhrases(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		n += strings.Count(text, p)
	}
	return n
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range normalize.Fold(strings.ToLower(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
