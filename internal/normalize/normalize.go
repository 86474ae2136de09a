// Package normalize canonicalizes free-text entity names into comparable forms.
// The matcher and the identity validator both go through this package so a name
// is compared the same way at every call site.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var parenthetical = regexp.MustCompile(`\([^()]*\)`)

// legalSuffixes are trailing tokens dropped by Canonical.
var legalSuffixes = map[string]bool{
	"ltd": true, "limited": true, "llc": true, "inc": true,
	"plc": true, "sarl": true, "gmbh": true, "co": true,
}

// Variants returns the deduplicated comparison forms of name, in order:
// the lowercase original, the lowercase form without parenthetical content,
// that form without words of three letters or fewer (only when at least two
// longer words remain), and the accent-folded parenthetical-free form.
func Variants(name string) []string {
	lower := collapse(strings.ToLower(name))
	if lower == "" {
		return nil
	}
	bare := collapse(parenthetical.ReplaceAllString(lower, " "))

	var long []string
	for _, w := range strings.Fields(bare) {
		if len([]rune(w)) > 3 {
			long = append(long, w)
		}
	}
	var short string
	if len(long) >= 2 {
		short = strings.Join(long, " ")
	}

	return dedupe(lower, bare, short, Fold(bare))
}

// Canonical is the single normalized form of name: lowercase, accent-folded,
// parenthetical content removed, punctuation turned into spaces, trailing legal
// suffixes dropped, whitespace collapsed. Canonical(Canonical(s)) == Canonical(s).
func Canonical(name string) string {
	s := strings.ToLower(name)
	s = parenthetical.ReplaceAllString(s, " ")
	s = Fold(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	words := strings.Fields(s)
	for len(words) > 1 && legalSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// Compact is Canonical without spaces, for comparison against domains and handles.
func Compact(name string) string {
	return strings.ReplaceAll(Canonical(name), " ", "")
}

// SignificantWords returns the canonical words of name longer than minLen runes.
func SignificantWords(name string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(Canonical(name)) {
		if len([]rune(w)) > minLen {
			out = append(out, w)
		}
	}
	return out
}

// Fold strips diacritics ("Café" -> "Cafe").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(values ...string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
