package identity

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"maturity/internal/domain"
)

// thirdPartyDomains are registrable domains that host pages *about* businesses
// (directories, review sites, travel media) rather than their own sites.
var thirdPartyDomains = map[string]bool{
	"tripadvisor.com": true, "tripadvisor.co.uk": true, "booking.com": true,
	"expedia.com": true, "airbnb.com": true, "getyourguide.com": true,
	"viator.com": true, "hotels.com": true, "agoda.com": true, "trivago.com": true,
	"lonelyplanet.com": true, "wikipedia.org": true, "wikitravel.org": true,
	"yelp.com": true, "foursquare.com": true, "yellowpages.com": true,
	"accessgambia.com": true, "visitthegambia.gm": true, "tourismgambia.gm": true,
	"facebook.com": true, "instagram.com": true, "youtube.com": true,
	"linkedin.com": true, "tiktok.com": true, "twitter.com": true, "x.com": true,
	"pinterest.com": true, "flickr.com": true, "medium.com": true,
	"blogspot.com": true, "wordpress.com": true, "wixsite.com": true,
	"google.com": true, "goo.gl": true, "bing.com": true,
}

// thirdPartyFragments catch regional variants (tripadvisor.fr, booking.de, ...).
var thirdPartyFragments = []string{"tripadvisor.", "booking.", "expedia.", "airbnb.", "lonelyplanet."}

// IsThirdPartyDomain reports whether host belongs to a known third-party site.
func IsThirdPartyDomain(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if host == "" {
		return false
	}
	if thirdPartyDomains[host] || thirdPartyDomains[Registrable(host)] {
		return true
	}
	for _, f := range thirdPartyFragments {
		if strings.HasPrefix(host, f) || strings.Contains(host, "."+f) {
			return true
		}
	}
	return false
}

// Registrable returns the eTLD+1 of host, or host itself when it has none.
func Registrable(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	reg, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return reg
}

// RegistrableOf is Registrable applied to the host of rawURL, or "" when the URL
// does not parse.
func RegistrableOf(rawURL string) string {
	u, err := parse(rawURL)
	if err != nil {
		return ""
	}
	return Registrable(u.Hostname())
}

// siteLabel returns the host without its public suffix ("abuko-reserve" for
// "www.abuko-reserve.gm").
func siteLabel(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	suffix, _ := publicsuffix.PublicSuffix(host)
	if suffix == "" || suffix == host {
		return host
	}
	return strings.TrimSuffix(host, "."+suffix)
}

var platformHosts = map[domain.Platform][]string{
	domain.PlatformFacebook:  {"facebook.com", "fb.com", "fb.me"},
	domain.PlatformInstagram: {"instagram.com", "instagr.am"},
	domain.PlatformYouTube:   {"youtube.com", "youtu.be"},
	domain.PlatformLinkedIn:  {"linkedin.com"},
	domain.PlatformTikTok:    {"tiktok.com"},
	domain.PlatformTwitter:   {"twitter.com", "x.com"},
}

func onPlatformHost(p domain.Platform, host string) bool {
	host = strings.ToLower(host)
	for _, h := range platformHosts[p] {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// DetectPlatform maps a URL to the platform it lives on. Anything unrecognised
// is a website.
func DetectPlatform(rawURL string) domain.Platform {
	u, err := parse(rawURL)
	if err != nil {
		return domain.PlatformWebsite
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, p := range domain.SocialPlatforms {
		if onPlatformHost(p, host) {
			return p
		}
	}
	path := strings.ToLower(u.Path)
	switch {
	case strings.Contains(host, "tripadvisor."):
		return domain.PlatformTripAdvisor
	case strings.HasPrefix(host, "maps.google."), host == "g.page", host == "maps.app.goo.gl",
		(strings.HasPrefix(host, "google.") || host == "goo.gl") && strings.HasPrefix(path, "/maps"):
		return domain.PlatformGoogleMaps
	case strings.Contains(host, "booking."), strings.Contains(host, "expedia."),
		strings.Contains(host, "airbnb."), strings.HasSuffix(host, "getyourguide.com"),
		strings.HasSuffix(host, "viator.com"):
		return domain.PlatformBooking
	}
	return domain.PlatformWebsite
}

// parse accepts scheme-less URLs and rejects anything without a dotted host.
func parse(rawURL string) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil, errMalformed
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	host := u.Hostname()
	if host == "" || !strings.Contains(host, ".") || strings.ContainsAny(host, " _") {
		return nil, errMalformed
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errMalformed
	}
	return u, nil
}
