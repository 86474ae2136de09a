package rubric

import (
	"regexp"
	"strings"

	"maturity/internal/domain"
	"maturity/internal/survey"
)

var (
	weeklyOrMore   = regexp.MustCompile(`(?i)daily|every ?day|week|several times|multiple times|times a week|twice`)
	severalOrMore  = regexp.MustCompile(`(?i)daily|every ?day|several times|multiple times|[2-9] times a week|twice a week|few times a week`)
	ownContent     = regexp.MustCompile(`(?i)\bown\b|ourselves|myself|in-house|staff|we (take|create|make|shoot|film)|professional|photograph|videograph`)
	replies        = regexp.MustCompile(`(?i)\b(yes|always|usually|often|within|same day|quickly|respond|reply|replies)`)
	audience       = regexp.MustCompile(`(?i)\b\d[\d,.]*\s*k?\s*(followers|likes|subscribers|reviews)\b`)
	keptUpdated    = regexp.MustCompile(`(?i)updat|regular|monthly|weekly|recent|maintain`)
	gallery        = regexp.MustCompile(`\b(gallery|photos|videos|portfolio|media)\b`)
	photos         = regexp.MustCompile(`(?i)photo|picture|image|\bown\b|ourselves`)
	videos         = regexp.MustCompile(`(?i)video|reel|film|tiktok|youtube`)
	professional   = regexp.MustCompile(`(?i)professional|edit|design|canva|photographer|videographer|agency`)
	mediaMention   = regexp.MustCompile(`(?i)photo|video|gallery|images`)
	virtualTour    = regexp.MustCompile(`virtual tour|\b360\b|360°`)
	reviewsManaged = regexp.MustCompile(`(?i)\b(yes|always|usually|often|respond|reply|manage|monitor)`)
	bookingText    = regexp.MustCompile(`book now|book online|booking|reserve|reservation|check availability`)
	bookingAnswer  = regexp.MustCompile(`(?i)\b(yes|online|website|booking|app)`)
	cardPayments   = regexp.MustCompile(`(?i)card|online|paypal|visa|mastercard|stripe|bank transfer|\bpos\b`)
	cardText       = regexp.MustCompile(`paypal|stripe|visa|mastercard|pay online|credit card|debit card`)
	mobileMoney    = regexp.MustCompile(`(?i)mobile money|\bwave\b|afrimoney|qmoney|m-pesa|mpesa|orange money`)
	prices         = regexp.MustCompile(`\bprices?\b|\brates\b|tariff|[$€£]\s?\d|\d+\s?(gmd|dalasi|usd|eur)\b`)
	whatsapp       = regexp.MustCompile(`(?i)whatsapp|wa\.me|telegram|messenger`)
	shopText       = regexp.MustCompile(`add to cart|checkout|buy now|online shop|online store|\bshop\b`)
	socialSelling  = regexp.MustCompile(`(?i)facebook|instagram|social|tiktok`)
	newsletter     = regexp.MustCompile(`newsletter|subscribe|mailing list|sign up for`)
	anyAnswer      = regexp.MustCompile(`(?i)\w`)
	paymentGateway = regexp.MustCompile(`paypal|stripe|flutterwave|checkout|payment gateway`)
	mostlyOnline   = regexp.MustCompile(`(?i)\b(some|half|most|majority|all|yes)\b`)
)

var socialLinkHosts = []string{
	"facebook.com", "instagram.com", "youtube.com", "tiktok.com", "linkedin.com", "twitter.com", "x.com",
}

var bookingEngines = []string{
	"fareharbor", "checkfront", "rezdy", "bokun", "cloudbeds", "booking.com", "getyourguide",
	"viator", "airbnb", "expedia", "peek.com", "simplybook", "calendly",
}

// DefaultTable is the canonical rubric: six categories, ten criteria each.
func DefaultTable() Table {
	return Table{
		domain.CategorySocialMedia: {
			{"SM01", "Has an official Facebook page", official(domain.PlatformFacebook)},
			{"SM02", "Has an official Instagram profile", official(domain.PlatformInstagram)},
			{"SM03", "Has an official profile on YouTube, TikTok, LinkedIn or X", official(domain.PlatformYouTube, domain.PlatformTikTok, domain.PlatformLinkedIn, domain.PlatformTwitter)},
			{"SM04", "Is officially present on three or more social platforms", func(b *domain.EvidenceBundle) bool {
				return len(b.OfficialPlatforms()) >= 3
			}},
			{"SM05", "Website links to its social profiles", linksTo(socialLinkHosts...)},
			{"SM06", "Posts on social media at least weekly", answered(survey.PostingFrequency, weeklyOrMore)},
			{"SM07", "Posts several times a week or daily", answered(survey.PostingFrequency, severalOrMore)},
			{"SM08", "Creates its own social media content", answered(survey.ContentCreation, ownContent)},
			{"SM09", "Search results show an active social audience", func(b *domain.EvidenceBundle) bool {
				for _, l := range b.Links {
					if audience.MatchString(l.Snippet) || audience.MatchString(l.Title) {
						return true
					}
				}
				return false
			}},
			{"SM10", "Responds to messages and comments", answered(survey.MessagingResponse, replies)},
		},
		domain.CategoryWebsite: {
			{"WS01", "Has an official website", official(domain.PlatformWebsite)},
			{"WS02", "Website is served over HTTPS", func(b *domain.EvidenceBundle) bool {
				if b.Page != nil && strings.HasPrefix(strings.ToLower(b.Page.URL), "https://") {
					return true
				}
				v, ok := b.Official(domain.PlatformWebsite)
				return ok && strings.HasPrefix(strings.ToLower(v.URL), "https://")
			}},
			{"WS03", "Website is mobile-friendly", page(func(p *domain.PageFeatures) bool { return p.HasViewportMeta })},
			{"WS04", "Website has a contact form", page(func(p *domain.PageFeatures) bool { return p.HasContactForm })},
			{"WS05", "Website has a descriptive title", page(func(p *domain.PageFeatures) bool {
				t := strings.ToLower(strings.TrimSpace(p.Title))
				switch t {
				case "home", "index", "untitled", "welcome", "home page":
					return false
				}
				return len(t) >= 10
			})},
			{"WS06", "Website has a meta description", page(func(p *domain.PageFeatures) bool {
				return len(strings.TrimSpace(p.MetaDescription)) >= 30
			})},
			{"WS07", "Website publishes structured data", page(func(p *domain.PageFeatures) bool { return p.HasStructuredData })},
			{"WS08", "Website publishes an email address or phone number", page(func(p *domain.PageFeatures) bool {
				return len(p.Emails)+len(p.Phones) > 0
			})},
			{"WS09", "Website has clear navigation (three or more sections)", page(func(p *domain.PageFeatures) bool {
				return len(p.Headings) >= 3
			})},
			{"WS10", "Website content is kept up to date", answered(survey.WebsiteStatus, keptUpdated)},
		},
		domain.CategoryVisualContent: {
			{"VC01", "Website shows at least five images", page(func(p *domain.PageFeatures) bool { return p.ImageCount >= 5 })},
			{"VC02", "Website has a rich image gallery (15 or more images)", page(func(p *domain.PageFeatures) bool { return p.ImageCount >= 15 })},
			{"VC03", "Has an official Instagram profile", official(domain.PlatformInstagram)},
			{"VC04", "Has an official video channel (YouTube or TikTok)", official(domain.PlatformYouTube, domain.PlatformTikTok)},
			{"VC05", "Website has a gallery, photo or video section", pageMatches(gallery)},
			{"VC06", "Creates its own photos", answered(survey.ContentCreation, photos)},
			{"VC07", "Creates its own videos", answered(survey.ContentCreation, videos)},
			{"VC08", "Uses professional or edited visual content", answered(survey.ContentCreation, professional)},
			{"VC09", "Search results reference photos or videos of the business", func(b *domain.EvidenceBundle) bool {
				return len(nameMentions(b, func(l domain.DiscoveredLink) bool {
					return mediaMention.MatchString(l.Title + " " + l.Snippet)
				})) > 0
			}},
			{"VC10", "Offers a virtual tour or 360° content", pageMatches(virtualTour)},
		},
		domain.CategoryDiscoverability: {
			{"DS01", "Official website appears in search results", func(b *domain.EvidenceBundle) bool {
				for _, l := range b.Links {
					if isOfficialURL(b, l.URL) {
						return true
					}
				}
				return false
			}},
			{"DS02", "Appears in three or more search results", func(b *domain.EvidenceBundle) bool {
				return len(nameMentions(b, nil)) >= 3
			}},
			{"DS03", "Listed on TripAdvisor", official(domain.PlatformTripAdvisor)},
			{"DS04", "Listed on Google Maps", anyOf(official(domain.PlatformGoogleMaps), linksTo("google.com/maps", "maps.google.", "goo.gl/maps", "g.page"))},
			{"DS05", "Listed on an online travel agency or booking platform", official(domain.PlatformBooking)},
			{"DS06", "Website title contains the business name", func(b *domain.EvidenceBundle) bool {
				if b.Page == nil {
					return false
				}
				title := strings.ToLower(b.Page.Title)
				for _, w := range nameWords(b) {
					if strings.Contains(title, w) {
						return true
					}
				}
				return false
			}},
			{"DS07", "Website publishes structured data for search engines", page(func(p *domain.PageFeatures) bool { return p.HasStructuredData })},
			{"DS08", "Mentioned by third-party articles or directories", func(b *domain.EvidenceBundle) bool {
				return len(nameMentions(b, func(l domain.DiscoveredLink) bool { return !isOfficialURL(b, l.URL) })) > 0
			}},
			{"DS09", "Found through two or more distinct searches", func(b *domain.EvidenceBundle) bool {
				queries := make(map[string]bool)
				for _, l := range nameMentions(b, nil) {
					if q := strings.TrimSpace(strings.ToLower(l.SourceQuery)); q != "" {
						queries[q] = true
					}
				}
				return len(queries) >= 2
			}},
			{"DS10", "Actively manages online reviews", answered(survey.ReviewManagement, reviewsManaged)},
		},
		domain.CategoryDigitalSales: {
			{"SA01", "Offers online booking or reservations", anyOf(pageMatches(bookingText), answered(survey.OnlineBooking, bookingAnswer))},
			{"SA02", "Accepts card or online payments", anyOf(pageMatches(cardText), answered(survey.PaymentMethods, cardPayments))},
			{"SA03", "Sells through an online travel agency or booking platform", official(domain.PlatformBooking)},
			{"SA04", "Accepts mobile money", anyOf(pageMatches(mobileMoney), answered(survey.PaymentMethods, mobileMoney))},
			{"SA05", "Publishes prices online", pageMatches(prices)},
			{"SA06", "Takes enquiries through a website form", page(func(p *domain.PageFeatures) bool { return p.HasContactForm })},
			{"SA07", "Sells or takes bookings through WhatsApp or messaging apps", anyOf(pageMatches(whatsapp), linksTo("wa.me", "whatsapp.com"), answered(survey.SalesChannels, whatsapp))},
			{"SA08", "Makes a share of its sales online", func(b *domain.EvidenceBundle) bool {
				v, ok := survey.Lookup(b.Survey, survey.OnlineSalesShare)
				if !ok || negative.MatchString(v) {
					return false
				}
				if pct, ok := percentAnswer(v); ok {
					return pct > 0
				}
				return mostlyOnline.MatchString(v)
			}},
			{"SA09", "Runs an online shop or cart", pageMatches(shopText)},
			{"SA10", "Sells through social media", answered(survey.SalesChannels, socialSelling)},
		},
		domain.CategoryPlatformIntegration: {
			{"PI01", "Website links to two or more social platforms", func(b *domain.EvidenceBundle) bool {
				return linkedSocialPlatforms(b) >= 2
			}},
			{"PI02", "Uses a consistent handle across social platforms", func(b *domain.EvidenceBundle) bool {
				counts := make(map[string]int)
				for _, p := range b.OfficialPlatforms() {
					v, _ := b.Official(p)
					if h := handle(v.URL); h != "" {
						counts[h]++
					}
				}
				for _, n := range counts {
					if n >= 2 {
						return true
					}
				}
				return false
			}},
			{"PI03", "Website embeds or links a map", linksTo("google.com/maps", "maps.google.", "goo.gl/maps", "g.page", "openstreetmap.org")},
			{"PI04", "Website integrates a booking engine", anyOf(linksTo(bookingEngines...), answered(survey.DigitalTools, regexp.MustCompile(`(?i)`+strings.Join(bookingEngines, "|")+`|booking system`)))},
			{"PI05", "Uses analytics or platform insights", answered(survey.AnalyticsUse, regexp.MustCompile(`(?i)\b(yes|regular|weekly|monthly|sometimes|occasionally|google analytics|insights|dashboard)`))},
			{"PI06", "Website links to its review listings", linksTo("tripadvisor.", "google.com/maps", "g.page", "trustpilot.")},
			{"PI07", "Offers a newsletter or email sign-up", pageMatches(newsletter)},
			{"PI08", "Uses digital business tools", answered(survey.DigitalTools, anyAnswer)},
			{"PI09", "Website phone number matches the catalogued contact", func(b *domain.EvidenceBundle) bool {
				want := lastSeven(b.Entity.Contact)
				if want == "" || b.Page == nil {
					return false
				}
				for _, p := range b.Page.Phones {
					if lastSeven(p) == want {
						return true
					}
				}
				return false
			}},
			{"PI10", "Accepts payments through an integrated gateway", anyOf(pageMatches(paymentGateway), linksTo("paypal.com", "stripe.com", "flutterwave.com"))},
		},
	}
}

func nameWords(b *domain.EvidenceBundle) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(b.Entity.Name)) {
		if len([]rune(w)) > 3 {
			out = append(out, w)
		}
	}
	return out
}
