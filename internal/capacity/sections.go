package capacity

import (
	"regexp"

	"maturity/internal/survey"
)

func rx(s string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + s) }

// no catches explicit negatives before any positive rule gets a chance. Any
// answer opening with "not" is negative; items that accept a hedged "not sure"
// list that rule ahead of no.
var no = Rule{rx(`^\s*(no|none|never|nothing|not|n/?a|nil|don'?t|do not)\b`), 0, "negative answer"}

// zeroAmount is an explicit zero ("0", "0.00 GMD").
var zeroAmount = Rule{rx(`^\s*0+(\.0+)?(\s|$|[^\d.])`), 0, "zero amount"}

var postingFloor = Patterns{
	no,
	{rx(`daily|every ?day`), 2, "posts daily"},
	{rx(`month`), 0.75, "posts monthly"},
	{rx(`several|multiple|few times|[2-9] times|twice`), 2, "posts several times a week"},
	{rx(`week`), 1.5, "posts weekly"},
}

// DefaultSections is the canonical capacity table.
func DefaultSections() []Section {
	return []Section{
		{Name: "Foundation", Items: []Item{
			{Field: survey.WebsiteStatus, Max: 3, Mapping: Patterns{
				{rx(`^\s*not (regularly |often )?(updated|maintained)`), 1.5, "website exists but is stale"},
				no,
				{rx(`construction|building|progress|planned|plan to|soon`), 1, "website in progress"},
				{rx(`outdated|old|not updated|rarely updated`), 1.5, "website exists but is stale"},
				{rx(`updat|regular|active|monthly|weekly`), 3, "website kept up to date"},
				{rx(`yes|have|own|\.[a-z]{2,}`), 2, "has a website"},
			}},
			{Field: survey.PlatformsUsed, Max: 3, Mapping: Count{
				Terms: []Term{
					{"facebook", rx(`facebook|\bfb\b`)},
					{"instagram", rx(`instagram|\big\b`)},
					{"whatsapp", rx(`whatsapp`)},
					{"tiktok", rx(`tik ?tok`)},
					{"youtube", rx(`you ?tube`)},
					{"linkedin", rx(`linked ?in`)},
					{"x", rx(`twitter|\bx\b`)},
				},
				Curve: []float64{0, 0.75, 1.5, 2.25, 3},
			}},
			{Field: survey.Connectivity, Max: 2, Mapping: Patterns{
				no,
				{rx(`unreliable|poor|intermittent|sometimes|limited|slow`), 1, "intermittent connectivity"},
				{rx(`reliable|good|fibre|fiber|4g|5g|broadband|wifi|wi-fi|always|yes`), 2, "reliable connectivity"},
				{rx(`mobile data|phone|data bundle`), 1, "mobile data only"},
			}},
			{Field: survey.DigitalSkills, Max: 2, Mapping: Patterns{
				no,
				{rx(`advanced|high|expert|strong|very good|excellent`), 2, "advanced skills"},
				{rx(`basic|some|moderate|average|limited|fair|good|intermediate`), 1, "basic skills"},
			}},
		}},
		{Name: "Capability", Items: []Item{
			{Field: survey.PostingFrequency, Max: 3, Mapping: Patterns{
				no,
				{rx(`daily|every ?day`), 3, "daily"},
				{rx(`month`), 1, "monthly"},
				{rx(`several|multiple|few times|[2-9] times|twice`), 2.5, "several times a week"},
				{rx(`week`), 2, "weekly"},
				{rx(`rarely|occasional|sometimes|irregular`), 0.5, "occasionally"},
			}},
			{Field: survey.ContentCreation, Max: 3, Mapping: Patterns{
				no,
				{rx(`professional|agency|photographer|videographer|designer`), 3, "professional content"},
				{rx(`\bown\b|ourselves|myself|in-house|staff|we (take|create|make|shoot|film)`), 2, "self-created content"},
				{rx(`sometimes|occasional|friends|family|phone`), 1, "occasional content"},
			}, Floor: &Floor{Field: survey.PostingFrequency, Rules: postingFloor}},
			{Field: survey.AnalyticsUse, Max: 2, Mapping: Patterns{
				no,
				{rx(`sometimes|occasional|rarely|a little`), 1, "occasional analytics"},
				{rx(`yes|regular|weekly|monthly|always|insights|google analytics|dashboard`), 2, "regular analytics"},
			}},
			{Field: survey.ReviewManagement, Max: 2, Mapping: Patterns{
				no,
				{rx(`sometimes|occasional|rarely`), 1, "responds sometimes"},
				{rx(`yes|always|every|usually|respond|reply|manage|monitor`), 2, "manages reviews"},
			}},
		}},
		{Name: "Growth", Items: []Item{
			{Field: survey.OnlineSalesShare, Max: 3, Mapping: Bands{
				Bands: []Band{{50, 3}, {25, 2.25}, {10, 1.5}, {0.01, 0.75}},
				Words: Patterns{
					no,
					{rx(`all|most|majority`), 3, "most sales online"},
					{rx(`half`), 2.25, "half of sales online"},
					{rx(`some|few|little|small`), 0.75, "some sales online"},
				},
			}},
			{Field: survey.PaymentMethods, Max: 2, Mapping: Count{
				Terms: []Term{
					{"card", rx(`card|visa|mastercard|\bpos\b`)},
					{"mobile money", rx(`mobile money|\bwave\b|afrimoney|qmoney|m-?pesa|orange money`)},
					{"online", rx(`paypal|stripe|online|flutterwave`)},
					{"bank transfer", rx(`bank|transfer`)},
				},
				Curve: []float64{0, 1, 1.5, 2},
			}},
			{Field: survey.DigitalBudget, Max: 2, Mapping: Patterns{
				no,
				zeroAmount,
				{rx(`small|little|occasional|sometimes|minimal`), 1, "occasional budget"},
				{rx(`yes|monthly|annual|yearly|dedicated|regular|\d`), 2, "dedicated budget"},
			}},
			{Field: survey.GrowthPlans, Max: 2, Mapping: Patterns{
				{rx(`^\s*not sure`), 1, "considering growth"},
				no,
				{rx(`maybe|not sure|unsure|thinking|considering`), 1, "considering growth"},
				{rx(`website|online|booking|social|e-?commerce|shop|marketing|yes|plan|expand|grow|improve`), 2, "concrete digital plans"},
			}},
			{Field: survey.TrainingInterest, Max: 1, Mapping: Patterns{
				{rx(`^\s*not sure`), 0.5, "possibly interested"},
				no,
				{rx(`maybe|not sure|unsure|possibly`), 0.5, "possibly interested"},
				{rx(`yes|interested|definitely|very`), 1, "interested in training"},
			}},
		}},
	}
}
