// Package survey maps survey question keys to the fields the engine reads.
// Question wording changes between survey rounds; a new wording is a new
// synonym in Fields, nothing else.
package survey

import (
	"strings"

	"maturity/internal/domain"
)

// TableVersion is bumped whenever Fields changes.
const TableVersion = 3

// Field is a logical survey field.
type Field string

const (
	BusinessName      Field = "business_name"
	Contact           Field = "contact"
	Sector            Field = "sector"
	WebsiteStatus     Field = "website_status"
	PlatformsUsed     Field = "platforms_used"
	PostingFrequency  Field = "posting_frequency"
	ContentCreation   Field = "content_creation"
	Connectivity      Field = "connectivity"
	DigitalSkills     Field = "digital_skills"
	AnalyticsUse      Field = "analytics_use"
	ReviewManagement  Field = "review_management"
	OnlineSalesShare  Field = "online_sales_share"
	PaymentMethods    Field = "payment_methods"
	DigitalBudget     Field = "digital_budget"
	GrowthPlans       Field = "growth_plans"
	TrainingInterest  Field = "training_interest"
	SalesChannels     Field = "sales_channels"
	DigitalTools      Field = "digital_tools"
	OnlineBooking     Field = "online_booking"
	MessagingResponse Field = "messaging_response"
)

// Fields lists, per field, the primary question key followed by its fallbacks
// in lookup order.
var Fields = map[Field][]string{
	BusinessName: {"business_name", "stakeholder_name", "organization_name", "organisation_name", "company_name", "name_of_business", "name"},
	Contact:      {"contact", "phone", "phone_number", "contact_number", "telephone", "whatsapp", "mobile"},
	Sector:       {"sector", "business_sector", "industry", "category", "type_of_business"},

	WebsiteStatus:     {"website_status", "do_you_have_a_website", "website", "has_website"},
	PlatformsUsed:     {"platforms_used", "social_media_platforms", "which_social_media_platforms_do_you_use", "social_platforms"},
	PostingFrequency:  {"posting_frequency", "how_often_do_you_post", "social_media_frequency", "post_frequency"},
	ContentCreation:   {"content_creation", "who_creates_your_content", "do_you_create_your_own_content", "photo_video_content"},
	Connectivity:      {"connectivity", "internet_access", "internet_connectivity", "devices_and_internet"},
	DigitalSkills:     {"digital_skills", "staff_digital_skills", "digital_skill_level", "skills_level"},
	AnalyticsUse:      {"analytics_use", "do_you_use_analytics", "insights_usage", "analytics"},
	ReviewManagement:  {"review_management", "customer_reviews", "do_you_respond_to_reviews", "online_reviews"},
	OnlineSalesShare:  {"online_sales_share", "percentage_of_online_sales", "online_sales_percent", "share_of_sales_online"},
	PaymentMethods:    {"payment_methods", "how_do_customers_pay", "accepted_payments", "payment_options"},
	DigitalBudget:     {"digital_budget", "digital_marketing_budget", "marketing_budget", "budget_for_digital"},
	GrowthPlans:       {"growth_plans", "digital_plans_next_year", "future_digital_plans", "plans"},
	TrainingInterest:  {"training_interest", "interested_in_training", "digital_training_interest", "training"},
	SalesChannels:     {"sales_channels", "where_do_you_sell", "how_do_customers_book", "booking_channels"},
	DigitalTools:      {"digital_tools", "software_used", "tools_used", "business_tools"},
	OnlineBooking:     {"online_booking", "can_customers_book_online", "booking_online"},
	MessagingResponse: {"messaging_response", "do_you_reply_to_messages", "response_to_messages", "engagement"},
}

// Lookup returns the first non-blank answer for f, trying the primary key and
// then each synonym in order. Keys compare case-insensitively with spaces and
// hyphens treated as underscores.
func Lookup(r *domain.SurveyResponse, f Field) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, key := range Fields[f] {
		for _, a := range r.Answers {
			if canonicalKey(a.Key) == key {
				if v := strings.TrimSpace(a.Value); v != "" {
					return v, true
				}
			}
		}
	}
	return "", false
}

// Value is Lookup without the presence flag.
func Value(r *domain.SurveyResponse, f Field) string {
	v, _ := Lookup(r, f)
	return v
}

func canonicalKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.NewReplacer(" ", "_", "-", "_", "?", "", ".", "").Replace(k)
	return strings.Trim(k, "_")
}
