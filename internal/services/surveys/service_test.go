package surveys

import (
	"context"
	"testing"

	"maturity/internal/adapters/memory"
	"maturity/internal/domain"
	"maturity/internal/ports"
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	for _, e := range []domain.EntityRecord{
		{ID: "abuko", Name: "Abuko Nature Reserve", Sector: "Tour operator", Contact: "+220 712 3456"},
		{ID: "jokor", Name: "Jokor Music Studio", Sector: "Music"},
	} {
		if _, err := store.Upsert(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func answers(kv ...string) domain.SurveyResponse {
	var r domain.SurveyResponse
	for i := 0; i+1 < len(kv); i += 2 {
		r.Answers = append(r.Answers, domain.Answer{Key: kv[i], Value: kv[i+1]})
	}
	return r
}

func TestIntakeLinksConfidentMatch(t *testing.T) {
	ctx := context.Background()
	store := seed(t)
	svc := New(store, store, store, nil)

	res, err := svc.Intake(ctx, answers("business_name", "Abuko Nature Reserve (ANR)", "phone", "7123456", "sector", "tour operator"))
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	if res.StakeholderID != "abuko" || res.Match.Tier != domain.TierHigh {
		t.Fatalf("result = %+v, want linked to abuko at HIGH", res)
	}
	if res.SurveyID == "" || res.JobID == "" {
		t.Errorf("missing ids: %+v", res)
	}
	st, err := store.JobStatus(ctx, res.JobID)
	if err != nil || st.StakeholderID != "abuko" || st.Status != ports.JobQueued {
		t.Errorf("job = %+v, %v", st, err)
	}
	latest, err := store.LatestSurvey(ctx, "abuko")
	if err != nil || latest == nil || latest.ID != res.SurveyID {
		t.Errorf("LatestSurvey = %+v, %v", latest, err)
	}
}

func TestIntakeKeepsWeakMatchForReview(t *testing.T) {
	ctx := context.Background()
	store := seed(t)
	svc := New(store, store, store, nil)

	for _, r := range []domain.SurveyResponse{
		answers("business_name", "Serrekunda Market Traders"),
		answers("sector", "music"),
	} {
		res, err := svc.Intake(ctx, r)
		if err != nil {
			t.Fatalf("Intake: %v", err)
		}
		if res.StakeholderID != "" || res.JobID != "" {
			t.Errorf("weak match linked: %+v", res)
		}
	}
	unmatched, err := svc.Unmatched(ctx)
	if err != nil {
		t.Fatalf("Unmatched: %v", err)
	}
	if len(unmatched) != 2 {
		t.Fatalf("got %d unmatched, want 2", len(unmatched))
	}
	if got := unmatched[1].Match.Reason; got == "" {
		t.Errorf("missing-name response has no reason")
	}
	if len(unmatched[0].Match.Candidates) == 0 {
		t.Errorf("unmatched response lost its candidates")
	}
}
