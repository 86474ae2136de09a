package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"maturity/internal/adapters/memory"
	"maturity/internal/domain"
	"maturity/internal/engine"
	"maturity/internal/logger"
	ports "maturity/internal/ports"
	"maturity/internal/workers/assessrunner"
)

// execute runs the root command in-process with every flag back at its default.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const rosterYAML = `
- id: abuko
  name: Abuko Nature Reserve
  sector: Tour operator
  contact: "+220 712 3456"
- id: jokor
  name: Jokor Music Studio
  sector: Music
`

const abukoInputYAML = `
entity:
  id: abuko
  name: Abuko Nature Reserve
  sector: Tour operator
  links:
    website: https://www.abukonaturereserve.gm
links:
  - url: https://www.abukonaturereserve.gm
    title: Abuko Nature Reserve
  - url: https://www.facebook.com/abukonaturereserve
`

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--url", "https://www.abukonaturereserve.gm", "--name", "Abuko Nature Reserve")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	var res domain.ValidationResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !res.IsOfficial || res.Platform != domain.PlatformWebsite || res.Confidence != 1 {
		t.Errorf("result = %+v, want official website at confidence 1", res)
	}
}

func TestValidateCommandRequiresName(t *testing.T) {
	if _, err := execute(t, "validate", "--url", "https://example.gm"); err == nil {
		t.Fatal("expected missing --name to fail")
	}
}

func TestMatchCommand(t *testing.T) {
	roster := writeFile(t, "roster.yaml", rosterYAML)
	resp := writeFile(t, "response.json", `{"answers":[
		{"key":"business_name","value":"Abuko Nature Reserve (ANR)"},
		{"key":"phone","value":"7123456"},
		{"key":"sector","value":"tour operator"}]}`)

	out, err := execute(t, "match", "--response", resp, "--roster", roster)
	if err != nil {
		t.Fatalf("match: %v\n%s", err, out)
	}
	var res domain.MatchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.Tier != domain.TierHigh || res.Matched == nil || res.Matched.EntityID != "abuko" {
		t.Errorf("result = %+v, want HIGH match on abuko", res)
	}
}

func TestMatchCommandList(t *testing.T) {
	roster := writeFile(t, "roster.yaml", rosterYAML)
	resp := writeFile(t, "responses.yaml", `
- answers:
    - {key: business_name, value: Jokor Music Studio}
- answers:
    - {key: sector, value: music}
`)
	out, err := execute(t, "match", "--response", resp, "--roster", roster)
	if err != nil {
		t.Fatalf("match: %v\n%s", err, out)
	}
	var res []domain.MatchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	if res[0].Matched == nil || res[0].Matched.EntityID != "jokor" {
		t.Errorf("first = %+v, want jokor", res[0])
	}
	if res[1].Tier != domain.TierNoMatch || res[1].Reason == "" {
		t.Errorf("second = %+v, want NO_MATCH with a reason", res[1])
	}
}

func TestAssessCommand(t *testing.T) {
	in := writeFile(t, "abuko.yaml", abukoInputYAML)
	out, err := execute(t, "assess", "-f", in)
	if err != nil {
		t.Fatalf("assess: %v\n%s", err, out)
	}
	var r engine.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	a := r.Assessment
	if a.SectorType != domain.SectorTourOperator || a.ExternalMax != 65 {
		t.Errorf("assessment = %s max %g, want tour_operator max 65", a.SectorType, a.ExternalMax)
	}
	if len(r.Categories) != len(domain.Categories) {
		t.Errorf("got %d categories", len(r.Categories))
	}
	if got := r.OfficialLinks()[domain.PlatformWebsite]; got != "https://www.abukonaturereserve.gm" {
		t.Errorf("official website = %q", got)
	}
}

func TestAssessCommandProfile(t *testing.T) {
	in := writeFile(t, "abuko.yaml", abukoInputYAML)
	profile := writeFile(t, "profile.yaml", "weights:\n  tour_operator:\n    website: 2.0\n")
	out, err := execute(t, "assess", "-f", in, "--profile", profile)
	if err != nil {
		t.Fatalf("assess: %v\n%s", err, out)
	}
	var r engine.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if r.Assessment.ExternalMax != 74 {
		t.Errorf("external max = %g, want 74 with website weight 2.0", r.Assessment.ExternalMax)
	}
}

func TestAssessCommandBatchIsolatesFailures(t *testing.T) {
	in := writeFile(t, "batch.yaml", `
- entity: {id: abuko, name: Abuko Nature Reserve, sector: Tour operator}
- entity: {id: jokor, name: Jokor Music Studio, sector: Music}
  sector_type: museum
- entity: {id: kachikally, name: Kachikally Crocodile Pool, sector: Heritage}
`)
	out, err := execute(t, "assess", "-f", in, "--batch", "--concurrency", "2")
	if err != nil {
		t.Fatalf("assess: %v\n%s", err, out)
	}
	var res []assessrunner.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(res) != 3 {
		t.Fatalf("got %d results, want 3", len(res))
	}
	for i, want := range []string{"abuko", "jokor", "kachikally"} {
		if res[i].EntityID != want {
			t.Errorf("result %d is %q, want %q", i, res[i].EntityID, want)
		}
	}
	if res[1].Error == "" || res[1].Report != nil {
		t.Errorf("unknown sector type = %+v, want an error", res[1])
	}
	if res[0].Report == nil || res[2].Report == nil {
		t.Errorf("healthy entities lost their reports: %+v", res)
	}
}

func TestImportCommand(t *testing.T) {
	mem := memory.New()
	prev := openStore
	openStore = func(context.Context, *logger.Logger) (store, func(), error) {
		return mem, func() {}, nil
	}
	t.Cleanup(func() { openStore = prev })

	in := writeFile(t, "import.yaml", `
- entity: {id: abuko, name: Abuko Nature Reserve, sector: Tour operator}
  links:
    - url: https://www.abukonaturereserve.gm
  survey:
    answers:
      - {key: business_name, value: Abuko Nature Reserve}
      - {key: posting_frequency, value: weekly}
- entity: {name: Jokor Music Studio, sector: Music}
`)
	out, err := execute(t, "import", "-f", in, "--enqueue")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	var sum importSummary
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if sum.Imported != 2 || sum.Surveys != 1 || len(sum.Jobs) != 2 {
		t.Fatalf("summary = %+v, want 2 imported, 1 survey, 2 jobs", sum)
	}
	if sum.IDs[0] != "abuko" || sum.IDs[1] == "" {
		t.Errorf("ids = %v", sum.IDs)
	}

	ctx := context.Background()
	ev, err := mem.GetEvidence(ctx, "abuko")
	if err != nil || len(ev.Links) != 1 {
		t.Errorf("evidence = %+v, %v", ev, err)
	}
	sv, err := mem.LatestSurvey(ctx, "abuko")
	if err != nil || sv == nil {
		t.Fatalf("LatestSurvey = %v, %v", sv, err)
	}
	st, err := mem.JobStatus(ctx, sum.Jobs[1])
	if err != nil || st.StakeholderID != sum.IDs[1] || st.Status != ports.JobQueued {
		t.Errorf("job = %+v, %v", st, err)
	}
}

func TestReadDocRejectsGarbage(t *testing.T) {
	path := writeFile(t, "bad.yaml", "entity: [unclosed")
	var in engine.Input
	err := readDoc(path, &in)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"validate": true, "match": true, "assess": true, "import": true, "migrate": true}
	for _, c := range rootCmd.Commands() {
		delete(want, c.Name())
	}
	if len(want) != 0 {
		t.Errorf("missing commands: %v", want)
	}
}
