package stakeholders

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"maturity/internal/adapters/memory"
	"maturity/internal/domain"
)

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store)

	got, err := svc.Import(ctx, []domain.EntityRecord{
		{ID: "abuko", Name: "Abuko Nature Reserve", Links: map[domain.Platform]string{
			"":                     "https://instagram.com/abuko",
			domain.PlatformWebsite: " https://abuko.gm ",
			domain.PlatformTikTok:  "  ",
		}},
		{Name: "Jokor Music Studio"},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got[1].ID == "" {
		t.Errorf("generated id missing")
	}
	want := map[domain.Platform]string{
		domain.PlatformInstagram: "https://instagram.com/abuko",
		domain.PlatformWebsite:   "https://abuko.gm",
	}
	if diff := cmp.Diff(want, got[0].Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %d, %v", len(list), err)
	}

	if _, err := svc.Import(ctx, []domain.EntityRecord{{ID: "x", Name: "  "}}); err == nil {
		t.Errorf("Import accepted a nameless record")
	}
}
