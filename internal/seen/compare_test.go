package seen

import (
	"testing"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	got := Normalize("  Senior   Software\tEngineer  ")
	want := "senior software engineer"
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestKey(t *testing.T) {
	got, ok := JobKey(models.Job{Title: "  Senior Engineer ", Company: " ACME   Corp "})
	if !ok {
		t.Fatalf("expected valid key")
	}
	if want := "senior engineer::acme corp"; got != want {
		t.Fatalf("Key() = %q, want %q", got, want)
	}

	for _, job := range []models.Job{
		{Title: models.DefaultTitle, Company: "Acme"},
		{Title: "SRE", Company: models.DefaultCompany},
		{Title: "SRE", Company: "  "},
	} {
		if _, ok := JobKey(job); ok {
			t.Fatalf("expected no key for %+v", job)
		}
	}
}

func TestDiff(t *testing.T) {
	jobs := []models.Job{
		{Title: "Senior Engineer", Company: "Acme", URL: "https://example.com/new-1"},
		{Title: "Senior   Engineer", Company: " Acme ", URL: "https://example.com/new-1-dupe"},
		{Title: "Platform Engineer", Company: "Beta", URL: "https://example.com/new-2"},
		{Title: "", Company: "Invalid", URL: "https://example.com/invalid"},
	}
	history := []Entry{
		{Title: "senior engineer", Company: "acme", URL: "https://example.com/seen-1"},
		{Title: "senior engineer", Company: "acme", URL: "https://example.com/seen-1-dupe"},
		{Title: "No Company", Company: "   ", URL: "https://example.com/seen-invalid"},
	}

	unseen, stats := Diff(jobs, history)

	if len(unseen) != 1 || unseen[0].Title != "Platform Engineer" {
		t.Fatalf("unexpected unseen jobs: %+v", unseen)
	}
	if stats.TotalNew != 4 || stats.TotalSeen != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.InvalidNew != 1 || stats.InvalidSeen != 1 || stats.InvalidSkipped() != 2 {
		t.Fatalf("unexpected invalid counts: %+v", stats)
	}
	if stats.Unseen != 1 {
		t.Fatalf("Unseen = %d, want 1", stats.Unseen)
	}
}

func TestMergeAndIdempotency(t *testing.T) {
	firstSeen := testNow.Add(-48 * time.Hour)
	history := []Entry{
		{Title: "Senior Engineer", Company: "Acme", MatchScore: 30, FirstSeen: firstSeen},
		{Title: "", Company: "Unknown", URL: "https://example.com/seen-invalid"},
	}
	jobs := []models.Job{
		{Title: "Senior Engineer", Company: "Acme", MatchScore: 55},
		{Title: "Platform Engineer", Company: "Beta", Source: "indeed", MatchScore: 20},
		{Title: "", Company: "Broken"},
	}

	merged, stats := Merge(history, jobs, testNow)
	if len(merged) != 3 || stats.TotalOut != 3 {
		t.Fatalf("expected 3 entries, got %d", len(merged))
	}
	if stats.Added != 1 || stats.Rescored != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.InvalidSeen != 1 || stats.InvalidInput != 1 {
		t.Fatalf("unexpected invalid counts: %+v", stats)
	}
	if merged[0].MatchScore != 55 || !merged[0].FirstSeen.Equal(firstSeen) {
		t.Fatalf("existing entry not updated in place: %+v", merged[0])
	}
	if merged[2].Source != "indeed" || !merged[2].FirstSeen.Equal(testNow) {
		t.Fatalf("unexpected new entry: %+v", merged[2])
	}

	mergedAgain, statsAgain := Merge(merged, jobs, testNow.Add(time.Hour))
	if len(mergedAgain) != len(merged) {
		t.Fatalf("expected idempotent merge length %d, got %d", len(merged), len(mergedAgain))
	}
	if statsAgain.Added != 0 || statsAgain.Rescored != 0 {
		t.Fatalf("expected second merge to change nothing: %+v", statsAgain)
	}
}
