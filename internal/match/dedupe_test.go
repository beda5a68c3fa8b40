package match

import (
	"reflect"
	"testing"

	"github.com/jimezsa/jobmatch/internal/models"
)

func TestDedupeKeepsFirstSeen(t *testing.T) {
	jobs := []models.Job{
		{ID: "a-1", Title: "t1", Company: "c1"},
		{ID: "b-1", Title: "t2", Company: "c2"},
		{ID: "b-2", Title: "t1", Company: "c1"},
	}

	got := Dedupe(jobs)
	if len(got) != 2 || got[0].ID != "a-1" || got[1].ID != "b-1" {
		t.Fatalf("Dedupe() = %+v", got)
	}
}

func TestDedupeIsExactMatch(t *testing.T) {
	jobs := []models.Job{
		{Title: "Go Dev", Company: "Acme"},
		{Title: "go dev", Company: "Acme"},
		{Title: "Go Dev", Company: "Acme Inc."},
		{Title: "Go", Company: "Dev\x00Acme"},
	}

	if got := Dedupe(jobs); len(got) != 4 {
		t.Fatalf("expected no merges, got %d jobs", len(got))
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	jobs := []models.Job{
		{Title: "A", Company: "X"},
		{Title: "A", Company: "X"},
		{Title: "B", Company: "X"},
		{Title: "A", Company: "Y"},
		{Title: "B", Company: "X"},
	}

	once := Dedupe(jobs)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Dedupe not idempotent: %+v vs %+v", once, twice)
	}
	if len(once) != 3 {
		t.Fatalf("expected 3 unique jobs, got %d", len(once))
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
