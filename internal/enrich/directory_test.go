package enrich

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/source"
	"github.com/rs/zerolog"
)

type fakeManagers struct {
	calls int
	dir   models.ManagerDirectory
	err   error
}

func (f *fakeManagers) Name() string { return source.SiteHiringManager }

func (f *fakeManagers) FetchManagers(context.Context, models.SourceConfig) (models.ManagerDirectory, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.dir, nil
}

func enabledConfig() models.SourceConfig {
	return models.SourceConfig{ID: source.SiteHiringManager, Enabled: true}
}

func TestSnapshotFetchesOnce(t *testing.T) {
	src := &fakeManagers{dir: models.ManagerDirectory{"acme": {{Name: "Ann"}}}}
	dir := NewDirectory(src, enabledConfig(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		snap := dir.Snapshot(context.Background())
		if _, ok := snap.Lookup("Acme"); !ok {
			t.Fatalf("expected Acme in snapshot")
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", src.calls)
	}
	if dir.FetchedAt().IsZero() {
		t.Fatalf("expected fetch time to be recorded")
	}
}

func TestSnapshotFailureYieldsEmpty(t *testing.T) {
	src := &fakeManagers{err: fmt.Errorf("hiring_manager: %w", source.ErrRateLimited)}
	dir := NewDirectory(src, enabledConfig(), zerolog.Nop())

	if snap := dir.Snapshot(context.Background()); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
	dir.Snapshot(context.Background())
	if src.calls != 1 {
		t.Fatalf("failed fetch should not be retried implicitly, got %d calls", src.calls)
	}
}

func TestRefreshKeepsEntriesOnFailure(t *testing.T) {
	src := &fakeManagers{dir: models.ManagerDirectory{"acme": {{Name: "Ann"}}}}
	dir := NewDirectory(src, enabledConfig(), zerolog.Nop())
	if err := dir.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	src.err = source.ErrUnavailable
	if err := dir.Refresh(context.Background()); !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("Refresh() error = %v, want ErrUnavailable", err)
	}
	if _, ok := dir.Snapshot(context.Background()).Lookup("acme"); !ok {
		t.Fatalf("previous entries should survive a failed refresh")
	}
}

func TestDisabledDirectory(t *testing.T) {
	src := &fakeManagers{}
	dir := NewDirectory(src, models.SourceConfig{ID: source.SiteHiringManager}, zerolog.Nop())

	if err := dir.Refresh(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Refresh() error = %v, want ErrNotConfigured", err)
	}
	if snap := dir.Snapshot(context.Background()); snap == nil || len(snap) != 0 {
		t.Fatalf("expected empty non-nil snapshot, got %v", snap)
	}
	if src.calls != 0 {
		t.Fatalf("disabled source should not be called")
	}
	if snap := NewDirectory(nil, enabledConfig(), zerolog.Nop()).Snapshot(context.Background()); len(snap) != 0 {
		t.Fatalf("nil source should give an empty snapshot")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "managers.json")

	src := &fakeManagers{dir: models.ManagerDirectory{"acme": {{Name: "Ann", Email: "ann@acme.example"}, {Name: "Bob"}}}}
	dir := NewDirectory(src, enabledConfig(), zerolog.Nop())
	if err := dir.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if err := dir.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewDirectory(&fakeManagers{}, enabledConfig(), zerolog.Nop())
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	snap := loaded.Snapshot(context.Background())
	if len(snap["acme"]) != 2 || snap["acme"][0].Email != "ann@acme.example" {
		t.Fatalf("unexpected loaded directory: %+v", snap)
	}
	if !loaded.FetchedAt().Equal(dir.FetchedAt()) {
		t.Fatalf("fetch time not preserved: %v vs %v", loaded.FetchedAt(), dir.FetchedAt())
	}
}

func TestLoadMissingAndInvalid(t *testing.T) {
	dirPath := t.TempDir()
	dir := NewDirectory(nil, models.SourceConfig{}, zerolog.Nop())
	if err := dir.Load(filepath.Join(dirPath, "missing.json")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}

	bad := filepath.Join(dirPath, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := dir.Load(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStaticDirectory(t *testing.T) {
	dir := StaticDirectory(models.ManagerDirectory{"acme": {{Name: "Ann"}}})
	if _, ok := dir.Snapshot(context.Background()).Lookup("ACME"); !ok {
		t.Fatalf("expected static entries")
	}
}
