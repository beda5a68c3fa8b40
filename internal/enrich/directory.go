package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/source"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by Refresh when no manager source is enabled.
var ErrNotConfigured = errors.New("hiring manager source not configured")

// Directory owns the cached hiring-manager directory. It is filled once,
// either from disk or from the manager source, and only refetched on an
// explicit Refresh.
type Directory struct {
	source source.ManagerSource
	config models.SourceConfig
	logger zerolog.Logger

	mu        sync.Mutex
	entries   models.ManagerDirectory
	loaded    bool
	fetchedAt time.Time
}

// NewDirectory returns a Directory backed by src. A nil src or a disabled
// config yields a directory that is always empty.
func NewDirectory(src source.ManagerSource, cfg models.SourceConfig, logger zerolog.Logger) *Directory {
	return &Directory{
		source: src,
		config: cfg,
		logger: logger.With().Str("component", "directory").Logger(),
	}
}

// StaticDirectory wraps an already populated directory.
func StaticDirectory(entries models.ManagerDirectory) *Directory {
	return &Directory{entries: entries, loaded: true, logger: zerolog.Nop()}
}

func (d *Directory) enabled() bool {
	return d.source != nil && d.config.Enabled
}

// Refresh refetches the directory from its source. On failure the previous
// entries are kept and the error is returned.
func (d *Directory) Refresh(ctx context.Context) error {
	if !d.enabled() {
		return ErrNotConfigured
	}

	entries, err := d.source.FetchManagers(ctx, d.config)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = entries
	d.loaded = true
	d.fetchedAt = time.Now()
	d.logger.Debug().Int("companies", len(entries)).Msg("directory refreshed")
	return nil
}

// Snapshot returns the cached directory, fetching it on first use. Fetch
// failures are logged and produce an empty directory so enrichment can
// proceed.
func (d *Directory) Snapshot(ctx context.Context) models.ManagerDirectory {
	d.mu.Lock()
	loaded := d.loaded
	d.mu.Unlock()

	if !loaded && d.enabled() {
		if err := d.Refresh(ctx); err != nil {
			d.logger.Warn().Str("source", d.source.Name()).Str("kind", source.Kind(err)).Err(err).Msg("hiring manager directory unavailable")
			d.mu.Lock()
			d.loaded = true
			d.mu.Unlock()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries == nil {
		return models.ManagerDirectory{}
	}
	return d.entries
}

type snapshotFile struct {
	FetchedAt time.Time               `json:"fetched_at"`
	Managers  models.ManagerDirectory `json:"managers"`
}

// Load reads a directory saved by Save. A missing file is not an error and
// leaves the directory unloaded.
func (d *Directory) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = snap.Managers
	if d.entries == nil {
		d.entries = models.ManagerDirectory{}
	}
	d.loaded = true
	d.fetchedAt = snap.FetchedAt
	return nil
}

// Save writes the cached directory as JSON.
func (d *Directory) Save(path string) error {
	d.mu.Lock()
	snap := snapshotFile{FetchedAt: d.fetchedAt, Managers: d.entries}
	d.mu.Unlock()

	if snap.Managers == nil {
		snap.Managers = models.ManagerDirectory{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// FetchedAt reports when the cached entries were fetched. It is zero when
// nothing was fetched yet.
func (d *Directory) FetchedAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetchedAt
}
