package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/source"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options tunes the fan-out.
type Options struct {
	// Concurrency caps the number of sources queried at once. Zero or less
	// means one goroutine per source.
	Concurrency int
	// Timeout bounds each source call. Zero leaves it to the HTTP client.
	Timeout time.Duration
}

// Failure records a source that was skipped.
type Failure struct {
	Source string
	Kind   string
	Err    error
}

// Aggregator queries sources concurrently and concatenates their jobs.
type Aggregator struct {
	sources map[string]source.Source
	opts    Options
	logger  zerolog.Logger
}

func NewAggregator(sources map[string]source.Source, opts Options, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		opts:    opts,
		logger:  logger.With().Str("component", "aggregator").Logger(),
	}
}

type sourceResult struct {
	jobs []models.Job
	err  error
}

// Aggregate runs every source selected by criteria that is enabled in
// configs. Jobs come back in source order, then in the order each source
// returned them. Failing sources are logged, reported in the failure list
// and otherwise ignored; Aggregate itself never fails.
func (a *Aggregator) Aggregate(ctx context.Context, criteria models.SearchCriteria, configs map[string]models.SourceConfig) ([]models.Job, []Failure) {
	ids := a.selectSources(criteria.Sources, configs)
	results := make([]sourceResult, len(ids))

	var g errgroup.Group
	if a.opts.Concurrency > 0 {
		g.SetLimit(a.opts.Concurrency)
	}
	for i, id := range ids {
		i := i
		cfg := configs[id]
		if cfg.ID == "" {
			cfg.ID = id
		}
		src := a.sources[id]
		g.Go(func() error {
			jobs, err := a.runSource(ctx, src, criteria, cfg)
			results[i] = sourceResult{jobs: jobs, err: err}
			return nil
		})
	}
	_ = g.Wait()

	jobs := []models.Job{}
	var failures []Failure
	for i, res := range results {
		id := ids[i]
		if res.err != nil {
			kind := source.Kind(res.err)
			a.logger.Warn().Str("source", id).Str("kind", kind).Err(res.err).Msg("source skipped")
			failures = append(failures, Failure{Source: id, Kind: kind, Err: res.err})
			continue
		}
		a.logger.Debug().Str("source", id).Int("jobs", len(res.jobs)).Msg("source done")
		jobs = append(jobs, res.jobs...)
	}
	return jobs, failures
}

func (a *Aggregator) runSource(ctx context.Context, src source.Source, criteria models.SearchCriteria, cfg models.SourceConfig) (jobs []models.Job, err error) {
	defer func() {
		if r := recover(); r != nil {
			jobs = nil
			err = fmt.Errorf("%s: %w: panic: %v", cfg.ID, source.ErrMalformedResponse, r)
		}
	}()

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}
	return src.Search(ctx, criteria, cfg)
}

// selectSources resolves the requested ids, or every configured id in sorted
// order when none were requested, keeping only enabled sources with an adapter.
func (a *Aggregator) selectSources(requested []string, configs map[string]models.SourceConfig) []string {
	candidates := source.NormalizeSites(requested)
	if len(candidates) == 0 {
		for id := range configs {
			candidates = append(candidates, id)
		}
		sort.Strings(candidates)
	}

	seen := make(map[string]struct{}, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		cfg, ok := configs[id]
		if !ok || !cfg.Enabled {
			a.logger.Debug().Str("source", id).Msg("source not enabled")
			continue
		}
		if _, ok := a.sources[id]; !ok {
			a.logger.Debug().Str("source", id).Msg("no adapter for source")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
