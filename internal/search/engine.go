package search

import (
	"context"

	"github.com/jimezsa/jobmatch/internal/enrich"
	"github.com/jimezsa/jobmatch/internal/match"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/rs/zerolog"
)

// Request is one search: the criteria, the resolved source configs and the
// caller's optional preferences.
type Request struct {
	Criteria    models.SearchCriteria
	Configs     map[string]models.SourceConfig
	Preferences *models.UserPreferences
	// MinScore drops ranked jobs scoring below it. Zero keeps everything.
	MinScore int
}

// Result is the ranked job list plus bookkeeping about how it was built.
type Result struct {
	Jobs     []models.Job
	Failures []Failure
	Fetched  int
	Unique   int
}

// Engine runs aggregate, dedupe, score, enrich and rank in that order.
type Engine struct {
	aggregator *Aggregator
	directory  *enrich.Directory
	logger     zerolog.Logger
}

// NewEngine wires an engine. directory may be nil, in which case no job gets
// a hiring manager.
func NewEngine(aggregator *Aggregator, directory *enrich.Directory, logger zerolog.Logger) *Engine {
	return &Engine{aggregator: aggregator, directory: directory, logger: logger}
}

// Search validates the criteria and runs the pipeline. The only error it
// returns is a *models.ValidationError, raised before any source is called.
// A search where every source fails yields an empty, non-nil job list.
func (e *Engine) Search(ctx context.Context, req Request) (Result, error) {
	if err := req.Criteria.Validate(); err != nil {
		return Result{}, err
	}

	raw, failures := e.aggregator.Aggregate(ctx, req.Criteria, req.Configs)
	unique := match.Dedupe(raw)
	scored := match.ScoreAll(unique, req.Criteria, req.Preferences)

	directory := models.ManagerDirectory{}
	if e.directory != nil && len(scored) > 0 {
		directory = e.directory.Snapshot(ctx)
	}
	enriched := enrich.Enrich(scored, directory)

	ranked := match.FilterMinScore(match.Rank(enriched), req.MinScore)

	e.logger.Debug().
		Int("fetched", len(raw)).
		Int("unique", len(unique)).
		Int("ranked", len(ranked)).
		Int("failed_sources", len(failures)).
		Msg("search complete")

	return Result{
		Jobs:     ranked,
		Failures: failures,
		Fetched:  len(raw),
		Unique:   len(unique),
	}, nil
}
