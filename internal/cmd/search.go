package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jimezsa/jobmatch/internal/enrich"
	"github.com/jimezsa/jobmatch/internal/export"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/search"
	"github.com/jimezsa/jobmatch/internal/seen"
	"github.com/jimezsa/jobmatch/internal/source"
	"github.com/muesli/termenv"
)

type SearchCmd struct {
	Keywords string `arg:"" optional:"" help:"Keywords (comma-separated). Optional when --keywords-file or preferred titles are configured."`
	SearchOptions
}

type SearchOptions struct {
	Sources     string `help:"Comma-separated source ids (default: every enabled source)."`
	Location    string `help:"Job location."`
	JobType     string `help:"Job type filter passed to sources that support it (e.g. Full-time)."`
	Concurrency int    `help:"Maximum sources queried at once (0 = all at once)." default:"-1"`

	RemoteOnly     bool     `help:"Prefer remote jobs when scoring."`
	MinSalary      int      `help:"Minimum salary preference used when scoring."`
	PreferLocation []string `help:"Preferred locations used when scoring." sep:","`
	PreferTitle    []string `help:"Preferred job titles; used as keywords when none are given." sep:","`
	MinScore       int      `help:"Drop jobs scoring below this (-1 = config value)." default:"-1"`

	RefreshManagers bool `help:"Refetch the hiring manager directory before searching."`
	NoManagers      bool `help:"Skip hiring manager enrichment."`

	Format       string `help:"Output format: table, json, md, tsv." enum:",table,json,md,tsv" default:""`
	Links        string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Reasons      bool   `help:"Show match reasons under each table row."`
	Output       string `name:"output" short:"o" help:"Write output to a file."`
	Proxies      string `help:"Comma-separated proxy URLs."`
	KeywordsFile string `help:"Path to JSON file with keywords (top-level string array or object with job_titles array)."`
	Seen         string `help:"Path to seen jobs history JSON file."`
	NewOnly      bool   `help:"Output only unseen jobs (requires --seen)."`
	NewOut       string `help:"Write unseen jobs JSON to a file (requires --seen)."`
	SeenUpdate   bool   `help:"Merge the returned jobs into the --seen history after the search (requires --seen)."`
}

const maxKeywords = 10

func (s *SearchCmd) Run(ctx *Context) error {
	return runSearch(ctx, s.Keywords, s.SearchOptions)
}

func runSearch(ctx *Context, keywordsArg string, opts SearchOptions) error {
	if err := validateSeenFlags(opts); err != nil {
		return err
	}

	cfg := ctx.Config
	prefs := resolvePreferences(cfg.Preferences, opts)

	keywords, err := resolveKeywords(keywordsArg, opts.KeywordsFile, prefs)
	if err != nil {
		return err
	}

	criteria := models.SearchCriteria{
		Keywords: keywords,
		Location: firstNonEmpty(opts.Location, cfg.DefaultLocation),
		JobType:  firstNonEmpty(opts.JobType, cfg.DefaultJobType),
		Sources:  source.NormalizeSites(splitList(opts.Sources)),
	}
	if err := criteria.Validate(); err != nil {
		return err
	}

	registry, err := ctx.registry(opts.Proxies)
	if err != nil {
		return err
	}
	if err := checkSources(registry, criteria.Sources); err != nil {
		return err
	}
	configs := ctx.sourceConfigs()
	if !anyEnabled(configs, criteria.Sources) {
		ctx.UI.Warnf("no enabled sources; set rapidapi_key (or JOBMATCH_RAPIDAPI_KEY) or enable sources in %s", ctx.ConfigDir)
	}

	var directory *enrich.Directory
	var snapshotAt time.Time
	if !opts.NoManagers {
		directory, err = prepareDirectory(ctx, registry, configs, opts.RefreshManagers)
		if err != nil {
			return err
		}
		if !opts.RefreshManagers {
			snapshotAt = directory.FetchedAt()
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 0 {
		concurrency = cfg.Concurrency
	}
	minScore := opts.MinScore
	if minScore < 0 {
		minScore = cfg.MinScore
	}

	engine := search.NewEngine(
		search.NewAggregator(registry.Sources, search.Options{Concurrency: concurrency, Timeout: cfg.Timeout()}, ctx.Logger),
		directory,
		ctx.Logger,
	)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stopIndicator := startSearchIndicator(ctx)
	result, err := engine.Search(runCtx, search.Request{
		Criteria:    criteria,
		Configs:     configs,
		Preferences: prefs,
		MinScore:    minScore,
	})
	if stopIndicator != nil {
		stopIndicator()
	}
	if err != nil {
		return err
	}

	reportFailures(ctx, result.Failures)
	persistDirectory(ctx, directory, snapshotAt)

	jobs := result.Jobs
	var unseenJobs []models.Job
	if strings.TrimSpace(opts.Seen) != "" {
		history, err := seen.ReadHistoryAllowMissing(opts.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		unseenJobs, _ = seen.Diff(jobs, history)
	}

	outputJobs := jobs
	if opts.NewOnly {
		outputJobs = unseenJobs
	}

	if err := checkPaths(opts); err != nil {
		return err
	}

	if strings.TrimSpace(opts.NewOut) != "" {
		if err := seen.WriteJobs(opts.NewOut, unseenJobs); err != nil {
			return fmt.Errorf("write --new-out: %w", err)
		}
	}

	format, err := resolveFormat(ctx, opts, opts.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && opts.Output == ""
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleFull
	if strings.EqualFold(opts.Links, string(export.LinkStyleShort)) {
		linkStyle = export.LinkStyleShort
	}
	if err := export.WriteJobs(writer, outputJobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
		Reasons:      opts.Reasons,
	}); err != nil {
		return err
	}

	if opts.SeenUpdate {
		if err := updateSeenHistory(opts.Seen, jobs, time.Now()); err != nil {
			return err
		}
	}

	summaryJobs := jobs
	if strings.TrimSpace(opts.Seen) != "" {
		summaryJobs = unseenJobs
	}
	printSearchSummary(ctx, result, summaryJobs)

	return nil
}

func validateSeenFlags(opts SearchOptions) error {
	if opts.NewOnly && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--new-only requires --seen")
	}
	if strings.TrimSpace(opts.NewOut) != "" && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--new-out requires --seen")
	}
	if opts.SeenUpdate && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--seen-update requires --seen")
	}
	return nil
}

func checkPaths(opts SearchOptions) error {
	if strings.TrimSpace(opts.NewOut) != "" && pathsEqual(opts.Output, opts.NewOut) {
		return fmt.Errorf("--new-out path must differ from --output")
	}
	if strings.TrimSpace(opts.Seen) != "" && pathsEqual(opts.Output, opts.Seen) {
		return fmt.Errorf("--output path must differ from --seen")
	}
	if strings.TrimSpace(opts.NewOut) != "" && pathsEqual(opts.NewOut, opts.Seen) {
		return fmt.Errorf("--new-out path must differ from --seen")
	}
	return nil
}

// resolvePreferences layers flag values over the configured preferences.
// It returns nil when no preference is set at all.
func resolvePreferences(base models.UserPreferences, opts SearchOptions) *models.UserPreferences {
	prefs := base
	if opts.RemoteOnly {
		prefs.RemoteOnly = true
	}
	if opts.MinSalary > 0 {
		minSalary := opts.MinSalary
		prefs.MinSalary = &minSalary
	}
	if locations := trimAll(opts.PreferLocation); len(locations) > 0 {
		prefs.PreferredLocations = locations
	}
	if titles := trimAll(opts.PreferTitle); len(titles) > 0 {
		prefs.PreferredJobTitles = titles
	}
	if prefs.IsZero() {
		return nil
	}
	return &prefs
}

func prepareDirectory(ctx *Context, registry *source.Registry, configs map[string]models.SourceConfig, refresh bool) (*enrich.Directory, error) {
	directory, err := ctx.directory(registry, configs)
	if err != nil {
		return nil, fmt.Errorf("read hiring manager snapshot: %w", err)
	}
	if !refresh {
		return directory, nil
	}

	refreshCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.Timeout())
	defer cancel()
	if err := directory.Refresh(refreshCtx); err != nil {
		if errors.Is(err, enrich.ErrNotConfigured) {
			return nil, fmt.Errorf("--refresh-managers: add a %q entry under sources in the config file", source.SiteHiringManager)
		}
		ctx.UI.Warnf("hiring manager refresh failed: %v", err)
	}
	return directory, nil
}

// persistDirectory saves a directory fetched during this run so later runs
// can skip the network call.
func persistDirectory(ctx *Context, directory *enrich.Directory, previous time.Time) {
	if directory == nil {
		return
	}
	fetchedAt := directory.FetchedAt()
	if fetchedAt.IsZero() || fetchedAt.Equal(previous) {
		return
	}
	if err := directory.Save(ctx.managersPath()); err != nil {
		ctx.Logger.Warn().Err(err).Msg("could not save hiring manager snapshot")
	}
}

func checkSources(registry *source.Registry, requested []string) error {
	for _, id := range requested {
		if _, ok := registry.Sources[id]; !ok {
			return fmt.Errorf("unknown source: %s (see `jobmatch sources`)", id)
		}
	}
	return nil
}

// anyEnabled reports whether at least one requested source, or any source
// when none were requested, is enabled.
func anyEnabled(configs map[string]models.SourceConfig, requested []string) bool {
	if len(requested) == 0 {
		for id, cfg := range configs {
			if cfg.Enabled && id != source.SiteHiringManager {
				return true
			}
		}
		return false
	}
	for _, id := range requested {
		if configs[id].Enabled {
			return true
		}
	}
	return false
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func updateSeenHistory(seenPath string, jobs []models.Job, now time.Time) error {
	history, err := seen.ReadHistoryAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	merged, _ := seen.Merge(history, jobs, now)
	if err := seen.WriteHistory(seenPath, merged); err != nil {
		return fmt.Errorf("write --seen: %w", err)
	}

	return nil
}

func printSearchSummary(ctx *Context, result search.Result, jobs []models.Job) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatSearchSummary(result, jobs))
}

func formatSearchSummary(result search.Result, jobs []models.Job) string {
	counts := countJobsBySource(jobs)
	bySource := "none"
	if len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, count := range counts {
			parts = append(parts, fmt.Sprintf("%s:%d", count.source, count.total))
		}
		bySource = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(
		"summary: jobs=%d fetched=%d unique=%d failed_sources=%d by_source=%s",
		len(jobs), result.Fetched, result.Unique, len(result.Failures), bySource,
	)
}

type sourceCount struct {
	source string
	total  int
}

func countJobsBySource(jobs []models.Job) []sourceCount {
	totals := make(map[string]int, len(jobs))
	for _, job := range jobs {
		id := strings.ToLower(strings.TrimSpace(job.Source))
		if id == "" {
			id = "unknown"
		}
		totals[id]++
	}

	counts := make([]sourceCount, 0, len(totals))
	for id, total := range totals {
		counts = append(counts, sourceCount{source: id, total: total})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].source < counts[j].source
	})
	return counts
}

func reportFailures(ctx *Context, failures []search.Failure) {
	if ctx == nil || ctx.UI == nil || len(failures) == 0 {
		return
	}

	if !ctx.Verbose {
		ctx.UI.Warnf("%d source(s) failed; rerun with --verbose for details", len(failures))
		return
	}

	ctx.UI.Warnf("\nSource errors:")
	for _, failure := range failures {
		ctx.UI.Warnf("  %s [%s]: %v", failure.Source, failure.Kind, failure.Err)
	}
}

func parseKeywords(raw string) ([]string, error) {
	return mergeAndNormalizeKeywords(splitList(raw), nil)
}

// resolveKeywords merges positional and file keywords. With neither, the
// preferred job titles stand in.
func resolveKeywords(raw string, keywordsFile string, prefs *models.UserPreferences) ([]string, error) {
	positional := splitList(raw)
	var fromFile []string
	if strings.TrimSpace(keywordsFile) != "" {
		var err error
		fromFile, err = loadKeywordsFromJSON(keywordsFile)
		if err != nil {
			return nil, err
		}
	}
	if len(positional) == 0 && len(fromFile) == 0 && prefs != nil {
		positional = prefs.PreferredJobTitles
	}
	return mergeAndNormalizeKeywords(positional, fromFile)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}

	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func mergeAndNormalizeKeywords(primary []string, secondary []string) ([]string, error) {
	keywords := make([]string, 0, len(primary)+len(secondary))
	seenKeywords := make(map[string]struct{}, len(primary)+len(secondary))

	appendUnique := func(raw string) {
		keyword := strings.TrimSpace(raw)
		if keyword == "" {
			return
		}
		normalized := strings.ToLower(keyword)
		if _, exists := seenKeywords[normalized]; exists {
			return
		}
		seenKeywords[normalized] = struct{}{}
		keywords = append(keywords, keyword)
	}

	for _, keyword := range primary {
		appendUnique(keyword)
	}
	for _, keyword := range secondary {
		appendUnique(keyword)
	}

	if len(keywords) == 0 {
		return nil, fmt.Errorf("at least one non-empty keyword is required")
	}
	if len(keywords) > maxKeywords {
		return nil, fmt.Errorf("too many keywords: max %d", maxKeywords)
	}

	return keywords, nil
}

func loadKeywordsFromJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --keywords-file %q: %w", path, err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse --keywords-file %q: %w", path, err)
	}

	switch value := decoded.(type) {
	case []any:
		return parseStringArray(value, path, "root array")
	case map[string]any:
		rawTitles, ok := value["job_titles"]
		if !ok {
			return nil, fmt.Errorf("invalid --keywords-file %q: expected top-level string array or object with \"job_titles\" string array", path)
		}
		titles, ok := rawTitles.([]any)
		if !ok {
			return nil, fmt.Errorf("invalid --keywords-file %q: field \"job_titles\" must be an array of strings", path)
		}
		return parseStringArray(titles, path, "job_titles")
	default:
		return nil, fmt.Errorf("invalid --keywords-file %q: expected top-level string array or object with \"job_titles\" string array", path)
	}
}

func parseStringArray(values []any, path string, fieldName string) ([]string, error) {
	keywords := make([]string, 0, len(values))
	for idx, rawValue := range values {
		keyword, ok := rawValue.(string)
		if !ok {
			return nil, fmt.Errorf("invalid --keywords-file %q: %s[%d] must be a string", path, fieldName, idx)
		}
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		keywords = append(keywords, keyword)
	}
	return keywords, nil
}

// resolveFormat picks the output format. Global --json/--plain win, then
// --format, then the output file extension; terminals get a table and pipes
// get TSV.
func resolveFormat(ctx *Context, opts SearchOptions, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}

	if outputPath != "" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".md", ".markdown":
			return export.FormatMarkdown, nil
		case ".tsv", ".txt":
			return export.FormatTSV, nil
		default:
			return export.FormatJSON, nil
		}
	}

	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatTSV, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startSearchIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KSearching... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
