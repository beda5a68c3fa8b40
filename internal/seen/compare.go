package seen

import (
	"strings"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
)

const keySeparator = "::"

// Entry is one remembered posting. Its JSON fields line up with models.Job,
// so a saved result list can be read back as history.
type Entry struct {
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	URL        string    `json:"url,omitempty"`
	Source     string    `json:"source,omitempty"`
	MatchScore int       `json:"match_score"`
	FirstSeen  time.Time `json:"first_seen,omitempty"`
}

// EntryFor records job as seen at now.
func EntryFor(job models.Job, now time.Time) Entry {
	return Entry{
		Title:      job.Title,
		Company:    job.Company,
		URL:        job.URL,
		Source:     job.Source,
		MatchScore: job.MatchScore,
		FirstSeen:  now.UTC(),
	}
}

// DiffStats captures stats for A-B unseen filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for seen history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	Rescored     int
	TotalOut     int
}

// InvalidSkipped returns the total invalid records skipped during merge.
func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Normalize lower-cases value and collapses whitespace.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the normalized title+company key. Postings whose title or
// company is missing, or only the placeholder default, have no key.
func Key(title, company string) (string, bool) {
	if strings.TrimSpace(title) == models.DefaultTitle || strings.TrimSpace(company) == models.DefaultCompany {
		return "", false
	}
	title = Normalize(title)
	company = Normalize(company)
	if title == "" || company == "" {
		return "", false
	}
	return title + keySeparator + company, true
}

// JobKey is Key for a job.
func JobKey(job models.Job) (string, bool) {
	return Key(job.Title, job.Company)
}

// Diff returns the jobs whose key is not in history, keeping the first of
// any repeated keys and the incoming order.
func Diff(jobs []models.Job, history []Entry) ([]models.Job, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(jobs),
		TotalSeen: len(history),
	}

	seenKeys := make(map[string]struct{}, len(history))
	for _, entry := range history {
		key, ok := Key(entry.Title, entry.Company)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		seenKeys[key] = struct{}{}
	}

	newKeys := make(map[string]struct{}, len(jobs))
	unseen := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		key, ok := JobKey(job)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := newKeys[key]; exists {
			continue
		}
		newKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, job)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge folds jobs into history. Existing entries keep their position and
// first-seen time; their score is raised when a job scores higher. New keys
// are appended in input order.
func Merge(history []Entry, jobs []models.Job, now time.Time) ([]Entry, MergeStats) {
	stats := MergeStats{
		TotalSeen:  len(history),
		TotalInput: len(jobs),
	}

	index := make(map[string]int, len(history)+len(jobs))
	out := make([]Entry, 0, len(history)+len(jobs))

	for _, entry := range history {
		key, ok := Key(entry.Title, entry.Company)
		if !ok {
			stats.InvalidSeen++
			out = append(out, entry)
			continue
		}
		if _, exists := index[key]; exists {
			continue
		}
		index[key] = len(out)
		out = append(out, entry)
	}

	for _, job := range jobs {
		key, ok := JobKey(job)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if pos, exists := index[key]; exists {
			if job.MatchScore > out[pos].MatchScore {
				out[pos].MatchScore = job.MatchScore
				stats.Rescored++
			}
			continue
		}
		index[key] = len(out)
		out = append(out, EntryFor(job, now))
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
