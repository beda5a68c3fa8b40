package match

import "github.com/jimezsa/jobmatch/internal/models"

// Dedupe drops every job whose exact (title, company) pair was already seen.
// The first occurrence wins and relative order is kept. Matching is
// case-sensitive on the strings the sources produced.
func Dedupe(jobs []models.Job) []models.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		key := job.Title + "\x00" + job.Company
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}
