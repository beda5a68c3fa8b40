package match

import (
	"sort"

	"github.com/jimezsa/jobmatch/internal/models"
)

// Rank sorts jobs by descending MatchScore. The sort is stable and has no
// secondary key, so ties keep their incoming order.
func Rank(jobs []models.Job) []models.Job {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].MatchScore > jobs[j].MatchScore
	})
	return jobs
}

// FilterMinScore drops jobs scoring below threshold. A threshold of zero or
// less keeps everything.
func FilterMinScore(jobs []models.Job, threshold int) []models.Job {
	if threshold <= 0 {
		return jobs
	}
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.MatchScore >= threshold {
			out = append(out, job)
		}
	}
	return out
}
