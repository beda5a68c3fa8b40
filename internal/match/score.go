package match

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobmatch/internal/models"
)

const (
	MinScore = 0
	MaxScore = 100

	locationPoints = 15
	salaryPoints   = 10
)

// Score computes a job's match score and the reasons behind it. It is a pure
// function of its inputs. Steps run in a fixed order and each appends a
// reason only when it adds points:
//
//  1. keywords found in the title: min(40, 20+5n)
//  2. keywords found in the description: min(20, 3n)
//  3. recency: today 15, yesterday 10, N<=7 days ago 10-N
//  4. remote job when remote-only, otherwise a preferred location: 15
//  5. largest salary figure at or above MinSalary: 10
//
// Steps 4 and 5 only run when prefs is non-nil. The result is clamped to
// [MinScore, MaxScore] and reasons is never nil.
func Score(job models.Job, criteria models.SearchCriteria, prefs *models.UserPreferences) (int, []string) {
	score := 0
	reasons := []string{}
	keywords := criteria.CleanKeywords()

	if n := countMatches(job.Title, keywords); n > 0 {
		points := min(40, 20+5*n)
		score += points
		reasons = append(reasons, fmt.Sprintf("Title matches %d keyword(s): +%d points", n, points))
	}

	if n := countMatches(job.Description, keywords); n > 0 {
		points := min(20, 3*n)
		score += points
		reasons = append(reasons, fmt.Sprintf("Description matches %d keyword(s): +%d points", n, points))
	}

	if points, reason := recencyPoints(job.PostedDate); points > 0 {
		score += points
		reasons = append(reasons, reason)
	}

	if prefs != nil {
		if reason, ok := locationMatch(job.Location, prefs); ok {
			score += locationPoints
			reasons = append(reasons, reason)
		}
		if salaryMeets(job.Salary, prefs.MinSalary) {
			score += salaryPoints
			reasons = append(reasons, fmt.Sprintf("Salary meets minimum requirement: +%d points", salaryPoints))
		}
	}

	return max(MinScore, min(MaxScore, score)), reasons
}

// ScoreAll scores every job in place and returns the same slice.
func ScoreAll(jobs []models.Job, criteria models.SearchCriteria, prefs *models.UserPreferences) []models.Job {
	for i := range jobs {
		jobs[i].MatchScore, jobs[i].MatchReasons = Score(jobs[i], criteria, prefs)
	}
	return jobs
}

func countMatches(text string, keywords []string) int {
	text = strings.ToLower(text)
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			count++
		}
	}
	return count
}

func locationMatch(location string, prefs *models.UserPreferences) (string, bool) {
	lower := strings.ToLower(location)
	if prefs.RemoteOnly {
		if strings.Contains(lower, "remote") {
			return fmt.Sprintf("Remote job matches preference: +%d points", locationPoints), true
		}
		return "", false
	}
	for _, preferred := range prefs.PreferredLocations {
		preferred = strings.TrimSpace(preferred)
		if preferred == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(preferred)) {
			return fmt.Sprintf("Location %s matches preference: +%d points", preferred, locationPoints), true
		}
	}
	return "", false
}

func salaryMeets(salary string, minSalary *int) bool {
	if minSalary == nil || *minSalary == 0 || strings.TrimSpace(salary) == "" {
		return false
	}
	value, ok := maxSalary(salary)
	return ok && value >= float64(*minSalary)
}
