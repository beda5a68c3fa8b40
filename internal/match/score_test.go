package match

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jimezsa/jobmatch/internal/models"
)

func intPtr(v int) *int { return &v }

func criteria(keywords ...string) models.SearchCriteria {
	return models.SearchCriteria{Keywords: keywords}
}

func TestScoreExample(t *testing.T) {
	job := models.Job{
		Title:       "Senior Python Engineer",
		Description: "We use python and django every day.",
		PostedDate:  "Today",
	}

	score, reasons := Score(job, criteria("python"), nil)
	if score != 43 {
		t.Fatalf("score = %d, want 43 (reasons %v)", score, reasons)
	}
	want := []string{
		"Title matches 1 keyword(s): +25 points",
		"Description matches 1 keyword(s): +3 points",
		"Job posted today: +15 points",
	}
	if !reflect.DeepEqual(reasons, want) {
		t.Fatalf("reasons = %v, want %v", reasons, want)
	}
}

func TestScoreSteps(t *testing.T) {
	cases := []struct {
		name     string
		job      models.Job
		keywords []string
		prefs    *models.UserPreferences
		score    int
		reasons  int
	}{
		{
			name:     "no match",
			job:      models.Job{Title: "Chef", Description: "Cook food", PostedDate: "30+ days ago"},
			keywords: []string{"golang"},
			score:    0,
		},
		{
			name:     "title capped at 40",
			job:      models.Job{Title: "go golang gopher backend api"},
			keywords: []string{"go", "golang", "gopher", "backend", "api"},
			score:    40,
			reasons:  1,
		},
		{
			name:     "description capped at 20",
			job:      models.Job{Description: "a b c d e f g"},
			keywords: []string{"a", "b", "c", "d", "e", "f", "g"},
			score:    20,
			reasons:  1,
		},
		{
			name:     "case insensitive",
			job:      models.Job{Title: "GOLANG Dev"},
			keywords: []string{"golang"},
			score:    25,
			reasons:  1,
		},
		{
			name:     "blank keywords ignored",
			job:      models.Job{Title: "Golang Dev"},
			keywords: []string{"", "  ", "golang"},
			score:    25,
			reasons:  1,
		},
		{
			name:     "yesterday",
			job:      models.Job{PostedDate: "Posted yesterday"},
			keywords: []string{"x"},
			score:    10,
			reasons:  1,
		},
		{
			name:     "days ago",
			job:      models.Job{PostedDate: "3 days ago"},
			keywords: []string{"x"},
			score:    7,
			reasons:  1,
		},
		{
			name:     "older than a week",
			job:      models.Job{PostedDate: "8 days ago"},
			keywords: []string{"x"},
			score:    0,
		},
		{
			name:     "unparseable date",
			job:      models.Job{PostedDate: "last month"},
			keywords: []string{"x"},
			score:    0,
		},
		{
			name:     "preferred location",
			job:      models.Job{Location: "Berlin, Germany"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{PreferredLocations: []string{"Munich", "berlin"}},
			score:    15,
			reasons:  1,
		},
		{
			name:     "remote only ignores preferred locations for on-site jobs",
			job:      models.Job{Location: "Austin, TX"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{RemoteOnly: true, PreferredLocations: []string{"Austin"}},
			score:    0,
			reasons:  0,
		},
		{
			name:     "salary meets minimum",
			job:      models.Job{Salary: "$90k - $120k"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{MinSalary: intPtr(100000)},
			score:    10,
			reasons:  1,
		},
		{
			name:     "salary below minimum",
			job:      models.Job{Salary: "$60,000 - $80,000"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{MinSalary: intPtr(100000)},
			score:    0,
		},
		{
			name:     "retirement plan is not a salary",
			job:      models.Job{Salary: "Competitive + 401k"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{MinSalary: intPtr(100000)},
			score:    0,
		},
		{
			name:     "weeks old posting earns nothing",
			job:      models.Job{PostedDate: "2 weeks ago"},
			keywords: []string{"x"},
			score:    0,
		},
		{
			name:     "salary without numbers",
			job:      models.Job{Salary: "Competitive"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{MinSalary: intPtr(1)},
			score:    0,
		},
		{
			name:     "zero min salary is unset",
			job:      models.Job{Salary: "100"},
			keywords: []string{"x"},
			prefs:    &models.UserPreferences{MinSalary: intPtr(0)},
			score:    0,
		},
		{
			name:     "preferences ignored when nil",
			job:      models.Job{Location: "Remote", Salary: "200k"},
			keywords: []string{"x"},
			score:    0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, reasons := Score(tc.job, criteria(tc.keywords...), tc.prefs)
			if score != tc.score {
				t.Fatalf("score = %d, want %d (reasons %v)", score, tc.score, reasons)
			}
			if len(reasons) != tc.reasons {
				t.Fatalf("reasons = %v, want %d entries", reasons, tc.reasons)
			}
			if reasons == nil {
				t.Fatalf("reasons must not be nil")
			}
		})
	}
}

func TestScoreRemoteAppliedOnce(t *testing.T) {
	job := models.Job{Location: "Remote - US"}
	prefs := &models.UserPreferences{RemoteOnly: true, PreferredLocations: []string{"Remote", "US"}}

	score, reasons := Score(job, criteria("x"), prefs)
	if score != 15 {
		t.Fatalf("score = %d, want 15", score)
	}
	if len(reasons) != 1 || reasons[0] != "Remote job matches preference: +15 points" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScoreMaximum(t *testing.T) {
	job := models.Job{
		Title:       "go golang gopher backend api cloud k8s",
		Description: "go golang gopher backend api cloud k8s",
		PostedDate:  "today",
		Location:    "Remote",
		Salary:      "$250k",
	}
	keywords := []string{"go", "golang", "gopher", "backend", "api", "cloud", "k8s"}
	prefs := &models.UserPreferences{RemoteOnly: true, MinSalary: intPtr(100000)}

	score, reasons := Score(job, criteria(keywords...), prefs)
	if score != MaxScore {
		t.Fatalf("score = %d, want %d", score, MaxScore)
	}
	if len(reasons) != 5 {
		t.Fatalf("expected 5 reasons, got %v", reasons)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	job := models.Job{Title: "Java Developer", Description: "java spring", PostedDate: "2 days ago", Location: "Remote", Salary: "120k"}
	prefs := &models.UserPreferences{RemoteOnly: true, MinSalary: intPtr(100000)}

	s1, r1 := Score(job, criteria("java", "spring"), prefs)
	s2, r2 := Score(job, criteria("java", "spring"), prefs)
	if s1 != s2 || !reflect.DeepEqual(r1, r2) {
		t.Fatalf("Score() not deterministic: (%d %v) vs (%d %v)", s1, r1, s2, r2)
	}
}

func TestScoreAll(t *testing.T) {
	jobs := []models.Job{{Title: "Go"}, {Title: "Rust"}}
	ScoreAll(jobs, criteria("go"), nil)
	if jobs[0].MatchScore != 25 || jobs[1].MatchScore != 0 {
		t.Fatalf("unexpected scores: %d %d", jobs[0].MatchScore, jobs[1].MatchScore)
	}
	if jobs[1].MatchReasons == nil {
		t.Fatalf("unscored jobs should carry an empty reasons list")
	}
}

func FuzzScore(f *testing.F) {
	f.Add("Senior Python Engineer", "python django", "Today", "Remote - US", "$120k", "python,django", 100000, true)
	f.Add("", "", "", "", "", "", 0, false)
	f.Add("a a a", "a", "0 days ago", "Berlin", "1e9", "a,a,a,a,a,a,a,a,a,a", -5, false)
	f.Add("x", "y", "99999999999999999999 days ago", "remote", "k k k", ",", 1, true)

	f.Fuzz(func(t *testing.T, title, description, posted, location, salary, keywords string, minSalary int, remote bool) {
		job := models.Job{Title: title, Description: description, PostedDate: posted, Location: location, Salary: salary}
		prefs := &models.UserPreferences{
			MinSalary:          &minSalary,
			RemoteOnly:         remote,
			PreferredLocations: strings.Split(location, " "),
		}

		score, reasons := Score(job, criteria(strings.Split(keywords, ",")...), prefs)
		if score < MinScore || score > MaxScore {
			t.Fatalf("score %d out of range", score)
		}
		again, againReasons := Score(job, criteria(strings.Split(keywords, ",")...), prefs)
		if again != score || !reflect.DeepEqual(reasons, againReasons) {
			t.Fatalf("Score() not deterministic")
		}
	})
}
