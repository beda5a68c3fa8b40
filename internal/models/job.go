package models

const (
	DefaultTitle   = "Unknown Position"
	DefaultCompany = "Unknown Company"
)

// Job is the normalized posting returned by sources.
//
// MatchScore and MatchReasons are filled in by the scorer; HiringManager is
// attached by the enricher and stays nil when no contact is known.
type Job struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Company       string         `json:"company"`
	Location      string         `json:"location"`
	JobType       string         `json:"job_type"`
	Salary        string         `json:"salary"`
	PostedDate    string         `json:"posted_date"`
	Description   string         `json:"description"`
	URL           string         `json:"url"`
	Source        string         `json:"source"`
	MatchScore    int            `json:"match_score"`
	MatchReasons  []string       `json:"match_reasons"`
	HiringManager *HiringManager `json:"hiring_manager"`
}

// HiringManager is a contact for the company behind a posting.
type HiringManager struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ManagerDirectory maps a lower-cased company name to its known contacts,
// in the order the upstream returned them.
type ManagerDirectory map[string][]HiringManager

// Lookup returns the first contact for company, matching case-insensitively.
func (d ManagerDirectory) Lookup(company string) (HiringManager, bool) {
	if len(d) == 0 {
		return HiringManager{}, false
	}
	managers := d[lowerKey(company)]
	if len(managers) == 0 {
		return HiringManager{}, false
	}
	return managers[0], true
}

// Add appends a contact under the lower-cased company key. Empty company
// names are ignored.
func (d ManagerDirectory) Add(company string, manager HiringManager) {
	key := lowerKey(company)
	if key == "" {
		return
	}
	d[key] = append(d[key], manager)
}
