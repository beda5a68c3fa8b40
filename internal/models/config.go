package models

// Well-known SourceConfig parameter keys.
const (
	ParamHost   = "host"
	ParamAPIKey = "api_key"
	ParamURL    = "url"
)

// SourceConfig holds the connection settings for one source. Params are
// passed through to the adapter unchanged.
type SourceConfig struct {
	ID      string
	Enabled bool
	Params  map[string]string
}

// Param returns the named parameter or fallback when it is unset.
func (c SourceConfig) Param(key, fallback string) string {
	if value, ok := c.Params[key]; ok && value != "" {
		return value
	}
	return fallback
}

// UserPreferences is a read-only snapshot of the searcher's preferences.
type UserPreferences struct {
	PreferredJobTitles []string `json:"preferred_job_titles,omitempty"`
	// MinSalary is compared against the largest figure in a posting's salary
	// text. Nil or zero disables the check.
	MinSalary          *int     `json:"min_salary,omitempty"`
	PreferredLocations []string `json:"preferred_locations,omitempty"`
	RemoteOnly         bool     `json:"remote_only,omitempty"`
}

// IsZero reports whether no preference is set.
func (p UserPreferences) IsZero() bool {
	return len(p.PreferredJobTitles) == 0 &&
		(p.MinSalary == nil || *p.MinSalary == 0) &&
		len(p.PreferredLocations) == 0 &&
		!p.RemoteOnly
}
