package models

import (
	"fmt"
	"strings"
)

// SearchCriteria captures the caller's search request.
type SearchCriteria struct {
	Keywords []string `json:"keywords"`
	Location string   `json:"location,omitempty"`
	JobType  string   `json:"job_type,omitempty"`
	// Sources lists the source ids to query. Empty means every enabled source.
	Sources []string `json:"sources,omitempty"`
}

// ValidationError reports malformed search input. It is raised before any
// network access happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks that at least one keyword is non-empty.
func (c SearchCriteria) Validate() error {
	for _, keyword := range c.Keywords {
		if strings.TrimSpace(keyword) != "" {
			return nil
		}
	}
	return &ValidationError{Field: "keywords", Message: "at least one non-empty keyword is required"}
}

// CleanKeywords returns the trimmed, non-empty keywords in their original order.
func (c SearchCriteria) CleanKeywords() []string {
	out := make([]string, 0, len(c.Keywords))
	for _, keyword := range c.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		out = append(out, keyword)
	}
	return out
}

// Query joins the keywords with spaces, the form most upstream APIs accept.
func (c SearchCriteria) Query() string {
	return strings.Join(c.CleanKeywords(), " ")
}

func lowerKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
