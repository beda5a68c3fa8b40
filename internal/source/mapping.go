package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobmatch/internal/models"
)

// Field locates one Job field inside an upstream item. An empty Path means
// the field always takes Default.
type Field struct {
	Path    string
	Default string
}

// FieldMap maps upstream item fields onto the Job schema.
type FieldMap struct {
	ID          Field
	Title       Field
	Company     Field
	Location    Field
	JobType     Field
	Salary      Field
	PostedDate  Field
	Description Field
	URL         Field
}

// Mapping describes a JSON search API declaratively: how to build the
// request from SearchCriteria and where each Job field lives in the reply.
type Mapping struct {
	ID     string
	Method string
	URL    string

	// Query holds static query parameters sent on every request.
	Query         map[string]string
	KeywordParam  string
	LocationParam string
	JobTypeParam  string
	// QuoteFilters wraps keyword and location values in double quotes.
	QuoteFilters bool

	// Payload builds the JSON body for POST APIs.
	Payload func(criteria models.SearchCriteria) any

	// ItemsPath is the dotted path to the result array.
	ItemsPath string
	Fields    FieldMap

	// FilterTitle drops items whose title contains none of the keyword words,
	// for APIs that cannot filter server side.
	FilterTitle bool
	// FilterLocation drops items whose location does not contain the
	// requested location.
	FilterLocation bool
}

func (m Mapping) method() string {
	if m.Method == "" {
		return fhttp.MethodGet
	}
	return m.Method
}

// APISource runs a Mapping against a RapidAPI-style endpoint.
type APISource struct {
	mapping Mapping
	client  Doer
	now     func() time.Time
}

func NewAPISource(mapping Mapping, client Doer) *APISource {
	return &APISource{mapping: mapping, client: client, now: time.Now}
}

func (a *APISource) Name() string {
	return a.mapping.ID
}

func (a *APISource) Search(ctx context.Context, criteria models.SearchCriteria, cfg models.SourceConfig) ([]models.Job, error) {
	m := a.mapping
	sourceID := cfg.ID
	if sourceID == "" {
		sourceID = m.ID
	}

	apiKey := cfg.Param(models.ParamAPIKey, "")
	if apiKey == "" {
		return nil, classify(sourceID, transportError(errMissingKey))
	}

	target, err := a.buildURL(criteria, cfg)
	if err != nil {
		return nil, classify(sourceID, err)
	}

	headers := map[string]string{
		"x-rapidapi-host": cfg.Param(models.ParamHost, hostOf(target)),
		"x-rapidapi-key":  apiKey,
	}

	var payload any
	if m.Payload != nil {
		payload = m.Payload(criteria)
	}

	data, err := fetchJSON(ctx, a.client, m.method(), target, payload, headers)
	if err != nil {
		return nil, classify(sourceID, err)
	}

	items, err := itemsAt(data, m.ItemsPath)
	if err != nil {
		return nil, classify(sourceID, err)
	}

	keywords := criteria.CleanKeywords()
	location := strings.ToLower(strings.TrimSpace(criteria.Location))
	now := a.now()

	jobs := make([]models.Job, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		job := a.mapItem(item, sourceID, now)
		if m.FilterTitle && len(keywords) > 0 && !matchesAnyWord(stringValue(lookupPath(item, m.Fields.Title.Path)), keywords) {
			continue
		}
		if m.FilterLocation && location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (a *APISource) buildURL(criteria models.SearchCriteria, cfg models.SourceConfig) (string, error) {
	m := a.mapping
	u, err := url.Parse(cfg.Param(models.ParamURL, m.URL))
	if err != nil {
		return "", transportError(err)
	}

	values := u.Query()
	for key, value := range m.Query {
		values.Set(key, value)
	}

	quote := func(value string) string {
		if m.QuoteFilters {
			return `"` + value + `"`
		}
		return value
	}
	if query := criteria.Query(); query != "" && m.KeywordParam != "" {
		values.Set(m.KeywordParam, quote(query))
	}
	if location := strings.TrimSpace(criteria.Location); location != "" && m.LocationParam != "" {
		values.Set(m.LocationParam, quote(location))
	}
	if jobType := strings.TrimSpace(criteria.JobType); jobType != "" && m.JobTypeParam != "" {
		values.Set(m.JobTypeParam, jobType)
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}

func (a *APISource) mapItem(item map[string]any, sourceID string, now time.Time) models.Job {
	f := a.mapping.Fields
	job := models.Job{
		Title:       fieldValue(item, f.Title),
		Company:     fieldValue(item, f.Company),
		Location:    fieldValue(item, f.Location),
		JobType:     fieldValue(item, f.JobType),
		Salary:      fieldValue(item, f.Salary),
		PostedDate:  RelativeDate(fieldValue(item, f.PostedDate), now),
		Description: fieldValue(item, f.Description),
		URL:         fieldValue(item, f.URL),
		Source:      sourceID,
	}
	applyDefaults(&job)
	job.ID = JobID(sourceID, fieldValue(item, f.ID), job.Title, job.Company)
	return job
}

func fieldValue(item map[string]any, field Field) string {
	if field.Path == "" {
		return field.Default
	}
	if value := stringValue(lookupPath(item, field.Path)); value != "" {
		return value
	}
	return field.Default
}

func applyDefaults(job *models.Job) {
	if job.Title == "" {
		job.Title = models.DefaultTitle
	}
	if job.Company == "" {
		job.Company = models.DefaultCompany
	}
}

func itemsAt(data any, path string) ([]any, error) {
	value := lookupPath(data, path)
	if value == nil {
		if path != "" {
			if _, ok := data.(map[string]any); !ok {
				return nil, malformed("expected object at root, got %T", data)
			}
		}
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, malformed("expected array at %q, got %T", path, value)
	}
	return items, nil
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Host
}
