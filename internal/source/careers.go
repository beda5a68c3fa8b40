package source

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobmatch/internal/models"
)

const SiteCareers = "careers"

// Careers reads schema.org JobPosting blocks from a company careers page.
// The page address comes from the source's "url" parameter.
type Careers struct {
	client Doer
	now    func() time.Time
}

func NewCareers(client Doer) *Careers {
	return &Careers{client: client, now: time.Now}
}

func (c *Careers) Name() string {
	return SiteCareers
}

func (c *Careers) Search(ctx context.Context, criteria models.SearchCriteria, cfg models.SourceConfig) ([]models.Job, error) {
	sourceID := cfg.ID
	if sourceID == "" {
		sourceID = SiteCareers
	}

	target := cfg.Param(models.ParamURL, "")
	if target == "" {
		return nil, classify(sourceID, transportError(errMissingURL))
	}

	doc, err := fetchDocument(ctx, c.client, target, nil)
	if err != nil {
		return nil, classify(sourceID, err)
	}

	keywords := criteria.CleanKeywords()
	var jobs []models.Job
	for _, job := range parseJSONLDJobs(doc, sourceID, target, c.now()) {
		if !matchesAnyWord(job.Title+" "+job.Description, keywords) {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func parseJSONLDJobs(doc *goquery.Document, sourceID string, pageURL string, now time.Time) []models.Job {
	var jobs []models.Job
	seen := map[string]struct{}{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}

		for _, posting := range extractPostings(data) {
			job := jobFromJobPosting(posting, sourceID, pageURL, now)
			key := job.URL
			if key == "" {
				key = job.ID
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			jobs = append(jobs, job)
		}
	})

	return jobs
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// extractPostings collects JobPosting objects, descending into arrays,
// ItemList elements, @graph and mainEntity.
func extractPostings(data any) []map[string]any {
	var postings []map[string]any

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			postings = append(postings, extractPostings(item)...)
		}
	case map[string]any:
		switch strings.ToLower(stringValue(value["@type"], value["type"])) {
		case "jobposting":
			return append(postings, value)
		case "itemlist":
			postings = append(postings, extractPostings(value["itemListElement"])...)
		case "listitem":
			postings = append(postings, extractPostings(value["item"])...)
		}
		if graph, ok := value["@graph"]; ok {
			postings = append(postings, extractPostings(graph)...)
		}
		if main, ok := value["mainEntity"]; ok {
			postings = append(postings, extractPostings(main)...)
		}
	}

	return postings
}

func jobFromJobPosting(value map[string]any, sourceID string, pageURL string, now time.Time) models.Job {
	job := models.Job{
		Title:       cleanText(stringValue(value["title"], value["name"])),
		Company:     stringValue(mapValue(value["hiringOrganization"], "name"), value["hiringOrganization"]),
		Location:    locationFromJSONLD(value["jobLocation"]),
		JobType:     employmentType(value["employmentType"]),
		Salary:      salaryFromJSONLD(value["baseSalary"]),
		PostedDate:  RelativeDate(stringValue(value["datePosted"]), now),
		Description: cleanText(stripTags(stringValue(value["description"]))),
		URL:         absoluteURL(pageURL, stringValue(value["url"], value["@id"])),
		Source:      sourceID,
	}
	if strings.EqualFold(stringValue(value["jobLocationType"]), "TELECOMMUTE") && !strings.Contains(strings.ToLower(job.Location), "remote") {
		job.Location = strings.TrimPrefix(job.Location+"; Remote", "; ")
	}
	applyDefaults(&job)
	job.ID = JobID(sourceID, stringValue(mapValue(value["identifier"], "value"), value["identifier"]), job.Title, job.Company)
	return job
}

func employmentType(value any) string {
	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return stringValue(v)
	}
}

func salaryFromJSONLD(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case map[string]any:
		currency := stringValue(v["currency"])
		if amount := mapValue(v["value"], "value"); amount != nil {
			return strings.TrimSpace(stringValue(amount) + " " + currency)
		}
		if amount := mapValue(v["value"], "minValue"); amount != nil {
			minStr := stringValue(amount)
			maxStr := stringValue(mapValue(v["value"], "maxValue"))
			if maxStr != "" {
				return strings.TrimSpace(minStr + " - " + maxStr + " " + currency)
			}
			return strings.TrimSpace(minStr + " " + currency)
		}
	case string:
		return v
	}
	return ""
}

func locationFromJSONLD(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			loc := locationFromJSONLD(item)
			if loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		address := v["address"]
		if addressMap, ok := address.(map[string]any); ok {
			return joinAddress(addressMap)
		}
		return joinAddress(v)
	case string:
		return v
	}

	return ""
}

func joinAddress(value map[string]any) string {
	parts := []string{
		stringValue(value["addressLocality"]),
		stringValue(value["addressRegion"]),
		stringValue(value["addressCountry"]),
	}
	var cleaned []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cleaned = append(cleaned, part)
	}
	return strings.Join(cleaned, ", ")
}

// stripTags drops markup from JobPosting descriptions, which are usually HTML.
func stripTags(value string) string {
	if !strings.Contains(value, "<") {
		return value
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return value
	}
	return doc.Text()
}
