package source

import (
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobmatch/internal/models"
)

const (
	SiteIndeed         = "indeed"
	SiteUpwork         = "upwork"
	SiteGoogle         = "google"
	SiteWorkday        = "workday"
	SiteGlassdoor      = "glassdoor"
	SiteStartup        = "startup"
	SiteJobSearch      = "job_search"
	SiteInternships    = "internships"
	SiteActiveJobs     = "active_jobs"
	SiteIndeedAPI      = "indeed_api"
	SiteJobsAPI        = "jobs_api"
	SiteLinkedInSearch = "linkedin_search"
	SiteLinkedInJob    = "linkedin_job"
	SiteGoogleJobs     = "google_jobs"
	SiteWorkdayJobs    = "workday_jobs"
	SiteGlassdoorJobs  = "glassdoor_jobs"
	SiteStartupJobs    = "startup_jobs"
	SiteJobSearchAPI   = "job_search_api"
)

// standardFields is the item shape most RapidAPI job feeds share.
func standardFields() FieldMap {
	return FieldMap{
		ID:          Field{Path: "id"},
		Title:       Field{Path: "title"},
		Company:     Field{Path: "company"},
		Location:    Field{Path: "location"},
		JobType:     Field{Path: "job_type"},
		Salary:      Field{Path: "salary"},
		PostedDate:  Field{Path: "date"},
		Description: Field{Path: "description"},
		URL:         Field{Path: "url"},
	}
}

func withFields(base FieldMap, edit func(*FieldMap)) FieldMap {
	edit(&base)
	return base
}

// variant reuses a mapping under another source id, for providers that
// expose the same API through a second listing.
func variant(base Mapping, id string, edit func(*Mapping)) Mapping {
	base.ID = id
	if edit != nil {
		edit(&base)
	}
	return base
}

func glassdoorPayload(criteria models.SearchCriteria) any {
	location := criteria.Location
	if location == "" {
		location = "United States"
	}
	return map[string]any{
		"scraper": map[string]any{
			"filters": map[string]any{
				"country":  "us",
				"keyword":  criteria.Query(),
				"location": location,
			},
			"maxRows": 20,
		},
	}
}

var (
	indeedMapping = Mapping{
		ID:            SiteIndeed,
		URL:           "https://indeed46.p.rapidapi.com/job",
		Query:         map[string]string{"country": "US", "sort": "-1", "page_size": "20"},
		KeywordParam:  "query",
		LocationParam: "location",
		ItemsPath:     "items",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.ID.Path = "job_id"
			f.Company.Path = "company_name"
			f.PostedDate.Path = "posted_at"
		}),
	}

	upworkMapping = Mapping{
		ID:          SiteUpwork,
		URL:         "https://upwork-jobs.p.rapidapi.com/jobs",
		ItemsPath:   "jobs",
		FilterTitle: true,
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.Company = Field{Default: "Upwork Client"}
			f.Location = Field{Default: "Remote"}
			f.JobType = Field{Path: "type", Default: "Contract"}
			f.Salary.Path = "budget.amount"
			f.PostedDate.Path = "date_created"
		}),
	}

	googleMapping = Mapping{
		ID:            SiteGoogle,
		URL:           "https://google-jobs-api.p.rapidapi.com/google-jobs/job-type",
		KeywordParam:  "include",
		LocationParam: "location",
		JobTypeParam:  "jobType",
		ItemsPath:     "jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.ID = Field{}
			f.JobType.Path = "jobType"
			f.PostedDate.Path = "posted"
		}),
	}

	workdayMapping = Mapping{
		ID:            SiteWorkday,
		URL:           "https://workday-jobs-api.p.rapidapi.com/active-ats-24h",
		KeywordParam:  "title_filter",
		LocationParam: "location_filter",
		QuoteFilters:  true,
		ItemsPath:     "jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Default: "Full-time"}
			f.PostedDate.Path = "posted_date"
		}),
	}

	glassdoorMapping = Mapping{
		ID:        SiteGlassdoor,
		Method:    fhttp.MethodPost,
		URL:       "https://glassdoor-jobs-scraper-api.p.rapidapi.com/api/job/wait",
		Payload:   glassdoorPayload,
		ItemsPath: "data.jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType.Path = "jobType"
			f.PostedDate.Path = "postedDate"
		}),
	}

	startupMapping = Mapping{
		ID:          SiteStartup,
		URL:         "https://startup-jobs-api.p.rapidapi.com/active-jb-7d",
		Query:       map[string]string{"source": "ycombinator"},
		ItemsPath:   "jobs",
		FilterTitle: true,
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Default: "Full-time"}
			f.Salary = Field{}
		}),
	}

	jobSearchMapping = Mapping{
		ID:            SiteJobSearch,
		URL:           "https://job-search-api2.p.rapidapi.com/active-ats-expired",
		KeywordParam:  "title_filter",
		LocationParam: "location_filter",
		ItemsPath:     "jobs",
		Fields:        standardFields(),
	}

	internshipsMapping = Mapping{
		ID:             SiteInternships,
		URL:            "https://internships-api.p.rapidapi.com/active-jb-7d",
		ItemsPath:      "jobs",
		FilterTitle:    true,
		FilterLocation: true,
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Default: "Internship"}
		}),
	}

	activeJobsMapping = Mapping{
		ID:            SiteActiveJobs,
		URL:           "https://active-jobs-db.p.rapidapi.com/active-ats-1h",
		Query:         map[string]string{"offset": "0", "description_type": "text"},
		KeywordParam:  "title_filter",
		LocationParam: "location_filter",
		QuoteFilters:  true,
		ItemsPath:     "jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Path: "type", Default: "Full-time"}
			// The feed only carries postings from the last hour.
			f.PostedDate = Field{Default: "Today"}
		}),
	}

	indeedAPIMapping = Mapping{
		ID:            SiteIndeedAPI,
		URL:           "https://indeed-jobs-api.p.rapidapi.com/indeed-us/",
		Query:         map[string]string{"offset": "0"},
		KeywordParam:  "keyword",
		LocationParam: "location",
		ItemsPath:     "jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Path: "type", Default: "Full-time"}
			f.PostedDate.Path = "date_posted"
		}),
	}

	jobsAPIMapping = Mapping{
		ID:            SiteJobsAPI,
		URL:           "https://jobs-api22.p.rapidapi.com/tags",
		Query:         map[string]string{"levels": "Entry", "industry": "Technology"},
		KeywordParam:  "skill",
		LocationParam: "locations",
		ItemsPath:     "jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Path: "type", Default: "Full-time"}
			f.PostedDate.Path = "date_posted"
		}),
	}

	linkedInSearchMapping = Mapping{
		ID:            SiteLinkedInSearch,
		URL:           "https://linkedin-job-search-api.p.rapidapi.com/active-jb-7d",
		Query:         map[string]string{"limit": "10", "offset": "0"},
		KeywordParam:  "title_filter",
		LocationParam: "location_filter",
		QuoteFilters:  true,
		ItemsPath:     "jobs",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.JobType = Field{Path: "type", Default: "Full-time"}
		}),
	}

	linkedInJobMapping = Mapping{
		ID:           SiteLinkedInJob,
		URL:          "https://linkedin-job-api.p.rapidapi.com/job/search",
		Query:        map[string]string{"page": "1"},
		KeywordParam: "keyword",
		ItemsPath:    "data",
		Fields: withFields(standardFields(), func(f *FieldMap) {
			f.ID.Path = "jobId"
			f.Title.Path = "jobTitle"
			f.Company.Path = "companyName"
			f.JobType = Field{Default: "Full-time"}
			f.Salary = Field{}
			f.PostedDate.Path = "postedAt"
			f.URL.Path = "jobUrl"
		}),
	}
)

// Catalog lists every JSON search API in a stable order.
func Catalog() []Mapping {
	return []Mapping{
		indeedMapping,
		upworkMapping,
		googleMapping,
		workdayMapping,
		glassdoorMapping,
		startupMapping,
		jobSearchMapping,
		internshipsMapping,
		activeJobsMapping,
		indeedAPIMapping,
		jobsAPIMapping,
		linkedInSearchMapping,
		linkedInJobMapping,
		variant(googleMapping, SiteGoogleJobs, func(m *Mapping) {
			m.Fields.JobType.Default = "Full-time"
		}),
		variant(workdayMapping, SiteWorkdayJobs, nil),
		variant(glassdoorMapping, SiteGlassdoorJobs, nil),
		variant(startupMapping, SiteStartupJobs, nil),
		variant(jobSearchMapping, SiteJobSearchAPI, nil),
	}
}
