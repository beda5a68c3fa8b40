package enrich

import "github.com/jimezsa/jobmatch/internal/models"

// Enrich attaches the first known hiring manager for each job's company, or
// clears the field when the directory has none. It never touches the network.
func Enrich(jobs []models.Job, directory models.ManagerDirectory) []models.Job {
	for i := range jobs {
		manager, ok := directory.Lookup(jobs[i].Company)
		if !ok {
			jobs[i].HiringManager = nil
			continue
		}
		jobs[i].HiringManager = &manager
	}
	return jobs
}
