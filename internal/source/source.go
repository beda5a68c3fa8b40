package source

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobmatch/internal/models"
)

// Source searches one upstream and maps its postings into models.Job.
//
// Implementations only touch the network; they never mutate shared state.
// Every returned error wraps ErrUnavailable, ErrRateLimited or
// ErrMalformedResponse.
type Source interface {
	Name() string
	Search(ctx context.Context, criteria models.SearchCriteria, cfg models.SourceConfig) ([]models.Job, error)
}

// ManagerSource populates a hiring-manager directory instead of returning jobs.
type ManagerSource interface {
	Name() string
	FetchManagers(ctx context.Context, cfg models.SourceConfig) (models.ManagerDirectory, error)
}

// Doer sends HTTP requests. *network.Client satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}
