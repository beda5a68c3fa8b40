package source

import (
	"strings"

	"github.com/jimezsa/jobmatch/internal/network"
)

// Registry holds every job source plus the hiring-manager directory source.
type Registry struct {
	Sources  map[string]Source
	Managers ManagerSource
}

// NewRegistry builds one network client per source so cookies and proxy
// state never leak between upstreams.
func NewRegistry(rotator *network.Rotator, opts network.Options) (*Registry, error) {
	makeClient := func() (*network.Client, error) {
		return network.NewClient(rotator, opts)
	}

	sources := make(map[string]Source, len(Catalog())+1)
	for _, mapping := range Catalog() {
		client, err := makeClient()
		if err != nil {
			return nil, err
		}
		sources[mapping.ID] = NewAPISource(mapping, client)
	}

	careers, err := makeClient()
	if err != nil {
		return nil, err
	}
	sources[SiteCareers] = NewCareers(careers)

	managers, err := makeClient()
	if err != nil {
		return nil, err
	}

	return &Registry{
		Sources:  sources,
		Managers: NewManagers(managers),
	}, nil
}

// DefaultIDs returns the catalog source ids that are enabled by default
// whenever an API key is available.
func DefaultIDs() []string {
	catalog := Catalog()
	ids := make([]string, 0, len(catalog))
	for _, mapping := range catalog {
		ids = append(ids, mapping.ID)
	}
	return ids
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.ReplaceAll(site, "-", "_")
		out = append(out, site)
	}
	return out
}
