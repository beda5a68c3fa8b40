package source

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobmatch/internal/models"
)

const (
	SiteHiringManager = "hiring_manager"

	defaultManagersURL = "https://hiring-manager-api.p.rapidapi.com/recruitment-manager-24h"
)

// Managers fetches the hiring-manager feed. It returns no jobs; its result
// feeds the enricher's directory.
type Managers struct {
	client Doer
}

func NewManagers(client Doer) *Managers {
	return &Managers{client: client}
}

func (m *Managers) Name() string {
	return SiteHiringManager
}

func (m *Managers) FetchManagers(ctx context.Context, cfg models.SourceConfig) (models.ManagerDirectory, error) {
	apiKey := cfg.Param(models.ParamAPIKey, "")
	if apiKey == "" {
		return nil, classify(SiteHiringManager, transportError(errMissingKey))
	}

	target := cfg.Param(models.ParamURL, defaultManagersURL)
	headers := map[string]string{
		"x-rapidapi-host": cfg.Param(models.ParamHost, hostOf(target)),
		"x-rapidapi-key":  apiKey,
	}

	data, err := fetchJSON(ctx, m.client, fhttp.MethodGet, target, nil, headers)
	if err != nil {
		return nil, classify(SiteHiringManager, err)
	}

	items, err := itemsAt(data, "managers")
	if err != nil {
		return nil, classify(SiteHiringManager, err)
	}

	directory := models.ManagerDirectory{}
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		directory.Add(stringValue(item["company"]), models.HiringManager{
			Name:  stringValue(item["name"]),
			Title: stringValue(item["title"]),
			Email: stringValue(item["email"]),
			Phone: stringValue(item["phone"]),
		})
	}
	return directory, nil
}
