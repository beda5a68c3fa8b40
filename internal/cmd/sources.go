package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobmatch/internal/models"
)

type SourcesCmd struct{}

type sourceStatus struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
	Key     bool   `json:"api_key"`
	URL     string `json:"url,omitempty"`
}

func (s *SourcesCmd) Run(ctx *Context) error {
	registry, err := ctx.registry("")
	if err != nil {
		return err
	}
	configs := ctx.sourceConfigs()

	ids := make([]string, 0, len(registry.Sources)+1)
	for id := range registry.Sources {
		ids = append(ids, id)
	}
	if registry.Managers != nil {
		ids = append(ids, registry.Managers.Name())
	}
	sort.Strings(ids)

	statuses := make([]sourceStatus, 0, len(ids))
	for _, id := range ids {
		cfg := configs[id]
		statuses = append(statuses, sourceStatus{
			ID:      id,
			Enabled: cfg.Enabled,
			Key:     strings.TrimSpace(cfg.Param(models.ParamAPIKey, "")) != "",
			URL:     cfg.Param(models.ParamURL, ""),
		})
	}

	if ctx.JSONOutput {
		return writeJSON(ctx.Out, statuses)
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if !ctx.PlainText {
		fmt.Fprintln(tw, "source\tenabled\tapi_key\turl")
	}
	for _, status := range statuses {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%s\n", status.ID, status.Enabled, status.Key, status.URL)
	}
	return tw.Flush()
}
