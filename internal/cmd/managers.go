package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobmatch/internal/enrich"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/source"
)

type ManagersCmd struct {
	Refresh ManagersRefreshCmd `cmd:"" help:"Fetch the hiring manager directory and save it locally."`
	Show    ManagersShowCmd    `cmd:"" help:"Print the saved hiring manager directory."`
}

type ManagersRefreshCmd struct {
	Proxies string `help:"Comma-separated proxy URLs."`
}

type ManagersShowCmd struct {
	Company string `arg:"" optional:"" help:"Only show the manager used for this company."`
}

type managerRow struct {
	Company string `json:"company"`
	models.HiringManager
}

func (c *ManagersRefreshCmd) Run(ctx *Context) error {
	registry, err := ctx.registry(c.Proxies)
	if err != nil {
		return err
	}
	directory, err := ctx.directory(registry, ctx.sourceConfigs())
	if err != nil {
		return err
	}

	refreshCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.Timeout())
	defer cancel()
	if err := directory.Refresh(refreshCtx); err != nil {
		if errors.Is(err, enrich.ErrNotConfigured) {
			return fmt.Errorf("add a %q entry under sources in the config file", source.SiteHiringManager)
		}
		return fmt.Errorf("refresh hiring managers [%s]: %w", source.Kind(err), err)
	}

	path := ctx.managersPath()
	if err := directory.Save(path); err != nil {
		return err
	}
	ctx.UI.Successf("Saved %d companies to %s", len(directory.Snapshot(refreshCtx)), path)
	return nil
}

func (c *ManagersShowCmd) Run(ctx *Context) error {
	directory := enrich.NewDirectory(nil, models.SourceConfig{}, ctx.Logger)
	if err := directory.Load(ctx.managersPath()); err != nil {
		return err
	}
	entries := directory.Snapshot(context.Background())

	var rows []managerRow
	if company := strings.TrimSpace(c.Company); company != "" {
		if manager, ok := entries.Lookup(company); ok {
			rows = append(rows, managerRow{Company: company, HiringManager: manager})
		}
	} else {
		rows = directoryRows(entries)
	}

	if ctx.JSONOutput {
		if rows == nil {
			rows = []managerRow{}
		}
		return writeJSON(ctx.Out, rows)
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if !ctx.PlainText {
		fmt.Fprintln(tw, "company\tname\ttitle\temail\tphone")
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Company, row.Name, row.Title, row.Email, row.Phone)
	}
	return tw.Flush()
}

func directoryRows(entries models.ManagerDirectory) []managerRow {
	companies := make([]string, 0, len(entries))
	for company := range entries {
		companies = append(companies, company)
	}
	sort.Strings(companies)

	rows := make([]managerRow, 0, len(companies))
	for _, company := range companies {
		for _, manager := range entries[company] {
			rows = append(rows, managerRow{Company: company, HiringManager: manager})
		}
	}
	return rows
}
