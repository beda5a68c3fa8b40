package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobmatch/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default config and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective config (file plus JOBMATCH_* overrides) as JSON."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if cfg.RapidAPIKey != "" {
		cfg.RapidAPIKey = redacted
	}
	sources := make(map[string]config.SourceSettings, len(cfg.Sources))
	for id, settings := range cfg.Sources {
		if settings.APIKey != "" {
			settings.APIKey = redacted
		}
		sources[id] = settings
	}
	cfg.Sources = sources
	return writeJSON(ctx.Out, cfg)
}

const redacted = "********"
