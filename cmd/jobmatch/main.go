package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jimezsa/jobmatch/internal/cmd"
	"github.com/jimezsa/jobmatch/internal/config"
	"github.com/jimezsa/jobmatch/internal/ui"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("jobmatch"),
		kong.Description("Search job boards and rank postings by how well they match you."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("JOBMATCH_COLOR")), false).Errorf("%v", err)
		return 2
	}

	runCtx, err := newContext(cli, versionString)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := kctx.Run(runCtx); err != nil {
		runCtx.UI.Errorf("%v", err)
		return 1
	}
	return 0
}

// newContext loads the config and builds the UI and logger shared by every
// command.
func newContext(cli *cmd.CLI, versionString string) (*cmd.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	colorMode := ui.NormalizeColorMode(cli.Color)
	userInterface := ui.New(os.Stdout, os.Stderr, colorMode, cli.JSON || cli.Plain)

	return &cmd.Context{
		Out:        os.Stdout,
		Err:        os.Stderr,
		UI:         userInterface,
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     ui.NewLogger(os.Stderr, cli.Verbose, userInterface.ColorEnabled),
		Verbose:    cli.Verbose,
		JSONOutput: cli.JSON,
		PlainText:  cli.Plain,
		Version:    versionString,
		ColorMode:  colorMode,
	}, nil
}

func buildVersion() string {
	var extra []string
	if commit != "" {
		extra = append(extra, commit)
	}
	if date != "" {
		extra = append(extra, date)
	}
	if len(extra) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(extra, ", "))
}

func applyEnvDefaults(cli *cmd.CLI) {
	if envBool("JOBMATCH_JSON") {
		cli.JSON = true
	}
	if envBool("JOBMATCH_VERBOSE") {
		cli.Verbose = true
	}
	if value := os.Getenv("JOBMATCH_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
