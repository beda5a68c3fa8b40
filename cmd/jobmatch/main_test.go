package main

import (
	"testing"

	"github.com/jimezsa/jobmatch/internal/cmd"
)

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		commit, date string
		want         string
	}{
		{want: "1.2.0"},
		{commit: "abc123", want: "1.2.0 (abc123)"},
		{date: "2024-01-12", want: "1.2.0 (2024-01-12)"},
		{commit: "abc123", date: "2024-01-12", want: "1.2.0 (abc123, 2024-01-12)"},
	}

	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { version, commit, date = oldVersion, oldCommit, oldDate })

	for _, tt := range tests {
		version, commit, date = "1.2.0", tt.commit, tt.date
		if got := buildVersion(); got != tt.want {
			t.Fatalf("buildVersion() = %q, want %q", got, tt.want)
		}
	}
}

func TestApplyEnvDefaults(t *testing.T) {
	t.Setenv("JOBMATCH_JSON", "yes")
	t.Setenv("JOBMATCH_VERBOSE", "0")
	t.Setenv("JOBMATCH_COLOR", "never")

	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	if !cli.JSON {
		t.Fatalf("JSON = false, want true")
	}
	if cli.Verbose {
		t.Fatalf("Verbose = true, want false")
	}
	if cli.Color != "never" {
		t.Fatalf("Color = %q, want never", cli.Color)
	}
}
