package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadFileJSON5(t *testing.T) {
	t.Setenv("JOBMATCH_RAPIDAPI_KEY", "")
	path := writeFile(t, "config.json", `{
		// comments and trailing commas are fine
		default_location: "Berlin",
		concurrency: 4,
		min_score: 20,
		rapidapi_key: "file-key",
		sources: {
			indeed: {host: "indeed.example"},
			upwork: {enabled: false},
		},
		preferences: {
			remote_only: true,
			min_salary: 90000,
			preferred_locations: ["Berlin", "Remote"],
		},
	}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.DefaultLocation != "Berlin" || cfg.Concurrency != 4 || cfg.MinScore != 20 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TimeoutSeconds != defaultTimeoutSeconds {
		t.Fatalf("default timeout lost: %d", cfg.TimeoutSeconds)
	}
	if !cfg.Preferences.RemoteOnly || cfg.Preferences.MinSalary == nil || *cfg.Preferences.MinSalary != 90000 {
		t.Fatalf("unexpected preferences: %+v", cfg.Preferences)
	}
	if cfg.Sources["indeed"].Host != "indeed.example" {
		t.Fatalf("unexpected sources: %+v", cfg.Sources)
	}
}

func TestLoadFileMissingAndEmpty(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Timeout() != 30*time.Second || cfg.Sources == nil {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	if _, err := LoadFile(writeFile(t, "config.json", "  \n")); err != nil {
		t.Fatalf("empty file should not error: %v", err)
	}
	if _, err := LoadFile(writeFile(t, "config.json", "{")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("JOBMATCH_RAPIDAPI_KEY", "env-key")
	t.Setenv("JOBMATCH_CONCURRENCY", "8")
	t.Setenv("JOBMATCH_TIMEOUT", "not-a-number")

	cfg, err := LoadFile(writeFile(t, "config.json", `{rapidapi_key: "file-key", concurrency: 2, timeout_seconds: 5}`))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.RapidAPIKey != "env-key" || cfg.Concurrency != 8 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("invalid env value should keep file value, got %v", cfg.Timeout())
	}
}

func TestSourceConfigs(t *testing.T) {
	disabled := false
	cfg := Config{
		RapidAPIKey: "global",
		Sources: map[string]SourceSettings{
			"indeed":  {Host: "h.example", URL: "https://h.example/jobs", Params: map[string]string{"extra": "1"}},
			"upwork":  {Enabled: &disabled},
			"google":  {APIKey: "own-key"},
			"careers": {URL: "https://acme.example/careers"},
		},
	}

	configs := cfg.SourceConfigs([]string{"indeed", "upwork", "google", "workday"}, []string{"careers", "hiring_manager"})

	indeed := configs["indeed"]
	if !indeed.Enabled || indeed.Param("api_key", "") != "global" || indeed.Param("host", "") != "h.example" || indeed.Param("extra", "") != "1" {
		t.Fatalf("unexpected indeed config: %+v", indeed)
	}
	if configs["upwork"].Enabled {
		t.Fatalf("upwork should be disabled")
	}
	if configs["google"].Param("api_key", "") != "own-key" {
		t.Fatalf("per-source key should win: %+v", configs["google"])
	}
	if !configs["workday"].Enabled || configs["workday"].ID != "workday" {
		t.Fatalf("unlisted catalog source should be enabled with a global key")
	}
	if !configs["careers"].Enabled || configs["careers"].Param("url", "") != "https://acme.example/careers" {
		t.Fatalf("unexpected careers config: %+v", configs["careers"])
	}
	if configs["hiring_manager"].Enabled {
		t.Fatalf("hiring_manager must be opted in")
	}
}

func TestSourceConfigsWithoutKey(t *testing.T) {
	configs := Config{}.SourceConfigs([]string{"indeed"}, nil)
	if configs["indeed"].Enabled {
		t.Fatalf("sources need an api key to be enabled by default")
	}
}

func TestReadProxiesFile(t *testing.T) {
	path := writeFile(t, "proxies.txt", "# comment\nhttp://a:1\n\n socks5://b:2 \n")
	proxies, err := readProxiesFile(path)
	if err != nil {
		t.Fatalf("readProxiesFile() error = %v", err)
	}
	if len(proxies) != 2 || proxies[1] != "socks5://b:2" {
		t.Fatalf("unexpected proxies: %v", proxies)
	}

	if proxies, err := readProxiesFile(filepath.Join(t.TempDir(), "none.txt")); err != nil || proxies != nil {
		t.Fatalf("missing file: %v %v", proxies, err)
	}
}

func TestLoadProxiesPrefersFlag(t *testing.T) {
	t.Setenv("JOBMATCH_PROXIES", "http://env:1")
	if got, _ := LoadProxies(" http://flag:1 , ,http://flag:2"); len(got) != 2 || got[0] != "http://flag:1" {
		t.Fatalf("unexpected flag proxies: %v", got)
	}
	if got, _ := LoadProxies(""); len(got) != 1 || got[0] != "http://env:1" {
		t.Fatalf("unexpected env proxies: %v", got)
	}
}
