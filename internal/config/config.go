package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName          = "jobmatch"
	ConfigFileName   = "config.json"
	ProxiesFileName  = "proxies.txt"
	ManagersFileName = "managers.json"

	defaultTimeoutSeconds = 30
)

// Config contains default search settings and per-source connection params.
type Config struct {
	DefaultLocation   string  `json:"default_location"`
	DefaultJobType    string  `json:"default_job_type"`
	Concurrency       int     `json:"concurrency"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	RapidAPIKey       string  `json:"rapidapi_key"`
	MinScore          int     `json:"min_score"`

	Sources     map[string]SourceSettings `json:"sources"`
	Preferences models.UserPreferences    `json:"preferences"`
}

// SourceSettings overrides connection params for one source. Enabled is a
// pointer so an absent key can be told apart from an explicit false.
type SourceSettings struct {
	Enabled *bool             `json:"enabled,omitempty"`
	Host    string            `json:"host,omitempty"`
	APIKey  string            `json:"api_key,omitempty"`
	URL     string            `json:"url,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

func DefaultConfig() Config {
	cfg := Config{
		TimeoutSeconds: defaultTimeoutSeconds,
		Sources:        map[string]SourceSettings{},
	}
	applyEnv(&cfg)
	return cfg
}

// applyEnv lets JOBMATCH_* variables win over the file.
func applyEnv(cfg *Config) {
	cfg.DefaultLocation = envString("JOBMATCH_DEFAULT_LOCATION", cfg.DefaultLocation)
	cfg.DefaultJobType = envString("JOBMATCH_DEFAULT_JOB_TYPE", cfg.DefaultJobType)
	cfg.Concurrency = envInt("JOBMATCH_CONCURRENCY", cfg.Concurrency)
	cfg.TimeoutSeconds = envInt("JOBMATCH_TIMEOUT", cfg.TimeoutSeconds)
	cfg.RapidAPIKey = envString("JOBMATCH_RAPIDAPI_KEY", cfg.RapidAPIKey)
}

// Timeout is the per-source call timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SourceConfigs resolves the immutable SourceConfig set for one process.
// Sources in defaults are enabled whenever an API key is known, unless the
// file disables them. Sources in optIn are enabled only when listed under
// "sources" and not disabled.
func (c Config) SourceConfigs(defaults []string, optIn []string) map[string]models.SourceConfig {
	out := make(map[string]models.SourceConfig, len(defaults)+len(optIn))

	for _, id := range defaults {
		settings := c.Sources[id]
		cfg := c.sourceConfig(id, settings)
		cfg.Enabled = cfg.Param(models.ParamAPIKey, "") != ""
		if settings.Enabled != nil {
			cfg.Enabled = *settings.Enabled
		}
		out[id] = cfg
	}

	for _, id := range optIn {
		settings, listed := c.Sources[id]
		cfg := c.sourceConfig(id, settings)
		cfg.Enabled = listed && (settings.Enabled == nil || *settings.Enabled)
		out[id] = cfg
	}

	return out
}

func (c Config) sourceConfig(id string, settings SourceSettings) models.SourceConfig {
	params := make(map[string]string, len(settings.Params)+3)
	for key, value := range settings.Params {
		params[key] = value
	}
	if key := firstNonEmpty(settings.APIKey, c.RapidAPIKey); key != "" {
		params[models.ParamAPIKey] = key
	}
	if settings.Host != "" {
		params[models.ParamHost] = settings.Host
	}
	if settings.URL != "" {
		params[models.ParamURL] = settings.URL
	}
	return models.SourceConfig{ID: id, Params: params}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	return inConfigDir(ConfigFileName)
}

func ProxiesPath() (string, error) {
	return inConfigDir(ProxiesFileName)
}

// ManagersPath is where the hiring-manager directory snapshot is kept.
func ManagersPath() (string, error) {
	return inConfigDir(ManagersFileName)
}

func inConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads a json5 config file. A missing or empty file yields the
// defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Sources == nil {
		cfg.Sources = map[string]SourceSettings{}
	}
	applyEnv(&cfg)

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	// Keys from the environment stay out of the file.
	cfg.RapidAPIKey = ""
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBMATCH_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return readProxiesFile(path)
}

func readProxiesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
