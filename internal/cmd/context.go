package cmd

import (
	"io"
	"path/filepath"
	"time"

	"github.com/jimezsa/jobmatch/internal/config"
	"github.com/jimezsa/jobmatch/internal/enrich"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/network"
	"github.com/jimezsa/jobmatch/internal/source"
	"github.com/jimezsa/jobmatch/internal/ui"
	"github.com/rs/zerolog"
)

const proxyBanDuration = 10 * time.Minute

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
}

// registry builds every source behind the configured proxies, if any.
func (c *Context) registry(proxiesFlag string) (*source.Registry, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug().Int("proxies", rotator.Len()).Msg("proxy rotation enabled")
	}

	return source.NewRegistry(rotator, network.Options{
		Timeout:           c.Config.Timeout(),
		RequestsPerSecond: c.Config.RequestsPerSecond,
	})
}

// sourceConfigs resolves the per-source configs for this process.
func (c *Context) sourceConfigs() map[string]models.SourceConfig {
	return c.Config.SourceConfigs(source.DefaultIDs(), []string{source.SiteCareers, source.SiteHiringManager})
}

func (c *Context) managersPath() string {
	return filepath.Join(c.ConfigDir, config.ManagersFileName)
}

// directory returns the hiring-manager directory, preloaded from the saved
// snapshot when one exists.
func (c *Context) directory(registry *source.Registry, configs map[string]models.SourceConfig) (*enrich.Directory, error) {
	dir := enrich.NewDirectory(registry.Managers, configs[source.SiteHiringManager], c.Logger)
	if err := dir.Load(c.managersPath()); err != nil {
		return nil, err
	}
	return dir, nil
}
