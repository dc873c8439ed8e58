// Package file loads the build configuration from a TOML file.
//
// Credentials never live in the file: the CLI reads them from the
// environment once at startup and injects them into the loaded Config,
// keeping the sourcing pass itself free of global state.
package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "sitenodes.toml"

// Config is the build configuration.
type Config struct {
	Site     SiteConfig     `toml:"site"`
	App      AppConfig      `toml:"app"`
	GitHub   GitHubConfig   `toml:"github"`
	Catalogs CatalogsConfig `toml:"catalogs"`

	// DataDir is where the node database lives.
	DataDir string `toml:"data_dir"`
}

// SiteConfig describes the publisher's site.
type SiteConfig struct {
	// BaseURL is the canonical public domain, stripped from partner
	// links during catalog normalisation.
	BaseURL string `toml:"base_url"`
}

// AppConfig describes the application host serving the API schema.
type AppConfig struct {
	// SchemaURL is the API schema endpoint.
	SchemaURL string `toml:"schema_url"`

	// APIKey gates the schema feed. Injected from the environment by
	// the CLI; never stored in the file.
	APIKey string `toml:"-"`
}

// GitHubConfig names the repository backing the issue and PR feeds.
type GitHubConfig struct {
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`

	// Token is optional; anonymous access works with a smaller quota.
	// Injected from the environment by the CLI.
	Token string `toml:"-"`
}

// CatalogsConfig holds the partner catalog endpoints.
type CatalogsConfig struct {
	IntegrationsURL string `toml:"integrations_url"`
	PluginsURL      string `toml:"plugins_url"`
}

// Load reads the config file at path. A missing file is not an error;
// defaults are returned so a bare checkout still builds.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// defaults returns the configuration for the canonical site.
func defaults() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL: "https://hedgehq.com",
		},
		App: AppConfig{
			SchemaURL: "https://app.hedgehq.com/api/schema/",
		},
		GitHub: GitHubConfig{
			Owner: "hedgehq",
			Repo:  "hedgehog",
		},
		Catalogs: CatalogsConfig{
			IntegrationsURL: "https://hedgehq.com/integrations.json",
			PluginsURL:      "https://raw.githubusercontent.com/hedgehq/plugin-library/main/plugins.json",
		},
		DataDir: ".sitenodes",
	}
}
