package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DefaultMainSection = "posts"

var siteFiles = []string{"site.yml", "site.yaml"}

// Loader handles loading and validation of the site configuration
type Loader struct {
	contentDir string
}

// NewLoader creates a new configuration loader
func NewLoader(contentDir string) *Loader {
	return &Loader{contentDir: contentDir}
}

// Load reads site.yml (or site.yaml) from the content directory. A missing
// file yields defaults only.
func (l *Loader) Load() (*SiteConfig, error) {
	var config SiteConfig

	for _, name := range siteFiles {
		path := filepath.Join(l.contentDir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
		slog.Debug("Site configuration loaded", "file", path)
		break
	}

	l.setDefaults(&config)

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *SiteConfig) {
	if config.MainSection == "" {
		config.MainSection = DefaultMainSection
	}
}

// Validate checks the fields every feed needs. It runs after overrides are
// applied, since title and base URL may come from flags.
func (s *SiteConfig) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("site title is required")
	}
	if s.BaseURL == "" {
		return fmt.Errorf("site base URL is required")
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL must be an absolute http(s) URL: %s", s.BaseURL)
	}

	return nil
}
