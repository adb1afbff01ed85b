package cfg

import (
	"cmp"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type buildCmd struct{}

type importCmd struct {
	Source  string `long:"source" env:"IMPORT_SOURCE" required:"true" description:"Feed file path or URL to import (RSS, Atom or JSON Feed)"`
	Section string `long:"section" env:"IMPORT_SECTION" default:"posts" description:"Section directory imported posts are written to"`
}

type rawCfg struct {
	// Content and output
	ContentDir string `long:"content-dir" env:"CONTENT_DIR" default:"./content" description:"Directory containing section directories with markdown pages"`
	OutputDir  string `long:"output-dir" env:"OUTPUT_DIR" default:"./public" description:"Directory generated feeds are written to"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./blog-comb.db" description:"SQLite page index file"`

	// Site metadata
	BaseUrl         string `long:"base-url" env:"BASE_URL" description:"Public base URL of the site (overrides site.yml)"`
	SiteTitle       string `long:"site-title" env:"SITE_TITLE" description:"Site title (overrides site.yml)"`
	SiteDescription string `long:"site-description" env:"SITE_DESCRIPTION" description:"Site description (overrides site.yml)"`
	SiteAuthor      string `long:"site-author" env:"SITE_AUTHOR" description:"Site author name (overrides site.yml)"`
	MainSection     string `long:"main-section" env:"MAIN_SECTION" description:"Section whose pages make up the home feed (overrides site.yml)"`

	// Build pipeline
	WorkerCount   int `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of workers building feeds"`
	WatchInterval int `long:"watch-interval" env:"WATCH_INTERVAL" default:"0" description:"Rebuild interval in seconds (0 builds once and exits)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Blog Comb/1.0" description:"User agent string for HTTP requests"`
	Timeout   int    `long:"timeout" env:"TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Build  buildCmd  `command:"build" description:"Index content and write JSON feeds"`
	Import importCmd `command:"import" description:"Convert an existing feed into markdown posts"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil, nil when help
// was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be positive")
	}
	if raw.WatchInterval < 0 {
		return nil, fmt.Errorf("watch interval must be non-negative")
	}

	cfg := &Cfg{
		ContentDir:      raw.ContentDir,
		OutputDir:       raw.OutputDir,
		DBPath:          raw.DBPath,
		BaseUrl:         raw.BaseUrl,
		SiteTitle:       raw.SiteTitle,
		SiteDescription: raw.SiteDescription,
		SiteAuthor:      raw.SiteAuthor,
		MainSection:     raw.MainSection,
		WorkerCount:     raw.WorkerCount,
		WatchInterval:   raw.WatchInterval,
		UserAgent:       raw.UserAgent,
		Timeout:         raw.Timeout,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if parser.Active != nil {
		cfg.Command = parser.Active.Name
	}
	if cfg.Command == CommandImport {
		cfg.ImportSource = raw.Import.Source
		cfg.ImportSection = raw.Import.Section
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
