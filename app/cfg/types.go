package cfg

const (
	CommandBuild  = "build"
	CommandImport = "import"
)

type Cfg struct {
	Command string

	// Content and output
	ContentDir string
	OutputDir  string
	DBPath     string

	// Site metadata overrides (site.yml supplies the rest)
	BaseUrl         string
	SiteTitle       string
	SiteDescription string
	SiteAuthor      string
	MainSection     string

	// Build pipeline
	WorkerCount   int
	WatchInterval int

	// Import
	ImportSource  string
	ImportSection string

	// Application metadata
	UserAgent string
	Timeout   int
	Debug     bool
	Version   string
}
