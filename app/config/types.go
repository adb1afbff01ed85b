package config

// SiteConfig is the optional site.yml at the root of the content directory
type SiteConfig struct {
	Title       string     `yaml:"title"`
	BaseURL     string     `yaml:"base_url"`
	Description string     `yaml:"description"`
	Author      SiteAuthor `yaml:"author"`
	MainSection string     `yaml:"main_section"`
}

type SiteAuthor struct {
	Name string `yaml:"name"`
}
