package config

import (
	"cmp"

	"github.com/lysyi3m/blog-comb/app/feed"
)

// Overrides holds values set on the command line or in the environment.
// Non-empty fields win over site.yml.
type Overrides struct {
	Title       string
	BaseURL     string
	Description string
	Author      string
	MainSection string
}

// Apply merges overrides into the site configuration
func (s *SiteConfig) Apply(o Overrides) {
	s.Title = cmp.Or(o.Title, s.Title)
	s.BaseURL = cmp.Or(o.BaseURL, s.BaseURL)
	s.Description = cmp.Or(o.Description, s.Description)
	s.Author.Name = cmp.Or(o.Author, s.Author.Name)
	s.MainSection = cmp.Or(o.MainSection, s.MainSection)
}

// FeedSite returns the metadata copied into every feed document
func (s *SiteConfig) FeedSite() feed.Site {
	return feed.Site{
		Title:       s.Title,
		BaseURL:     s.BaseURL,
		Description: s.Description,
		Author:      s.Author.Name,
	}
}
