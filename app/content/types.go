package content

import (
	"time"

	"github.com/lysyi3m/blog-comb/app/feed"
)

type Section struct {
	Name  string // directory name, also the permalink prefix
	Title string // from _index.md, defaults to the capitalized name
}

type Corpus struct {
	Pages    []feed.Page
	Sections []Section
}

// FrontMatter is the YAML header of a page file
type FrontMatter struct {
	Title        string    `yaml:"title"`
	Date         time.Time `yaml:"date,omitempty"`
	Lastmod      time.Time `yaml:"lastmod,omitempty"`
	Tags         []string  `yaml:"tags,omitempty"`
	FeedID       string    `yaml:"feed_id,omitempty"`
	OmitFromFeed bool      `yaml:"omit_from_feed,omitempty"`
	Summary      string    `yaml:"summary,omitempty"`
	Slug         string    `yaml:"slug,omitempty"`
	Draft        bool      `yaml:"draft,omitempty"`
}
