package feed

import (
	"time"
)

const (
	Version  = "https://jsonfeed.org/version/1"
	MaxItems = 10

	// DateFormat is applied to UTC timestamps, so the zone renders as "Z".
	DateFormat = time.RFC3339
)

// Page is a single content page as supplied by the content index.
type Page struct {
	Title        string
	Permalink    string
	Summary      string // markdown or HTML allowed, rendered to plain text on output
	PublishedAt  time.Time
	ModifiedAt   time.Time
	Tags         []string
	FeedID       string // overrides Permalink as the item id when set
	OmitFromFeed bool
	Section      string
}

type Site struct {
	Title       string
	BaseURL     string
	Description string
	Author      string
}

// Context describes the listing a feed is generated for. Pages must already
// be narrowed and ordered by the caller.
type Context struct {
	IsHome  bool
	Title   string
	FeedURL string
	Pages   []Page
	Site    Site
}

// PlainTexter strips markup from titles and summaries.
type PlainTexter interface {
	PlainText(s string) string
}

// TitleTexter is implemented by renderers that read a title as one line of
// inline markup, so "1. Intro" or "> quote" keep their text. Titles fall back
// to PlainText otherwise.
type TitleTexter interface {
	PlainTitle(s string) string
}

// JSON Feed output types

type Document struct {
	Version     string  `json:"version"`
	Title       string  `json:"title"`
	HomePageURL string  `json:"home_page_url"`
	FeedURL     string  `json:"feed_url,omitempty"`
	Description string  `json:"description,omitempty"`
	Author      *Author `json:"author,omitempty"`
	Items       []Item  `json:"items"`
}

type Author struct {
	Name string `json:"name"`
}

type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ContentText   string   `json:"content_text"`
	URL           string   `json:"url"`
	DatePublished string   `json:"date_published"`
	DateModified  string   `json:"date_modified"`
	Tags          []string `json:"tags,omitempty"`
}
