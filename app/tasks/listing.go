package tasks

import (
	"path"
	"strings"

	"github.com/lysyi3m/blog-comb/app/content"
	"github.com/lysyi3m/blog-comb/app/database"
)

const feedFileName = "feed.json"

type ListingKind string

const (
	ListingHome    ListingKind = "home"
	ListingSection ListingKind = "section"
	ListingTag     ListingKind = "tag"
)

// Listing is one page list that gets its own feed.
type Listing struct {
	Kind  ListingKind
	Key   string // section name, or tag slug
	Title string
	Dir   string // output directory relative to the site root, "" for home
}

func HomeListing(mainSection, siteTitle string) Listing {
	return Listing{Kind: ListingHome, Key: mainSection, Title: siteTitle}
}

func SectionListing(section content.Section) Listing {
	return Listing{Kind: ListingSection, Key: section.Name, Title: section.Title, Dir: section.Name}
}

func TagListing(tag database.Tag) Listing {
	return Listing{Kind: ListingTag, Key: tag.Slug, Title: tag.Name, Dir: path.Join("tags", tag.Slug)}
}

// FilePath is the feed location relative to the output directory
func (l Listing) FilePath() string {
	return path.Join(l.Dir, feedFileName)
}

// FeedURL is the public URL of the feed under baseURL
func (l Listing) FeedURL(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + l.FilePath()
}
