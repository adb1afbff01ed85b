package database

import (
	"github.com/lysyi3m/blog-comb/app/content"
	"github.com/lysyi3m/blog-comb/app/feed"
)

type PageRepository interface {
	GetSectionPages(section string) ([]feed.Page, error)
	GetTagPages(tagSlug string) ([]feed.Page, error)
	GetSections() ([]content.Section, error)
	GetTags() ([]Tag, error)
	GetPageCount() (int, error)

	ReplaceCorpus(corpus *content.Corpus) error
}

// FeedRepository remembers which feed files the last successful build wrote
type FeedRepository interface {
	GetFeedPaths() ([]string, error)
	ReplaceFeedPaths(paths []string) error
}
