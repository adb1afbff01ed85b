package importer

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS, Atom or JSON Feed data into entries, in source order
func (p *Parser) Run(data []byte) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		GUID:        cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		Content:     item.Content,
		PublishedAt: item.PublishedParsed,
		UpdatedAt:   item.UpdatedParsed,
	}

	if item.Categories != nil {
		entry.Categories = item.Categories
	}

	return entry
}
