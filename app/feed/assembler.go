package feed

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

var ErrMissingPublishedAt = errors.New("page has no publish date")

type Assembler struct {
	plain PlainTexter
	title func(string) string
}

func NewAssembler(plain PlainTexter) *Assembler {
	a := &Assembler{plain: plain, title: plain.PlainText}
	if titles, ok := plain.(TitleTexter); ok {
		a.title = titles.PlainTitle
	}
	return a
}

// Run builds the feed document for a listing. The first MaxItems candidates
// are taken before omitted pages are dropped, so a feed can hold fewer than
// MaxItems items even when later candidates are eligible.
func (a *Assembler) Run(ctx Context) (*Document, error) {
	window := ctx.Pages[:min(len(ctx.Pages), MaxItems)]

	visible := lo.Filter(window, func(page Page, _ int) bool {
		return !page.OmitFromFeed
	})

	items := make([]Item, 0, len(visible))
	for _, page := range visible {
		item, err := a.projectItem(page)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	doc := &Document{
		Version:     Version,
		Title:       a.documentTitle(ctx),
		HomePageURL: ctx.Site.BaseURL,
		FeedURL:     ctx.FeedURL,
		Description: ctx.Site.Description,
		Items:       items,
	}

	if ctx.Site.Author != "" {
		doc.Author = &Author{Name: ctx.Site.Author}
	}

	return doc, nil
}

func (a *Assembler) projectItem(page Page) (Item, error) {
	if page.PublishedAt.IsZero() {
		return Item{}, fmt.Errorf("%w: %s", ErrMissingPublishedAt, page.Permalink)
	}

	item := Item{
		ID:            cmp.Or(page.FeedID, page.Permalink),
		Title:         a.title(page.Title),
		ContentText:   a.plain.PlainText(page.Summary),
		URL:           page.Permalink,
		DatePublished: page.PublishedAt.UTC().Format(DateFormat),
		DateModified:  page.ModifiedAt.UTC().Format(DateFormat),
	}

	if len(page.Tags) > 0 {
		item.Tags = slices.Clone(page.Tags)
	}

	return item, nil
}

func (a *Assembler) documentTitle(ctx Context) string {
	if ctx.IsHome || ctx.Title == "" || ctx.Title == ctx.Site.Title {
		return ctx.Site.Title
	}
	return fmt.Sprintf("%s on %s", ctx.Title, ctx.Site.Title)
}
