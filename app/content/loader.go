package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lysyi3m/blog-comb/app/feed"
)

const sectionIndexFile = "_index.md"

// Loader reads <contentDir>/<section>/*.md into page records.
type Loader struct {
	contentDir string
	baseURL    string
}

func NewLoader(contentDir, baseURL string) *Loader {
	return &Loader{
		contentDir: contentDir,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (l *Loader) Run() (*Corpus, error) {
	corpus := &Corpus{}

	if _, err := os.Stat(l.contentDir); os.IsNotExist(err) {
		return corpus, nil
	}

	entries, err := os.ReadDir(l.contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		section, pages, err := l.loadSection(name)
		if err != nil {
			return nil, err
		}

		corpus.Sections = append(corpus.Sections, section)
		corpus.Pages = append(corpus.Pages, pages...)
	}

	return corpus, nil
}

func (l *Loader) loadSection(name string) (Section, []feed.Page, error) {
	dir := filepath.Join(l.contentDir, name)
	section := Section{
		Name:  name,
		Title: cases.Title(language.English).String(name),
	}

	data, err := os.ReadFile(filepath.Join(dir, sectionIndexFile))
	switch {
	case err == nil:
		fm, _, err := splitFrontMatter(data)
		if err != nil {
			return section, nil, fmt.Errorf("error loading %s: %w", filepath.Join(dir, sectionIndexFile), err)
		}
		if fm.Title != "" {
			section.Title = fm.Title
		}
	case !os.IsNotExist(err):
		return section, nil, fmt.Errorf("failed to read section index: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return section, nil, fmt.Errorf("failed to find markdown files: %w", err)
	}

	pages := make([]feed.Page, 0, len(files))
	owners := make(map[string]string, len(files))
	for _, file := range files {
		if strings.HasPrefix(filepath.Base(file), "_") {
			continue
		}

		page, ok, err := l.LoadPage(name, file)
		if err != nil {
			return section, nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		if !ok {
			slog.Debug("Draft skipped", "file", file)
			continue
		}

		if owner, ok := owners[page.Permalink]; ok {
			return section, nil, fmt.Errorf("duplicate permalink %s: %s and %s", page.Permalink, owner, file)
		}
		owners[page.Permalink] = file

		pages = append(pages, page)
		slog.Debug("Page loaded", "section", name, "permalink", page.Permalink, "tags", len(page.Tags))
	}

	return section, pages, nil
}

// LoadPage reads one markdown file. It reports false for drafts.
func (l *Loader) LoadPage(section, file string) (feed.Page, bool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return feed.Page{}, false, fmt.Errorf("failed to read file: %w", err)
	}

	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return feed.Page{}, false, err
	}

	if fm.Draft {
		return feed.Page{}, false, nil
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	modified := fm.Lastmod
	if modified.IsZero() {
		modified = fm.Date
	}

	return feed.Page{
		Title:        fm.Title,
		Permalink:    l.permalink(section, slug),
		Summary:      summarize(fm.Summary, body),
		PublishedAt:  fm.Date,
		ModifiedAt:   modified,
		Tags:         normalizeTags(fm.Tags),
		FeedID:       strings.TrimSpace(fm.FeedID),
		OmitFromFeed: fm.OmitFromFeed,
		Section:      section,
	}, true, nil
}

func (l *Loader) permalink(section, slug string) string {
	return fmt.Sprintf("%s/%s/%s/", l.baseURL, section, slug)
}

// normalizeTags trims tags, drops empty ones and removes case-insensitive
// duplicates, keeping the first spelling.
func normalizeTags(tags []string) []string {
	tags = lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	})

	folder := cases.Fold()
	tags = lo.UniqBy(tags, func(tag string) string {
		return folder.String(tag)
	})

	if len(tags) == 0 {
		return nil
	}
	return tags
}
