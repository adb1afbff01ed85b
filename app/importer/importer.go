package importer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lysyi3m/blog-comb/app/content"
)

type Result struct {
	Written int
	Skipped int
}

// Importer converts the entries of an existing feed into markdown pages
type Importer struct {
	contentDir string
	httpClient *http.Client
	userAgent  string
	parser     *Parser
	extractor  *ContentExtractor
}

func NewImporter(contentDir string, httpClient *http.Client, userAgent string) *Importer {
	return &Importer{
		contentDir: contentDir,
		httpClient: httpClient,
		userAgent:  userAgent,
		parser:     NewParser(),
		extractor:  NewContentExtractor(),
	}
}

// Run writes one page per entry of source (a file path or http(s) URL) into
// the section directory. Existing files are left untouched.
func (i *Importer) Run(ctx context.Context, source, section string) (Result, error) {
	var result Result

	if section == "" || section != filepath.Base(section) || strings.HasPrefix(section, "_") || strings.HasPrefix(section, ".") {
		return result, fmt.Errorf("invalid section name: %q", section)
	}

	data, err := i.load(ctx, source)
	if err != nil {
		return result, err
	}

	entries, err := i.parser.Run(data)
	if err != nil {
		return result, err
	}

	dir := filepath.Join(i.contentDir, section)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return result, fmt.Errorf("failed to create section directory: %w", err)
	}

	used := make(map[string]bool)
	for n, entry := range entries {
		slug := uniqueSlug(slugFor(entry, n), used)
		file := filepath.Join(dir, slug+".md")

		page, err := content.EncodePage(i.frontMatter(entry), i.body(entry))
		if err != nil {
			return result, err
		}

		written, err := writeNewFile(file, page)
		if err != nil {
			return result, fmt.Errorf("failed to write %s: %w", file, err)
		}
		if !written {
			slog.Debug("Page exists, skipping", "file", file)
			result.Skipped++
			continue
		}

		slog.Debug("Page imported", "file", file, "guid", entry.GUID)
		result.Written++
	}

	slog.Info("Import completed", "source", source, "section", section,
		"entries", len(entries), "written", result.Written, "skipped", result.Skipped)

	return result, nil
}

func (i *Importer) frontMatter(entry Entry) content.FrontMatter {
	fm := content.FrontMatter{
		Title:  strings.TrimSpace(entry.Title),
		Tags:   entry.Categories,
		FeedID: entry.GUID,
	}

	if entry.PublishedAt != nil {
		fm.Date = entry.PublishedAt.UTC()
	}
	if entry.UpdatedAt != nil && !entry.UpdatedAt.Equal(fm.Date) {
		fm.Lastmod = entry.UpdatedAt.UTC()
	}
	if fm.Date.IsZero() && !fm.Lastmod.IsZero() {
		fm.Date, fm.Lastmod = fm.Lastmod, fm.Date
	}

	// Full content becomes the body, so the description is the summary
	if entry.Content != "" {
		fm.Summary = strings.TrimSpace(entry.Description)
	}

	return fm
}

func (i *Importer) body(entry Entry) string {
	source := cmp.Or(entry.Content, entry.Description)
	if strings.TrimSpace(source) == "" {
		return ""
	}

	text, err := i.extractor.Run([]byte(source))
	if err != nil {
		slog.Debug("Content extraction failed, keeping HTML", "guid", entry.GUID, "error", err)
		return source
	}

	return text
}

func (i *Importer) load(ctx context.Context, source string) ([]byte, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return i.fetch(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return data, nil
}

func (i *Importer) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", i.userAgent)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// slugFor derives a file name from the title, then the link path, then the
// entry position.
func slugFor(entry Entry, n int) string {
	if slug := content.Slugify(entry.Title); slug != "" {
		return slug
	}

	if u, err := url.Parse(entry.Link); err == nil {
		if slug := content.Slugify(path.Base(strings.TrimRight(u.Path, "/"))); slug != "" {
			return slug
		}
	}

	return fmt.Sprintf("entry-%d", n+1)
}

func uniqueSlug(slug string, used map[string]bool) string {
	candidate := slug
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
	used[candidate] = true
	return candidate
}

// writeNewFile creates path with data. It reports false when the file
// already exists.
func writeNewFile(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, err
	}

	return true, f.Close()
}
