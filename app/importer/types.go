package importer

import (
	"time"
)

// Entry is a normalized item of a source feed
type Entry struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	Categories  []string
}
