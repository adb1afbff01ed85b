package importer

import (
	"testing"
	"time"
)

func TestParser_Run_RSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <category>Technology</category>
      <category>Programming</category>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", entry.Title)
	}
	if entry.GUID != "item-1" {
		t.Errorf("Expected GUID 'item-1', got: %s", entry.GUID)
	}
	if len(entry.Categories) != 2 || entry.Categories[0] != "Technology" {
		t.Errorf("Expected categories [Technology Programming], got: %v", entry.Categories)
	}
	if entry.PublishedAt == nil || !entry.PublishedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected publish date: %v", entry.PublishedAt)
	}

	// Without a guid the link identifies the entry
	if entries[1].GUID != "https://example.com/item2" {
		t.Errorf("Expected link as GUID, got: %s", entries[1].GUID)
	}
}

func TestParser_Run_Atom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <published>2023-07-01T08:00:00+02:00</published>
    <updated>2023-07-03T10:00:00Z</updated>
    <content type="html">&lt;p&gt;Test content&lt;/p&gt;</content>
  </entry>
</feed>`

	parser := NewParser()
	entries, err := parser.Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.GUID != "urn:uuid:entry-1" {
		t.Errorf("Expected GUID 'urn:uuid:entry-1', got: %s", entry.GUID)
	}
	if entry.Link != "https://example.com/entry1" {
		t.Errorf("Expected link 'https://example.com/entry1', got: %s", entry.Link)
	}
	if entry.Content != "<p>Test content</p>" {
		t.Errorf("Expected HTML content, got: %s", entry.Content)
	}
	if entry.PublishedAt == nil || !entry.PublishedAt.Equal(time.Date(2023, 7, 1, 6, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected publish date: %v", entry.PublishedAt)
	}
	if entry.UpdatedAt == nil || !entry.UpdatedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected update date: %v", entry.UpdatedAt)
	}
}

func TestParser_Run_InvalidFeed(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("invalid xml")); err == nil {
		t.Error("Expected error for invalid XML")
	}
}
