package parser

import (
	"testing"

	"github.com/molchan/harvester/internal/gateway"
)

func TestRegexEngine_Process(t *testing.T) {
	engine := NewRegexEngine()
	page := &gateway.Page{
		URL: "https://example.com/broken",
		Html: `<html><head><TITLE>Broken
Markup</TITLE><meta name="description" content="Still readable."></head>
<body><a href="/one">1</a><a href="#skip">skip</a><a href="/two">2</a></body>`,
		StatusCode: 200,
	}

	result, err := engine.Process(page)
	if err != nil {
		t.Fatalf("Process() error = %v, want nil", err)
	}
	if result.Title != "Broken\nMarkup" {
		t.Errorf("Process() title = %q", result.Title)
	}
	if result.Description != "Still readable." {
		t.Errorf("Process() description = %q", result.Description)
	}
	if result.LinksCount != 2 {
		t.Errorf("Process() links count = %d, want 2", result.LinksCount)
	}
	if result.Engine != "regex" {
		t.Errorf("Process() engine = %q, want regex", result.Engine)
	}
}

func TestRegexEngine_Process_NoTitle(t *testing.T) {
	engine := NewRegexEngine()
	page := &gateway.Page{
		URL:  "https://example.com/untitled",
		Html: `<html><body>no head section</body></html>`,
	}

	if _, err := engine.Process(page); err == nil {
		t.Error("Process() expected error for page without title, got nil")
	}
}

func TestRegexEngine_Process_EmptyTitle(t *testing.T) {
	engine := NewRegexEngine()
	page := &gateway.Page{
		URL:  "https://example.com/empty",
		Html: `<html><head><title>   </title></head></html>`,
	}

	if _, err := engine.Process(page); err == nil {
		t.Error("Process() expected error for empty title, got nil")
	}
}
