package dom

import (
	"context"
	"strings"
	"testing"
)

const testPage = `<html><body>
<div data-testid="now-playing-widget">
  <a data-testid="context-item-link" href="/track/1">  Song One </a>
  <a href="/artist/a">Artist A</a>
  <a href="/artist/b">Artist B</a>
</div>
<button aria-label="Next" class="next">&gt;</button>
</body></html>`

func TestHTMLDocument_Query(t *testing.T) {
	ctx := context.Background()
	doc, err := ParseHTML(testPage)
	if err != nil {
		t.Fatalf("ParseHTML() error: %v", err)
	}

	widget, ok, err := doc.Query(ctx, `[data-testid="now-playing-widget"]`)
	if err != nil || !ok {
		t.Fatalf("Expected widget, got ok=%v err=%v", ok, err)
	}

	track, ok, _ := widget.Query(ctx, `a[data-testid="context-item-link"]`)
	if !ok {
		t.Fatal("Expected track link inside widget")
	}
	if got := TrimmedText(ctx, track); got != "Song One" {
		t.Errorf("TrimmedText() = %q, want %q", got, "Song One")
	}

	artists, err := widget.QueryAll(ctx, `a[href^="/artist"]`)
	if err != nil {
		t.Fatalf("QueryAll() error: %v", err)
	}
	if len(artists) != 2 || TrimmedText(ctx, artists[0]) != "Artist A" {
		t.Errorf("Expected two artists in document order, got %d", len(artists))
	}

	if _, ok, _ := doc.Query(ctx, ".missing"); ok {
		t.Error("Expected no match for missing selector")
	}

	if _, ok, err := doc.Query(ctx, "[[["); ok || err != nil {
		t.Errorf("Expected invalid selector to match nothing, got ok=%v err=%v", ok, err)
	}
}

func TestHTMLDocument_AttrAndClick(t *testing.T) {
	ctx := context.Background()
	doc, err := ParseHTML(testPage)
	if err != nil {
		t.Fatalf("ParseHTML() error: %v", err)
	}

	button, ok, _ := doc.Query(ctx, "button")
	if !ok {
		t.Fatal("Expected button")
	}

	label, ok, _ := button.Attr(ctx, "aria-label")
	if !ok || label != "Next" {
		t.Errorf("Attr(aria-label) = %q, %v", label, ok)
	}
	if _, ok, _ := button.Attr(ctx, "title"); ok {
		t.Error("Expected missing title attribute")
	}

	if err := button.Click(ctx); err != nil {
		t.Fatalf("Click() error: %v", err)
	}
	clicks := doc.Clicks()
	if len(clicks) != 1 || !strings.Contains(clicks[0], `aria-label="Next"`) {
		t.Errorf("Expected recorded click on Next button, got %v", clicks)
	}
}

func TestHTMLDocument_MediaMetadata(t *testing.T) {
	ctx := context.Background()
	doc, err := ParseHTML("<html></html>")
	if err != nil {
		t.Fatalf("ParseHTML() error: %v", err)
	}

	if _, ok, _ := doc.MediaMetadata(ctx); ok {
		t.Error("Expected no media metadata by default")
	}

	doc.SetMediaMetadata(MediaMetadata{Artist: "Artist", Title: "Title"})
	metadata, ok, err := doc.MediaMetadata(ctx)
	if err != nil || !ok || metadata.Artist != "Artist" || metadata.Title != "Title" {
		t.Errorf("MediaMetadata() = %+v, %v, %v", metadata, ok, err)
	}
}

func TestHTMLDocument_TextIncludesHiddenNodes(t *testing.T) {
	ctx := context.Background()
	doc, err := ParseHTML(hiddenTextPage)
	if err != nil {
		t.Fatalf("ParseHTML() error: %v", err)
	}

	node, ok, err := doc.Query(ctx, ".title")
	if err != nil || !ok {
		t.Fatalf("Expected title node, got ok=%v err=%v", ok, err)
	}
	if got := TrimmedText(ctx, node); got != "Hidden Song" {
		t.Errorf("TrimmedText() = %q, want %q", got, "Hidden Song")
	}
}
