// Package dom defines the page boundary the observer, playback and notify
// packages work against, with a live go-rod backend and a static goquery one.
package dom

import (
	"context"
	"strings"
)

// Node is one element of a page.
type Node interface {
	// Text returns the element's text content.
	Text(ctx context.Context) (string, error)
	// Attr returns the value of the named attribute and whether it is present.
	Attr(ctx context.Context, name string) (string, bool, error)
	// Query returns the first descendant matching selector.
	Query(ctx context.Context, selector string) (Node, bool, error)
	// QueryAll returns every descendant matching selector in document order.
	QueryAll(ctx context.Context, selector string) ([]Node, error)
	// Click activates the element the way element.click() does.
	Click(ctx context.Context) error
}

// MediaMetadata is the platform "now playing" descriptor of a page.
type MediaMetadata struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// Document is a queryable page. Queries never wait for elements to appear.
type Document interface {
	Query(ctx context.Context, selector string) (Node, bool, error)
	QueryAll(ctx context.Context, selector string) ([]Node, error)
	// MediaMetadata returns the page's media-session metadata, if any is set.
	MediaMetadata(ctx context.Context) (MediaMetadata, bool, error)
}

// ScriptRunner evaluates a JavaScript function in the page. js must be a
// function expression; args are passed to it as JSON values.
type ScriptRunner interface {
	RunScript(ctx context.Context, js string, args ...any) error
}

// TrimmedText returns the trimmed text of node, or "" on error.
func TrimmedText(ctx context.Context, node Node) string {
	text, err := node.Text(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
