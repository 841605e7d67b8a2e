package dom

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDocument is a Document over static HTML. Clicks are recorded rather
// than dispatched and media metadata is whatever was set on it.
type HTMLDocument struct {
	doc *goquery.Document

	mutex  sync.Mutex
	media  *MediaMetadata
	clicks []string
}

// NewHTMLDocument parses HTML from r.
func NewHTMLDocument(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// ParseHTML parses an HTML string.
func ParseHTML(html string) (*HTMLDocument, error) {
	return NewHTMLDocument(strings.NewReader(html))
}

// SetMediaMetadata sets the metadata returned by MediaMetadata.
func (d *HTMLDocument) SetMediaMetadata(metadata MediaMetadata) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.media = &metadata
}

// Clicks returns the outer HTML of every clicked element, oldest first.
func (d *HTMLDocument) Clicks() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]string(nil), d.clicks...)
}

func (d *HTMLDocument) recordClick(sel *goquery.Selection) {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		html = goquery.NodeName(sel)
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.clicks = append(d.clicks, html)
}

func (d *HTMLDocument) Query(ctx context.Context, selector string) (Node, bool, error) {
	return d.root().Query(ctx, selector)
}

func (d *HTMLDocument) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	return d.root().QueryAll(ctx, selector)
}

func (d *HTMLDocument) MediaMetadata(_ context.Context) (MediaMetadata, bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.media == nil {
		return MediaMetadata{}, false, nil
	}
	return *d.media, true, nil
}

func (d *HTMLDocument) root() *htmlNode {
	return &htmlNode{doc: d, sel: d.doc.Selection}
}

type htmlNode struct {
	doc *HTMLDocument
	sel *goquery.Selection
}

func (n *htmlNode) Text(_ context.Context) (string, error) {
	return n.sel.Text(), nil
}

func (n *htmlNode) Attr(_ context.Context, name string) (string, bool, error) {
	value, ok := n.sel.Attr(name)
	return value, ok, nil
}

// Query matches descendants only. An invalid selector matches nothing.
func (n *htmlNode) Query(_ context.Context, selector string) (Node, bool, error) {
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false, nil
	}
	return &htmlNode{doc: n.doc, sel: found}, true, nil
}

func (n *htmlNode) QueryAll(_ context.Context, selector string) ([]Node, error) {
	var nodes []Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &htmlNode{doc: n.doc, sel: s})
	})
	return nodes, nil
}

func (n *htmlNode) Click(_ context.Context) error {
	n.doc.recordClick(n.sel)
	return nil
}
