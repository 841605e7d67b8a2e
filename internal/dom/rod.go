package dom

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

const mediaMetadataScript = `() => {
	const metadata = navigator.mediaSession && navigator.mediaSession.metadata;
	if (!metadata) return null;
	return { artist: metadata.artist || '', title: metadata.title || '' };
}`

// textContentScript reads textContent, which includes visually hidden nodes.
const textContentScript = `() => this.textContent || ''`

// RodDocument is a Document over a live browser page.
type RodDocument struct {
	page *rod.Page
}

// NewRodDocument wraps page.
func NewRodDocument(page *rod.Page) *RodDocument {
	return &RodDocument{page: page}
}

// Page returns the underlying rod page.
func (d *RodDocument) Page() *rod.Page {
	return d.page
}

// Query returns the first element matching selector without waiting.
func (d *RodDocument) Query(ctx context.Context, selector string) (Node, bool, error) {
	found, el, err := d.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, false, fmt.Errorf("query %q: %w", selector, err)
	}
	if !found {
		return nil, false, nil
	}
	return &rodNode{el: el}, true, nil
}

// QueryAll returns every element matching selector.
func (d *RodDocument) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	elements, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query all %q: %w", selector, err)
	}
	return wrapRodElements(elements), nil
}

// MediaMetadata reads navigator.mediaSession.metadata.
func (d *RodDocument) MediaMetadata(ctx context.Context) (MediaMetadata, bool, error) {
	res, err := d.page.Context(ctx).Eval(mediaMetadataScript)
	if err != nil {
		return MediaMetadata{}, false, fmt.Errorf("read media session: %w", err)
	}
	if res.Value.Nil() {
		return MediaMetadata{}, false, nil
	}
	return MediaMetadata{
		Artist: res.Value.Get("artist").Str(),
		Title:  res.Value.Get("title").Str(),
	}, true, nil
}

// RunScript evaluates js in the page.
func (d *RodDocument) RunScript(ctx context.Context, js string, args ...any) error {
	if _, err := d.page.Context(ctx).Eval(js, args...); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}

type rodNode struct {
	el *rod.Element
}

func wrapRodElements(elements rod.Elements) []Node {
	nodes := make([]Node, 0, len(elements))
	for _, el := range elements {
		nodes = append(nodes, &rodNode{el: el})
	}
	return nodes
}

func (n *rodNode) Text(ctx context.Context) (string, error) {
	res, err := n.el.Context(ctx).Eval(textContentScript)
	if err != nil {
		return "", fmt.Errorf("text: %w", err)
	}
	return res.Value.Str(), nil
}

func (n *rodNode) Attr(ctx context.Context, name string) (string, bool, error) {
	value, err := n.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (n *rodNode) Query(ctx context.Context, selector string) (Node, bool, error) {
	found, el, err := n.el.Context(ctx).Has(selector)
	if err != nil {
		return nil, false, fmt.Errorf("query %q: %w", selector, err)
	}
	if !found {
		return nil, false, nil
	}
	return &rodNode{el: el}, true, nil
}

func (n *rodNode) QueryAll(ctx context.Context, selector string) ([]Node, error) {
	elements, err := n.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query all %q: %w", selector, err)
	}
	return wrapRodElements(elements), nil
}

// Click uses the DOM click() method so covered or off-screen controls still fire.
func (n *rodNode) Click(ctx context.Context) error {
	_, err := n.el.Context(ctx).Eval(`() => this.click()`)
	return err
}
