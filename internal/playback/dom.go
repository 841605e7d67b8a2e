// Package playback advances playback on a monitored page.
package playback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"spottheai/internal/core"
	"spottheai/internal/dom"
	"spottheai/internal/site"
)

// DOMController clicks the page's skip control.
type DOMController struct {
	doc       dom.Document
	selectors []string
	labelScan string
	labels    []string
	logger    *zap.Logger
}

// NewDOMController creates a controller using the skip configuration of profile.
func NewDOMController(profile *site.Profile, doc dom.Document, logger *zap.Logger) *DOMController {
	if logger == nil {
		logger = zap.NewNop()
	}
	labels := make([]string, 0, len(profile.SkipLabels))
	for _, label := range profile.SkipLabels {
		if label = strings.ToLower(strings.TrimSpace(label)); label != "" {
			labels = append(labels, label)
		}
	}
	return &DOMController{
		doc:       doc,
		selectors: profile.SkipSelectors,
		labelScan: profile.LabelScan,
		labels:    labels,
		logger:    logger.With(zap.String("site", profile.Name)),
	}
}

// Advance clicks the first matching skip control. It returns
// core.ErrControlNotFound when neither a selector nor the label scan finds one.
func (c *DOMController) Advance(ctx context.Context) error {
	for _, selector := range c.selectors {
		node, ok, err := c.doc.Query(ctx, selector)
		if err != nil {
			c.logger.Debug("Skip selector failed", zap.String("selector", selector), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if err := node.Click(ctx); err != nil {
			return fmt.Errorf("click skip control %q: %w", selector, err)
		}
		c.logger.Debug("Clicked skip control", zap.String("selector", selector))
		return nil
	}

	if node, ok := c.scanLabels(ctx); ok {
		if err := node.Click(ctx); err != nil {
			return fmt.Errorf("click skip control by label: %w", err)
		}
		c.logger.Debug("Clicked skip control by label scan")
		return nil
	}

	return core.ErrControlNotFound
}

func (c *DOMController) scanLabels(ctx context.Context) (dom.Node, bool) {
	if c.labelScan == "" || len(c.labels) == 0 {
		return nil, false
	}

	candidates, err := c.doc.QueryAll(ctx, c.labelScan)
	if err != nil {
		c.logger.Debug("Label scan failed", zap.Error(err))
		return nil, false
	}

	for _, node := range candidates {
		if c.matchesLabel(ctx, node) {
			return node, true
		}
	}
	return nil, false
}

// matchesLabel checks aria-label, falling back to title when aria-label is absent or empty.
func (c *DOMController) matchesLabel(ctx context.Context, node dom.Node) bool {
	label, _, err := node.Attr(ctx, "aria-label")
	if err != nil {
		return false
	}
	if label == "" {
		if label, _, err = node.Attr(ctx, "title"); err != nil {
			return false
		}
	}

	label = strings.ToLower(label)
	for _, word := range c.labels {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}
