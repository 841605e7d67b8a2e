// Package site holds per-site knowledge of the supported streaming pages:
// where the now-playing artist and title live, and how to find the skip control.
package site

import (
	"fmt"
	"net/url"
	"strings"
)

// StrategyKind selects how a Strategy reads the page.
type StrategyKind string

const (
	// KindPair reads the track and artist from two document-level selectors.
	KindPair StrategyKind = "pair"
	// KindScoped finds a container first, then reads track and artist inside it.
	KindScoped StrategyKind = "scoped"
	// KindMediaSession reads navigator.mediaSession metadata.
	KindMediaSession StrategyKind = "media-session"
)

// Strategy is one extraction attempt in a profile's ranked list.
type Strategy struct {
	Name      string       `yaml:"name"`
	Kind      StrategyKind `yaml:"kind"`
	Container string       `yaml:"container,omitempty"`
	Track     string       `yaml:"track,omitempty"`
	Artist    string       `yaml:"artist,omitempty"`
}

// Validate checks that the selectors the kind needs are present.
func (s Strategy) Validate() error {
	switch s.Kind {
	case KindMediaSession:
		return nil
	case KindPair:
		if s.Track == "" || s.Artist == "" {
			return fmt.Errorf("strategy %q: pair needs track and artist selectors", s.Name)
		}
	case KindScoped:
		if s.Container == "" || s.Track == "" || s.Artist == "" {
			return fmt.Errorf("strategy %q: scoped needs container, track and artist selectors", s.Name)
		}
	default:
		return fmt.Errorf("strategy %q: unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// Profile describes one streaming site.
type Profile struct {
	Name  string   `yaml:"name"`
	Hosts []string `yaml:"hosts"`

	// Strategies are tried in order; the first yielding both artist and track wins.
	Strategies []Strategy `yaml:"strategies"`

	// SkipSelectors are tried in order; the first match is clicked.
	SkipSelectors []string `yaml:"skip_selectors"`

	// LabelScan selects candidate buttons whose aria-label or title is matched
	// against SkipLabels when no SkipSelector matches. Empty disables the scan.
	LabelScan  string   `yaml:"label_scan,omitempty"`
	SkipLabels []string `yaml:"skip_labels,omitempty"`

	// BannerColor is the CSS background of the skip banner.
	BannerColor string `yaml:"banner_color,omitempty"`
}

// Validate checks the profile and all its strategies.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile without name")
	}
	if len(p.Hosts) == 0 {
		return fmt.Errorf("profile %q: no hosts", p.Name)
	}
	if len(p.Strategies) == 0 {
		return fmt.Errorf("profile %q: no strategies", p.Name)
	}
	for _, s := range p.Strategies {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	return nil
}

// Matches reports whether rawURL belongs to this site. A host matches when it
// equals one of Hosts or is a subdomain of it.
func (p *Profile) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return false
	}

	for _, host := range p.Hosts {
		host = strings.ToLower(host)
		if hostname == host || strings.HasSuffix(hostname, "."+host) {
			return true
		}
	}
	return false
}
