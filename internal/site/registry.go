package site

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoProfile is returned when no profile matches a page URL.
var ErrNoProfile = errors.New("no site profile matches URL")

// Registry coordinates the known site profiles.
type Registry struct {
	profiles []*Profile
}

// NewRegistry creates a registry with all built-in profiles.
func NewRegistry() *Registry {
	return &Registry{profiles: Builtin()}
}

// Profiles returns the registered profiles in match order.
func (r *Registry) Profiles() []*Profile {
	return append([]*Profile(nil), r.profiles...)
}

// Lookup returns the profile with the given name.
func (r *Registry) Lookup(name string) (*Profile, bool) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Match returns the first profile whose hosts cover rawURL.
func (r *Registry) Match(rawURL string) (*Profile, error) {
	for _, p := range r.profiles {
		if p.Matches(rawURL) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoProfile, rawURL)
}

// CanMatch checks if any profile covers rawURL.
func (r *Registry) CanMatch(rawURL string) bool {
	_, err := r.Match(rawURL)
	return err == nil
}

type overrideFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile applies the profile overrides in a YAML file.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open sites file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := r.Load(f); err != nil {
		return fmt.Errorf("sites file %s: %w", path, err)
	}
	return nil
}

// Load applies profile overrides read as YAML from reader. A profile whose
// name is already registered has its non-empty fields replaced; any other
// profile is appended and must be complete.
func (r *Registry) Load(reader io.Reader) error {
	var file overrideFile
	if err := yaml.NewDecoder(reader).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode profiles: %w", err)
	}

	for i := range file.Profiles {
		override := file.Profiles[i]
		if override.Name == "" {
			return fmt.Errorf("profile %d: missing name", i)
		}

		existing, ok := r.Lookup(override.Name)
		if !ok {
			p := override
			if err := p.Validate(); err != nil {
				return err
			}
			r.profiles = append(r.profiles, &p)
			continue
		}

		merged := *existing
		merged.merge(&override)
		if err := merged.Validate(); err != nil {
			return err
		}
		*existing = merged
	}
	return nil
}

func (p *Profile) merge(o *Profile) {
	if len(o.Hosts) > 0 {
		p.Hosts = o.Hosts
	}
	if len(o.Strategies) > 0 {
		p.Strategies = o.Strategies
	}
	if len(o.SkipSelectors) > 0 {
		p.SkipSelectors = o.SkipSelectors
	}
	if o.LabelScan != "" {
		p.LabelScan = o.LabelScan
	}
	if len(o.SkipLabels) > 0 {
		p.SkipLabels = o.SkipLabels
	}
	if o.BannerColor != "" {
		p.BannerColor = o.BannerColor
	}
}
