package oracle

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"spottheai/internal/core"
	"spottheai/internal/store"
	"spottheai/pkg/fuzzy"
)

// RuleList is one named list of blocked artists.
type RuleList struct {
	Source  string   `yaml:"source" json:"source"`
	Artists []string `yaml:"artists" json:"artists"`
}

// ListOracle answers from rule lists held in memory.
type ListOracle struct {
	blacklist  *store.Blacklist
	normalizer *fuzzy.Normalizer
}

// NewListOracle creates an oracle over an empty blacklist.
func NewListOracle() *ListOracle {
	return &ListOracle{
		blacklist:  store.NewBlacklist(store.DefaultExpectedEntries, store.DefaultFalsePositiveRate),
		normalizer: fuzzy.NewNormalizer(),
	}
}

// Add lists artist under source.
func (o *ListOracle) Add(artist, source string) {
	o.blacklist.Add(o.normalizer.NormalizeArtist(artist), source)
}

// AddList adds every artist of list.
func (o *ListOracle) AddList(list RuleList) {
	for _, artist := range list.Artists {
		o.Add(artist, list.Source)
	}
}

// Size returns the number of listed artist keys.
func (o *ListOracle) Size() int {
	return o.blacklist.Size()
}

// Entries returns every listed key with its source.
func (o *ListOracle) Entries() []store.Entry {
	return o.blacklist.Entries()
}

// CheckArtist looks up the full credit first, then the primary artist.
func (o *ListOracle) CheckArtist(_ context.Context, artist string) (core.Verdict, error) {
	for _, key := range o.normalizer.ArtistKeys(artist) {
		if source, ok := o.blacklist.Lookup(key); ok {
			return core.Verdict{Blocked: true, Source: source}, nil
		}
	}
	return core.Verdict{}, nil
}

// LoadFiles loads every rule list file into the oracle.
func (o *ListOracle) LoadFiles(paths ...string) error {
	for _, path := range paths {
		lists, err := ReadListFile(path)
		if err != nil {
			return err
		}
		for _, list := range lists {
			o.AddList(list)
		}
	}
	return nil
}

// ReadListFile reads rule lists from path. YAML and JSON files hold one
// {source, artists} document or a sequence of them; any other file is plain
// text with one artist per line and the file name as source.
func ReadListFile(path string) ([]RuleList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule list: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	base := filepath.Base(path)
	source := strings.TrimSuffix(base, filepath.Ext(base))

	var lists []RuleList
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		lists, err = decodeStructured(f, func(data []byte, v any) error { return yaml.Unmarshal(data, v) })
	case ".json":
		lists, err = decodeStructured(f, json.Unmarshal)
	default:
		var list RuleList
		list, err = readPlainList(f, source)
		lists = []RuleList{list}
	}
	if err != nil {
		return nil, fmt.Errorf("rule list %s: %w", path, err)
	}

	for i := range lists {
		if lists[i].Source == "" {
			lists[i].Source = source
		}
	}
	return lists, nil
}

func decodeStructured(r io.Reader, unmarshal func([]byte, any) error) ([]RuleList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var many []RuleList
	if err := unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one RuleList
	if err := unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []RuleList{one}, nil
}

// readPlainList reads one artist per line. Blank lines and lines starting with # are skipped.
func readPlainList(r io.Reader, source string) (RuleList, error) {
	list := RuleList{Source: source}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list.Artists = append(list.Artists, line)
	}
	return list, scanner.Err()
}
