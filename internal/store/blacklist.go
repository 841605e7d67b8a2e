// Package store provides the in-memory blacklist backed by a Bloom filter prefilter.
package store

import (
	"sort"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	// DefaultExpectedEntries sizes the Bloom filter of a new blacklist.
	DefaultExpectedEntries = 10000
	// DefaultFalsePositiveRate is the target false positive rate of the prefilter.
	DefaultFalsePositiveRate = 0.001
)

// Entry is one blocked artist key and the rule source that lists it.
type Entry struct {
	Key    string
	Source string
}

// Blacklist provides thread-safe lookups of blocked artist keys.
// Keys are stored as given; callers normalise them.
type Blacklist struct {
	entries           map[string]string
	bloom             *bloom.BloomFilter
	mutex             sync.RWMutex
	capacity          uint
	falsePositiveRate float64
}

// NewBlacklist creates an empty blacklist sized for expectedEntries.
func NewBlacklist(expectedEntries int, falsePositiveRate float64) *Blacklist {
	if expectedEntries <= 0 {
		expectedEntries = DefaultExpectedEntries
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = DefaultFalsePositiveRate
	}

	capacity := uint(expectedEntries)
	return &Blacklist{
		entries:           make(map[string]string),
		bloom:             bloom.NewWithEstimates(capacity, falsePositiveRate),
		capacity:          capacity,
		falsePositiveRate: falsePositiveRate,
	}
}

// Lookup returns the source listing key.
func (b *Blacklist) Lookup(key string) (string, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if !b.bloom.TestString(key) {
		return "", false
	}

	source, exists := b.entries[key]
	return source, exists
}

// Add lists key under source. The first source to list a key keeps it.
func (b *Blacklist) Add(key, source string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.add(key, source)
}

// Remove removes key from the blacklist.
func (b *Blacklist) Remove(key string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, exists := b.entries[key]; !exists {
		return
	}

	delete(b.entries, key)
	// The Bloom filter keeps the key; the map lookup rejects it.
}

// Load clears the blacklist and loads entries.
func (b *Blacklist) Load(entries []Entry) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.entries = make(map[string]string, len(entries))
	if uint(len(entries)) > b.capacity {
		b.capacity = uint(len(entries))
	}
	b.bloom = bloom.NewWithEstimates(b.capacity, b.falsePositiveRate)

	for _, entry := range entries {
		b.add(entry.Key, entry.Source)
	}
}

// Entries returns every entry sorted by key.
func (b *Blacklist) Entries() []Entry {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	entries := make([]Entry, 0, len(b.entries))
	for key, source := range b.entries {
		entries = append(entries, Entry{Key: key, Source: source})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Size returns the number of keys currently listed.
func (b *Blacklist) Size() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.entries)
}

func (b *Blacklist) add(key, source string) {
	if key == "" {
		return
	}
	if _, exists := b.entries[key]; exists {
		return
	}

	b.entries[key] = source
	b.bloom.AddString(key)

	if uint(len(b.entries)) > b.capacity {
		b.grow()
	}
}

// grow doubles the filter capacity and re-adds every key.
func (b *Blacklist) grow() {
	b.capacity *= 2
	b.bloom = bloom.NewWithEstimates(b.capacity, b.falsePositiveRate)
	for key := range b.entries {
		b.bloom.AddString(key)
	}
}
