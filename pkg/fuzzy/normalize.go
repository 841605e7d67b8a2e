// Package fuzzy normalises artist names so blacklist lookups survive
// differences in case, accents, punctuation and collaboration credits.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}&\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	// creditRegex splits a credit line at an explicit featuring marker only.
	creditRegex = regexp.MustCompile(`(?i)\s*(?:[\(\[]\s*)?(?:\bfeat\b\.?|\bft\b\.?|\bfeaturing\b)\s*`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeArtist folds an artist credit into its lookup key.
func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = n.basicNormalize(artist)

	artist = strings.ReplaceAll(artist, " and ", " & ")

	return artist
}

// ArtistKeys returns the lookup keys for a credit: the whole credit first,
// then the primary artist when the credit names a featured artist.
func (n *Normalizer) ArtistKeys(artist string) []string {
	full := n.NormalizeArtist(artist)
	if full == "" {
		return nil
	}

	keys := []string{full}

	parts := creditRegex.Split(strings.TrimSpace(artist), 2)
	if len(parts) == 2 {
		if primary := n.NormalizeArtist(parts[0]); primary != "" && primary != full {
			keys = append(keys, primary)
		}
	}

	return keys
}

func (n *Normalizer) basicNormalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	text = strings.TrimSpace(text)

	return text
}
