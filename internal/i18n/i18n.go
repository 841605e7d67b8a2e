// Package i18n holds the message catalogs for the skip banner, the status page
// and API errors.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

const (
	// DefaultLanguage is used for unsupported languages and missing keys
	DefaultLanguage = "en"
	// French selects the French catalog
	French = "fr"
)

var (
	catalogs = map[string]map[string]string{
		DefaultLanguage: englishMessages,
		French:          frenchMessages,
	}

	// supported is in matcher order; the first entry is the default.
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
)

// ResolveLanguage maps a language tag such as "fr-CA" or "EN_gb" onto a
// catalog. It returns DefaultLanguage and false when nothing matches.
func ResolveLanguage(requested string) (string, bool) {
	if requested == "" {
		return DefaultLanguage, true
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return DefaultLanguage, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLanguage, false
	}
	base, _ := supported[index].Base()
	return base.String(), true
}

// SupportedLanguages returns the catalog codes, default first.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		codes = append(codes, base.String())
	}
	return codes
}

// Localizer formats catalog messages in one language, falling back to the
// default catalog per key.
type Localizer struct {
	language string
	messages map[string]string
}

func NewLocalizer(requested string) *Localizer {
	lang, _ := ResolveLanguage(requested)
	return &Localizer{language: lang, messages: catalogs[lang]}
}

// Language returns the resolved catalog code.
func (l *Localizer) Language() string {
	return l.language
}

// T formats the message for key with args. Unknown keys are returned as is.
func (l *Localizer) T(key string, args ...any) string {
	message, ok := l.lookup(key)
	if !ok {
		return key
	}
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (l *Localizer) lookup(key string) (string, bool) {
	if message, ok := l.messages[key]; ok {
		return message, true
	}
	message, ok := catalogs[DefaultLanguage][key]
	return message, ok
}
