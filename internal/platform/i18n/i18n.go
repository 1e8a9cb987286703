// Package i18n defines the locales the dashboard serves and how request
// language tags map onto them.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	// ChileanSpanish is the base locale; catalog text is authored in it first.
	ChileanSpanish = language.MustParse("es-CL")

	supportedTags = []language.Tag{ChileanSpanish, language.AmericanEnglish}
	matcher       = language.NewMatcher(supportedTags)
)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return ChileanSpanish
}

// ParseTag parses value and maps it onto a supported tag.
// It reports false when the value is malformed or matches no supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Und, false
	}
	return supportedTags[idx], true
}

// MatchTags picks the best supported tag for a preference list, falling back
// to the default tag.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[idx]
}

// LocaleString returns the catalog locale identifier for tag.
func LocaleString(tag language.Tag) string {
	if matched, ok := ParseTag(tag.String()); ok {
		return matched.String()
	}
	return DefaultTag().String()
}
