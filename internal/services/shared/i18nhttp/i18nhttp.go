// Package i18nhttp resolves the UI language of an HTTP request and builds the
// language switcher.
package i18nhttp

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/obstetriccare/internal/platform/i18n"
	_ "github.com/louisbranch/obstetriccare/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter that selects a language.
	LangParam = "lang"
	// LangCookieName remembers the last language picked through LangParam.
	LangCookieName = "oc_lang"

	cookieMaxAge = 365 * 24 * time.Hour
)

// Language is the language resolved for one request.
type Language struct {
	Tag     language.Tag
	Printer *message.Printer
}

// Locale returns the catalog locale identifier, e.g. "es-CL".
func (l Language) Locale() string {
	return platformi18n.LocaleString(l.Tag)
}

// Option is one entry of a language switcher.
type Option struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// ResolveTag picks the request language from, in order, the lang query
// parameter, the language cookie, and Accept-Language. It reports true when
// the tag came from the query parameter and should be remembered.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if tag, ok := platformi18n.ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// Resolve resolves the request language and remembers an explicit selection
// in a cookie on w.
func Resolve(w http.ResponseWriter, r *http.Request) Language {
	tag, remember := ResolveTag(r)
	if remember {
		SetLanguageCookie(w, tag)
	}
	return Language{Tag: tag, Printer: message.NewPrinter(tag)}
}

// Locale returns the catalog locale identifier for r.
func Locale(r *http.Request) string {
	tag, _ := ResolveTag(r)
	return platformi18n.LocaleString(tag)
}

// SetLanguageCookie stores tag as the preferred language.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    platformi18n.LocaleString(tag),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Options lists every supported language for the switcher shown on r, with
// labels printed in lang and links back to the current page.
func Options(r *http.Request, lang Language) []Option {
	supported := platformi18n.SupportedTags()
	active := lang.Locale()
	path, rawQuery := "/", ""
	if r != nil {
		path, rawQuery = r.URL.Path, r.URL.RawQuery
	}

	options := make([]Option, 0, len(supported))
	for _, tag := range supported {
		locale := platformi18n.LocaleString(tag)
		label := locale
		if lang.Printer != nil {
			label = lang.Printer.Sprintf(labelKey(locale))
		}
		options = append(options, Option{
			Tag:    locale,
			Label:  label,
			URL:    LanguageURL(path, rawQuery, locale),
			Active: locale == active,
		})
	}
	return options
}

// LanguageURL returns path with rawQuery and the lang parameter set to tag.
func LanguageURL(path, rawQuery, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// labelKey maps a locale to its core.lang_* message key.
func labelKey(locale string) string {
	return "core.lang_" + strings.ToLower(strings.ReplaceAll(locale, "-", "_"))
}
