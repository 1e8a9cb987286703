// Package i18n renders localized messages for coded errors.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/obstetriccare/internal/platform/i18n/catalog"
)

// namespace holds error templates in the embedded message bundle.
const namespace = "errors"

// Catalog holds the error message templates of one locale, parsed once.
type Catalog struct {
	locale    string
	raw       map[string]string
	templates map[string]*template.Template
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

// NewCatalog parses messages, keyed by error code, for locale. A message that
// fails to parse is rendered verbatim.
func NewCatalog(locale string, messages map[string]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		raw:       make(map[string]string, len(messages)),
		templates: make(map[string]*template.Template, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(code).Parse(text); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// GetCatalog returns the catalog for locale, building it from the embedded
// bundle on first use. Unknown locales resolve to the es-CL catalog.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if c, ok := lookup(requested); ok {
		return c
	}

	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, namespace)
	if c, ok := lookup(resolved); ok {
		return c
	}
	return storeIfAbsent(resolved, NewCatalog(resolved, messages))
}

// RegisterCatalog installs cat for locale ahead of the embedded bundle.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// Localize renders err for locale. Errors without a code render the UNKNOWN
// message.
func Localize(locale string, err error) string {
	return GetCatalog(locale).Message(err)
}

// Locale returns the locale of c.
func (c *Catalog) Locale() string {
	return c.locale
}

// Message renders the template for err's code with its metadata.
func (c *Catalog) Message(err error) string {
	return c.Format(string(apperrors.GetCode(err)), apperrors.MetadataOf(err))
}

// Format renders the template for code. Unknown codes render as the code
// itself; metadata keys the template needs but lacks render "<no value>".
func (c *Catalog) Format(code string, metadata map[string]string) string {
	raw, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return raw
	}
	return b.String()
}

func lookup(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	c, ok := catalogs[locale]
	return c, ok
}

func storeIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
