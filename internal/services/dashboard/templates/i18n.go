package templates

import (
	platformi18n "github.com/louisbranch/obstetriccare/internal/platform/i18n"
	_ "github.com/louisbranch/obstetriccare/internal/platform/i18n/catalog"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for templ components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string. A nil localizer uses the default locale.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		loc = message.NewPrinter(platformi18n.DefaultTag())
	}
	return loc.Sprintf(key, args...)
}

// AppName returns the localized application name.
func AppName(loc Localizer) string {
	return T(loc, "core.app_name")
}

// PageTitle composes the document title for the dashboard.
func PageTitle(loc Localizer) string {
	return T(loc, "dashboard.title", AppName(loc))
}
