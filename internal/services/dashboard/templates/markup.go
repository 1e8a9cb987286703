package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// markup writes static HTML and escaped values to w, keeping the first
// write error. Every interpolated value goes through one of its escaping
// methods.
type markup struct {
	w   io.Writer
	err error
}

// raw writes trusted static markup.
func (m *markup) raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// text writes s escaped for element content or a quoted attribute value.
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

// url writes s as an href value, replacing unsafe schemes.
func (m *markup) url(s string) {
	m.text(string(templ.URL(s)))
}

// child renders c in place.
func (m *markup) child(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

// jsString quotes s as a JavaScript string literal safe inside a script
// element. The JSON encoder writes <, > and & as \u003c, \u003e and
// \u0026, and escapes U+2028 and U+2029.
func jsString(s string) string {
	out, err := templ.JSONString(s)
	if err != nil {
		return `""`
	}
	return out
}

// cssColor returns v when it is a safe CSS color value, and templ's
// innocuous placeholder otherwise.
func cssColor(v string) string {
	safe := string(templ.SanitizeCSS("color", v))
	safe = strings.TrimPrefix(safe, "color:")
	return strings.TrimSuffix(safe, ";")
}
