// Package htmx renders dashboard pages for full loads and HTMX swaps.
package htmx

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeader marks requests issued by HTMX.
	RequestHeader = "HX-Request"
	// TriggerHeader asks HTMX to fire client-side events after a response.
	TriggerHeader = "HX-Trigger"
	// RefreshEvent reloads the dashboard <main> content when fired on body.
	RefreshEvent = "refresh"
)

// Page describes a document that HTMX swaps may receive in part.
type Page struct {
	// Full renders the whole document; HTMX swaps receive its <main> content.
	Full templ.Component
	// Title is the plain document title prepended to HTMX swaps.
	Title string
}

// IsRequest reports whether r was issued by HTMX.
func IsRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// TitleTag formats an escaped <title> element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// Trigger sets the HTMX trigger header to event.
func Trigger(w http.ResponseWriter, event string) {
	if w == nil || strings.TrimSpace(event) == "" {
		return
	}
	w.Header().Set(TriggerHeader, event)
}

// RenderPage writes page.Full, or for HTMX requests only its <main> content
// prefixed with the title.
func RenderPage(w http.ResponseWriter, r *http.Request, page Page) {
	if page.Full == nil {
		return
	}
	w.Header().Add("Vary", RequestHeader)
	if !IsRequest(r) {
		templ.Handler(page.Full).ServeHTTP(w, r)
		return
	}

	var buf bytes.Buffer
	if err := page.Full.Render(r.Context(), &buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	body := buf.Bytes()
	if content, ok := mainContent(body); ok {
		body = content
	}
	if title := TitleTag(page.Title); title != "" && !bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		body = append([]byte(title), body...)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// mainContent returns what sits between the first <main ...> and </main>.
func mainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	open := bytes.IndexByte(body[start:], '>')
	if open < 0 {
		return nil, false
	}
	from := start + open + 1
	end := bytes.Index(body[from:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[from : from+end], true
}
