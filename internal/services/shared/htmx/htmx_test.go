package htmx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
)

func staticPage(body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	})
}

func TestIsRequest(t *testing.T) {
	t.Parallel()

	if IsRequest(nil) {
		t.Fatal("IsRequest(nil) = true, want false")
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsRequest(r) {
		t.Fatal("IsRequest(plain) = true, want false")
	}
	r.Header.Set(RequestHeader, "TRUE")
	if !IsRequest(r) {
		t.Fatal("IsRequest(htmx) = false, want true")
	}
}

func TestTitleTag(t *testing.T) {
	t.Parallel()

	if got, want := TitleTag(" Panel <Matrona> "), "<title>Panel &lt;Matrona&gt;</title>"; got != want {
		t.Fatalf("TitleTag = %q, want %q", got, want)
	}
	if got := TitleTag("  "); got != "" {
		t.Fatalf("TitleTag(blank) = %q, want empty", got)
	}
}

func TestTrigger(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Trigger(w, RefreshEvent)
	if got := w.Header().Get(TriggerHeader); got != "refresh" {
		t.Fatalf("%s = %q, want %q", TriggerHeader, got, "refresh")
	}

	w = httptest.NewRecorder()
	Trigger(w, "")
	if got := w.Header().Get(TriggerHeader); got != "" {
		t.Fatalf("blank trigger set header %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	const doc = `<html><head><title>Doc</title></head><body><nav>x</nav><main hx-get="/c">stats</main></body></html>`

	tests := []struct {
		name  string
		htmx  bool
		title string
		body  string
		want  string
	}{
		{name: "full load", body: doc, title: "Panel", want: doc},
		{name: "htmx main with title", htmx: true, body: doc, title: "Panel", want: "<title>Panel</title>stats"},
		{name: "htmx without title", htmx: true, body: doc, want: "stats"},
		{name: "htmx without main", htmx: true, body: "<div>x</div>", title: "Panel", want: "<title>Panel</title><div>x</div>"},
		{name: "htmx keeps own title", htmx: true, body: "<title>Own</title><p>x</p>", title: "Panel", want: "<title>Own</title><p>x</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.htmx {
				r.Header.Set(RequestHeader, "true")
			}
			w := httptest.NewRecorder()
			RenderPage(w, r, Page{Full: staticPage(tt.body), Title: tt.title})
			if got := w.Body.String(); got != tt.want {
				t.Fatalf("body = %q, want %q", got, tt.want)
			}
			if got := w.Header().Get("Vary"); got != RequestHeader {
				t.Fatalf("Vary = %q, want %q", got, RequestHeader)
			}
		})
	}
}

func TestRenderPageHTMXRenderError(t *testing.T) {
	t.Parallel()

	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return errors.New("boom") })
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestHeader, "true")
	w := httptest.NewRecorder()
	RenderPage(w, r, Page{Full: failing})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestRenderPageNilComponent(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RenderPage(w, httptest.NewRequest(http.MethodGet, "/", nil), Page{})
	if w.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", w.Body.String())
	}
}
