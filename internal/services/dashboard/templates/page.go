package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/routepath"
)

// LanguageLink is one entry of the language switcher.
type LanguageLink struct {
	URL    string
	Label  string
	Active bool
}

// PageContext provides shared layout context for dashboard pages.
type PageContext struct {
	Lang        string
	Loc         Localizer
	ContainerID string
	Languages   []LanguageLink
}

// FullPage wraps content in the document layout. Content is placed inside
// <main> so HTMX requests can receive it alone.
func FullPage(page PageContext, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := page.Lang
		if lang == "" {
			lang = "es-CL"
		}
		m := &markup{w: w}
		m.raw(`<!DOCTYPE html><html lang="`)
		m.text(lang)
		m.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		m.text(PageTitle(page.Loc))
		m.raw(`</title>`)
		m.raw(`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">`)
		m.raw(`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap-icons@1.11.3/font/bootstrap-icons.min.css">`)
		m.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		m.raw(`<style>` + pageStyles + `</style></head><body>`)
		m.child(ctx, languageNav(page))
		m.raw(`<main hx-get="`)
		m.url(routepath.DashboardContent)
		m.raw(`" hx-trigger="refresh from:body">`)
		m.child(ctx, content)
		m.raw(`</main>`)
		m.child(ctx, LiveScript(page))
		return m.err
	})
}

func languageNav(page PageContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(page.Languages) == 0 {
			return nil
		}
		m := &markup{w: w}
		m.raw(`<nav class="d-flex justify-content-end gap-2 px-4 pt-3">`)
		for _, option := range page.Languages {
			class := "btn btn-sm btn-outline-secondary"
			if option.Active {
				class = "btn btn-sm btn-secondary"
			}
			m.raw(`<a class="` + class + `" href="`)
			m.url(option.URL)
			m.raw(`">`)
			m.text(option.Label)
			m.raw(`</a>`)
		}
		m.raw(`</nav>`)
		return m.err
	})
}

const pageStyles = `body{background:#f1f5f9;}` +
	`.role-section{margin-bottom:2rem;}` +
	`.role-title{font-weight:600;font-size:1.1rem;border-left:4px solid;padding-left:.75rem;margin-bottom:1rem;color:#334155;}` +
	`.stat-card{color:#fff;border-radius:.75rem;padding:1.25rem;display:flex;align-items:center;gap:1rem;box-shadow:0 4px 12px rgba(15,23,42,.15);}` +
	`.stat-card>i{font-size:2rem;opacity:.85;}` +
	`.stat-number{font-size:1.75rem;font-weight:700;margin:0;transition:opacity .2s;}` +
	`.stat-label{margin:0;opacity:.9;}` +
	`.live-status{position:fixed;bottom:1rem;right:1rem;font-size:.8rem;}`
