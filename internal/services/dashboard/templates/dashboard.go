package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard"
)

// DefaultContainerID is the id of the element wrapping the rendered dashboard.
const DefaultContainerID = "dashboard-container"

// DashboardView holds the inputs for the dashboard markup.
type DashboardView struct {
	ContainerID string
	Config      dashboard.Config
	Loc         Localizer
}

// Render returns the dashboard markup for cfg in the default container and
// locale. The output depends only on cfg.
func Render(cfg dashboard.Config) templ.Component {
	return Dashboard(DashboardView{Config: cfg})
}

// Dashboard renders the heading and one section per role, in order.
func Dashboard(view DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		containerID := strings.TrimSpace(view.ContainerID)
		if containerID == "" {
			containerID = DefaultContainerID
		}
		m := &markup{w: w}
		m.raw(`<div id="`)
		m.text(containerID)
		m.raw(`"><div class="container-fluid py-4">`)
		m.raw(`<h1 class="mb-4" style="font-size: 1.75rem; font-weight: 700; color: #1e293b;">`)
		m.text(T(view.Loc, "dashboard.heading"))
		m.raw(`</h1>`)
		for _, role := range view.Config.Roles {
			m.child(ctx, RoleSection(role))
		}
		m.raw(`</div></div>`)
		return m.err
	})
}

// RoleSection renders a role title followed by its stat cards.
func RoleSection(role dashboard.Role) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.raw(`<div class="role-section" data-role="`)
		m.text(role.ID)
		m.raw(`"><div class="role-title" style="border-color: `)
		m.text(cssColor(role.Color))
		m.raw(`;"><i class="bi `)
		m.text(role.Icon)
		m.raw(`"></i> `)
		m.text(role.Label)
		m.raw(`</div><div class="row g-3">`)
		for _, stat := range role.Stats {
			m.child(ctx, StatCard(role.RoleConfig, stat))
		}
		m.raw(`</div></div>`)
		return m.err
	})
}

// StatCard renders one statistic card using the role gradient.
func StatCard(role dashboard.RoleConfig, stat dashboard.StatDef) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.raw(`<div class="col-md-6 col-lg-3"><div class="stat-card" style="background: `)
		m.text(Gradient(role))
		m.raw(`;"><i class="bi `)
		m.text(stat.Icon)
		m.raw(`"></i><div class="stat-content"><p class="stat-number" data-key="`)
		m.text(stat.Key)
		m.raw(`">`)
		m.text(stat.Value.String())
		m.raw(`</p><p class="stat-label">`)
		m.text(stat.Label)
		m.raw(`</p></div></div></div>`)
		return m.err
	})
}

// Gradient returns the card background for a role. Colors that are not
// plain CSS values are replaced by templ's placeholder.
func Gradient(role dashboard.RoleConfig) string {
	return "linear-gradient(135deg, " + cssColor(role.Color) + " 0%, " + cssColor(role.ColorDark) + " 100%)"
}
