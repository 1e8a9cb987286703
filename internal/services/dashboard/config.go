package dashboard

import (
	"strings"

	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
)

// StatDef describes one statistic card.
type StatDef struct {
	Icon  string
	Label string
	Value Value
	// Key identifies the stat across every role.
	Key string
}

// RoleConfig describes one role section and its cards.
type RoleConfig struct {
	Label     string
	Icon      string
	Color     string
	ColorDark string
	Stats     []StatDef
}

// Role pairs a role identifier with its configuration.
type Role struct {
	ID string
	RoleConfig
}

// Config is the ordered role table. Slice order is display order.
type Config struct {
	Roles []Role
}

// DefaultConfig returns the built-in role table.
func DefaultConfig() Config {
	return Config{Roles: []Role{
		{ID: "admin", RoleConfig: RoleConfig{
			Label:     "Administrativo",
			Icon:      "bi-person-badge",
			Color:     "#6366f1",
			ColorDark: "#4f46e5",
			Stats: []StatDef{
				{Icon: "bi-file-earmark-text", Label: "Ingresos Hoy", Value: Int(0), Key: "ingresos_hoy"},
				{Icon: "bi-people", Label: "Registros Pendientes", Value: Int(0), Key: "registros_pendientes"},
			},
		}},
		{ID: "matrona", RoleConfig: RoleConfig{
			Label:     "Matrona",
			Icon:      "bi-heart-pulse",
			Color:     "#ec4899",
			ColorDark: "#be185d",
			Stats: []StatDef{
				{Icon: "bi-person-heart", Label: "Pacientes Activos", Value: Int(0), Key: "pacientes_activos"},
				{Icon: "bi-calendar2-check", Label: "Controles Pendientes", Value: Int(0), Key: "controles_pendientes"},
			},
		}},
		{ID: "medico", RoleConfig: RoleConfig{
			Label:     "Médico",
			Icon:      "bi-stethoscope",
			Color:     "#3b82f6",
			ColorDark: "#1e40af",
			Stats: []StatDef{
				{Icon: "bi-door-open", Label: "Admisiones Hoy", Value: Int(0), Key: "admisiones_hoy"},
				{Icon: "bi-exclamation-circle", Label: "Alertas Activas", Value: Int(0), Key: "alertas_activas"},
			},
		}},
		{ID: "sistema", RoleConfig: RoleConfig{
			Label:     "Sistema",
			Icon:      "bi-gear",
			Color:     "#8b5cf6",
			ColorDark: "#6d28d9",
			Stats: []StatDef{
				{Icon: "bi-wifi2", Label: "APIs Activas", Value: Int(6), Key: "apis_activas"},
				{Icon: "bi-database", Label: "Base de Datos", Value: Text("100%"), Key: "db_status"},
			},
		}},
	}}
}

// Validate checks that role IDs are non-blank and unique and that stat keys
// are non-blank and unique across all roles.
func (c Config) Validate() error {
	roles := make(map[string]struct{}, len(c.Roles))
	keys := make(map[string]string)
	for _, role := range c.Roles {
		if strings.TrimSpace(role.ID) == "" {
			return apperrors.New(apperrors.CodeDashboardRoleIDEmpty, "role id is required")
		}
		if _, ok := roles[role.ID]; ok {
			return apperrors.WithMetadata(apperrors.CodeDashboardDuplicateRole, "role id is duplicated", map[string]string{
				"RoleID": role.ID,
			})
		}
		roles[role.ID] = struct{}{}

		for _, stat := range role.Stats {
			if strings.TrimSpace(stat.Key) == "" {
				return apperrors.WithMetadata(apperrors.CodeDashboardStatKeyEmpty, "stat key is required", map[string]string{
					"RoleID": role.ID,
				})
			}
			if owner, ok := keys[stat.Key]; ok {
				return apperrors.WithMetadata(apperrors.CodeDashboardDuplicateStatKey, "stat key is duplicated", map[string]string{
					"Key":    stat.Key,
					"RoleID": role.ID,
					"Owner":  owner,
				})
			}
			keys[stat.Key] = role.ID
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	roles := make([]Role, len(c.Roles))
	for i, role := range c.Roles {
		roles[i] = Role{ID: role.ID, RoleConfig: role.RoleConfig.clone()}
	}
	return Config{Roles: roles}
}

// Values returns the current value of every stat keyed by stat key.
func (c Config) Values() map[string]Value {
	out := make(map[string]Value)
	for _, role := range c.Roles {
		for _, stat := range role.Stats {
			out[stat.Key] = stat.Value
		}
	}
	return out
}

func (rc RoleConfig) clone() RoleConfig {
	out := rc
	if rc.Stats != nil {
		out.Stats = make([]StatDef, len(rc.Stats))
		copy(out.Stats, rc.Stats)
	}
	return out
}
