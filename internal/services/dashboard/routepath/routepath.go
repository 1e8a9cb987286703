package routepath

const (
	Root = "/"
)

const (
	DashboardContent = "/dashboard/content"
)

const (
	Stats   = "/api/stats"
	StatsWS = "/api/stats/ws"
)

const (
	Rut      = "/api/rut"
	Validate = "/api/validate"
)
