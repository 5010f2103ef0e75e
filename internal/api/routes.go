package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/v1/about"

	AuthorizeRoute = "/v1/authorize"
	KeysRoute      = "/v1/keys"

	AdminParent        = "/v1/admin/"
	ListDecisionsRoute = AdminParent + "decisions"
	ListAuditsRoute    = AdminParent + "audits"
)
