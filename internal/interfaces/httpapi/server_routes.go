package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerDataRoutes(mux *http.ServeMux, handler *Handler, limiter *IPRateLimiter) {
	mux.Handle("GET /api/data", RateLimit(limiter, http.HandlerFunc(handler.GetData)))
}

func registerDashboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/status", handler.GetStatus)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}/dashboard", handler.GetTeamDashboard)
	mux.HandleFunc("GET /v1/players/{playerID}/career", handler.GetPlayerCareer)
	mux.HandleFunc("GET /v1/routes/resolve", handler.ResolveRoute)
	mux.HandleFunc("GET /v1/load-runs", handler.ListLoadRuns)
	mux.HandleFunc("GET /v1/load-runs/{runID}", handler.GetLoadRun)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/reload", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.Reload)))
}
