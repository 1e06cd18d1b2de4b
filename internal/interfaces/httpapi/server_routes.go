package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeamSnapshot)
}

func registerRealtimeRoutes(mux *http.ServeMux, wsHandler http.Handler) {
	mux.Handle("GET /ws", wsHandler)
}
