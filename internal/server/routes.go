package server

import (
	"net/http"
)

// setupRoutes registers the API routes on a fresh mux.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health and version
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// Trade data
	mux.HandleFunc("/api/trades", s.app.TradeHandler.ListTradesHandler)
	mux.HandleFunc("/api/trades/export", s.app.ExportHandler.ExportCSVHandler)

	// Pipeline control and status
	mux.HandleFunc("/api/refresh", s.app.RefreshHandler.RefreshTradesHandler)
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)

	// Everything else is a JSON 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.app.APIHandler.NotFoundHandler(w, r)
	})

	return mux
}
