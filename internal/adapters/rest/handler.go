// Package rest exposes the recommendation and playlist services over HTTP.
package rest

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/core/services"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

// Options carries the handler's dependencies. Only Recommendations is required;
// routes whose dependency is nil answer 501.
type Options struct {
	Recommendations *services.Orchestrator
	Playlists       *services.PlaylistService
	Ledger          ports.PlaylistLedger
	Auth            ports.Authorizer
	AllowedOrigins  []string
	Logger          *log.Logger
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	recs      *services.Orchestrator
	playlists *services.PlaylistService
	ledger    ports.PlaylistLedger
	auth      ports.Authorizer
	logger    *log.Logger

	router *mux.Router
	chain  http.Handler
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		recs:      opts.Recommendations,
		playlists: opts.Playlists,
		ledger:    opts.Ledger,
		auth:      opts.Auth,
		logger:    logging.Component(opts.Logger, "http"),
		router:    mux.NewRouter(),
	}

	h.routes()

	// Middleware wraps the router rather than using router.Use so that
	// preflight and unmatched requests pass through it too.
	h.chain = withRequestID(withAccessLog(h.logger, withCORS(opts.AllowedOrigins, h.router)))
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.chain.ServeHTTP(w, r)
}

// Walk reports every registered route, used for startup logging.
func (h *Handler) Walk(fn func(method, path string)) {
	_ = h.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		for _, m := range methods {
			fn(m, path)
		}
		return nil
	})
}

func (h *Handler) routes() {
	h.router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	h.router.HandleFunc("/recommendations", h.Recommend).Methods(http.MethodGet)

	h.router.HandleFunc("/playlists", h.SavePlaylist).Methods(http.MethodPost)
	h.router.HandleFunc("/playlists/history", h.PlaylistHistory).Methods(http.MethodGet)

	h.router.HandleFunc("/auth/login", h.Login).Methods(http.MethodGet)
	h.router.HandleFunc("/auth/callback", h.Callback).Methods(http.MethodGet)
	h.router.HandleFunc("/auth/refresh", h.RefreshToken).Methods(http.MethodPost)

	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
