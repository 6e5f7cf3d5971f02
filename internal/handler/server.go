// Package handler implements the HTTP handlers for the Transit Logbook API.
// All handlers are methods on Server and are mounted by Server.Routes.
// Methods are split into domain-specific files (health.go, trips.go,
// analytics.go) but all share the same Server struct so they can access its
// dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/service"
)

// SearchServicer defines the trip search operation the handler depends on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without a planner or a database.
type SearchServicer interface {
	Search(ctx context.Context, q service.TripQuery) ([]domain.TripPattern, error)
}

// ConfirmServicer records a confirmed trip.
type ConfirmServicer interface {
	Confirm(ctx context.Context, req service.ConfirmRequest) (domain.TravelHistory, error)
}

// AnalyticsServicer serves the read-only rankings.
type AnalyticsServicer interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
	RouteUsageRanking(ctx context.Context) ([]domain.RouteUsage, error)
	Snapshot(ctx context.Context) (domain.Analytics, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	search    SearchServicer
	confirm   ConfirmServicer
	analytics AnalyticsServicer
	openAPI   []byte
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// openAPI is served verbatim at GET /openapi.yaml; nil disables the route.
// log receives one line per failed request that ends in a 5xx.
func NewServer(search SearchServicer, confirm ConfirmServicer, analytics AnalyticsServicer, openAPI []byte, log *slog.Logger) *Server {
	return &Server{search: search, confirm: confirm, analytics: analytics, openAPI: openAPI, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Routes returns a chi router with every endpoint registered.
// Cross-cutting middleware (request id, logging, CORS) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	if s.openAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}

	r.Route("/trips", func(r chi.Router) {
		r.Post("/search", s.SearchTrips)
		r.Post("/confirm", s.ConfirmTrip)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/", s.GetAnalytics)
		r.Get("/leaderboard", s.GetLeaderboard)
		r.Get("/routes", s.GetRouteUsage)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, "no such endpoint"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody(codeMethodNotAllowed, "method not allowed"))
	})
	return r
}
