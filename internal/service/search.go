package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/planner"
	"github.com/pkordes/transit-logbook/internal/repo"
)

// NumTripPatterns is how many candidate patterns are requested from the planner.
const NumTripPatterns = 5

// Planner is the journey-planning dependency of SearchService.
// *planner.Client satisfies it.
type Planner interface {
	Plan(ctx context.Context, req planner.PlanRequest) ([]domain.TripPattern, error)
}

// SearchService finds and enriches candidate trips for a rider.
type SearchService struct {
	planner Planner
	routes  repo.RouteRepo
	loc     *time.Location
	log     *slog.Logger
}

// NewSearchService constructs a SearchService. loc is the operating time zone
// used for request datetimes that carry no offset.
func NewSearchService(p Planner, routes repo.RouteRepo, loc *time.Location, log *slog.Logger) *SearchService {
	return &SearchService{planner: p, routes: routes, loc: loc, log: log}
}

// Search validates q, asks the planner for NumTripPatterns patterns and
// returns the enriched, bus-bearing subset.
//
// Errors: domain.ErrValidation for bad input, domain.ErrPlanningService when
// the planner fails, domain.ErrNoTripsFound / domain.ErrNoValidBusTrips for
// well-formed empty results.
func (s *SearchService) Search(ctx context.Context, q TripQuery) ([]domain.TripPattern, error) {
	pq, err := q.parse(s.loc)
	if err != nil {
		return nil, err
	}

	patterns, err := s.planner.Plan(ctx, planner.PlanRequest{
		From:            pq.From,
		To:              pq.To,
		DateTime:        pq.At,
		NumTripPatterns: NumTripPatterns,
	})
	if err != nil {
		s.log.WarnContext(ctx, "journey planner failed", "error", err)
		return nil, fmt.Errorf("service.SearchService.Search: %w", err)
	}

	// Nothing survives trimming: skip the route lookup entirely.
	if len(patterns) <= 1 {
		s.log.InfoContext(ctx, "trip search", "patterns", len(patterns), "kept", 0)
		return nil, fmt.Errorf("service.SearchService.Search: %w", domain.ErrNoTripsFound)
	}

	colors, err := s.routes.ColorMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SearchService.Search: route colors: %w", err)
	}

	enriched, err := Enrich(patterns, colors)
	if err != nil {
		if errors.Is(err, domain.ErrNoValidBusTrips) {
			s.log.InfoContext(ctx, "trip search", "patterns", len(patterns), "kept", 0)
		}
		return nil, fmt.Errorf("service.SearchService.Search: %w", err)
	}

	s.log.InfoContext(ctx, "trip search", "patterns", len(patterns), "kept", len(enriched))
	return enriched, nil
}
