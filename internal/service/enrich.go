// Package service contains the business logic for the Transit Logbook API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// planner calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"fmt"

	"github.com/pkordes/transit-logbook/internal/domain"
)

const (
	// FallbackBusColor is assigned to bus legs whose route has no known color.
	FallbackBusColor = "blue"

	// NeutralColor is assigned to every non-bus leg.
	NeutralColor = "black"
)

// Enrich turns raw planner patterns into the itineraries shown to the rider.
//
//  1. When more than one pattern was returned the first one is dropped;
//     otherwise nothing survives.
//  2. Every leg of every remaining pattern gets a display color.
//  3. Only patterns with at least one bus leg are kept, in their original order.
//
// Returns domain.ErrNoTripsFound when nothing survives step 1 and
// domain.ErrNoValidBusTrips when nothing survives step 3.
// The input slice is not modified.
func Enrich(patterns []domain.TripPattern, routeColors map[string]string) ([]domain.TripPattern, error) {
	trimmed := trimPatterns(patterns)
	if len(trimmed) == 0 {
		return nil, domain.ErrNoTripsFound
	}

	valid := make([]domain.TripPattern, 0, len(trimmed))
	for _, p := range trimmed {
		p.Legs = colorLegs(p.Legs, routeColors)
		if p.HasBusLeg() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: %d candidate patterns without a bus leg", domain.ErrNoValidBusTrips, len(trimmed))
	}
	return valid, nil
}

// trimPatterns drops the planner's top-ranked pattern, which is never
// presented. One or zero patterns leave nothing.
func trimPatterns(patterns []domain.TripPattern) []domain.TripPattern {
	if len(patterns) <= 1 {
		return nil
	}
	return patterns[1:]
}

// colorLegs returns a copy of legs with Color set on each one.
func colorLegs(legs []domain.Leg, routeColors map[string]string) []domain.Leg {
	out := make([]domain.Leg, len(legs))
	for i, leg := range legs {
		leg.Color = LegColor(leg, routeColors)
		out[i] = leg
	}
	return out
}

// LegColor returns the display color of a single leg: "#" plus the route color
// for bus legs on a known route, FallbackBusColor for other bus legs, and
// NeutralColor for everything else.
func LegColor(leg domain.Leg, routeColors map[string]string) string {
	if !leg.Mode.IsBus() {
		return NeutralColor
	}
	if code := leg.RouteCode(); code != "" {
		if color, ok := routeColors[code]; ok {
			return "#" + color
		}
	}
	return FallbackBusColor
}
