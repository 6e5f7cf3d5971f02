// Package domain contains the core data types for the Transit Logbook application.
// This package has no I/O and is imported by every other internal package
// (planner, repo, service, handler).
package domain

import (
	"strings"
	"time"
)

// Mode is the travel mode of a single leg, as reported by the journey planner.
type Mode string

const (
	ModeBus     Mode = "bus"
	ModeFoot    Mode = "foot"
	ModeRail    Mode = "rail"
	ModeTram    Mode = "tram"
	ModeMetro   Mode = "metro"
	ModeCoach   Mode = "coach"
	ModeWater   Mode = "water"
	ModeAir     Mode = "air"
	ModeBicycle Mode = "bicycle"
	ModeCar     Mode = "car"
)

// IsBus reports whether m is bus transit. The planner is not consistent about
// casing, so the comparison ignores it.
func (m Mode) IsBus() bool {
	return strings.EqualFold(string(m), string(ModeBus))
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TripPattern is one candidate itinerary from origin to destination.
// Patterns are transient: they are produced per search request and never
// persisted as-is. Duration is in seconds, Distance in meters.
type TripPattern struct {
	AimedStartTime time.Time `json:"aimedStartTime"`
	AimedEndTime   time.Time `json:"aimedEndTime"`
	Duration       int       `json:"duration"`
	Distance       float64   `json:"distance"`
	Legs           []Leg     `json:"legs"`
}

// HasBusLeg reports whether at least one leg of the pattern is a bus leg.
func (p TripPattern) HasBusLeg() bool {
	for _, leg := range p.Legs {
		if leg.Mode.IsBus() {
			return true
		}
	}
	return false
}

// BusLegs returns the subset of legs whose mode is bus, in their original order.
// Always returns a non-nil slice.
func (p TripPattern) BusLegs() []Leg {
	out := []Leg{}
	for _, leg := range p.Legs {
		if leg.Mode.IsBus() {
			out = append(out, leg)
		}
	}
	return out
}

// Leg is one continuous segment of a trip using a single mode of travel.
// The JSON shape mirrors the planner response so a pattern returned by a
// search can be posted back unchanged when the rider confirms it.
type Leg struct {
	Mode           Mode          `json:"mode"`
	AimedStartTime time.Time     `json:"aimedStartTime"`
	AimedEndTime   time.Time     `json:"aimedEndTime"`
	Distance       float64       `json:"distance"`
	Duration       int           `json:"duration"`
	FromPlace      Place         `json:"fromPlace"`
	ToPlace        Place         `json:"toPlace"`
	Line           *Line         `json:"line,omitempty"`         // nil for walking legs
	PointsOnLink   *PointsOnLink `json:"pointsOnLink,omitempty"` // encoded polyline
	Color          string        `json:"color,omitempty"`        // set during enrichment
}

// RouteCode returns the route short-code of the leg, or "" when the leg has no line.
func (l Leg) RouteCode() string {
	if l.Line == nil {
		return ""
	}
	return l.Line.PublicCode
}

// EncodedPath returns the encoded polyline of the leg, or "" when absent.
func (l Leg) EncodedPath() string {
	if l.PointsOnLink == nil {
		return ""
	}
	return l.PointsOnLink.Points
}

// Place is a named origin or destination of a leg.
type Place struct {
	Name string `json:"name"`
}

// Line identifies the transit route a leg runs on.
type Line struct {
	PublicCode string `json:"publicCode"`
	Name       string `json:"name"`
}

// PointsOnLink carries the encoded polyline of a leg.
type PointsOnLink struct {
	Points string `json:"points"`
}
