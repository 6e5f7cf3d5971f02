package domain

import (
	"time"

	"github.com/google/uuid"
)

// TravelHistory is the record of one confirmed trip.
// TotalBusDuration (seconds) and TotalBusDistance (meters) always equal the sums
// over the trip's BusLeg rows at creation time.
// TripID is the RFC 3339 aimed start time of the confirmed pattern; it is a
// natural identifier, not the primary key, and is not unique.
type TravelHistory struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	TripID           string
	TravelDate       time.Time // calendar date only
	TotalBusDuration int
	TotalBusDistance float64
	Notes            *string
	Rating           *float64
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// BusLeg is one persisted bus segment of a confirmed trip.
// StartTime and EndTime are local wall-clock values in the service's operating
// time zone; their Location is UTC and carries no meaning.
type BusLeg struct {
	ID        uuid.UUID
	HistoryID uuid.UUID
	Mode      Mode // always ModeBus
	StartTime time.Time
	EndTime   time.Time
	Duration  int
	Distance  float64
	FromPlace string
	ToPlace   string
	BusRoute  string
	Polyline  string
	CreatedAt time.Time
}

// TravelQuery records the search that led to a confirmed trip.
type TravelQuery struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	HistoryID   uuid.UUID
	Origin      Coordinate
	Destination Coordinate
	RequestedAt time.Time
}
