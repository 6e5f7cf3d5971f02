package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/service"
)

// Request and response bodies. Field names follow openapi.yaml.

// TripQueryBody is the search part shared by both trip endpoints.
type TripQueryBody struct {
	StartLat *float64 `json:"start_lat"`
	StartLon *float64 `json:"start_lon"`
	EndLat   *float64 `json:"end_lat"`
	EndLon   *float64 `json:"end_lon"`
	DateTime string   `json:"datetime"`
}

func (b TripQueryBody) toQuery() service.TripQuery {
	return service.TripQuery{
		StartLat: b.StartLat,
		StartLon: b.StartLon,
		EndLat:   b.EndLat,
		EndLon:   b.EndLon,
		DateTime: b.DateTime,
	}
}

// SearchTripsRequest is the body of POST /trips/search.
type SearchTripsRequest struct {
	TripQueryBody
}

// ConfirmTripRequest is the body of POST /trips/confirm. Trip is one of the
// patterns returned by /trips/search, posted back unchanged.
type ConfirmTripRequest struct {
	UserID openapi_types.UUID `json:"user_id"`
	TripQueryBody
	Trip *domain.TripPattern `json:"trip"`
}

// TravelHistory is the response of POST /trips/confirm.
type TravelHistory struct {
	HistoryID        openapi_types.UUID `json:"history_id"`
	UserID           openapi_types.UUID `json:"user_id"`
	TripID           string             `json:"trip_id"`
	TravelDate       openapi_types.Date `json:"travel_date"`
	TotalBusDuration int                `json:"total_bus_duration"`
	TotalBusDistance float64            `json:"total_bus_distance"`
	CreatedAt        time.Time          `json:"created_at"`
}

func historyToResponse(h domain.TravelHistory) TravelHistory {
	return TravelHistory{
		HistoryID:        h.ID,
		UserID:           h.UserID,
		TripID:           h.TripID,
		TravelDate:       openapi_types.Date{Time: h.TravelDate},
		TotalBusDuration: h.TotalBusDuration,
		TotalBusDistance: h.TotalBusDistance,
		CreatedAt:        h.CreatedAt,
	}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
