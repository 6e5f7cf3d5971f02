package handler

import (
	"net/http"

	"github.com/pkordes/transit-logbook/internal/service"
)

// SearchTrips handles POST /trips/search.
// Responds 200 with the enriched patterns, or 404 when the search found
// nothing presentable; the error code tells the two empty outcomes apart.
func (s *Server) SearchTrips(w http.ResponseWriter, r *http.Request) {
	var body SearchTripsRequest
	if status, errBody, ok := decodeBody(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	patterns, err := s.search.Search(r.Context(), body.toQuery())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patterns)
}

// ConfirmTrip handles POST /trips/confirm.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	var body ConfirmTripRequest
	if status, errBody, ok := decodeBody(r, &body); !ok {
		writeJSON(w, status, errBody)
		return
	}

	created, err := s.confirm.Confirm(r.Context(), service.ConfirmRequest{
		UserID:  body.UserID,
		Query:   body.toQuery(),
		Pattern: body.Trip,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, historyToResponse(created))
}
