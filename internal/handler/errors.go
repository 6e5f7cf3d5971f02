package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// Error codes carried in ErrorDetail.Code.
const (
	codeValidation       = "validation_error"
	codeNoTripsFound     = "no_trips_found"
	codeNoValidBusTrips  = "no_valid_bus_trips"
	codePlanningService  = "planning_service_error"
	codePersistence      = "persistence_failure"
	codeBodyTooLarge     = "body_too_large"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeError maps a service error to its status and body. Unknown errors
// become a 500 whose message does not leak internals; the full error goes to
// the server's logger instead.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"status", status,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorBody(codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNoTripsFound):
		return http.StatusNotFound, errorBody(codeNoTripsFound, domain.ErrNoTripsFound.Error())
	case errors.Is(err, domain.ErrNoValidBusTrips):
		return http.StatusNotFound, errorBody(codeNoValidBusTrips, domain.ErrNoValidBusTrips.Error())
	case errors.Is(err, domain.ErrPlanningService):
		return http.StatusBadGateway, errorBody(codePlanningService, unwrapMessage(err, domain.ErrPlanningService))
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, errorBody(codePersistence, "the trip could not be saved; nothing was recorded")
	default:
		return http.StatusInternalServerError, errorBody(codeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part that follows sentinel in a
// wrapped error.
// e.g. "service.SearchService.Search: validation error: start_lat is required" → "start_lat is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decodeBody reads a JSON request body into dst. The returned error is already
// classified: a 413 for bodies cut off by the max-body middleware, a
// validation error for everything else.
func decodeBody(r *http.Request, dst any) (int, ErrorResponse, bool) {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return 0, ErrorResponse{}, true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errorBody(codeBodyTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)), false
	case errors.Is(err, io.EOF):
		return http.StatusUnprocessableEntity, errorBody(codeValidation, "request body is required"), false
	default:
		return http.StatusUnprocessableEntity, errorBody(codeValidation, "malformed JSON body: "+err.Error()), false
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client is gone if this fails; nothing left to report to.
	json.NewEncoder(w).Encode(v)
}
