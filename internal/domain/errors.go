package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when caller-supplied input is
// missing or malformed. It is always detected before any side effect.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPlanningService is returned when the journey planner is unreachable or
// answers with a failure. Handlers should map this to HTTP 502.
var ErrPlanningService = errors.New("planning service error")

// ErrNoTripsFound is returned by a search when no pattern survives trimming.
// It is a well-formed empty result, not a fault.
var ErrNoTripsFound = errors.New("no trips found")

// ErrNoValidBusTrips is returned by a search when patterns survive trimming
// but none of them contains a bus leg.
var ErrNoValidBusTrips = errors.New("no valid bus trips found")

// ErrPersistence is returned when a trip confirmation fails inside its
// transaction. The transaction has always been rolled back by the time the
// caller sees it.
var ErrPersistence = errors.New("persistence failure")
