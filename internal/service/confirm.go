package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/repo"
)

// ConfirmRequest is a rider's confirmation of one searched pattern.
// Query is the search that produced Pattern and is stored as provenance.
type ConfirmRequest struct {
	UserID  uuid.UUID
	Query   TripQuery
	Pattern *domain.TripPattern
}

// ConfirmService records confirmed trips.
type ConfirmService struct {
	tx  repo.TxManager
	loc *time.Location
	log *slog.Logger
}

// NewConfirmService constructs a ConfirmService. loc is the operating time
// zone: bus leg times are stored as wall-clock values in loc.
func NewConfirmService(tx repo.TxManager, loc *time.Location, log *slog.Logger) *ConfirmService {
	return &ConfirmService{tx: tx, loc: loc, log: log}
}

// Confirm validates req and, in one READ COMMITTED transaction, writes the
// travel history row, one bus_legs row per bus leg, and the travel query row.
// The returned record's ID is the new history id.
//
// Confirming the same pattern twice creates two records; there is no dedup key.
//
// Errors: domain.ErrValidation before any write; domain.ErrPersistence after
// a full rollback when anything inside the transaction fails.
func (s *ConfirmService) Confirm(ctx context.Context, req ConfirmRequest) (domain.TravelHistory, error) {
	pq, err := s.validate(req)
	if err != nil {
		return domain.TravelHistory{}, err
	}

	pattern := *req.Pattern
	busLegs := pattern.BusLegs()
	history := domain.TravelHistory{
		UserID:     req.UserID,
		TripID:     pattern.AimedStartTime.Format(time.RFC3339Nano),
		TravelDate: calendarDate(pattern.AimedStartTime),
	}
	for _, leg := range busLegs {
		history.TotalBusDuration += leg.Duration
		history.TotalBusDistance += leg.Distance
	}

	var created domain.TravelHistory
	err = s.tx.WithTx(ctx, pgx.ReadCommitted, func(tx repo.Tx) error {
		var err error
		created, err = tx.History().Create(ctx, history)
		if err != nil {
			return err
		}

		for _, leg := range busLegs {
			_, err := tx.BusLegs().Create(ctx, domain.BusLeg{
				HistoryID: created.ID,
				Mode:      domain.ModeBus,
				StartTime: localWallClock(leg.AimedStartTime, s.loc),
				EndTime:   localWallClock(leg.AimedEndTime, s.loc),
				Duration:  leg.Duration,
				Distance:  leg.Distance,
				FromPlace: leg.FromPlace.Name,
				ToPlace:   leg.ToPlace.Name,
				BusRoute:  leg.RouteCode(),
				Polyline:  leg.EncodedPath(),
			})
			if err != nil {
				return err
			}
		}

		_, err = tx.Queries().Create(ctx, domain.TravelQuery{
			UserID:      req.UserID,
			HistoryID:   created.ID,
			Origin:      pq.From,
			Destination: pq.To,
			RequestedAt: pq.At,
		})
		return err
	})
	if err != nil {
		s.log.ErrorContext(ctx, "trip confirmation rolled back", "user_id", req.UserID, "error", err)
		return domain.TravelHistory{}, fmt.Errorf("service.ConfirmService.Confirm: %w: %w", domain.ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "trip confirmed",
		"user_id", req.UserID,
		"history_id", created.ID,
		"bus_legs", len(busLegs),
		"total_bus_duration", created.TotalBusDuration,
	)
	return created, nil
}

// validate checks everything that can be checked without touching storage.
func (s *ConfirmService) validate(req ConfirmRequest) (parsedQuery, error) {
	if req.UserID == uuid.Nil {
		return parsedQuery{}, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if req.Pattern == nil {
		return parsedQuery{}, fmt.Errorf("%w: trip is required", domain.ErrValidation)
	}
	pq, err := req.Query.parse(s.loc)
	if err != nil {
		return parsedQuery{}, err
	}
	if req.Pattern.AimedStartTime.IsZero() {
		return parsedQuery{}, fmt.Errorf("%w: trip.aimedStartTime is required", domain.ErrValidation)
	}
	for i, leg := range req.Pattern.Legs {
		if !leg.Mode.IsBus() {
			continue
		}
		if leg.AimedStartTime.IsZero() || leg.AimedEndTime.IsZero() {
			return parsedQuery{}, fmt.Errorf("%w: trip.legs[%d]: aimed start and end times are required", domain.ErrValidation, i)
		}
		if leg.AimedEndTime.Before(leg.AimedStartTime) {
			return parsedQuery{}, fmt.Errorf("%w: trip.legs[%d]: aimedEndTime is before aimedStartTime", domain.ErrValidation, i)
		}
		if leg.Duration < 0 || leg.Distance < 0 {
			return parsedQuery{}, fmt.Errorf("%w: trip.legs[%d]: duration and distance must not be negative", domain.ErrValidation, i)
		}
	}
	return pq, nil
}

// calendarDate returns the date of t as written in t's own offset, at
// midnight UTC.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// localWallClock converts t into loc and drops the zone, keeping only the
// wall-clock reading. The result is labelled UTC because a timestamp without
// time zone column has nowhere to put one.
func localWallClock(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), time.UTC)
}
