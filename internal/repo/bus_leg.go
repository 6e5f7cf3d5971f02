package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// BusLegRepo defines the persistence operations for bus_legs rows.
// Every operation is scoped to a parent travel_history row.
type BusLegRepo interface {
	// Create inserts a new bus leg and returns the persisted record.
	Create(ctx context.Context, leg domain.BusLeg) (domain.BusLeg, error)

	// ListByHistoryID returns all bus legs of a trip ordered by start_time ascending.
	ListByHistoryID(ctx context.Context, historyID uuid.UUID) ([]domain.BusLeg, error)
}

// pgBusLegRepo is the Postgres implementation of BusLegRepo.
type pgBusLegRepo struct {
	db db
}

// NewBusLegRepo constructs a BusLegRepo backed by the provided db connection.
func NewBusLegRepo(db db) BusLegRepo {
	return &pgBusLegRepo{db: db}
}

const busLegColumns = `id, history_id, mode, start_time, end_time, duration, distance,
		       from_place, to_place, bus_route, polyline, created_at`

// Create inserts a bus_legs row. StartTime and EndTime must already be local
// wall-clock values; the timestamp column stores them without a zone.
func (r *pgBusLegRepo) Create(ctx context.Context, leg domain.BusLeg) (domain.BusLeg, error) {
	q := `
		INSERT INTO bus_legs (history_id, mode, start_time, end_time, duration, distance,
		                      from_place, to_place, bus_route, polyline)
		VALUES (@history_id, @mode, @start_time, @end_time, @duration, @distance,
		        @from_place, @to_place, @bus_route, @polyline)
		RETURNING ` + busLegColumns

	args := pgx.NamedArgs{
		"history_id": leg.HistoryID,
		"mode":       string(leg.Mode),
		"start_time": pgtype.Timestamp{Time: leg.StartTime, Valid: true},
		"end_time":   pgtype.Timestamp{Time: leg.EndTime, Valid: true},
		"duration":   leg.Duration,
		"distance":   leg.Distance,
		"from_place": leg.FromPlace,
		"to_place":   leg.ToPlace,
		"bus_route":  leg.BusRoute,
		"polyline":   leg.Polyline,
	}

	result, err := scanBusLeg(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BusLeg{}, fmt.Errorf("repo.BusLegRepo.Create: %w", err)
	}
	return result, nil
}

// ListByHistoryID returns the legs of one trip in travel order.
func (r *pgBusLegRepo) ListByHistoryID(ctx context.Context, historyID uuid.UUID) ([]domain.BusLeg, error) {
	q := `
		SELECT ` + busLegColumns + `
		FROM bus_legs
		WHERE history_id = @history_id
		ORDER BY start_time, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"history_id": historyID})
	if err != nil {
		return nil, fmt.Errorf("repo.BusLegRepo.ListByHistoryID: %w", err)
	}
	defer rows.Close()

	legs := []domain.BusLeg{}
	for rows.Next() {
		leg, err := scanBusLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BusLegRepo.ListByHistoryID: scan: %w", err)
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BusLegRepo.ListByHistoryID: rows: %w", err)
	}
	return legs, nil
}

// scanBusLeg maps a single database row into a domain.BusLeg.
func scanBusLeg(s scanner) (domain.BusLeg, error) {
	var (
		l             domain.BusLeg
		id, historyID pgtype.UUID
		mode          string
		start, end    pgtype.Timestamp
	)

	err := s.Scan(&id, &historyID, &mode, &start, &end, &l.Duration, &l.Distance,
		&l.FromPlace, &l.ToPlace, &l.BusRoute, &l.Polyline, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BusLeg{}, domain.ErrNotFound
		}
		return domain.BusLeg{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.HistoryID = uuid.UUID(historyID.Bytes)
	l.Mode = domain.Mode(mode)
	l.StartTime = start.Time
	l.EndTime = end.Time
	return l, nil
}
