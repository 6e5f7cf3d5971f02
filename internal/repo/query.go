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

// QueryRepo defines the persistence operations for travel_queries rows.
// There is exactly one query per confirmed trip.
type QueryRepo interface {
	// Create inserts the search provenance of a confirmed trip.
	Create(ctx context.Context, q domain.TravelQuery) (domain.TravelQuery, error)

	// GetByHistoryID returns the query linked to a history record.
	// Returns domain.ErrNotFound if the record has none.
	GetByHistoryID(ctx context.Context, historyID uuid.UUID) (domain.TravelQuery, error)
}

// pgQueryRepo is the Postgres implementation of QueryRepo.
type pgQueryRepo struct {
	db db
}

// NewQueryRepo constructs a QueryRepo backed by the provided db connection.
func NewQueryRepo(db db) QueryRepo {
	return &pgQueryRepo{db: db}
}

const queryColumns = `id, user_id, history_id, start_lat, start_lon, end_lat, end_lon, requested_at`

func (r *pgQueryRepo) Create(ctx context.Context, tq domain.TravelQuery) (domain.TravelQuery, error) {
	q := `
		INSERT INTO travel_queries (user_id, history_id, start_lat, start_lon, end_lat, end_lon, requested_at)
		VALUES (@user_id, @history_id, @start_lat, @start_lon, @end_lat, @end_lon, @requested_at)
		RETURNING ` + queryColumns

	args := pgx.NamedArgs{
		"user_id":      tq.UserID,
		"history_id":   tq.HistoryID,
		"start_lat":    tq.Origin.Lat,
		"start_lon":    tq.Origin.Lon,
		"end_lat":      tq.Destination.Lat,
		"end_lon":      tq.Destination.Lon,
		"requested_at": tq.RequestedAt,
	}

	result, err := scanQuery(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelQuery{}, fmt.Errorf("repo.QueryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgQueryRepo) GetByHistoryID(ctx context.Context, historyID uuid.UUID) (domain.TravelQuery, error) {
	q := `SELECT ` + queryColumns + ` FROM travel_queries WHERE history_id = @history_id`

	result, err := scanQuery(r.db.QueryRow(ctx, q, pgx.NamedArgs{"history_id": historyID}))
	if err != nil {
		return domain.TravelQuery{}, fmt.Errorf("repo.QueryRepo.GetByHistoryID: %w", err)
	}
	return result, nil
}

func scanQuery(s scanner) (domain.TravelQuery, error) {
	var (
		tq                    domain.TravelQuery
		id, userID, historyID pgtype.UUID
	)

	err := s.Scan(&id, &userID, &historyID,
		&tq.Origin.Lat, &tq.Origin.Lon, &tq.Destination.Lat, &tq.Destination.Lon, &tq.RequestedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelQuery{}, domain.ErrNotFound
		}
		return domain.TravelQuery{}, err
	}

	tq.ID = uuid.UUID(id.Bytes)
	tq.UserID = uuid.UUID(userID.Bytes)
	tq.HistoryID = uuid.UUID(historyID.Bytes)
	return tq, nil
}
