// Package repo contains all database access logic for the Transit Logbook API.
// Each table has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HistoryRepo defines the persistence operations for travel_history rows.
// Editing and deleting history belongs to another service; this repo only
// creates and reads.
type HistoryRepo interface {
	// Create inserts a new history record and returns it with the DB-generated
	// id and created_at populated.
	Create(ctx context.Context, h domain.TravelHistory) (domain.TravelHistory, error)

	// GetByID retrieves a single history record by primary key.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TravelHistory, error)

	// ListIDsByUserID returns the ids of all history records owned by a user,
	// newest first.
	ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// pgHistoryRepo is the Postgres implementation of HistoryRepo.
type pgHistoryRepo struct {
	db db
}

// NewHistoryRepo constructs a HistoryRepo backed by the provided db connection.
// In production pass a pgx.Tx opened by TxManager; in tests pass a pgx.Tx for
// rollback isolation.
func NewHistoryRepo(db db) HistoryRepo {
	return &pgHistoryRepo{db: db}
}

const historyColumns = `id, user_id, trip_id, travel_date, total_bus_duration,
		       total_bus_distance, notes, trip_rating, created_at, updated_at`

// Create inserts a travel_history row and returns the full persisted record.
func (r *pgHistoryRepo) Create(ctx context.Context, h domain.TravelHistory) (domain.TravelHistory, error) {
	q := `
		INSERT INTO travel_history (user_id, trip_id, travel_date, total_bus_duration, total_bus_distance, notes, trip_rating)
		VALUES (@user_id, @trip_id, @travel_date, @total_bus_duration, @total_bus_distance, @notes, @trip_rating)
		RETURNING ` + historyColumns

	args := pgx.NamedArgs{
		"user_id":            h.UserID,
		"trip_id":            h.TripID,
		"travel_date":        pgtype.Date{Time: h.TravelDate, Valid: true},
		"total_bus_duration": h.TotalBusDuration,
		"total_bus_distance": h.TotalBusDistance,
		"notes":              h.Notes,  // nil becomes NULL
		"trip_rating":        h.Rating, // nil becomes NULL
	}

	result, err := scanHistory(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelHistory{}, fmt.Errorf("repo.HistoryRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a travel_history row by primary key.
func (r *pgHistoryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TravelHistory, error) {
	q := `SELECT ` + historyColumns + ` FROM travel_history WHERE id = @id`

	result, err := scanHistory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TravelHistory{}, fmt.Errorf("repo.HistoryRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListIDsByUserID returns history ids for a user ordered by created_at descending.
func (r *pgHistoryRepo) ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT id
		FROM travel_history
		WHERE user_id = @user_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.ListIDsByUserID: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.ListIDsByUserID: rows: %w", err)
	}
	return ids, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanHistory maps a single database row into a domain.TravelHistory.
// It handles the UUID, date, and nullable notes/rating/updated_at conversions.
func scanHistory(s scanner) (domain.TravelHistory, error) {
	var (
		h          domain.TravelHistory
		id, userID pgtype.UUID
		travelDate pgtype.Date
		notes      pgtype.Text
		rating     pgtype.Float8
		updatedAt  pgtype.Timestamptz
	)

	err := s.Scan(&id, &userID, &h.TripID, &travelDate, &h.TotalBusDuration,
		&h.TotalBusDistance, &notes, &rating, &h.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelHistory{}, domain.ErrNotFound
		}
		return domain.TravelHistory{}, err
	}

	h.ID = uuid.UUID(id.Bytes)
	h.UserID = uuid.UUID(userID.Bytes)
	h.TravelDate = travelDate.Time
	if notes.Valid {
		n := notes.String
		h.Notes = &n
	}
	if rating.Valid {
		v := rating.Float64
		h.Rating = &v
	}
	if updatedAt.Valid {
		u := updatedAt.Time
		h.UpdatedAt = &u
	}
	return h, nil
}
