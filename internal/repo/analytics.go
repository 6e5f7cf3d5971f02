package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// AnalyticsRepo runs the read-only aggregate queries over persisted history.
type AnalyticsRepo interface {
	// Leaderboard counts travel_history rows per user, including users with
	// no trips, and returns the top limit by count descending.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)

	// RouteUsage returns routes whose bus-leg count is strictly greater than
	// the mean leg count per route, top limit by count descending.
	RouteUsage(ctx context.Context, limit int) ([]domain.RouteUsage, error)
}

type pgAnalyticsRepo struct {
	db db
}

// NewAnalyticsRepo constructs an AnalyticsRepo backed by the provided db connection.
func NewAnalyticsRepo(db db) AnalyticsRepo {
	return &pgAnalyticsRepo{db: db}
}

// Leaderboard ties are broken by nickname so the order is stable.
func (r *pgAnalyticsRepo) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	const q = `
		SELECT u.nickname, COUNT(th.id) AS total_trips
		FROM users u
		LEFT JOIN travel_history th ON th.user_id = u.id
		GROUP BY u.id, u.nickname
		ORDER BY total_trips DESC, u.nickname
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.Leaderboard: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LeaderboardEntry, error) {
		var e domain.LeaderboardEntry
		err := row.Scan(&e.Nickname, &e.TotalTrips)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.Leaderboard: rows: %w", err)
	}
	return entries, nil
}

// RouteUsage groups bus legs by route and keeps only the routes used more
// often than average. The mean is taken over every distinct bus_route value
// present in bus_legs, so legs on routes missing from gtfs_routes still weigh
// on the threshold even though they are never listed.
//
// Feeds may reuse a short name across agencies; the row with the lowest
// route_id names the short code, so each leg is counted once.
func (r *pgAnalyticsRepo) RouteUsage(ctx context.Context, limit int) ([]domain.RouteUsage, error) {
	const q = `
		SELECT r.route_long_name,
		       COUNT(b.id)     AS leg_count,
		       SUM(b.distance) AS total_distance
		FROM bus_legs b
		JOIN (
		    SELECT DISTINCT ON (route_short_name) route_short_name, route_long_name
		    FROM gtfs_routes
		    WHERE route_short_name <> ''
		    ORDER BY route_short_name, route_id
		) r ON r.route_short_name = b.bus_route
		GROUP BY r.route_short_name, r.route_long_name
		HAVING COUNT(b.id) > (
		    SELECT AVG(route_usage)
		    FROM (
		        SELECT COUNT(*) AS route_usage
		        FROM bus_legs
		        GROUP BY bus_route
		    ) AS usage_summary
		)
		ORDER BY leg_count DESC, r.route_long_name
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.RouteUsage: %w", err)
	}
	usage, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RouteUsage, error) {
		var u domain.RouteUsage
		err := row.Scan(&u.RouteLongName, &u.LegCount, &u.TotalDistance)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.RouteUsage: rows: %w", err)
	}
	return usage, nil
}
