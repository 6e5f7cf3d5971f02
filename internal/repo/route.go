package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
)

// RouteRepo defines read access to GTFS route metadata, plus the upsert used
// by the feed loader. The core never modifies routes.
type RouteRepo interface {
	// ColorMap returns route_short_name → route_color for every route that has
	// a short name. Colors are six hex digits without a leading '#'. When
	// several routes share a short name, the one with the lowest route_id wins.
	ColorMap(ctx context.Context) (map[string]string, error)

	// Upsert inserts a route or overwrites the existing row with the same route_id.
	Upsert(ctx context.Context, route domain.Route) error
}

// pgRouteRepo is the Postgres implementation of RouteRepo.
type pgRouteRepo struct {
	db db
}

// NewRouteRepo constructs a RouteRepo backed by the provided db connection.
func NewRouteRepo(db db) RouteRepo {
	return &pgRouteRepo{db: db}
}

// ColorMap loads the whole short-name → color table.
func (r *pgRouteRepo) ColorMap(ctx context.Context) (map[string]string, error) {
	const q = `
		SELECT DISTINCT ON (route_short_name) route_short_name, route_color
		FROM gtfs_routes
		WHERE route_short_name <> ''
		ORDER BY route_short_name, route_id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ColorMap: %w", err)
	}
	defer rows.Close()

	colors := map[string]string{}
	for rows.Next() {
		var shortName, color string
		if err := rows.Scan(&shortName, &color); err != nil {
			return nil, fmt.Errorf("repo.RouteRepo.ColorMap: scan: %w", err)
		}
		colors[shortName] = color
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ColorMap: rows: %w", err)
	}
	return colors, nil
}

// Upsert writes a route row keyed by route_id. Reloading a feed therefore
// refreshes names and colors in place.
func (r *pgRouteRepo) Upsert(ctx context.Context, route domain.Route) error {
	const q = `
		INSERT INTO gtfs_routes (route_id, agency_id, route_short_name, route_long_name, route_desc,
		                         route_type, route_url, route_color, route_text_color)
		VALUES (@route_id, @agency_id, @short_name, @long_name, @desc,
		        @type, @url, @color, @text_color)
		ON CONFLICT (route_id) DO UPDATE SET
		    agency_id        = EXCLUDED.agency_id,
		    route_short_name = EXCLUDED.route_short_name,
		    route_long_name  = EXCLUDED.route_long_name,
		    route_desc       = EXCLUDED.route_desc,
		    route_type       = EXCLUDED.route_type,
		    route_url        = EXCLUDED.route_url,
		    route_color      = EXCLUDED.route_color,
		    route_text_color = EXCLUDED.route_text_color`

	args := pgx.NamedArgs{
		"route_id":   route.ID,
		"agency_id":  route.AgencyID,
		"short_name": route.ShortName,
		"long_name":  route.LongName,
		"desc":       route.Desc,
		"type":       route.Type,
		"url":        route.URL,
		"color":      route.Color,
		"text_color": route.TextColor,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.RouteRepo.Upsert: %w", err)
	}
	return nil
}
