package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/repo"
)

// RouteImportService populates the route metadata store from a GTFS feed.
type RouteImportService struct {
	tx  repo.TxManager
	log *slog.Logger
}

// NewRouteImportService constructs a RouteImportService.
func NewRouteImportService(tx repo.TxManager, log *slog.Logger) *RouteImportService {
	return &RouteImportService{tx: tx, log: log}
}

// Import upserts every route in one transaction: either the whole feed is
// loaded or nothing changes. Returns the number of routes written.
func (s *RouteImportService) Import(ctx context.Context, routes []domain.Route) (int, error) {
	if len(routes) == 0 {
		return 0, fmt.Errorf("%w: feed contains no routes", domain.ErrValidation)
	}
	err := s.tx.WithTx(ctx, pgx.ReadCommitted, func(tx repo.Tx) error {
		for _, r := range routes {
			if err := tx.Routes().Upsert(ctx, r); err != nil {
				return fmt.Errorf("route %q: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("service.RouteImportService.Import: %w", err)
	}
	s.log.InfoContext(ctx, "routes imported", "count", len(routes))
	return len(routes), nil
}
