package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/repo"
)

// RankingLimit is the number of entries in each analytics ranking.
const RankingLimit = 5

// AnalyticsService serves the read-only rankings over persisted history.
// Each call reads inside its own READ COMMITTED transaction.
type AnalyticsService struct {
	tx repo.TxManager
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(tx repo.TxManager) *AnalyticsService {
	return &AnalyticsService{tx: tx}
}

// Leaderboard returns the top riders by confirmed trip count.
// Always returns a non-nil slice.
func (s *AnalyticsService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var out []domain.LeaderboardEntry
	err := s.tx.WithTx(ctx, pgx.ReadCommitted, func(tx repo.Tx) error {
		var err error
		out, err = tx.Analytics().Leaderboard(ctx, RankingLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.AnalyticsService.Leaderboard: %w", err)
	}
	return nonNil(out), nil
}

// RouteUsageRanking returns the routes used more often than average.
// An empty result is valid: it means no route stands out.
func (s *AnalyticsService) RouteUsageRanking(ctx context.Context) ([]domain.RouteUsage, error) {
	var out []domain.RouteUsage
	err := s.tx.WithTx(ctx, pgx.ReadCommitted, func(tx repo.Tx) error {
		var err error
		out, err = tx.Analytics().RouteUsage(ctx, RankingLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.AnalyticsService.RouteUsageRanking: %w", err)
	}
	return nonNil(out), nil
}

// Snapshot reads both rankings in the same transaction.
func (s *AnalyticsService) Snapshot(ctx context.Context) (domain.Analytics, error) {
	var out domain.Analytics
	err := s.tx.WithTx(ctx, pgx.ReadCommitted, func(tx repo.Tx) error {
		var err error
		if out.Leaderboard, err = tx.Analytics().Leaderboard(ctx, RankingLimit); err != nil {
			return err
		}
		out.RouteUsage, err = tx.Analytics().RouteUsage(ctx, RankingLimit)
		return err
	})
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("service.AnalyticsService.Snapshot: %w", err)
	}
	out.Leaderboard = nonNil(out.Leaderboard)
	out.RouteUsage = nonNil(out.RouteUsage)
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
