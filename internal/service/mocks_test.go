package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/planner"
	"github.com/pkordes/transit-logbook/internal/repo"
	"github.com/pkordes/transit-logbook/internal/service"
)

// mockPlanner is a hand-written test double for service.Planner.
type mockPlanner struct {
	plan func(ctx context.Context, req planner.PlanRequest) ([]domain.TripPattern, error)
}

func (m *mockPlanner) Plan(ctx context.Context, req planner.PlanRequest) ([]domain.TripPattern, error) {
	return m.plan(ctx, req)
}

var _ service.Planner = (*mockPlanner)(nil)

// mockRouteRepo is a hand-written test double for repo.RouteRepo.
// Each method is a function field; set only the ones your test needs.
type mockRouteRepo struct {
	colorMap func(ctx context.Context) (map[string]string, error)
	upsert   func(ctx context.Context, r domain.Route) error
}

func (m *mockRouteRepo) ColorMap(ctx context.Context) (map[string]string, error) {
	return m.colorMap(ctx)
}
func (m *mockRouteRepo) Upsert(ctx context.Context, r domain.Route) error {
	return m.upsert(ctx, r)
}

var _ repo.RouteRepo = (*mockRouteRepo)(nil)

// ---- in-memory transaction fake --------------------------------------------

// fakeStore is an in-memory stand-in for the database behind repo.TxManager.
// Writes are staged per transaction and only merged into the committed state
// when fn returns nil, so tests can assert on atomicity.
type fakeStore struct {
	mu sync.Mutex

	histories []domain.TravelHistory
	legs      []domain.BusLeg
	queries   []domain.TravelQuery
	routes    map[string]domain.Route

	leaderboard []domain.LeaderboardEntry
	routeUsage  []domain.RouteUsage

	// Failure injection: each hook, when set, is consulted before the write.
	failHistory func(domain.TravelHistory) error
	failLeg     func(domain.BusLeg) error
	failQuery   func(domain.TravelQuery) error
	failRoute   func(domain.Route) error
	failRead    error

	isoLevels []pgx.TxIsoLevel
	commits   int
	rollbacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{routes: map[string]domain.Route{}}
}

var _ repo.TxManager = (*fakeStore)(nil)

func (s *fakeStore) WithTx(_ context.Context, iso pgx.TxIsoLevel, fn func(repo.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isoLevels = append(s.isoLevels, iso)
	tx := &fakeTx{store: s, routes: map[string]domain.Route{}}
	if err := fn(tx); err != nil {
		s.rollbacks++
		return fmt.Errorf("fake.WithTx: %w", err)
	}
	s.histories = append(s.histories, tx.histories...)
	s.legs = append(s.legs, tx.legs...)
	s.queries = append(s.queries, tx.queries...)
	for id, r := range tx.routes {
		s.routes[id] = r
	}
	s.commits++
	return nil
}

// fakeTx holds the writes of one open transaction.
type fakeTx struct {
	store     *fakeStore
	histories []domain.TravelHistory
	legs      []domain.BusLeg
	queries   []domain.TravelQuery
	routes    map[string]domain.Route
}

var _ repo.Tx = (*fakeTx)(nil)

func (t *fakeTx) History() repo.HistoryRepo     { return fakeHistoryRepo{t} }
func (t *fakeTx) BusLegs() repo.BusLegRepo      { return fakeBusLegRepo{t} }
func (t *fakeTx) Queries() repo.QueryRepo       { return fakeQueryRepo{t} }
func (t *fakeTx) Routes() repo.RouteRepo        { return fakeRouteRepo{t} }
func (t *fakeTx) Analytics() repo.AnalyticsRepo { return fakeAnalyticsRepo{t} }

type fakeHistoryRepo struct{ tx *fakeTx }

func (r fakeHistoryRepo) Create(_ context.Context, h domain.TravelHistory) (domain.TravelHistory, error) {
	if f := r.tx.store.failHistory; f != nil {
		if err := f(h); err != nil {
			return domain.TravelHistory{}, err
		}
	}
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	r.tx.histories = append(r.tx.histories, h)
	return h, nil
}

func (r fakeHistoryRepo) GetByID(_ context.Context, id uuid.UUID) (domain.TravelHistory, error) {
	for _, h := range append(r.tx.store.histories, r.tx.histories...) {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.TravelHistory{}, domain.ErrNotFound
}

func (r fakeHistoryRepo) ListIDsByUserID(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, h := range append(r.tx.store.histories, r.tx.histories...) {
		if h.UserID == userID {
			ids = append(ids, h.ID)
		}
	}
	return ids, nil
}

type fakeBusLegRepo struct{ tx *fakeTx }

func (r fakeBusLegRepo) Create(_ context.Context, leg domain.BusLeg) (domain.BusLeg, error) {
	if f := r.tx.store.failLeg; f != nil {
		if err := f(leg); err != nil {
			return domain.BusLeg{}, err
		}
	}
	leg.ID = uuid.New()
	r.tx.legs = append(r.tx.legs, leg)
	return leg, nil
}

func (r fakeBusLegRepo) ListByHistoryID(_ context.Context, historyID uuid.UUID) ([]domain.BusLeg, error) {
	out := []domain.BusLeg{}
	for _, l := range append(r.tx.store.legs, r.tx.legs...) {
		if l.HistoryID == historyID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeQueryRepo struct{ tx *fakeTx }

func (r fakeQueryRepo) Create(_ context.Context, q domain.TravelQuery) (domain.TravelQuery, error) {
	if f := r.tx.store.failQuery; f != nil {
		if err := f(q); err != nil {
			return domain.TravelQuery{}, err
		}
	}
	q.ID = uuid.New()
	r.tx.queries = append(r.tx.queries, q)
	return q, nil
}

func (r fakeQueryRepo) GetByHistoryID(_ context.Context, historyID uuid.UUID) (domain.TravelQuery, error) {
	for _, q := range append(r.tx.store.queries, r.tx.queries...) {
		if q.HistoryID == historyID {
			return q, nil
		}
	}
	return domain.TravelQuery{}, domain.ErrNotFound
}

type fakeRouteRepo struct{ tx *fakeTx }

func (r fakeRouteRepo) ColorMap(_ context.Context) (map[string]string, error) {
	out := map[string]string{}
	for _, rt := range r.tx.store.routes {
		out[rt.ShortName] = rt.Color
	}
	return out, nil
}

func (r fakeRouteRepo) Upsert(_ context.Context, route domain.Route) error {
	if f := r.tx.store.failRoute; f != nil {
		if err := f(route); err != nil {
			return err
		}
	}
	r.tx.routes[route.ID] = route
	return nil
}

type fakeAnalyticsRepo struct{ tx *fakeTx }

func (r fakeAnalyticsRepo) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if r.tx.store.failRead != nil {
		return nil, r.tx.store.failRead
	}
	return head(r.tx.store.leaderboard, limit), nil
}

func (r fakeAnalyticsRepo) RouteUsage(_ context.Context, limit int) ([]domain.RouteUsage, error) {
	if r.tx.store.failRead != nil {
		return nil, r.tx.store.failRead
	}
	return head(r.tx.store.routeUsage, limit), nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
