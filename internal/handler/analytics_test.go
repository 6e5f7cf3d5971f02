package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/handler"
)

type mockAnalyticsServicer struct {
	leaderboard       func(ctx context.Context) ([]domain.LeaderboardEntry, error)
	routeUsageRanking func(ctx context.Context) ([]domain.RouteUsage, error)
	snapshot          func(ctx context.Context) (domain.Analytics, error)
}

func (m *mockAnalyticsServicer) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return m.leaderboard(ctx)
}
func (m *mockAnalyticsServicer) RouteUsageRanking(ctx context.Context) ([]domain.RouteUsage, error) {
	return m.routeUsageRanking(ctx)
}
func (m *mockAnalyticsServicer) Snapshot(ctx context.Context) (domain.Analytics, error) {
	return m.snapshot(ctx)
}

var _ handler.AnalyticsServicer = (*mockAnalyticsServicer)(nil)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetAnalytics_returnsBothRankings(t *testing.T) {
	svc := &mockAnalyticsServicer{snapshot: func(context.Context) (domain.Analytics, error) {
		return domain.Analytics{
			Leaderboard: []domain.LeaderboardEntry{{Nickname: "ana", TotalTrips: 4}, {Nickname: "bo", TotalTrips: 0}},
			RouteUsage:  []domain.RouteUsage{},
		}, nil
	}}
	h := handler.NewServer(nil, nil, svc, nil, discardLogger()).Routes()

	rec := get(h, "/analytics")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.JSONEq(t, `[{"nickname":"ana","total_trips":4},{"nickname":"bo","total_trips":0}]`, string(body["user_leaderboard"]))
	assert.JSONEq(t, `[]`, string(body["route_analytics"]), "an empty ranking is a list, not null")
}

func TestGetLeaderboard(t *testing.T) {
	svc := &mockAnalyticsServicer{leaderboard: func(context.Context) ([]domain.LeaderboardEntry, error) {
		return []domain.LeaderboardEntry{{Nickname: "ana", TotalTrips: 4}}, nil
	}}
	h := handler.NewServer(nil, nil, svc, nil, discardLogger()).Routes()

	rec := get(h, "/analytics/leaderboard")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"nickname":"ana","total_trips":4}]`, rec.Body.String())
}

func TestGetRouteUsage(t *testing.T) {
	svc := &mockAnalyticsServicer{routeUsageRanking: func(context.Context) ([]domain.RouteUsage, error) {
		return []domain.RouteUsage{{RouteLongName: "Red West", LegCount: 10, TotalDistance: 31000.5}}, nil
	}}
	h := handler.NewServer(nil, nil, svc, nil, discardLogger()).Routes()

	rec := get(h, "/analytics/routes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"route_long_name":"Red West","leg_count":10,"total_distance":31000.5}]`, rec.Body.String())
}

func TestGetAnalytics_storeError_returns500(t *testing.T) {
	svc := &mockAnalyticsServicer{snapshot: func(context.Context) (domain.Analytics, error) {
		return domain.Analytics{}, errors.New("service.AnalyticsService.Snapshot: connection refused")
	}}
	h := handler.NewServer(nil, nil, svc, nil, discardLogger()).Routes()

	rec := get(h, "/analytics")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Code)
}
