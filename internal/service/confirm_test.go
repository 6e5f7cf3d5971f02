package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/service"
)

// confirmedPattern has two bus legs around two walks. Leg times are UTC and
// fall in Central Daylight Time (UTC-5) when converted.
func confirmedPattern() domain.TripPattern {
	start := time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)
	p := pattern(
		walkLeg(5),
		busLeg("1", start.Add(5*time.Minute), 10, 3000.5),
		walkLeg(2),
		busLeg("2", start.Add(20*time.Minute), 15, 4200.25),
	)
	p.AimedStartTime = start
	p.AimedEndTime = start.Add(35 * time.Minute)
	return p
}

func confirmRequest() service.ConfirmRequest {
	p := confirmedPattern()
	q := validQuery()
	q.DateTime = "2025-06-02T08:00:00"
	return service.ConfirmRequest{UserID: uuid.New(), Query: q, Pattern: &p}
}

func TestConfirmService_Confirm_WritesAllRows(t *testing.T) {
	store := newFakeStore()
	loc := chicago(t)
	svc := service.NewConfirmService(store, loc, discardLogger())
	req := confirmRequest()

	got, err := svc.Confirm(context.Background(), req)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, req.UserID, got.UserID)
	assert.Equal(t, "2025-06-02T13:00:00Z", got.TripID)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), got.TravelDate)

	assert.Equal(t, []pgx.TxIsoLevel{pgx.ReadCommitted}, store.isoLevels)
	require.Len(t, store.histories, 1)
	require.Len(t, store.legs, 2)
	require.Len(t, store.queries, 1)

	q := store.queries[0]
	assert.Equal(t, got.ID, q.HistoryID)
	assert.Equal(t, req.UserID, q.UserID)
	assert.Equal(t, domain.Coordinate{Lat: 41.0, Lon: -91.0}, q.Origin)
	assert.Equal(t, domain.Coordinate{Lat: 41.1, Lon: -91.2}, q.Destination)
	assert.True(t, q.RequestedAt.Equal(time.Date(2025, 6, 2, 8, 0, 0, 0, loc)))
}

func TestConfirmService_Confirm_TotalsReconcileWithLegs(t *testing.T) {
	store := newFakeStore()
	svc := service.NewConfirmService(store, chicago(t), discardLogger())

	got, err := svc.Confirm(context.Background(), confirmRequest())

	require.NoError(t, err)
	var duration int
	var distance float64
	for _, l := range store.legs {
		assert.Equal(t, got.ID, l.HistoryID)
		assert.Equal(t, domain.ModeBus, l.Mode)
		duration += l.Duration
		distance += l.Distance
	}
	assert.Equal(t, 25*60, got.TotalBusDuration)
	assert.Equal(t, duration, got.TotalBusDuration)
	assert.InDelta(t, 7200.75, got.TotalBusDistance, 1e-9)
	assert.InDelta(t, distance, got.TotalBusDistance, 1e-9)
}

func TestConfirmService_Confirm_LegTimesAreLocalWallClock(t *testing.T) {
	store := newFakeStore()
	svc := service.NewConfirmService(store, chicago(t), discardLogger())

	_, err := svc.Confirm(context.Background(), confirmRequest())

	require.NoError(t, err)
	require.Len(t, store.legs, 2)
	first := store.legs[0]
	assert.Equal(t, time.Date(2025, 6, 2, 8, 5, 0, 0, time.UTC), first.StartTime, "13:05Z is 08:05 in Chicago (CDT)")
	assert.Equal(t, time.Date(2025, 6, 2, 8, 15, 0, 0, time.UTC), first.EndTime)
	assert.Equal(t, "1", first.BusRoute)
	assert.Equal(t, "Stop A", first.FromPlace)
	assert.Equal(t, "Stop B", first.ToPlace)
	assert.NotEmpty(t, first.Polyline)
}

func TestConfirmService_Confirm_MissingRouteAndPathStoredEmpty(t *testing.T) {
	store := newFakeStore()
	svc := service.NewConfirmService(store, chicago(t), discardLogger())
	req := confirmRequest()
	req.Pattern.Legs[1].Line = nil
	req.Pattern.Legs[1].PointsOnLink = nil

	_, err := svc.Confirm(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "", store.legs[0].BusRoute)
	assert.Equal(t, "", store.legs[0].Polyline)
}

func TestConfirmService_Confirm_NoBusLegsStillRecorded(t *testing.T) {
	store := newFakeStore()
	svc := service.NewConfirmService(store, chicago(t), discardLogger())
	req := confirmRequest()
	p := pattern(walkLeg(20))
	p.AimedStartTime = time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)
	req.Pattern = &p

	got, err := svc.Confirm(context.Background(), req)

	require.NoError(t, err)
	assert.Zero(t, got.TotalBusDuration)
	assert.Zero(t, got.TotalBusDistance)
	assert.Len(t, store.histories, 1)
	assert.Empty(t, store.legs)
	assert.Len(t, store.queries, 1)
}

func TestConfirmService_Confirm_TripIDKeepsSubsecondPrecision(t *testing.T) {
	store := newFakeStore()
	svc := service.NewConfirmService(store, chicago(t), discardLogger())

	first := confirmRequest()
	second := confirmRequest()
	second.Pattern.AimedStartTime = second.Pattern.AimedStartTime.Add(250 * time.Millisecond)

	a, err := svc.Confirm(context.Background(), first)
	require.NoError(t, err)
	b, err := svc.Confirm(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-02T13:00:00Z", a.TripID)
	assert.Equal(t, "2025-06-02T13:00:00.25Z", b.TripID)
}

func TestConfirmService_Confirm_TwiceCreatesTwoRecords(t *testing.T) {
	store := newFakeStore()
	svc := service.NewConfirmService(store, chicago(t), discardLogger())
	req := confirmRequest()

	first, err := svc.Confirm(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Confirm(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.TripID, second.TripID)
	assert.Len(t, store.histories, 2)
	assert.Len(t, store.legs, 4)
}

func TestConfirmService_Confirm_QueryInsertFailure_RollsBack(t *testing.T) {
	store := newFakeStore()
	dbErr := errors.New("insert travel_queries: connection lost")
	store.failQuery = func(domain.TravelQuery) error { return dbErr }
	svc := service.NewConfirmService(store, chicago(t), discardLogger())

	_, err := svc.Confirm(context.Background(), confirmRequest())

	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, store.histories)
	assert.Empty(t, store.legs)
	assert.Empty(t, store.queries)
	assert.Equal(t, 1, store.rollbacks)
	assert.Zero(t, store.commits)
}

func TestConfirmService_Confirm_SecondLegFailure_RollsBack(t *testing.T) {
	store := newFakeStore()
	store.failLeg = func(l domain.BusLeg) error {
		if l.BusRoute == "2" {
			return errors.New("check constraint violated")
		}
		return nil
	}
	svc := service.NewConfirmService(store, chicago(t), discardLogger())

	_, err := svc.Confirm(context.Background(), confirmRequest())

	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, store.histories)
	assert.Empty(t, store.legs)
}

func TestConfirmService_Confirm_InvalidInput_NoTransaction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *service.ConfirmRequest)
	}{
		{"missing user", func(r *service.ConfirmRequest) { r.UserID = uuid.Nil }},
		{"missing pattern", func(r *service.ConfirmRequest) { r.Pattern = nil }},
		{"missing origin", func(r *service.ConfirmRequest) { r.Query.StartLat = nil }},
		{"bad datetime", func(r *service.ConfirmRequest) { r.Query.DateTime = "not a date" }},
		{"pattern without start", func(r *service.ConfirmRequest) { r.Pattern.AimedStartTime = time.Time{} }},
		{"bus leg ends before it starts", func(r *service.ConfirmRequest) {
			r.Pattern.Legs[1].AimedEndTime = r.Pattern.Legs[1].AimedStartTime.Add(-time.Minute)
		}},
		{"negative distance", func(r *service.ConfirmRequest) { r.Pattern.Legs[3].Distance = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := service.NewConfirmService(store, chicago(t), discardLogger())
			req := confirmRequest()
			tc.mutate(&req)

			_, err := svc.Confirm(context.Background(), req)

			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, store.isoLevels, "no transaction may be opened for invalid input")
		})
	}
}
