package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/transit-logbook/internal/domain"
	"github.com/pkordes/transit-logbook/internal/service"
)

func TestRouteImportService_Import(t *testing.T) {
	store := newFakeStore()
	svc := service.NewRouteImportService(store, discardLogger())

	n, err := svc.Import(context.Background(), []domain.Route{
		{ID: "r1", ShortName: "1", LongName: "Red West", Color: "FF0000"},
		{ID: "r2", ShortName: "2", LongName: "Green", Color: "00FF00"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.routes, 2)
	assert.Equal(t, 1, store.commits)
}

func TestRouteImportService_Import_AllOrNothing(t *testing.T) {
	store := newFakeStore()
	store.failRoute = func(r domain.Route) error {
		if r.ID == "r2" {
			return errors.New("value too long")
		}
		return nil
	}
	svc := service.NewRouteImportService(store, discardLogger())

	_, err := svc.Import(context.Background(), []domain.Route{{ID: "r1"}, {ID: "r2"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `route "r2"`)
	assert.Empty(t, store.routes)
}

func TestRouteImportService_Import_Empty(t *testing.T) {
	svc := service.NewRouteImportService(newFakeStore(), discardLogger())

	_, err := svc.Import(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
