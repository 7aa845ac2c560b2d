package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
	pkgerrors "hangout-backend/pkg/errors"
)

func newTestSeriesService(seriesRepo *fakeSeriesRepo, hangoutRepo *fakeHangoutRepo, publisher *fakePublisher) *SeriesService {
	return NewSeriesService(seriesRepo, hangoutRepo, publisher, zap.NewNop())
}

func TestSeriesService_CreateSeriesFromHangout_BuildsTransactionInputs(t *testing.T) {
	// Arrange
	existing := storedHangout(t, testGroupA, testGroupB)

	var gotSeries *entities.EventSeries
	var gotExisting *entities.Hangout
	var gotExistingPointers []*entities.HangoutPointer
	var gotNew *entities.Hangout
	var gotNewPointers []*entities.HangoutPointer
	var gotSeriesPointers []*entities.SeriesPointer

	seriesRepo := &fakeSeriesRepo{
		createSeriesFn: func(ctx context.Context, series *entities.EventSeries, ex *entities.Hangout, exPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
			gotSeries = series
			gotExisting = ex
			gotExistingPointers = exPointers
			gotNew = newHangout
			gotNewPointers = newPointers
			gotSeriesPointers = seriesPointers
			return nil
		},
	}
	hangoutRepo := &fakeHangoutRepo{
		findByIDFn: func(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
			return existing, nil
		},
	}
	publisher := &fakePublisher{}
	service := newTestSeriesService(seriesRepo, hangoutRepo, publisher)

	// Act
	series, newHangout, err := service.CreateSeriesFromHangout(context.Background(), CreateSeriesInput{
		HangoutID: existing.ID,
		Title:     "Climbing nights",
		CreatedBy: testUserID,
		NewPart:   NewPartInput{Title: "Climbing nights #2"},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, gotSeries)
	assert.Same(t, series, gotSeries)
	assert.Same(t, newHangout, gotNew)
	assert.Same(t, existing, gotExisting)

	assert.Equal(t, testGroupA, gotSeries.GroupID)
	assert.Equal(t, []string{existing.ID, gotNew.ID}, gotSeries.HangoutIDs)
	assert.Equal(t, gotSeries.ID, gotNew.SeriesID)
	assert.Equal(t, []string{testGroupA, testGroupB}, gotNew.GroupIDs)

	require.Len(t, gotExistingPointers, 2)
	require.Len(t, gotNewPointers, 2)
	for _, pointer := range gotNewPointers {
		assert.Equal(t, gotSeries.ID, pointer.SeriesID)
	}

	require.Len(t, gotSeriesPointers, 2)
	assert.Equal(t, testGroupA, gotSeriesPointers[0].GroupID)
	assert.Equal(t, testGroupB, gotSeriesPointers[1].GroupID)
	for _, pointer := range gotSeriesPointers {
		assert.Equal(t, gotSeries.ID, pointer.SeriesID)
		assert.Equal(t, "Climbing nights", pointer.Title)
	}

	assert.Equal(t, 1, publisher.batchCalls)
	assert.Equal(t, []string{"series.created", "hangout.created"}, publisher.eventTypes())
}

func TestSeriesService_CreateSeriesFromHangout_AlreadyInSeries(t *testing.T) {
	// Arrange
	existing := storedHangout(t)
	existing.SeriesID = "99999999-9999-4999-8999-999999999999"

	createCalls := 0
	seriesRepo := &fakeSeriesRepo{
		createSeriesFn: func(ctx context.Context, series *entities.EventSeries, ex *entities.Hangout, exPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
			createCalls++
			return nil
		},
	}
	hangoutRepo := &fakeHangoutRepo{
		findByIDFn: func(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
			return existing, nil
		},
	}
	service := newTestSeriesService(seriesRepo, hangoutRepo, &fakePublisher{})

	// Act
	_, _, err := service.CreateSeriesFromHangout(context.Background(), CreateSeriesInput{
		HangoutID: existing.ID,
		Title:     "Climbing nights",
		CreatedBy: testUserID,
		NewPart:   NewPartInput{Title: "Climbing nights #2"},
	})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrHangoutAlreadyInSeries))
	assert.Zero(t, createCalls)
}

func TestSeriesService_CreateSeriesFromHangout_MissingHangout(t *testing.T) {
	// Arrange
	service := newTestSeriesService(&fakeSeriesRepo{}, &fakeHangoutRepo{}, &fakePublisher{})

	// Act
	_, _, err := service.CreateSeriesFromHangout(context.Background(), CreateSeriesInput{
		HangoutID: "b06f1d1d-9ffe-4f1a-8a8f-111111111111",
		Title:     "Climbing nights",
		CreatedBy: testUserID,
		NewPart:   NewPartInput{Title: "Climbing nights #2"},
	})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrHangoutNotFound))
}

func TestSeriesService_CreateSeriesFromHangout_ConflictPassesThrough(t *testing.T) {
	// Arrange
	existing := storedHangout(t)
	seriesRepo := &fakeSeriesRepo{
		createSeriesFn: func(ctx context.Context, series *entities.EventSeries, ex *entities.Hangout, exPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
			return pkgerrors.NewConflictError("transaction cancelled: series already exists")
		},
	}
	hangoutRepo := &fakeHangoutRepo{
		findByIDFn: func(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
			return existing, nil
		},
	}
	publisher := &fakePublisher{}
	service := newTestSeriesService(seriesRepo, hangoutRepo, publisher)

	// Act
	_, _, err := service.CreateSeriesFromHangout(context.Background(), CreateSeriesInput{
		HangoutID: existing.ID,
		Title:     "Climbing nights",
		CreatedBy: testUserID,
		NewPart:   NewPartInput{Title: "Climbing nights #2"},
	})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Empty(t, publisher.published)
}

func TestSeriesService_AddPart_InheritsSeriesGroup(t *testing.T) {
	// Arrange
	series, err := entities.NewEventSeries(testGroupA, "Climbing nights", testUserID, []string{"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"})
	require.NoError(t, err)

	var gotSeriesID string
	var gotNew *entities.Hangout
	var gotSeriesPointers []*entities.SeriesPointer
	seriesRepo := &fakeSeriesRepo{
		findByIDFn: func(ctx context.Context, seriesID string) (*entities.EventSeries, error) {
			return series, nil
		},
		addPartFn: func(ctx context.Context, seriesID string, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
			gotSeriesID = seriesID
			gotNew = newHangout
			gotSeriesPointers = seriesPointers
			return nil
		},
	}
	publisher := &fakePublisher{}
	service := newTestSeriesService(seriesRepo, &fakeHangoutRepo{}, publisher)

	// Act
	newHangout, err := service.AddPart(context.Background(), AddSeriesPartInput{
		SeriesID:  series.ID,
		CreatedBy: testUserID,
		Part:      NewPartInput{Title: "Climbing nights #3"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, series.ID, gotSeriesID)
	assert.Same(t, newHangout, gotNew)
	assert.Equal(t, []string{testGroupA}, gotNew.GroupIDs)
	assert.Equal(t, series.ID, gotNew.SeriesID)
	assert.Nil(t, gotSeriesPointers)

	assert.Equal(t, 1, publisher.batchCalls)
	assert.Equal(t, []string{"series.part_added", "hangout.created"}, publisher.eventTypes())
}

func TestSeriesService_AddPart_MissingSeries(t *testing.T) {
	// Arrange
	service := newTestSeriesService(&fakeSeriesRepo{}, &fakeHangoutRepo{}, &fakePublisher{})

	// Act
	_, err := service.AddPart(context.Background(), AddSeriesPartInput{
		SeriesID:  "b06f1d1d-9ffe-4f1a-8a8f-111111111111",
		CreatedBy: testUserID,
		Part:      NewPartInput{Title: "Climbing nights #3"},
	})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrSeriesNotFound))
}

func TestSeriesService_RemovePart_RebuildsMemberList(t *testing.T) {
	// Arrange
	keep := storedHangout(t, testGroupA)
	detach := storedHangout(t, testGroupA)

	series, err := entities.NewEventSeries(testGroupA, "Climbing nights", testUserID, []string{keep.ID, detach.ID})
	require.NoError(t, err)
	detach.SeriesID = series.ID

	var gotSeries *entities.EventSeries
	var gotHangout *entities.Hangout
	var gotPointers []*entities.HangoutPointer
	seriesRepo := &fakeSeriesRepo{
		findByIDFn: func(ctx context.Context, seriesID string) (*entities.EventSeries, error) {
			return series, nil
		},
		removePartFn: func(ctx context.Context, s *entities.EventSeries, hangout *entities.Hangout, pointers []*entities.HangoutPointer) error {
			gotSeries = s
			gotHangout = hangout
			gotPointers = pointers
			return nil
		},
	}
	hangoutRepo := &fakeHangoutRepo{
		findByIDFn: func(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
			return detach, nil
		},
	}
	publisher := &fakePublisher{}
	service := newTestSeriesService(seriesRepo, hangoutRepo, publisher)

	// Act
	err = service.RemovePart(context.Background(), series.ID, detach.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, gotSeries)
	assert.Equal(t, []string{keep.ID}, gotSeries.HangoutIDs)
	assert.Same(t, detach, gotHangout)
	require.Len(t, gotPointers, 1)
	assert.Equal(t, testGroupA, gotPointers[0].GroupID)

	require.Equal(t, []string{"series.part_removed"}, publisher.eventTypes())
	event := publisher.published[0].(events.SeriesPartRemoved)
	assert.Equal(t, detach.ID, event.HangoutID)
}

func TestSeriesService_RemovePart_HangoutNotInSeries(t *testing.T) {
	// Arrange
	stranger := storedHangout(t, testGroupA)

	series, err := entities.NewEventSeries(testGroupA, "Climbing nights", testUserID, []string{"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"})
	require.NoError(t, err)

	removeCalls := 0
	seriesRepo := &fakeSeriesRepo{
		findByIDFn: func(ctx context.Context, seriesID string) (*entities.EventSeries, error) {
			return series, nil
		},
		removePartFn: func(ctx context.Context, s *entities.EventSeries, hangout *entities.Hangout, pointers []*entities.HangoutPointer) error {
			removeCalls++
			return nil
		},
	}
	hangoutRepo := &fakeHangoutRepo{
		findByIDFn: func(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
			return stranger, nil
		},
	}
	service := newTestSeriesService(seriesRepo, hangoutRepo, &fakePublisher{})

	// Act
	err = service.RemovePart(context.Background(), series.ID, stranger.ID)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrHangoutNotInSeries))
	assert.Zero(t, removeCalls)
}

func TestSeriesService_GetSeries_Missing(t *testing.T) {
	// Arrange
	service := newTestSeriesService(&fakeSeriesRepo{}, &fakeHangoutRepo{}, &fakePublisher{})

	// Act
	_, err := service.GetSeries(context.Background(), "b06f1d1d-9ffe-4f1a-8a8f-111111111111")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrSeriesNotFound))
}
