package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
	pkgerrors "hangout-backend/pkg/errors"
)

// SeriesService groups hangouts into recurring event series. Conversions and
// part changes run as single transactions so a series never half-exists.
type SeriesService struct {
	seriesRepo  ports.EventSeriesRepository
	hangoutRepo ports.HangoutRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewSeriesService creates a new series service
func NewSeriesService(
	seriesRepo ports.EventSeriesRepository,
	hangoutRepo ports.HangoutRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *SeriesService {
	return &SeriesService{
		seriesRepo:  seriesRepo,
		hangoutRepo: hangoutRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// NewPartInput carries the fields for a hangout created as a series part.
type NewPartInput struct {
	Title       string
	Description string
	Location    string
	StartTime   *time.Time
	EndTime     *time.Time
}

// CreateSeriesInput converts the named hangout into the first part of a new
// series and creates the second part alongside it.
type CreateSeriesInput struct {
	HangoutID   string
	Title       string
	Description string
	CreatedBy   string
	NewPart     NewPartInput
}

// CreateSeriesFromHangout turns a standalone hangout into the seed of a new
// series and adds a second part in the same transaction. The existing
// hangout, the new hangout, and the series pointers of every associated
// group all commit together or not at all.
func (s *SeriesService) CreateSeriesFromHangout(ctx context.Context, input CreateSeriesInput) (*entities.EventSeries, *entities.Hangout, error) {
	existing, err := s.hangoutRepo.FindByID(ctx, input.HangoutID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load hangout: %w", err)
	}
	if existing == nil {
		return nil, nil, pkgerrors.ErrHangoutNotFound
	}
	if existing.IsPartOfSeries() {
		return nil, nil, pkgerrors.ErrHangoutAlreadyInSeries
	}

	newHangout, err := entities.NewHangout(input.CreatedBy, input.NewPart.Title, existing.GroupIDs)
	if err != nil {
		return nil, nil, err
	}
	newHangout.Description = input.NewPart.Description
	newHangout.Location = input.NewPart.Location
	newHangout.StartTime = input.NewPart.StartTime
	newHangout.EndTime = input.NewPart.EndTime

	series, err := entities.NewEventSeries(existing.GroupIDs[0], input.Title, input.CreatedBy, []string{existing.ID, newHangout.ID})
	if err != nil {
		return nil, nil, err
	}
	series.Description = input.Description
	newHangout.SeriesID = series.ID

	// The series stays visible in every group the seed hangout belongs to.
	seriesPointers := make([]*entities.SeriesPointer, 0, len(existing.GroupIDs))
	for _, groupID := range existing.GroupIDs {
		seriesPointers = append(seriesPointers, &entities.SeriesPointer{
			SeriesID:  series.ID,
			GroupID:   groupID,
			Title:     series.Title,
			CreatedAt: series.CreatedAt,
			UpdatedAt: series.UpdatedAt,
		})
	}

	s.logger.Debug("Converting hangout into series",
		zap.String("seriesID", series.ID),
		zap.String("hangoutID", existing.ID),
	)

	err = s.seriesRepo.CreateSeriesWithNewPart(ctx, series, existing, existing.Pointers(), newHangout, newHangout.Pointers(), seriesPointers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create series: %w", err)
	}

	publishEvents(ctx, s.publisher, s.logger, []events.DomainEvent{
		events.NewSeriesCreated(series.ID, series.GroupID, series.HangoutIDs, series.CreatedAt),
		events.NewHangoutCreated(newHangout.ID, newHangout.GroupIDs, newHangout.CreatedBy, newHangout.CreatedAt),
	})

	s.logger.Info("Series created",
		zap.String("seriesID", series.ID),
		zap.String("seedHangoutID", existing.ID),
		zap.String("newHangoutID", newHangout.ID),
	)
	return series, newHangout, nil
}

// AddSeriesPartInput creates one more hangout inside an existing series.
type AddSeriesPartInput struct {
	SeriesID  string
	CreatedBy string
	Part      NewPartInput
}

// AddPart appends a new hangout to an existing series. The member list grows
// store-side, so two concurrent adds both land instead of one overwriting
// the other.
func (s *SeriesService) AddPart(ctx context.Context, input AddSeriesPartInput) (*entities.Hangout, error) {
	series, err := s.seriesRepo.FindByID(ctx, input.SeriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if series == nil {
		return nil, pkgerrors.ErrSeriesNotFound
	}

	newHangout, err := entities.NewHangout(input.CreatedBy, input.Part.Title, []string{series.GroupID})
	if err != nil {
		return nil, err
	}
	newHangout.Description = input.Part.Description
	newHangout.Location = input.Part.Location
	newHangout.StartTime = input.Part.StartTime
	newHangout.EndTime = input.Part.EndTime
	newHangout.SeriesID = series.ID

	err = s.seriesRepo.AddPartToExistingSeries(ctx, series.ID, newHangout, newHangout.Pointers(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to add part to series: %w", err)
	}

	publishEvents(ctx, s.publisher, s.logger, []events.DomainEvent{
		events.NewSeriesPartAdded(series.ID, newHangout.ID, newHangout.CreatedAt),
		events.NewHangoutCreated(newHangout.ID, newHangout.GroupIDs, newHangout.CreatedBy, newHangout.CreatedAt),
	})

	s.logger.Info("Part added to series",
		zap.String("seriesID", series.ID),
		zap.String("hangoutID", newHangout.ID),
	)
	return newHangout, nil
}

// RemovePart detaches a hangout from its series. The hangout itself
// survives as a standalone hangout; only the series membership and the
// pointer denormalization change.
func (s *SeriesService) RemovePart(ctx context.Context, seriesID, hangoutID string) error {
	series, err := s.seriesRepo.FindByID(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}
	if series == nil {
		return pkgerrors.ErrSeriesNotFound
	}

	hangout, err := s.hangoutRepo.FindByID(ctx, hangoutID)
	if err != nil {
		return fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return pkgerrors.ErrHangoutNotFound
	}
	if hangout.SeriesID != series.ID {
		return pkgerrors.ErrHangoutNotInSeries
	}

	remaining := make([]string, 0, len(series.HangoutIDs))
	found := false
	for _, id := range series.HangoutIDs {
		if id == hangoutID {
			found = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !found {
		return pkgerrors.ErrHangoutNotInSeries
	}
	series.HangoutIDs = remaining

	if err := s.seriesRepo.RemovePartFromSeries(ctx, series, hangout, hangout.Pointers()); err != nil {
		return fmt.Errorf("failed to remove part from series: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewSeriesPartRemoved(series.ID, hangoutID, time.Now()))

	s.logger.Info("Part removed from series",
		zap.String("seriesID", seriesID),
		zap.String("hangoutID", hangoutID),
	)
	return nil
}

// GetSeries loads a series by id.
func (s *SeriesService) GetSeries(ctx context.Context, seriesID string) (*entities.EventSeries, error) {
	series, err := s.seriesRepo.FindByID(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if series == nil {
		return nil, pkgerrors.ErrSeriesNotFound
	}
	return series, nil
}

// ListGroupSeries returns the group's series pointers.
func (s *SeriesService) ListGroupSeries(ctx context.Context, groupID string) ([]*entities.SeriesPointer, error) {
	pointers, err := s.seriesRepo.FindPointersByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group series: %w", err)
	}
	return pointers, nil
}
