package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/entities"
	pkgerrors "hangout-backend/pkg/errors"
	"hangout-backend/pkg/utils"
)

// EventSeriesRepository implements ports.EventSeriesRepository using DynamoDB.
// Every mutation is a single TransactWriteItems call; series/parent mutations
// are always emitted before new-entity creations so cancellation reasons and
// audits read in a fixed order.
type EventSeriesRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewEventSeriesRepository creates a new EventSeriesRepository
func NewEventSeriesRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) ports.EventSeriesRepository {
	return &EventSeriesRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// eventSeriesItem represents the DynamoDB item structure for a series
type eventSeriesItem struct {
	PK          string   `dynamodbav:"PK"` // SERIES#<seriesId>
	SK          string   `dynamodbav:"SK"` // METADATA
	EntityType  string   `dynamodbav:"EntityType"`
	SeriesID    string   `dynamodbav:"SeriesID"`
	GroupID     string   `dynamodbav:"GroupID"`
	Title       string   `dynamodbav:"Title"`
	Description string   `dynamodbav:"Description,omitempty"`
	HangoutIDs  []string `dynamodbav:"HangoutIDs"`
	CreatedBy   string   `dynamodbav:"CreatedBy"`
	Version     int      `dynamodbav:"Version"`
	CreatedAt   string   `dynamodbav:"CreatedAt"`
	UpdatedAt   string   `dynamodbav:"UpdatedAt"`
}

// seriesPointerItem mirrors the series into its group's partition
type seriesPointerItem struct {
	PK         string `dynamodbav:"PK"` // GROUP#<groupId>
	SK         string `dynamodbav:"SK"` // SERIES#<seriesId>
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	SeriesID   string `dynamodbav:"SeriesID"`
	GroupID    string `dynamodbav:"GroupID"`
	Title      string `dynamodbav:"Title"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func newEventSeriesItem(s *entities.EventSeries) eventSeriesItem {
	return eventSeriesItem{
		PK:          seriesPK(s.ID),
		SK:          skMetadata,
		EntityType:  entityTypeEventSeries,
		SeriesID:    s.ID,
		GroupID:     s.GroupID,
		Title:       s.Title,
		Description: s.Description,
		HangoutIDs:  s.HangoutIDs,
		CreatedBy:   s.CreatedBy,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i eventSeriesItem) toEntity() (*entities.EventSeries, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}

	return &entities.EventSeries{
		ID:          i.SeriesID,
		GroupID:     i.GroupID,
		Title:       i.Title,
		Description: i.Description,
		HangoutIDs:  i.HangoutIDs,
		CreatedBy:   i.CreatedBy,
		Version:     i.Version,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func newSeriesPointerItem(p *entities.SeriesPointer) seriesPointerItem {
	return seriesPointerItem{
		PK:         groupPK(p.GroupID),
		SK:         seriesSK(p.SeriesID),
		GSI2PK:     groupPK(p.GroupID),
		GSI2SK:     createdGSI2SK(p.CreatedAt),
		EntityType: entityTypeSeriesPointer,
		SeriesID:   p.SeriesID,
		GroupID:    p.GroupID,
		Title:      p.Title,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i seriesPointerItem) toEntity() (*entities.SeriesPointer, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}

	return &entities.SeriesPointer{
		SeriesID:  i.SeriesID,
		GroupID:   i.GroupID,
		Title:     i.Title,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// CreateSeriesWithNewPart converts a standalone hangout into the first two
// parts of a series in one transaction, ordered: series create; existing
// hangout link (version checked); existing pointer links; new hangout create;
// new pointer creates; series pointer creates. Every SeriesID-setting write
// carries the same series id and the same timestamp.
func (r *EventSeriesRepository) CreateSeriesWithNewPart(ctx context.Context, series *entities.EventSeries, existing *entities.Hangout, existingPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
	if err := validateID("seriesId", series.ID); err != nil {
		return err
	}
	if err := validateID("hangoutId", existing.ID); err != nil {
		return err
	}
	if err := validateID("hangoutId", newHangout.ID); err != nil {
		return err
	}

	now := utils.NowRFC3339()

	seriesAV, err := attributevalue.MarshalMap(newEventSeriesItem(series))
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	tx := newWriteTransaction(r.tableName)
	tx.putIfAbsent(seriesAV)

	tx.update(
		map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(existing.ID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		"SET SeriesID = :seriesId, Version = :newVersion, UpdatedAt = :now",
		"Version = :expectedVersion",
		map[string]types.AttributeValue{
			":seriesId":        &types.AttributeValueMemberS{Value: series.ID},
			":newVersion":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", existing.Version+1)},
			":now":             &types.AttributeValueMemberS{Value: now},
			":expectedVersion": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", existing.Version)},
		},
	)

	for _, pointer := range existingPointers {
		tx.update(
			map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: groupPK(pointer.GroupID)},
				"SK": &types.AttributeValueMemberS{Value: hangoutSK(pointer.HangoutID)},
			},
			"SET SeriesID = :seriesId, UpdatedAt = :now",
			"",
			map[string]types.AttributeValue{
				":seriesId": &types.AttributeValueMemberS{Value: series.ID},
				":now":      &types.AttributeValueMemberS{Value: now},
			},
		)
	}

	newHangoutAV, err := attributevalue.MarshalMap(newHangoutItem(newHangout))
	if err != nil {
		return fmt.Errorf("failed to marshal hangout: %w", err)
	}
	tx.putIfAbsent(newHangoutAV)

	for _, pointer := range newPointers {
		av, err := attributevalue.MarshalMap(newHangoutPointerItem(pointer))
		if err != nil {
			return fmt.Errorf("failed to marshal hangout pointer: %w", err)
		}
		tx.put(av)
	}

	for _, pointer := range seriesPointers {
		av, err := attributevalue.MarshalMap(newSeriesPointerItem(pointer))
		if err != nil {
			return fmt.Errorf("failed to marshal series pointer: %w", err)
		}
		tx.put(av)
	}

	if err := tx.run(ctx, r.client); err != nil {
		return r.mapTransactionError("create series with new part", series.ID, err)
	}

	r.logger.Info("Series created from existing hangout",
		zap.String("seriesID", series.ID),
		zap.String("existingHangoutID", existing.ID),
		zap.String("newHangoutID", newHangout.ID),
		zap.Int("itemCount", len(tx.items)),
	)

	return nil
}

// AddPartToExistingSeries appends a hangout to the series member list and
// creates the hangout with its pointers, all in one transaction. The series
// update is existence guarded; the append and version increment happen
// store-side.
func (r *EventSeriesRepository) AddPartToExistingSeries(ctx context.Context, seriesID string, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error {
	if err := validateID("seriesId", seriesID); err != nil {
		return err
	}
	if err := validateID("hangoutId", newHangout.ID); err != nil {
		return err
	}

	tx := newWriteTransaction(r.tableName)

	tx.update(
		map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: seriesPK(seriesID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		"SET HangoutIDs = list_append(HangoutIDs, :newPart), Version = Version + :inc, UpdatedAt = :now",
		"attribute_exists(PK)",
		map[string]types.AttributeValue{
			":newPart": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: newHangout.ID},
			}},
			":inc": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: utils.NowRFC3339()},
		},
	)

	newHangoutAV, err := attributevalue.MarshalMap(newHangoutItem(newHangout))
	if err != nil {
		return fmt.Errorf("failed to marshal hangout: %w", err)
	}
	tx.putIfAbsent(newHangoutAV)

	for _, pointer := range newPointers {
		av, err := attributevalue.MarshalMap(newHangoutPointerItem(pointer))
		if err != nil {
			return fmt.Errorf("failed to marshal hangout pointer: %w", err)
		}
		tx.put(av)
	}

	for _, pointer := range seriesPointers {
		av, err := attributevalue.MarshalMap(newSeriesPointerItem(pointer))
		if err != nil {
			return fmt.Errorf("failed to marshal series pointer: %w", err)
		}
		tx.put(av)
	}

	if err := tx.run(ctx, r.client); err != nil {
		return r.mapTransactionError("add part to series", seriesID, err)
	}

	r.logger.Info("Part added to series",
		zap.String("seriesID", seriesID),
		zap.String("newHangoutID", newHangout.ID),
	)

	return nil
}

// RemovePartFromSeries stores the rebuilt member list under a version check
// and strips SeriesID from the hangout and each of its pointers, all in one
// transaction. The caller passes the series with HangoutIDs already rebuilt
// and Version still at the observed value.
func (r *EventSeriesRepository) RemovePartFromSeries(ctx context.Context, series *entities.EventSeries, hangout *entities.Hangout, pointers []*entities.HangoutPointer) error {
	if err := validateID("seriesId", series.ID); err != nil {
		return err
	}
	if err := validateID("hangoutId", hangout.ID); err != nil {
		return err
	}

	now := utils.NowRFC3339()

	remaining, err := attributevalue.MarshalList(series.HangoutIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal series members: %w", err)
	}

	tx := newWriteTransaction(r.tableName)

	tx.update(
		map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: seriesPK(series.ID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		"SET HangoutIDs = :remaining, Version = :newVersion, UpdatedAt = :now",
		"Version = :expectedVersion",
		map[string]types.AttributeValue{
			":remaining":       &types.AttributeValueMemberL{Value: remaining},
			":newVersion":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", series.Version+1)},
			":now":             &types.AttributeValueMemberS{Value: now},
			":expectedVersion": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", series.Version)},
		},
	)

	tx.update(
		map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(hangout.ID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		"REMOVE SeriesID SET UpdatedAt = :now",
		"attribute_exists(PK)",
		map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now},
		},
	)

	for _, pointer := range pointers {
		tx.update(
			map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: groupPK(pointer.GroupID)},
				"SK": &types.AttributeValueMemberS{Value: hangoutSK(pointer.HangoutID)},
			},
			"REMOVE SeriesID SET UpdatedAt = :now",
			"",
			map[string]types.AttributeValue{
				":now": &types.AttributeValueMemberS{Value: now},
			},
		)
	}

	if err := tx.run(ctx, r.client); err != nil {
		return r.mapTransactionError("remove part from series", series.ID, err)
	}

	r.logger.Info("Part removed from series",
		zap.String("seriesID", series.ID),
		zap.String("hangoutID", hangout.ID),
	)

	return nil
}

// FindByID retrieves a series by its ID. Returns nil without error when the
// series does not exist.
func (r *EventSeriesRepository) FindByID(ctx context.Context, seriesID string) (*entities.EventSeries, error) {
	if err := validateID("seriesId", seriesID); err != nil {
		return nil, err
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: seriesPK(seriesID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get series", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item eventSeriesItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal series: %w", err)
	}

	return item.toEntity()
}

// FindPointersByGroupID retrieves the series pointers in a group's partition
func (r *EventSeriesRepository) FindPointersByGroupID(ctx context.Context, groupID string) ([]*entities.SeriesPointer, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			":sk": &types.AttributeValueMemberS{Value: skPrefixSeries},
		},
	}

	pointers := make([]*entities.SeriesPointer, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query series pointers", err)
		}

		for _, raw := range result.Items {
			var item seriesPointerItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal series pointer: %w", err)
			}
			pointer, err := item.toEntity()
			if err != nil {
				return nil, err
			}
			pointers = append(pointers, pointer)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return pointers, nil
}

// mapTransactionError turns a cancelled transaction into a conflict and any
// other store failure into a database error, preserving the cause either way.
func (r *EventSeriesRepository) mapTransactionError(operation, seriesID string, err error) error {
	if isTransactionCancelled(err) {
		r.logger.Warn("Series transaction cancelled",
			zap.String("seriesID", seriesID),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return pkgerrors.NewConflictError(fmt.Sprintf("transaction cancelled: %s", operation)).WithCause(err)
	}
	return pkgerrors.NewDatabaseError(operation, err)
}
