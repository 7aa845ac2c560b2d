package dynamodb

import (
	"context"
	"fmt"
	"strings"
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

// HangoutRepository implements ports.HangoutRepository using DynamoDB
type HangoutRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewHangoutRepository creates a new HangoutRepository
func NewHangoutRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) ports.HangoutRepository {
	return &HangoutRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// hangoutItem represents the DynamoDB item structure for a canonical hangout
type hangoutItem struct {
	PK                   string   `dynamodbav:"PK"` // EVENT#<hangoutId>
	SK                   string   `dynamodbav:"SK"` // METADATA
	EntityType           string   `dynamodbav:"EntityType"`
	HangoutID            string   `dynamodbav:"HangoutID"`
	GroupIDs             []string `dynamodbav:"GroupIDs"`
	Title                string   `dynamodbav:"Title"`
	Description          string   `dynamodbav:"Description,omitempty"`
	Location             string   `dynamodbav:"Location,omitempty"`
	StartTime            string   `dynamodbav:"StartTime,omitempty"`
	EndTime              string   `dynamodbav:"EndTime,omitempty"`
	CreatedBy            string   `dynamodbav:"CreatedBy"`
	SeriesID             string   `dynamodbav:"SeriesID,omitempty"`
	ReminderSentAt       string   `dynamodbav:"ReminderSentAt,omitempty"`
	ReminderScheduleName string   `dynamodbav:"ReminderScheduleName,omitempty"`
	Version              int      `dynamodbav:"Version"`
	CreatedAt            string   `dynamodbav:"CreatedAt"`
	UpdatedAt            string   `dynamodbav:"UpdatedAt"`
}

// hangoutPointerItem represents the per-group denormalized copy. GSI2
// attributes place it on the group index in creation order.
type hangoutPointerItem struct {
	PK         string `dynamodbav:"PK"` // GROUP#<groupId>
	SK         string `dynamodbav:"SK"` // HANGOUT#<hangoutId>
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	HangoutID  string `dynamodbav:"HangoutID"`
	GroupID    string `dynamodbav:"GroupID"`
	Title      string `dynamodbav:"Title"`
	Location   string `dynamodbav:"Location,omitempty"`
	StartTime  string `dynamodbav:"StartTime,omitempty"`
	SeriesID   string `dynamodbav:"SeriesID,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// interestLevelItem represents an attendance record in the hangout partition
type interestLevelItem struct {
	PK            string `dynamodbav:"PK"` // EVENT#<eventId>
	SK            string `dynamodbav:"SK"` // ATTENDANCE#<userId>
	EntityType    string `dynamodbav:"EntityType"`
	EventID       string `dynamodbav:"EventID"`
	UserID        string `dynamodbav:"UserID"`
	Status        string `dynamodbav:"Status"`
	Notes         string `dynamodbav:"Notes,omitempty"`
	UserName      string `dynamodbav:"UserName,omitempty"`
	MainImagePath string `dynamodbav:"MainImagePath,omitempty"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := utils.ParseRFC3339(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func newHangoutItem(h *entities.Hangout) hangoutItem {
	return hangoutItem{
		PK:                   eventPK(h.ID),
		SK:                   skMetadata,
		EntityType:           entityTypeHangout,
		HangoutID:            h.ID,
		GroupIDs:             h.GroupIDs,
		Title:                h.Title,
		Description:          h.Description,
		Location:             h.Location,
		StartTime:            formatTimePtr(h.StartTime),
		EndTime:              formatTimePtr(h.EndTime),
		CreatedBy:            h.CreatedBy,
		SeriesID:             h.SeriesID,
		ReminderSentAt:       formatTimePtr(h.ReminderSentAt),
		ReminderScheduleName: h.ReminderScheduleName,
		Version:              h.Version,
		CreatedAt:            h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i hangoutItem) toEntity() (*entities.Hangout, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}
	startTime, err := parseTimePtr(i.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse StartTime: %w", err)
	}
	endTime, err := parseTimePtr(i.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EndTime: %w", err)
	}
	reminderSentAt, err := parseTimePtr(i.ReminderSentAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ReminderSentAt: %w", err)
	}

	return &entities.Hangout{
		ID:                   i.HangoutID,
		GroupIDs:             i.GroupIDs,
		Title:                i.Title,
		Description:          i.Description,
		Location:             i.Location,
		StartTime:            startTime,
		EndTime:              endTime,
		CreatedBy:            i.CreatedBy,
		SeriesID:             i.SeriesID,
		ReminderSentAt:       reminderSentAt,
		ReminderScheduleName: i.ReminderScheduleName,
		Version:              i.Version,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}, nil
}

func newHangoutPointerItem(p *entities.HangoutPointer) hangoutPointerItem {
	return hangoutPointerItem{
		PK:         groupPK(p.GroupID),
		SK:         hangoutSK(p.HangoutID),
		GSI2PK:     groupPK(p.GroupID),
		GSI2SK:     createdGSI2SK(p.CreatedAt),
		EntityType: entityTypeHangoutPointer,
		HangoutID:  p.HangoutID,
		GroupID:    p.GroupID,
		Title:      p.Title,
		Location:   p.Location,
		StartTime:  formatTimePtr(p.StartTime),
		SeriesID:   p.SeriesID,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i hangoutPointerItem) toEntity() (*entities.HangoutPointer, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}
	startTime, err := parseTimePtr(i.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse StartTime: %w", err)
	}

	return &entities.HangoutPointer{
		HangoutID: i.HangoutID,
		GroupID:   i.GroupID,
		Title:     i.Title,
		Location:  i.Location,
		StartTime: startTime,
		SeriesID:  i.SeriesID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func newInterestLevelItem(il *entities.InterestLevel) interestLevelItem {
	return interestLevelItem{
		PK:            eventPK(il.EventID),
		SK:            attendanceSK(il.UserID),
		EntityType:    entityTypeInterestLevel,
		EventID:       il.EventID,
		UserID:        il.UserID,
		Status:        string(il.Status),
		Notes:         il.Notes,
		UserName:      il.UserName,
		MainImagePath: il.MainImagePath,
		CreatedAt:     il.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     il.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i interestLevelItem) toEntity() (*entities.InterestLevel, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}

	return &entities.InterestLevel{
		EventID:       i.EventID,
		UserID:        i.UserID,
		Status:        entities.InterestStatus(i.Status),
		Notes:         i.Notes,
		UserName:      i.UserName,
		MainImagePath: i.MainImagePath,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// Create persists the canonical hangout and one pointer per associated group
// in a single transaction. The canonical put is guarded so an ID collision
// cancels the whole transaction.
func (r *HangoutRepository) Create(ctx context.Context, hangout *entities.Hangout) error {
	if err := validateID("hangoutId", hangout.ID); err != nil {
		return err
	}

	canonical, err := attributevalue.MarshalMap(newHangoutItem(hangout))
	if err != nil {
		return fmt.Errorf("failed to marshal hangout: %w", err)
	}

	tx := newWriteTransaction(r.tableName)
	tx.putIfAbsent(canonical)

	for _, pointer := range hangout.Pointers() {
		av, err := attributevalue.MarshalMap(newHangoutPointerItem(pointer))
		if err != nil {
			return fmt.Errorf("failed to marshal hangout pointer: %w", err)
		}
		tx.put(av)
	}

	if err := tx.run(ctx, r.client); err != nil {
		if isTransactionCancelled(err) {
			return pkgerrors.NewConflictError(fmt.Sprintf("transaction cancelled: hangout %s already exists", hangout.ID)).WithCause(err)
		}
		return pkgerrors.NewDatabaseError("create hangout", err)
	}

	r.logger.Info("Hangout created",
		zap.String("hangoutID", hangout.ID),
		zap.Int("pointerCount", len(hangout.GroupIDs)),
	)

	return nil
}

// FindByID retrieves the canonical record. Returns nil without error when the
// hangout does not exist.
func (r *HangoutRepository) FindByID(ctx context.Context, hangoutID string) (*entities.Hangout, error) {
	if err := validateID("hangoutId", hangoutID); err != nil {
		return nil, err
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(hangoutID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get hangout", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item hangoutItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hangout: %w", err)
	}

	return item.toEntity()
}

// FindWithAttendance reads the whole hangout partition in one query and
// splits it into the canonical record and its attendance records by sort-key
// shape. Attendance rows without a canonical row read as not found.
func (r *HangoutRepository) FindWithAttendance(ctx context.Context, hangoutID string) (*entities.Hangout, []*entities.InterestLevel, error) {
	if err := validateID("hangoutId", hangoutID); err != nil {
		return nil, nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: eventPK(hangoutID)},
		},
	}

	var hangout *entities.Hangout
	interests := make([]*entities.InterestLevel, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, nil, pkgerrors.NewDatabaseError("query hangout partition", err)
		}

		for _, raw := range result.Items {
			sk := itemSortKey(raw)
			switch {
			case sk == skMetadata:
				var item hangoutItem
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					return nil, nil, fmt.Errorf("failed to unmarshal hangout: %w", err)
				}
				hangout, err = item.toEntity()
				if err != nil {
					return nil, nil, err
				}
			case strings.HasPrefix(sk, skPrefixAttendance):
				var item interestLevelItem
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					return nil, nil, fmt.Errorf("failed to unmarshal interest level: %w", err)
				}
				interest, err := item.toEntity()
				if err != nil {
					return nil, nil, err
				}
				interests = append(interests, interest)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if hangout == nil {
		return nil, nil, nil
	}

	return hangout, interests, nil
}

// FindPointersByGroupID reads the group's feed from the group index, newest
// first. The index also hosts invite code rows, hence the entity type filter.
func (r *HangoutRepository) FindPointersByGroupID(ctx context.Context, groupID string) ([]*entities.HangoutPointer, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(groupIndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk"),
		FilterExpression:       aws.String("EntityType = :entityType"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":         &types.AttributeValueMemberS{Value: groupPK(groupID)},
			":entityType": &types.AttributeValueMemberS{Value: entityTypeHangoutPointer},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	}

	pointers := make([]*entities.HangoutPointer, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query group feed", err)
		}

		for _, raw := range result.Items {
			var item hangoutPointerItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal hangout pointer: %w", err)
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

// Update rewrites the canonical record under an optimistic version check and
// rewrites every pointer with the same timestamp in the same transaction. On
// success the entity's Version and UpdatedAt reflect the stored state.
func (r *HangoutRepository) Update(ctx context.Context, hangout *entities.Hangout) error {
	if err := validateID("hangoutId", hangout.ID); err != nil {
		return err
	}

	expectedVersion := hangout.Version
	now := time.Now()

	stored := *hangout
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = now

	canonical, err := attributevalue.MarshalMap(newHangoutItem(&stored))
	if err != nil {
		return fmt.Errorf("failed to marshal hangout: %w", err)
	}

	tx := newWriteTransaction(r.tableName)
	tx.putGuarded(canonical, "Version = :expectedVersion", map[string]types.AttributeValue{
		":expectedVersion": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
	})

	for _, pointer := range stored.Pointers() {
		av, err := attributevalue.MarshalMap(newHangoutPointerItem(pointer))
		if err != nil {
			return fmt.Errorf("failed to marshal hangout pointer: %w", err)
		}
		tx.put(av)
	}

	if err := tx.run(ctx, r.client); err != nil {
		if isTransactionCancelled(err) {
			r.logger.Warn("Hangout update lost version race",
				zap.String("hangoutID", hangout.ID),
				zap.Int("expectedVersion", expectedVersion),
			)
			return pkgerrors.NewConflictError(fmt.Sprintf("transaction cancelled: hangout %s was modified concurrently", hangout.ID)).WithCause(err)
		}
		return pkgerrors.NewDatabaseError("update hangout", err)
	}

	hangout.Version = stored.Version
	hangout.UpdatedAt = stored.UpdatedAt

	return nil
}

// Delete enumerates the hangout partition plus the per-group pointers and
// removes everything in batched writes. Deleting an absent hangout is a
// no-op.
func (r *HangoutRepository) Delete(ctx context.Context, hangoutID string) error {
	hangout, err := r.FindByID(ctx, hangoutID)
	if err != nil {
		return err
	}
	if hangout == nil {
		return nil
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: eventPK(hangoutID)},
		},
	}

	deleteRequests := make([]types.WriteRequest, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return pkgerrors.NewDatabaseError("query hangout partition", err)
		}

		for _, raw := range result.Items {
			deleteRequests = append(deleteRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: eventPK(hangoutID)},
						"SK": &types.AttributeValueMemberS{Value: itemSortKey(raw)},
					},
				},
			})
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	for _, groupID := range hangout.GroupIDs {
		deleteRequests = append(deleteRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
					"SK": &types.AttributeValueMemberS{Value: hangoutSK(hangoutID)},
				},
			},
		})
	}

	if err := batchWrite(ctx, r.client, r.tableName, deleteRequests); err != nil {
		return pkgerrors.NewDatabaseError("delete hangout", err)
	}

	r.logger.Info("Hangout deleted",
		zap.String("hangoutID", hangoutID),
		zap.Int("itemCount", len(deleteRequests)),
	)

	return nil
}

// SavePointer writes a single group pointer (group association)
func (r *HangoutRepository) SavePointer(ctx context.Context, pointer *entities.HangoutPointer) error {
	if err := validateID("hangoutId", pointer.HangoutID); err != nil {
		return err
	}
	if err := validateID("groupId", pointer.GroupID); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(newHangoutPointerItem(pointer))
	if err != nil {
		return fmt.Errorf("failed to marshal hangout pointer: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("save hangout pointer", err)
	}

	return nil
}

// DeletePointer removes a single group pointer (group disassociation)
func (r *HangoutRepository) DeletePointer(ctx context.Context, groupID, hangoutID string) error {
	if err := validateID("groupId", groupID); err != nil {
		return err
	}
	if err := validateID("hangoutId", hangoutID); err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			"SK": &types.AttributeValueMemberS{Value: hangoutSK(hangoutID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete hangout pointer", err)
	}

	return nil
}

// SaveInterestLevel upserts the attendance record keyed by (event, user) and
// refreshes UpdatedAt. The stored entity is returned.
func (r *HangoutRepository) SaveInterestLevel(ctx context.Context, interest *entities.InterestLevel) (*entities.InterestLevel, error) {
	if err := validateID("eventId", interest.EventID); err != nil {
		return nil, err
	}

	now := time.Now()
	if interest.CreatedAt.IsZero() {
		interest.CreatedAt = now
	}
	interest.UpdatedAt = now

	av, err := attributevalue.MarshalMap(newInterestLevelItem(interest))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interest level: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return nil, pkgerrors.NewDatabaseError("save interest level", err)
	}

	r.logger.Debug("Interest level saved",
		zap.String("eventID", interest.EventID),
		zap.String("userID", interest.UserID),
		zap.String("status", string(interest.Status)),
	)

	return interest, nil
}

// DeleteInterestLevel removes an attendance record. Deleting an absent record
// is not an error.
func (r *HangoutRepository) DeleteInterestLevel(ctx context.Context, eventID, userID string) error {
	if err := validateID("eventId", eventID); err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(eventID)},
			"SK": &types.AttributeValueMemberS{Value: attendanceSK(userID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete interest level", err)
	}

	return nil
}

// ListInterestLevels retrieves all attendance records for an event
func (r *HangoutRepository) ListInterestLevels(ctx context.Context, eventID string) ([]*entities.InterestLevel, error) {
	if err := validateID("eventId", eventID); err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: eventPK(eventID)},
			":sk": &types.AttributeValueMemberS{Value: skPrefixAttendance},
		},
	}

	interests := make([]*entities.InterestLevel, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query interest levels", err)
		}

		for _, raw := range result.Items {
			var item interestLevelItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal interest level: %w", err)
			}
			interest, err := item.toEntity()
			if err != nil {
				return nil, err
			}
			interests = append(interests, interest)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return interests, nil
}

// SetReminderSentAtIfNull stamps ReminderSentAt only when the hangout exists
// and has no stamp yet. Losing the race reads as (false, nil): the reminder
// was already claimed by another dispatcher.
func (r *HangoutRepository) SetReminderSentAtIfNull(ctx context.Context, eventID string, sentAt time.Time) (bool, error) {
	if err := validateID("eventId", eventID); err != nil {
		return false, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(eventID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:    aws.String("SET ReminderSentAt = :sentAt, UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK) AND attribute_not_exists(ReminderSentAt)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sentAt": &types.AttributeValueMemberS{Value: sentAt.UTC().Format(time.RFC3339)},
			":now":    &types.AttributeValueMemberS{Value: utils.NowRFC3339()},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			r.logger.Debug("Reminder already claimed",
				zap.String("eventID", eventID),
			)
			return false, nil
		}
		return false, pkgerrors.NewDatabaseError("set reminder sent at", err)
	}

	return true, nil
}

// UpdateReminderScheduleName records the scheduler resource armed for this
// hangout's reminder.
func (r *HangoutRepository) UpdateReminderScheduleName(ctx context.Context, eventID, scheduleName string) error {
	if err := validateID("eventId", eventID); err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(eventID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:    aws.String("SET ReminderScheduleName = :name, UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: scheduleName},
			":now":  &types.AttributeValueMemberS{Value: utils.NowRFC3339()},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("hangout")
		}
		return pkgerrors.NewDatabaseError("update reminder schedule name", err)
	}

	return nil
}

// ClearReminderSentAt removes the reminder stamp so the gate can be won again
// after the reminder is re-armed.
func (r *HangoutRepository) ClearReminderSentAt(ctx context.Context, eventID string) error {
	if err := validateID("eventId", eventID); err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(eventID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:    aws.String("REMOVE ReminderSentAt SET UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: utils.NowRFC3339()},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("hangout")
		}
		return pkgerrors.NewDatabaseError("clear reminder sent at", err)
	}

	return nil
}
