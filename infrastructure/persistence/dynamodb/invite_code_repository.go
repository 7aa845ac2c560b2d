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

// InviteCodeRepository implements ports.InviteCodeRepository using DynamoDB.
// Codes live in their own partition; CodeIndex resolves the code string and
// GroupIndex lists a group's codes in creation order.
type InviteCodeRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewInviteCodeRepository creates a new InviteCodeRepository
func NewInviteCodeRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) ports.InviteCodeRepository {
	return &InviteCodeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// inviteCodeItem represents the DynamoDB item structure for an invite code
type inviteCodeItem struct {
	PK           string `dynamodbav:"PK"`     // INVITECODE#<id>
	SK           string `dynamodbav:"SK"`     // METADATA
	GSI1PK       string `dynamodbav:"GSI1PK"` // CODE#<code>
	GSI1SK       string `dynamodbav:"GSI1SK"` // METADATA
	GSI2PK       string `dynamodbav:"GSI2PK"` // GROUP#<groupId>
	GSI2SK       string `dynamodbav:"GSI2SK"` // CREATED#<timestamp>
	EntityType   string `dynamodbav:"EntityType"`
	InviteCodeID string `dynamodbav:"InviteCodeID"`
	Code         string `dynamodbav:"Code"`
	GroupID      string `dynamodbav:"GroupID"`
	CreatedBy    string `dynamodbav:"CreatedBy"`
	Active       bool   `dynamodbav:"Active"`
	ExpiresAt    string `dynamodbav:"ExpiresAt,omitempty"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func newInviteCodeItem(c *entities.InviteCode) inviteCodeItem {
	return inviteCodeItem{
		PK:           inviteCodePK(c.ID),
		SK:           skMetadata,
		GSI1PK:       codeGSI1PK(c.Code),
		GSI1SK:       skMetadata,
		GSI2PK:       groupPK(c.GroupID),
		GSI2SK:       createdGSI2SK(c.CreatedAt),
		EntityType:   entityTypeInviteCode,
		InviteCodeID: c.ID,
		Code:         c.Code,
		GroupID:      c.GroupID,
		CreatedBy:    c.CreatedBy,
		Active:       c.Active,
		ExpiresAt:    formatTimePtr(c.ExpiresAt),
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (i inviteCodeItem) toEntity() (*entities.InviteCode, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	expiresAt, err := parseTimePtr(i.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ExpiresAt: %w", err)
	}

	return &entities.InviteCode{
		ID:        i.InviteCodeID,
		Code:      i.Code,
		GroupID:   i.GroupID,
		CreatedBy: i.CreatedBy,
		Active:    i.Active,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}, nil
}

// Save upserts an invite code together with its code and group index
// projections.
func (r *InviteCodeRepository) Save(ctx context.Context, code *entities.InviteCode) error {
	if err := validateID("inviteCodeId", code.ID); err != nil {
		return err
	}
	if err := validateID("groupId", code.GroupID); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(newInviteCodeItem(code))
	if err != nil {
		return fmt.Errorf("failed to marshal invite code: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("save invite code", err)
	}

	r.logger.Debug("Invite code saved",
		zap.String("inviteCodeID", code.ID),
		zap.String("groupID", code.GroupID),
	)

	return nil
}

// FindByID retrieves a code by its ID. Returns nil without error when the
// code does not exist.
func (r *InviteCodeRepository) FindByID(ctx context.Context, inviteCodeID string) (*entities.InviteCode, error) {
	if err := validateID("inviteCodeId", inviteCodeID); err != nil {
		return nil, err
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: inviteCodePK(inviteCodeID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get invite code", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item inviteCodeItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invite code: %w", err)
	}

	return item.toEntity()
}

// FindByCode resolves a code string through the code index. A correctly
// maintained index holds at most one item per code.
func (r *InviteCodeRepository) FindByCode(ctx context.Context, code string) (*entities.InviteCode, error) {
	if code == "" {
		return nil, pkgerrors.NewValidationError("code cannot be empty")
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(codeIndexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: codeGSI1PK(code)},
			":sk": &types.AttributeValueMemberS{Value: skMetadata},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query invite code by code", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var item inviteCodeItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invite code: %w", err)
	}

	return item.toEntity()
}

// FindAllByGroupID retrieves every code issued for a group in creation order.
// The group index also hosts pointer rows, hence the entity type filter.
func (r *InviteCodeRepository) FindAllByGroupID(ctx context.Context, groupID string) ([]*entities.InviteCode, error) {
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
			":entityType": &types.AttributeValueMemberS{Value: entityTypeInviteCode},
		},
		ScanIndexForward: aws.Bool(true), // creation order
	}

	codes := make([]*entities.InviteCode, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query invite codes by group", err)
		}

		for _, raw := range result.Items {
			var item inviteCodeItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal invite code: %w", err)
			}
			code, err := item.toEntity()
			if err != nil {
				return nil, err
			}
			codes = append(codes, code)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return codes, nil
}

// FindActiveCodeForGroup returns the first usable code for the group in
// creation order, nil when none qualifies. Usability is evaluated against
// the clock at read time, so a result may expire moments later.
func (r *InviteCodeRepository) FindActiveCodeForGroup(ctx context.Context, groupID string) (*entities.InviteCode, error) {
	codes, err := r.FindAllByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, code := range codes {
		if code.IsUsable(now) {
			return code, nil
		}
	}

	return nil, nil
}

// Delete removes a code by its ID
func (r *InviteCodeRepository) Delete(ctx context.Context, inviteCodeID string) error {
	if err := validateID("inviteCodeId", inviteCodeID); err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: inviteCodePK(inviteCodeID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete invite code", err)
	}

	return nil
}

// CodeExists reports whether a code string is already taken
func (r *InviteCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	found, err := r.FindByCode(ctx, code)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}
