package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/entities"
	pkgerrors "hangout-backend/pkg/errors"
	"hangout-backend/pkg/utils"
)

// IdeaListRepository implements ports.IdeaListRepository using DynamoDB.
// Lists and their members share the group partition under the IDEALIST# sort
// key prefix, so whole aggregates come back from a single range query and are
// reassembled in memory.
type IdeaListRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewIdeaListRepository creates a new IdeaListRepository
func NewIdeaListRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) ports.IdeaListRepository {
	return &IdeaListRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// ideaListItem represents the list metadata row
type ideaListItem struct {
	PK          string `dynamodbav:"PK"` // GROUP#<groupId>
	SK          string `dynamodbav:"SK"` // IDEALIST#<listId>#METADATA
	EntityType  string `dynamodbav:"EntityType"`
	ListID      string `dynamodbav:"ListID"`
	GroupID     string `dynamodbav:"GroupID"`
	Name        string `dynamodbav:"Name"`
	Category    string `dynamodbav:"Category,omitempty"`
	Description string `dynamodbav:"Description,omitempty"`
	CreatedBy   string `dynamodbav:"CreatedBy,omitempty"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

// ideaListMemberItem represents a single idea row
type ideaListMemberItem struct {
	PK         string `dynamodbav:"PK"` // GROUP#<groupId>
	SK         string `dynamodbav:"SK"` // IDEALIST#<listId>#MEMBER#<ideaId>
	EntityType string `dynamodbav:"EntityType"`
	IdeaID     string `dynamodbav:"IdeaID"`
	ListID     string `dynamodbav:"ListID"`
	GroupID    string `dynamodbav:"GroupID"`
	Name       string `dynamodbav:"Name"`
	URL        string `dynamodbav:"URL,omitempty"`
	Note       string `dynamodbav:"Note,omitempty"`
	AddedBy    string `dynamodbav:"AddedBy,omitempty"`
	AddedTime  string `dynamodbav:"AddedTime"`
}

func newIdeaListItem(l *entities.IdeaList) ideaListItem {
	return ideaListItem{
		PK:          groupPK(l.GroupID),
		SK:          ideaListMetadataSK(l.ID),
		EntityType:  entityTypeIdeaList,
		ListID:      l.ID,
		GroupID:     l.GroupID,
		Name:        l.Name,
		Category:    l.Category,
		Description: l.Description,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i ideaListItem) toEntity() (*entities.IdeaList, error) {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := utils.ParseRFC3339(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}

	return &entities.IdeaList{
		ID:          i.ListID,
		GroupID:     i.GroupID,
		Name:        i.Name,
		Category:    i.Category,
		Description: i.Description,
		CreatedBy:   i.CreatedBy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Members:     make([]*entities.IdeaListMember, 0),
	}, nil
}

func newIdeaListMemberItem(m *entities.IdeaListMember) ideaListMemberItem {
	return ideaListMemberItem{
		PK:         groupPK(m.GroupID),
		SK:         ideaListMemberSK(m.ListID, m.ID),
		EntityType: entityTypeIdeaListMember,
		IdeaID:     m.ID,
		ListID:     m.ListID,
		GroupID:    m.GroupID,
		Name:       m.Name,
		URL:        m.URL,
		Note:       m.Note,
		AddedBy:    m.AddedBy,
		AddedTime:  m.AddedTime.UTC().Format(time.RFC3339),
	}
}

func (i ideaListMemberItem) toEntity() (*entities.IdeaListMember, error) {
	addedTime, err := utils.ParseRFC3339(i.AddedTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AddedTime: %w", err)
	}

	return &entities.IdeaListMember{
		ID:        i.IdeaID,
		ListID:    i.ListID,
		GroupID:   i.GroupID,
		Name:      i.Name,
		URL:       i.URL,
		Note:      i.Note,
		AddedBy:   i.AddedBy,
		AddedTime: addedTime,
	}, nil
}

// SaveIdeaList upserts a list metadata record
func (r *IdeaListRepository) SaveIdeaList(ctx context.Context, list *entities.IdeaList) error {
	if err := validateID("groupId", list.GroupID); err != nil {
		return err
	}
	if err := validateID("listId", list.ID); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(newIdeaListItem(list))
	if err != nil {
		return fmt.Errorf("failed to marshal idea list: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("save idea list", err)
	}

	return nil
}

// FindIdeaListByID retrieves list metadata only. Returns nil without error
// when the list does not exist.
func (r *IdeaListRepository) FindIdeaListByID(ctx context.Context, groupID, listID string) (*entities.IdeaList, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}
	if err := validateID("listId", listID); err != nil {
		return nil, err
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			"SK": &types.AttributeValueMemberS{Value: ideaListMetadataSK(listID)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get idea list", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item ideaListItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea list: %w", err)
	}

	return item.toEntity()
}

// DeleteIdeaList removes the metadata record only; members stay behind. Use
// DeleteWithAllMembers to drop the whole aggregate.
func (r *IdeaListRepository) DeleteIdeaList(ctx context.Context, groupID, listID string) error {
	if err := validateID("groupId", groupID); err != nil {
		return err
	}
	if err := validateID("listId", listID); err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			"SK": &types.AttributeValueMemberS{Value: ideaListMetadataSK(listID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete idea list", err)
	}

	return nil
}

// IdeaListExists reports whether the metadata record is present. Existence
// checks are advisory: any failure, validation included, reads as false so
// callers are never broken by a transient store error.
func (r *IdeaListRepository) IdeaListExists(ctx context.Context, groupID, listID string) bool {
	if err := validateID("groupId", groupID); err != nil {
		return false
	}
	if err := validateID("listId", listID); err != nil {
		return false
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			"SK": &types.AttributeValueMemberS{Value: ideaListMetadataSK(listID)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.logger.Warn("Idea list existence check failed, treating as absent",
			zap.String("groupID", groupID),
			zap.String("listID", listID),
			zap.Error(err),
		)
		return false
	}

	return result.Item != nil
}

// SaveIdeaListMember upserts a member record
func (r *IdeaListRepository) SaveIdeaListMember(ctx context.Context, member *entities.IdeaListMember) error {
	if err := validateID("groupId", member.GroupID); err != nil {
		return err
	}
	if err := validateID("listId", member.ListID); err != nil {
		return err
	}
	if err := validateID("ideaId", member.ID); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(newIdeaListMemberItem(member))
	if err != nil {
		return fmt.Errorf("failed to marshal idea list member: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("save idea list member", err)
	}

	return nil
}

// FindIdeaListMemberByID retrieves a single member. Returns nil without error
// when the member does not exist.
func (r *IdeaListRepository) FindIdeaListMemberByID(ctx context.Context, groupID, listID, ideaID string) (*entities.IdeaListMember, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}
	if err := validateID("listId", listID); err != nil {
		return nil, err
	}
	if err := validateID("ideaId", ideaID); err != nil {
		return nil, err
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			"SK": &types.AttributeValueMemberS{Value: ideaListMemberSK(listID, ideaID)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get idea list member", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item ideaListMemberItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea list member: %w", err)
	}

	return item.toEntity()
}

// DeleteIdeaListMember removes a single member record
func (r *IdeaListRepository) DeleteIdeaListMember(ctx context.Context, groupID, listID, ideaID string) error {
	if err := validateID("groupId", groupID); err != nil {
		return err
	}
	if err := validateID("listId", listID); err != nil {
		return err
	}
	if err := validateID("ideaId", ideaID); err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
			"SK": &types.AttributeValueMemberS{Value: ideaListMemberSK(listID, ideaID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete idea list member", err)
	}

	return nil
}

// FindAllWithMembersByGroupID reads every list and member row for the group
// in one range query over the IDEALIST# prefix, then reassembles: lists
// sorted CreatedAt descending, each with its members attached sorted
// AddedTime descending. A list with no members carries an empty member slice.
func (r *IdeaListRepository) FindAllWithMembersByGroupID(ctx context.Context, groupID string) ([]*entities.IdeaList, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}

	rows, err := r.queryPrefix(ctx, groupID, skPrefixIdeaList)
	if err != nil {
		return nil, err
	}

	lists, members, err := r.demux(rows)
	if err != nil {
		return nil, err
	}

	return assembleIdeaLists(lists, members), nil
}

// FindWithMembersByID reads one list's metadata and member rows in one range
// query. Member rows without a metadata row read as not found: orphaned
// members never fabricate a parent.
func (r *IdeaListRepository) FindWithMembersByID(ctx context.Context, groupID, listID string) (*entities.IdeaList, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}
	if err := validateID("listId", listID); err != nil {
		return nil, err
	}

	rows, err := r.queryPrefix(ctx, groupID, ideaListSKPrefix(listID))
	if err != nil {
		return nil, err
	}

	lists, members, err := r.demux(rows)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		if len(members) > 0 {
			r.logger.Warn("Orphaned idea list members found",
				zap.String("groupID", groupID),
				zap.String("listID", listID),
				zap.Int("memberCount", len(members)),
			)
		}
		return nil, nil
	}

	assembled := assembleIdeaLists(lists, members)
	return assembled[0], nil
}

// FindMembersByListID retrieves a list's members only, AddedTime descending
func (r *IdeaListRepository) FindMembersByListID(ctx context.Context, groupID, listID string) ([]*entities.IdeaListMember, error) {
	if err := validateID("groupId", groupID); err != nil {
		return nil, err
	}
	if err := validateID("listId", listID); err != nil {
		return nil, err
	}

	rows, err := r.queryPrefix(ctx, groupID, ideaListMemberSKPrefix(listID))
	if err != nil {
		return nil, err
	}

	members := make([]*entities.IdeaListMember, 0, len(rows))
	for _, raw := range rows {
		var item ideaListMemberItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal idea list member: %w", err)
		}
		member, err := item.toEntity()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	sortMembers(members)
	return members, nil
}

// DeleteWithAllMembers enumerates the list's full sort-key prefix and removes
// the metadata row and every member in one batched delete. When the query
// finds nothing, no delete call is made at all.
func (r *IdeaListRepository) DeleteWithAllMembers(ctx context.Context, groupID, listID string) error {
	if err := validateID("groupId", groupID); err != nil {
		return err
	}
	if err := validateID("listId", listID); err != nil {
		return err
	}

	rows, err := r.queryPrefix(ctx, groupID, ideaListSKPrefix(listID))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	deleteRequests := make([]types.WriteRequest, 0, len(rows))
	for _, raw := range rows {
		deleteRequests = append(deleteRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: groupPK(groupID)},
					"SK": &types.AttributeValueMemberS{Value: itemSortKey(raw)},
				},
			},
		})
	}

	if err := batchWrite(ctx, r.client, r.tableName, deleteRequests); err != nil {
		return pkgerrors.NewDatabaseError("delete idea list with members", err)
	}

	r.logger.Info("Idea list deleted with members",
		zap.String("groupID", groupID),
		zap.String("listID", listID),
		zap.Int("itemCount", len(deleteRequests)),
	)

	return nil
}

// queryPrefix runs one paginated range query over the group partition
// restricted to a sort-key prefix and returns the raw rows.
func (r *IdeaListRepository) queryPrefix(ctx context.Context, groupID, prefix string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(groupPK(groupID))).
		And(expression.Key("SK").BeginsWith(prefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	rows := make([]map[string]types.AttributeValue, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query idea lists", err)
		}

		rows = append(rows, result.Items...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return rows, nil
}

// demux splits a mixed prefix-query result into lists and members by
// sort-key shape.
func (r *IdeaListRepository) demux(rows []map[string]types.AttributeValue) ([]*entities.IdeaList, []*entities.IdeaListMember, error) {
	lists := make([]*entities.IdeaList, 0)
	members := make([]*entities.IdeaListMember, 0)

	for _, raw := range rows {
		sk := itemSortKey(raw)
		switch {
		case strings.Contains(sk, "#MEMBER#"):
			var item ideaListMemberItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, nil, fmt.Errorf("failed to unmarshal idea list member: %w", err)
			}
			member, err := item.toEntity()
			if err != nil {
				return nil, nil, err
			}
			members = append(members, member)
		case strings.HasSuffix(sk, "#"+skMetadata):
			var item ideaListItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, nil, fmt.Errorf("failed to unmarshal idea list: %w", err)
			}
			list, err := item.toEntity()
			if err != nil {
				return nil, nil, err
			}
			lists = append(lists, list)
		}
	}

	return lists, members, nil
}

// assembleIdeaLists attaches members to their lists and applies the
// presentation order: lists most recently created first, members most
// recently added first. Equal timestamps fall back to id order so results
// are deterministic.
func assembleIdeaLists(lists []*entities.IdeaList, members []*entities.IdeaListMember) []*entities.IdeaList {
	byList := make(map[string][]*entities.IdeaListMember, len(lists))
	for _, member := range members {
		byList[member.ListID] = append(byList[member.ListID], member)
	}

	for _, list := range lists {
		attached := byList[list.ID]
		if attached == nil {
			attached = make([]*entities.IdeaListMember, 0)
		}
		sortMembers(attached)
		list.Members = attached
	}

	sort.Slice(lists, func(i, j int) bool {
		if lists[i].CreatedAt.Equal(lists[j].CreatedAt) {
			return lists[i].ID < lists[j].ID
		}
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})

	return lists
}

func sortMembers(members []*entities.IdeaListMember) {
	sort.Slice(members, func(i, j int) bool {
		if members[i].AddedTime.Equal(members[j].AddedTime) {
			return members[i].ID < members[j].ID
		}
		return members[i].AddedTime.After(members[j].AddedTime)
	})
}
