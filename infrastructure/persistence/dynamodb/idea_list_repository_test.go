package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hangout-backend/domain/entities"
	pkgerrors "hangout-backend/pkg/errors"
)

func newTestIdeaListRepository(client *fakeDynamoClient) *IdeaListRepository {
	return NewIdeaListRepository(client, testTable, zap.NewNop()).(*IdeaListRepository)
}

func testIdeaList(t *testing.T, name string, createdAt time.Time) *entities.IdeaList {
	t.Helper()
	list, err := entities.NewIdeaList(testGroupA, name, "restaurants", "user-1")
	require.NoError(t, err)
	list.CreatedAt = createdAt
	list.UpdatedAt = createdAt
	return list
}

func testIdeaListMember(t *testing.T, listID, name string, addedTime time.Time) *entities.IdeaListMember {
	t.Helper()
	member, err := entities.NewIdeaListMember(testGroupA, listID, name, "user-1")
	require.NoError(t, err)
	member.AddedTime = addedTime
	return member
}

func ideaListRows(t *testing.T, lists []*entities.IdeaList, members []*entities.IdeaListMember) []map[string]types.AttributeValue {
	t.Helper()
	rows := make([]map[string]types.AttributeValue, 0, len(lists)+len(members))
	for _, list := range lists {
		rows = append(rows, mustMarshalItem(t, newIdeaListItem(list)))
	}
	for _, member := range members {
		rows = append(rows, mustMarshalItem(t, newIdeaListMemberItem(member)))
	}
	return rows
}

func TestIdeaListRepository_FindAllWithMembersByGroupID_OrdersListsAndMembers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	older := testIdeaList(t, "Trip ideas", base.Add(-300*time.Second))
	newer := testIdeaList(t, "Restaurants", base.Add(-100*time.Second))
	first := testIdeaListMember(t, older.ID, "Kayaking", base.Add(-250*time.Second))
	second := testIdeaListMember(t, older.ID, "Via ferrata", base.Add(-200*time.Second))

	// Rows arrive interleaved across two pages; assembly must not depend on
	// row order or page boundaries.
	pageOne := ideaListRows(t, []*entities.IdeaList{newer}, []*entities.IdeaListMember{first})
	pageTwo := ideaListRows(t, []*entities.IdeaList{older}, []*entities.IdeaListMember{second})
	pages := []*dynamodb.QueryOutput{
		{
			Items: pageOne,
			LastEvaluatedKey: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: groupPK(testGroupA)},
			},
		},
		{Items: pageTwo},
	}
	calls := 0
	client := &fakeDynamoClient{}
	client.queryFn = func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		out := pages[calls]
		calls++
		return out, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	lists, err := repo.FindAllWithMembersByGroupID(ctx, testGroupA)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, lists, 2)

	// Lists come back most recently created first.
	assert.Equal(t, newer.ID, lists[0].ID)
	assert.Equal(t, older.ID, lists[1].ID)

	// A list without members carries an empty slice, not nil.
	require.NotNil(t, lists[0].Members)
	assert.Empty(t, lists[0].Members)

	// Members come back most recently added first.
	require.Len(t, lists[1].Members, 2)
	assert.Equal(t, second.ID, lists[1].Members[0].ID)
	assert.Equal(t, first.ID, lists[1].Members[1].ID)
}

func TestIdeaListRepository_FindAllWithMembersByGroupID_TimestampTies(t *testing.T) {
	// Arrange
	ctx := context.Background()
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	listA := testIdeaList(t, "List A", created)
	listA.ID = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	listB := testIdeaList(t, "List B", created)
	listB.ID = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"

	added := created.Add(10 * time.Second)
	memberC := testIdeaListMember(t, listA.ID, "Idea C", added)
	memberC.ID = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
	memberD := testIdeaListMember(t, listA.ID, "Idea D", added)
	memberD.ID = "dddddddd-dddd-4ddd-8ddd-dddddddddddd"

	client := &fakeDynamoClient{}
	client.queryFn = func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		return &dynamodb.QueryOutput{
			Items: ideaListRows(t,
				[]*entities.IdeaList{listB, listA},
				[]*entities.IdeaListMember{memberD, memberC},
			),
		}, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	lists, err := repo.FindAllWithMembersByGroupID(ctx, testGroupA)

	// Assert: equal timestamps fall back to id order, so the result is
	// stable regardless of row arrival order.
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, listA.ID, lists[0].ID)
	assert.Equal(t, listB.ID, lists[1].ID)

	require.Len(t, lists[0].Members, 2)
	assert.Equal(t, memberC.ID, lists[0].Members[0].ID)
	assert.Equal(t, memberD.ID, lists[0].Members[1].ID)
}

func TestIdeaListRepository_FindWithMembersByID_Found(t *testing.T) {
	// Arrange
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	list := testIdeaList(t, "Restaurants", base)
	early := testIdeaListMember(t, list.ID, "Taqueria", base.Add(time.Minute))
	late := testIdeaListMember(t, list.ID, "Ramen bar", base.Add(2*time.Minute))

	client := &fakeDynamoClient{}
	client.queryFn = func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		return &dynamodb.QueryOutput{
			Items: ideaListRows(t, []*entities.IdeaList{list}, []*entities.IdeaListMember{early, late}),
		}, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	found, err := repo.FindWithMembersByID(ctx, testGroupA, list.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, list.ID, found.ID)
	require.Len(t, found.Members, 2)
	assert.Equal(t, late.ID, found.Members[0].ID)
	assert.Equal(t, early.ID, found.Members[1].ID)
}

func TestIdeaListRepository_FindWithMembersByID_OrphanedMembers(t *testing.T) {
	// Arrange: member rows exist but the metadata row is gone. The read must
	// not fabricate a parent out of orphans.
	ctx := context.Background()
	listID := "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	orphan := testIdeaListMember(t, listID, "Leftover", time.Now())

	client := &fakeDynamoClient{}
	client.queryFn = func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		return &dynamodb.QueryOutput{
			Items: ideaListRows(t, nil, []*entities.IdeaListMember{orphan}),
		}, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	found, err := repo.FindWithMembersByID(ctx, testGroupA, listID)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestIdeaListRepository_FindMembersByListID_SortsByAddedTime(t *testing.T) {
	// Arrange
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	listID := "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	early := testIdeaListMember(t, listID, "Taqueria", base)
	late := testIdeaListMember(t, listID, "Ramen bar", base.Add(time.Hour))

	client := &fakeDynamoClient{}
	client.queryFn = func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		prefixes := make([]string, 0, len(in.ExpressionAttributeValues))
		for _, v := range in.ExpressionAttributeValues {
			if s, ok := v.(*types.AttributeValueMemberS); ok {
				prefixes = append(prefixes, s.Value)
			}
		}
		assert.Contains(t, prefixes, ideaListMemberSKPrefix(listID))
		return &dynamodb.QueryOutput{
			Items: ideaListRows(t, nil, []*entities.IdeaListMember{early, late}),
		}, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	members, err := repo.FindMembersByListID(ctx, testGroupA, listID)

	// Assert
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, late.ID, members[0].ID)
	assert.Equal(t, early.ID, members[1].ID)
}

func TestIdeaListRepository_DeleteWithAllMembers_SingleBatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	list := testIdeaList(t, "Restaurants", base)
	members := []*entities.IdeaListMember{
		testIdeaListMember(t, list.ID, "One", base),
		testIdeaListMember(t, list.ID, "Two", base),
		testIdeaListMember(t, list.ID, "Three", base),
	}

	client := &fakeDynamoClient{}
	client.queryFn = func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		return &dynamodb.QueryOutput{Items: ideaListRows(t, []*entities.IdeaList{list}, members)}, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	err := repo.DeleteWithAllMembers(ctx, testGroupA, list.ID)

	// Assert: metadata plus N members go out in exactly one batched call.
	require.NoError(t, err)
	require.Len(t, client.batchWriteCalls, 1)
	requests := client.batchWriteCalls[0].RequestItems[testTable]
	require.Len(t, requests, 4)

	deletedSKs := make(map[string]bool, len(requests))
	for _, req := range requests {
		require.NotNil(t, req.DeleteRequest)
		assert.Equal(t, groupPK(testGroupA), attrString(t, req.DeleteRequest.Key, "PK"))
		deletedSKs[attrString(t, req.DeleteRequest.Key, "SK")] = true
	}
	assert.True(t, deletedSKs[ideaListMetadataSK(list.ID)])
	for _, member := range members {
		assert.True(t, deletedSKs[ideaListMemberSK(list.ID, member.ID)])
	}
}

func TestIdeaListRepository_DeleteWithAllMembers_AbsentList(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	repo := newTestIdeaListRepository(client)

	// Act
	err := repo.DeleteWithAllMembers(ctx, testGroupA, "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa")

	// Assert: nothing found, so no delete call goes out at all.
	require.NoError(t, err)
	assert.Len(t, client.queryCalls, 1)
	assert.Empty(t, client.batchWriteCalls)
	assert.Empty(t, client.deleteItemCalls)
}

func TestIdeaListRepository_IdeaListExists(t *testing.T) {
	ctx := context.Background()
	listID := "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

	t.Run("present", func(t *testing.T) {
		list := testIdeaList(t, "Restaurants", time.Now())
		list.ID = listID
		client := &fakeDynamoClient{}
		client.getItemFn = func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: mustMarshalItem(t, newIdeaListItem(list))}, nil
		}
		repo := newTestIdeaListRepository(client)

		assert.True(t, repo.IdeaListExists(ctx, testGroupA, listID))
	})

	t.Run("absent", func(t *testing.T) {
		client := &fakeDynamoClient{}
		repo := newTestIdeaListRepository(client)

		assert.False(t, repo.IdeaListExists(ctx, testGroupA, listID))
	})

	t.Run("store failure reads as absent", func(t *testing.T) {
		client := &fakeDynamoClient{}
		client.getItemFn = func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return nil, errors.New("throttled")
		}
		repo := newTestIdeaListRepository(client)

		assert.False(t, repo.IdeaListExists(ctx, testGroupA, listID))
	})

	t.Run("malformed id makes no store call", func(t *testing.T) {
		client := &fakeDynamoClient{}
		repo := newTestIdeaListRepository(client)

		assert.False(t, repo.IdeaListExists(ctx, testGroupA, "not-a-uuid"))
		assert.Empty(t, client.getItemCalls)
	})
}

func TestIdeaListRepository_FindIdeaListByID_KeyAndRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	list := testIdeaList(t, "Restaurants", time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))

	client := &fakeDynamoClient{}
	client.getItemFn = func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		assert.Equal(t, groupPK(testGroupA), attrString(t, in.Key, "PK"))
		assert.Equal(t, ideaListMetadataSK(list.ID), attrString(t, in.Key, "SK"))
		return &dynamodb.GetItemOutput{Item: mustMarshalItem(t, newIdeaListItem(list))}, nil
	}
	repo := newTestIdeaListRepository(client)

	// Act
	found, err := repo.FindIdeaListByID(ctx, testGroupA, list.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, list.ID, found.ID)
	assert.Equal(t, list.Name, found.Name)
	assert.Equal(t, list.Category, found.Category)
	assert.True(t, list.CreatedAt.Equal(found.CreatedAt))
}

func TestIdeaListRepository_DeleteIdeaList_MetadataOnly(t *testing.T) {
	// Arrange
	ctx := context.Background()
	listID := "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	client := &fakeDynamoClient{}
	repo := newTestIdeaListRepository(client)

	// Act
	err := repo.DeleteIdeaList(ctx, testGroupA, listID)

	// Assert: only the metadata row is addressed; member rows stay behind.
	require.NoError(t, err)
	require.Len(t, client.deleteItemCalls, 1)
	key := client.deleteItemCalls[0].Key
	assert.Equal(t, groupPK(testGroupA), attrString(t, key, "PK"))
	assert.Equal(t, ideaListMetadataSK(listID), attrString(t, key, "SK"))
}

func TestIdeaListRepository_SaveIdeaList_InvalidGroup(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	repo := newTestIdeaListRepository(client)
	list := testIdeaList(t, "Restaurants", time.Now())
	list.GroupID = "not-a-uuid"

	// Act
	err := repo.SaveIdeaList(ctx, list)

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, client.putItemCalls)
}
