package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hangout-backend/domain/entities"
	pkgerrors "hangout-backend/pkg/errors"
)

func newTestSeriesRepository(client *fakeDynamoClient) *EventSeriesRepository {
	return NewEventSeriesRepository(client, testTable, zap.NewNop()).(*EventSeriesRepository)
}

func testSeries(t *testing.T, hangoutIDs ...string) *entities.EventSeries {
	t.Helper()
	series, err := entities.NewEventSeries(testGroupA, "Climbing nights", "user-1", hangoutIDs)
	require.NoError(t, err)
	return series
}

// seriesConversionFixture is the full input set for CreateSeriesWithNewPart:
// a standalone hangout being converted plus the freshly built second part.
type seriesConversionFixture struct {
	series           *entities.EventSeries
	existing         *entities.Hangout
	existingPointers []*entities.HangoutPointer
	newHangout       *entities.Hangout
	newPointers      []*entities.HangoutPointer
	seriesPointers   []*entities.SeriesPointer
}

func newSeriesConversionFixture(t *testing.T) seriesConversionFixture {
	t.Helper()
	existing := testHangout(t, testGroupA)
	existing.Version = 2
	newHangout := testHangout(t, testGroupA)
	series := testSeries(t, existing.ID, newHangout.ID)

	newHangout.SeriesID = series.ID

	return seriesConversionFixture{
		series:           series,
		existing:         existing,
		existingPointers: existing.Pointers(),
		newHangout:       newHangout,
		newPointers:      newHangout.Pointers(),
		seriesPointers:   []*entities.SeriesPointer{series.Pointer()},
	}
}

func TestEventSeriesRepository_CreateSeriesWithNewPart_ItemOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	repo := newTestSeriesRepository(client)
	fx := newSeriesConversionFixture(t)

	// Act
	err := repo.CreateSeriesWithNewPart(ctx, fx.series, fx.existing, fx.existingPointers, fx.newHangout, fx.newPointers, fx.seriesPointers)

	// Assert
	require.NoError(t, err)
	require.Len(t, client.transactCalls, 1)
	items := client.transactCalls[0].TransactItems
	require.Len(t, items, 6)

	// 1. series created, guarded against an id collision
	seriesPut := items[0].Put
	require.NotNil(t, seriesPut)
	assert.Equal(t, "attribute_not_exists(PK)", aws.ToString(seriesPut.ConditionExpression))
	assert.Equal(t, seriesPK(fx.series.ID), attrString(t, seriesPut.Item, "PK"))

	// 2. existing hangout linked under its version check
	existingUpdate := items[1].Update
	require.NotNil(t, existingUpdate)
	assert.Equal(t, eventPK(fx.existing.ID), attrString(t, existingUpdate.Key, "PK"))
	assert.Equal(t, "SET SeriesID = :seriesId, Version = :newVersion, UpdatedAt = :now", aws.ToString(existingUpdate.UpdateExpression))
	assert.Equal(t, "Version = :expectedVersion", aws.ToString(existingUpdate.ConditionExpression))
	assert.Equal(t, "2", attrNumber(t, existingUpdate.ExpressionAttributeValues, ":expectedVersion"))
	assert.Equal(t, "3", attrNumber(t, existingUpdate.ExpressionAttributeValues, ":newVersion"))
	assert.Equal(t, fx.series.ID, attrString(t, existingUpdate.ExpressionAttributeValues, ":seriesId"))

	// 3. existing pointer linked with the same series id and timestamp
	pointerUpdate := items[2].Update
	require.NotNil(t, pointerUpdate)
	assert.Equal(t, groupPK(testGroupA), attrString(t, pointerUpdate.Key, "PK"))
	assert.Equal(t, hangoutSK(fx.existing.ID), attrString(t, pointerUpdate.Key, "SK"))
	assert.Nil(t, pointerUpdate.ConditionExpression)
	assert.Equal(t, fx.series.ID, attrString(t, pointerUpdate.ExpressionAttributeValues, ":seriesId"))
	assert.Equal(t,
		attrString(t, existingUpdate.ExpressionAttributeValues, ":now"),
		attrString(t, pointerUpdate.ExpressionAttributeValues, ":now"),
	)

	// 4. new hangout created with its pointer and the series pointer
	newHangoutPut := items[3].Put
	require.NotNil(t, newHangoutPut)
	assert.Equal(t, "attribute_not_exists(PK)", aws.ToString(newHangoutPut.ConditionExpression))
	assert.Equal(t, eventPK(fx.newHangout.ID), attrString(t, newHangoutPut.Item, "PK"))
	assert.Equal(t, fx.series.ID, attrString(t, newHangoutPut.Item, "SeriesID"))

	newPointerPut := items[4].Put
	require.NotNil(t, newPointerPut)
	assert.Equal(t, hangoutSK(fx.newHangout.ID), attrString(t, newPointerPut.Item, "SK"))

	seriesPointerPut := items[5].Put
	require.NotNil(t, seriesPointerPut)
	assert.Equal(t, seriesSK(fx.series.ID), attrString(t, seriesPointerPut.Item, "SK"))
	assert.Equal(t, entityTypeSeriesPointer, attrString(t, seriesPointerPut.Item, "EntityType"))
}

func TestEventSeriesRepository_CreateSeriesWithNewPart_Cancelled(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	client.transactFn = func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, transactionCancelledErr()
	}
	repo := newTestSeriesRepository(client)
	fx := newSeriesConversionFixture(t)

	// Act
	err := repo.CreateSeriesWithNewPart(ctx, fx.series, fx.existing, fx.existingPointers, fx.newHangout, fx.newPointers, fx.seriesPointers)

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "transaction cancelled")

	var cancelled *types.TransactionCanceledException
	assert.True(t, errors.As(err, &cancelled))

	// All-or-nothing: the single cancelled transaction is the only write
	// attempted, nothing was applied through any other path.
	assert.Len(t, client.transactCalls, 1)
	assert.Empty(t, client.putItemCalls)
	assert.Empty(t, client.updateItemCalls)
	assert.Empty(t, client.batchWriteCalls)
}

func TestEventSeriesRepository_AddPartToExistingSeries_AppendsExactlyOne(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	repo := newTestSeriesRepository(client)

	series := testSeries(t, testEventID)
	newHangout := testHangout(t, testGroupA)
	newHangout.SeriesID = series.ID

	// Act
	err := repo.AddPartToExistingSeries(ctx, series.ID, newHangout, newHangout.Pointers(), nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, client.transactCalls, 1)
	items := client.transactCalls[0].TransactItems
	require.Len(t, items, 3)

	seriesUpdate := items[0].Update
	require.NotNil(t, seriesUpdate)
	assert.Equal(t, seriesPK(series.ID), attrString(t, seriesUpdate.Key, "PK"))
	assert.Equal(t, "SET HangoutIDs = list_append(HangoutIDs, :newPart), Version = Version + :inc, UpdatedAt = :now", aws.ToString(seriesUpdate.UpdateExpression))
	assert.Equal(t, "attribute_exists(PK)", aws.ToString(seriesUpdate.ConditionExpression))

	// list_append leaves prior ids in place; the appended list carries the
	// one new id only.
	newPart, ok := seriesUpdate.ExpressionAttributeValues[":newPart"].(*types.AttributeValueMemberL)
	require.True(t, ok)
	require.Len(t, newPart.Value, 1)
	appended, ok := newPart.Value[0].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, newHangout.ID, appended.Value)
	assert.Equal(t, "1", attrNumber(t, seriesUpdate.ExpressionAttributeValues, ":inc"))

	newHangoutPut := items[1].Put
	require.NotNil(t, newHangoutPut)
	assert.Equal(t, "attribute_not_exists(PK)", aws.ToString(newHangoutPut.ConditionExpression))

	pointerPut := items[2].Put
	require.NotNil(t, pointerPut)
	assert.Equal(t, hangoutSK(newHangout.ID), attrString(t, pointerPut.Item, "SK"))
}

func TestEventSeriesRepository_AddPartToExistingSeries_SeriesMissing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	client.transactFn = func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, transactionCancelledErr()
	}
	repo := newTestSeriesRepository(client)
	newHangout := testHangout(t, testGroupA)

	// Act
	err := repo.AddPartToExistingSeries(ctx, testEventID, newHangout, newHangout.Pointers(), nil)

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "add part to series")
}

func TestEventSeriesRepository_RemovePartFromSeries_StripsSeriesID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	repo := newTestSeriesRepository(client)

	hangout := testHangout(t, testGroupA, testGroupB)
	series := testSeries(t, testEventID, hangout.ID)
	series.Version = 2
	series.HangoutIDs = []string{testEventID} // rebuilt without the removed part

	// Act
	err := repo.RemovePartFromSeries(ctx, series, hangout, hangout.Pointers())

	// Assert
	require.NoError(t, err)
	require.Len(t, client.transactCalls, 1)
	items := client.transactCalls[0].TransactItems
	require.Len(t, items, 4)

	seriesUpdate := items[0].Update
	require.NotNil(t, seriesUpdate)
	assert.Equal(t, "SET HangoutIDs = :remaining, Version = :newVersion, UpdatedAt = :now", aws.ToString(seriesUpdate.UpdateExpression))
	assert.Equal(t, "Version = :expectedVersion", aws.ToString(seriesUpdate.ConditionExpression))
	assert.Equal(t, "2", attrNumber(t, seriesUpdate.ExpressionAttributeValues, ":expectedVersion"))
	assert.Equal(t, "3", attrNumber(t, seriesUpdate.ExpressionAttributeValues, ":newVersion"))

	remaining, ok := seriesUpdate.ExpressionAttributeValues[":remaining"].(*types.AttributeValueMemberL)
	require.True(t, ok)
	require.Len(t, remaining.Value, 1)

	hangoutUpdate := items[1].Update
	require.NotNil(t, hangoutUpdate)
	assert.Equal(t, eventPK(hangout.ID), attrString(t, hangoutUpdate.Key, "PK"))
	assert.Equal(t, "REMOVE SeriesID SET UpdatedAt = :now", aws.ToString(hangoutUpdate.UpdateExpression))
	assert.Equal(t, "attribute_exists(PK)", aws.ToString(hangoutUpdate.ConditionExpression))

	sharedNow := attrString(t, seriesUpdate.ExpressionAttributeValues, ":now")
	for _, item := range items[2:] {
		pointerUpdate := item.Update
		require.NotNil(t, pointerUpdate)
		assert.Equal(t, "REMOVE SeriesID SET UpdatedAt = :now", aws.ToString(pointerUpdate.UpdateExpression))
		assert.Nil(t, pointerUpdate.ConditionExpression)
		assert.Equal(t, sharedNow, attrString(t, pointerUpdate.ExpressionAttributeValues, ":now"))
	}
}

func TestEventSeriesRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &fakeDynamoClient{}
	repo := newTestSeriesRepository(client)

	// Act
	found, err := repo.FindByID(ctx, testEventID)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestEventSeriesRepository_FindByID_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	series := testSeries(t, testEventID)
	series.Description = "Every other Friday"

	client := &fakeDynamoClient{}
	client.getItemFn = func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		return &dynamodb.GetItemOutput{Item: mustMarshalItem(t, newEventSeriesItem(series))}, nil
	}
	repo := newTestSeriesRepository(client)

	// Act
	found, err := repo.FindByID(ctx, series.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, series.ID, found.ID)
	assert.Equal(t, []string{testEventID}, found.HangoutIDs)
	assert.Equal(t, "Every other Friday", found.Description)
	assert.Equal(t, 1, found.Version)
}

func TestEventSeriesRepository_FindPointersByGroupID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	series := testSeries(t, testEventID)

	client := &fakeDynamoClient{}
	client.queryFn = func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		assert.Nil(t, in.IndexName)
		assert.Equal(t, "PK = :pk AND begins_with(SK, :sk)", aws.ToString(in.KeyConditionExpression))
		assert.Equal(t, skPrefixSeries, attrString(t, in.ExpressionAttributeValues, ":sk"))
		return &dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{mustMarshalItem(t, newSeriesPointerItem(series.Pointer()))},
		}, nil
	}
	repo := newTestSeriesRepository(client)

	// Act
	pointers, err := repo.FindPointersByGroupID(ctx, testGroupA)

	// Assert
	require.NoError(t, err)
	require.Len(t, pointers, 1)
	assert.Equal(t, series.ID, pointers[0].SeriesID)
	assert.Equal(t, "Climbing nights", pointers[0].Title)
}
