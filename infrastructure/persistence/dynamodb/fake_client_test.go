package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

// fakeDynamoClient is a scripted stand-in for the DynamoDB client. Each
// method records its input and then delegates to an optional hook; with no
// hook it returns an empty success. Recording the inputs lets tests assert
// transaction item order and batch sizes, which testify mocks make awkward.
type fakeDynamoClient struct {
	getItemFn    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putItemFn    func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	deleteItemFn func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	updateItemFn func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	queryFn      func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	batchWriteFn func(*dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error)
	transactFn   func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)

	getItemCalls    []*dynamodb.GetItemInput
	putItemCalls    []*dynamodb.PutItemInput
	deleteItemCalls []*dynamodb.DeleteItemInput
	updateItemCalls []*dynamodb.UpdateItemInput
	queryCalls      []*dynamodb.QueryInput
	batchWriteCalls []*dynamodb.BatchWriteItemInput
	transactCalls   []*dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getItemCalls = append(f.getItemCalls, params)
	if f.getItemFn != nil {
		return f.getItemFn(params)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putItemCalls = append(f.putItemCalls, params)
	if f.putItemFn != nil {
		return f.putItemFn(params)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteItemCalls = append(f.deleteItemCalls, params)
	if f.deleteItemFn != nil {
		return f.deleteItemFn(params)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateItemCalls = append(f.updateItemCalls, params)
	if f.updateItemFn != nil {
		return f.updateItemFn(params)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryCalls = append(f.queryCalls, params)
	if f.queryFn != nil {
		return f.queryFn(params)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamoClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.batchWriteCalls = append(f.batchWriteCalls, params)
	if f.batchWriteFn != nil {
		return f.batchWriteFn(params)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDynamoClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transactCalls = append(f.transactCalls, params)
	if f.transactFn != nil {
		return f.transactFn(params)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

var _ DynamoDBAPI = (*fakeDynamoClient)(nil)

func conditionalCheckFailedErr() error {
	return &types.ConditionalCheckFailedException{Message: strPtr("The conditional request failed")}
}

func transactionCancelledErr() error {
	return &types.TransactionCanceledException{Message: strPtr("Transaction cancelled, please refer cancellation reasons for specific reasons")}
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// mustMarshalItem turns one of the repository item structs into the raw row
// shape the fake returns from queries.
func mustMarshalItem(t *testing.T, item interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	return av
}

func attrString(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s should be a string", name)
	return v.Value
}

func attrNumber(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberN)
	require.True(t, ok, "attribute %s should be a number", name)
	return v.Value
}
