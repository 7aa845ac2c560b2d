package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// writeTransaction assembles an ordered TransactWriteItems call against a
// single table. Item order is preserved; cancellation reasons index into it.
type writeTransaction struct {
	tableName string
	items     []types.TransactWriteItem
}

func newWriteTransaction(tableName string) *writeTransaction {
	return &writeTransaction{tableName: tableName}
}

// put appends an unconditional put.
func (t *writeTransaction) put(item map[string]types.AttributeValue) {
	t.items = append(t.items, types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(t.tableName),
			Item:      item,
		},
	})
}

// putIfAbsent appends a put guarded against overwriting an existing row.
func (t *writeTransaction) putIfAbsent(item map[string]types.AttributeValue) {
	t.items = append(t.items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(t.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		},
	})
}

// putGuarded appends a put with an arbitrary condition expression.
func (t *writeTransaction) putGuarded(item map[string]types.AttributeValue, condition string, values map[string]types.AttributeValue) {
	t.items = append(t.items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:                 aws.String(t.tableName),
			Item:                      item,
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeValues: values,
		},
	})
}

// update appends an update expression against an existing row. condition may
// be empty for an unconditional update.
func (t *writeTransaction) update(key map[string]types.AttributeValue, updateExpression, condition string, values map[string]types.AttributeValue) {
	u := &types.Update{
		TableName:                 aws.String(t.tableName),
		Key:                       key,
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeValues: values,
	}
	if condition != "" {
		u.ConditionExpression = aws.String(condition)
	}
	t.items = append(t.items, types.TransactWriteItem{Update: u})
}

// run executes the transaction. The raw SDK error is returned so callers can
// map cancellation onto their own error types.
func (t *writeTransaction) run(ctx context.Context, client DynamoDBAPI) error {
	_, err := client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: t.items,
	})
	return err
}
