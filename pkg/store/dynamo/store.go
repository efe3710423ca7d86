// Package dynamo persists request records in a DynamoDB table keyed by id.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	storemodels "github.com/cloudforge/stack-advisor/pkg/models/store"
	"github.com/cloudforge/stack-advisor/pkg/store"
)

// dynamoAPI is the slice of the DynamoDB client the store needs.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type Store struct {
	api   dynamoAPI
	table string
}

func NewStore(api dynamoAPI, table string) *Store {
	return &Store{api: api, table: table}
}

func (s *Store) Upsert(ctx context.Context, record storemodels.OptimizationRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", record.ID, err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put record %s: %w", record.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (storemodels.OptimizationRecord, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return storemodels.OptimizationRecord{}, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return storemodels.OptimizationRecord{}, store.ErrNotFound
	}

	var record storemodels.OptimizationRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return storemodels.OptimizationRecord{}, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	return record, nil
}
