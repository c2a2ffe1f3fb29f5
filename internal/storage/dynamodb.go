package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-storefront/internal/aws"
)

// record is the item shape persisted in the storage table.
type record struct {
	StorageKey string    `dynamodbav:"storage_key"` // PK
	Value      string    `dynamodbav:"value"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"`
	ExpiresAt  int64     `dynamodbav:"expires_at,omitempty"` // TTL epoch seconds
}

// DynamoBackend stores blobs in a DynamoDB table keyed by storage_key.
type DynamoBackend struct {
	client    aws.DynamoDBAPI
	tableName string
	ttl       time.Duration
	nowFunc   func() time.Time
}

// NewDynamoBackend returns a backend bound to tableName. A positive ttl sets expires_at on every
// write so abandoned sessions age out through the table's TTL setting.
func NewDynamoBackend(client aws.DynamoDBAPI, tableName string, ttl time.Duration) *DynamoBackend {
	return &DynamoBackend{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		nowFunc:   time.Now,
	}
}

// Get fetches the blob stored under key. Returns ErrNotFound when absent or past expires_at;
// DynamoDB deletes expired items lazily, so they may still be returned for a while.
func (d *DynamoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"storage_key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: sdkaws.Bool(true),
	})
	if err != nil {
		return nil, classify("get item", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if rec.ExpiresAt != 0 && rec.ExpiresAt <= d.nowFunc().Unix() {
		return nil, ErrNotFound
	}
	return []byte(rec.Value), nil
}

// Put overwrites the blob stored under key.
func (d *DynamoBackend) Put(ctx context.Context, key string, value []byte) error {
	now := d.nowFunc().UTC()
	rec := record{
		StorageKey: key,
		Value:      string(value),
		UpdatedAt:  now,
	}
	if d.ttl > 0 {
		rec.ExpiresAt = now.Add(d.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if _, err := d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &d.tableName,
		Item:      item,
	}); err != nil {
		return classify("put item", err)
	}
	return nil
}

// classify keeps the DynamoDB error code in the message so quota and throttling failures are
// recognisable in logs.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
