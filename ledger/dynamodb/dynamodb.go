// Package dynamodb implements ledger.Ledger on a DynamoDB table.
//
// Table schema:
//   - Partition key: job (string) - the job blob name
//   - Sort key: digest (string) - the job content digest
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name nngrid-runs \
//	  --attribute-definitions AttributeName=job,AttributeType=S AttributeName=digest,AttributeType=S \
//	  --key-schema AttributeName=job,KeyType=HASH AttributeName=digest,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/nngrid/ledger"
)

// Client is the interface for DynamoDB operations.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Compile-time check to ensure Ledger satisfies ledger.Ledger.
var _ ledger.Ledger = (*Ledger)(nil)

// Ledger stores run entries in DynamoDB. Record uses a conditional write so
// concurrent runners of the same job record it once.
type Ledger struct {
	client Client
	table  string
}

// NewLedger creates a ledger on table.
func NewLedger(client Client, table string) *Ledger {
	return &Ledger{client: client, table: table}
}

// New creates a ledger using the default AWS credential chain.
func New(ctx context.Context, table string) (*Ledger, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewLedger(dynamodb.NewFromConfig(cfg), table), nil
}

func key(job, digest string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"job":    &types.AttributeValueMemberS{Value: job},
		"digest": &types.AttributeValueMemberS{Value: digest},
	}
}

// Lookup implements ledger.Ledger.
func (l *Ledger) Lookup(ctx context.Context, job, digest string) (ledger.Entry, bool, error) {
	resp, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(l.table),
		Key:            key(job, digest),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return ledger.Entry{}, false, fmt.Errorf("failed to read DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return ledger.Entry{}, false, nil
	}

	e := ledger.Entry{Job: job, Digest: digest}
	if v, ok := resp.Item["run_id"].(*types.AttributeValueMemberS); ok {
		e.RunID = v.Value
	}
	if v, ok := resp.Item["output"].(*types.AttributeValueMemberS); ok {
		e.Output = v.Value
	}
	if v, ok := resp.Item["finished_at"].(*types.AttributeValueMemberN); ok {
		var ms int64
		if _, err := fmt.Sscanf(v.Value, "%d", &ms); err != nil {
			return ledger.Entry{}, false, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		e.FinishedAt = time.UnixMilli(ms).UTC()
	}
	return e, true, nil
}

// Record implements ledger.Ledger.
func (l *Ledger) Record(ctx context.Context, e ledger.Entry) error {
	item := key(e.Job, e.Digest)
	item["run_id"] = &types.AttributeValueMemberS{Value: e.RunID}
	item["output"] = &types.AttributeValueMemberS{Value: e.Output}
	item["finished_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", e.FinishedAt.UnixMilli())}

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(digest)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ledger.ErrAlreadyRecorded
		}
		return fmt.Errorf("failed to record run in DynamoDB: %w", err)
	}
	return nil
}
