// Package dynamo stores profiles in a DynamoDB table keyed by UserId.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
)

const (
	pingKey = "_ping"

	conditionExists    = "attribute_exists(" + domain.FieldUserID + ")"
	conditionNotExists = "attribute_not_exists(" + domain.FieldUserID + ")"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type Store struct {
	client API
	table  string
}

// Options configures NewStore. Endpoint overrides the service endpoint, e.g.
// for DynamoDB Local.
type Options struct {
	Table    string
	Endpoint string
	Region   string
}

// NewStore builds a client from the default AWS credential chain.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Table == "" {
		return nil, errors.New("dynamo: table name is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamo: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return New(client, opts.Table), nil
}

// New wraps an existing client.
func New(client API, table string) *Store {
	return &Store{client: client, table: table}
}

func (s *Store) key(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		domain.FieldUserID: &types.AttributeValueMemberS{Value: userID},
	}
}

func (s *Store) Get(ctx context.Context, userID string) (domain.Profile, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("dynamo: get item: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.Profile{}, store.ErrNotFound
	}
	return decode(out.Item)
}

func (s *Store) PutIfAbsent(ctx context.Context, p domain.Profile) error {
	item, err := encode(p)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String(conditionNotExists),
	})
	if isConditionFailed(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("dynamo: put item: %w", err)
	}
	return nil
}

func (s *Store) UpdateIfExists(ctx context.Context, userID string, u store.Update) (domain.Profile, error) {
	stored := make(map[string]any, len(u.Values))
	for k, v := range u.Values {
		stored[k] = domain.StoredValue(v)
	}
	values, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("dynamo: marshal update values: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(userID),
		UpdateExpression:          aws.String(u.Expression),
		ExpressionAttributeNames:  u.Names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String(conditionExists),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return domain.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("dynamo: update item: %w", err)
	}
	return decode(out.Attributes)
}

func (s *Store) DeleteIfExists(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(userID),
		ConditionExpression: aws.String(conditionExists),
	})
	if isConditionFailed(err) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("dynamo: delete item: %w", err)
	}
	return nil
}

// Ping reads a key no profile uses. It needs the same item-level permission
// as Get, and a missing table still surfaces as ResourceNotFoundException.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(pingKey),
		ProjectionExpression:     aws.String("#k"),
		ExpressionAttributeNames: map[string]string{"#k": domain.FieldUserID},
	})
	return err
}

func (s *Store) Close() error { return nil }

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func encode(p domain.Profile) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("dynamo: marshal profile: %w", err)
	}
	item[domain.FieldCreatedAt] = &types.AttributeValueMemberS{Value: domain.FormatTime(p.CreatedAt)}
	item[domain.FieldUpdatedAt] = &types.AttributeValueMemberS{Value: domain.FormatTime(p.UpdatedAt)}
	return item, nil
}

func decode(item map[string]types.AttributeValue) (domain.Profile, error) {
	var p domain.Profile
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("dynamo: unmarshal profile: %w", err)
	}
	return p, nil
}
