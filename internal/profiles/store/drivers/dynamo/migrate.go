package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

const tableWaitTimeout = 2 * time.Minute

// ApplyMigrations creates the table when it does not exist yet. Production
// tables are provisioned out-of-band; this is for DynamoDB Local and fresh
// development accounts.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	err := s.Ping(ctx)
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("dynamo: describe table: %w", err)
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String(domain.FieldUserID),
			AttributeType: types.ScalarAttributeTypeS,
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(domain.FieldUserID),
			KeyType:       types.KeyTypeHash,
		}},
	})
	if err != nil {
		return fmt.Errorf("dynamo: create table: %w", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, tableWaitTimeout); err != nil {
		return fmt.Errorf("dynamo: wait for table: %w", err)
	}
	return nil
}
