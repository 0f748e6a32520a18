package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/dynamo"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/memory"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/sqlite"
)

// OpenTable connects the configured storage driver. The caller owns the
// returned table and must Close it.
func OpenTable(ctx context.Context, cfg Config) (store.Table, error) {
	switch cfg.StoreDriver {
	case DriverDynamoDB:
		t, err := dynamo.NewStore(ctx, dynamo.Options{
			Table:    cfg.UsersTable,
			Endpoint: cfg.DynamoDBEndpoint,
			Region:   cfg.AWSRegion,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize dynamodb table: %w", err)
		}
		return t, nil

	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		t, err := sqlite.NewStore(dsn, cfg.UsersTable)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite table: %w", err)
		}
		return t, nil

	case DriverMemory:
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
