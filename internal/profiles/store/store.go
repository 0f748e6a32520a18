package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrNothingToUpdate is returned without touching the table when an
	// update carries no fields.
	ErrNothingToUpdate = errors.New("store: nothing to update")

	// ErrImmutableField is returned when an update targets the key or the
	// creation timestamp.
	ErrImmutableField = errors.New("store: field is immutable")
)

// Table is the key-value record store behind the profile store. Concrete
// drivers (dynamo, sqlite, memory) implement it. Every mutation is a single
// conditional write on one item keyed by UserId; drivers translate their
// native conditional-check failure into ErrAlreadyExists or ErrNotFound.
type Table interface {
	// Get returns the item stored under userID or ErrNotFound.
	Get(ctx context.Context, userID string) (domain.Profile, error)

	// PutIfAbsent writes p only if no item with p.UserID exists, otherwise
	// ErrAlreadyExists.
	PutIfAbsent(ctx context.Context, p domain.Profile) error

	// UpdateIfExists applies u to an existing item and returns the item as
	// stored after the write. Missing items fail with ErrNotFound, they are
	// never created.
	UpdateIfExists(ctx context.Context, userID string, u Update) (domain.Profile, error)

	// DeleteIfExists removes an existing item or fails with ErrNotFound.
	DeleteIfExists(ctx context.Context, userID string) error

	// ApplyMigrations prepares the backing table (schema, DynamoDB table).
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
