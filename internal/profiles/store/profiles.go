package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

// ProfileStore maps profile operations onto single conditional writes
// against a Table. It performs no retries; a failed condition is reported as
// the matching domain outcome straight away.
type ProfileStore struct {
	Table Table

	// Now stamps UpdatedAt on updates. Defaults to time.Now in UTC.
	Now func() time.Time
}

func NewProfileStore(t Table) *ProfileStore {
	return &ProfileStore{Table: t}
}

func (s *ProfileStore) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	// Stored timestamps carry millisecond precision.
	return now.UTC().Truncate(time.Millisecond)
}

// Fetch returns the profile for userID. A missing profile is reported
// through the boolean, not as an error.
func (s *ProfileStore) Fetch(ctx context.Context, userID string) (domain.Profile, bool, error) {
	p, err := s.Table.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, fmt.Errorf("fetch profile: %w", err)
	}
	return p, true, nil
}

// InsertIfAbsent stores p unless a profile with the same UserId exists, in
// which case it returns ErrAlreadyExists.
func (s *ProfileStore) InsertIfAbsent(ctx context.Context, p domain.Profile) error {
	err := s.Table.PutIfAbsent(ctx, p)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// ConditionalUpdate applies fields to an existing profile and returns the
// stored result. It never creates a profile: a missing one is ErrNotFound.
func (s *ProfileStore) ConditionalUpdate(
	ctx context.Context,
	userID string,
	fields []Field,
) (domain.Profile, error) {
	for _, f := range fields {
		if f.Name == domain.FieldUserID || f.Name == domain.FieldCreatedAt {
			return domain.Profile{}, fmt.Errorf("%w: %s", ErrImmutableField, f.Name)
		}
	}

	u, ok := BuildUpdate(fields, s.now())
	if !ok {
		return domain.Profile{}, ErrNothingToUpdate
	}

	p, err := s.Table.UpdateIfExists(ctx, userID, u)
	if errors.Is(err, ErrNotFound) {
		return domain.Profile{}, ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// ConditionalDelete removes an existing profile. Not reachable from the HTTP
// API; used by the admin CLI.
func (s *ProfileStore) ConditionalDelete(ctx context.Context, userID string) error {
	err := s.Table.DeleteIfExists(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
