package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrProfileNotFound  = errors.New("profile not found")
)

type ProfileService struct {
	Store *store.ProfileStore

	// Now stamps CreatedAt/UpdatedAt on new profiles. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (s *ProfileService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	// Stored timestamps carry millisecond precision.
	return now.UTC().Truncate(time.Millisecond)
}

// Username validates a raw request value. Anything other than a non-blank
// string is treated as missing.
func Username(v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", ErrUsernameRequired
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return "", ErrUsernameRequired
	}
	return str, nil
}

// Create stores a profile for the caller unless one exists already. The
// boolean reports whether this call created it; an existing profile is
// returned untouched.
func (s *ProfileService) Create(ctx context.Context, c domain.Claims, username string) (domain.Profile, bool, error) {
	username, err := Username(username)
	if err != nil {
		return domain.Profile{}, false, err
	}

	existing, found, err := s.Store.Fetch(ctx, c.Subject)
	if err != nil {
		return domain.Profile{}, false, err
	}
	if found {
		return existing, false, nil
	}

	p := domain.NewProfile(c, username, s.now())
	err = s.Store.InsertIfAbsent(ctx, p)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent create for the same identity.
		existing, found, err := s.Store.Fetch(ctx, c.Subject)
		if err != nil {
			return domain.Profile{}, false, err
		}
		if !found {
			return domain.Profile{}, false, fmt.Errorf("create profile: %s vanished after conflict", c.Subject)
		}
		return existing, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, err
	}

	return p, true, nil
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.Profile, error) {
	p, found, err := s.Store.Fetch(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if !found {
		return domain.Profile{}, ErrProfileNotFound
	}
	return p, nil
}

// UpdateUsername changes the caller's username. It never creates a profile.
func (s *ProfileService) UpdateUsername(ctx context.Context, userID, username string) (domain.Profile, error) {
	username, err := Username(username)
	if err != nil {
		return domain.Profile{}, err
	}

	p, err := s.Store.ConditionalUpdate(ctx, userID, []store.Field{
		{Name: domain.FieldUsername, Value: username},
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Delete removes a profile. Only the admin CLI calls this.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	err := s.Store.ConditionalDelete(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProfileNotFound
	}
	return err
}
