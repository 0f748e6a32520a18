// Package storetest holds the behaviour every store.Table driver must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
)

// NewTable returns a fresh, migrated and empty table.
type NewTable func(t *testing.T) store.Table

// RunTableContract exercises a driver through store.ProfileStore.
func RunTableContract(t *testing.T, newTable NewTable) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	later := created.Add(90 * time.Minute)

	email := "ada@example.com"
	seed := func() domain.Profile {
		e, g := email, email
		return domain.Profile{
			UserID:      "uid-1",
			Email:       &e,
			Username:    "ada",
			GoogleEmail: &g,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}

	newStore := func(t *testing.T) *store.ProfileStore {
		s := store.NewProfileStore(newTable(t))
		s.Now = func() time.Time { return later }
		return s
	}

	t.Run("fetch missing", func(t *testing.T) {
		s := newStore(t)
		_, found, err := s.Fetch(context.Background(), "nobody")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("insert then fetch", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertIfAbsent(context.Background(), seed()))

		got, found, err := s.Fetch(context.Background(), "uid-1")
		require.NoError(t, err)
		require.True(t, found)
		RequireProfile(t, seed(), got)
	})

	t.Run("insert keeps null attributes", func(t *testing.T) {
		s := newStore(t)
		p := seed()
		p.Email, p.GoogleEmail = nil, nil
		require.NoError(t, s.InsertIfAbsent(context.Background(), p))

		got, _, err := s.Fetch(context.Background(), "uid-1")
		require.NoError(t, err)
		require.Nil(t, got.Email)
		require.Nil(t, got.GoogleEmail)
	})

	t.Run("second insert is rejected", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertIfAbsent(context.Background(), seed()))

		dup := seed()
		dup.Username = "imposter"
		require.ErrorIs(t, s.InsertIfAbsent(context.Background(), dup), store.ErrAlreadyExists)

		got, _, err := s.Fetch(context.Background(), "uid-1")
		require.NoError(t, err)
		require.Equal(t, "ada", got.Username)
	})

	t.Run("update existing", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertIfAbsent(context.Background(), seed()))

		got, err := s.ConditionalUpdate(context.Background(), "uid-1", []store.Field{
			{Name: domain.FieldUsername, Value: "lovelace"},
		})
		require.NoError(t, err)

		want := seed()
		want.Username = "lovelace"
		want.UpdatedAt = later
		RequireProfile(t, want, got)

		stored, _, err := s.Fetch(context.Background(), "uid-1")
		require.NoError(t, err)
		RequireProfile(t, want, stored)
	})

	t.Run("update missing never creates", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ConditionalUpdate(context.Background(), "nobody", []store.Field{
			{Name: domain.FieldUsername, Value: "ghost"},
		})
		require.ErrorIs(t, err, store.ErrNotFound)

		_, found, err := s.Fetch(context.Background(), "nobody")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertIfAbsent(context.Background(), seed()))
		require.NoError(t, s.ConditionalDelete(context.Background(), "uid-1"))
		require.ErrorIs(t, s.ConditionalDelete(context.Background(), "uid-1"), store.ErrNotFound)

		_, found, err := s.Fetch(context.Background(), "uid-1")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newTable(t).Ping(context.Background()))
	})
}

// RequireProfile compares profiles with time.Time.Equal, since drivers may
// hand back a different location or drop the monotonic reading.
func RequireProfile(t *testing.T, want, got domain.Profile) {
	t.Helper()
	require.Equal(t, want.UserID, got.UserID)
	require.Equal(t, want.Email, got.Email)
	require.Equal(t, want.Username, got.Username)
	require.Equal(t, want.GoogleEmail, got.GoogleEmail)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt: want %s, got %s", want.CreatedAt, got.CreatedAt)
	require.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "UpdatedAt: want %s, got %s", want.UpdatedAt, got.UpdatedAt)
}
