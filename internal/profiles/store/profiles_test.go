package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/memory"
)

// countingTable records how often each operation reached the table.
type countingTable struct {
	store.Table

	updates int
	err     error
}

func (c *countingTable) UpdateIfExists(ctx context.Context, userID string, u store.Update) (domain.Profile, error) {
	c.updates++
	if c.err != nil {
		return domain.Profile{}, c.err
	}
	return c.Table.UpdateIfExists(ctx, userID, u)
}

func (c *countingTable) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if c.err != nil {
		return domain.Profile{}, c.err
	}
	return c.Table.Get(ctx, userID)
}

func TestConditionalUpdateWithoutFieldsSkipsTable(t *testing.T) {
	table := &countingTable{Table: memory.NewStore()}
	s := store.NewProfileStore(table)

	_, err := s.ConditionalUpdate(context.Background(), "uid-1", []store.Field{
		{Name: domain.FieldEmail, Value: nil},
	})
	require.ErrorIs(t, err, store.ErrNothingToUpdate)
	require.Zero(t, table.updates)
}

func TestConditionalUpdateRejectsImmutableFields(t *testing.T) {
	table := &countingTable{Table: memory.NewStore()}
	s := store.NewProfileStore(table)

	for _, name := range []string{domain.FieldUserID, domain.FieldCreatedAt} {
		_, err := s.ConditionalUpdate(context.Background(), "uid-1", []store.Field{
			{Name: domain.FieldUsername, Value: "ada"},
			{Name: name, Value: "x"},
		})
		require.ErrorIs(t, err, store.ErrImmutableField)
	}
	require.Zero(t, table.updates)
}

func TestConditionalUpdateStampsUpdatedAt(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	s := store.NewProfileStore(memory.NewStore())
	s.Now = func() time.Time { return later }

	require.NoError(t, s.InsertIfAbsent(context.Background(), domain.Profile{
		UserID: "uid-1", Username: "ada", CreatedAt: created, UpdatedAt: created,
	}))

	p, err := s.ConditionalUpdate(context.Background(), "uid-1", []store.Field{
		{Name: domain.FieldUsername, Value: "lovelace"},
	})
	require.NoError(t, err)
	require.Equal(t, "lovelace", p.Username)
	require.True(t, p.CreatedAt.Equal(created))
	require.True(t, p.UpdatedAt.Equal(later))
	require.False(t, p.UpdatedAt.Before(p.CreatedAt))
}

func TestProfileStoreWrapsTableErrors(t *testing.T) {
	boom := errors.New("table unavailable")
	s := store.NewProfileStore(&countingTable{Table: memory.NewStore(), err: boom})

	_, _, err := s.Fetch(context.Background(), "uid-1")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, store.ErrNotFound)

	_, err = s.ConditionalUpdate(context.Background(), "uid-1", []store.Field{
		{Name: domain.FieldUsername, Value: "ada"},
	})
	require.ErrorIs(t, err, boom)
}
