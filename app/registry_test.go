package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryListCreationOrder(t *testing.T) {
	registry, _, _, _ := newTestStores(t)
	ctx := context.Background()

	a, err := registry.Add(ctx, &Channel{Kind: KindPublic, Username: "a", URL: "https://t.me/a", Name: "A"})
	require.NoError(t, err)
	b, err := registry.Add(ctx, &Channel{Kind: KindPrivate, URL: "https://t.me/+b", Name: "B"})
	require.NoError(t, err)

	channels, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, a, channels[0].ID)
	assert.Equal(t, b, channels[1].ID)
}

func TestRegistryRemoveCascadesConfirmations(t *testing.T) {
	registry, confirmations, _, _ := newTestStores(t)
	ctx := context.Background()

	id, err := registry.Add(ctx, &Channel{Kind: KindPrivate, URL: "https://t.me/+x", Name: "Inner"})
	require.NoError(t, err)
	require.NoError(t, confirmations.Confirm(ctx, 42, id))
	require.NoError(t, confirmations.Confirm(ctx, 43, id))

	require.NoError(t, registry.Remove(ctx, id))

	confirmed, err := confirmations.IsConfirmed(ctx, 42, id)
	require.NoError(t, err)
	assert.False(t, confirmed)

	channels, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestRegistryRemoveMissing(t *testing.T) {
	registry, _, _, _ := newTestStores(t)
	err := registry.Remove(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmationsIdempotent(t *testing.T) {
	registry, confirmations, _, _ := newTestStores(t)
	ctx := context.Background()

	id, err := registry.Add(ctx, &Channel{Kind: KindPrivate, URL: "https://t.me/+x", Name: "Inner"})
	require.NoError(t, err)

	confirmed, err := confirmations.IsConfirmed(ctx, 42, id)
	require.NoError(t, err)
	assert.False(t, confirmed)

	require.NoError(t, confirmations.Confirm(ctx, 42, id))
	require.NoError(t, confirmations.Confirm(ctx, 42, id))

	confirmed, err = confirmations.IsConfirmed(ctx, 42, id)
	require.NoError(t, err)
	assert.True(t, confirmed)
}

func TestConfirmationsClear(t *testing.T) {
	registry, confirmations, _, _ := newTestStores(t)
	ctx := context.Background()

	id, err := registry.Add(ctx, &Channel{Kind: KindPrivate, URL: "https://t.me/+x", Name: "Inner"})
	require.NoError(t, err)
	require.NoError(t, confirmations.Confirm(ctx, 42, id))

	require.NoError(t, confirmations.Clear(ctx, 42, id))

	confirmed, err := confirmations.IsConfirmed(ctx, 42, id)
	require.NoError(t, err)
	assert.False(t, confirmed)
}

func TestUsersUpsert(t *testing.T) {
	_, _, _, users := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, 42, "gopher", "Go Pher"))
	require.NoError(t, users.Upsert(ctx, 42, "gopher2", "Go Pher"))
	require.NoError(t, users.Upsert(ctx, 43, "other", "Other One"))

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
