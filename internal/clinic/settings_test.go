package clinic

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, nil)
}

func TestStoreGetReturnsDefaultsWhenUnset(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "America/Tegucigalpa", settings.Timezone)
	assert.Equal(t, 30, settings.SlotGranularityMinutes)
	assert.Equal(t, 60, settings.DefaultDurationMinutes)
}

func TestStoreSetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := &Settings{
		Timezone:               "America/Mexico_City",
		SlotGranularityMinutes: 15,
		DefaultDurationMinutes: 45,
	}
	require.NoError(t, store.Set(ctx, want))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreSetRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bad := []*Settings{
		{Timezone: "Not/A_Zone", SlotGranularityMinutes: 30, DefaultDurationMinutes: 60},
		{Timezone: "UTC", SlotGranularityMinutes: 0, DefaultDurationMinutes: 60},
		{Timezone: "UTC", SlotGranularityMinutes: 30, DefaultDurationMinutes: -1},
	}
	for _, s := range bad {
		assert.Errorf(t, store.Set(ctx, s), "Set(%+v) should fail", s)
	}
}

func TestGetReturnsCopyOfFallback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Get(ctx)
	require.NoError(t, err)
	first.Timezone = "mutated"

	second, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "America/Tegucigalpa", second.Timezone, "fallback settings must not leak a mutable reference")
}
