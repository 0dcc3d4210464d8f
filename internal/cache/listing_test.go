package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
)

func setupTestCache(t *testing.T) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewListingCache(client, time.Minute, logger), mr
}

func sampleListing() []domain.Business {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Business{
		{
			ID:          "biz-1",
			OwnerID:     "owner-1",
			Name:        "Warung Makan Sederhana",
			Category:    domain.CategoryMakanan,
			Status:      domain.StatusActive,
			Rating:      4.5,
			ReviewCount: 12,
			IsPopular:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:        "biz-2",
			OwnerID:   "owner-2",
			Name:      "Batik Lestari",
			Category:  domain.CategoryFashion,
			Status:    domain.StatusApproved,
			Rating:    4.2,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func TestListingCache_PopularRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	_, found := c.GetPopular(ctx)
	assert.False(t, found)

	listing := sampleListing()
	c.SetPopular(ctx, listing)

	got, found := c.GetPopular(ctx)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "biz-1", got[0].ID)
	assert.Equal(t, "Warung Makan Sederhana", got[0].Name)
	assert.Equal(t, 4.5, got[0].Rating)
	assert.Equal(t, "biz-2", got[1].ID)
}

func TestListingCache_LatestRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	listing := sampleListing()
	c.SetLatest(ctx, listing)

	got, found := c.GetLatest(ctx)
	require.True(t, found)
	assert.Len(t, got, 2)

	// The popular key is untouched.
	_, found = c.GetPopular(ctx)
	assert.False(t, found)
}

func TestListingCache_SetAppliesTTL(t *testing.T) {
	c, mr := setupTestCache(t)

	c.SetPopular(context.Background(), sampleListing())

	ttl := mr.TTL("umkm:listing:popular")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "expected TTL in (0, 1m], got %v", ttl)
}

func TestListingCache_ExpiredEntryIsMiss(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	c.SetLatest(ctx, sampleListing())
	mr.FastForward(2 * time.Minute)

	_, found := c.GetLatest(ctx)
	assert.False(t, found)
}

func TestListingCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := setupTestCache(t)

	require.NoError(t, mr.Set("umkm:listing:popular", "{{not-valid-json"))

	got, found := c.GetPopular(context.Background())
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestListingCache_Invalidate_DropsBothListings(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	c.SetPopular(ctx, sampleListing())
	c.SetLatest(ctx, sampleListing())
	require.True(t, mr.Exists("umkm:listing:popular"))
	require.True(t, mr.Exists("umkm:listing:latest"))

	c.Invalidate(ctx)

	assert.False(t, mr.Exists("umkm:listing:popular"))
	assert.False(t, mr.Exists("umkm:listing:latest"))

	_, found := c.GetPopular(ctx)
	assert.False(t, found)
	_, found = c.GetLatest(ctx)
	assert.False(t, found)
}

func TestListingCache_RedisDownIsMiss(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	c.SetPopular(ctx, sampleListing())
	mr.Close()

	// A dead Redis degrades to a miss; callers fall through to the database.
	_, found := c.GetPopular(ctx)
	assert.False(t, found)
}

func TestListingCache_EmptyListingRoundTrips(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	c.SetPopular(ctx, []domain.Business{})

	// An empty result is a valid cached value, stored as a JSON array.
	raw, err := mr.Get("umkm:listing:popular")
	require.NoError(t, err)

	var decoded []domain.Business
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Empty(t, decoded)

	got, found := c.GetPopular(ctx)
	require.True(t, found)
	assert.Empty(t, got)
}
