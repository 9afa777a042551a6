package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"careconnect/internal/models"
)

func testCache(t *testing.T) (*BannerCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewBannerCache(rdb), mr
}

func TestBannerCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	if _, ok := cache.Get(ctx); ok {
		t.Error("empty cache should miss")
	}

	seq := 1
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	promotions := []models.Promotion{
		{ID: uuid.New(), ModerationState: models.PromotionApproved, Title: "Banner A", Sequence: &seq, StartDate: &start},
	}
	cache.Put(ctx, promotions, time.Minute)

	got, ok := cache.Get(ctx)
	if !ok {
		t.Fatal("cache should hit after Put")
	}
	if len(got) != 1 || got[0].ID != promotions[0].ID || got[0].Title != "Banner A" {
		t.Errorf("cached promotions = %v", got)
	}
	if got[0].Sequence == nil || *got[0].Sequence != 1 {
		t.Errorf("sequence lost through cache: %v", got[0].Sequence)
	}
}

func TestBannerCacheExpiry(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	cache.Put(ctx, []models.Promotion{{ID: uuid.New()}}, time.Minute)
	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx); ok {
		t.Error("cache should miss after the TTL elapses")
	}
}

func TestBannerCacheCorruptValue(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	mr.Set("banner:ordered", "{not json")
	if _, ok := cache.Get(ctx); ok {
		t.Error("corrupt value should read as a miss")
	}
}

func TestBannerCacheDisabled(t *testing.T) {
	cache := NewBannerCache(nil)
	ctx := context.Background()

	// Neither call may panic without a backing client.
	cache.Put(ctx, []models.Promotion{{ID: uuid.New()}}, time.Minute)
	if _, ok := cache.Get(ctx); ok {
		t.Error("disabled cache should always miss")
	}
}
