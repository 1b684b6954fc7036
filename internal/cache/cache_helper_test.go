package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "questionnaire:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := testCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	}

	if err := helper.Set(ctx, "id:q-1", payload{Name: "Cyber Baseline", Score: 42}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "id:q-1", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Cyber Baseline" || got.Score != 42 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper, _ := testCache(t)

	var dest map[string]string
	err := helper.Get(context.Background(), "id:absent", &dest)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "questionnaire:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:q-1", "value", time.Minute); err != nil {
		t.Errorf("set with nil client must be a no-op, got %v", err)
	}
	var dest string
	if err := helper.Get(ctx, "id:q-1", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecuteFetchesOnce(t *testing.T) {
	helper, _ := testCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"total": 17}, nil
	}

	var first map[string]int
	if err := helper.CacheOrExecute(ctx, "scores:sub-1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if first["total"] != 17 {
		t.Errorf("unexpected fetch result: %+v", first)
	}
	if calls != 1 {
		t.Errorf("expected one fetch, got %d", calls)
	}

	// The async write-back races the second read, so seed it directly.
	if err := helper.Set(ctx, "scores:sub-1", map[string]int{"total": 17}, time.Minute); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	var second map[string]int
	if err := helper.CacheOrExecute(ctx, "scores:sub-1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("cached read must not fetch again, fetch count %d", calls)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, mr := testCache(t)
	ctx := context.Background()

	for _, key := range []string{"list:page:1", "list:page:2", "id:q-1"} {
		if err := helper.Set(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if mr.Exists("questionnaire:list:page:1") || mr.Exists("questionnaire:list:page:2") {
		t.Error("pattern keys survived invalidation")
	}
	if !mr.Exists("questionnaire:id:q-1") {
		t.Error("unrelated key was invalidated")
	}
}

func TestCacheManager_HealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cm := NewCacheManager(client)
	if err := cm.HealthCheck(context.Background()); err != nil {
		t.Errorf("health check failed: %v", err)
	}

	degraded := NewCacheManager(nil)
	if err := degraded.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}
