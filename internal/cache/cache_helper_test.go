package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCacheHelper_SetGet(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "course:")
	ctx := context.Background()

	type payload struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}

	if err := helper.Set(ctx, "id:1", payload{ID: 1, Title: "Intro to Go"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "id:1", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != 1 || got.Title != "Intro to Go" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "course:")

	var dest map[string]any
	if err := helper.Get(context.Background(), "id:404", &dest); err != ErrCacheNotFound {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "user:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", "a", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Set(ctx, "id:2", "b", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := helper.Delete(ctx, "id:1", "id:2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, err := helper.Exists(ctx, "id:1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("key id:1 still exists after delete")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "course:")
	ctx := context.Background()

	if err := helper.Set(ctx, "list:1", "a", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Set(ctx, "list:2", "b", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Set(ctx, "id:1", "c", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	if exists, _ := helper.Exists(ctx, "list:1"); exists {
		t.Error("list:1 survived pattern invalidation")
	}
	if exists, _ := helper.Exists(ctx, "id:1"); !exists {
		t.Error("id:1 should not be touched by list:* invalidation")
	}
}

func TestCacheHelper_NilClientGracefulDegradation(t *testing.T) {
	helper := NewCacheHelper(nil, "course:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", "a", time.Minute); err != nil {
		t.Errorf("Set() with nil client error = %v", err)
	}
	if err := helper.Get(ctx, "id:1", new(string)); err != ErrCacheNotAvailable {
		t.Errorf("Get() with nil client error = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("Delete() with nil client error = %v", err)
	}
	if err := helper.InvalidatePattern(ctx, "*"); err != nil {
		t.Errorf("InvalidatePattern() with nil client error = %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "fast:")
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"count": 7}, nil
	}

	var first map[string]int
	if err := helper.CacheOrExecute(ctx, "stats", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if first["count"] != 7 {
		t.Errorf("first fetch = %v", first)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}

	// The async set needs a moment to land before the cached read
	deadline := time.Now().Add(time.Second)
	for {
		if exists, _ := helper.Exists(ctx, "stats"); exists || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second map[string]int
	if err := helper.CacheOrExecute(ctx, "stats", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() second call error = %v", err)
	}
	if second["count"] != 7 {
		t.Errorf("second fetch = %v", second)
	}
	if calls != 1 {
		t.Errorf("fetch calls after cached read = %d, want 1", calls)
	}
}

func TestNewCacheManager_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)

	if err := cm.HealthCheck(context.Background()); err != ErrCacheNotAvailable {
		t.Errorf("HealthCheck() error = %v, want ErrCacheNotAvailable", err)
	}
}
