// Integration tests for the Valkey list cache. They are skipped when no
// Valkey/Redis instance is reachable.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testClient returns a Valkey client on DB 15 for cache tests.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, listKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestListCacheSetGet(t *testing.T) {
	lc := NewListCache(testClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := lc.Get(ctx, KeyArticles); ok {
		t.Fatal("expected miss on empty cache")
	}

	payload := []byte(`[{"id":"1"}]`)
	lc.Set(ctx, KeyArticles, payload)

	got, ok := lc.Get(ctx, KeyArticles)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("payload: got %s", got)
	}
}

func TestListCacheTTL(t *testing.T) {
	lc := NewListCache(testClient(t), 100*time.Millisecond)
	ctx := context.Background()

	lc.Set(ctx, KeyStats, []byte(`{"total":1,"active":1}`))
	if _, ok := lc.Get(ctx, KeyStats); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(150 * time.Millisecond)
	if _, ok := lc.Get(ctx, KeyStats); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestInvalidateArticles(t *testing.T) {
	lc := NewListCache(testClient(t), time.Minute)
	ctx := context.Background()

	lc.Set(ctx, KeyArticles, []byte(`[]`))
	lc.Set(ctx, KeyFeatured, []byte(`[]`))
	lc.Set(ctx, KeyCategoryPrefix+"tech", []byte(`[]`))
	lc.Set(ctx, KeySubscribers, []byte(`[]`))

	lc.InvalidateArticles(ctx)

	for _, key := range []string{KeyArticles, KeyFeatured, KeyCategoryPrefix + "tech"} {
		if _, ok := lc.Get(ctx, key); ok {
			t.Errorf("key %q survived article invalidation", key)
		}
	}
	// Subscriber payloads are untouched.
	if _, ok := lc.Get(ctx, KeySubscribers); !ok {
		t.Error("subscriber payload should survive article invalidation")
	}
}

func TestInvalidateSubscribers(t *testing.T) {
	lc := NewListCache(testClient(t), time.Minute)
	ctx := context.Background()

	lc.Set(ctx, KeySubscribers, []byte(`[]`))
	lc.Set(ctx, KeyStats, []byte(`{}`))
	lc.Set(ctx, KeyArticles, []byte(`[]`))

	lc.InvalidateSubscribers(ctx)

	for _, key := range []string{KeySubscribers, KeyStats} {
		if _, ok := lc.Get(ctx, key); ok {
			t.Errorf("key %q survived subscriber invalidation", key)
		}
	}
	if _, ok := lc.Get(ctx, KeyArticles); !ok {
		t.Error("article payload should survive subscriber invalidation")
	}
}
