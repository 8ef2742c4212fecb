// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Integration tests for the kv adapter. They require a running PostgreSQL
// with the kv_store table and are skipped when one is unavailable.
package kv

import (
	"database/sql"
	"encoding/json"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"veritus/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testStore opens a connection to the test PostgreSQL and runs migrations.
func testStore(t *testing.T) *Store {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "veritus")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "veritus")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

// testKey returns a unique key under a test namespace and registers cleanup.
func testKey(t *testing.T, s *Store) string {
	t.Helper()
	key := "kvtest:" + uuid.NewString()
	t.Cleanup(func() { s.Delete(key) })
	return key
}

func TestGetSetDelete(t *testing.T) {
	s := testStore(t)
	key := testKey(t, s)

	// Absent key is (nil, nil), not an error.
	v, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get absent: %v", err)
	}
	if v != nil {
		t.Fatalf("Get absent: got %s, want nil", v)
	}

	if err := s.Set(key, []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err = s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != `{"n": 1}` && string(v) != `{"n":1}` {
		t.Errorf("Get: got %s", v)
	}

	// Set overwrites the whole document.
	if err := s.Set(key, []byte(`{"m":2}`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, _ = s.Get(key)
	var doc map[string]int
	if err := json.Unmarshal(v, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["n"]; ok {
		t.Error("overwrite must replace, not merge")
	}

	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting again is a no-op.
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete idempotent: %v", err)
	}
	v, _ = s.Get(key)
	if v != nil {
		t.Error("value survived delete")
	}
}

func TestMGetPreservesInputOrder(t *testing.T) {
	s := testStore(t)
	k1 := testKey(t, s)
	k2 := testKey(t, s)
	k3 := testKey(t, s)

	if err := s.MSet([]string{k1, k2, k3}, [][]byte{
		[]byte(`{"i":1}`), []byte(`{"i":2}`), []byte(`{"i":3}`),
	}); err != nil {
		t.Fatalf("MSet: %v", err)
	}

	// Request in reverse order, with a missing key in the middle.
	values, err := s.MGet([]string{k3, "kvtest:missing", k1})
	if err != nil {
		t.Fatalf("MGet: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("MGet length: got %d, want 2", len(values))
	}

	var first, second map[string]int
	json.Unmarshal(values[0], &first)
	json.Unmarshal(values[1], &second)
	if first["i"] != 3 || second["i"] != 1 {
		t.Errorf("order: got %d,%d want 3,1", first["i"], second["i"])
	}
}

func TestMSetLengthMismatch(t *testing.T) {
	s := testStore(t)

	err := s.MSet([]string{"kvtest:a", "kvtest:b"}, [][]byte{[]byte(`1`)})
	if err != ErrArgumentMismatch {
		t.Fatalf("got %v, want ErrArgumentMismatch", err)
	}
}

func TestMDelete(t *testing.T) {
	s := testStore(t)
	k1 := testKey(t, s)
	k2 := testKey(t, s)

	if err := s.MSet([]string{k1, k2}, [][]byte{[]byte(`1`), []byte(`2`)}); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	if err := s.MDelete([]string{k1, k2, "kvtest:never-existed"}); err != nil {
		t.Fatalf("MDelete: %v", err)
	}
	for _, k := range []string{k1, k2} {
		if v, _ := s.Get(k); v != nil {
			t.Errorf("key %s survived MDelete", k)
		}
	}
}

func TestGetByPrefix(t *testing.T) {
	s := testStore(t)

	prefix := "kvtest:" + uuid.NewString()[:8] + ":"
	keys := []string{prefix + "a", prefix + "b", prefix + "c"}
	t.Cleanup(func() { s.MDelete(keys) })

	if err := s.MSet(keys, [][]byte{[]byte(`1`), []byte(`2`), []byte(`3`)}); err != nil {
		t.Fatalf("MSet: %v", err)
	}

	values, err := s.GetByPrefix(prefix)
	if err != nil {
		t.Fatalf("GetByPrefix: %v", err)
	}
	if len(values) != 3 {
		t.Errorf("length: got %d, want 3", len(values))
	}

	// A prefix with no keys returns an empty result, not an error.
	values, err = s.GetByPrefix("kvtest:no-such-prefix:")
	if err != nil {
		t.Fatalf("GetByPrefix empty: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("empty prefix: got %d values", len(values))
	}
}

func TestIncrementField(t *testing.T) {
	s := testStore(t)
	key := testKey(t, s)

	// Absent key yields (nil, nil).
	v, err := s.IncrementField(key, "views", 1)
	if err != nil {
		t.Fatalf("IncrementField absent: %v", err)
	}
	if v != nil {
		t.Fatal("expected nil for absent key")
	}

	if err := s.Set(key, []byte(`{"title":"x","views":4}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, err = s.IncrementField(key, "views", 1)
	if err != nil {
		t.Fatalf("IncrementField: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(v, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["views"].(float64) != 5 {
		t.Errorf("views: got %v, want 5", doc["views"])
	}
	if doc["title"] != "x" {
		t.Error("other fields must survive the increment")
	}

	// A missing field counts as zero.
	v, err = s.IncrementField(key, "likes", 3)
	if err != nil {
		t.Fatalf("IncrementField missing field: %v", err)
	}
	json.Unmarshal(v, &doc)
	if doc["likes"].(float64) != 3 {
		t.Errorf("likes: got %v, want 3", doc["likes"])
	}
}

func TestIncrementFieldConcurrent(t *testing.T) {
	s := testStore(t)
	key := testKey(t, s)

	if err := s.Set(key, []byte(`{"views":0}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.IncrementField(key, "views", 1); err != nil {
				t.Errorf("IncrementField: %v", err)
			}
		}()
	}
	wg.Wait()

	v, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var doc map[string]float64
	json.Unmarshal(v, &doc)
	if doc["views"] != workers {
		t.Errorf("views: got %v, want %d — increments lost under concurrency", doc["views"], workers)
	}
}
