// Package handlers implements the JSON route handlers for the Veritus
// content API: newsletter subscription management and article CRUD over
// the flat key-value store.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Store is the key-value surface the handlers need. *kv.Store satisfies it;
// tests substitute an in-memory implementation.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	GetByPrefix(prefix string) ([][]byte, error)
	IncrementField(key, field string, delta int) ([]byte, error)
}

// ListCache is the read-cache surface for list endpoints. *cache.ListCache
// satisfies it. A nil cache disables caching entirely.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	InvalidateArticles(ctx context.Context)
	InvalidateSubscribers(ctx context.Context)
}

// API holds the dependencies shared by all route handlers.
type API struct {
	store Store
	cache ListCache
}

// New creates the API handler group. cache may be nil.
func New(store Store, cache ListCache) *API {
	return &API{store: store, cache: cache}
}

// Health reports service liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, http.StatusOK, []byte(`{"status":"ok"}`))
}

// cacheGet consults the list cache, tolerating a nil cache.
func (a *API) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(ctx, key)
}

// cacheSet stores a list payload, tolerating a nil cache.
func (a *API) cacheSet(ctx context.Context, key string, payload []byte) {
	if a.cache != nil {
		a.cache.Set(ctx, key, payload)
	}
}

func (a *API) invalidateArticles(ctx context.Context) {
	if a.cache != nil {
		a.cache.InvalidateArticles(ctx)
	}
}

func (a *API) invalidateSubscribers(ctx context.Context) {
	if a.cache != nil {
		a.cache.InvalidateSubscribers(ctx)
	}
}

// writeJSON marshals v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("response marshal failed", "error", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, b)
}

// writeRaw writes pre-serialized JSON with the given status.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError writes the standard {"error": msg} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeStrict decodes a JSON request body into v, rejecting unknown fields.
// Loose extra fields were historically accepted and silently stored; they
// are treated as a schema violation now.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
