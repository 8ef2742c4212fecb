// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"veritus/internal/models"
)

// emailRequest is the body of the subscribe and unsubscribe endpoints.
type emailRequest struct {
	Email string `json:"email"`
}

// Subscribe creates a newsletter subscriber record. An address with an
// active record is rejected with 409 so the welcome flow never fires twice;
// an inactive (unsubscribed) address gets a fresh record.
func (a *API) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	key := models.SubscriberKey(req.Email)
	existing, err := a.store.Get(key)
	if err != nil {
		slog.Error("newsletter subscribe lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}
	if existing != nil {
		var prev models.Subscriber
		if err := json.Unmarshal(existing, &prev); err == nil && prev.IsActive {
			writeError(w, http.StatusConflict, "This email is already subscribed!")
			return
		}
	}

	subscriber := models.Subscriber{
		ID:           uuid.NewString(),
		Email:        req.Email,
		SubscribedAt: time.Now().UTC(),
		IsActive:     true,
		Preferences: models.Preferences{
			WeeklyDigest:     true,
			ArticleUpdates:   true,
			ExclusiveContent: true,
		},
	}

	b, err := json.Marshal(subscriber)
	if err != nil {
		slog.Error("newsletter subscribe marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}
	if err := a.store.Set(key, b); err != nil {
		slog.Error("newsletter subscribe store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	a.invalidateSubscribers(r.Context())
	slog.Info("newsletter subscription successful", "email", req.Email)
	writeRaw(w, http.StatusOK, b)
}

// Unsubscribe marks a subscriber inactive. The record is kept — there is
// no hard delete on this path.
func (a *API) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	key := models.SubscriberKey(req.Email)
	raw, err := a.store.Get(key)
	if err != nil {
		slog.Error("newsletter unsubscribe lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}
	if raw == nil {
		writeError(w, http.StatusNotFound, "Email not found")
		return
	}

	var subscriber models.Subscriber
	if err := json.Unmarshal(raw, &subscriber); err != nil {
		slog.Error("newsletter unsubscribe decode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	subscriber.IsActive = false
	b, err := json.Marshal(subscriber)
	if err != nil {
		slog.Error("newsletter unsubscribe marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}
	if err := a.store.Set(key, b); err != nil {
		slog.Error("newsletter unsubscribe store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	a.invalidateSubscribers(r.Context())
	slog.Info("newsletter unsubscribe successful", "email", req.Email)
	writeRaw(w, http.StatusOK, b)
}

// SubscriberList returns every subscriber record, newest first.
func (a *API) SubscriberList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if payload, ok := a.cacheGet(ctx, "subscribers"); ok {
		writeRaw(w, http.StatusOK, payload)
		return
	}

	subscribers, err := a.loadSubscribers()
	if err != nil {
		slog.Error("newsletter list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	sort.Slice(subscribers, func(i, j int) bool {
		return subscribers[i].SubscribedAt.After(subscribers[j].SubscribedAt)
	})

	b, err := json.Marshal(subscribers)
	if err != nil {
		slog.Error("newsletter list marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	a.cacheSet(ctx, "subscribers", b)
	writeRaw(w, http.StatusOK, b)
}

// SubscriberStats returns total and active subscriber counts.
func (a *API) SubscriberStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if payload, ok := a.cacheGet(ctx, "subscribers:stats"); ok {
		writeRaw(w, http.StatusOK, payload)
		return
	}

	subscribers, err := a.loadSubscribers()
	if err != nil {
		slog.Error("newsletter stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	active := 0
	for _, s := range subscribers {
		if s.IsActive {
			active++
		}
	}

	stats := map[string]int{"total": len(subscribers), "active": active}
	b, err := json.Marshal(stats)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	a.cacheSet(ctx, "subscribers:stats", b)
	writeRaw(w, http.StatusOK, b)
}

// loadSubscribers scans the newsletter namespace and decodes every record.
func (a *API) loadSubscribers() ([]models.Subscriber, error) {
	raws, err := a.store.GetByPrefix(models.SubscriberPrefix)
	if err != nil {
		return nil, err
	}

	subscribers := make([]models.Subscriber, 0, len(raws))
	for _, raw := range raws {
		var s models.Subscriber
		if err := json.Unmarshal(raw, &s); err != nil {
			slog.Warn("skipping undecodable subscriber record", "error", err)
			continue
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, nil
}
