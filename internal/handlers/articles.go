// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veritus/internal/models"
)

// articleInput is the partial article body accepted by create and update.
// Pointer fields distinguish "omitted" from zero values so update can
// shallow-merge only what the caller sent.
type articleInput struct {
	ID          *string        `json:"id"`
	Title       *string        `json:"title"`
	Excerpt     *string        `json:"excerpt"`
	Content     *string        `json:"content"`
	Category    *string        `json:"category"`
	Author      *models.Author `json:"author"`
	ReadTime    *int           `json:"readTime"`
	PublishDate *time.Time     `json:"publishDate"`
	Image       *string        `json:"image"`
	Featured    *bool          `json:"featured"`
	Views       *int           `json:"views"`
	Likes       *int           `json:"likes"`
	Bookmarked  *bool          `json:"bookmarked"`
	Tags        *[]string      `json:"tags"`
	Status      *models.Status `json:"status"`
}

// ArticleCreate stores a new article, filling server-side defaults for
// every omitted optional field.
func (a *API) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	var in articleInput
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateArticle(&in, true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().UTC()
	article := models.Article{
		ID:          uuid.NewString(),
		Title:       *in.Title,
		Content:     *in.Content,
		Category:    models.DefaultCategory,
		Author:      models.DefaultAuthor(),
		ReadTime:    models.DefaultReadTime,
		PublishDate: now,
		Image:       models.DefaultImage,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      models.StatusPublished,
	}
	if in.ID != nil && *in.ID != "" {
		article.ID = *in.ID
	}
	if in.Excerpt != nil {
		article.Excerpt = *in.Excerpt
	}
	if in.Category != nil && *in.Category != "" {
		article.Category = *in.Category
	}
	if in.Author != nil {
		article.Author = *in.Author
	}
	if in.ReadTime != nil && *in.ReadTime > 0 {
		article.ReadTime = *in.ReadTime
	}
	if in.PublishDate != nil {
		article.PublishDate = *in.PublishDate
	}
	if in.Image != nil && *in.Image != "" {
		article.Image = *in.Image
	}
	if in.Featured != nil {
		article.Featured = *in.Featured
	}
	if in.Views != nil {
		article.Views = *in.Views
	}
	if in.Likes != nil {
		article.Likes = *in.Likes
	}
	if in.Tags != nil {
		article.Tags = *in.Tags
	}
	if in.Status != nil {
		article.Status = *in.Status
	}

	b, err := json.Marshal(article)
	if err != nil {
		slog.Error("article create marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create article")
		return
	}
	if err := a.store.Set(models.ArticleKey(article.ID), b); err != nil {
		slog.Error("article create store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create article")
		return
	}

	a.invalidateArticles(r.Context())
	slog.Info("article created", "id", article.ID)
	writeRaw(w, http.StatusOK, b)
}

// ArticleList returns every article, newest publish date first.
func (a *API) ArticleList(w http.ResponseWriter, r *http.Request) {
	a.writeArticleList(w, r, "articles", nil)
}

// ArticleGet returns one article by id, bumping its view counter. The
// increment is a single atomic store operation, so concurrent reads all
// count.
func (a *API) ArticleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	updated, err := a.store.IncrementField(models.ArticleKey(id), "views", 1)
	if err != nil {
		slog.Error("article fetch failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch article")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	writeRaw(w, http.StatusOK, updated)
}

// ArticleUpdate shallow-merges the partial body over the stored record.
// id and createdAt are immutable; updatedAt is refreshed.
func (a *API) ArticleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	key := models.ArticleKey(id)

	raw, err := a.store.Get(key)
	if err != nil {
		slog.Error("article update lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update article")
		return
	}
	if raw == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	var in articleInput
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateArticle(&in, false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var article models.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		slog.Error("article update decode failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update article")
		return
	}

	if in.Title != nil {
		article.Title = *in.Title
	}
	if in.Excerpt != nil {
		article.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		article.Content = *in.Content
	}
	if in.Category != nil {
		article.Category = *in.Category
	}
	if in.Author != nil {
		article.Author = *in.Author
	}
	if in.ReadTime != nil {
		article.ReadTime = *in.ReadTime
	}
	if in.PublishDate != nil {
		article.PublishDate = *in.PublishDate
	}
	if in.Image != nil {
		article.Image = *in.Image
	}
	if in.Featured != nil {
		article.Featured = *in.Featured
	}
	if in.Views != nil {
		article.Views = *in.Views
	}
	if in.Likes != nil {
		article.Likes = *in.Likes
	}
	if in.Bookmarked != nil {
		article.Bookmarked = *in.Bookmarked
	}
	if in.Tags != nil {
		article.Tags = *in.Tags
	}
	if in.Status != nil {
		article.Status = *in.Status
	}
	article.ID = id // immutable, even if the body tried to change it
	article.UpdatedAt = time.Now().UTC()

	b, err := json.Marshal(article)
	if err != nil {
		slog.Error("article update marshal failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update article")
		return
	}
	if err := a.store.Set(key, b); err != nil {
		slog.Error("article update store failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update article")
		return
	}

	a.invalidateArticles(r.Context())
	slog.Info("article updated", "id", id)
	writeRaw(w, http.StatusOK, b)
}

// ArticleDelete removes an article permanently.
func (a *API) ArticleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	key := models.ArticleKey(id)

	raw, err := a.store.Get(key)
	if err != nil {
		slog.Error("article delete lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}
	if raw == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	if err := a.store.Delete(key); err != nil {
		slog.Error("article delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	a.invalidateArticles(r.Context())
	slog.Info("article deleted", "id", id)
	writeRaw(w, http.StatusOK, []byte(`{"success":true}`))
}

// ArticlesByCategory returns the articles whose category matches the path
// parameter, ignoring case.
func (a *API) ArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	cacheKey := "articles:category:" + strings.ToLower(category)

	a.writeArticleList(w, r, cacheKey, func(art *models.Article) bool {
		return strings.EqualFold(art.Category, category)
	})
}

// FeaturedArticles returns the articles flagged as featured.
func (a *API) FeaturedArticles(w http.ResponseWriter, r *http.Request) {
	a.writeArticleList(w, r, "articles:featured", func(art *models.Article) bool {
		return art.Featured
	})
}

// writeArticleList serves a sorted (optionally filtered) article list,
// consulting and populating the list cache under cacheKey.
func (a *API) writeArticleList(w http.ResponseWriter, r *http.Request, cacheKey string, keep func(*models.Article) bool) {
	ctx := r.Context()
	if payload, ok := a.cacheGet(ctx, cacheKey); ok {
		writeRaw(w, http.StatusOK, payload)
		return
	}

	raws, err := a.store.GetByPrefix(models.ArticlePrefix)
	if err != nil {
		slog.Error("article list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}

	articles := make([]models.Article, 0, len(raws))
	for _, raw := range raws {
		var art models.Article
		if err := json.Unmarshal(raw, &art); err != nil {
			slog.Warn("skipping undecodable article record", "error", err)
			continue
		}
		if keep == nil || keep(&art) {
			articles = append(articles, art)
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishDate.After(articles[j].PublishDate)
	})

	b, err := json.Marshal(articles)
	if err != nil {
		slog.Error("article list marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}

	a.cacheSet(ctx, cacheKey, b)
	writeRaw(w, http.StatusOK, b)
}
