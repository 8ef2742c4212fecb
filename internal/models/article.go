// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Status represents the publishing state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known publishing states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled, StatusArchived:
		return true
	}
	return false
}

// Defaults applied by the create handler when the caller omits optional fields.
const (
	DefaultCategory = "Uncategorized"
	DefaultReadTime = 5
	DefaultImage    = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=1200&h=600&fit=crop"
)

// Author is the denormalized author object embedded in every article.
// There is no referential integrity — the article carries a full copy.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Articles  int    `json:"articles"`
}

// DefaultAuthor is the canned admin author used when an article is created
// without one.
func DefaultAuthor() Author {
	return Author{
		ID:     "1",
		Name:   "Admin",
		Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop",
		Bio:    "Administrator",
	}
}

// Article is the full record stored under "article:<id>". Field names match
// the JSON the platform's UI consumes.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      Author    `json:"author"`
	ReadTime    int       `json:"readTime"`
	PublishDate time.Time `json:"publishDate"`
	Image       string    `json:"image"`
	Featured    bool      `json:"featured"`
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	Bookmarked  bool      `json:"bookmarked"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Status      Status    `json:"status"`
}

// ArticleKey returns the storage key for an article id.
func ArticleKey(id string) string {
	return "article:" + id
}

// ArticlePrefix is the key namespace shared by all article records.
const ArticlePrefix = "article:"
