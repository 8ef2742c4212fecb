package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"veritus/internal/models"
)

// Seed populates the store with the platform's demo articles when no
// articles exist yet. The demo content is the same material the UI ships
// as sample data, inserted here explicitly so an empty development
// installation has something to render — and so the fallback is visible
// in the logs rather than silently substituted at read time.
func Seed(db *sql.DB) error {
	// Check if any articles exist already.
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM kv_store WHERE key LIKE 'article:%'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("seed check articles: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	now := time.Now().UTC()
	for i, a := range demoArticles {
		a.CreatedAt = now
		a.UpdatedAt = now
		// Stagger publish dates so list ordering is deterministic.
		a.PublishDate = now.AddDate(0, 0, -i)
		a.Status = models.StatusPublished

		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("seed marshal article %s: %w", a.ID, err)
		}

		_, err = db.Exec(`
			INSERT INTO kv_store (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING
		`, models.ArticleKey(a.ID), b)
		if err != nil {
			return fmt.Errorf("seed insert article %s: %w", a.ID, err)
		}
	}

	slog.Info("database seeded with demo articles", "count", len(demoArticles))
	return nil
}

// demoArticles is the sample content inserted by Seed.
var demoArticles = []models.Article{
	{
		ID:       "demo-1",
		Title:    "The Future of Artificial Intelligence: Beyond Machine Learning",
		Excerpt:  "Exploring the next frontier of AI technology and its implications for society, from AGI to quantum computing integration.",
		Content:  "Artificial Intelligence has evolved beyond our wildest dreams...",
		Category: "Technology",
		Author: models.Author{
			ID:        "1",
			Name:      "Lanrewaju Lawal",
			Avatar:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop",
			Bio:       "Main Author & Admin of VERITUS INTERNATIONAL. Expert in global affairs, business strategy, and technology trends.",
			Followers: 52100,
			Following: 328,
			Articles:  186,
		},
		ReadTime: 8,
		Image:    "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=1200&h=600&fit=crop",
		Featured: true,
		Tags:     []string{"AI", "Machine Learning", "Technology"},
	},
	{
		ID:       "demo-2",
		Title:    "Global Markets React to New Economic Policies",
		Excerpt:  "An in-depth analysis of how recent monetary policy changes are reshaping international trade dynamics.",
		Content:  "The global economic landscape is shifting...",
		Category: "Business",
		Author: models.Author{
			ID:        "1",
			Name:      "Lanrewaju Lawal",
			Avatar:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop",
			Bio:       "Main Author & Admin of VERITUS INTERNATIONAL. Expert in global affairs, business strategy, and technology trends.",
			Followers: 52100,
			Following: 328,
			Articles:  186,
		},
		ReadTime: 6,
		Image:    "https://images.unsplash.com/photo-1611974789855-9c2a0a7236a3?w=1200&h=600&fit=crop",
		Featured: true,
		Tags:     []string{"Economics", "Markets", "Finance"},
	},
	{
		ID:       "demo-3",
		Title:    "Breakthrough in Renewable Energy Storage",
		Excerpt:  "Scientists develop new battery technology that could revolutionize solar and wind power efficiency.",
		Content:  "A team of researchers has announced...",
		Category: "Science",
		Author: models.Author{
			ID:        "2",
			Name:      "Lateef Abiodun",
			Avatar:    "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400&h=400&fit=crop",
			Bio:       "Web Developer & Technology Architect. Building the future of digital publishing platforms.",
			Followers: 18900,
			Following: 156,
			Articles:  42,
		},
		ReadTime: 7,
		Image:    "https://images.unsplash.com/photo-1509391366360-2e959784a276?w=1200&h=600&fit=crop",
		Tags:     []string{"Energy", "Climate", "Innovation"},
	},
}
