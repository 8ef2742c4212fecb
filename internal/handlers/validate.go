package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for article fields.
const (
	maxTitleLen    = 300
	maxContentLen  = 100_000
	maxExcerptLen  = 1_000
	maxCategoryLen = 100
	maxTagLen      = 100
	maxTags        = 25
)

// emailPattern is the basic local@domain.tld shape the subscribe endpoint
// accepts. Deliverability is the mail provider's problem, not ours.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validEmail reports whether email looks like an address we can store.
func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validateArticle checks create/update inputs and returns the first error
// found, or "" when the input is acceptable. requireBody enforces the
// mandatory title/content pair on creation; updates may omit either.
func validateArticle(in *articleInput, requireBody bool) string {
	if requireBody {
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" ||
			in.Content == nil || strings.TrimSpace(*in.Content) == "" {
			return "Title and content are required"
		}
	}
	if in.Title != nil && utf8.RuneCountInString(*in.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)"
	}
	if in.Content != nil && utf8.RuneCountInString(*in.Content) > maxContentLen {
		return "Content is too long (max 100,000 characters)"
	}
	if in.Excerpt != nil && utf8.RuneCountInString(*in.Excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)"
	}
	if in.Category != nil && utf8.RuneCountInString(*in.Category) > maxCategoryLen {
		return "Category is too long (max 100 characters)"
	}
	if in.Status != nil && !in.Status.Valid() {
		return "Status must be one of draft, published, scheduled, archived"
	}
	if in.Tags != nil {
		if len(*in.Tags) > maxTags {
			return "Too many tags (max 25)"
		}
		for _, tag := range *in.Tags {
			if utf8.RuneCountInString(tag) > maxTagLen {
				return "Tag is too long (max 100 characters)"
			}
		}
	}
	return ""
}
