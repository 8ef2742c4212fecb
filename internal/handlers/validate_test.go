package handlers

import (
	"strings"
	"testing"

	"veritus/internal/models"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.domain.org",
		"x+tag@y.co",
	}
	for _, email := range valid {
		if !validEmail(email) {
			t.Errorf("%q should be valid", email)
		}
	}

	invalid := []string{
		"",
		"plain",
		"no-at.example.com",
		"no-tld@example",
		"spaces in@example.com",
		"@missing-local.com",
	}
	for _, email := range invalid {
		if validEmail(email) {
			t.Errorf("%q should be invalid", email)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestValidateArticleRequired(t *testing.T) {
	cases := []struct {
		name string
		in   articleInput
		ok   bool
	}{
		{"both present", articleInput{Title: strPtr("T"), Content: strPtr("C")}, true},
		{"missing title", articleInput{Content: strPtr("C")}, false},
		{"missing content", articleInput{Title: strPtr("T")}, false},
		{"blank title", articleInput{Title: strPtr("   "), Content: strPtr("C")}, false},
		{"empty", articleInput{}, false},
	}
	for _, tc := range cases {
		msg := validateArticle(&tc.in, true)
		if tc.ok && msg != "" {
			t.Errorf("%s: unexpected error %q", tc.name, msg)
		}
		if !tc.ok && msg == "" {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateArticleUpdateAllowsPartial(t *testing.T) {
	// Updates may omit title and content entirely.
	if msg := validateArticle(&articleInput{}, false); msg != "" {
		t.Errorf("empty update input: unexpected error %q", msg)
	}
}

func TestValidateArticleLimits(t *testing.T) {
	long := strings.Repeat("x", maxTitleLen+1)
	if msg := validateArticle(&articleInput{Title: &long, Content: strPtr("C")}, true); msg == "" {
		t.Error("over-long title should be rejected")
	}

	tooManyTags := make([]string, maxTags+1)
	for i := range tooManyTags {
		tooManyTags[i] = "t"
	}
	in := articleInput{Title: strPtr("T"), Content: strPtr("C"), Tags: &tooManyTags}
	if msg := validateArticle(&in, true); msg == "" {
		t.Error("too many tags should be rejected")
	}
}

func TestValidateArticleStatus(t *testing.T) {
	for _, s := range []models.Status{models.StatusDraft, models.StatusPublished, models.StatusScheduled, models.StatusArchived} {
		status := s
		in := articleInput{Title: strPtr("T"), Content: strPtr("C"), Status: &status}
		if msg := validateArticle(&in, true); msg != "" {
			t.Errorf("status %q: unexpected error %q", s, msg)
		}
	}

	bad := models.Status("limbo")
	in := articleInput{Title: strPtr("T"), Content: strPtr("C"), Status: &bad}
	if msg := validateArticle(&in, true); msg == "" {
		t.Error("unknown status should be rejected")
	}
}
