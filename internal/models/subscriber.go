// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Preferences are the newsletter delivery options. Subscribing opts into all
// three; changing them later goes through the update path.
type Preferences struct {
	WeeklyDigest     bool `json:"weekly_digest"`
	ArticleUpdates   bool `json:"article_updates"`
	ExclusiveContent bool `json:"exclusive_content"`
}

// Subscriber is the record stored under "newsletter:<email>". Unsubscribing
// flips IsActive instead of deleting, so the history of an address survives.
type Subscriber struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	SubscribedAt time.Time   `json:"subscribed_at"`
	IsActive     bool        `json:"is_active"`
	Preferences  Preferences `json:"preferences"`
}

// SubscriberKey returns the storage key for a subscriber email.
func SubscriberKey(email string) string {
	return "newsletter:" + email
}

// SubscriberPrefix is the key namespace shared by all subscriber records.
const SubscriberPrefix = "newsletter:"
