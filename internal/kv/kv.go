// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kv is the data-access layer over the single kv_store table
// (key text primary key, value jsonb). Logical entities share the table
// through key prefixes ("article:", "newsletter:"); this layer knows
// nothing about record shapes and moves raw JSON documents only.
package kv

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrArgumentMismatch is returned by MSet when the key and value slices
// have different lengths. Checked before any database call.
var ErrArgumentMismatch = errors.New("kv: keys and values length mismatch")

// Store handles all kv_store table operations.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store with the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get retrieves the value stored under key. Returns (nil, nil) when the key
// is absent — absence is not an error at this layer.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key, replacing any existing document entirely.
// Partial merges happen in the handlers, not here.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op, not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// MGet retrieves the values for keys. Results come back in input-key order;
// absent keys are skipped, so the result may be shorter than keys.
func (s *Store) MGet(keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`SELECT key, value FROM kv_store WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("kv mget: %w", err)
	}
	defer rows.Close()

	byKey := make(map[string][]byte, len(keys))
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("kv mget scan: %w", err)
		}
		byKey[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv mget rows: %w", err)
	}

	values := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if v, ok := byKey[k]; ok {
			values = append(values, v)
		}
	}
	return values, nil
}

// MSet upserts keys[i] -> values[i] pairs in a single transaction.
func (s *Store) MSet(keys []string, values [][]byte) error {
	if len(keys) != len(values) {
		return ErrArgumentMismatch
	}
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("kv mset begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
	if err != nil {
		return fmt.Errorf("kv mset prepare: %w", err)
	}
	defer stmt.Close()

	for i, k := range keys {
		if _, err := stmt.Exec(k, values[i]); err != nil {
			return fmt.Errorf("kv mset %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("kv mset commit: %w", err)
	}
	return nil
}

// MDelete removes all of the given keys. Absent keys are ignored.
func (s *Store) MDelete(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM kv_store WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("kv mdelete: %w", err)
	}
	return nil
}

// GetByPrefix returns every value whose key starts with prefix. Order with
// respect to keys is not guaranteed.
func (s *Store) GetByPrefix(prefix string) ([][]byte, error) {
	rows, err := s.db.Query(`SELECT value FROM kv_store WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("kv prefix scan %q: %w", prefix, err)
	}
	defer rows.Close()

	var values [][]byte
	for rows.Next() {
		var v []byte
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("kv prefix scan: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv prefix rows: %w", err)
	}
	return values, nil
}

// IncrementField bumps a numeric top-level field of the JSON document under
// key by delta, in a single UPDATE so concurrent increments never lose
// writes. A missing field counts as zero. Returns the updated document, or
// (nil, nil) when the key is absent.
func (s *Store) IncrementField(key, field string, delta int) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`
		UPDATE kv_store
		SET value = jsonb_set(value, ARRAY[$2],
			to_jsonb(COALESCE((value ->> $2)::bigint, 0) + $3))
		WHERE key = $1
		RETURNING value
	`, key, field, delta).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv increment %q.%s: %w", key, field, err)
	}
	return value, nil
}
