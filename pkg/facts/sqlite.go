// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package facts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite persists facts to a SQLite database.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the database at path and creates the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS facts (
			seq     INTEGER PRIMARY KEY AUTOINCREMENT,
			id      TEXT NOT NULL UNIQUE,
			kind    TEXT NOT NULL,
			subject TEXT NOT NULL,
			at      INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_facts_kind ON facts(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_facts_subject ON facts(subject)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:30], err)
		}
	}
	return nil
}

func (s *SQLite) Record(ctx context.Context, fact Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO facts (id, kind, subject, at, payload) VALUES (?,?,?,?,?)`,
		fact.ID.String(), string(fact.Kind), fact.Subject, fact.At.UnixNano(), string(fact.Payload),
	)
	return err
}

func (s *SQLite) List(ctx context.Context, filter Filter) ([]Fact, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, filter.Subject)
	}
	query := "SELECT id, kind, subject, at, payload FROM facts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fact
	for rows.Next() {
		var (
			id, kind, subject, payload string
			at                         int64
		)
		if err := rows.Scan(&id, &kind, &subject, &at, &payload); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", id, err)
		}
		out = append(out, Fact{
			ID:      parsed,
			Kind:    Kind(kind),
			Subject: subject,
			At:      time.Unix(0, at).UTC(),
			Payload: []byte(payload),
		})
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
