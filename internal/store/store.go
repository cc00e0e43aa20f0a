// Package store is an optional sqlite-backed translation memory. When
// enabled, the pipeline consults it before calling the gateway and records
// successful translations after. It never holds session or job state.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		template TEXT NOT NULL,
		final_text TEXT NOT NULL,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, target_lang, template)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(source_text, target_lang, template);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns a cached translation for the normalised source text, target
// language and template kind.
func (s *Store) Get(ctx context.Context, sourceText, targetLang, template string) (string, bool, error) {
	var finalText string

	err := s.db.QueryRowContext(ctx,
		`SELECT final_text FROM translation_memory WHERE source_text = ? AND target_lang = ? AND template = ?`,
		normalizeText(sourceText), targetLang, template).Scan(&finalText)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	// Usage bookkeeping must never turn a valid hit into a miss.
	_, _ = s.db.ExecContext(ctx,
		`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND target_lang = ? AND template = ?`,
		time.Now(), normalizeText(sourceText), targetLang, template)

	return finalText, true, nil
}

// Save stores a finished translation, replacing any previous entry for the
// same source/language/template triple.
func (s *Store) Save(ctx context.Context, sourceText, targetLang, template, finalText string) error {
	id := fmt.Sprintf("mem_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_memory (id, source_text, target_lang, template, final_text, usage_count, last_used, created_at) VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		id, normalizeText(sourceText), targetLang, template, finalText, time.Now(), time.Now())
	return err
}

// Stats summarises translation memory usage.
type Stats struct {
	TotalEntries int
	TotalUsage   int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(usage_count), 0) FROM translation_memory`).Scan(
		&stats.TotalEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Clear removes all translation memory entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText applies Unicode NFC normalization for consistent cache key
// comparison. Whitespace is significant: sources differing only in leading
// or trailing newlines are distinct entries, since the translated output
// must mirror the exact source structure.
func normalizeText(text string) string {
	return norm.NFC.String(text)
}
