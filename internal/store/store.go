// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline records in a SQLite catalog and exports
// the flat review table.
//
//	docs/ARCHITECTURE § Record Catalog.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litreview/pkg/types"
)

const dbFile = "litreview.db"

// Store manages the record catalog SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at catalogDir/litreview.db,
// creating the schema when missing.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			identifier TEXT,
			title TEXT,
			authors TEXT,
			venue TEXT,
			year TEXT,
			doi TEXT,
			source TEXT,
			abstract TEXT,
			abstract_hit INTEGER,
			document_url TEXT,
			document_status TEXT,
			document_path TEXT,
			primary_keywords TEXT,
			work_type TEXT,
			last_updated TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS keyword_hits (
			record_key TEXT NOT NULL REFERENCES records(key) ON DELETE CASCADE,
			keyword TEXT NOT NULL,
			count INTEGER NOT NULL,
			snippets TEXT,
			PRIMARY KEY (record_key, keyword)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source)`,
		`CREATE INDEX IF NOT EXISTS idx_keyword_hits_keyword ON keyword_hits(keyword)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// recordKey mirrors the deduplication identity so re-running a query
// upserts instead of duplicating rows.
func recordKey(r types.Record) string {
	if r.DOI != "" {
		return "doi:" + r.DOI
	}
	return "ta:" + strings.ToLower(r.Title) + "\x00" + r.FirstAuthor()
}

// SaveRecords upserts a batch of records and their keyword hits inside one
// transaction.
func (s *Store) SaveRecords(records []types.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.Prepare(`INSERT INTO records
		(key, identifier, title, authors, venue, year, doi, source, abstract,
		 abstract_hit, document_url, document_status, document_path,
		 primary_keywords, work_type, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			identifier=excluded.identifier, title=excluded.title,
			authors=excluded.authors, venue=excluded.venue,
			year=excluded.year, doi=excluded.doi, source=excluded.source,
			abstract=excluded.abstract, abstract_hit=excluded.abstract_hit,
			document_url=excluded.document_url,
			document_status=excluded.document_status,
			document_path=excluded.document_path,
			primary_keywords=excluded.primary_keywords,
			work_type=excluded.work_type, last_updated=excluded.last_updated`)
	if err != nil {
		return fmt.Errorf("preparing record upsert: %w", err)
	}
	defer upsert.Close()

	hitUpsert, err := tx.Prepare(`INSERT INTO keyword_hits
		(record_key, keyword, count, snippets) VALUES (?, ?, ?, ?)
		ON CONFLICT(record_key, keyword) DO UPDATE SET
			count=excluded.count, snippets=excluded.snippets`)
	if err != nil {
		return fmt.Errorf("preparing keyword upsert: %w", err)
	}
	defer hitUpsert.Close()

	for _, r := range records {
		key := recordKey(r)

		keywords, err := json.Marshal(r.PrimaryKeywords)
		if err != nil {
			return fmt.Errorf("marshaling keywords for %s: %w", key, err)
		}

		if _, err := upsert.Exec(key, r.Identifier, r.Title, r.AuthorsDisplay,
			r.Venue, r.Year, r.DOI, r.Source, r.Abstract, boolInt(r.AbstractHit),
			r.DocumentURL, string(r.DocumentStatus), r.DocumentPath,
			string(keywords), r.WorkType, r.LastUpdated); err != nil {
			return fmt.Errorf("upserting record %s: %w", key, err)
		}

		for kw, count := range r.KeywordCounts {
			snippets, err := json.Marshal(r.KeywordSnippets[kw])
			if err != nil {
				return fmt.Errorf("marshaling snippets for %s/%s: %w", key, kw, err)
			}
			if _, err := hitUpsert.Exec(key, kw, count, string(snippets)); err != nil {
				return fmt.Errorf("upserting keyword hit %s/%s: %w", key, kw, err)
			}
		}
	}

	return tx.Commit()
}

// ListRecords returns all stored records with their keyword hits, ordered
// by descending year then title.
func (s *Store) ListRecords() ([]types.Record, error) {
	rows, err := s.db.Query(`SELECT key, identifier, title, authors, venue,
		year, doi, source, abstract, abstract_hit, document_url,
		document_status, document_path, primary_keywords, work_type,
		last_updated
		FROM records ORDER BY CAST(year AS INTEGER) DESC, title`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	var keys []string
	for rows.Next() {
		var r types.Record
		var key, status, keywords string
		var hit int
		if err := rows.Scan(&key, &r.Identifier, &r.Title, &r.AuthorsDisplay,
			&r.Venue, &r.Year, &r.DOI, &r.Source, &r.Abstract, &hit,
			&r.DocumentURL, &status, &r.DocumentPath, &keywords,
			&r.WorkType, &r.LastUpdated); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}

		r.AbstractHit = hit != 0
		r.DocumentStatus = types.DocumentStatus(status)
		r.Authors = splitDisplay(r.AuthorsDisplay)
		r.PrimaryKeywords = []string{}
		if keywords != "" {
			if err := json.Unmarshal([]byte(keywords), &r.PrimaryKeywords); err != nil {
				return nil, fmt.Errorf("unmarshaling keywords for %s: %w", key, err)
			}
		}
		r.KeywordPresence = map[string]bool{}
		r.KeywordCounts = map[string]int{}
		r.KeywordSnippets = map[string][]string{}

		records = append(records, r)
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	for i, key := range keys {
		if err := s.loadHits(key, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) loadHits(key string, r *types.Record) error {
	rows, err := s.db.Query(
		`SELECT keyword, count, snippets FROM keyword_hits WHERE record_key = ?`, key)
	if err != nil {
		return fmt.Errorf("querying keyword hits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kw, snippets string
		var count int
		if err := rows.Scan(&kw, &count, &snippets); err != nil {
			return fmt.Errorf("scanning keyword hit: %w", err)
		}
		r.KeywordCounts[kw] = count
		r.KeywordPresence[kw] = count > 0
		if snippets != "" && snippets != "null" {
			var list []string
			if err := json.Unmarshal([]byte(snippets), &list); err != nil {
				return fmt.Errorf("unmarshaling snippets for %s: %w", kw, err)
			}
			if len(list) > 0 {
				r.KeywordSnippets[kw] = list
			}
		}
	}
	return rows.Err()
}

func splitDisplay(display string) []string {
	if display == "" {
		return []string{}
	}
	parts := strings.Split(display, ", ")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
