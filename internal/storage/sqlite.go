package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/matsen/snippets/internal/logging"
	"github.com/matsen/snippets/internal/snippet"
	_ "modernc.org/sqlite"
)

// SQLiteStore stores snippets in a SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens or creates a SQLite database at the given path.
// The parent directory is created if needed. Use ":memory:" for a
// throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	log := logging.WithComponent("storage").With(slog.String("backend", "sqlite"))
	log.Debug("Connecting to SQLite", slog.String("path", path))

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection for the process; also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Debug("Database connection established.")
	return &SQLiteStore{db: db, log: log}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put upserts a snippet in a single transaction.
func (s *SQLiteStore) Put(ctx context.Context, keyword, message string, hidden bool) (snippet.Snippet, error) {
	if err := snippet.ValidateKeyword(keyword); err != nil {
		return snippet.Snippet{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return snippet.Snippet{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var stored snippet.Snippet
	err = tx.QueryRowContext(ctx, `
		INSERT INTO snippets (keyword, message, hidden) VALUES (?, ?, ?)
		ON CONFLICT (keyword) DO UPDATE SET
			message = excluded.message,
			hidden = snippets.hidden OR excluded.hidden
		RETURNING keyword, message, hidden
	`, keyword, message, hidden).Scan(&stored.Keyword, &stored.Message, &stored.Hidden)
	if err != nil {
		return snippet.Snippet{}, fmt.Errorf("storing snippet %q: %w", keyword, err)
	}

	if err := tx.Commit(); err != nil {
		return snippet.Snippet{}, fmt.Errorf("committing snippet %q: %w", keyword, err)
	}

	s.log.Debug("Snippet stored successfully.", slog.String("keyword", keyword), slog.Bool("hidden", stored.Hidden))
	return stored, nil
}

// Get retrieves a snippet by exact keyword.
func (s *SQLiteStore) Get(ctx context.Context, keyword string) (*snippet.Snippet, error) {
	var sn snippet.Snippet
	err := s.db.QueryRowContext(ctx,
		`SELECT keyword, message, hidden FROM snippets WHERE keyword = ?`, keyword,
	).Scan(&sn.Keyword, &sn.Message, &sn.Hidden)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Debug("Snippet not found", slog.String("keyword", keyword))
			return nil, nil
		}
		return nil, fmt.Errorf("getting snippet %q: %w", keyword, err)
	}

	s.log.Debug("Snippet retrieved", slog.String("keyword", keyword))
	return &sn, nil
}

// Catalog lists visible keywords. SQLite's default BINARY collation gives
// byte-wise ordering.
func (s *SQLiteStore) Catalog(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT keyword FROM snippets WHERE NOT hidden ORDER BY keyword`)
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}

	s.log.Debug("Catalog listed", slog.Int("count", len(keywords)))
	return keywords, nil
}

// Search finds visible snippets containing substring. instr() matches
// literally, so LIKE wildcards in the input have no special meaning.
func (s *SQLiteStore) Search(ctx context.Context, substring string) ([]snippet.Snippet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, message, hidden FROM snippets
		WHERE NOT hidden AND instr(message, ?) > 0
		ORDER BY keyword
	`, substring)
	if err != nil {
		return nil, fmt.Errorf("searching snippets: %w", err)
	}
	defer rows.Close()

	results, err := scanSnippets(rows)
	if err != nil {
		return nil, fmt.Errorf("searching snippets: %w", err)
	}

	s.log.Debug("Search completed", slog.String("query", substring), slog.Int("count", len(results)))
	return results, nil
}

// Count returns the total number of snippets.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snippets").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting snippets: %w", err)
	}
	return count, nil
}

func scanSnippets(rows *sql.Rows) ([]snippet.Snippet, error) {
	results := []snippet.Snippet{}
	for rows.Next() {
		var sn snippet.Snippet
		if err := rows.Scan(&sn.Keyword, &sn.Message, &sn.Hidden); err != nil {
			return nil, err
		}
		results = append(results, sn)
	}
	return results, rows.Err()
}
