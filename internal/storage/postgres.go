package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matsen/snippets/internal/logging"
	"github.com/matsen/snippets/internal/snippet"
)

// SQLSTATE codes we report specially.
const (
	pgInvalidCatalogName = "3D000" // database does not exist
	pgInvalidPassword    = "28P01"
)

// PostgresStore stores snippets in PostgreSQL over a single connection.
type PostgresStore struct {
	conn *pgx.Conn
	log  *slog.Logger
}

// OpenPostgres connects to the database at url and creates the schema if needed.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	log := logging.WithComponent("storage").With(slog.String("backend", "postgres"))
	log.Debug("Connecting to PostgreSQL")

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, describeConnectError(err)
	}

	if _, err := conn.Exec(ctx, schema); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Debug("Database connection established.")
	return &PostgresStore{conn: conn, log: log}, nil
}

// describeConnectError adds a hint for the connection failures users hit most.
func describeConnectError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidCatalogName:
			return fmt.Errorf("connecting to database (create it first, e.g. 'createdb snippets'): %w", err)
		case pgInvalidPassword:
			return fmt.Errorf("connecting to database (check the credentials in database_url): %w", err)
		}
	}
	return fmt.Errorf("connecting to database: %w", err)
}

// Close closes the connection.
func (s *PostgresStore) Close() error {
	return s.conn.Close(context.Background())
}

// Put upserts a snippet in a single transaction.
func (s *PostgresStore) Put(ctx context.Context, keyword, message string, hidden bool) (snippet.Snippet, error) {
	if err := snippet.ValidateKeyword(keyword); err != nil {
		return snippet.Snippet{}, err
	}

	var stored snippet.Snippet
	err := pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO snippets (keyword, message, hidden) VALUES ($1, $2, $3)
			ON CONFLICT (keyword) DO UPDATE SET
				message = EXCLUDED.message,
				hidden = snippets.hidden OR EXCLUDED.hidden
			RETURNING keyword, message, hidden
		`, keyword, message, hidden).Scan(&stored.Keyword, &stored.Message, &stored.Hidden)
	})
	if err != nil {
		return snippet.Snippet{}, fmt.Errorf("storing snippet %q: %w", keyword, err)
	}

	s.log.Debug("Snippet stored successfully.", slog.String("keyword", keyword), slog.Bool("hidden", stored.Hidden))
	return stored, nil
}

// Get retrieves a snippet by exact keyword.
func (s *PostgresStore) Get(ctx context.Context, keyword string) (*snippet.Snippet, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT keyword, message, hidden FROM snippets WHERE keyword = $1`, keyword)
	if err != nil {
		return nil, fmt.Errorf("getting snippet %q: %w", keyword, err)
	}

	sn, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[snippet.Snippet])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Debug("Snippet not found", slog.String("keyword", keyword))
			return nil, nil
		}
		return nil, fmt.Errorf("getting snippet %q: %w", keyword, err)
	}

	s.log.Debug("Snippet retrieved", slog.String("keyword", keyword))
	return &sn, nil
}

// Catalog lists visible keywords. COLLATE "C" makes the order byte-wise,
// matching SQLite, whatever the database locale.
func (s *PostgresStore) Catalog(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT keyword FROM snippets WHERE NOT hidden ORDER BY keyword COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}

	keywords, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	if keywords == nil {
		keywords = []string{}
	}

	s.log.Debug("Catalog listed", slog.Int("count", len(keywords)))
	return keywords, nil
}

// Search finds visible snippets containing substring. strpos() matches
// literally, so LIKE wildcards in the input have no special meaning.
func (s *PostgresStore) Search(ctx context.Context, substring string) ([]snippet.Snippet, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT keyword, message, hidden FROM snippets
		WHERE NOT hidden AND strpos(message, $1) > 0
		ORDER BY keyword COLLATE "C"
	`, substring)
	if err != nil {
		return nil, fmt.Errorf("searching snippets: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[snippet.Snippet])
	if err != nil {
		return nil, fmt.Errorf("searching snippets: %w", err)
	}
	if results == nil {
		results = []snippet.Snippet{}
	}

	s.log.Debug("Search completed", slog.String("query", substring), slog.Int("count", len(results)))
	return results, nil
}

// Count returns the total number of snippets.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.QueryRow(ctx, "SELECT COUNT(*) FROM snippets").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting snippets: %w", err)
	}
	return count, nil
}
