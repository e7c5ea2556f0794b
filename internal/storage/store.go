// Package storage persists snippets in a relational database.
//
// Every operation round-trips to the backend; nothing is cached. A Store owns
// exactly one connection for its lifetime.
package storage

import (
	"context"
	"fmt"

	"github.com/matsen/snippets/internal/config"
	"github.com/matsen/snippets/internal/snippet"
)

// Store is the snippet repository.
type Store interface {
	// Put inserts a snippet or, if the keyword exists, replaces its message.
	// hidden=true marks the snippet hidden; hidden=false leaves an existing
	// flag unchanged.
	Put(ctx context.Context, keyword, message string, hidden bool) (snippet.Snippet, error)

	// Get returns the snippet for keyword regardless of its hidden flag,
	// or nil (and no error) if there is none.
	Get(ctx context.Context, keyword string) (*snippet.Snippet, error)

	// Catalog returns the keywords of all visible snippets in ascending order.
	Catalog(ctx context.Context) ([]string, error)

	// Search returns visible snippets whose message contains substring.
	// Matching is literal and case-sensitive.
	Search(ctx context.Context, substring string) ([]snippet.Snippet, error)

	// Count returns the total number of stored snippets, hidden included.
	Count(ctx context.Context) (int, error)

	Close() error
}

// schema is valid for both SQLite and PostgreSQL.
const schema = `
	CREATE TABLE IF NOT EXISTS snippets (
		keyword TEXT PRIMARY KEY,
		message TEXT NOT NULL,
		hidden BOOLEAN NOT NULL DEFAULT false
	)`

// Open opens the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, cfg.DBPath)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, cfg.Backend)
	}
}
