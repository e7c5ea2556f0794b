// Package snippet defines the core domain type for stored text snippets.
package snippet

import (
	"errors"
	"strings"
)

// NotFoundMessage is printed by the CLI when a keyword has no snippet.
// A miss is a normal result, not an error.
const NotFoundMessage = "404: Snippet Not Found"

// Snippet is a named piece of text.
type Snippet struct {
	Keyword string `json:"keyword"` // Unique, immutable once stored
	Message string `json:"message"`
	Hidden  bool   `json:"hidden"` // Excluded from catalog and search
}

// Validation errors.
var (
	ErrEmptyKeyword = errors.New("keyword is required")
)

// ValidateKeyword checks that a keyword can be used as a primary key.
// Whitespace-only keywords are rejected along with empty ones.
func ValidateKeyword(keyword string) error {
	if strings.TrimSpace(keyword) == "" {
		return ErrEmptyKeyword
	}
	return nil
}
