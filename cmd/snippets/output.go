package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/snippets/internal/snippet"
)

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable line.
func outputHuman(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetResponse is the response for the get command.
// On a miss Found is false and Message holds snippet.NotFoundMessage.
type GetResponse struct {
	Keyword string `json:"keyword"`
	Found   bool   `json:"found"`
	Message string `json:"message"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// SearchResult is a single (keyword, message) match.
type SearchResult struct {
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Backend     string `json:"backend"`
	DBPath      string `json:"db_path,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	LogFile     string `json:"log_file"`
	LogLevel    string `json:"log_level"`
	ConfigFile  string `json:"config_file"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// newGetResponse converts a Get result, treating nil as not found.
func newGetResponse(keyword string, sn *snippet.Snippet) GetResponse {
	if sn == nil {
		return GetResponse{Keyword: keyword, Found: false, Message: snippet.NotFoundMessage}
	}
	return GetResponse{Keyword: sn.Keyword, Found: true, Message: sn.Message, Hidden: sn.Hidden}
}

// formatGetHuman formats a Get result for --human output.
func formatGetHuman(sn *snippet.Snippet) string {
	if sn == nil {
		return snippet.NotFoundMessage
	}
	return fmt.Sprintf("Retrieved snippet: %q", sn.Message)
}

// toSearchResults drops the hidden flag, which is always false for matches.
func toSearchResults(snippets []snippet.Snippet) []SearchResult {
	results := make([]SearchResult, 0, len(snippets))
	for _, s := range snippets {
		results = append(results, SearchResult{Keyword: s.Keyword, Message: s.Message})
	}
	return results
}

// formatSearchHuman prints one "keyword: message" line per match.
// Multi-line messages are indented under their keyword.
func formatSearchHuman(results []SearchResult) string {
	var sb strings.Builder
	for _, r := range results {
		msg := strings.ReplaceAll(r.Message, "\n", "\n  ")
		sb.WriteString(fmt.Sprintf("%s: %s\n", r.Keyword, msg))
	}
	return sb.String()
}
