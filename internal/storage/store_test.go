package storage

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/matsen/snippets/internal/snippet"
)

// runStoreTests exercises the repository contract against any backend.
// open must return an empty store; it is called once per subtest.
func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	t.Run("PutThenGet", func(t *testing.T) { testPutThenGet(t, open(t)) })
	t.Run("PutUpdatesExisting", func(t *testing.T) { testPutUpdatesExisting(t, open(t)) })
	t.Run("PutEmptyKeyword", func(t *testing.T) { testPutEmptyKeyword(t, open(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, open(t)) })
	t.Run("HiddenExcludedFromCatalog", func(t *testing.T) { testHiddenExcludedFromCatalog(t, open(t)) })
	t.Run("HiddenFlagIsSticky", func(t *testing.T) { testHiddenFlagIsSticky(t, open(t)) })
	t.Run("CatalogOrder", func(t *testing.T) { testCatalogOrder(t, open(t)) })
	t.Run("CatalogEmpty", func(t *testing.T) { testCatalogEmpty(t, open(t)) })
	t.Run("Search", func(t *testing.T) { testSearch(t, open(t)) })
	t.Run("SearchLiteral", func(t *testing.T) { testSearchLiteral(t, open(t)) })
	t.Run("InjectionStyleKeywords", func(t *testing.T) { testInjectionStyleKeywords(t, open(t)) })
	t.Run("Scenario", func(t *testing.T) { testScenario(t, open(t)) })
}

func mustPut(t *testing.T, s Store, keyword, message string, hidden bool) {
	t.Helper()
	if _, err := s.Put(context.Background(), keyword, message, hidden); err != nil {
		t.Fatalf("Put(%q) error = %v", keyword, err)
	}
}

func mustGetMessage(t *testing.T, s Store, keyword string) string {
	t.Helper()
	sn, err := s.Get(context.Background(), keyword)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", keyword, err)
	}
	if sn == nil {
		t.Fatalf("Get(%q) returned nil, want snippet", keyword)
	}
	return sn.Message
}

func mustCatalog(t *testing.T, s Store) []string {
	t.Helper()
	keywords, err := s.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	return keywords
}

func mustSearch(t *testing.T, s Store, substring string) []snippet.Snippet {
	t.Helper()
	results, err := s.Search(context.Background(), substring)
	if err != nil {
		t.Fatalf("Search(%q) error = %v", substring, err)
	}
	return results
}

func searchKeywords(results []snippet.Snippet) []string {
	keywords := make([]string, len(results))
	for i, r := range results {
		keywords[i] = r.Keyword
	}
	sort.Strings(keywords)
	return keywords
}

func testPutThenGet(t *testing.T, s Store) {
	ctx := context.Background()

	stored, err := s.Put(ctx, "shell", "rm -rf /", false)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	want := snippet.Snippet{Keyword: "shell", Message: "rm -rf /"}
	if stored != want {
		t.Errorf("Put() = %+v, want %+v", stored, want)
	}

	sn, err := s.Get(ctx, "shell")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sn == nil || *sn != want {
		t.Errorf("Get() = %+v, want %+v", sn, want)
	}
}

func testPutUpdatesExisting(t *testing.T, s Store) {
	ctx := context.Background()
	mustPut(t, s, "greet", "hello", false)

	stored, err := s.Put(ctx, "greet", "goodbye", false)
	if err != nil {
		t.Fatalf("second Put() error = %v", err)
	}
	if stored.Keyword != "greet" || stored.Message != "goodbye" {
		t.Errorf("second Put() = %+v, want greet/goodbye", stored)
	}

	if got := mustGetMessage(t, s, "greet"); got != "goodbye" {
		t.Errorf("Get() = %q, want goodbye", got)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (no duplicate row)", count)
	}
}

func testPutEmptyKeyword(t *testing.T, s Store) {
	_, err := s.Put(context.Background(), "", "orphan", false)
	if !errors.Is(err, snippet.ErrEmptyKeyword) {
		t.Errorf("Put(\"\") error = %v, want %v", err, snippet.ErrEmptyKeyword)
	}

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}

func testGetMissing(t *testing.T, s Store) {
	sn, err := s.Get(context.Background(), "never-stored")
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if sn != nil {
		t.Errorf("Get() = %+v, want nil", sn)
	}
}

func testHiddenExcludedFromCatalog(t *testing.T, s Store) {
	mustPut(t, s, "visible", "shown", false)
	mustPut(t, s, "secret", "hunter2", true)

	if got, want := mustCatalog(t, s), []string{"visible"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Catalog() = %v, want %v", got, want)
	}

	sn, err := s.Get(context.Background(), "secret")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sn == nil || sn.Message != "hunter2" || !sn.Hidden {
		t.Errorf("Get(secret) = %+v, want hidden hunter2", sn)
	}
}

func testHiddenFlagIsSticky(t *testing.T, s Store) {
	ctx := context.Background()
	mustPut(t, s, "note", "first", false)

	stored, err := s.Put(ctx, "note", "second", true)
	if err != nil {
		t.Fatalf("Put(hidden) error = %v", err)
	}
	if !stored.Hidden {
		t.Error("Put(hidden) on existing keyword did not set hidden")
	}

	// A later Put without hidden keeps the flag
	stored, err = s.Put(ctx, "note", "third", false)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !stored.Hidden {
		t.Error("Put() without hidden cleared the hidden flag")
	}
	if got := mustCatalog(t, s); len(got) != 0 {
		t.Errorf("Catalog() = %v, want empty", got)
	}
	if got := mustGetMessage(t, s, "note"); got != "third" {
		t.Errorf("Get() = %q, want third", got)
	}
}

func testCatalogOrder(t *testing.T, s Store) {
	for _, k := range []string{"zsh", "Zebra", "awk", "apple", "_tmp", "a", "ab", "B"} {
		mustPut(t, s, k, "body of "+k, false)
	}

	want := []string{"B", "Zebra", "_tmp", "a", "ab", "apple", "awk", "zsh"}
	if got := mustCatalog(t, s); !reflect.DeepEqual(got, want) {
		t.Errorf("Catalog() = %v, want %v", got, want)
	}
}

func testCatalogEmpty(t *testing.T, s Store) {
	got := mustCatalog(t, s)
	if got == nil || len(got) != 0 {
		t.Errorf("Catalog() = %#v, want empty non-nil slice", got)
	}
}

func testSearch(t *testing.T, s Store) {
	mustPut(t, s, "hello", "echo hi", false)
	mustPut(t, s, "loud", "ECHO HI", false)
	mustPut(t, s, "twice", "echo echo", false)
	mustPut(t, s, "ls", "ls -la", false)
	mustPut(t, s, "hidden-echo", "echo secret", true)

	tests := []struct {
		query string
		want  []string
	}{
		{"echo", []string{"hello", "twice"}},
		{"ECHO", []string{"loud"}}, // case-sensitive
		{"o e", []string{"twice"}}, // unanchored, spans words
		{"-la", []string{"ls"}},
		{"secret", []string{}}, // hidden excluded
		{"nothing matches", []string{}},
		{"", []string{"hello", "loud", "ls", "twice"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := mustSearch(t, s, tt.query)
			if results == nil {
				t.Fatal("Search() returned nil slice")
			}
			if got := searchKeywords(results); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for _, r := range results {
				if r.Hidden {
					t.Errorf("Search(%q) returned hidden snippet %q", tt.query, r.Keyword)
				}
			}
		})
	}
}

func testSearchLiteral(t *testing.T, s Store) {
	mustPut(t, s, "pct", "100% done", false)
	mustPut(t, s, "under", "snake_case", false)
	mustPut(t, s, "quote", "it's here", false)
	mustPut(t, s, "plain", "nothing special", false)

	tests := []struct {
		query string
		want  []string
	}{
		{"%", []string{"pct"}},
		{"_", []string{"under"}},
		{"'", []string{"quote"}},
		{"' OR '1'='1", []string{}},
		{"%' OR hidden OR message LIKE '%", []string{}},
		{"e_c", []string{"under"}},
		{"s%c", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := searchKeywords(mustSearch(t, s, tt.query)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func testInjectionStyleKeywords(t *testing.T, s Store) {
	keywords := []string{
		"'; DROP TABLE snippets; --",
		"100%",
		"a_b",
		`back\slash`,
		"unicode ✂",
	}
	for _, k := range keywords {
		mustPut(t, s, k, "body "+k, false)
	}

	for _, k := range keywords {
		if got := mustGetMessage(t, s, k); got != "body "+k {
			t.Errorf("Get(%q) = %q, want %q", k, got, "body "+k)
		}
	}

	// LIKE-style patterns are not expanded on lookup
	sn, err := s.Get(context.Background(), "a%")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sn != nil {
		t.Errorf("Get(\"a%%\") = %+v, want nil", sn)
	}

	if got := mustCatalog(t, s); len(got) != len(keywords) {
		t.Errorf("Catalog() has %d keywords, want %d", len(got), len(keywords))
	}
}

func testScenario(t *testing.T, s Store) {
	mustPut(t, s, "shell", "rm -rf /", false)
	mustPut(t, s, "hello", "echo hi", false)

	if got := mustGetMessage(t, s, "shell"); got != "rm -rf /" {
		t.Errorf("get(shell) = %q, want %q", got, "rm -rf /")
	}
	if got, want := mustCatalog(t, s), []string{"hello", "shell"}; !reflect.DeepEqual(got, want) {
		t.Errorf("catalog() = %v, want %v", got, want)
	}
	want := []snippet.Snippet{{Keyword: "hello", Message: "echo hi"}}
	if got := mustSearch(t, s, "echo"); !reflect.DeepEqual(got, want) {
		t.Errorf("search(echo) = %+v, want %+v", got, want)
	}
}
