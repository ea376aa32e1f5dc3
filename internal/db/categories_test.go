package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return database
}

func TestCreateCategoryTruncatesNameNotSlug(t *testing.T) {
	database := openTestDB(t)

	longName := strings.Repeat("very ", 25) + "long folder"
	if _, err := CreateCategory(database.DB, "alice", longName); err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}

	categories, err := database.ListCategories("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(categories))
	}

	if got := len([]rune(categories[0].Name)); got != 100 {
		t.Errorf("name length = %d, want 100", got)
	}

	// The slug carries the full name, not the truncated one.
	if !strings.HasSuffix(categories[0].Slug, "long-folder") {
		t.Errorf("slug = %q, want it derived from the full name", categories[0].Slug)
	}
}
