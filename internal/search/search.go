package search

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"linkvault/internal/db"
	"linkvault/internal/model"
)

type Search struct {
	db *db.DB
}

type Options struct {
	UserID     string
	Query      string
	UseFTS     bool
	Limit      int
	JSONOutput bool
}

func New(database *db.DB) *Search {
	return &Search{db: database}
}

func (s *Search) Run(opts Options) error {
	if opts.Query == "" {
		return fmt.Errorf("search query is required")
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	var (
		results []model.SearchResult
		err     error
	)

	if opts.UseFTS {
		results, err = s.searchFTS(opts)
	} else {
		results, err = s.searchLike(opts)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.JSONOutput {
		return outputJSON(results)
	}

	return outputTable(results)
}

func (s *Search) searchFTS(opts Options) ([]model.SearchResult, error) {
	query := `
		SELECT b.id, b.url, b.title, b.description,
			c.name AS category_name, b.is_archived, b.created_at
		FROM bookmarks_fts f
		JOIN bookmarks b ON b.id = f.rowid
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE bookmarks_fts MATCH ?
		AND b.user_id = ? AND b.deleted_at IS NULL
		ORDER BY rank
		LIMIT ?
	`

	var results []model.SearchResult
	if err := s.db.Select(&results, query, opts.Query, opts.UserID, opts.Limit); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *Search) searchLike(opts Options) ([]model.SearchResult, error) {
	query := `
		SELECT b.id, b.url, b.title, b.description,
			c.name AS category_name, b.is_archived, b.created_at
		FROM bookmarks b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = ? AND b.deleted_at IS NULL
		AND (b.title LIKE ? OR b.url LIKE ? OR b.description LIKE ? OR b.notes LIKE ?)
		ORDER BY b.created_at DESC
		LIMIT ?
	`

	pattern := "%" + opts.Query + "%"

	var results []model.SearchResult
	if err := s.db.Select(&results, query, opts.UserID, pattern, pattern, pattern, pattern, opts.Limit); err != nil {
		return nil, err
	}

	return results, nil
}

func outputJSON(results []model.SearchResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func outputTable(results []model.SearchResult) error {
	if len(results) == 0 {
		fmt.Println("No bookmarks found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tURL\tCATEGORY\tCREATED")

	for _, r := range results {
		category := ""
		if r.CategoryName != nil {
			category = *r.CategoryName
		}

		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, title, r.URL, category, r.CreatedAt)
	}

	return w.Flush()
}
