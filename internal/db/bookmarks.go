package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"linkvault/internal/model"
	"linkvault/internal/urlnorm"
	"linkvault/internal/util"
)

// InsertBookmark persists a bookmark through any execer, so the import
// transaction and the direct create path share the same code. The URL
// is normalized here, at creation time; there is deliberately no
// unique constraint on (user_id, url), so creates outside an import
// can produce duplicates.
func InsertBookmark(e sqlx.Ext, b *model.Bookmark) (int64, error) {
	b.URL = urlnorm.Normalize(b.URL)

	now := util.NowISO8601()
	if b.CreatedAt == "" {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	result, err := e.Exec(`
		INSERT INTO bookmarks (user_id, category_id, url, title, description, notes, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.UserID, b.CategoryID, b.URL, b.Title, b.Description, b.Notes, b.IsArchived, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get bookmark ID: %w", err)
	}
	b.ID = id

	if err := upsertBookmarkFTS(e, id); err != nil {
		return 0, fmt.Errorf("failed to index bookmark: %w", err)
	}

	return id, nil
}

func (db *DB) CreateBookmark(b *model.Bookmark) error {
	_, err := InsertBookmark(db.DB, b)
	return err
}

func (db *DB) UpdateBookmark(b *model.Bookmark) error {
	b.URL = urlnorm.Normalize(b.URL)
	b.UpdatedAt = util.NowISO8601()

	result, err := db.Exec(`
		UPDATE bookmarks
		SET category_id = ?, url = ?, title = ?, description = ?, notes = ?, is_archived = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`, b.CategoryID, b.URL, b.Title, b.Description, b.Notes, b.IsArchived, b.UpdatedAt, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark not found")
	}

	return upsertBookmarkFTS(db.DB, b.ID)
}

func (db *DB) GetBookmark(userID string, id int64) (*model.BookmarkWithCategory, error) {
	var b model.BookmarkWithCategory
	err := db.Get(&b, `
		SELECT b.*, c.name AS category_name, c.slug AS category_slug
		FROM bookmarks b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.id = ? AND b.user_id = ? AND b.deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type ListOptions struct {
	UserID       string
	CategorySlug string
	Archived     *bool
	Search       string
	Limit        int
}

func (db *DB) ListBookmarks(opts ListOptions) ([]model.BookmarkWithCategory, error) {
	query := `
		SELECT b.*, c.name AS category_name, c.slug AS category_slug
		FROM bookmarks b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = ? AND b.deleted_at IS NULL
	`
	args := []interface{}{opts.UserID}

	if opts.CategorySlug != "" {
		query += " AND c.slug = ?"
		args = append(args, opts.CategorySlug)
	}

	if opts.Archived != nil {
		query += " AND b.is_archived = ?"
		args = append(args, *opts.Archived)
	}

	if opts.Search != "" {
		query += " AND (b.title LIKE ? OR b.url LIKE ? OR b.description LIKE ?)"
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query += " ORDER BY b.created_at DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var bookmarks []model.BookmarkWithCategory
	if err := db.Select(&bookmarks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	return bookmarks, nil
}

func (db *DB) ArchiveBookmark(userID string, id int64, archived bool) error {
	return db.touchBookmark(userID, id,
		"UPDATE bookmarks SET is_archived = ?, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL",
		archived, util.NowISO8601(), id, userID)
}

// SoftDeleteBookmark trashes a bookmark. The row stays for restore but
// leaves the search index and the import dedup set.
func (db *DB) SoftDeleteBookmark(userID string, id int64) error {
	now := util.NowISO8601()
	if err := db.touchBookmark(userID, id,
		"UPDATE bookmarks SET deleted_at = ?, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL",
		now, now, id, userID); err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM bookmarks_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("failed to remove bookmark from index: %w", err)
	}

	return nil
}

func (db *DB) RestoreBookmark(userID string, id int64) error {
	if err := db.touchBookmark(userID, id,
		"UPDATE bookmarks SET deleted_at = NULL, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NOT NULL",
		util.NowISO8601(), id, userID); err != nil {
		return err
	}

	return upsertBookmarkFTS(db.DB, id)
}

func (db *DB) touchBookmark(userID string, id int64, query string, args ...interface{}) error {
	result, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark not found")
	}

	return nil
}

// LiveURLs returns stored URLs for an owner's non-deleted bookmarks,
// archived included. The importer normalizes these to seed its dedup
// set.
func (db *DB) LiveURLs(userID string) ([]string, error) {
	var urls []string
	err := db.Select(&urls, "SELECT url FROM bookmarks WHERE user_id = ? AND deleted_at IS NULL", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing URLs: %w", err)
	}
	return urls, nil
}

// upsertBookmarkFTS refreshes the FTS entry for a bookmark.
func upsertBookmarkFTS(e sqlx.Ext, bookmarkID int64) error {
	var row struct {
		URL         string  `db:"url"`
		Title       string  `db:"title"`
		Description *string `db:"description"`
		Notes       *string `db:"notes"`
	}

	if err := sqlx.Get(e, &row, "SELECT url, title, description, notes FROM bookmarks WHERE id = ?", bookmarkID); err != nil {
		return err
	}

	description := ""
	if row.Description != nil {
		description = *row.Description
	}
	notes := ""
	if row.Notes != nil {
		notes = *row.Notes
	}

	_, err := e.Exec(`
		INSERT OR REPLACE INTO bookmarks_fts (rowid, url, title, description, notes)
		VALUES (?, ?, ?, ?, ?)
	`, bookmarkID, row.URL, row.Title, description, notes)

	return err
}
