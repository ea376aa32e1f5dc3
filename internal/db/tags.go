package db

import (
	"database/sql"
	"fmt"

	"linkvault/internal/util"
)

func (db *DB) UpsertTag(userID, name string) (int64, error) {
	var tagID int64

	err := db.Get(&tagID, "SELECT id FROM tags WHERE user_id = ? AND name = ?", userID, name)
	if err == sql.ErrNoRows {
		now := util.NowISO8601()
		result, err := db.Exec(`
			INSERT INTO tags (user_id, name, slug, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, userID, name, util.Slugify(name), now, now)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	} else if err != nil {
		return 0, err
	}

	return tagID, nil
}

// SetBookmarkTags replaces a bookmark's tag set.
func (db *DB) SetBookmarkTags(userID string, bookmarkID int64, names []string) error {
	if _, err := db.Exec("DELETE FROM bookmark_tags WHERE bookmark_id = ?", bookmarkID); err != nil {
		return fmt.Errorf("failed to clear existing tags: %w", err)
	}

	for _, name := range names {
		tagID, err := db.UpsertTag(userID, name)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}

		_, err = db.Exec("INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id) VALUES (?, ?)", bookmarkID, tagID)
		if err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}

	return nil
}

func (db *DB) TagsForBookmark(bookmarkID int64) ([]string, error) {
	var tags []string
	err := db.Select(&tags, `
		SELECT t.name
		FROM tags t
		JOIN bookmark_tags bt ON t.id = bt.tag_id
		WHERE bt.bookmark_id = ?
		ORDER BY t.name
	`, bookmarkID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}
