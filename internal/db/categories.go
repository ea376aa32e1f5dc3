package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"linkvault/internal/model"
	"linkvault/internal/util"
)

const maxCategoryNameLen = 100

// FindCategoryIDByName looks a category up case-insensitively. Returns
// sql.ErrNoRows when the owner has no match.
func FindCategoryIDByName(e sqlx.Ext, userID, name string) (int64, error) {
	var id int64
	err := sqlx.Get(e, &id, "SELECT id FROM categories WHERE user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	return id, err
}

// CreateCategory inserts a category with a derived slug. The slug
// comes from the full name; only the stored name is truncated.
func CreateCategory(e sqlx.Ext, userID, name string) (int64, error) {
	nameSlug := util.Slugify(name)
	name = util.Truncate(name, maxCategoryNameLen)
	now := util.NowISO8601()

	result, err := e.Exec(`
		INSERT INTO categories (user_id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, name, nameSlug, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	return result.LastInsertId()
}

func (db *DB) ListCategories(userID string) ([]model.Category, error) {
	var categories []model.Category
	err := db.Select(&categories, "SELECT * FROM categories WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (db *DB) CategoryIDBySlug(userID, slug string) (int64, error) {
	var id int64
	err := db.Get(&id, "SELECT id FROM categories WHERE user_id = ? AND slug = ?", userID, slug)
	return id, err
}
