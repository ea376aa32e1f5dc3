// Package importer reconciles parsed bookmark records against an
// owner's stored collection: duplicates are skipped, folders become
// categories, and everything else is persisted in one transaction.
package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"linkvault/internal/db"
	"linkvault/internal/logger"
	"linkvault/internal/model"
	"linkvault/internal/urlnorm"
	"linkvault/internal/util"
)

type Importer struct {
	db           *db.DB
	log          logger.Logger
	maxBookmarks int
}

func New(database *db.DB, log logger.Logger, maxBookmarks int) *Importer {
	return &Importer{
		db:           database,
		log:          log,
		maxBookmarks: maxBookmarks,
	}
}

// Import persists records for one owner. Per-record failures are
// collected in the result and never abort the run; only storage-level
// failures (opening the transaction, committing) return an error, in
// which case nothing is persisted.
func (i *Importer) Import(userID string, records []model.BookmarkRecord, mapFolders bool) (*model.ImportResult, error) {
	result := &model.ImportResult{Total: len(records)}

	if len(records) > i.maxBookmarks {
		result.Errors = append(result.Errors, fmt.Sprintf("File contains more than %d bookmarks.", i.maxBookmarks))
		return result, nil
	}

	existing, err := i.db.LiveURLs(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[urlnorm.Normalize(u)] = true
	}

	tx, err := i.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Name to id, lowercased. Scoped to this run so concurrent imports
	// for other owners never share it.
	categoryCache := make(map[string]int64)

	for _, rec := range records {
		normalized := urlnorm.Normalize(rec.URL)

		if seen[normalized] {
			result.Skipped++
			continue
		}

		var categoryID *int64
		if mapFolders && rec.Folder != nil {
			id, err := resolveCategory(tx, userID, *rec.Folder, categoryCache)
			if err != nil {
				result.Errors = append(result.Errors, "Failed to import: "+rec.URL)
				continue
			}
			categoryID = &id
		}

		b := model.Bookmark{
			UserID:      userID,
			CategoryID:  categoryID,
			URL:         rec.URL,
			Title:       rec.Title,
			Description: rec.Description,
		}
		if rec.AddDate != nil {
			b.CreatedAt = util.UnixToISO8601(*rec.AddDate)
		}

		if _, err := db.InsertBookmark(tx, &b); err != nil {
			result.Errors = append(result.Errors, "Failed to import: "+rec.URL)
			continue
		}

		seen[normalized] = true
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	i.log.Info("import finished",
		logger.String("user", userID),
		logger.Int("total", result.Total),
		logger.Int("imported", result.Imported),
		logger.Int("skipped", result.Skipped),
		logger.Int("failed", len(result.Errors)),
	)

	return result, nil
}

// resolveCategory finds the owner's category by case-insensitive name,
// creating it when absent. Results are cached for the run so a folder
// appearing many times in one file resolves once.
func resolveCategory(tx *sqlx.Tx, userID, folderName string, cache map[string]int64) (int64, error) {
	key := strings.ToLower(folderName)

	if id, ok := cache[key]; ok {
		return id, nil
	}

	id, err := db.FindCategoryIDByName(tx, userID, folderName)
	if errors.Is(err, sql.ErrNoRows) {
		id, err = db.CreateCategory(tx, userID, folderName)
	}
	if err != nil {
		return 0, err
	}

	cache[key] = id
	return id, nil
}
