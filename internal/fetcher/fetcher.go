// Package fetcher backfills bookmark metadata from the live pages:
// titles that fell back to the URL during import and missing
// descriptions get filled from the page content.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"

	"linkvault/internal/db"
	"linkvault/internal/logger"
	"linkvault/internal/model"
	"linkvault/internal/util"
)

const maxDescriptionLen = 2000

type Fetcher struct {
	db      *db.DB
	client  *http.Client
	log     logger.Logger
	timeout time.Duration
}

func New(database *db.DB, log logger.Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{
		db:      database,
		client:  &http.Client{Timeout: timeout},
		log:     log,
		timeout: timeout,
	}
}

// FillMetadata fetches pages for up to limit live bookmarks that lack
// a description or kept their URL as title. Failures are logged and
// skipped; one bad page never stops the run.
func (f *Fetcher) FillMetadata(userID string, limit int) error {
	candidates, err := f.getCandidates(userID, limit)
	if err != nil {
		return fmt.Errorf("failed to get candidate bookmarks: %w", err)
	}

	f.log.Info("filling metadata", logger.String("user", userID), logger.Int("candidates", len(candidates)))

	for i, b := range candidates {
		f.log.Info("fetching page",
			logger.Int("n", i+1),
			logger.Int("of", len(candidates)),
			logger.String("url", b.URL),
		)

		if err := f.fillOne(b); err != nil {
			f.log.Warn("fetch failed", logger.String("url", b.URL), logger.Error(err))
			continue
		}

		time.Sleep(500 * time.Millisecond)
	}

	return nil
}

func (f *Fetcher) getCandidates(userID string, limit int) ([]model.Bookmark, error) {
	query := `
		SELECT id, user_id, category_id, url, title, description, notes, is_archived, created_at, updated_at
		FROM bookmarks
		WHERE user_id = ? AND deleted_at IS NULL
		AND (description IS NULL OR title = url)
		ORDER BY created_at DESC
	`
	args := []interface{}{userID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var bookmarks []model.Bookmark
	if err := f.db.Select(&bookmarks, query, args...); err != nil {
		return nil, err
	}

	return bookmarks, nil
}

func (f *Fetcher) fillOne(b model.Bookmark) error {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", "linkvault/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, resp.Request.URL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	changed := false

	if b.Title == b.URL && article.Title != "" {
		b.Title = util.Truncate(strings.TrimSpace(article.Title), 255)
		changed = true
	}

	if b.Description == nil {
		if desc := deriveDescription(article); desc != "" {
			b.Description = &desc
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return f.db.UpdateBookmark(&b)
}

// deriveDescription prefers the page's excerpt and falls back to the
// extracted content converted to markdown.
func deriveDescription(article readability.Article) string {
	if excerpt := strings.TrimSpace(article.Excerpt); excerpt != "" {
		return util.Truncate(excerpt, maxDescriptionLen)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		return ""
	}

	return util.Truncate(strings.TrimSpace(markdown), maxDescriptionLen)
}
