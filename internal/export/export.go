// Package export streams a user's live bookmarks as a Netscape
// bookmark file or a flat JSON array. Rows are fetched in bounded
// batches so large collections never sit in memory whole.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"

	"linkvault/internal/db"
	"linkvault/internal/model"
	"linkvault/internal/util"
)

const (
	HTMLFilename    = "bookmarks.html"
	JSONFilename    = "bookmarks.json"
	HTMLContentType = "text/html"
	JSONContentType = "application/json"
)

type Exporter struct {
	db        *db.DB
	batchSize int
}

func New(database *db.DB, batchSize int) *Exporter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Exporter{db: database, batchSize: batchSize}
}

// errWriter absorbs the first write error so the emit code stays flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(p)
}

// ExportHTML writes a Netscape bookmark document grouped by category.
// Rows arrive ordered by category id then recency, so group changes
// are detected by comparing the current category name to the previous
// one. Uncategorized bookmarks sort first (NULL category id) and stay
// outside any sublist. An unknown category slug produces an empty
// document, not an error.
func (e *Exporter) ExportHTML(w io.Writer, userID, categorySlug string) error {
	ew := &errWriter{w: w}

	ew.printf("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	ew.printf("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	ew.printf("<TITLE>Bookmarks</TITLE>\n")
	ew.printf("<H1>Bookmarks</H1>\n")
	ew.printf("<DL><p>\n")

	var currentCategory *string
	inFolder := false

	err := e.eachBookmark(userID, categorySlug, "b.category_id, b.created_at DESC, b.id", func(b model.BookmarkWithCategory) error {
		if !sameName(b.CategoryName, currentCategory) {
			if inFolder {
				ew.printf("    </DL><p>\n")
				inFolder = false
			}

			if b.CategoryName != nil {
				ew.printf("    <DT><H3>%s</H3>\n", html.EscapeString(*b.CategoryName))
				ew.printf("    <DL><p>\n")
				inFolder = true
			}

			currentCategory = b.CategoryName
		}

		indent := "    "
		if inFolder {
			indent = "        "
		}

		addDate := int64(0)
		if created, err := util.ParseISO8601(b.CreatedAt); err == nil {
			addDate = created.Unix()
		}

		ew.printf("%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			indent, html.EscapeString(b.URL), addDate, html.EscapeString(b.Title))

		if b.Description != nil && *b.Description != "" {
			ew.printf("%s<DD>%s\n", indent, html.EscapeString(*b.Description))
		}

		return ew.err
	})
	if err != nil {
		return err
	}

	if inFolder {
		ew.printf("    </DL><p>\n")
	}
	ew.printf("</DL><p>\n")

	return ew.err
}

// ExportJSON writes a single JSON array, one element per live
// bookmark, newest first. Elements are emitted one at a time with
// manual separators; an empty collection yields [].
func (e *Exporter) ExportJSON(w io.Writer, userID, categorySlug string) error {
	ew := &errWriter{w: w}
	ew.write([]byte("["))

	first := true

	err := e.eachBookmark(userID, categorySlug, "b.created_at DESC, b.id", func(b model.BookmarkWithCategory) error {
		tags, err := e.db.TagsForBookmark(b.ID)
		if err != nil {
			return fmt.Errorf("failed to load tags for bookmark %d: %w", b.ID, err)
		}
		if tags == nil {
			tags = []string{}
		}

		element, err := encodeElement(b, tags)
		if err != nil {
			return err
		}

		if !first {
			ew.write([]byte(","))
		}
		ew.write(element)
		first = false

		return ew.err
	})
	if err != nil {
		return err
	}

	ew.write([]byte("]"))
	return ew.err
}

type jsonBookmark struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Notes       *string  `json:"notes"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	IsArchived  bool     `json:"is_archived"`
	CreatedAt   string   `json:"created_at"`
}

func encodeElement(b model.BookmarkWithCategory, tags []string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(jsonBookmark{
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		Notes:       b.Notes,
		Category:    b.CategoryName,
		Tags:        tags,
		IsArchived:  b.IsArchived,
		CreatedAt:   b.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bookmark %d: %w", b.ID, err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// eachBookmark feeds the owner's live bookmarks to fn in batches.
// Archived and soft-deleted rows never export.
func (e *Exporter) eachBookmark(userID, categorySlug, orderBy string, fn func(model.BookmarkWithCategory) error) error {
	query := `
		SELECT b.*, c.name AS category_name, c.slug AS category_slug
		FROM bookmarks b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = ? AND b.deleted_at IS NULL AND b.is_archived = FALSE
	`
	args := []interface{}{userID}

	if categorySlug != "" {
		query += " AND c.slug = ?"
		args = append(args, categorySlug)
	}

	query += " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"

	for offset := 0; ; offset += e.batchSize {
		var batch []model.BookmarkWithCategory
		batchArgs := append(append([]interface{}{}, args...), e.batchSize, offset)

		if err := e.db.Select(&batch, query, batchArgs...); err != nil {
			return fmt.Errorf("failed to fetch bookmarks: %w", err)
		}

		for _, b := range batch {
			if err := fn(b); err != nil {
				return err
			}
		}

		if len(batch) < e.batchSize {
			return nil
		}
	}
}

func sameName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
