package model

type Bookmark struct {
	ID          int64   `db:"id" json:"id"`
	UserID      string  `db:"user_id" json:"user_id"`
	CategoryID  *int64  `db:"category_id" json:"category_id,omitempty"`
	URL         string  `db:"url" json:"url"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description,omitempty"`
	Notes       *string `db:"notes" json:"notes,omitempty"`
	IsArchived  bool    `db:"is_archived" json:"is_archived"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
	DeletedAt   *string `db:"deleted_at" json:"deleted_at,omitempty"`
}

type Category struct {
	ID          int64   `db:"id" json:"id"`
	UserID      string  `db:"user_id" json:"user_id"`
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description *string `db:"description" json:"description,omitempty"`
	Icon        *string `db:"icon" json:"icon,omitempty"`
	Color       *string `db:"color" json:"color,omitempty"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

type Tag struct {
	ID        int64  `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// BookmarkRecord is a single candidate bookmark lifted out of an
// uploaded bookmark file. It only exists between parsing and import.
type BookmarkRecord struct {
	URL         string
	Title       string
	Description *string
	Folder      *string
	AddDate     *int64
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// BookmarkWithCategory carries the joined category columns used by the
// export and list queries.
type BookmarkWithCategory struct {
	Bookmark
	CategoryName *string `db:"category_name" json:"category,omitempty"`
	CategorySlug *string `db:"category_slug" json:"category_slug,omitempty"`
}

type SearchResult struct {
	ID           int64   `db:"id" json:"id"`
	URL          string  `db:"url" json:"url"`
	Title        string  `db:"title" json:"title"`
	Description  *string `db:"description" json:"description,omitempty"`
	CategoryName *string `db:"category_name" json:"category,omitempty"`
	IsArchived   bool    `db:"is_archived" json:"is_archived"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}
