package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"linkvault/internal/config"
	"linkvault/internal/db"
	"linkvault/internal/export"
	"linkvault/internal/fetcher"
	"linkvault/internal/importer"
	"linkvault/internal/logger"
	"linkvault/internal/model"
	"linkvault/internal/parser"
	"linkvault/internal/search"
	"linkvault/internal/util"
	"linkvault/internal/version"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	userFlag   string

	cfg      *config.Config
	database *db.DB
	log      logger.Logger
)

func init() {
	cobra.OnInitialize(initApp)
}

func initApp() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if userFlag != "" {
		cfg.User = userFlag
	}

	log = logger.New(cfg.LogLevel, cfg.PrettyLog)

	database, err = db.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(cfg.MigrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "linkvault",
		Short: "A personal bookmark manager",
		Long:  "Store, search, import and export bookmarks from browser bookmark files",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "linkvault.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "Owner of the bookmarks (overrides config)")

	var (
		importFile string
		mapFolders bool
	)

	var importCmd = &cobra.Command{
		Use:   "import",
		Short: "Import bookmarks from a browser bookmark file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(importFile, mapFolders)
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "Path to bookmark HTML file (required)")
	importCmd.Flags().BoolVar(&mapFolders, "map-folders", true, "Map bookmark folders to categories")
	importCmd.MarkFlagRequired("file")

	var (
		exportFormat   string
		exportOut      string
		exportCategory string
	)

	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export bookmarks as Netscape HTML or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(exportFormat, exportOut, exportCategory)
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "html", "Output format: html or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path (default bookmarks.html / bookmarks.json)")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "Restrict to one category by slug")

	var (
		addTitle       string
		addDescription string
		addNotes       string
		addCategory    string
		addTags        string
	)

	var addCmd = &cobra.Command{
		Use:   "add [url]",
		Short: "Add a single bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args[0], addTitle, addDescription, addNotes, addCategory, addTags)
		},
	}
	addCmd.Flags().StringVar(&addTitle, "title", "", "Bookmark title (defaults to the URL)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Bookmark description")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Personal notes")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category name (created if missing)")
	addCmd.Flags().StringVar(&addTags, "tags", "", "Comma-separated tags")

	var (
		listCategory string
		listArchived bool
		listSearch   string
		listJSON     bool
		listLimit    int
	)

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(listCategory, listArchived, listSearch, listJSON, listLimit)
		},
	}
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category slug")
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "Show archived bookmarks instead of active ones")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by substring match")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of bookmarks")

	var (
		searchFTS   bool
		searchJSON  bool
		searchLimit int
	)

	var searchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "Search bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return search.New(database).Run(search.Options{
				UserID:     cfg.User,
				Query:      args[0],
				UseFTS:     searchFTS,
				Limit:      searchLimit,
				JSONOutput: searchJSON,
			})
		},
	}
	searchCmd.Flags().BoolVar(&searchFTS, "fts", false, "Use full-text search")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of results")

	var showJSON bool

	var showCmd = &cobra.Command{
		Use:   "show [id]",
		Short: "Show one bookmark with its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], showJSON)
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	var (
		editTitle       string
		editURL         string
		editDescription string
		editNotes       string
		editCategory    string
		editTags        string
	)

	var editCmd = &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0])
		},
	}
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editURL, "url", "", "New URL")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "New notes")
	editCmd.Flags().StringVar(&editCategory, "category", "", "Category slug, empty string clears it")
	editCmd.Flags().StringVar(&editTags, "tags", "", "Comma-separated tags, empty string clears them")

	var archiveCmd = &cobra.Command{
		Use:   "archive [id]",
		Short: "Archive a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runArchive(args[0], true) },
	}

	var unarchiveCmd = &cobra.Command{
		Use:   "unarchive [id]",
		Short: "Unarchive a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runArchive(args[0], false) },
	}

	var rmCmd = &cobra.Command{
		Use:   "rm [id]",
		Short: "Move a bookmark to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := database.SoftDeleteBookmark(cfg.User, id); err != nil {
				return err
			}
			fmt.Printf("Bookmark %d moved to trash.\n", id)
			return nil
		},
	}

	var restoreCmd = &cobra.Command{
		Use:   "restore [id]",
		Short: "Restore a bookmark from the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := database.RestoreBookmark(cfg.User, id); err != nil {
				return err
			}
			fmt.Printf("Bookmark %d restored.\n", id)
			return nil
		},
	}

	var fetchLimit int

	var fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Backfill titles and descriptions from the live pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := fetcher.New(database, log, cfg.FetchTimeout.Std())
			return f.FillMetadata(cfg.User, fetchLimit)
		},
	}
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 10, "Maximum number of pages to fetch")

	var categoriesCmd = &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE:  func(cmd *cobra.Command, args []string) error { return runCategories() },
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetFullVersion())
		},
	}

	rootCmd.AddCommand(importCmd, exportCmd, addCmd, listCmd, showCmd, editCmd,
		searchCmd, archiveCmd, unarchiveCmd, rmCmd, restoreCmd, fetchCmd,
		categoriesCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(path string, mapFolders bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}
	if info.Size() > cfg.MaxFileSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), cfg.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}

	records := parser.Parse(data)

	result, err := importer.New(database, log, cfg.MaxBookmarks).Import(cfg.User, records, mapFolders)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d bookmarks. Skipped %d duplicates. %d failed.\n",
		result.Imported, result.Skipped, len(result.Errors))
	for _, msg := range result.Errors {
		fmt.Println("  " + msg)
	}

	return nil
}

func runExport(format, out, categorySlug string) error {
	exp := export.New(database, cfg.ExportBatchSize)

	switch format {
	case "html":
		if out == "" {
			out = export.HTMLFilename
		}
	case "json":
		if out == "" {
			out = export.JSONFilename
		}
	default:
		return fmt.Errorf("unknown format %q: expected html or json", format)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	if format == "html" {
		err = exp.ExportHTML(file, cfg.User, categorySlug)
	} else {
		err = exp.ExportJSON(file, cfg.User, categorySlug)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported bookmarks to %s\n", out)
	return nil
}

func runAdd(url, title, description, notes, category, tags string) error {
	b := model.Bookmark{
		UserID: cfg.User,
		URL:    url,
		Title:  title,
	}
	if b.Title == "" {
		b.Title = url
	}
	if description != "" {
		b.Description = &description
	}
	if notes != "" {
		b.Notes = &notes
	}

	if category != "" {
		id, err := db.FindCategoryIDByName(database.DB, cfg.User, category)
		if errors.Is(err, sql.ErrNoRows) {
			id, err = db.CreateCategory(database.DB, cfg.User, category)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve category: %w", err)
		}
		b.CategoryID = &id
	}

	if err := database.CreateBookmark(&b); err != nil {
		return err
	}

	if tags != "" {
		if err := database.SetBookmarkTags(cfg.User, b.ID, splitTags(tags)); err != nil {
			return err
		}
	}

	fmt.Printf("Added bookmark %d: %s\n", b.ID, b.URL)
	return nil
}

func runShow(rawID string, jsonOut bool) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	b, err := database.GetBookmark(cfg.User, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("bookmark %d not found", id)
		}
		return err
	}

	tags, err := database.TagsForBookmark(b.ID)
	if err != nil {
		return err
	}

	if jsonOut {
		out := struct {
			model.BookmarkWithCategory
			Tags []string `json:"tags"`
		}{*b, tags}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("ID:       %d\n", b.ID)
	fmt.Printf("Title:    %s\n", b.Title)
	fmt.Printf("URL:      %s\n", b.URL)
	if b.CategoryName != nil {
		fmt.Printf("Category: %s\n", *b.CategoryName)
	}
	if len(tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(tags, ", "))
	}
	if b.Description != nil {
		fmt.Printf("About:    %s\n", util.FirstLine(*b.Description))
	}
	if b.Notes != nil {
		fmt.Printf("Notes:    %s\n", *b.Notes)
	}
	fmt.Printf("Created:  %s\n", b.CreatedAt)
	if b.IsArchived {
		fmt.Println("Archived: yes")
	}

	return nil
}

func runEdit(cmd *cobra.Command, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	b, err := database.GetBookmark(cfg.User, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("bookmark %d not found", id)
		}
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("title") {
		b.Title, _ = flags.GetString("title")
	}
	if flags.Changed("url") {
		b.URL, _ = flags.GetString("url")
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		if v == "" {
			b.Description = nil
		} else {
			b.Description = &v
		}
	}
	if flags.Changed("notes") {
		v, _ := flags.GetString("notes")
		if v == "" {
			b.Notes = nil
		} else {
			b.Notes = &v
		}
	}
	if flags.Changed("category") {
		slug, _ := flags.GetString("category")
		if slug == "" {
			b.CategoryID = nil
		} else {
			categoryID, err := database.CategoryIDBySlug(cfg.User, slug)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("category %q not found", slug)
				}
				return err
			}
			b.CategoryID = &categoryID
		}
	}

	if err := database.UpdateBookmark(&b.Bookmark); err != nil {
		return err
	}

	if flags.Changed("tags") {
		v, _ := flags.GetString("tags")
		if err := database.SetBookmarkTags(cfg.User, b.ID, splitTags(v)); err != nil {
			return err
		}
	}

	fmt.Printf("Bookmark %d updated.\n", b.ID)
	return nil
}

func splitTags(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func runList(categorySlug string, archived bool, searchTerm string, jsonOut bool, limit int) error {
	bookmarks, err := database.ListBookmarks(db.ListOptions{
		UserID:       cfg.User,
		CategorySlug: categorySlug,
		Archived:     &archived,
		Search:       searchTerm,
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bookmarks)
	}

	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tURL\tCATEGORY\tCREATED")
	for _, b := range bookmarks {
		category := ""
		if b.CategoryName != nil {
			category = *b.CategoryName
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.URL, category, b.CreatedAt)
	}

	return w.Flush()
}

func runArchive(rawID string, archived bool) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	if err := database.ArchiveBookmark(cfg.User, id, archived); err != nil {
		return err
	}

	if archived {
		fmt.Printf("Bookmark %d archived.\n", id)
	} else {
		fmt.Printf("Bookmark %d unarchived.\n", id)
	}
	return nil
}

func runCategories() error {
	categories, err := database.ListCategories(cfg.User)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}

	return w.Flush()
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bookmark id %q", raw)
	}
	return id, nil
}
