// Package fixtures imports the bundled CSV seed data into the database.
// Rows are inserted in dependency order inside a single transaction, and
// CSV identifiers are remapped onto the identifiers the database assigns.
package fixtures

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Loader reads the seed CSV files from a directory and writes them to the
// database. Files that are absent are skipped, so partial fixture sets work.
type Loader struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger

	userIDs   map[string]string // csv user id -> uuid
	catIDs    map[string]int64  // csv category id -> db id
	genreIDs  map[string]int64
	titleIDs  map[string]int64
	reviewIDs map[string]int64
}

func NewLoader(db *sql.DB, dir string, logger *slog.Logger) *Loader {
	return &Loader{
		db:        db,
		dir:       dir,
		logger:    logger,
		userIDs:   make(map[string]string),
		catIDs:    make(map[string]int64),
		genreIDs:  make(map[string]int64),
		titleIDs:  make(map[string]int64),
		reviewIDs: make(map[string]int64),
	}
}

// Load imports every fixture file in dependency order. Either all files
// land or none do.
func (l *Loader) Load(ctx context.Context) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixtures transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		file string
		fn   func(context.Context, *sql.Tx, []map[string]string) error
	}{
		{"users.csv", l.loadUsers},
		{"category.csv", l.loadCategories},
		{"genre.csv", l.loadGenres},
		{"titles.csv", l.loadTitles},
		{"genre_title.csv", l.loadTitleGenres},
		{"review.csv", l.loadReviews},
		{"comments.csv", l.loadComments},
	}

	for _, step := range steps {
		rows, err := l.readCSV(step.file)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Warn("fixture file missing, skipping", "file", step.file)
				continue
			}
			return err
		}
		if err := step.fn(ctx, tx, rows); err != nil {
			return fmt.Errorf("load %s: %w", step.file, err)
		}
		l.logger.Info("fixture file loaded", "file", step.file, "rows", len(rows))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixtures transaction: %w", err)
	}
	return nil
}

// readCSV returns the file's records keyed by the header row.
func (l *Loader) readCSV(name string) ([]map[string]string, error) {
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *Loader) loadUsers(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users (id, username, email, role, bio, first_name, last_name, confirmed, is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, FALSE, FALSE, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		role := row["role"]
		if role == "" {
			role = "user"
		}
		var id string
		err := stmt.QueryRowContext(ctx,
			uuid.New().String(), row["username"], row["email"], role,
			row["bio"], row["first_name"], row["last_name"],
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("user %q: %w", row["username"], err)
		}
		l.userIDs[row["id"]] = id
	}
	return nil
}

func (l *Loader) loadCategories(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	return l.loadSlugged(ctx, tx, "categories", rows, l.catIDs)
}

func (l *Loader) loadGenres(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	return l.loadSlugged(ctx, tx, "genres", rows, l.genreIDs)
}

// loadSlugged handles the two tables that share a (name, slug) shape.
func (l *Loader) loadSlugged(ctx context.Context, tx *sql.Tx, table string, rows []map[string]string, ids map[string]int64) error {
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		var id int64
		if err := stmt.QueryRowContext(ctx, row["name"], row["slug"]).Scan(&id); err != nil {
			return fmt.Errorf("%s %q: %w", table, row["slug"], err)
		}
		ids[row["id"]] = id
	}
	return nil
}

func (l *Loader) loadTitles(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO titles (name, year, description, category_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		year, err := strconv.Atoi(row["year"])
		if err != nil {
			return fmt.Errorf("title %q: bad year %q", row["name"], row["year"])
		}
		var categoryID sql.NullInt64
		if dbID, ok := l.catIDs[row["category"]]; ok {
			categoryID = sql.NullInt64{Int64: dbID, Valid: true}
		}
		var id int64
		if err := stmt.QueryRowContext(ctx, row["name"], year, row["description"], categoryID).Scan(&id); err != nil {
			return fmt.Errorf("title %q: %w", row["name"], err)
		}
		l.titleIDs[row["id"]] = id
	}
	return nil
}

func (l *Loader) loadTitleGenres(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO title_genres (title_id, genre_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		titleID, ok := l.titleIDs[row["title_id"]]
		if !ok {
			return fmt.Errorf("genre_title row %s: unknown title id %q", row["id"], row["title_id"])
		}
		genreID, ok := l.genreIDs[row["genre_id"]]
		if !ok {
			return fmt.Errorf("genre_title row %s: unknown genre id %q", row["id"], row["genre_id"])
		}
		if _, err := stmt.ExecContext(ctx, titleID, genreID); err != nil {
			return fmt.Errorf("genre_title row %s: %w", row["id"], err)
		}
	}
	return nil
}

func (l *Loader) loadReviews(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (title_id, author_id, text, score, pub_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (title_id, author_id) DO UPDATE SET text = EXCLUDED.text, score = EXCLUDED.score
		RETURNING id`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		titleID, ok := l.titleIDs[row["title_id"]]
		if !ok {
			return fmt.Errorf("review %s: unknown title id %q", row["id"], row["title_id"])
		}
		authorID, ok := l.userIDs[row["author"]]
		if !ok {
			return fmt.Errorf("review %s: unknown author id %q", row["id"], row["author"])
		}
		score, err := strconv.Atoi(row["score"])
		if err != nil {
			return fmt.Errorf("review %s: bad score %q", row["id"], row["score"])
		}
		pubDate, err := parsePubDate(row["pub_date"])
		if err != nil {
			return fmt.Errorf("review %s: %w", row["id"], err)
		}
		var id int64
		if err := stmt.QueryRowContext(ctx, titleID, authorID, row["text"], score, pubDate).Scan(&id); err != nil {
			return fmt.Errorf("review %s: %w", row["id"], err)
		}
		l.reviewIDs[row["id"]] = id
	}
	return nil
}

func (l *Loader) loadComments(ctx context.Context, tx *sql.Tx, rows []map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comments (review_id, author_id, text, pub_date)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		reviewID, ok := l.reviewIDs[row["review_id"]]
		if !ok {
			return fmt.Errorf("comment %s: unknown review id %q", row["id"], row["review_id"])
		}
		authorID, ok := l.userIDs[row["author"]]
		if !ok {
			return fmt.Errorf("comment %s: unknown author id %q", row["id"], row["author"])
		}
		pubDate, err := parsePubDate(row["pub_date"])
		if err != nil {
			return fmt.Errorf("comment %s: %w", row["id"], err)
		}
		if _, err := stmt.ExecContext(ctx, reviewID, authorID, row["text"], pubDate); err != nil {
			return fmt.Errorf("comment %s: %w", row["id"], err)
		}
	}
	return nil
}

func parsePubDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999Z", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad pub_date %q", s)
}
