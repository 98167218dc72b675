package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLStore is a Provider backed by SQLite that the admin can edit. The
// biography is not stored; it comes from the catalog the store was seeded
// with.
type SQLStore struct {
	db    *sql.DB
	about About
}

var _ Provider = (*SQLStore)(nil)

// OpenSQL opens (creating if needed) the database at path and applies the
// schema. ":memory:" gives a private in-memory database.
func OpenSQL(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open content db: %w", err)
	}
	// One connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init content schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	schema := `
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		full_description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		tags_json TEXT NOT NULL DEFAULT '[]',
		likes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		likes INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_achievements_category ON achievements(category, position);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Seed remembers the catalog's biography and, when both tables are empty,
// inserts its projects and achievements in order. It reports whether rows
// were inserted.
func (s *SQLStore) Seed(ctx context.Context, c Catalog) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	s.about = c.About

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM projects) + (SELECT COUNT(*) FROM achievements)`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count content: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for i, p := range c.Projects {
		if _, err := insertProject(ctx, tx, i, p); err != nil {
			return false, err
		}
	}
	for i, a := range c.Achievements {
		if _, err := insertAchievement(ctx, tx, i, a); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("seed content: %w", err)
	}
	return true, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProject(ctx context.Context, db execer, pos int, p Project) (int, error) {
	tags, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, position, title, description, full_description, image, tags_json, likes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, nullID(p.ID), pos, p.Title, p.Description, p.FullDescription, p.Image, string(tags), p.Likes)
	if err != nil {
		return 0, fmt.Errorf("insert project %q: %w", p.Title, err)
	}
	return lastID(res)
}

func insertAchievement(ctx context.Context, db execer, pos int, a Achievement) (int, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO achievements (id, position, title, description, date, category, image, likes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, nullID(a.ID), pos, a.Title, a.Description, a.Date, string(a.Category), a.Image, a.Likes)
	if err != nil {
		return 0, fmt.Errorf("insert achievement %q: %w", a.Title, err)
	}
	return lastID(res)
}

func lastID(res sql.Result) (int, error) {
	id, err := res.LastInsertId()
	return int(id), err
}

// nullID lets SQLite assign the id for new records.
func nullID(id int) any {
	if id <= 0 {
		return nil
	}
	return id
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (s *SQLStore) About(context.Context) (About, error) {
	return s.about, nil
}

const projectColumns = `id, title, description, full_description, image, tags_json, likes`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (Project, error) {
	var p Project
	var tags string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.FullDescription, &p.Image, &tags, &p.Likes); err != nil {
		return Project{}, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return Project{}, fmt.Errorf("project %d tags: %w", p.ID, err)
	}
	return p, nil
}

func (s *SQLStore) Projects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) Project(ctx context.Context, id int) (Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, err
}

const achievementColumns = `id, title, description, date, category, image, likes`

func scanAchievement(row scanner) (Achievement, error) {
	var a Achievement
	var category string
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Date, &category, &a.Image, &a.Likes); err != nil {
		return Achievement{}, err
	}
	a.Category = Category(category)
	return a, nil
}

func (s *SQLStore) Achievements(ctx context.Context, category Category) ([]Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements WHERE category = ? ORDER BY position, id`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) Achievement(ctx context.Context, id int) (Achievement, error) {
	a, err := scanAchievement(s.db.QueryRowContext(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Achievement{}, fmt.Errorf("achievement %d: %w", id, ErrNotFound)
	}
	return a, err
}

// CreateProject appends p to the project list. A zero ID is assigned by
// the database.
func (s *SQLStore) CreateProject(ctx context.Context, p Project) (Project, error) {
	check := p
	if check.ID == 0 {
		check.ID = 1
	}
	if err := validateProject(check); err != nil {
		return Project{}, err
	}
	pos, err := s.nextPosition(ctx, "projects")
	if err != nil {
		return Project{}, err
	}
	id, err := insertProject(ctx, s.db, pos, p)
	if err != nil {
		return Project{}, err
	}
	return s.Project(ctx, id)
}

// CreateAchievement appends a to the achievement list. A zero ID is
// assigned by the database.
func (s *SQLStore) CreateAchievement(ctx context.Context, a Achievement) (Achievement, error) {
	check := a
	if check.ID == 0 {
		check.ID = 1
	}
	if err := validateAchievement(check); err != nil {
		return Achievement{}, err
	}
	pos, err := s.nextPosition(ctx, "achievements")
	if err != nil {
		return Achievement{}, err
	}
	id, err := insertAchievement(ctx, s.db, pos, a)
	if err != nil {
		return Achievement{}, err
	}
	return s.Achievement(ctx, id)
}

func (s *SQLStore) nextPosition(ctx context.Context, table string) (int, error) {
	var pos int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM `+table).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("next %s position: %w", table, err)
	}
	return pos, nil
}

func (s *SQLStore) DeleteProject(ctx context.Context, id int) error {
	return s.delete(ctx, "projects", "project", id)
}

func (s *SQLStore) DeleteAchievement(ctx context.Context, id int) error {
	return s.delete(ctx, "achievements", "achievement", id)
}

func (s *SQLStore) delete(ctx context.Context, table, kind string, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
