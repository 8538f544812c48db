// SQLite-backed project registry.
//
// Information Hiding:
// - SQLite connection management hidden behind Catalog
// - Schema details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteCatalog stores project names and roots in a SQLite database file.
type SqliteCatalog struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite catalog at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteCatalog, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	return newSqliteCatalog(db)
}

// NewSqliteInMemory creates an in-memory catalog (useful for testing).
func NewSqliteInMemory() (*SqliteCatalog, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// Each new connection to :memory: is a fresh database.
	db.SetMaxOpenConns(1)

	return newSqliteCatalog(db)
}

func newSqliteCatalog(db *sql.DB) (*SqliteCatalog, error) {
	catalog := &SqliteCatalog{db: db}
	if err := catalog.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return catalog, nil
}

// Close closes the database connection.
func (c *SqliteCatalog) Close() error {
	return c.db.Close()
}

func (c *SqliteCatalog) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			name TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Register adds a project or moves an existing one to a new root.
func (c *SqliteCatalog) Register(ctx context.Context, project Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if strings.TrimSpace(project.Path) == "" {
		return fmt.Errorf("project path is required")
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO projects (name, path) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET path = excluded.path, updated_at = datetime('now')`,
		project.Name, project.Path,
	)
	if err != nil {
		return fmt.Errorf("failed to register project %s: %w", project.Name, err)
	}
	return nil
}

// Remove deletes a project. Removing an unknown project returns ErrNotFound.
func (c *SqliteCatalog) Remove(ctx context.Context, name string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove project %s: %w", name, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Root returns the root registered for name.
func (c *SqliteCatalog) Root(ctx context.Context, name string) (string, error) {
	var path string
	err := c.db.QueryRowContext(ctx, `SELECT path FROM projects WHERE name = ?`, name).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up project %s: %w", name, err)
	}
	return path, nil
}

// List returns every registered project ordered by name.
func (c *SqliteCatalog) List(ctx context.Context) ([]Project, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name, path FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Name, &p.Path); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Verify SqliteCatalog implements Catalog
var _ Catalog = (*SqliteCatalog)(nil)
