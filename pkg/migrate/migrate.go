// Package migrate applies the storefront schema with goose. Migrations are
// embedded so the binaries do not depend on the working directory.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// SourceDir is where new migrations are scaffolded, relative to the repo root.
const SourceDir = "pkg/migrate/migrations"

// Migrations returns the embedded migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Runner drives goose against one database.
type Runner struct {
	provider *goose.Provider
}

// NewRunner prepares a postgres runner. A nil fsys selects the embedded set.
func NewRunner(db *sql.DB, fsys fs.FS) (*Runner, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if fsys == nil {
		fsys = Migrations()
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider}, nil
}

// Up applies every pending migration and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}

// Down rolls back the latest migration.
func (r *Runner) Down(ctx context.Context) error {
	if _, err := r.provider.Down(ctx); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Version is one row of Status output.
type Version struct {
	Version int64
	Path    string
	Applied bool
}

func (r *Runner) Status(ctx context.Context) ([]Version, error) {
	rows, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]Version, 0, len(rows))
	for _, row := range rows {
		out = append(out, Version{
			Version: row.Source.Version,
			Path:    row.Source.Path,
			Applied: row.State == goose.StateApplied,
		})
	}
	return out, nil
}

// To moves the schema up or down until target is the current version.
func (r *Runner) To(ctx context.Context, target int64) error {
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	switch {
	case current < target:
		_, err = r.provider.UpTo(ctx, target)
	case current > target:
		_, err = r.provider.DownTo(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("goose to %d: %w", target, err)
	}
	return nil
}
