package sqlite

import (
	"LemmyVotes/internal/core/instances"
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Open opens (creating if needed) the allowlist database at path.
// SQLite serves one writer at a time; the single-connection cap avoids
// "database is locked" errors when the fetch job and server overlap.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening instance database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging instance database: %w", err)
	}
	return db, nil
}

// Migrate brings the allowlist schema up to date from the embedded migrations
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running instance migrations: %w", err)
	}
	return nil
}

type sqliteInstanceRepo struct {
	db *sql.DB
}

// NewInstanceRepository creates a SQLite-backed allowlist repository
func NewInstanceRepository(db *sql.DB) instances.Repository {
	return &sqliteInstanceRepo{db: db}
}

// UpsertHosts inserts new hosts in one transaction, ignoring known ones
func (r *sqliteInstanceRepo) UpsertHosts(ctx context.Context, hosts []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting upsert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO lemmy_instances (url) VALUES (?)")
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	added := 0
	for _, host := range hosts {
		result, err := stmt.ExecContext(ctx, host)
		if err != nil {
			return 0, fmt.Errorf("upserting host %s: %w", host, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("checking upsert result: %w", err)
		}
		added += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing upsert: %w", err)
	}
	return added, nil
}

// HostExists reports whether host is in the allowlist
func (r *sqliteInstanceRepo) HostExists(ctx context.Context, host string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM lemmy_instances WHERE url = ?", host).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking host %s: %w", host, err)
	}
	return true, nil
}
