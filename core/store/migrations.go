package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"bgpanel/core/utils"
	"github.com/pressly/goose/v3"
)

//go:embed migrations_pg/*.sql
var gooseMigrationsPgFS embed.FS

// ApplyMigrations brings the schema up to date. Production runs goose over
// the embedded postgres migrations; the sqlite path exists for the go test
// runtime only and applies the equivalent schema directly.
func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	isPG, err := isPostgresDB(ctx, db)
	if err != nil {
		return err
	}
	if !isPG {
		if !isTestRuntime() {
			return fmt.Errorf("only postgres is supported outside go test runtime")
		}
		return applySqliteSchema(ctx, db)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetBaseFS(gooseMigrationsPgFS)
	if logger != nil {
		logger.Printf("applying goose migrations")
	}
	if err := goose.UpContext(ctx, db, "migrations_pg"); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("goose migrations applied")
	}
	return nil
}

func isPostgresDB(ctx context.Context, db *sql.DB) (bool, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err == nil {
		return false, nil
	}
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return false, err
	}
	return true, nil
}

func applySqliteSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			firstname TEXT NOT NULL DEFAULT '',
			lastname TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			lang TEXT NOT NULL DEFAULT 'en',
			template TEXT NOT NULL DEFAULT 'default',
			password_hash TEXT NOT NULL DEFAULT '',
			salt TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'Active',
			role TEXT NOT NULL DEFAULT 'User',
			last_login_at TIMESTAMP,
			last_activity TIMESTAMP,
			last_ip TEXT NOT NULL DEFAULT '',
			last_host TEXT NOT NULL DEFAULT '',
			token TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			firstname TEXT NOT NULL DEFAULT '',
			lastname TEXT NOT NULL DEFAULT '',
			lang TEXT NOT NULL DEFAULT 'en',
			template TEXT NOT NULL DEFAULT 'default',
			role TEXT NOT NULL,
			ip TEXT NOT NULL DEFAULT '',
			host TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			last_seen_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS boxes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			os_id INTEGER NOT NULL,
			addr TEXT NOT NULL,
			ssh_port INTEGER NOT NULL DEFAULT 22,
			login TEXT NOT NULL DEFAULT '',
			key_name TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'Active',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS os (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		// Same seed rows as the postgres migration.
		`INSERT OR IGNORE INTO os (name) VALUES
			('Debian GNU/Linux'),
			('Ubuntu Server'),
			('CentOS'),
			('FreeBSD'),
			('Windows Server')`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
