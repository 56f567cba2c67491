package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// MigratePostgres applies the embedded schema through a database/sql view of
// the pool. Closing that view leaves the pool open.
func MigratePostgres(pool *pgxpool.Pool) error {
	conn := stdlib.OpenDBFromPool(pool)
	driver, err := migratepgx.WithInstance(conn, &migratepgx.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}
	return run("migrations/postgres", "pgx5", driver)
}

// MigrateSQLite opens its own handle since the migrator closes it when done.
func MigrateSQLite(path string) error {
	conn, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}
	return run("migrations/sqlite", "sqlite", driver)
}

func run(dir, name string, driver database.Driver) error {
	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		_ = driver.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}
