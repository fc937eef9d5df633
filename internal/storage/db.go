package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	// Register the pgx database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var migrationsFS embed.FS

var errNotFound = models.ErrNotFound

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB wraps a sql.DB connection.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// NewDB opens a database connection and runs migrations.
// A postgres:// or postgresql:// DSN selects PostgreSQL; anything else is a SQLite path.
func NewDB(dsn string) (*DB, error) {
	dialect, driverName, source := ParseDSN(dsn)

	conn, err := sql.Open(driverName, source)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	switch dialect {
	case SQLite:
		// One connection keeps ":memory:" databases alive and serializes writers.
		conn.SetMaxOpenConns(1)
	case Postgres:
		conn.SetMaxOpenConns(20)
		conn.SetMaxIdleConns(10)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := conn.ExecContext(ctx, pragma); err != nil {
				conn.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}

	db := &DB{conn: conn, dialect: dialect}
	if err := db.migrate(source); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// ParseDSN resolves the dialect, database/sql driver name and driver source for dsn.
func ParseDSN(dsn string) (dialect Dialect, driverName, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, "pgx", dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return SQLite, "sqlite", dsn
	}
}

func (db *DB) migrate(source string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(db.dialect))
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	var driver database.Driver
	switch db.dialect {
	case SQLite:
		// Migrate on the live handle: a second handle would see a different ":memory:" database.
		// The migrate instance is not closed because closing it closes db.conn.
		driver, err = sqlitemigrate.WithInstance(db.conn, &sqlitemigrate.Config{})
		if err != nil {
			return fmt.Errorf("create sqlite driver: %w", err)
		}
	case Postgres:
		migrateDB, err := sql.Open("pgx", source)
		if err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		defer migrateDB.Close()

		driver, err = pgxmigrate.WithInstance(migrateDB, &pgxmigrate.Config{})
		if err != nil {
			return fmt.Errorf("create pgx driver: %w", err)
		}
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.dialect), driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if db.dialect == Postgres {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Dialect returns the SQL flavour of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.rebind(query), args...)
}

// isUniqueViolation reports whether err is a unique constraint failure in either dialect.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}

// affectedOrNotFound turns a zero-row write into models.ErrNotFound.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}
