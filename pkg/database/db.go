package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL flavour behind a DB handle.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB wraps *sql.DB with the dialect it was opened with.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Connect opens the configured database, pings it and applies migrations.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	switch Dialect(cfg.Driver) {
	case Postgres:
		return open(ctx, Postgres, cfg.PostgresDSN())
	case SQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (creating if needed) a SQLite file database.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return open(ctx, SQLite, dsn)
}

func open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	sqlDB, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == SQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	db := &DB{DB: sqlDB, Dialect: dialect}
	if err := db.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Str("driver", string(dialect)).Msg("database connected")
	return db, nil
}

// Close releases the pool.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	log.Info().Str("driver", string(db.Dialect)).Msg("database closed")
	return db.DB.Close()
}

// Rebind rewrites '?' placeholders into the dialect's form.
// Quoted literals are left untouched.
func (db *DB) Rebind(query string) string {
	if db.Dialect != Postgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
