package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver ("pgx")
	_ "github.com/mattn/go-sqlite3"    // SQLite driver ("sqlite3")
)

// Supported driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the SQLite database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the SQLite database file.
	filePermissions = 0600

	// sqliteBusyTimeoutMS is the SQLite lock wait, in milliseconds.
	sqliteBusyTimeoutMS = 5000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute

	// jdbcPrefix is stripped from URLs carried over from JDBC property files.
	jdbcPrefix = "jdbc:"

	// memoryDSN opens a private in-memory SQLite database.
	memoryDSN = ":memory:"
)

// ErrUnsupportedDriver is returned when Config.Driver names an unknown driver.
var ErrUnsupportedDriver = errors.New("database: unsupported driver")

// DB wraps a sql.DB connection with configguard-specific functionality.
// It provides health checks, optional SQL echo and lifecycle management.
type DB struct {
	*sql.DB
	driver  string
	logger  *slog.Logger
	showSQL bool
}

// Config contains database connection options.
// These map to the db.* keys of the loaded configuration.
type Config struct {
	// Driver selects the database/sql driver: "pgx" or "sqlite3".
	// "postgres" and "postgresql" are accepted as aliases for "pgx".
	Driver string

	// URL is the connection string. A leading "jdbc:" is ignored.
	URL string

	// Username and Password are injected into URL-style PostgreSQL DSNs that
	// carry no credentials of their own. They are ignored for SQLite.
	Username string
	Password string

	// ShowSQL logs every statement at info level.
	ShowSQL bool

	// Logger receives SQL echo output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Open creates a new database connection with the specified configuration.
//
// It performs the following setup:
//  1. Resolves the driver and builds the data source name
//  2. Creates the SQLite database directory if needed
//  3. Opens the connection pool and sizes it for the driver
//  4. Verifies the connection with a ping
//
// Parameters:
//   - ctx: Context for the connectivity check
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: If connection or configuration fails
func Open(ctx context.Context, cfg Config) (*DB, error) {
	driver, dsn, err := DataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	sqlitePath := ""
	if driver == DriverSQLite {
		if err := prepareSQLiteFile(dsn); err != nil {
			return nil, err
		}
		if dsn != memoryDSN && !strings.HasPrefix(dsn, "file:") {
			sqlitePath = dsn
		}
		dsn = sqliteConnString(dsn)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Configure connection pool
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1) // SQLite only supports one writer
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db := &DB{
		DB:      sqlDB,
		driver:  driver,
		logger:  logger,
		showSQL: cfg.ShowSQL,
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Set file permissions (owner read/write only)
	if sqlitePath != "" {
		_ = os.Chmod(sqlitePath, filePermissions) //nolint:errcheck // File may not exist until first write
	}

	return db, nil
}

// DataSourceName resolves the driver name and connection string for cfg
// without opening anything.
func DataSourceName(cfg Config) (driver, dsn string, err error) {
	raw := strings.TrimPrefix(strings.TrimSpace(cfg.URL), jdbcPrefix)

	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres, "postgres", "postgresql":
		pg, pgErr := postgresDSN(raw, cfg.Username, cfg.Password)
		if pgErr != nil {
			return "", "", pgErr
		}
		return DriverPostgres, pg, nil
	case DriverSQLite, "sqlite":
		raw = strings.TrimPrefix(raw, "sqlite:")
		if raw == "" {
			raw = memoryDSN
		}
		return DriverSQLite, raw, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// postgresDSN adds credentials to DSNs that have none. URL-style DSNs get
// userinfo; keyword/value DSNs ("host=db dbname=app") get user= and
// password= appended unless they already carry those keywords.
func postgresDSN(raw, username, password string) (string, error) {
	if !strings.Contains(raw, "://") {
		return keywordDSN(raw, username, password), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		// The parse error echoes the URL, which may hold a password.
		return "", errors.New("parsing database url: invalid URL")
	}
	if u.User == nil && username != "" {
		if password != "" {
			u.User = url.UserPassword(username, password)
		} else {
			u.User = url.User(username)
		}
	}
	return u.String(), nil
}

// keywordDSN appends user and password to a keyword/value DSN.
func keywordDSN(raw, username, password string) string {
	var b strings.Builder
	b.WriteString(raw)
	add := func(keyword, value string) {
		if value == "" || hasKeyword(raw, keyword) {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(keyword)
		b.WriteByte('=')
		b.WriteString(quoteKeywordValue(value))
	}
	add("user", username)
	add("password", password)
	return b.String()
}

// hasKeyword reports whether dsn sets keyword, e.g. "user" in "host=db user=app".
func hasKeyword(dsn, keyword string) bool {
	for _, field := range strings.Fields(dsn) {
		name, _, found := strings.Cut(field, "=")
		if found && strings.EqualFold(strings.TrimSpace(name), keyword) {
			return true
		}
	}
	return false
}

// quoteKeywordValue single-quotes values that libpq would otherwise split.
// See: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-CONNSTRING-KEYWORD-VALUE
func quoteKeywordValue(v string) string {
	if !strings.ContainsAny(v, " '\\\t") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// prepareSQLiteFile creates the parent directory of a file-backed database.
func prepareSQLiteFile(path string) error {
	if path == memoryDSN || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return nil
}

// sqliteConnString adds the pragmas used for every SQLite connection.
// See: https://github.com/mattn/go-sqlite3#connection-string
func sqliteConnString(path string) string {
	if path == memoryDSN || strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", path, sqliteBusyTimeoutMS)
}

// Close closes the database connection gracefully.
// It should be called when the application shuts down.
//
// Returns:
//   - error: If closing fails
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Driver returns the resolved driver name.
func (db *DB) Driver() string {
	return db.driver
}

// HealthCheck verifies the database is accessible and functioning.
// It performs a simple query to ensure the connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Stats returns database connection pool statistics.
// Useful for monitoring and debugging connection issues.
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// ExecContext executes a query that doesn't return rows (INSERT, UPDATE, DELETE).
// This is a convenience wrapper that provides consistent error handling.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - query: SQL query with placeholders
//   - args: Arguments for placeholders
//
// Returns:
//   - sql.Result: Contains LastInsertId and RowsAffected
//   - error: If execution fails
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	db.echo(query)
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// QueryRowContext executes a query that returns at most one row.
// This is a convenience wrapper for single-row queries.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	db.echo(query)
	return db.DB.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
// The caller must close the returned rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	db.echo(query)
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}

// BeginTx starts a new transaction with the given options.
// Always use transactions for operations that modify multiple rows/tables.
//
// Example:
//
//	tx, err := db.BeginTx(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback() // No-op if committed
//
//	// ... execute queries on tx ...
//
//	return tx.Commit()
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}

// echo logs query text only; arguments may carry user data.
func (db *DB) echo(query string) {
	if db.showSQL {
		db.logger.Info("sql", "query", query)
	}
}
