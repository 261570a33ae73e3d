package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"storefront/internal/logger"
)

// =============================================================================
// CONSTANTS AND GLOBAL VARIABLES
// =============================================================================

var (
	db   *sql.DB
	dbMu sync.RWMutex
)

// Database connection pool configuration
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	connMaxIdleTime = time.Minute * 15
	queryTimeout    = time.Second * 30
)

// =============================================================================
// DATABASE CONNECTION AND SETUP
// =============================================================================

// InitDB opens the SQLite database at dataSourceName with connection pooling and retries.
func InitDB(dataSourceName string) error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db != nil {
		db.Close()
		db = nil
	}

	conn, err := openWithRetry(dataSourceName, 3)
	if err != nil {
		return err
	}
	db = conn
	return nil
}

func openWithRetry(dataSourceName string, maxRetries int) (*sql.DB, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err := sql.Open("sqlite", dataSourceName)
		if err != nil {
			lastErr = err
			logger.LogWarn("Database connection attempt %d failed: %v", attempt, err)
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
			continue
		}

		conn.SetMaxOpenConns(maxOpenConns)
		conn.SetMaxIdleConns(maxIdleConns)
		conn.SetConnMaxLifetime(connMaxLifetime)
		conn.SetConnMaxIdleTime(connMaxIdleTime)

		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		err = conn.PingContext(ctx)
		cancel()
		if err != nil {
			lastErr = err
			logger.LogWarn("Database ping attempt %d failed: %v", attempt, err)
			conn.Close()
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
			continue
		}

		if err := enablePragmas(conn); err != nil {
			// Optimizations only; the database is usable without them.
			logger.LogWarn("Failed to enable some database optimizations: %v", err)
		}

		logger.LogInfo("Database connection established (attempt %d)", attempt)
		return conn, nil
	}

	return nil, fmt.Errorf("failed to open database after %d attempts: %w", maxRetries, lastErr)
}

func enablePragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA temp_store = MEMORY",
	}

	var lastErr error
	for _, pragma := range pragmas {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		_, err := conn.ExecContext(ctx, pragma)
		cancel()
		if err != nil {
			logger.LogWarn("Failed to execute %s: %v", pragma, err)
			lastErr = err
		}
	}
	return lastErr
}

// GetDB returns the database connection after a quick health check.
func GetDB() (*sql.DB, error) {
	dbMu.RLock()
	defer dbMu.RUnlock()

	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.LogError("Database health check failed: %v", err)
		return nil, fmt.Errorf("database connection unhealthy: %w", err)
	}

	return db, nil
}

// CloseDB closes the database connection gracefully
func CloseDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// =============================================================================
// SCHEMA DEFINITIONS
// =============================================================================

const shopSchema = `
	CREATE TABLE IF NOT EXISTS shops (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		locale TEXT NOT NULL,
		fallback_locale TEXT NOT NULL DEFAULT '',
		category_id INTEGER NOT NULL
	);`

const categorySchema = `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		parent_id INTEGER REFERENCES categories(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1,
		external TEXT NOT NULL DEFAULT '',
		hide_top BOOLEAN NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id);`

const configuratorSchema = `
	CREATE TABLE IF NOT EXISTS configurator_groups (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS configurator_options (
		id INTEGER PRIMARY KEY,
		group_id INTEGER NOT NULL REFERENCES configurator_groups(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_options_group ON configurator_options(group_id);`

const productSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		configurator_type INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1
	);
	CREATE TABLE IF NOT EXISTS product_configurator_options (
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		option_id INTEGER NOT NULL REFERENCES configurator_options(id) ON DELETE CASCADE,
		PRIMARY KEY (product_id, option_id)
	);
	CREATE TABLE IF NOT EXISTS variants (
		id INTEGER PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		number TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT 1,
		is_main BOOLEAN NOT NULL DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 0,
		last_stock BOOLEAN NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id);
	CREATE TABLE IF NOT EXISTS variant_options (
		variant_id INTEGER NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
		option_id INTEGER NOT NULL REFERENCES configurator_options(id) ON DELETE CASCADE,
		PRIMARY KEY (variant_id, option_id)
	);
	CREATE TABLE IF NOT EXISTS option_media (
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		option_id INTEGER NOT NULL REFERENCES configurator_options(id) ON DELETE CASCADE,
		media_id INTEGER NOT NULL,
		path TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (product_id, option_id)
	);`

const translationSchema = `
	CREATE TABLE IF NOT EXISTS translations (
		object_type TEXT NOT NULL,
		object_key INTEGER NOT NULL,
		locale TEXT NOT NULL,
		field TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (object_type, object_key, locale, field)
	);`

// =============================================================================
// TABLE CREATION
// =============================================================================

// CreateTables creates every table the storefront reads from.
func CreateTables() error {
	conn, err := GetDB()
	if err != nil {
		return err
	}

	tables := []struct {
		name   string
		schema string
	}{
		{"shop", shopSchema},
		{"category", categorySchema},
		{"configurator", configuratorSchema},
		{"product", productSchema},
		{"translation", translationSchema},
	}

	for _, table := range tables {
		if _, err := conn.Exec(table.schema); err != nil {
			return fmt.Errorf("failed to create %s tables: %w", table.name, err)
		}
	}
	return nil
}

// =============================================================================
// QUERY HELPERS
// =============================================================================

// withTimeout bounds a query by queryTimeout unless ctx already ends sooner.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func intArgs(ids []int) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
