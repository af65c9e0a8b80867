package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/fgscrap/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "fgscrap.db"

// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is false
// and no database file exists yet.
var ErrDatabaseNotFound = errors.New("database not found")

// GameDB is the dedup store: one table mapping title to artifact file name.
//
// Design decision: The connection pool is limited to a single connection,
// as SQLite only supports one writer. Lookups and saves are short because
// they never span a network call, so serializing them costs little.
type GameDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures GameDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a GameDB in the given directory.
// The games table is created on every open if it is missing, which is the
// only schema upgrade step the store needs.
func Open(dbDir string, opts Options) (*GameDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents creating new files, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	gdb := &GameDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := gdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return gdb, nil
}

// Close closes the database connection.
func (g *GameDB) Close() error {
	return g.db.Close()
}

// Path returns the database file path.
func (g *GameDB) Path() string {
	return g.dbPath
}

// createTables creates the schema if it doesn't exist.
func (g *GameDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		title TEXT PRIMARY KEY,
		torrent TEXT NOT NULL
	);
	`

	_, err := g.db.ExecContext(context.Background(), schema)
	return err
}

// Lookup returns the stored artifact name for every given title that is
// present in the store. All lookups run inside one read transaction so
// they observe a single consistent snapshot.
func (g *GameDB) Lookup(ctx context.Context, titles []string) (map[string]string, error) {
	found := make(map[string]string, len(titles))
	if len(titles) == 0 {
		return found, nil
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only transaction, nothing to undo

	stmt, err := tx.PrepareContext(ctx, `SELECT torrent FROM games WHERE title = ?`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare lookup: %w", err)
	}
	defer stmt.Close()

	for _, title := range titles {
		var torrent string
		err := stmt.QueryRowContext(ctx, title).Scan(&torrent)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up %q: %w", title, err)
		}
		found[title] = torrent
	}

	return found, nil
}

// Save upserts the given records inside one write transaction.
// A title already present is overwritten (last write wins). Either every
// record of the call is committed or none is.
func (g *GameDB) Save(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO games (title, torrent) VALUES (?, ?)
	ON CONFLICT(title) DO UPDATE SET torrent = excluded.torrent
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Title, rec.Torrent); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save %q: %w", rec.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// List returns every record ordered by title.
func (g *GameDB) List(ctx context.Context) ([]model.Record, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT title, torrent FROM games ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		var rec model.Record
		if err := rows.Scan(&rec.Title, &rec.Torrent); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of stored records.
func (g *GameDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
