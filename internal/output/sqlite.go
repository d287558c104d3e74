// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/evscout/evscout/internal/vehicle"
)

// SQLiteWriter persists records into a local SQLite database. Each
// record is one row of the vehicles table; VIN collisions follow the
// configured conflict strategy through a partial unique index (empty
// VINs never collide).
type SQLiteWriter struct {
	db         *sql.DB
	table      string
	batchSize  int
	onConflict ConflictStrategy
}

// NewSQLiteWriter opens (creating if needed) the database at
// cfg.File and ensures the vehicles table exists.
func NewSQLiteWriter(cfg Config) (*SQLiteWriter, error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	table := cfg.Table
	if table == "" {
		table = "vehicles"
	}
	batch := cfg.BatchSize
	if batch == 0 {
		batch = 500
	}
	conflict := cfg.OnConflict
	if conflict == "" {
		conflict = ConflictIgnore
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.File+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging SQLite database: %w", err)
	}
	// Single writer keeps SQLite happy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = memory",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	w := &SQLiteWriter{db: db, table: table, batchSize: batch, onConflict: conflict}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) createTable() error {
	create := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS [%s] (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dealer_name TEXT,
			dealer_website TEXT,
			vehicle_url TEXT,
			year INTEGER,
			make TEXT,
			model TEXT,
			trim TEXT,
			body_style TEXT,
			new_used TEXT,
			msrp REAL,
			sale_price REAL,
			total_price REAL,
			currency TEXT,
			price_note TEXT,
			fuel_type TEXT,
			drivetrain TEXT,
			transmission TEXT,
			vin TEXT,
			stock_number TEXT,
			mileage INTEGER,
			mileage_units TEXT,
			exterior_color TEXT,
			interior_color TEXT,
			in_stock_status TEXT,
			dealer_location_city TEXT,
			dealer_location_state TEXT,
			images TEXT,
			description TEXT,
			features TEXT,
			scraped_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, w.table)
	if _, err := w.db.Exec(create); err != nil {
		return fmt.Errorf("creating table %s: %w", w.table, err)
	}

	index := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS [idx_%s_vin] ON [%s](vin) WHERE vin <> ''`,
		w.table, w.table)
	if _, err := w.db.Exec(index); err != nil {
		return fmt.Errorf("creating VIN index: %w", err)
	}
	return nil
}

// Append inserts records in batched transactions.
func (w *SQLiteWriter) Append(records []*vehicle.Record) error {
	if w.db == nil {
		return fmt.Errorf("writer already closed")
	}
	for start := 0; start < len(records); start += w.batchSize {
		end := start + w.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := w.insertBatch(records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (w *SQLiteWriter) insertBatch(batch []*vehicle.Record) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	verb := "INSERT"
	switch w.onConflict {
	case ConflictIgnore:
		verb = "INSERT OR IGNORE"
	case ConflictReplace:
		verb = "INSERT OR REPLACE"
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fieldNames)), ",")
	query := fmt.Sprintf("%s INTO [%s] (%s) VALUES (%s)",
		verb, w.table, strings.Join(fieldNames, ", "), placeholders)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch {
		if _, err := stmt.Exec(fieldValues(r)...); err != nil {
			return fmt.Errorf("inserting %s %s: %w", r.Make, r.Model, err)
		}
	}
	return tx.Commit()
}

// Close closes the database handle.
func (w *SQLiteWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
