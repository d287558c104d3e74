// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/evscout/evscout/internal/vehicle"
)

// PostgreSQLWriter persists records into a PostgreSQL table, one row
// per record, with VIN conflicts handled by ON CONFLICT against a
// partial unique index.
type PostgreSQLWriter struct {
	db         *sql.DB
	table      string
	batchSize  int
	onConflict ConflictStrategy
}

// NewPostgreSQLWriter connects using cfg.ConnString and ensures the
// target table exists.
func NewPostgreSQLWriter(cfg Config) (*PostgreSQLWriter, error) {
	if cfg.ConnString == "" {
		return nil, fmt.Errorf("PostgreSQL connection string is required")
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

	db, err := sql.Open("postgres", cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("opening PostgreSQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging PostgreSQL: %w", err)
	}

	w := &PostgreSQLWriter{db: db, table: table, batchSize: batch, onConflict: conflict}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *PostgreSQLWriter) createTable() error {
	create := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			id BIGSERIAL PRIMARY KEY,
			dealer_name TEXT,
			dealer_website TEXT,
			vehicle_url TEXT,
			year INTEGER,
			make TEXT,
			model TEXT,
			trim TEXT,
			body_style TEXT,
			new_used TEXT,
			msrp DOUBLE PRECISION,
			sale_price DOUBLE PRECISION,
			total_price DOUBLE PRECISION,
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
			scraped_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`, w.table)
	if _, err := w.db.Exec(create); err != nil {
		return fmt.Errorf("creating table %s: %w", w.table, err)
	}

	index := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_vin ON %q (vin) WHERE vin <> ''`,
		w.table, w.table)
	if _, err := w.db.Exec(index); err != nil {
		return fmt.Errorf("creating VIN index: %w", err)
	}
	return nil
}

// Append inserts records in batched transactions.
func (w *PostgreSQLWriter) Append(records []*vehicle.Record) error {
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

func (w *PostgreSQLWriter) insertBatch(batch []*vehicle.Record) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := make([]string, len(fieldNames))
	for i := range fieldNames {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		w.table, strings.Join(fieldNames, ", "), strings.Join(placeholders, ", "))
	if w.onConflict == ConflictIgnore {
		query += " ON CONFLICT DO NOTHING"
	}

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

// Close closes the connection pool.
func (w *PostgreSQLWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
