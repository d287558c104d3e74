// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/evscout/evscout/internal/vehicle"
)

// MySQLWriter persists records into a MySQL table. The VIN carries a
// unique key so INSERT IGNORE / REPLACE map onto the conflict
// strategies; NULL VINs never collide.
type MySQLWriter struct {
	db         *sql.DB
	table      string
	batchSize  int
	onConflict ConflictStrategy
}

// NewMySQLWriter connects using a go-sql-driver DSN and ensures the
// target table exists.
func NewMySQLWriter(cfg Config) (*MySQLWriter, error) {
	if cfg.ConnString == "" {
		return nil, fmt.Errorf("MySQL DSN is required")
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

	db, err := sql.Open("mysql", cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("opening MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging MySQL: %w", err)
	}

	w := &MySQLWriter{db: db, table: table, batchSize: batch, onConflict: conflict}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *MySQLWriter) createTable() error {
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+`
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		dealer_name TEXT,
		dealer_website TEXT,
		vehicle_url TEXT,
		`+"`year`"+` INT,
		make TEXT,
		model TEXT,
		trim TEXT,
		body_style TEXT,
		new_used VARCHAR(8),
		msrp DOUBLE,
		sale_price DOUBLE,
		total_price DOUBLE,
		currency VARCHAR(8),
		price_note VARCHAR(32),
		fuel_type VARCHAR(16),
		drivetrain VARCHAR(8),
		transmission TEXT,
		vin VARCHAR(17) NULL,
		stock_number TEXT,
		mileage INT,
		mileage_units VARCHAR(4),
		exterior_color TEXT,
		interior_color TEXT,
		in_stock_status VARCHAR(16),
		dealer_location_city TEXT,
		dealer_location_state VARCHAR(4),
		images TEXT,
		description TEXT,
		features TEXT,
		scraped_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_vin (vin)
	)`, w.table)
	if _, err := w.db.Exec(create); err != nil {
		return fmt.Errorf("creating table %s: %w", w.table, err)
	}
	return nil
}

// Append inserts records in batched transactions.
func (w *MySQLWriter) Append(records []*vehicle.Record) error {
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

func (w *MySQLWriter) insertBatch(batch []*vehicle.Record) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	verb := "INSERT"
	switch w.onConflict {
	case ConflictIgnore:
		verb = "INSERT IGNORE"
	case ConflictReplace:
		verb = "REPLACE"
	}
	quoted := make([]string, len(fieldNames))
	for i, name := range fieldNames {
		quoted[i] = "`" + name + "`"
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fieldNames)), ",")
	query := fmt.Sprintf("%s INTO `%s` (%s) VALUES (%s)",
		verb, w.table, strings.Join(quoted, ", "), placeholders)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch {
		values := fieldValues(r)
		for i, name := range fieldNames {
			switch name {
			case "vin":
				// Empty VINs become NULL so the unique key skips them.
				if r.VIN == "" {
					values[i] = nil
				}
			case "scraped_at":
				values[i] = r.ScrapedAt.Format("2006-01-02 15:04:05")
			}
		}
		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("inserting %s %s: %w", r.Make, r.Model, err)
		}
	}
	return tx.Commit()
}

// Close closes the connection pool.
func (w *MySQLWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
