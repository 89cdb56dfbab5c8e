package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fleetdesk/internal"
	"fleetdesk/internal/util"
)

// DB is the local implementation of the persistence boundary: a sqlite
// fleet store with a unique plate key per vehicle, plus audit rows for
// import runs.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  licensePlate TEXT NOT NULL,
  plateKey TEXT NOT NULL UNIQUE,
  brand TEXT,
  model TEXT,
  fuel TEXT,
  apkDate TEXT,
  fieldsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_vehicles_brand ON vehicles(brand);
CREATE INDEX IF NOT EXISTS idx_vehicles_plateKey ON vehicles(plateKey);

CREATE TABLE IF NOT EXISTS import_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// CreateVehicles implements the pipeline's VehicleCreator contract:
// one result per candidate, in order. A plate already in the store, or
// earlier in the same batch, fails that item and leaves the rest of
// the batch alone.
func (d *DB) CreateVehicles(ctx context.Context, candidates []internal.Candidate) ([]internal.CreateResult, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	results := make([]internal.CreateResult, 0, len(candidates))
	for _, c := range candidates {
		plate := c.Plate()
		key := util.NormalizePlate(plate)
		if key == "" {
			results = append(results, internal.CreateResult{Error: "Missing license plate"})
			continue
		}

		var existing int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM vehicles WHERE plateKey = ?`, key).Scan(&existing)
		if err != nil {
			return nil, err
		}
		if existing > 0 {
			results = append(results, internal.CreateResult{Error: fmt.Sprintf("Duplicate license plate: %s", plate)})
			continue
		}

		fieldsJSON, _ := json.Marshal(c.Fields)
		id := uuid.NewString()
		_, err = tx.ExecContext(ctx, `
INSERT INTO vehicles (id, licensePlate, plateKey, brand, model, fuel, apkDate, fieldsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, id, plate, key,
			c.Fields[internal.FieldBrand], c.Fields[internal.FieldModel],
			c.Fields[internal.FieldFuel], c.Fields[internal.FieldAPKDate],
			string(fieldsJSON))
		if err != nil {
			return nil, err
		}

		results = append(results, internal.CreateResult{Vehicle: &internal.CreatedVehicle{
			ID:           id,
			LicensePlate: plate,
			Fields:       c.Fields,
		}})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *DB) ListVehicles(ctx context.Context) ([]internal.CreatedVehicle, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT id, licensePlate, fieldsJson FROM vehicles ORDER BY createdAt ASC, licensePlate ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CreatedVehicle
	for rows.Next() {
		var v internal.CreatedVehicle
		var fieldsJSON string
		if err := rows.Scan(&v.ID, &v.LicensePlate, &fieldsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &v.Fields); err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) CountVehicles(ctx context.Context) (int, error) {
	var count int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(1) FROM vehicles`).Scan(&count)
	return count, err
}

func (d *DB) InsertRun(traceID, source string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO import_runs (traceId, source, countsJson, timingsJson) VALUES (?, ?, ?, ?)`,
		traceID, source, string(countsJSON), string(timingsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
