package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// runTimeLayout has fixed width so created_at sorts as text
const runTimeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		hour INTEGER NOT NULL,
		kwh REAL NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(year, month, day, hour)
	);
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		source TEXT NOT NULL,
		readings INTEGER NOT NULL,
		slope REAL NOT NULL,
		intercept REAL NOT NULL,
		best_hour INTEGER NOT NULL,
		best_kwh REAL NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_published ON analysis_runs(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReadings stores readings in one transaction, skipping hours already present.
// It returns how many rows were actually inserted.
func (db *DB) InsertReadings(ctx context.Context, readings []models.EnergyReading) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR IGNORE INTO readings (year, month, day, hour, kwh, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, r := range readings {
		res, err := stmt.ExecContext(ctx, r.Year, r.Month, r.Day, r.Hour, r.Consumption, createdAt)
		if err != nil {
			return 0, fmt.Errorf("inserting reading %s: %w", r.Timestamp().Format("2006-01-02 15:04"), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing readings: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("inserted", inserted).Int("skipped", len(readings)-inserted).Msg("stored readings")
	return inserted, nil
}

// ListReadings retrieves all stored readings in chronological order
func (db *DB) ListReadings(ctx context.Context) ([]models.EnergyReading, error) {
	query := `
	SELECT year, month, day, hour, kwh
	FROM readings
	ORDER BY year, month, day, hour
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var results []models.EnergyReading
	for rows.Next() {
		var r models.EnergyReading
		if err := rows.Scan(&r.Year, &r.Month, &r.Day, &r.Hour, &r.Consumption); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// InsertRun stores the outcome of an analysis. An ID is assigned when the run has none.
func (db *DB) InsertRun(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO analysis_runs (id, created_at, source, readings, slope, intercept, best_hour, best_kwh, published)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.conn.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UTC().Format(runTimeLayout),
		run.Source,
		run.Readings,
		run.Trend.Slope,
		run.Trend.Intercept,
		run.Recommendation.Hour,
		run.Recommendation.MeanConsumption,
		boolToInt(run.Published),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis run: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("run_id", run.ID).Msg("stored analysis run")
	return nil
}

// ListRuns retrieves analysis runs, newest first
func (db *DB) ListRuns(ctx context.Context) ([]models.AnalysisRun, error) {
	return db.queryRuns(ctx, `
	SELECT id, created_at, source, readings, slope, intercept, best_hour, best_kwh, published
	FROM analysis_runs
	ORDER BY created_at DESC
	`)
}

// ListUnpublishedRuns retrieves runs not yet delivered, oldest first
func (db *DB) ListUnpublishedRuns(ctx context.Context) ([]models.AnalysisRun, error) {
	return db.queryRuns(ctx, `
	SELECT id, created_at, source, readings, slope, intercept, best_hour, best_kwh, published
	FROM analysis_runs
	WHERE published = 0
	ORDER BY created_at ASC
	`)
}

func (db *DB) queryRuns(ctx context.Context, query string) ([]models.AnalysisRun, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying analysis runs: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisRun
	for rows.Next() {
		var run models.AnalysisRun
		var createdAt string

		if err := rows.Scan(&run.ID, &createdAt, &run.Source, &run.Readings,
			&run.Trend.Slope, &run.Trend.Intercept,
			&run.Recommendation.Hour, &run.Recommendation.MeanConsumption,
			&run.Published); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		run.CreatedAt, err = time.Parse(runTimeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		results = append(results, run)
	}

	return results, rows.Err()
}

// MarkRunPublished marks an analysis run as published
func (db *DB) MarkRunPublished(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE analysis_runs SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking run as published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking run as published: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("analysis run %s not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
