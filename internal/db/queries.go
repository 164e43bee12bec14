package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// Import describes one completed import into the store.
type Import struct {
	ID         int64
	Source     string
	RowCount   int
	ImportedAt time.Time
}

const insertRecordQuery = `
	INSERT INTO hourly_rentals (dteday, hr, season, weathersit, workingday, cnt)
	VALUES (?, ?, ?, ?, ?, ?)
`

// InsertRecords appends records in a single transaction and logs the import.
func (db *DB) InsertRecords(ctx context.Context, source string, records []models.Record) (int, error) {
	return db.importRecords(ctx, source, records, false)
}

// ReplaceRecords swaps the stored records for records and logs the import.
func (db *DB) ReplaceRecords(ctx context.Context, source string, records []models.Record) (int, error) {
	return db.importRecords(ctx, source, records, true)
}

func (db *DB) importRecords(ctx context.Context, source string, records []models.Record, replace bool) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM hourly_rentals"); err != nil {
			return 0, fmt.Errorf("failed to clear records: %w", err)
		}
	}

	n, err := insertRecords(ctx, tx, records)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO imports (source, row_count, imported_at) VALUES (?, ?, ?)",
		source, n, time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to log import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Info("Records imported", "source", source, "rows", n, "replace", replace)
	return n, nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []models.Record) (int, error) {
	stmt, err := tx.PrepareContext(ctx, insertRecordQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Date.Format(sqlDateLayout),
			r.Hour,
			r.Season,
			r.WeatherSituation,
			boolToInt(r.IsWorkingDay),
			r.Count,
		)
		if err != nil {
			return i, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}
	return len(records), nil
}

// QueryRecords returns every stored record ordered by day and hour.
func (db *DB) QueryRecords(ctx context.Context) ([]models.Record, error) {
	query := `
		SELECT dteday, hr, season, weathersit, workingday, cnt
		FROM hourly_rentals
		ORDER BY dteday, hr, id
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		var dteday string
		var workingDay int

		if err := rows.Scan(&dteday, &r.Hour, &r.Season, &r.WeatherSituation, &workingDay, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.Date, err = models.ParseDay(dteday)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date: %w", err)
		}
		r.IsWorkingDay = workingDay != 0
		records = append(records, r)
	}

	return records, rows.Err()
}

// CountRecords returns the number of stored records.
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hourly_rentals").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// DateSpan returns the earliest and latest stored day, or false when the store is empty.
func (db *DB) DateSpan(ctx context.Context) (models.DateRange, bool, error) {
	var lo, hi sql.NullString
	err := db.QueryRowContext(ctx, "SELECT MIN(dteday), MAX(dteday) FROM hourly_rentals").Scan(&lo, &hi)
	if err != nil {
		return models.DateRange{}, false, fmt.Errorf("failed to query date span: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return models.DateRange{}, false, nil
	}

	start, err := models.ParseDay(lo.String)
	if err != nil {
		return models.DateRange{}, false, err
	}
	end, err := models.ParseDay(hi.String)
	if err != nil {
		return models.DateRange{}, false, err
	}
	return models.DateRange{Start: start, End: end}, true, nil
}

// LastImport returns the most recent import, or nil if none was logged.
func (db *DB) LastImport(ctx context.Context) (*Import, error) {
	query := `
		SELECT id, source, row_count, imported_at
		FROM imports
		ORDER BY id DESC
		LIMIT 1
	`

	var imp Import
	var importedAt string
	err := db.QueryRowContext(ctx, query).Scan(&imp.ID, &imp.Source, &imp.RowCount, &importedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last import: %w", err)
	}

	imp.ImportedAt, _ = parseSQLiteTime(importedAt)
	return &imp, nil
}

// Summary describes what a store holds.
type Summary struct {
	SchemaVersion uint
	Records       int
	Span          models.DateRange
	HasSpan       bool
	LastImport    *Import
}

// Summarize reads the schema version, record count, date span and latest import.
func (db *DB) Summarize(ctx context.Context) (*Summary, error) {
	version, err := db.SchemaVersion()
	if err != nil {
		return nil, err
	}

	count, err := db.CountRecords(ctx)
	if err != nil {
		return nil, err
	}

	span, ok, err := db.DateSpan(ctx)
	if err != nil {
		return nil, err
	}

	imp, err := db.LastImport(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		SchemaVersion: version,
		Records:       count,
		Span:          span,
		HasSpan:       ok,
		LastImport:    imp,
	}, nil
}

// parseSQLiteTime accepts the layouts SQLite and the driver hand back for DATETIME.
func parseSQLiteTime(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
