package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/lib/pq"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// SQLiteSource reads records from the hourly_rentals table of a SQLite file,
// typically one produced by the import command.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource returns a source for the SQLite file at path.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// Name returns the file path.
func (s *SQLiteSource) Name() string { return s.path }

// Path returns the file path.
func (s *SQLiteSource) Path() string { return s.path }

// Records queries every stored row.
func (s *SQLiteSource) Records(ctx context.Context) ([]models.Record, error) {
	store, err := db.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(s, ErrNotFound, err)
		}
		return nil, newLoadError(s, ErrUnreadable, err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.QueryRecords(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "no such column") {
			return nil, newLoadError(s, ErrMissingColumn, err)
		}
		return nil, newLoadError(s, ErrUnreadable, err)
	}
	return records, nil
}

// Postgres error codes the loader distinguishes.
const (
	pqUndefinedColumn = "42703"
	pqUndefinedTable  = "42P01"
)

const postgresRecordsQuery = `
	SELECT dteday::text, hr, season, weathersit, workingday::int, cnt
	FROM hourly_rentals
	ORDER BY dteday, hr
`

// PostgresSource reads records from the hourly_rentals table of a Postgres database.
type PostgresSource struct {
	DSN string
}

// Name returns the DSN with any password masked.
func (s *PostgresSource) Name() string {
	u, err := url.Parse(s.DSN)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}

// Records queries every row of hourly_rentals.
func (s *PostgresSource) Records(ctx context.Context) ([]models.Record, error) {
	conn, err := sql.Open("postgres", s.DSN)
	if err != nil {
		return nil, newLoadError(s, ErrUnreadable, err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, postgresRecordsQuery)
	if err != nil {
		return nil, s.queryError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		var dteday string
		var workingDay int

		if err := rows.Scan(&dteday, &r.Hour, &r.Season, &r.WeatherSituation, &workingDay, &r.Count); err != nil {
			return nil, newLoadError(s, ErrUnreadable, fmt.Errorf("failed to scan record: %w", err))
		}

		r.Date, err = parseDate(dteday)
		if err != nil {
			return nil, newLoadError(s, ErrBadDate, fmt.Errorf("row %d: %w", len(records)+1, err))
		}
		r.IsWorkingDay = workingDay != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryError(err)
	}

	return records, nil
}

func (s *PostgresSource) queryError(err error) *LoadError {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUndefinedColumn:
			return newLoadError(s, ErrMissingColumn, err)
		case pqUndefinedTable:
			return newLoadError(s, ErrNotFound, err)
		}
	}
	return newLoadError(s, ErrUnreadable, err)
}
