// Package loader reads hourly bike sharing records from CSV, SQLite or Postgres sources.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// RequiredColumns are the columns every source must provide. Others are ignored.
var RequiredColumns = []string{"dteday", "hr", "season", "weathersit", "workingday", "cnt"}

// Failure kinds carried by LoadError.
var (
	ErrNotFound      = errors.New("source not found")
	ErrUnreadable    = errors.New("source unreadable")
	ErrEmpty         = errors.New("source has no data rows")
	ErrMissingColumn = errors.New("missing required column")
	ErrBadDate       = errors.New("unparseable date")
	ErrBadValue      = errors.New("invalid value")
)

// LoadError reports why a source could not be turned into records.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source yields raw records from some tabular store.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]models.Record, error)
}

// FileSource is a Source backed by a local file that can be watched.
type FileSource interface {
	Source
	Path() string
}

// Open picks a source implementation for path. It does not touch the source.
func Open(path string) Source {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return &PostgresSource{DSN: path}
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return &SQLiteSource{path: path}
	default:
		return &CSVSource{path: path}
	}
}

// Load reads every record from src and validates it.
// Any failure is returned as a *LoadError.
func Load(ctx context.Context, src Source) ([]models.Record, error) {
	start := time.Now()

	records, err := src.Records(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, newLoadError(src, ErrUnreadable, err)
	}

	if len(records) == 0 {
		return nil, &LoadError{Source: src.Name(), Reason: ErrEmpty.Error(), Err: ErrEmpty}
	}

	if err := validate(records); err != nil {
		return nil, newLoadError(src, ErrBadValue, err)
	}

	logger.Info("Records loaded",
		"source", src.Name(),
		"rows", len(records),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return records, nil
}

func validate(records []models.Record) error {
	for i, r := range records {
		if r.Hour < 0 || r.Hour > 23 {
			return fmt.Errorf("%w: row %d: hr %d outside 0-23", ErrBadValue, i+1, r.Hour)
		}
		if r.Count < 0 {
			return fmt.Errorf("%w: row %d: cnt %d is negative", ErrBadValue, i+1, r.Count)
		}
	}
	return nil
}

// newLoadError builds a LoadError whose chain contains both kind and cause.
func newLoadError(src Source, kind, cause error) *LoadError {
	if !errors.Is(cause, kind) {
		cause = fmt.Errorf("%w: %w", kind, cause)
	}
	return &LoadError{Source: src.Name(), Reason: kind.Error(), Err: cause}
}

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate accepts the ISO-like forms dteday appears in and truncates to the day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}
