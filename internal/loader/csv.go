package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// CSVSource reads records from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source for the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name returns the file path.
func (s *CSVSource) Name() string { return s.path }

// Path returns the file path.
func (s *CSVSource) Path() string { return s.path }

// columnTypes pins the required columns so gota does not guess them.
var columnTypes = map[string]series.Type{
	"dteday":     series.String,
	"hr":         series.Int,
	"season":     series.Int,
	"weathersit": series.Int,
	"workingday": series.Int,
	"cnt":        series.Int,
}

// Records parses the whole file.
func (s *CSVSource) Records(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(s, ErrNotFound, err)
		}
		return nil, newLoadError(s, ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	header, hasRows, err := peekRows(f)
	if err != nil {
		return nil, newLoadError(s, ErrUnreadable, err)
	}
	if header == nil {
		return nil, newLoadError(s, ErrEmpty, errors.New("no header row"))
	}
	if !hasRows {
		if err := checkColumns(header); err != nil {
			return nil, newLoadError(s, ErrMissingColumn, err)
		}
		return nil, newLoadError(s, ErrEmpty, errors.New("no data rows"))
	}

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, newLoadError(s, ErrUnreadable, df.Err)
	}

	return s.fromFrame(df)
}

// peekRows reads the header and reports whether a data row follows it, then rewinds f.
// Blank lines are skipped. A nil header means the file has no content.
func peekRows(f *os.File) ([]string, bool, error) {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	hasRows := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if header != nil {
			hasRows = true
			break
		}
		for name := range strings.SplitSeq(line, ",") {
			header = append(header, strings.Trim(name, "\" \t\ufeff"))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, false, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, false, err
	}
	return header, hasRows, nil
}

func (s *CSVSource) fromFrame(df dataframe.DataFrame) ([]models.Record, error) {
	if err := checkColumns(df.Names()); err != nil {
		return nil, newLoadError(s, ErrMissingColumn, err)
	}
	if df.Nrow() == 0 {
		return nil, newLoadError(s, ErrEmpty, ErrEmpty)
	}

	ints := make(map[string][]int, len(RequiredColumns)-1)
	for _, name := range RequiredColumns[1:] {
		vals, err := df.Col(name).Int()
		if err != nil {
			return nil, newLoadError(s, ErrBadValue, fmt.Errorf("column %s: %w", name, err))
		}
		ints[name] = vals
	}

	dates := df.Col("dteday").Records()
	records := make([]models.Record, len(dates))
	for i, raw := range dates {
		d, err := parseDate(raw)
		if err != nil {
			return nil, newLoadError(s, ErrBadDate, fmt.Errorf("row %d: %w", i+1, err))
		}
		records[i] = models.Record{
			Date:             d,
			Hour:             ints["hr"][i],
			Season:           ints["season"][i],
			WeatherSituation: ints["weathersit"][i],
			IsWorkingDay:     ints["workingday"][i] != 0,
			Count:            ints["cnt"][i],
		}
	}
	return records, nil
}

// checkColumns reports every required column absent from names.
func checkColumns(names []string) error {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
