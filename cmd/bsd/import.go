package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/loader"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
)

// runImport loads csvPath through the data loader and writes it into the database at dbPath.
// The stored records are replaced unless appendRows is set.
func runImport(ctx context.Context, dbPath, csvPath string, appendRows bool, out io.Writer) error {
	records, err := loader.Load(ctx, loader.NewCSVSource(csvPath))
	if err != nil {
		return err
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	source := csvPath
	if abs, err := filepath.Abs(csvPath); err == nil {
		source = abs
	}

	var n int
	if appendRows {
		n, err = database.InsertRecords(ctx, source, records)
	} else {
		n, err = database.ReplaceRecords(ctx, source, records)
	}
	if err != nil {
		return fmt.Errorf("failed to store records: %w", err)
	}

	if !appendRows {
		// The delete leaves free pages behind
		if err := database.Vacuum(); err != nil {
			logger.Warn("Vacuum failed", "path", dbPath, "error", err)
		}
	}

	summary, err := database.Summarize(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	verb := "Imported"
	if appendRows {
		verb = "Appended"
	}
	if _, err := fmt.Fprintf(out, "%s %s records from %s into %s\n", verb, humanize.Comma(int64(n)), csvPath, dbPath); err != nil {
		return err
	}

	span := "empty"
	if summary.HasSpan {
		span = fmt.Sprintf("%s (%d days)", summary.Span, summary.Span.Days())
	}
	_, err = fmt.Fprintf(out, "Store now holds %s records, %s, schema v%d\n",
		humanize.Comma(int64(summary.Records)), span, summary.SchemaVersion)
	return err
}
