package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/loader"
)

const sampleCSV = `instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,cnt
1,2011-01-01,1,0,1,0,0,6,0,1,16
2,2011-01-01,1,0,1,1,0,6,0,1,40
3,2011-01-02,1,0,1,0,0,0,0,2,17
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "hour.csv", sampleCSV)
	dbPath := filepath.Join(dir, "bikeshare.db")

	var out bytes.Buffer
	if err := runImport(context.Background(), dbPath, csvPath, false, &out); err != nil {
		t.Fatalf("runImport failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Imported 3 records") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Store now holds 3 records, 2011-01-01 → 2011-01-02 (2 days), schema v2") {
		t.Errorf("output should describe the store, got %q", out.String())
	}

	// A second import replaces instead of appending
	out.Reset()
	if err := runImport(context.Background(), dbPath, csvPath, false, &out); err != nil {
		t.Fatalf("second runImport failed: %v", err)
	}

	database, err := db.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	n, err := database.CountRecords(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("CountRecords = %d, want 3", n)
	}

	imp, err := database.LastImport(context.Background())
	if err != nil || imp == nil {
		t.Fatalf("LastImport = %v, %v", imp, err)
	}
	if imp.RowCount != 3 || !filepath.IsAbs(imp.Source) {
		t.Errorf("LastImport = %+v", imp)
	}
}

func TestRunImport_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"Missing", filepath.Join(dir, "nope.csv"), loader.ErrNotFound},
		{"NoColumn", writeFile(t, dir, "bad.csv", "dteday,hr\n2011-01-01,0\n"), loader.ErrMissingColumn},
		{"Empty", writeFile(t, dir, "empty.csv", "dteday,hr,season,weathersit,workingday,cnt\n"), loader.ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runImport(context.Background(), filepath.Join(dir, tt.name+".db"), tt.path, false, &out)

			var loadErr *loader.LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("err = %v, want LoadError", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if out.Len() != 0 {
				t.Errorf("nothing should be printed on failure, got %q", out.String())
			}
			if _, statErr := os.Stat(filepath.Join(dir, tt.name+".db")); statErr == nil {
				t.Error("database should not be created for a bad source")
			}
		})
	}
}

func TestRunImport_Append(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "bikeshare.db")
	first := writeFile(t, dir, "2011.csv", sampleCSV)
	second := writeFile(t, dir, "extra.csv", `dteday,hr,season,weathersit,workingday,cnt
2011-01-05,8,1,1,1,90
`)

	var out bytes.Buffer
	if err := runImport(context.Background(), dbPath, first, false, &out); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := runImport(context.Background(), dbPath, second, true, &out); err != nil {
		t.Fatalf("appending runImport failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Appended 1 records") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Store now holds 4 records, 2011-01-01 → 2011-01-05 (5 days)") {
		t.Errorf("output = %q", out.String())
	}
}
