// Package main is the entry point for the bike sharing dashboard TUI.
// It initializes configuration, logging and services, and runs the Bubble Tea program.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/config"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/loader"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/records"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/rfm"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/tabs/timeofday"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "import":
			args := os.Args[2:]
			appendRows := len(args) > 0 && args[0] == "--append"
			if appendRows {
				args = args[1:]
			}
			if len(args) != 1 {
				fmt.Fprintln(os.Stderr, "Usage: bsd import [--append] <file.csv>")
				os.Exit(2)
			}
			if err := importCommand(args[0], appendRows); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func importCommand(path string, appendRows bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return runImport(context.Background(), cfg.DatabasePath, path, appendRows, os.Stdout)
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger.Info("Starting", "version", version.Info(), "data", cfg.DataPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The first load is synchronous so a bad source fails before the UI starts.
	svcManager, err := services.NewManager(ctx, cfg)
	if err != nil {
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			return fmt.Errorf("cannot load %s: %w", cfg.DataPath, loadErr)
		}
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		rfm.New(state),
		timeofday.New(state),
		records.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	go func() {
		select {
		case <-sigChan:
			p.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Bike Sharing Dashboard - hourly rental statistics in the terminal

Usage:
  bsd [flags]
  bsd import [--append] <file.csv>
                          Load a CSV into the SQLite database, replacing
                          its records unless --append is given

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-5             Switch tabs (Overview, RFM, Time of Day, Records, Info)
  Tab/Shift+Tab   Navigate between tabs
  t               Cycle date range preset
  e               Edit the date range (Overview)
  s               Show/hide raw data (Records)
  r               Reload data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  BIKESHARE_DATA    CSV, SQLite file or postgres:// DSN (default: hour.csv)
  DATABASE_PATH     SQLite database used by "bsd import"
  LOG_PATH          Log file path
  LOG_LEVEL         debug, info, warn or error (default: info)
  HISTOGRAM_BINS    Bins per RFM histogram, 1-100 (default: 10)
  WATCH_DATA        Reload when the data file changes (default: true)
  RELOAD_DEBOUNCE   Delay before reloading a changed file (default: 250ms)
  DESKTOP_NOTIFY    Desktop notification on reload failure (default: false)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/bikeshare-tui/.env
  - ~/.bikeshare/.env`)
}
