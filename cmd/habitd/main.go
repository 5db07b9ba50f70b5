package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"habitd/internal/cli"
	"habitd/internal/config"
	"habitd/internal/quotes"
	"habitd/internal/scheduler"
	"habitd/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag

	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Daemon    cli.DaemonCmd    `cmd:"" help:"Run the reminder loop headless."`
	Log       cli.LogCmd       `cmd:"" help:"Log a habit completion."`
	Stats     cli.StatsCmd     `cmd:"" help:"Show habit statistics."`
	Quote     cli.QuoteCmd     `cmd:"" help:"Show a motivational quote."`
	Reconcile cli.ReconcileCmd `cmd:"" help:"Re-arm reminder alarms for all enabled habits."`
	Prefs struct {
		Get cli.PrefsGetCmd `cmd:"" help:"Show a stored preference."`
		Set cli.PrefsSetCmd `cmd:"" help:"Store a preference."`
	} `cmd:"" help:"Manage stored preferences."`
	Habit struct {
		Add    cli.HabitAddCmd    `cmd:"" help:"Add a new habit."`
		List   cli.HabitListCmd   `cmd:"" help:"List habits."`
		Edit   cli.HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
		Delete cli.HabitDeleteCmd `cmd:"" help:"Delete a habit."`
		Test   cli.HabitTestCmd   `cmd:"" help:"Send a test notification for a habit."`
	} `cmd:"" help:"Manage habits."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitd"),
		kong.Description("Habit tracker with exact reminder scheduling"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.RuntimeConfigFromEnv(config.DefaultRuntimeConfig())

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid timezone %q: %v\n", cfg.Timezone, err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: create data dir: %v\n", err)
			os.Exit(1)
		}
	}
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: migrate: %v\n", err)
		os.Exit(1)
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	planner := scheduler.NewPlanner(engine, loc)
	quoteService := quotes.NewService(
		quotes.NewClient(cfg.QuoteBaseURL, cfg.QuoteTimeout),
		repo,
		logger,
	)

	appCtx := &cli.Context{
		Repo:     repo,
		Planner:  planner,
		Engine:   engine,
		Quotes:   quoteService,
		Config:   cfg,
		Location: loc,
		Logger:   logger,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
