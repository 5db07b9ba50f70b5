package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"habitd/internal/scheduler"
	"habitd/internal/update"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(appCtx *Context) error {
	// Arm every enabled habit before the UI comes up, then start the
	// engine. The TUI is the engine channel's only consumer; it hands
	// each firing to the fire handler for notification and re-arm.
	ctx := context.Background()
	if err := appCtx.Planner.Reconcile(ctx, appCtx.Repo); err != nil {
		appCtx.Logger.Warn("reminder reconcile incomplete", "err", err)
	}
	appCtx.Engine.Start()
	defer appCtx.Engine.Stop()

	notifier := buildNotifier(ctx, appCtx)
	handler := scheduler.NewFireHandler(appCtx.Engine, appCtx.Repo, notifier, appCtx.Location)

	program := tea.NewProgram(update.NewModel(update.Deps{
		Repo:     appCtx.Repo,
		Planner:  appCtx.Planner,
		Engine:   appCtx.Engine,
		Handler:  handler,
		Quotes:   appCtx.Quotes,
		Location: appCtx.Location,
	}))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
