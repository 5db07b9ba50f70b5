package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"habitd/internal/scheduler"
)

// DaemonCmd runs the reminder loop headless: reconcile, arm, then block
// delivering notifications until interrupted.
type DaemonCmd struct{}

func (c *DaemonCmd) Run(appCtx *Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := appCtx.Planner.Reconcile(ctx, appCtx.Repo); err != nil {
		return fmt.Errorf("reconcile reminders: %w", err)
	}
	appCtx.Engine.Start()
	defer appCtx.Engine.Stop()

	notifier := buildNotifier(ctx, appCtx)
	handler := scheduler.NewFireHandler(appCtx.Engine, appCtx.Repo, notifier, appCtx.Location)

	appCtx.Logger.Info("reminder daemon running",
		"armed", len(appCtx.Engine.Snapshot()), "db", appCtx.Config.DatabasePath)
	handler.Run(ctx)
	return nil
}
