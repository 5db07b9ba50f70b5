package cli

import (
	"context"
	"fmt"
)

// ReconcileCmd re-arms every enabled habit's reminder slots, the same pass
// the daemon runs at startup after a restart wiped the in-memory alarms.
type ReconcileCmd struct{}

func (c *ReconcileCmd) Run(appCtx *Context) error {
	if err := appCtx.Planner.Reconcile(context.Background(), appCtx.Repo); err != nil {
		return fmt.Errorf("reconcile reminders: %w", err)
	}
	armed := appCtx.Engine.Snapshot()
	fmt.Printf("Re-armed %d reminder slots\n", len(armed))
	return nil
}
