package cli

import (
	"context"
	"errors"
	"fmt"

	"habitd/internal/model"
	"habitd/internal/storage"
)

type LogCmd struct {
	ID   int64  `arg:"" help:"Habit id."`
	Date string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Time string `short:"t" help:"Reminder time (HH:MM) this completion belongs to."`
	Undo bool   `short:"u" help:"Mark the entry not completed instead."`
}

func (c *LogCmd) Run(appCtx *Context) error {
	ctx := context.Background()

	habit, err := appCtx.Repo.GetHabit(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("load habit %d: %w", c.ID, err)
	}

	date := c.Date
	if date == "" {
		date = today(appCtx.Location)
	}
	var reminderTime *string
	if c.Time != "" {
		normalized, parseErr := parseTimes(c.Time)
		if parseErr != nil {
			return parseErr
		}
		reminderTime = &normalized
	}

	if c.Undo {
		return c.undo(ctx, appCtx, habit, date, reminderTime)
	}

	if err := appCtx.Repo.InsertLog(ctx, model.HabitLog{
		HabitID:      habit.ID,
		Date:         date,
		Completed:    true,
		ReminderTime: reminderTime,
	}); err != nil {
		return fmt.Errorf("log completion: %w", err)
	}
	fmt.Printf("Logged %q for %s\n", habit.Name, date)
	return nil
}

func (c *LogCmd) undo(ctx context.Context, appCtx *Context, habit model.Habit, date string, reminderTime *string) error {
	var entry model.HabitLog
	var err error
	if reminderTime != nil {
		entry, err = appCtx.Repo.GetLogByDateAndTime(ctx, habit.ID, date, *reminderTime)
	} else {
		entry, err = appCtx.Repo.GetLogByDate(ctx, habit.ID, date)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("Nothing logged for %q on %s\n", habit.Name, date)
			return nil
		}
		return fmt.Errorf("find log: %w", err)
	}
	entry.Completed = false
	if err := appCtx.Repo.UpdateLog(ctx, entry); err != nil {
		return fmt.Errorf("undo log: %w", err)
	}
	fmt.Printf("Unmarked %q for %s\n", habit.Name, date)
	return nil
}
