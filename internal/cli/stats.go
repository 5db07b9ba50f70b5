package cli

import (
	"context"
	"fmt"
	"time"

	"habitd/internal/model"
)

type StatsCmd struct {
	ID int64 `arg:"" optional:"" help:"Habit id. Omit for all habits."`
}

func (c *StatsCmd) Run(appCtx *Context) error {
	ctx := context.Background()
	now := time.Now().In(appCtx.Location)

	var habits []model.Habit
	if c.ID != 0 {
		habit, err := appCtx.Repo.GetHabit(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("load habit %d: %w", c.ID, err)
		}
		habits = []model.Habit{habit}
	} else {
		var err error
		habits, err = appCtx.Repo.ListHabits(ctx)
		if err != nil {
			return fmt.Errorf("list habits: %w", err)
		}
	}

	for _, habit := range habits {
		logs, err := appCtx.Repo.ListLogsForHabit(ctx, habit.ID)
		if err != nil {
			return fmt.Errorf("load logs for %d: %w", habit.ID, err)
		}
		stats := model.ComputeStats(habit, logs, now)
		fmt.Println(formatStats(habit, stats))
	}
	return nil
}

func formatStats(habit model.Habit, stats model.HabitStats) string {
	rate := "n/a"
	if stats.CompletionRate != nil {
		rate = fmt.Sprintf("%d%%", *stats.CompletionRate)
	}
	line := fmt.Sprintf("%s: %d done, rate %s, streak %d (best %d)",
		habit.Name, stats.CompletedCount, rate, stats.CurrentStreak, stats.BestStreak)
	if stats.OverCompleted > 0 {
		line += fmt.Sprintf(", +%d extra", stats.OverCompleted)
	}
	return line
}
