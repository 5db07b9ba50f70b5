package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitd/internal/model"
	"habitd/internal/scheduler"
)

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"D" help:"Optional description."`
	Times       string `short:"t" help:"Comma-separated reminder times (HH:MM)."`
	Days        string `short:"d" help:"Comma-separated reminder days (mon..sun or 1..7). Empty means every day."`
	Remind      bool   `short:"r" help:"Enable reminders." default:"true" negatable:""`
	Sound       string `help:"Notification sound URI."`
}

func (c *HabitAddCmd) Run(appCtx *Context) error {
	ctx := context.Background()

	times, err := parseTimes(c.Times)
	if err != nil {
		return err
	}
	days, err := parseWeekdays(c.Days)
	if err != nil {
		return err
	}

	habit := model.Habit{
		Name:             c.Name,
		Description:      c.Description,
		CreatedAt:        today(appCtx.Location),
		ReminderEnabled:  c.Remind,
		ReminderTimes:    times,
		ReminderDays:     days,
		ReminderSoundURI: c.Sound,
	}
	if err := habit.Validate(); err != nil {
		return err
	}

	id, err := appCtx.Repo.CreateHabit(ctx, habit)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	habit.ID = id

	if err := appCtx.Planner.Schedule(habit); err != nil {
		if errors.Is(err, scheduler.ErrPermissionDenied) {
			fmt.Printf("Added habit %q (id %d); reminders pending alarm permission\n", habit.Name, id)
			return nil
		}
		return fmt.Errorf("schedule reminders: %w", err)
	}
	fmt.Printf("Added habit %q (id %d)\n", habit.Name, id)
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include habits without reminders."`
}

func (c *HabitListCmd) Run(appCtx *Context) error {
	ctx := context.Background()

	var habits []model.Habit
	var err error
	if c.All {
		habits, err = appCtx.Repo.ListHabits(ctx)
	} else {
		habits, err = appCtx.Repo.ListHabitsWithReminders(ctx)
	}
	if err != nil {
		return fmt.Errorf("list habits: %w", err)
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet.")
		return nil
	}
	for _, habit := range habits {
		line := fmt.Sprintf("%4d  %s", habit.ID, habit.Name)
		if habit.ReminderEnabled && habit.ReminderTimes != "" {
			days := habit.ReminderDays
			if days == "" {
				days = "every day"
			}
			line += fmt.Sprintf("  [%s at %s]", days, habit.ReminderTimes)
		}
		fmt.Println(line)
	}
	return nil
}

type HabitEditCmd struct {
	ID          int64   `arg:"" help:"Habit id."`
	Name        *string `help:"New name."`
	Description *string `short:"D" help:"New description."`
	Times       *string `short:"t" help:"New reminder times (HH:MM, comma-separated)."`
	Days        *string `short:"d" help:"New reminder days."`
	Remind      *bool   `short:"r" help:"Enable or disable reminders."`
	Sound       *string `help:"New notification sound URI."`
}

func (c *HabitEditCmd) Run(appCtx *Context) error {
	ctx := context.Background()

	habit, err := appCtx.Repo.GetHabit(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("load habit %d: %w", c.ID, err)
	}

	if c.Name != nil {
		habit.Name = strings.TrimSpace(*c.Name)
	}
	if c.Description != nil {
		habit.Description = *c.Description
	}
	if c.Times != nil {
		times, parseErr := parseTimes(*c.Times)
		if parseErr != nil {
			return parseErr
		}
		habit.ReminderTimes = times
	}
	if c.Days != nil {
		days, parseErr := parseWeekdays(*c.Days)
		if parseErr != nil {
			return parseErr
		}
		habit.ReminderDays = days
	}
	if c.Remind != nil {
		habit.ReminderEnabled = *c.Remind
	}
	if c.Sound != nil {
		habit.ReminderSoundURI = *c.Sound
	}
	if err := habit.Validate(); err != nil {
		return err
	}

	if err := appCtx.Repo.UpdateHabit(ctx, habit); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	// Reschedule against the new configuration. Stale slots are swept,
	// disabled habits lose their alarms entirely.
	if habit.HasScheduledTimes() {
		if err := appCtx.Planner.Schedule(habit); err != nil {
			if errors.Is(err, scheduler.ErrPermissionDenied) {
				fmt.Println("Habit updated; reminders pending alarm permission")
				return nil
			}
			return fmt.Errorf("reschedule reminders: %w", err)
		}
	} else {
		appCtx.Planner.Cancel(habit.ID)
	}
	fmt.Printf("Updated habit %d\n", habit.ID)
	return nil
}

type HabitDeleteCmd struct {
	ID int64 `arg:"" help:"Habit id."`
}

func (c *HabitDeleteCmd) Run(appCtx *Context) error {
	appCtx.Planner.Cancel(c.ID)
	if err := appCtx.Repo.DeleteHabit(context.Background(), c.ID); err != nil {
		return fmt.Errorf("delete habit %d: %w", c.ID, err)
	}
	fmt.Printf("Deleted habit %d\n", c.ID)
	return nil
}

type HabitTestCmd struct {
	ID    int64         `arg:"" help:"Habit id."`
	Delay time.Duration `short:"w" help:"Delay before the test notification." default:"10s"`
}

func (c *HabitTestCmd) Run(appCtx *Context) error {
	habit, err := appCtx.Repo.GetHabit(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("load habit %d: %w", c.ID, err)
	}
	if err := appCtx.Planner.ScheduleOneShot(habit, c.Delay); err != nil {
		return fmt.Errorf("schedule test notification: %w", err)
	}
	fmt.Printf("Test notification for %q in %s\n", habit.Name, c.Delay)
	return nil
}
