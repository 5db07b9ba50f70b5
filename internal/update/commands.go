package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"habitd/internal/model"
	"habitd/internal/scheduler"
	"habitd/internal/storage"
	"habitd/internal/views"
)

func (m Model) loadHabitsCmd() tea.Cmd {
	repo := m.deps.Repo
	loc := m.deps.Location
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		habits, err := repo.ListHabits(ctx)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load habits: %w", err)}
		}
		today := time.Now().In(loc).Format("2006-01-02")
		done := make(map[int64]bool, len(habits))
		for _, habit := range habits {
			entry, lookupErr := repo.GetLogByDate(ctx, habit.ID, today)
			if lookupErr != nil {
				continue
			}
			done[habit.ID] = entry.Completed
		}
		return HabitsLoadedMsg{Habits: habits, DoneToday: done}
	}
}

func (m Model) loadStatsCmd() tea.Cmd {
	repo := m.deps.Repo
	loc := m.deps.Location
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		habits, err := repo.ListHabits(ctx)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load habits: %w", err)}
		}
		now := time.Now().In(loc)
		items := make([]views.StatsItemData, 0, len(habits))
		for _, habit := range habits {
			logs, logErr := repo.ListLogsForHabit(ctx, habit.ID)
			if logErr != nil {
				return AppErrorMsg{Err: fmt.Errorf("load logs for %d: %w", habit.ID, logErr)}
			}
			stats := model.ComputeStats(habit, logs, now)
			items = append(items, views.StatsItemData{
				Name:           habit.Name,
				CompletedCount: stats.CompletedCount,
				CompletionRate: stats.CompletionRate,
				CurrentStreak:  stats.CurrentStreak,
				BestStreak:     stats.BestStreak,
				OverCompleted:  stats.OverCompleted,
			})
		}
		return StatsLoadedMsg{Items: items}
	}
}

func (m Model) fetchQuoteCmd() tea.Cmd {
	service := m.deps.Quotes
	return func() tea.Msg {
		quote, err := service.Daily(context.Background())
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("fetch quote: %w", err)}
		}
		return QuoteLoadedMsg{Quote: quote}
	}
}

func (m Model) addHabitCmd(name string) tea.Cmd {
	repo := m.deps.Repo
	loc := m.deps.Location
	return func() tea.Msg {
		habit := model.Habit{
			Name:      name,
			CreatedAt: time.Now().In(loc).Format("2006-01-02"),
		}
		if _, err := repo.CreateHabit(context.Background(), habit); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("add habit: %w", err)}
		}
		return m.loadHabitsCmd()()
	}
}

func (m Model) toggleDoneCmd(habit model.Habit) tea.Cmd {
	repo := m.deps.Repo
	loc := m.deps.Location
	done := m.DoneToday[habit.ID]
	return func() tea.Msg {
		ctx := context.Background()
		today := time.Now().In(loc).Format("2006-01-02")
		if done {
			entry, err := repo.GetLogByDate(ctx, habit.ID, today)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return m.loadHabitsCmd()()
				}
				return AppErrorMsg{Err: fmt.Errorf("find log: %w", err)}
			}
			entry.Completed = false
			if err := repo.UpdateLog(ctx, entry); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("undo log: %w", err)}
			}
		} else {
			if err := repo.InsertLog(ctx, model.HabitLog{
				HabitID:   habit.ID,
				Date:      today,
				Completed: true,
			}); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("log completion: %w", err)}
			}
		}
		return m.loadHabitsCmd()()
	}
}

func (m Model) deleteHabitCmd(habit model.Habit) tea.Cmd {
	repo := m.deps.Repo
	planner := m.deps.Planner
	return func() tea.Msg {
		if planner != nil {
			planner.Cancel(habit.ID)
		}
		if err := repo.DeleteHabit(context.Background(), habit.ID); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("delete habit: %w", err)}
		}
		return m.loadHabitsCmd()()
	}
}

func (m Model) toggleReminderCmd(habit model.Habit) tea.Cmd {
	repo := m.deps.Repo
	planner := m.deps.Planner
	return func() tea.Msg {
		ctx := context.Background()
		habit.ReminderEnabled = !habit.ReminderEnabled
		if err := repo.UpdateHabit(ctx, habit); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("update habit: %w", err)}
		}
		if planner != nil {
			if habit.HasScheduledTimes() {
				if err := planner.Schedule(habit); err != nil {
					if errors.Is(err, scheduler.ErrPermissionDenied) {
						return SetStatusMsg{Text: "reminder pending alarm permission"}
					}
					return AppErrorMsg{Err: fmt.Errorf("schedule reminders: %w", err)}
				}
			} else {
				planner.Cancel(habit.ID)
			}
		}
		return m.loadHabitsCmd()()
	}
}
