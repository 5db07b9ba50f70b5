package storage

import (
	"context"
	"errors"

	"habitd/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Preference keys shared between the TUI, the notifier and the quote view.
const (
	PrefDarkMode             = "dark_mode"
	PrefNotificationsEnabled = "notifications_enabled"
	PrefLastQuoteID          = "last_quote_id"
	PrefNotificationSound    = "notification_sound_uri"
)

type Repository interface {
	CreateHabit(ctx context.Context, in model.Habit) (int64, error)
	GetHabit(ctx context.Context, id int64) (model.Habit, error)
	UpdateHabit(ctx context.Context, in model.Habit) error
	DeleteHabit(ctx context.Context, id int64) error
	ListHabits(ctx context.Context) ([]model.Habit, error)
	ListHabitsWithReminders(ctx context.Context) ([]model.Habit, error)

	// InsertLog ignores duplicates: at most one log exists per
	// (habit, date, reminder time) tuple, and logging the same slot twice
	// on the same day is a no-op, not an error.
	InsertLog(ctx context.Context, in model.HabitLog) error
	UpdateLog(ctx context.Context, in model.HabitLog) error
	DeleteLog(ctx context.Context, id int64) error
	ListLogsForHabit(ctx context.Context, habitID int64) ([]model.HabitLog, error)
	GetLogByDate(ctx context.Context, habitID int64, date string) (model.HabitLog, error)
	GetLogByDateAndTime(ctx context.Context, habitID int64, date, reminderTime string) (model.HabitLog, error)

	InsertQuotes(ctx context.Context, quotes []model.Quote) error
	RandomQuote(ctx context.Context) (model.Quote, error)
	RandomQuoteByCategory(ctx context.Context, category string) (model.Quote, error)
	ClearQuotes(ctx context.Context) error

	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
}
