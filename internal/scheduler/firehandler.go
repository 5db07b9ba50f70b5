package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"habitd/internal/model"
	"habitd/internal/storage"
)

// FireHandler reacts to delivered wake-ups: it shows the habit's
// notification and re-arms the slot's successor occurrence under the same
// key, so the recurrence survives indefinitely without a periodic re-scan.
// Failures on the re-arm path are logged, never fatal: the notification for
// the current fire always wins.
type FireHandler struct {
	engine   *Engine
	habits   HabitSource
	notifier NotificationSink
	loc      *time.Location
	clock    func() time.Time
	logger   *slog.Logger
}

func NewFireHandler(engine *Engine, habits HabitSource, notifier NotificationSink, loc *time.Location) *FireHandler {
	if loc == nil {
		loc = time.Local
	}
	return &FireHandler{
		engine:   engine,
		habits:   habits,
		notifier: notifier,
		loc:      loc,
		clock:    time.Now,
		logger:   slog.Default(),
	}
}

// Run consumes firings until the context is cancelled or the engine stops.
func (f *FireHandler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case firing, ok := <-f.engine.C():
			if !ok {
				return
			}
			f.Handle(ctx, firing)
		}
	}
}

// Handle processes a single firing. Exported so a TUI event loop can bridge
// firings through its own message pump instead of running the loop above.
func (f *FireHandler) Handle(ctx context.Context, firing Firing) {
	habitID, weekday, timeIndex := model.SplitSlotKey(firing.Key)

	habit, err := f.habits.GetHabit(ctx, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Habit deleted between arming and firing; nothing to show.
			return
		}
		f.logger.Error("load habit for firing", "key", firing.Key, "err", err)
		return
	}
	if !habit.ReminderEnabled {
		return
	}

	// One notification per habit: the id coalesces multiple slots into a
	// single visible entry instead of stacking.
	title := "Habit reminder"
	body := fmt.Sprintf("Don't forget: %s", habit.Name)
	if err := f.notifier.Show(habit.ID, title, body, habit.ReminderSoundURI); err != nil {
		f.logger.Warn("show notification", "habit", habit.ID, "err", err)
	}

	if model.IsOneShotKey(firing.Key) {
		return
	}
	f.rearm(habit, weekday, timeIndex, firing.Key)
}

func (f *FireHandler) rearm(habit model.Habit, weekday, timeIndex int, key int64) {
	times := model.CanonicalTimes(habit.ReminderTimesList())
	if timeIndex >= len(times) {
		// The configuration shrank since this alarm was armed; the next
		// planning pass owns the new surface.
		f.logger.Warn("stale slot index, not re-arming", "habit", habit.ID, "index", timeIndex)
		return
	}
	slot := model.FiringSlot{Weekday: weekday, Time: times[timeIndex], TimeIndex: timeIndex}

	next, err := slot.NextOccurrence(f.clock(), f.loc)
	if err != nil {
		f.logger.Error("resolve successor occurrence", "habit", habit.ID, "key", key, "err", err)
		return
	}
	if err := f.engine.Arm(key, next); err != nil {
		f.logger.Error("re-arm slot", "habit", habit.ID, "key", key, "err", err)
	}
}
