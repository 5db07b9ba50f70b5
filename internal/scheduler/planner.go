package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"habitd/internal/model"
)

// HabitSource is the slice of storage the scheduling core reads from.
type HabitSource interface {
	GetHabit(ctx context.Context, id int64) (model.Habit, error)
	ListHabitsWithReminders(ctx context.Context) ([]model.Habit, error)
}

// Planner turns a habit's reminder configuration into armed alarms: one
// planning pass cancels the habit's complete previous slot surface, expands
// the current configuration, resolves each slot's next occurrence and arms
// it under a deterministic key. Passes for the same habit id are
// serialized; different habits may plan concurrently.
type Planner struct {
	sink   AlarmSink
	loc    *time.Location
	clock  func() time.Time
	logger *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewPlanner(sink AlarmSink, loc *time.Location) *Planner {
	return NewPlannerWithClock(sink, loc, time.Now)
}

// NewPlannerWithClock exists for deterministic tests.
func NewPlannerWithClock(sink AlarmSink, loc *time.Location, clock func() time.Time) *Planner {
	if loc == nil {
		loc = time.Local
	}
	return &Planner{
		sink:   sink,
		loc:    loc,
		clock:  clock,
		logger: slog.Default(),
		locks:  make(map[int64]*sync.Mutex),
	}
}

func (p *Planner) lockFor(habitID int64) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[habitID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[habitID] = lock
	}
	return lock
}

// Schedule plans all firing slots for one habit. It is a no-op for habits
// with reminders disabled or no configured times, and fail-closed when
// exact scheduling is not permitted: nothing is armed and the previously
// armed set is left untouched for the caller to deal with after the user
// grants permission.
func (p *Planner) Schedule(habit model.Habit) error {
	lock := p.lockFor(habit.ID)
	lock.Lock()
	defer lock.Unlock()

	if !habit.HasScheduledTimes() {
		return nil
	}
	if !p.sink.CanScheduleExact() {
		return fmt.Errorf("habit %d: %w", habit.ID, ErrPermissionDenied)
	}

	p.cancelLocked(habit.ID)

	slots := model.ExpandSlots(habit.ReminderTimesList(), habit.ReminderDaysSet(), habit.ReminderEnabled)
	now := p.clock()
	for _, slot := range slots {
		at, err := slot.NextOccurrence(now, p.loc)
		if err != nil {
			// A non-future resolution is an internal invariant violation;
			// skip the slot instead of arming an immediate spurious fire.
			p.logger.Warn("skipping unresolvable slot",
				"habit", habit.ID, "weekday", slot.Weekday, "time", slot.Time.String(), "err", err)
			continue
		}
		if err := p.sink.Arm(model.SlotKey(habit.ID, slot.Weekday, slot.TimeIndex), at); err != nil {
			return fmt.Errorf("habit %d: arm slot %d/%s: %w", habit.ID, slot.Weekday, slot.Time, err)
		}
	}
	return nil
}

// Cancel disarms every alarm the habit could hold under any configuration
// it ever had: the full weekday range crossed with the full time-index
// range, plus the one-shot namespace. A prior edit may have covered days or
// times the current configuration no longer mentions, so cancellation never
// consults the configuration at all.
func (p *Planner) Cancel(habitID int64) {
	lock := p.lockFor(habitID)
	lock.Lock()
	defer lock.Unlock()
	p.cancelLocked(habitID)
}

func (p *Planner) cancelLocked(habitID int64) {
	for weekday := 1; weekday <= 7; weekday++ {
		for idx := 0; idx < model.MaxTimesPerHabit; idx++ {
			p.sink.Disarm(model.SlotKey(habitID, weekday, idx))
		}
	}
	for idx := 0; idx < model.MaxTimesPerHabit; idx++ {
		p.sink.Disarm(model.OneShotKey(habitID, idx))
	}
}

// ScheduleOneShot arms a single diagnostic alarm a short delay from now.
// One-shot keys are outside the recurring weekday namespace, so the fire
// handler shows the notification once and never re-arms them.
func (p *Planner) ScheduleOneShot(habit model.Habit, delay time.Duration) error {
	if !p.sink.CanScheduleExact() {
		return fmt.Errorf("habit %d: %w", habit.ID, ErrPermissionDenied)
	}
	if delay <= 0 {
		delay = 10 * time.Second
	}
	return p.sink.Arm(model.OneShotKey(habit.ID, 0), p.clock().Add(delay))
}

// Reconcile re-plans every reminder-enabled habit. Callers run it once at
// startup, before the UI reports reminder state, because platform wake-ups
// do not survive a restart. It is idempotent: re-running it yields the same
// armed set.
func (p *Planner) Reconcile(ctx context.Context, habits HabitSource) error {
	enabled, err := habits.ListHabitsWithReminders(ctx)
	if err != nil {
		return fmt.Errorf("list habits with reminders: %w", err)
	}
	var errs []error
	for _, habit := range enabled {
		if err := p.Schedule(habit); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
