package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"habitd/internal/model"
)

type fakeSink struct {
	mu      sync.Mutex
	armed   map[int64]time.Time
	exact   bool
	armErr  error
	disarms int
}

func newFakeSink() *fakeSink {
	return &fakeSink{armed: make(map[int64]time.Time), exact: true}
}

func (s *fakeSink) Arm(key int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armErr != nil {
		return s.armErr
	}
	s.armed[key] = at
	return nil
}

func (s *fakeSink) Disarm(key int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarms++
	delete(s.armed, key)
}

func (s *fakeSink) CanScheduleExact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exact
}

func (s *fakeSink) snapshot() map[int64]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]time.Time, len(s.armed))
	for k, v := range s.armed {
		out[k] = v
	}
	return out
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Monday 2024-01-01 08:00 UTC.
var plannerNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func testHabit() model.Habit {
	return model.Habit{
		ID:              5,
		Name:            "Read",
		CreatedAt:       "2024-01-01",
		ReminderEnabled: true,
		ReminderTimes:   "09:00,18:00",
		ReminderDays:    "1,3",
	}
}

func TestScheduleArmsOneSlotPerDayTimePair(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	if err := planner.Schedule(testHabit()); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	armed := sink.snapshot()
	if len(armed) != 4 {
		t.Fatalf("expected 4 armed slots, got %d: %v", len(armed), armed)
	}
	// Monday 09:00 is still ahead of the 08:00 clock.
	at, ok := armed[model.SlotKey(5, 1, 0)]
	if !ok || !at.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("monday 09:00 slot armed at %s", at)
	}
	at, ok = armed[model.SlotKey(5, 3, 1)]
	if !ok || !at.Equal(time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("wednesday 18:00 slot armed at %s", at)
	}
}

func TestScheduleIsIdempotent(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))
	habit := testHabit()

	if err := planner.Schedule(habit); err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	first := sink.snapshot()
	if err := planner.Schedule(habit); err != nil {
		t.Fatalf("second schedule: %v", err)
	}
	second := sink.snapshot()

	if len(first) != len(second) {
		t.Fatalf("armed set changed size: %d vs %d", len(first), len(second))
	}
	for key, at := range first {
		if !second[key].Equal(at) {
			t.Fatalf("key %d moved from %s to %s", key, at, second[key])
		}
	}
}

func TestScheduleNoOpWhenDisabledOrNoTimes(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	disabled := testHabit()
	disabled.ReminderEnabled = false
	if err := planner.Schedule(disabled); err != nil {
		t.Fatalf("schedule disabled: %v", err)
	}
	timeless := testHabit()
	timeless.ReminderTimes = ""
	if err := planner.Schedule(timeless); err != nil {
		t.Fatalf("schedule timeless: %v", err)
	}
	if len(sink.snapshot()) != 0 || sink.disarms != 0 {
		t.Fatalf("no-op schedule touched the sink")
	}
}

func TestScheduleFailsClosedWithoutPermission(t *testing.T) {
	sink := newFakeSink()
	sink.exact = false
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	err := planner.Schedule(testHabit())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(sink.snapshot()) != 0 {
		t.Fatalf("slots armed despite denied permission")
	}
	if sink.disarms != 0 {
		t.Fatalf("previous alarms cancelled despite denied permission")
	}
}

func TestScheduleCancelsRemovedDays(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	habit := testHabit()
	habit.ReminderDays = "1,2,3,4,5,6,7"
	if err := planner.Schedule(habit); err != nil {
		t.Fatalf("initial schedule: %v", err)
	}

	habit.ReminderDays = "1"
	habit.ReminderTimes = "09:00"
	if err := planner.Schedule(habit); err != nil {
		t.Fatalf("narrowed schedule: %v", err)
	}

	armed := sink.snapshot()
	if len(armed) != 1 {
		t.Fatalf("stale slots survived the edit: %v", armed)
	}
	if _, ok := armed[model.SlotKey(5, 1, 0)]; !ok {
		t.Fatalf("expected only monday slot, got %v", armed)
	}
}

func TestCancelSweepsFullSurface(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	if err := planner.Schedule(testHabit()); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	planner.Cancel(5)
	if len(sink.snapshot()) != 0 {
		t.Fatalf("alarms survived cancel: %v", sink.snapshot())
	}
}

func TestScheduleOneShot(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	if err := planner.ScheduleOneShot(testHabit(), 5*time.Second); err != nil {
		t.Fatalf("schedule one-shot: %v", err)
	}
	at, ok := sink.snapshot()[model.OneShotKey(5, 0)]
	if !ok || !at.Equal(plannerNow.Add(5*time.Second)) {
		t.Fatalf("one-shot armed at %s", at)
	}
}

type fakeHabitSource struct {
	habits map[int64]model.Habit
}

func (s *fakeHabitSource) GetHabit(ctx context.Context, id int64) (model.Habit, error) {
	habit, ok := s.habits[id]
	if !ok {
		return model.Habit{}, errNotFoundForTest
	}
	return habit, nil
}

func (s *fakeHabitSource) ListHabitsWithReminders(ctx context.Context) ([]model.Habit, error) {
	out := make([]model.Habit, 0, len(s.habits))
	for _, habit := range s.habits {
		if habit.ReminderEnabled {
			out = append(out, habit)
		}
	}
	return out, nil
}

func TestReconcileArmsAllEnabledHabits(t *testing.T) {
	sink := newFakeSink()
	planner := NewPlannerWithClock(sink, time.UTC, fixedClock(plannerNow))

	second := testHabit()
	second.ID = 6
	second.ReminderTimes = "07:00"
	second.ReminderDays = ""
	source := &fakeHabitSource{habits: map[int64]model.Habit{
		5: testHabit(),
		6: second,
	}}

	if err := planner.Reconcile(context.Background(), source); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	armed := sink.snapshot()
	if len(armed) != 4+7 {
		t.Fatalf("expected 11 armed slots, got %d", len(armed))
	}
}
