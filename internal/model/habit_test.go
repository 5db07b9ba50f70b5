package model

import (
	"errors"
	"testing"
)

func TestHabitValidate(t *testing.T) {
	habit := Habit{Name: "Read", CreatedAt: "2024-01-01", ReminderTimes: "09:00", ReminderDays: "1,7"}
	if err := habit.Validate(); err != nil {
		t.Fatalf("valid habit rejected: %v", err)
	}

	if err := (Habit{Name: "  "}).Validate(); err == nil {
		t.Fatalf("blank name accepted")
	}
	if err := (Habit{Name: "X", CreatedAt: "01/02/2024"}).Validate(); err == nil {
		t.Fatalf("non-ISO created_at accepted")
	}
	err := Habit{Name: "X", ReminderDays: "1,8"}.Validate()
	if !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestReminderTimesListSubstitutesDefaultForBadEntry(t *testing.T) {
	habit := Habit{Name: "Read", ReminderTimes: "08:15,not-a-time,21:00"}
	times := habit.ReminderTimesList()
	if len(times) != 3 {
		t.Fatalf("expected 3 times, got %d", len(times))
	}
	if times[1] != DefaultReminderTime {
		t.Fatalf("bad entry became %s, want %s", times[1], DefaultReminderTime)
	}
}

func TestReminderDaysSetEmptyMeansAllDays(t *testing.T) {
	habit := Habit{Name: "Read"}
	days := habit.ReminderDaysSet()
	if len(days) != 7 {
		t.Fatalf("expected all 7 days, got %v", days)
	}
}

func TestReminderDaysSetDedupesAndSorts(t *testing.T) {
	habit := Habit{Name: "Read", ReminderDays: "5, 1,5,3"}
	days := habit.ReminderDaysSet()
	want := []int{1, 3, 5}
	if len(days) != len(want) {
		t.Fatalf("got %v want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("got %v want %v", days, want)
		}
	}
}

func TestHasScheduledTimes(t *testing.T) {
	if (Habit{Name: "X", ReminderEnabled: true}).HasScheduledTimes() {
		t.Fatalf("habit with no times reported scheduled")
	}
	if (Habit{Name: "X", ReminderTimes: "09:00"}).HasScheduledTimes() {
		t.Fatalf("disabled habit reported scheduled")
	}
	if !(Habit{Name: "X", ReminderEnabled: true, ReminderTimes: "09:00"}).HasScheduledTimes() {
		t.Fatalf("enabled habit with times reported unscheduled")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay(" 07:45 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour != 7 || got.Minute != 45 {
		t.Fatalf("unexpected value: %+v", got)
	}
	if _, err := ParseTimeOfDay("25:00"); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
	}
}
