package model

import (
	"errors"
	"testing"
	"time"
)

func TestNextOccurrenceLaterToday(t *testing.T) {
	// 2024-01-01 is a Monday.
	slot := FiringSlot{Weekday: 1, Time: TimeOfDay{Hour: 9}, TimeIndex: 0}
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	got, err := slot.NextOccurrence(now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestNextOccurrencePassedTodayRollsToNextWeek(t *testing.T) {
	slot := FiringSlot{Weekday: 1, Time: TimeOfDay{Hour: 9}, TimeIndex: 0}
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // Monday 10:00

	got, err := slot.NextOccurrence(now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestNextOccurrenceExactlyNowRollsToNextWeek(t *testing.T) {
	slot := FiringSlot{Weekday: 1, Time: TimeOfDay{Hour: 9}, TimeIndex: 0}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	got, err := slot.NextOccurrence(now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Day() != 8 {
		t.Fatalf("an occurrence equal to now must roll a full week, got %s", got)
	}
}

func TestNextOccurrenceAdvancesToMatchingWeekday(t *testing.T) {
	slot := FiringSlot{Weekday: 4, Time: TimeOfDay{Hour: 7, Minute: 30}, TimeIndex: 0} // Thursday
	now := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)                                // Monday

	got, err := slot.NextOccurrence(now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 1, 4, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestNextOccurrenceSundayMapping(t *testing.T) {
	slot := FiringSlot{Weekday: 7, Time: TimeOfDay{Hour: 12}, TimeIndex: 0}
	now := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC) // Saturday

	got, err := slot.NextOccurrence(now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Weekday() != time.Sunday || got.Day() != 7 {
		t.Fatalf("expected Sunday Jan 7, got %s", got)
	}
}

func TestNextOccurrenceAlwaysFuture(t *testing.T) {
	zones := []*time.Location{time.UTC, time.FixedZone("plus5", 5*3600), time.FixedZone("minus8", -8*3600)}
	base := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, loc := range zones {
		for weekday := 1; weekday <= 7; weekday++ {
			for hour := 0; hour < 24; hour += 5 {
				slot := FiringSlot{Weekday: weekday, Time: TimeOfDay{Hour: hour, Minute: 15}, TimeIndex: 0}
				now := base.Add(time.Duration(hour) * 13 * time.Minute)
				got, err := slot.NextOccurrence(now, loc)
				if err != nil {
					t.Fatalf("resolve weekday=%d hour=%d zone=%s: %v", weekday, hour, loc, err)
				}
				if !got.After(now) {
					t.Fatalf("occurrence %s not after now %s (weekday=%d zone=%s)", got, now, weekday, loc)
				}
				if got.Sub(now) > 7*24*time.Hour {
					t.Fatalf("occurrence %s more than a week out from %s", got, now)
				}
			}
		}
	}
}

func TestNextOccurrenceRespectsZone(t *testing.T) {
	slot := FiringSlot{Weekday: 1, Time: TimeOfDay{Hour: 9}, TimeIndex: 0}
	plus3 := time.FixedZone("plus3", 3*3600)
	// 06:30 UTC Monday is 09:30 in +03:00, so Monday 09:00 local has passed.
	now := time.Date(2024, 1, 1, 6, 30, 0, 0, time.UTC)

	got, err := slot.NextOccurrence(now, plus3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, plus3)
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestNextOccurrenceRejectsInvalidWeekday(t *testing.T) {
	slot := FiringSlot{Weekday: 9, Time: TimeOfDay{Hour: 9}, TimeIndex: 0}
	_, err := slot.NextOccurrence(time.Now(), time.UTC)
	if !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestFireAndRearmChainStaysWeekly(t *testing.T) {
	// Simulate ten fire/re-arm cycles for a Wednesday 08:00 slot: each
	// successor must land exactly one week after the previous firing.
	slot := FiringSlot{Weekday: 3, Time: TimeOfDay{Hour: 8}, TimeIndex: 0}
	now := time.Date(2024, 2, 5, 14, 22, 0, 0, time.UTC) // Monday afternoon

	fireAt, err := slot.NextOccurrence(now, time.UTC)
	if err != nil {
		t.Fatalf("initial resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := slot.NextOccurrence(fireAt, time.UTC)
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if next.Sub(fireAt) != 7*24*time.Hour {
			t.Fatalf("cycle %d: gap %s, want exactly one week", i, next.Sub(fireAt))
		}
		if next.Weekday() != time.Wednesday || next.Hour() != 8 {
			t.Fatalf("cycle %d: landed on %s", i, next)
		}
		fireAt = next
	}
}
