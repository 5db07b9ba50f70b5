package model

import "testing"

func mustTimeOfDay(t *testing.T, s string) TimeOfDay {
	t.Helper()
	out, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse time of day %q: %v", s, err)
	}
	return out
}

func TestExpandSlotsProducesOnePerDayTimePair(t *testing.T) {
	times := []TimeOfDay{mustTimeOfDay(t, "09:00"), mustTimeOfDay(t, "18:30"), mustTimeOfDay(t, "12:15")}
	days := []int{1, 3, 5}

	slots := ExpandSlots(times, days, true)
	if len(slots) != len(times)*len(days) {
		t.Fatalf("expected %d slots, got %d", len(times)*len(days), len(slots))
	}

	seen := make(map[FiringSlot]bool, len(slots))
	for _, s := range slots {
		if seen[s] {
			t.Fatalf("duplicate slot: %+v", s)
		}
		seen[s] = true
	}
}

func TestExpandSlotsEmptyDaysMeansAllSeven(t *testing.T) {
	times := []TimeOfDay{mustTimeOfDay(t, "09:00")}

	implicit := ExpandSlots(times, nil, true)
	explicit := ExpandSlots(times, []int{1, 2, 3, 4, 5, 6, 7}, true)
	if len(implicit) != len(explicit) {
		t.Fatalf("implicit all-days got %d slots, explicit got %d", len(implicit), len(explicit))
	}
	for i := range implicit {
		if implicit[i] != explicit[i] {
			t.Fatalf("slot %d differs: %+v vs %+v", i, implicit[i], explicit[i])
		}
	}
}

func TestExpandSlotsDisabledOrEmptyTimesIsEmpty(t *testing.T) {
	times := []TimeOfDay{mustTimeOfDay(t, "09:00")}
	if got := ExpandSlots(times, []int{1, 2}, false); len(got) != 0 {
		t.Fatalf("disabled reminder expanded to %d slots", len(got))
	}
	if got := ExpandSlots(nil, []int{1, 2}, true); len(got) != 0 {
		t.Fatalf("empty times expanded to %d slots", len(got))
	}
}

func TestExpandSlotsIndexFollowsAscendingTimeOrder(t *testing.T) {
	// Declared out of order: indexes must follow the canonical ascending
	// ordering, not the declaration order.
	times := []TimeOfDay{mustTimeOfDay(t, "20:00"), mustTimeOfDay(t, "07:30")}
	slots := ExpandSlots(times, []int{2}, true)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Time.String() != "07:30" || slots[0].TimeIndex != 0 {
		t.Fatalf("unexpected first slot: %+v", slots[0])
	}
	if slots[1].Time.String() != "20:00" || slots[1].TimeIndex != 1 {
		t.Fatalf("unexpected second slot: %+v", slots[1])
	}
}

func TestSlotKeyRoundTrip(t *testing.T) {
	key := SlotKey(42, 5, 17)
	if key != 42*1000+5*100+17 {
		t.Fatalf("unexpected key: %d", key)
	}
	habitID, weekday, timeIndex := SplitSlotKey(key)
	if habitID != 42 || weekday != 5 || timeIndex != 17 {
		t.Fatalf("round trip mismatch: habit=%d weekday=%d index=%d", habitID, weekday, timeIndex)
	}
	if IsOneShotKey(key) {
		t.Fatalf("recurring key reported as one-shot")
	}
	if !IsOneShotKey(OneShotKey(42, 0)) {
		t.Fatalf("one-shot key not recognized")
	}
}

func TestSlotKeysDoNotCollideAcrossHabits(t *testing.T) {
	seen := make(map[int64]bool)
	for habitID := int64(1); habitID <= 3; habitID++ {
		for weekday := 1; weekday <= 7; weekday++ {
			for idx := 0; idx < MaxTimesPerHabit; idx++ {
				key := SlotKey(habitID, weekday, idx)
				if seen[key] {
					t.Fatalf("collision at habit=%d weekday=%d index=%d", habitID, weekday, idx)
				}
				seen[key] = true
			}
		}
	}
}
