package model

import "sort"

// MaxTimesPerHabit bounds the number of reminder times one habit may carry.
// The slot key packs the time index into the hundreds digit pair below the
// weekday, so indexes must stay under 100 for keys to be collision-free.
const MaxTimesPerHabit = 100

// oneShotWeekday is the reserved weekday field for diagnostic one-shot
// alarms. It is outside 1..7, so the fire handler never re-arms such keys.
const oneShotWeekday = 9

// FiringSlot is one recurring alarm for one habit: a weekday (1=Monday..
// 7=Sunday), a time of day, and the index of that time within the habit's
// canonically ordered time list. Slots are derived, never persisted.
type FiringSlot struct {
	Weekday   int
	Time      TimeOfDay
	TimeIndex int
}

// SlotKey builds the stable alarm key for a slot. The same (habit, weekday,
// index) triple always yields the same key, across process restarts, which
// makes re-scheduling idempotent: arming the same slot twice overwrites
// instead of duplicating.
func SlotKey(habitID int64, weekday, timeIndex int) int64 {
	return habitID*1000 + int64(weekday)*100 + int64(timeIndex)
}

// OneShotKey builds the key for a diagnostic one-shot alarm.
func OneShotKey(habitID int64, timeIndex int) int64 {
	return SlotKey(habitID, oneShotWeekday, timeIndex)
}

// SplitSlotKey decomposes a slot key into its parts.
func SplitSlotKey(key int64) (habitID int64, weekday, timeIndex int) {
	return key / 1000, int(key % 1000 / 100), int(key % 100)
}

// IsOneShotKey reports whether key belongs to the reserved one-shot
// namespace rather than a recurring weekday slot.
func IsOneShotKey(key int64) bool {
	_, weekday, _ := SplitSlotKey(key)
	return weekday < 1 || weekday > 7
}

// CanonicalTimes sorts times ascending and removes duplicates. Slot time
// indexes are assigned against this ordering, so expansion and re-arming
// agree on which index names which time.
func CanonicalTimes(times []TimeOfDay) []TimeOfDay {
	out := make([]TimeOfDay, 0, len(times))
	seen := make(map[TimeOfDay]bool, len(times))
	for _, t := range times {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinuteOfDay() < out[j].MinuteOfDay() })
	return out
}

// ExpandSlots expands a reminder configuration into its firing slots: one
// slot per (weekday, time) pair. A disabled reminder or empty time list
// yields no slots; an empty day set means all seven weekdays.
func ExpandSlots(times []TimeOfDay, days []int, enabled bool) []FiringSlot {
	if !enabled || len(times) == 0 {
		return nil
	}
	if len(days) == 0 {
		days = AllWeekdays()
	}
	canonical := CanonicalTimes(times)
	if len(canonical) > MaxTimesPerHabit {
		canonical = canonical[:MaxTimesPerHabit]
	}

	weekdays := make([]int, 0, len(days))
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d >= 1 && d <= 7 && !seen[d] {
			seen[d] = true
			weekdays = append(weekdays, d)
		}
	}
	sort.Ints(weekdays)

	out := make([]FiringSlot, 0, len(canonical)*len(weekdays))
	for idx, t := range canonical {
		for _, d := range weekdays {
			out = append(out, FiringSlot{Weekday: d, Time: t, TimeIndex: idx})
		}
	}
	return out
}
