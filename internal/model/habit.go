package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidTimeOfDay = errors.New("model: invalid time of day")
	ErrInvalidWeekday   = errors.New("model: invalid weekday")
)

// TimeOfDay is a wall-clock time without a date, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// DefaultReminderTime is substituted for reminder time entries that fail to
// parse, so one bad entry does not break the rest of a habit's slots.
var DefaultReminderTime = TimeOfDay{Hour: 9, Minute: 0}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// Habit is a recurring practice with an optional reminder configuration.
// ReminderTimes and ReminderDays are stored as comma-joined strings
// ("09:00,20:30" and "1,3,5", weekdays 1=Monday..7=Sunday). An empty
// ReminderDays means every day of the week.
type Habit struct {
	ID               int64
	Name             string
	Description      string
	CreatedAt        string // ISO date, set once at creation
	ReminderEnabled  bool
	ReminderTimes    string
	ReminderDays     string
	ReminderSoundURI string
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if h.CreatedAt != "" {
		if _, err := time.Parse(dateLayout, h.CreatedAt); err != nil {
			return fmt.Errorf("model: habit created_at %q is not an ISO date", h.CreatedAt)
		}
	}
	for _, raw := range splitList(h.ReminderDays) {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > 7 {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
		}
	}
	if n := len(splitList(h.ReminderTimes)); n > MaxTimesPerHabit {
		return fmt.Errorf("model: habit has %d reminder times, limit is %d", n, MaxTimesPerHabit)
	}
	return nil
}

// ReminderTimesList parses the comma-joined reminder times in declared
// order. Entries that fail to parse become DefaultReminderTime rather than
// aborting the whole configuration.
func (h Habit) ReminderTimesList() []TimeOfDay {
	parts := splitList(h.ReminderTimes)
	out := make([]TimeOfDay, 0, len(parts))
	for _, raw := range parts {
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			t = DefaultReminderTime
		}
		out = append(out, t)
	}
	return out
}

// ReminderDaysSet parses the configured weekdays, deduplicated and sorted.
// An empty configuration means all seven days.
func (h Habit) ReminderDaysSet() []int {
	parts := splitList(h.ReminderDays)
	if len(parts) == 0 {
		return AllWeekdays()
	}
	seen := make(map[int]bool, len(parts))
	out := make([]int, 0, len(parts))
	for _, raw := range parts {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > 7 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// HasScheduledTimes reports whether the habit can produce firing slots at
// all. A disabled reminder or an empty time list always means zero slots.
func (h Habit) HasScheduledTimes() bool {
	return h.ReminderEnabled && len(splitList(h.ReminderTimes)) > 0
}

func AllWeekdays() []int {
	return []int{1, 2, 3, 4, 5, 6, 7}
}

func splitList(raw string) []string {
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
