package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrPastOccurrence means the resolver produced an instant that is not
// strictly after now. The scheduler must never arm such an instant.
var ErrPastOccurrence = errors.New("model: computed occurrence is not in the future")

// isoWeekday maps time.Weekday to 1=Monday..7=Sunday.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// NextOccurrence computes the next absolute instant at or after now at
// which the slot fires, in the given zone. If today matches the slot's
// weekday and the slot time has not passed yet, that is today; once the
// time has passed the slot waits a full week. A slot fires at most once
// per calendar week from any resolution point.
func (s FiringSlot) NextOccurrence(now time.Time, loc *time.Location) (time.Time, error) {
	if s.Weekday < 1 || s.Weekday > 7 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidWeekday, s.Weekday)
	}
	local := now.In(loc)
	year, month, day := local.Date()
	candidate := time.Date(year, month, day, s.Time.Hour, s.Time.Minute, 0, 0, loc)

	if isoWeekday(local.Weekday()) == s.Weekday {
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
	} else {
		for isoWeekday(candidate.Weekday()) != s.Weekday {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}

	// Guards against clock or zone conversion bugs producing an instant
	// that would fire immediately.
	if !candidate.After(now) {
		return time.Time{}, fmt.Errorf("%w: slot %d/%s resolved to %s at %s",
			ErrPastOccurrence, s.Weekday, s.Time, candidate.Format(time.RFC3339), now.In(loc).Format(time.RFC3339))
	}
	return candidate, nil
}
