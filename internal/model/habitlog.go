package model

import (
	"errors"
	"fmt"
	"time"
)

// HabitLog records one completion for a habit on a date. ReminderTime names
// the scheduled slot the completion belongs to; nil means the habit was
// completed outside any scheduled slot. At most one log exists per
// (habit, date, reminder time) tuple, enforced at the storage boundary.
type HabitLog struct {
	ID           int64
	HabitID      int64
	Date         string // ISO date
	Completed    bool
	ReminderTime *string
}

func (l HabitLog) Validate() error {
	if l.HabitID <= 0 {
		return errors.New("model: log habit id is required")
	}
	if _, err := time.Parse(dateLayout, l.Date); err != nil {
		return fmt.Errorf("model: log date %q is not an ISO date", l.Date)
	}
	if l.ReminderTime != nil {
		if _, err := ParseTimeOfDay(*l.ReminderTime); err != nil {
			return err
		}
	}
	return nil
}
