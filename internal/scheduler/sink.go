package scheduler

import (
	"errors"
	"time"
)

var (
	// ErrPermissionDenied means exact scheduling is not currently
	// authorized. A planning pass that hits it arms nothing: a partial
	// schedule under denied permission would leave a confusing mix of
	// firing and non-firing reminders.
	ErrPermissionDenied = errors.New("scheduler: exact scheduling permission denied")

	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

// AlarmSink is the platform wake-up capability the scheduling core depends
// on. Alarms are identified by stable keys; arming an existing key replaces
// the previous registration, and disarming an unknown key is not an error.
type AlarmSink interface {
	Arm(key int64, at time.Time) error
	Disarm(key int64)
	CanScheduleExact() bool
}

// NotificationSink delivers user-visible notifications. EnsureChannel must
// be called whenever the configured notification sound changes, since on
// some platforms a channel's sound is immutable once created.
type NotificationSink interface {
	Show(id int64, title, body, soundURI string) error
	EnsureChannel(soundURI string) error
}
