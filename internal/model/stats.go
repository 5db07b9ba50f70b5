package model

import (
	"math"
	"time"
)

// HabitStats summarizes a habit's completion history. CompletionRate is nil
// for habits without configured reminder times: without a denominator of
// expected occurrences a success rate is meaningless, so only raw
// completed-day streaks are reported.
type HabitStats struct {
	CompletedCount int
	TotalDays      int
	CompletionRate *int
	CurrentStreak  int
	BestStreak     int
	OverCompleted  int
}

// ComputeStats derives completion and streak statistics for a habit from
// its logs, evaluated as of today. Pure: safe to recompute on every log
// mutation.
//
// The expected-occurrence denominator for a date is (reminder enabled) x
// (date's weekday is configured) x (number of reminder times), summed from
// the creation date through today inclusive. CompletedCount counts
// completed log rows; streaks count distinct calendar dates with at least
// one completed log.
func ComputeStats(habit Habit, logs []HabitLog, today time.Time) HabitStats {
	if habit.CreatedAt == "" {
		return HabitStats{}
	}
	created, err := time.Parse(dateLayout, habit.CreatedAt)
	if err != nil {
		return HabitStats{}
	}
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(created) {
		end = created
	}
	totalDays := int(end.Sub(created).Hours()/24) + 1

	completedCount := 0
	completedDates := make(map[string]bool)
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if _, err := time.Parse(dateLayout, l.Date); err != nil {
			continue
		}
		completedCount++
		completedDates[l.Date] = true
	}

	stats := HabitStats{
		CompletedCount: completedCount,
		TotalDays:      totalDays,
	}

	times := habit.ReminderTimesList()
	if len(times) > 0 {
		totalPlanned := 0
		if habit.ReminderEnabled {
			perDay := len(CanonicalTimes(times))
			days := make(map[int]bool, 7)
			for _, d := range habit.ReminderDaysSet() {
				days[d] = true
			}
			for d := created; !d.After(end); d = d.AddDate(0, 0, 1) {
				if days[isoWeekday(d.Weekday())] {
					totalPlanned += perDay
				}
			}
		}
		rate := 0
		if totalPlanned > 0 {
			rate = int(math.Round(float64(completedCount) / float64(totalPlanned) * 100))
		}
		stats.CompletionRate = &rate
		if completedCount > totalPlanned {
			stats.OverCompleted = completedCount - totalPlanned
		}
	}

	for d := end; completedDates[d.Format(dateLayout)]; d = d.AddDate(0, 0, -1) {
		stats.CurrentStreak++
	}

	streak := 0
	for d := created; !d.After(end); d = d.AddDate(0, 0, 1) {
		if completedDates[d.Format(dateLayout)] {
			streak++
			if streak > stats.BestStreak {
				stats.BestStreak = streak
			}
		} else {
			streak = 0
		}
	}
	return stats
}
