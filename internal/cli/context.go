package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"habitd/internal/config"
	"habitd/internal/model"
	"habitd/internal/quotes"
	"habitd/internal/scheduler"
	"habitd/internal/storage"
)

// Context carries the wired application services into command Run methods.
type Context struct {
	Repo     storage.Repository
	Planner  *scheduler.Planner
	Engine   *scheduler.Engine
	Quotes   *quotes.Service
	Config   config.RuntimeConfig
	Location *time.Location
	Logger   *slog.Logger
}

func today(loc *time.Location) string {
	return time.Now().In(loc).Format("2006-01-02")
}

// parseWeekdays turns day names or numbers into the 1..7 form, Monday first.
func parseWeekdays(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	names := map[string]int{
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
		"sun": 7, "sunday": 7,
	}
	seen := make(map[int]bool)
	var days []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		day, ok := names[part]
		if !ok {
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 || n > 7 {
				return "", fmt.Errorf("invalid weekday %q (use mon..sun or 1..7)", part)
			}
			day = n
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Ints(days)
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ","), nil
}

// parseTimes validates a comma-separated HH:MM list and normalizes spacing.
func parseTimes(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tod, err := model.ParseTimeOfDay(part)
		if err != nil {
			return "", fmt.Errorf("invalid reminder time %q (use HH:MM)", part)
		}
		parts = append(parts, tod.String())
	}
	return strings.Join(parts, ","), nil
}
