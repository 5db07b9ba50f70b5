package cli

import "testing"

func TestParseWeekdaysNamesAndNumbers(t *testing.T) {
	got, err := parseWeekdays("mon, wed,7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "1,3,7" {
		t.Fatalf("unexpected days: %q", got)
	}
}

func TestParseWeekdaysDeduplicatesAndSorts(t *testing.T) {
	got, err := parseWeekdays("friday,1,fri,monday")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "1,5" {
		t.Fatalf("unexpected days: %q", got)
	}
}

func TestParseWeekdaysRejectsJunk(t *testing.T) {
	if _, err := parseWeekdays("someday"); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
	if _, err := parseWeekdays("0"); err == nil {
		t.Fatalf("expected error for out-of-range number")
	}
}

func TestParseWeekdaysEmptyMeansEveryDay(t *testing.T) {
	got, err := parseWeekdays("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestParseTimesNormalizes(t *testing.T) {
	got, err := parseTimes(" 9:05 ,18:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "09:05,18:00" {
		t.Fatalf("unexpected times: %q", got)
	}
}

func TestParseTimesRejectsBadClock(t *testing.T) {
	if _, err := parseTimes("25:00"); err == nil {
		t.Fatalf("expected error for invalid hour")
	}
}
