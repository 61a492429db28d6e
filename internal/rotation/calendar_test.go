package rotation

import (
	"errors"
	"testing"
	"time"

	"github.com/choreworld/choreworld.github.io/internal/config"
	"github.com/choreworld/choreworld.github.io/internal/types"
)

// fixedClock returns a constant instant, for deterministic calendar tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func defaultRotationConfig() config.RotationConfig {
	return config.RotationConfig{
		Timezone:  "Pacific/Auckland",
		Epoch:     "2021-04-11",
		BinsEpoch: "2023-02-15",
	}
}

func newTestResolver(t *testing.T, clock types.Clock) *Resolver {
	t.Helper()
	r, err := NewResolver(defaultRotationConfig(), clock)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	return r
}

func nzDate(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

// TestNewResolverRejectsBadTimezone verifies the typed error for an unknown zone.
func TestNewResolverRejectsBadTimezone(t *testing.T) {
	cfg := defaultRotationConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	_, err := NewResolver(cfg, nil)
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeConfigEnvironment {
		t.Errorf("expected %s, got %v", types.ErrCodeConfigEnvironment, err)
	}
}

// TestNewResolverRejectsBadEpoch verifies the typed error for a malformed epoch.
func TestNewResolverRejectsBadEpoch(t *testing.T) {
	cfg := defaultRotationConfig()
	cfg.Epoch = "April 11, 2021"

	_, err := NewResolver(cfg, nil)
	if err == nil {
		t.Fatal("expected error for malformed epoch")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeConfigEnvironment {
		t.Errorf("expected %s, got %v", types.ErrCodeConfigEnvironment, err)
	}
}

// TestWeekSunday verifies the week-boundary rule: advance (6 - weekday) mod 7
// days, Monday=0 through Sunday=6, so Sundays map to themselves.
func TestWeekSunday(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"monday start of week", "2021-04-05 09:00", "2021-04-11"},
		{"wednesday midweek", "2021-04-14 18:30", "2021-04-18"},
		{"saturday end", "2021-04-17 23:59", "2021-04-18"},
		{"sunday maps to itself", "2021-04-11 08:00", "2021-04-11"},
		{"pre-epoch tuesday", "2021-03-30 12:00", "2021-04-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.WeekSunday(nzDate(t, tt.in))
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("WeekSunday(%s) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
			if got.Weekday() != time.Sunday {
				t.Errorf("WeekSunday(%s) fell on %s", tt.in, got.Weekday())
			}
		})
	}
}

// TestWeekSundayPreservesTimeOfDay verifies only the date moves.
func TestWeekSundayPreservesTimeOfDay(t *testing.T) {
	r := newTestResolver(t, nil)

	got := r.WeekSunday(nzDate(t, "2021-04-14 18:30"))
	if got.Hour() != 18 || got.Minute() != 30 {
		t.Errorf("WeekSunday moved the clock: got %s", got.Format("15:04"))
	}
}

// TestOffset verifies whole-week counting from the epoch, including floor
// semantics before it.
func TestOffset(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"epoch sunday", "2021-04-11 00:00", 0},
		{"six days later", "2021-04-17 12:00", 0},
		{"one week later", "2021-04-18 00:00", 1},
		{"sunday before epoch", "2021-04-04 10:00", -1},
		{"two sundays before", "2021-03-28 10:00", -2},
		{"day before epoch", "2021-04-10 10:00", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Offset(nzDate(t, tt.in)); got != tt.want {
				t.Errorf("Offset(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// TestWeekStableAcrossWholeWeek verifies every instant from Monday 00:00
// through Sunday 23:59 of one rotation week resolves to the same Sunday and
// offset.
func TestWeekStableAcrossWholeWeek(t *testing.T) {
	r := newTestResolver(t, nil)

	instants := []string{
		"2021-04-12 00:00", // Monday
		"2021-04-13 07:45",
		"2021-04-14 12:00",
		"2021-04-15 19:30",
		"2021-04-16 23:00",
		"2021-04-17 06:15",
		"2021-04-18 23:59", // Sunday
	}
	for _, in := range instants {
		sunday, offset := r.Week(nzDate(t, in))
		if got := sunday.Format("2006-01-02"); got != "2021-04-18" {
			t.Errorf("Week(%s) sunday = %s, want 2021-04-18", in, got)
		}
		if offset != 1 {
			t.Errorf("Week(%s) offset = %d, want 1", in, offset)
		}
	}
}

// TestOffsetMonotonic verifies advancing the instant by seven days increments
// the offset by exactly one.
func TestOffsetMonotonic(t *testing.T) {
	r := newTestResolver(t, nil)

	start := nzDate(t, "2021-04-14 12:00")
	prevSunday, prevOffset := r.Week(start)
	for i := 1; i <= 60; i++ {
		sunday, offset := r.Week(start.AddDate(0, 0, 7*i))
		if offset != prevOffset+1 {
			t.Fatalf("week %d: offset = %d, want %d", i, offset, prevOffset+1)
		}
		if want := prevSunday.AddDate(0, 0, 7); sunday.Format("2006-01-02") != want.Format("2006-01-02") {
			t.Fatalf("week %d: sunday = %s, want %s", i,
				sunday.Format("2006-01-02"), want.Format("2006-01-02"))
		}
		prevSunday, prevOffset = sunday, offset
	}
}

// TestOffsetAcrossDSTTransitions verifies the civil-day arithmetic is immune
// to New Zealand's clock changes. DST ended 2021-04-04 and restarted
// 2021-09-26; both fall inside the tested range.
func TestOffsetAcrossDSTTransitions(t *testing.T) {
	r := newTestResolver(t, nil)

	// 2021-10-03 is the Sunday 25 whole weeks after the epoch, with the
	// spring-forward transition the week before.
	tests := []struct {
		in   string
		want int
	}{
		{"2021-09-27 00:15", 25}, // Monday just after spring forward
		{"2021-10-03 00:15", 25},
		{"2021-09-26 01:30", 24}, // DST transition day itself, pre-jump
		{"2021-09-26 13:00", 24},
	}
	for _, tt := range tests {
		_, offset := r.Week(nzDate(t, tt.in))
		if offset != tt.want {
			t.Errorf("Week(%s) offset = %d, want %d", tt.in, offset, tt.want)
		}
	}
}

// TestCurrentWeekUsesInjectedClock verifies the resolver reads time through
// its Clock.
func TestCurrentWeekUsesInjectedClock(t *testing.T) {
	instant := nzDate(t, "2021-04-14 12:00")
	r := newTestResolver(t, fixedClock{now: instant.UTC()})

	sunday, offset := r.CurrentWeek()
	if sunday.Format("2006-01-02") != "2021-04-18" || offset != 1 {
		t.Errorf("CurrentWeek() = %s, %d; want 2021-04-18, 1",
			sunday.Format("2006-01-02"), offset)
	}
}

// TestFormatDate verifies the display format, including no zero padding on
// single-digit days.
func TestFormatDate(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"2021-04-11 00:00", "Sunday, 11 April 2021"},
		{"2021-04-04 00:00", "Sunday, 4 April 2021"},
		{"2023-02-15 00:00", "Wednesday, 15 February 2023"},
	}
	for _, tt := range tests {
		if got := r.FormatDate(nzDate(t, tt.in)); got != tt.want {
			t.Errorf("FormatDate(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestWeeksBetween verifies the exported helper used by the bin alternation.
func TestWeeksBetween(t *testing.T) {
	loc, _ := time.LoadLocation("Pacific/Auckland")
	epoch, err := ParseDate("2023-02-15", loc)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}

	tests := []struct {
		in   string
		want int
	}{
		{"2023-02-15 00:00", 0},
		{"2023-02-19 09:00", 0},  // first following Sunday, 4 days later
		{"2023-02-26 09:00", 1},  // next Sunday, 11 days later
		{"2023-03-05 09:00", 2},
		{"2023-02-12 09:00", -1}, // Sunday before the anchor
	}
	for _, tt := range tests {
		if got := WeeksBetween(epoch, nzDate(t, tt.in)); got != tt.want {
			t.Errorf("WeeksBetween(epoch, %s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestFloorDiv pins down the rounding used for pre-epoch weeks.
func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 7, 0},
		{6, 7, 0},
		{7, 7, 1},
		{-1, 7, -1},
		{-7, 7, -1},
		{-8, 7, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
