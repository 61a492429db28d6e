// Package rotation implements the deterministic weekly chore rotation:
// calendar math anchored to a fixed epoch, and the assignment of chores to
// people from the resulting week offset.
//
// A rotation week runs Monday through Sunday and is identified by the Sunday
// that ends it. The offset of a week is the number of whole weeks between
// the epoch date and that Sunday, so every instant inside one week resolves
// to the same offset.
package rotation

import (
	"fmt"
	"time"

	"github.com/choreworld/choreworld.github.io/internal/config"
	"github.com/choreworld/choreworld.github.io/internal/types"
)

// DateLayout is the civil date format epochs are written in.
const DateLayout = "2006-01-02"

// displayLayout renders dates like "Sunday, 11 April 2021".
const displayLayout = "Monday, 2 January 2006"

// Resolver answers calendar questions for the rotation: which Sunday ends
// the week containing an instant, and how many weeks separate it from the
// epoch. All math happens in the single configured zone.
type Resolver struct {
	loc   *time.Location
	epoch time.Time
	clock types.Clock
}

// NewResolver builds a Resolver from the rotation settings. The clock is
// injectable for tests; passing nil uses the system clock.
func NewResolver(cfg config.RotationConfig, clock types.Clock) (*Resolver, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigEnvironment,
			fmt.Sprintf("unknown timezone %q", cfg.Timezone), err)
	}
	epoch, err := ParseDate(cfg.Epoch, loc)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Resolver{loc: loc, epoch: epoch, clock: clock}, nil
}

// ParseDate parses a YYYY-MM-DD civil date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, types.NewAppError(types.ErrCodeConfigEnvironment,
			fmt.Sprintf("%q is not a %s date", value, DateLayout), err)
	}
	return t, nil
}

// Location returns the zone the rotation is computed in.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Now returns the current instant in the rotation zone.
func (r *Resolver) Now() time.Time {
	return r.clock.Now().In(r.loc)
}

// WeekSunday returns the Sunday that ends t's Monday-to-Sunday week,
// preserving the time of day. A Sunday maps to itself.
func (r *Resolver) WeekSunday(t time.Time) time.Time {
	t = t.In(r.loc)
	days := (6 - mondayWeekday(t)) % 7
	return t.AddDate(0, 0, days)
}

// Offset returns the number of whole weeks between the epoch and t, negative
// when t is before the epoch. Callers that want a week-stable value pass the
// week's Sunday, as Week does.
func (r *Resolver) Offset(t time.Time) int {
	return WeeksBetween(r.epoch, t.In(r.loc))
}

// Week resolves the rotation week containing t: the Sunday that ends it and
// that week's offset from the epoch.
func (r *Resolver) Week(t time.Time) (time.Time, int) {
	sunday := r.WeekSunday(t)
	return sunday, r.Offset(sunday)
}

// CurrentWeek resolves the week containing the present instant.
func (r *Resolver) CurrentWeek() (time.Time, int) {
	return r.Week(r.Now())
}

// FormatDate renders t for display, e.g. "Sunday, 11 April 2021".
func (r *Resolver) FormatDate(t time.Time) string {
	return t.In(r.loc).Format(displayLayout)
}

// WeeksBetween counts the whole weeks from epoch to t, rounding toward
// negative infinity. Both instants are reduced to their civil dates first,
// so a DST transition between them cannot shift the count.
func WeeksBetween(epoch, t time.Time) int {
	return floorDiv(daysBetween(epoch, t), 7)
}

// mondayWeekday numbers days Monday=0 through Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// daysBetween counts civil days from a to b, ignoring the time of day of
// both. The dates are rebuilt as UTC midnights so the subtraction is exact.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// floorDiv divides rounding toward negative infinity, so pre-epoch day
// counts land in the correct week.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
