// README: Rating engine data model: tariff rules, stays, day selectors, holiday sets.
package rating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrConfiguration marks catalog problems the caller must surface (unknown rate
// type, empty ruleset). A day or segment with no matching rule is not an error;
// it simply bills nothing.
var ErrConfiguration = errors.New("tariff configuration error")

// DayBucket is the resolved classification of a calendar date used for rule
// matching: a literal weekday, or PH when the date is a public holiday.
type DayBucket int

const (
	BucketSunday DayBucket = iota
	BucketMonday
	BucketTuesday
	BucketWednesday
	BucketThursday
	BucketFriday
	BucketSaturday
	BucketHoliday
)

var bucketNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "PH"}

func (b DayBucket) String() string {
	if b < BucketSunday || b > BucketHoliday {
		return fmt.Sprintf("DayBucket(%d)", int(b))
	}
	return bucketNames[b]
}

// SelectorKind enumerates the compact day-selector forms a tariff row may use.
type SelectorKind int

const (
	SelectAllDays SelectorKind = iota // "All day": Sun..Sat, never PH
	SelectRange                       // "Mon-Fri", "Sat-Sun"; inclusive, may wrap
	SelectSingle                      // "Sat"
	SelectHoliday                     // "PH"
)

// DaySelector describes which day buckets a rule applies to.
type DaySelector struct {
	Kind SelectorKind
	From time.Weekday // SelectRange start, or the day for SelectSingle
	To   time.Weekday // SelectRange end (inclusive)
}

var weekdayTokens = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseDaySelector parses the compact selector notation used by tariff rows:
// "All day", "Mon-Fri", "Sat-Sun", a single day name, or "PH".
func ParseDaySelector(s string) (DaySelector, error) {
	token := strings.TrimSpace(s)
	switch strings.ToLower(token) {
	case "all day", "all days", "all":
		return DaySelector{Kind: SelectAllDays}, nil
	case "ph", "public holiday":
		return DaySelector{Kind: SelectHoliday}, nil
	}
	if from, to, ok := strings.Cut(token, "-"); ok {
		a, okA := weekdayTokens[strings.ToLower(strings.TrimSpace(from))]
		b, okB := weekdayTokens[strings.ToLower(strings.TrimSpace(to))]
		if !okA || !okB {
			return DaySelector{}, fmt.Errorf("invalid day range %q", s)
		}
		return DaySelector{Kind: SelectRange, From: a, To: b}, nil
	}
	if d, ok := weekdayTokens[strings.ToLower(token)]; ok {
		return DaySelector{Kind: SelectSingle, From: d, To: d}, nil
	}
	return DaySelector{}, fmt.Errorf("invalid day selector %q", s)
}

func (d DaySelector) String() string {
	switch d.Kind {
	case SelectAllDays:
		return "All day"
	case SelectHoliday:
		return "PH"
	case SelectRange:
		return bucketNames[d.From] + "-" + bucketNames[d.To]
	default:
		return bucketNames[d.From]
	}
}

// ClockTime is a time of day with minute precision. Tariff windows never need
// sub-minute boundaries.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS" (seconds must be zero).
func ParseClockTime(s string) (ClockTime, error) {
	var h, m, sec int
	switch strings.Count(s, ":") {
	case 1:
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
		}
	case 2:
		if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
			return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
		}
	default:
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec != 0 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// MustClockTime is a test/fixture helper; it panics on a malformed literal.
func MustClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

func (c ClockTime) Offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Window is a possibly-overnight time-of-day window. To <= From denotes a wrap
// past midnight; From == To means the whole day.
type Window struct {
	From ClockTime
	To   ClockTime
}

func (w Window) allDay() bool    { return w.From == w.To }
func (w Window) overnight() bool { return !w.allDay() && w.To.Offset() <= w.From.Offset() }

// RoundingMode selects how a chargeable duration maps onto billing units.
type RoundingMode int

const (
	// RoundUnit bills every started unit in full: a 1-minute overage costs a
	// whole unit.
	RoundUnit RoundingMode = iota
	// RoundMinute pro-rates the unit price per started minute, for tariffs
	// quoted per block but billed by the minute.
	RoundMinute
)

// TariffRule is one row of a tariff table.
type TariffRule struct {
	VehicleClasses []string
	Days           DaySelector
	Window         Window
	RateType       string
	UnitMinutes    int
	UnitPrice      decimal.Decimal
	Rounding       RoundingMode
	GraceMinutes   int
	MinCharge      *decimal.Decimal // per-segment floor, nil = none
	MaxCharge      *decimal.Decimal // per-day cap, nil = none
}

// AppliesToClass reports whether the rule covers the stay's vehicle class.
// Matching is exact per token (the old substring matching let "Car" capture
// "Caravan").
func (r *TariffRule) AppliesToClass(class string) bool {
	for _, c := range r.VehicleClasses {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// Validate checks the invariants the engine assumes for pre-loaded rows.
func (r *TariffRule) Validate() error {
	if len(r.VehicleClasses) == 0 {
		return errors.New("tariff rule has no vehicle classes")
	}
	if r.UnitMinutes <= 0 {
		return fmt.Errorf("tariff rule unit minutes must be positive, got %d", r.UnitMinutes)
	}
	if r.UnitPrice.IsNegative() {
		return fmt.Errorf("tariff rule unit price must not be negative, got %s", r.UnitPrice)
	}
	if r.GraceMinutes < 0 {
		return fmt.Errorf("tariff rule grace minutes must not be negative, got %d", r.GraceMinutes)
	}
	if r.MinCharge != nil && r.MinCharge.IsNegative() {
		return errors.New("tariff rule min charge must not be negative")
	}
	if r.MaxCharge != nil && r.MaxCharge.IsNegative() {
		return errors.New("tariff rule max charge must not be negative")
	}
	return nil
}

// Stay is one parking interval to be rated.
type Stay struct {
	Entry        time.Time
	Exit         time.Time
	VehicleClass string
	RateType     string
}

func (s Stay) Duration() time.Duration { return s.Exit.Sub(s.Entry) }

const dateLayout = "2006-01-02"

// HolidaySet holds the calendar dates treated as public holidays. Membership is
// by local calendar day, independent of the time-of-day component.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		h.Add(d)
	}
	return h
}

func (h HolidaySet) Add(d time.Time) { h[d.Format(dateLayout)] = struct{}{} }

func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(dateLayout)]
	return ok
}
