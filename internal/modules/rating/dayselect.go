// README: Day-selector expansion and day-bucket resolution for rule matching.
package rating

import (
	"sort"
	"strings"
	"time"
)

func equalFoldToken(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ResolveDayBucket classifies a calendar date: PH if the local date is in the
// holiday set, otherwise its literal weekday.
func ResolveDayBucket(date time.Time, holidays HolidaySet) DayBucket {
	if holidays.Contains(date) {
		return BucketHoliday
	}
	return DayBucket(date.Weekday())
}

// Matches reports whether the selector applies to a resolved day bucket.
// PH-selected rules are exclusive: a holiday bucket only matches SelectHoliday,
// and SelectHoliday matches nothing else.
func (d DaySelector) Matches(b DayBucket) bool {
	if d.Kind == SelectHoliday {
		return b == BucketHoliday
	}
	if b == BucketHoliday {
		return false
	}
	switch d.Kind {
	case SelectAllDays:
		return true
	case SelectSingle:
		return b == DayBucket(d.From)
	case SelectRange:
		// Inclusive range, wrapping past Saturday when To < From (Sat-Mon).
		from, to, day := int(d.From), int(d.To), int(b)
		if from <= to {
			return day >= from && day <= to
		}
		return day >= from || day <= to
	}
	return false
}

// specificity orders rules so the narrower selector wins when two windows
// contain the same instant.
func (d DaySelector) specificity() int {
	switch d.Kind {
	case SelectHoliday:
		return 3
	case SelectSingle:
		return 2
	case SelectRange:
		return 1
	default:
		return 0
	}
}

// applicableRules returns the rules governing the given calendar date for one
// vehicle class and rate type, most specific selector first (catalog order
// breaks ties). On a holiday with no PH rule configured, the literal weekday
// rules apply as fallback so a catalog gap never rates a holiday stay as free.
func applicableRules(rules []TariffRule, class, rateType string, date time.Time, holidays HolidaySet) []*TariffRule {
	pick := func(b DayBucket) []*TariffRule {
		var out []*TariffRule
		for i := range rules {
			r := &rules[i]
			if !equalFoldToken(r.RateType, rateType) || !r.AppliesToClass(class) {
				continue
			}
			if r.Days.Matches(b) {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Days.specificity() > out[j].Days.specificity()
		})
		return out
	}

	bucket := ResolveDayBucket(date, holidays)
	out := pick(bucket)
	if len(out) == 0 && bucket == BucketHoliday {
		out = pick(DayBucket(date.Weekday()))
	}
	return out
}
