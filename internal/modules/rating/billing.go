// README: Segment billing, daily caps, and grace evaluation.
package rating

import (
	"time"

	"github.com/shopspring/decimal"
)

// billSpan prices one sub-interval under its governing rule. A span with no
// rule, or a rule priced at zero, bills nothing. RoundUnit rules charge every
// started unit in full; RoundMinute rules pro-rate the unit price per started
// minute. The per-segment MinCharge floor applies before the 2-decimal
// rounding that keeps float drift out of multi-day sums.
func billSpan(r *TariffRule, d time.Duration) decimal.Decimal {
	if r == nil || d <= 0 || r.UnitPrice.IsZero() {
		return decimal.Zero
	}

	var fee decimal.Decimal
	switch r.Rounding {
	case RoundMinute:
		fee = r.UnitPrice.
			Mul(decimal.NewFromInt(ceilMinutes(d))).
			Div(decimal.NewFromInt(int64(r.UnitMinutes)))
	default:
		fee = r.UnitPrice.Mul(decimal.NewFromInt(ceilUnits(d, r.UnitMinutes)))
	}

	if r.MinCharge != nil && fee.LessThan(*r.MinCharge) {
		fee = *r.MinCharge
	}
	return fee.Round(2)
}

// ceilUnits rounds a duration up to whole billing units.
func ceilUnits(d time.Duration, unitMinutes int) int64 {
	unit := time.Duration(unitMinutes) * time.Minute
	return int64((d + unit - 1) / unit)
}

// ceilMinutes rounds a duration up to whole minutes.
func ceilMinutes(d time.Duration) int64 {
	return int64((d + time.Minute - 1) / time.Minute)
}

// capDaily applies the per-day maximum charge: if any of the day's applicable
// rules carries a positive MaxCharge, the day total is capped at the largest
// such value. The cap is per day, never per segment.
func capDaily(total decimal.Decimal, rules []*TariffRule) decimal.Decimal {
	var limit *decimal.Decimal
	for _, r := range rules {
		if r.MaxCharge == nil || !r.MaxCharge.IsPositive() {
			continue
		}
		if limit == nil || r.MaxCharge.GreaterThan(*limit) {
			limit = r.MaxCharge
		}
	}
	if limit != nil && total.GreaterThan(*limit) {
		return *limit
	}
	return total
}

// graceAtEntry returns the largest grace period among the rules in force at
// the entry instant: the day's applicable rules whose anchored window contains
// the entry. A stay no longer than this is free end to end.
func graceAtEntry(entry time.Time, dayRules []*TariffRule) time.Duration {
	day := midnightOf(entry)
	var grace time.Duration
	for _, r := range dayRules {
		if !containsAny(ruleWindows(r, day), entry) {
			continue
		}
		if g := time.Duration(r.GraceMinutes) * time.Minute; g > grace {
			grace = g
		}
	}
	return grace
}
