// README: Rate engine entry point; dispatches the three rate families.
package rating

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateFamily is one of the three calculation strategies a rate type dispatches
// to. The old code carried four near-identical rating classes; the families
// replace them with one enum-dispatched engine.
type RateFamily int

const (
	// FamilyFixed returns a flat amount per entry-day bucket, ignoring duration.
	FamilyFixed RateFamily = iota
	// FamilySegmented bills a minute-exact, per-day, per-window timeline.
	FamilySegmented
	// FamilyFlatBlock deducts the grace period from the total duration and
	// ceiling-bills the remainder against a single rule, with no segmentation.
	FamilyFlatBlock
)

// rateFamilies maps the requested rate-type tag to its family.
var rateFamilies = map[string]RateFamily{
	"authorized":  FamilyFixed,
	"season":      FamilyFixed,
	"exempt":      FamilyFixed,
	"standard":    FamilySegmented,
	"dayseason":   FamilySegmented,
	"nightseason": FamilySegmented,
	"flat":        FamilyFlatBlock,
}

// FamilyOf resolves a rate-type tag to its calculation family.
func FamilyOf(rateType string) (RateFamily, bool) {
	f, ok := rateFamilies[normalizeRateType(rateType)]
	return f, ok
}

func normalizeRateType(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		case r == ' ' || r == '-' || r == '_':
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// ComputeFee rates one stay against a catalog's rules and holiday set. It is a
// pure function: no clock, no I/O, safe for concurrent use. A non-positive
// stay duration is fee 0.00 (the HTTP layer rejects it before we get here; the
// engine stays defensive). An unknown rate type or an empty catalog is a
// configuration error, never a silent zero.
func ComputeFee(stay Stay, rules []TariffRule, holidays HolidaySet) (decimal.Decimal, error) {
	if !stay.Exit.After(stay.Entry) {
		return decimal.Zero, nil
	}
	if len(rules) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no tariff rules loaded", ErrConfiguration)
	}
	family, ok := FamilyOf(stay.RateType)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown rate type %q", ErrConfiguration, stay.RateType)
	}

	switch family {
	case FamilyFixed:
		return fixedFee(stay, rules, holidays), nil
	case FamilyFlatBlock:
		return flatBlockFee(stay, rules), nil
	default:
		return segmentedFee(stay, rules, holidays), nil
	}
}

// fixedFee looks up the rule matching the vehicle class and the entry-day
// bucket and returns its unit price verbatim: season passes and authorized
// vehicles pay the same flat amount for one minute or one week. No rule for
// the entry day means no charge.
func fixedFee(stay Stay, rules []TariffRule, holidays HolidaySet) decimal.Decimal {
	cands := applicableRules(rules, stay.VehicleClass, stay.RateType, stay.Entry, holidays)
	if len(cands) == 0 {
		return decimal.Zero
	}
	return cands[0].UnitPrice.Round(2)
}

// flatBlockFee bills the whole stay against the first rule for the vehicle
// class and rate type, ignoring day buckets and time windows: the grace period
// is deducted from the total duration and the remainder is ceiling-billed.
func flatBlockFee(stay Stay, rules []TariffRule) decimal.Decimal {
	var rule *TariffRule
	for i := range rules {
		r := &rules[i]
		if equalFoldToken(r.RateType, stay.RateType) && r.AppliesToClass(stay.VehicleClass) {
			rule = r
			break
		}
	}
	if rule == nil || rule.UnitPrice.IsZero() {
		return decimal.Zero
	}
	chargeable := stay.Duration() - time.Duration(rule.GraceMinutes)*time.Minute
	if chargeable <= 0 {
		return decimal.Zero
	}
	fee := rule.UnitPrice.Mul(decimal.NewFromInt(ceilUnits(chargeable, rule.UnitMinutes)))
	return fee.Round(2)
}

// segmentedFee walks the stay day by day: resolve the day bucket, segment the
// day's portion of the stay into single-rule spans, bill each span, cap the
// day, and sum. The whole stay is free when its duration is inside the grace
// period of a rule in force at the entry instant.
func segmentedFee(stay Stay, rules []TariffRule, holidays HolidaySet) decimal.Decimal {
	entryRules := applicableRules(rules, stay.VehicleClass, stay.RateType, stay.Entry, holidays)
	if stay.Duration() <= graceAtEntry(stay.Entry, entryRules) {
		return decimal.Zero
	}

	total := decimal.Zero
	for day := midnightOf(stay.Entry); day.Before(stay.Exit); day = day.AddDate(0, 0, 1) {
		nextDay := day.AddDate(0, 0, 1)
		segStart := laterOf(stay.Entry, day)
		segEnd := earlierOf(stay.Exit, nextDay)
		if !segEnd.After(segStart) {
			continue
		}

		dayRules := applicableRules(rules, stay.VehicleClass, stay.RateType, day, holidays)
		dayTotal := decimal.Zero
		for _, s := range segmentDay(day, segStart, segEnd, dayRules) {
			dayTotal = dayTotal.Add(billSpan(s.Rule, s.duration()))
		}
		total = total.Add(capDaily(dayTotal, dayRules))
	}
	return total.Round(2)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
