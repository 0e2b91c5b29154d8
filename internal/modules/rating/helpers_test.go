// README: Shared fixtures for rating tests.
package rating

import (
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// mkRule builds a Car/HGV rule with unit-ceiling rounding; tests tweak fields
// as needed.
func mkRule(rateType, days, from, to string, unitMinutes int, price string) TariffRule {
	sel, err := ParseDaySelector(days)
	if err != nil {
		panic(err)
	}
	return TariffRule{
		VehicleClasses: []string{"Car", "HGV"},
		Days:           sel,
		Window:         Window{From: MustClockTime(from), To: MustClockTime(to)},
		RateType:       rateType,
		UnitMinutes:    unitMinutes,
		UnitPrice:      dec(price),
	}
}

func at(y int, mo time.Month, d, h, min int) time.Time {
	return time.Date(y, mo, d, h, min, 0, 0, time.UTC)
}
