// README: Canned rating scenarios covering the documented fee behaviors.
package main

import (
	"time"

	"github.com/shopspring/decimal"

	"carpark/internal/modules/rating"
)

type scenario struct {
	name     string
	stay     rating.Stay
	rules    []rating.TariffRule
	holidays rating.HolidaySet
	want     string
	wantErr  bool
}

func (s scenario) run() (string, error) {
	fee, err := rating.ComputeFee(s.stay, s.rules, s.holidays)
	if err != nil {
		return "", err
	}
	return fee.StringFixed(2), nil
}

func rule(rateType, days, from, to string, unitMinutes int, price string, mode rating.RoundingMode) rating.TariffRule {
	sel, err := rating.ParseDaySelector(days)
	if err != nil {
		panic(err)
	}
	return rating.TariffRule{
		VehicleClasses: []string{"Car", "HGV"},
		Days:           sel,
		Window: rating.Window{
			From: rating.MustClockTime(from),
			To:   rating.MustClockTime(to),
		},
		RateType:    rateType,
		UnitMinutes: unitMinutes,
		UnitPrice:   decimal.RequireFromString(price),
		Rounding:    mode,
	}
}

func ts(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(entry, exit, class, rateType string) rating.Stay {
	return rating.Stay{Entry: ts(entry), Exit: ts(exit), VehicleClass: class, RateType: rateType}
}

func scenarios() []scenario {
	dayNight := []rating.TariffRule{
		rule("Standard", "All day", "07:00", "22:30", 30, "0.60", rating.RoundMinute),
		rule("Standard", "All day", "22:30", "07:00", 30, "2.00", rating.RoundMinute),
	}
	ceiling := []rating.TariffRule{
		rule("Standard", "All day", "00:00", "00:00", 30, "2.00", rating.RoundUnit),
	}
	flat := func() []rating.TariffRule {
		r := rule("Flat", "All day", "00:00", "00:00", 30, "0.60", rating.RoundUnit)
		r.GraceMinutes = 60
		return []rating.TariffRule{r}
	}()

	return []scenario{
		{
			name:  "day/night crossover 22:15-22:45",
			stay:  stay("2025-10-27T22:15:00", "2025-10-27T22:45:00", "Car", "Standard"),
			rules: dayNight,
			want:  "1.30",
		},
		{
			name: "public holiday 10:00-12:45",
			stay: stay("2025-10-20T10:00:00", "2025-10-20T12:45:00", "Car", "Standard"),
			rules: []rating.TariffRule{
				rule("Standard", "Mon-Fri", "00:00", "00:00", 30, "0.60", rating.RoundUnit),
				rule("Standard", "PH", "00:00", "00:00", 60, "3.00", rating.RoundMinute),
			},
			holidays: rating.NewHolidaySet(ts("2025-10-20T00:00:00")),
			want:     "8.25",
		},
		{
			name:  "two full overnight windows",
			stay:  stay("2025-10-27T22:30:00", "2025-10-29T07:00:00", "Car", "Standard"),
			rules: []rating.TariffRule{rule("Standard", "All day", "22:30", "07:00", 30, "2.00", rating.RoundUnit)},
			want:  "68.00",
		},
		{
			name:  "ceiling: 31 minutes bills two units",
			stay:  stay("2025-10-27T10:00:00", "2025-10-27T10:31:00", "Car", "Standard"),
			rules: ceiling,
			want:  "4.00",
		},
		{
			name:  "ceiling: exact unit bills one unit",
			stay:  stay("2025-10-27T10:00:00", "2025-10-27T10:30:00", "Car", "Standard"),
			rules: ceiling,
			want:  "2.00",
		},
		{
			name:  "fixed fee ignores duration",
			stay:  stay("2025-10-27T09:00:00", "2025-10-29T18:00:00", "Car", "Authorized"),
			rules: []rating.TariffRule{rule("Authorized", "All day", "00:00", "00:00", 1, "120.00", rating.RoundUnit)},
			want:  "120.00",
		},
		{
			name:  "flat block: inside grace",
			stay:  stay("2025-10-27T08:00:00", "2025-10-27T09:00:00", "Car", "Flat"),
			rules: flat,
			want:  "0.00",
		},
		{
			name:  "flat block: one minute over grace",
			stay:  stay("2025-10-27T08:00:00", "2025-10-27T09:01:00", "Car", "Flat"),
			rules: flat,
			want:  "0.60",
		},
		{
			name:  "flat block: second unit started",
			stay:  stay("2025-10-27T08:00:00", "2025-10-27T09:31:00", "Car", "Flat"),
			rules: flat,
			want:  "1.20",
		},
		{
			name:  "zero duration",
			stay:  stay("2025-10-27T08:00:00", "2025-10-27T08:00:00", "Car", "Standard"),
			rules: ceiling,
			want:  "0.00",
		},
		{
			name:    "unknown rate type fails",
			stay:    stay("2025-10-27T08:00:00", "2025-10-27T09:00:00", "Car", "Valet"),
			rules:   ceiling,
			wantErr: true,
		},
	}
}
