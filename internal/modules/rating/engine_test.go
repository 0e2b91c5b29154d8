// README: Rate engine tests: family dispatch, grace, caps, and the documented
// fee scenarios.
package rating

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func computeFee(t *testing.T, stay Stay, rules []TariffRule, holidays HolidaySet) string {
	t.Helper()
	fee, err := ComputeFee(stay, rules, holidays)
	if err != nil {
		t.Fatalf("ComputeFee: %v", err)
	}
	return fee.StringFixed(2)
}

func TestComputeFeeZeroOrNegativeDuration(t *testing.T) {
	rules := []TariffRule{mkRule("Standard", "All day", "00:00", "00:00", 30, "2.00")}
	entry := at(2025, 10, 27, 10, 0)

	stay := Stay{Entry: entry, Exit: entry, VehicleClass: "Car", RateType: "Standard"}
	if got := computeFee(t, stay, rules, nil); got != "0.00" {
		t.Errorf("zero duration: got %s, want 0.00", got)
	}

	stay.Exit = entry.Add(-time.Hour)
	if got := computeFee(t, stay, rules, nil); got != "0.00" {
		t.Errorf("negative duration: got %s, want 0.00", got)
	}

	// Defensive zero beats the empty-catalog error for a degenerate interval.
	if got := computeFee(t, Stay{Entry: entry, Exit: entry, VehicleClass: "Car", RateType: "Standard"}, nil, nil); got != "0.00" {
		t.Errorf("zero duration with empty catalog: got %s, want 0.00", got)
	}
}

func TestComputeFeeConfigurationErrors(t *testing.T) {
	rules := []TariffRule{mkRule("Standard", "All day", "00:00", "00:00", 30, "2.00")}
	stay := Stay{
		Entry:        at(2025, 10, 27, 10, 0),
		Exit:         at(2025, 10, 27, 11, 0),
		VehicleClass: "Car",
		RateType:     "Valet",
	}
	if _, err := ComputeFee(stay, rules, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown rate type: got %v, want ErrConfiguration", err)
	}

	stay.RateType = "Standard"
	if _, err := ComputeFee(stay, nil, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty catalog: got %v, want ErrConfiguration", err)
	}
}

func TestCeilingBilling(t *testing.T) {
	rules := []TariffRule{mkRule("Standard", "All day", "00:00", "00:00", 30, "2.00")}
	entry := at(2025, 10, 27, 10, 0)

	cases := []struct {
		minutes int
		want    string
	}{
		{30, "2.00"},  // exactly one unit
		{31, "4.00"},  // one-minute overage costs a full unit
		{60, "4.00"},
		{61, "6.00"},
		{1, "2.00"},
	}
	for _, tc := range cases {
		stay := Stay{Entry: entry, Exit: entry.Add(time.Duration(tc.minutes) * time.Minute), VehicleClass: "Car", RateType: "Standard"}
		if got := computeFee(t, stay, rules, nil); got != tc.want {
			t.Errorf("%d minutes: got %s, want %s", tc.minutes, got, tc.want)
		}
	}
}

func TestGraceBoundaryExactness(t *testing.T) {
	rule := mkRule("Standard", "All day", "00:00", "00:00", 30, "2.00")
	rule.GraceMinutes = 15
	rules := []TariffRule{rule}
	entry := at(2025, 10, 27, 10, 0)

	stay := Stay{Entry: entry, Exit: entry.Add(15 * time.Minute), VehicleClass: "Car", RateType: "Standard"}
	if got := computeFee(t, stay, rules, nil); got != "0.00" {
		t.Errorf("duration == grace: got %s, want 0.00", got)
	}

	stay.Exit = entry.Add(16 * time.Minute)
	if got := computeFee(t, stay, rules, nil); got != "2.00" {
		t.Errorf("one minute over grace: got %s, want one unit (2.00)", got)
	}
}

func TestGraceOnlyRulesInForceAtEntry(t *testing.T) {
	// The generous grace belongs to the night block; a daytime entry must not
	// benefit from it.
	dayRule := mkRule("Standard", "All day", "07:00", "22:30", 30, "0.60")
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")
	nightRule.GraceMinutes = 120
	rules := []TariffRule{dayRule, nightRule}

	stay := Stay{
		Entry:        at(2025, 10, 27, 10, 0),
		Exit:         at(2025, 10, 27, 11, 0),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, stay, rules, nil); got != "1.20" {
		t.Errorf("daytime entry: got %s, want 1.20 (no night grace)", got)
	}

	night := Stay{
		Entry:        at(2025, 10, 27, 23, 0),
		Exit:         at(2025, 10, 27, 23, 50),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, night, rules, nil); got != "0.00" {
		t.Errorf("night entry inside grace: got %s, want 0.00", got)
	}
}

func TestDayNightCrossoverAdditivity(t *testing.T) {
	// Documented scenario: entry 2025-10-27T22:15, exit 22:45, day block
	// 07:00-22:30 at 0.60/30min and night block 22:30-07:00 at 2.00/30min,
	// both billed per minute. Each side bills independently: 0.30 + 1.00.
	dayRule := mkRule("Standard", "All day", "07:00", "22:30", 30, "0.60")
	dayRule.Rounding = RoundMinute
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")
	nightRule.Rounding = RoundMinute
	rules := []TariffRule{dayRule, nightRule}

	stay := Stay{
		Entry:        at(2025, 10, 27, 22, 15),
		Exit:         at(2025, 10, 27, 22, 45),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, stay, rules, nil); got != "1.30" {
		t.Errorf("crossover: got %s, want 1.30", got)
	}
}

func TestPublicHolidayScenario(t *testing.T) {
	// Documented scenario: 2025-10-20 is a public holiday; PH tariff 3.00 per
	// 60 minutes billed per minute; 10:00-12:45 is 165 minutes => 8.25. The
	// weekday rule must not leak into the holiday.
	phRule := mkRule("Standard", "PH", "00:00", "00:00", 60, "3.00")
	phRule.Rounding = RoundMinute
	weekdayRule := mkRule("Standard", "Mon-Fri", "00:00", "00:00", 30, "0.60")
	rules := []TariffRule{weekdayRule, phRule}
	holidays := NewHolidaySet(at(2025, 10, 20, 0, 0))

	stay := Stay{
		Entry:        at(2025, 10, 20, 10, 0),
		Exit:         at(2025, 10, 20, 12, 45),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, stay, rules, holidays); got != "8.25" {
		t.Errorf("holiday stay: got %s, want 8.25", got)
	}

	// Same stay without the holiday entry falls back to the weekday rule.
	if got := computeFee(t, stay, rules, nil); got != "3.60" {
		t.Errorf("plain Monday stay: got %s, want 3.60 (6 units of 0.60)", got)
	}
}

func TestMultiDayOvernightAccumulation(t *testing.T) {
	// Two full 22:30-07:00 nights at 2.00/30min: 510 minutes a night, 17
	// units, 34.00 per night, no drift.
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")
	rules := []TariffRule{nightRule}

	stay := Stay{
		Entry:        at(2025, 10, 27, 22, 30),
		Exit:         at(2025, 10, 29, 7, 0),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, stay, rules, nil); got != "68.00" {
		t.Errorf("two nights: got %s, want 68.00", got)
	}

	// The uncovered daytime span between the nights bills nothing.
	single := Stay{
		Entry:        at(2025, 10, 27, 22, 30),
		Exit:         at(2025, 10, 28, 7, 0),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, single, rules, nil); got != "34.00" {
		t.Errorf("one night: got %s, want 34.00", got)
	}
}

func TestFixedFeeIdempotence(t *testing.T) {
	rule := mkRule("Authorized", "Mon-Fri", "00:00", "00:00", 1, "120.00")
	rules := []TariffRule{rule}
	entry := at(2025, 10, 27, 9, 0) // Monday

	for _, exit := range []time.Time{
		entry.Add(10 * time.Minute),
		entry.Add(26 * time.Hour),
		entry.Add(96 * time.Hour),
	} {
		stay := Stay{Entry: entry, Exit: exit, VehicleClass: "Car", RateType: "Authorized"}
		if got := computeFee(t, stay, rules, nil); got != "120.00" {
			t.Errorf("fixed fee for exit %s: got %s, want 120.00", exit, got)
		}
	}

	// No rule for the entry-day bucket: fixed family returns zero.
	satStay := Stay{
		Entry:        at(2025, 10, 25, 9, 0), // Saturday
		Exit:         at(2025, 10, 25, 12, 0),
		VehicleClass: "Car",
		RateType:     "Authorized",
	}
	if got := computeFee(t, satStay, rules, nil); got != "0.00" {
		t.Errorf("fixed fee without a Saturday rule: got %s, want 0.00", got)
	}
}

func TestFlatBlockFamily(t *testing.T) {
	rule := mkRule("Flat", "All day", "00:00", "00:00", 30, "0.60")
	rule.GraceMinutes = 60
	rules := []TariffRule{rule}
	entry := at(2025, 10, 27, 8, 0)

	cases := []struct {
		minutes int
		want    string
	}{
		{60, "0.00"}, // exactly the grace period
		{61, "0.60"}, // 1 chargeable minute => 1 unit
		{90, "0.60"},
		{91, "1.20"}, // 31 chargeable minutes => 2 units
	}
	for _, tc := range cases {
		stay := Stay{Entry: entry, Exit: entry.Add(time.Duration(tc.minutes) * time.Minute), VehicleClass: "Car", RateType: "Flat"}
		if got := computeFee(t, stay, rules, nil); got != tc.want {
			t.Errorf("%d minutes: got %s, want %s", tc.minutes, got, tc.want)
		}
	}
}

func TestZeroPriceRuleIsInert(t *testing.T) {
	rule := mkRule("Standard", "All day", "00:00", "00:00", 30, "0.00")
	stay := Stay{
		Entry:        at(2025, 10, 27, 8, 0),
		Exit:         at(2025, 10, 27, 13, 7),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, stay, []TariffRule{rule}, nil); got != "0.00" {
		t.Errorf("zero-price rule billed %s, want 0.00", got)
	}
}

func TestMinChargeFloor(t *testing.T) {
	rule := mkRule("Standard", "All day", "00:00", "00:00", 30, "0.60")
	rule.Rounding = RoundMinute
	rule.MinCharge = decPtr("1.00")
	stay := Stay{
		Entry:        at(2025, 10, 27, 8, 0),
		Exit:         at(2025, 10, 27, 8, 10),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	// 10 minutes pro-rata would be 0.20; the floor lifts it to 1.00.
	if got := computeFee(t, stay, []TariffRule{rule}, nil); got != "1.00" {
		t.Errorf("min charge: got %s, want 1.00", got)
	}
}

func TestDailyMaxChargeCap(t *testing.T) {
	rule := mkRule("Standard", "All day", "00:00", "00:00", 30, "2.00")
	rule.MaxCharge = decPtr("10.00")
	rules := []TariffRule{rule}

	// 10 hours would be 40.00 uncapped; the cap holds it at 10.00 per day.
	stay := Stay{
		Entry:        at(2025, 10, 27, 8, 0),
		Exit:         at(2025, 10, 27, 18, 0),
		VehicleClass: "Car",
		RateType:     "Standard",
	}
	if got := computeFee(t, stay, rules, nil); got != "10.00" {
		t.Errorf("single day cap: got %s, want 10.00", got)
	}

	// The cap is per calendar day, so two full days pay it twice.
	stay.Exit = at(2025, 10, 29, 8, 0)
	if got := computeFee(t, stay, rules, nil); got != "30.00" {
		t.Errorf("multi-day cap: got %s, want 30.00 (3 capped days)", got)
	}
}

func TestComputeFeeDeterministicUnderConcurrency(t *testing.T) {
	dayRule := mkRule("Standard", "All day", "07:00", "22:30", 30, "0.60")
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")
	rules := []TariffRule{dayRule, nightRule}
	stay := Stay{
		Entry:        at(2025, 10, 27, 6, 45),
		Exit:         at(2025, 10, 28, 9, 10),
		VehicleClass: "HGV",
		RateType:     "Standard",
	}

	want, err := ComputeFee(stay, rules, nil)
	if err != nil {
		t.Fatalf("ComputeFee: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ComputeFee(stay, rules, nil)
			if err != nil || !got.Equal(want) {
				t.Errorf("concurrent ComputeFee = %s, %v; want %s", got, err, want)
			}
		}()
	}
	wg.Wait()
}
