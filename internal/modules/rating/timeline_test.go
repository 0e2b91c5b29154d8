// README: Tests for window anchoring and day segmentation.
package rating

import (
	"testing"
	"time"
)

func TestRuleWindows(t *testing.T) {
	day := at(2025, 10, 27, 0, 0) // Monday

	dayRule := mkRule("Standard", "All day", "07:00", "22:30", 30, "0.60")
	ivs := ruleWindows(&dayRule, day)
	if len(ivs) != 1 {
		t.Fatalf("plain window: got %d intervals, want 1", len(ivs))
	}
	if !ivs[0].Start.Equal(at(2025, 10, 27, 7, 0)) || !ivs[0].End.Equal(at(2025, 10, 27, 22, 30)) {
		t.Errorf("plain window anchored wrong: [%s, %s)", ivs[0].Start, ivs[0].End)
	}

	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")
	ivs = ruleWindows(&nightRule, day)
	if len(ivs) != 2 {
		t.Fatalf("overnight window: got %d intervals, want 2", len(ivs))
	}
	// Anchored to the day itself: wraps into Tuesday morning.
	if !ivs[0].Start.Equal(at(2025, 10, 27, 22, 30)) || !ivs[0].End.Equal(at(2025, 10, 28, 7, 0)) {
		t.Errorf("overnight same-day anchor wrong: [%s, %s)", ivs[0].Start, ivs[0].End)
	}
	// Tail of the window that began Sunday evening.
	if !ivs[1].Start.Equal(at(2025, 10, 26, 22, 30)) || !ivs[1].End.Equal(at(2025, 10, 27, 7, 0)) {
		t.Errorf("overnight previous-day anchor wrong: [%s, %s)", ivs[1].Start, ivs[1].End)
	}

	allDay := mkRule("Standard", "All day", "00:00", "00:00", 30, "1.00")
	ivs = ruleWindows(&allDay, day)
	if len(ivs) != 1 || !ivs[0].Start.Equal(day) || !ivs[0].End.Equal(at(2025, 10, 28, 0, 0)) {
		t.Errorf("all-day window wrong: %+v", ivs)
	}
}

func TestSegmentDaySplitsAtWindowBoundary(t *testing.T) {
	day := at(2025, 10, 27, 0, 0)
	dayRule := mkRule("Standard", "All day", "07:00", "22:30", 30, "0.60")
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")
	rules := []*TariffRule{&dayRule, &nightRule}

	spans := segmentDay(day, at(2025, 10, 27, 22, 15), at(2025, 10, 27, 22, 45), rules)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Rule != &dayRule || spans[0].duration() != 15*time.Minute {
		t.Errorf("first span: rule=%v dur=%s, want day rule / 15m", spans[0].Rule, spans[0].duration())
	}
	if spans[1].Rule != &nightRule || spans[1].duration() != 15*time.Minute {
		t.Errorf("second span: rule=%v dur=%s, want night rule / 15m", spans[1].Rule, spans[1].duration())
	}
	// 22:30:00 itself belongs to the night block, not the day block.
	if !spans[1].Start.Equal(at(2025, 10, 27, 22, 30)) {
		t.Errorf("boundary instant assigned wrong: night span starts %s", spans[1].Start)
	}
}

func TestSegmentDayEarlyMorningOvernightTail(t *testing.T) {
	// 01:00-02:00 sits in the tail of the night window that began the
	// previous evening.
	day := at(2025, 10, 27, 0, 0)
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")

	spans := segmentDay(day, at(2025, 10, 27, 1, 0), at(2025, 10, 27, 2, 0), []*TariffRule{&nightRule})
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Rule != &nightRule {
		t.Errorf("early-morning span not governed by the overnight rule")
	}
}

func TestSegmentDayUncoveredGap(t *testing.T) {
	// Night-only catalog: the daytime part of the stay has no governing rule
	// and must come back as an unpriced span, not be swallowed.
	day := at(2025, 10, 27, 0, 0)
	nightRule := mkRule("Standard", "All day", "22:30", "07:00", 30, "2.00")

	spans := segmentDay(day, at(2025, 10, 27, 6, 0), at(2025, 10, 27, 8, 0), []*TariffRule{&nightRule})
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Rule != &nightRule || !spans[0].End.Equal(at(2025, 10, 27, 7, 0)) {
		t.Errorf("pre-07:00 span wrong: rule=%v end=%s", spans[0].Rule, spans[0].End)
	}
	if spans[1].Rule != nil {
		t.Errorf("07:00-08:00 must be unpriced, got rule %+v", spans[1].Rule)
	}
}

func TestSegmentDayPriorityAtSharedInstant(t *testing.T) {
	// A Saturday-specific rule and an All day rule both cover the instant;
	// the single-day selector must govern.
	day := at(2025, 10, 25, 0, 0) // Saturday
	satRule := mkRule("Standard", "Sat", "00:00", "00:00", 30, "5.00")
	anyRule := mkRule("Standard", "All day", "00:00", "00:00", 30, "1.00")
	rules := applicableRules([]TariffRule{anyRule, satRule}, "Car", "Standard", day, nil)

	spans := segmentDay(day, at(2025, 10, 25, 9, 0), at(2025, 10, 25, 10, 0), rules)
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Rule.Days.Kind != SelectSingle {
		t.Errorf("governing rule is %v, want the Sat-specific rule", spans[0].Rule.Days)
	}
}
