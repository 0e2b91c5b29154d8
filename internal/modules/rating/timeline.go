// README: Timeline segmentation: anchors rule windows to absolute intervals and
// cuts one calendar day's stay portion into single-rule spans.
package rating

import (
	"sort"
	"time"
)

// interval is an absolute half-open [Start, End) range.
type interval struct {
	Start time.Time
	End   time.Time
}

func (iv interval) contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// span is one segmenter output: a sub-interval governed by exactly one rule,
// or by none (Rule == nil, zero fee).
type span struct {
	interval
	Rule *TariffRule
}

func (s span) duration() time.Duration { return s.End.Sub(s.Start) }

// midnightOf returns the start of t's calendar day in t's location.
func midnightOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ruleWindows materializes a rule's window as absolute intervals relevant to
// calendar day `day` (the midnight starting the day). An overnight window
// yields two candidates: one anchored to the day itself and the tail of the
// window that began the previous day. Anchoring once and testing containment
// replaces the old time-of-day comparisons.
func ruleWindows(r *TariffRule, day time.Time) []interval {
	nextDay := day.AddDate(0, 0, 1)
	if r.Window.allDay() {
		return []interval{{Start: day, End: nextDay}}
	}
	from := day.Add(r.Window.From.Offset())
	if !r.Window.overnight() {
		return []interval{{Start: from, End: day.Add(r.Window.To.Offset())}}
	}
	prevDay := day.AddDate(0, 0, -1)
	return []interval{
		{Start: from, End: nextDay.Add(r.Window.To.Offset())},
		{Start: prevDay.Add(r.Window.From.Offset()), End: day.Add(r.Window.To.Offset())},
	}
}

// segmentDay cuts [segStart, segEnd) — the portion of a stay inside calendar
// day `day` — into ordered, non-overlapping spans so exactly one rule (or
// none) governs each. `rules` must already be filtered for the day and sorted
// most specific first; the governing rule for a span is the first whose
// anchored window contains the span's start instant.
func segmentDay(day time.Time, segStart, segEnd time.Time, rules []*TariffRule) []span {
	windows := make([][]interval, len(rules))
	cuts := map[time.Time]struct{}{segStart: {}, segEnd: {}}
	for i, r := range rules {
		windows[i] = ruleWindows(r, day)
		for _, iv := range windows[i] {
			for _, edge := range [2]time.Time{iv.Start, iv.End} {
				if edge.After(segStart) && edge.Before(segEnd) {
					cuts[edge] = struct{}{}
				}
			}
		}
	}

	bounds := make([]time.Time, 0, len(cuts))
	for t := range cuts {
		bounds = append(bounds, t)
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].Before(bounds[j]) })

	var spans []span
	for i := 0; i+1 < len(bounds); i++ {
		s := span{interval: interval{Start: bounds[i], End: bounds[i+1]}}
		if !s.End.After(s.Start) {
			continue
		}
		for j, r := range rules {
			if containsAny(windows[j], s.Start) {
				s.Rule = r
				break
			}
		}
		spans = append(spans, s)
	}
	return spans
}

func containsAny(ivs []interval, t time.Time) bool {
	for _, iv := range ivs {
		if iv.contains(t) {
			return true
		}
	}
	return false
}
