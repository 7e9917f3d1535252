// Package filter produces filtered views of the department collection.
// Apply is pure and conjunctive: every active predicate must pass, the
// default criteria is the identity filter, and the input is never mutated.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// Date-range keys accepted in Criteria.DateRange.
const (
	RangeAll      = "all"
	RangeRecent3  = "recent3"
	RangeRecent6  = "recent6"
	RangeThisYear = "thisYear"
)

// Range is an inclusive score interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Criteria selects a subset of the dataset. The zero value of any field
// means "no restriction": an empty department set keeps every department,
// and a zero Range is widened to [0, 100].
type Criteria struct {
	DateRange   string   `json:"dateRange"`
	Departments []string `json:"departments"`
	ScoreRange  Range    `json:"scoreRange"`
	Category    string   `json:"category"`
}

// Default returns the identity criteria: every department passes.
func Default() Criteria {
	return Criteria{
		DateRange:  RangeAll,
		ScoreRange: Range{Min: 0, Max: 100},
		Category:   "all",
	}
}

// Apply returns the departments matching c. All active predicates are
// combined with AND. Apply is idempotent and returns a fresh slice; the
// input is left untouched. DateRange and Category are label filters over
// the time series and category views — they never remove departments here.
func Apply(depts []dataset.Department, c Criteria) []dataset.Department {
	r := c.ScoreRange
	if r.Min == 0 && r.Max == 0 {
		r = Range{Min: 0, Max: 100}
	}

	var ids map[string]bool
	if len(c.Departments) > 0 {
		ids = make(map[string]bool, len(c.Departments))
		for _, id := range c.Departments {
			ids[id] = true
		}
	}

	out := make([]dataset.Department, 0, len(depts))
	for _, d := range depts {
		if ids != nil && !ids[d.ID] {
			continue
		}
		if d.Score < r.Min || d.Score > r.Max {
			continue
		}
		out = append(out, d)
	}
	return out
}

// TrendWindow returns the slice of the monthly series selected by
// dateRange: the last 3 or 6 recorded months, the months of now's calendar
// year, or the whole series for "all" and unknown keys.
func TrendWindow(trends []dataset.MonthlyTrend, dateRange string, now time.Time) []dataset.MonthlyTrend {
	switch dateRange {
	case RangeRecent3:
		return lastN(trends, 3)
	case RangeRecent6:
		return lastN(trends, 6)
	case RangeThisYear:
		prefix := now.Format("2006") + "-"
		out := make([]dataset.MonthlyTrend, 0, len(trends))
		for _, tr := range trends {
			if strings.HasPrefix(tr.Month, prefix) {
				out = append(out, tr)
			}
		}
		return out
	default:
		return append([]dataset.MonthlyTrend(nil), trends...)
	}
}

// ScoreBound parses a score bound from user input. Non-numeric or
// out-of-range input falls back to def — the widest permissible bound —
// rather than failing.
func ScoreBound(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v != v { // reject NaN
		return def
	}
	if v < 0 || v > 100 {
		return def
	}
	return v
}

func lastN(trends []dataset.MonthlyTrend, n int) []dataset.MonthlyTrend {
	if len(trends) <= n {
		return append([]dataset.MonthlyTrend(nil), trends...)
	}
	return append([]dataset.MonthlyTrend(nil), trends[len(trends)-n:]...)
}
