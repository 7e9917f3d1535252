package notify

import (
	"fmt"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// Rule thresholds.
const (
	risingTrend    = 2.0  // trend above this fires the rising-star rule
	decliningTrend = -1.0 // trend below this fires the declining rule
	scoreFloor     = 70.0 // department scores below this breach the threshold
	excellentIndex = 80.0 // total index above this is excellent
	satisfiedLevel = 75.0 // citizen satisfaction above this is healthy
)

// evaluate runs the fixed rule set against snap and returns the candidate
// list in evaluation order: per-department rules in department-list order,
// then the index-wide rules.
func evaluate(snap *dataset.Snapshot, now time.Time) []Notification {
	var out []Notification

	for _, d := range snap.Departments {
		trend := d.TrendValue()

		if trend > risingTrend {
			out = append(out, Notification{
				ID:    "trend-up-" + d.ID,
				Type:  TypeSuccess,
				Title: "Outstanding performer",
				Message: fmt.Sprintf("%s rose %s points, reaching a score of %.1f.",
					d.Name, d.Trend, d.Score),
				Timestamp:  now,
				Department: d.Name,
			})
		} else if trend < decliningTrend {
			out = append(out, Notification{
				ID:    "trend-down-" + d.ID,
				Type:  TypeWarning,
				Title: "Improvement needed",
				Message: fmt.Sprintf("%s's integrity score fell %s points. A review is recommended.",
					d.Name, d.Trend),
				Timestamp:  now,
				Department: d.Name,
			})
		}

		if d.Score < scoreFloor {
			out = append(out, Notification{
				ID:    "low-score-" + d.ID,
				Type:  TypeError,
				Title: "Threshold breach",
				Message: fmt.Sprintf("%s's integrity score (%.1f) is below the threshold.",
					d.Name, d.Score),
				Timestamp:  now,
				Department: d.Name,
			})
		}
	}

	if snap.IntegrationIndex.TotalScore > excellentIndex {
		out = append(out, Notification{
			ID:    "overall-excellent",
			Type:  TypeSuccess,
			Title: "Overall index excellent",
			Message: fmt.Sprintf("The overall integrity index stands at %.1f, an excellent level.",
				snap.IntegrationIndex.TotalScore),
			Timestamp: now,
		})
	}

	if snap.IntegrationIndex.CitizenSatisfaction > satisfiedLevel {
		out = append(out, Notification{
			ID:    "citizen-satisfaction",
			Type:  TypeInfo,
			Title: "Citizen satisfaction healthy",
			Message: fmt.Sprintf("Citizen satisfaction is holding at %.1f points.",
				snap.IntegrationIndex.CitizenSatisfaction),
			Timestamp: now,
		})
	}

	return out
}
