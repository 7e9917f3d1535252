// Package metrics exposes engine telemetry in the Prometheus text
// exposition format so the dashboard server can be scraped like any other
// service. Metric families are built directly from client_model types and
// encoded with expfmt.
package metrics

import (
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// Sources provides the live readings exported at /metrics. Each func is
// called once per scrape.
type Sources struct {
	Snapshot func() *dataset.Snapshot
	Unread   func() int
	Ticks    func() int
	Running  func() bool
}

// Handler returns the /metrics HTTP handler.
func Handler(src Sources) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))

		enc := expfmt.NewEncoder(w, format)
		for _, mf := range build(src) {
			if err := enc.Encode(mf); err != nil {
				slog.Warn("metrics: encode failed", "family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

func build(src Sources) []*dto.MetricFamily {
	snap := src.Snapshot()

	running := 0.0
	if src.Running() {
		running = 1
	}

	return []*dto.MetricFamily{
		gauge("integrity_total_score",
			"City-wide integrity index total score.",
			snap.IntegrationIndex.TotalScore),
		gauge("integrity_average_score",
			"Mean department integrity score.",
			snap.Statistics.AverageScore),
		gauge("integrity_citizen_satisfaction",
			"Citizen satisfaction score.",
			snap.IntegrationIndex.CitizenSatisfaction),
		gauge("integrity_departments",
			"Number of departments in the current snapshot.",
			float64(len(snap.Departments))),
		gauge("integrity_notifications_unread",
			"Unread notifications in the alert list.",
			float64(src.Unread())),
		gauge("integrity_sim_running",
			"Whether the live simulator is running (1) or stopped (0).",
			running),
		counter("integrity_sim_ticks_total",
			"Simulator ticks applied since the last reset.",
			float64(src.Ticks())),
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}

func counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(v)}}},
	}
}
