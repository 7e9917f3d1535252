package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

func testSources() Sources {
	snap := &dataset.Snapshot{
		IntegrationIndex: dataset.IntegrationIndex{
			TotalScore:          78.5,
			CitizenSatisfaction: 76.3,
		},
		Departments: []dataset.Department{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Statistics:  dataset.Statistics{AverageScore: 80.9},
	}
	return Sources{
		Snapshot: func() *dataset.Snapshot { return snap },
		Unread:   func() int { return 2 },
		Ticks:    func() int { return 7 },
		Running:  func() bool { return true },
	}
}

func TestHandler_ExposesAllFamilies(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler(testSources()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"integrity_total_score 78.5",
		"integrity_average_score 80.9",
		"integrity_citizen_satisfaction 76.3",
		"integrity_departments 3",
		"integrity_notifications_unread 2",
		"integrity_sim_running 1",
		"integrity_sim_ticks_total 7",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q\n%s", want, body)
		}
	}
}

func TestHandler_OutputReparsesWithExpfmt(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler(testSources()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(rr.Body)
	if err != nil {
		t.Fatalf("re-parse exposition: %v", err)
	}
	if len(mfs) != 7 {
		t.Errorf("got %d metric families, want 7", len(mfs))
	}
	if mf, ok := mfs["integrity_sim_ticks_total"]; !ok {
		t.Error("integrity_sim_ticks_total missing")
	} else if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 7 {
		t.Errorf("ticks counter: got %g, want 7", got)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler(testSources()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}
