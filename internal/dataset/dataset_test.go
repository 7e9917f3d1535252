package dataset

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const validJSON = `{
  "integrationIndex": {
    "totalScore": 0,
    "grade": "",
    "categories": {
      "contract":  {"score": 82.1, "weight": 0.4},
      "personnel": {"score": 75.8, "weight": 0.3},
      "budget":    {"score": 77.9, "weight": 0.3}
    },
    "citizenSatisfaction": 76.3,
    "lastUpdated": "2025-07-31T09:00:00Z"
  },
  "departments": [
    {"id": "planning", "name": "Planning and Budget", "score": 85.2, "rank": 1,
     "trend": "+1.2", "employeeCount": 32,
     "categoryScores": {"contract": 86.0, "personnel": 84.1, "budget": 85.5}},
    {"id": "civil", "name": "Civil Service", "score": 82.7, "rank": 2,
     "trend": "-0.3", "employeeCount": 28,
     "categoryScores": {"contract": 81.9, "personnel": 83.2, "budget": 83.0}}
  ],
  "monthlyTrends": [
    {"month": "2025-06", "totalScore": 77.8, "contractScore": 81.0,
     "personnelScore": 75.1, "budgetScore": 77.3},
    {"month": "2025-07", "totalScore": 78.5, "contractScore": 82.1,
     "personnelScore": 75.8, "budgetScore": 77.9}
  ],
  "statistics": {
    "totalDepartments": 0,
    "averageScore": 0,
    "improvementRate": 2.3,
    "citizenParticipation": 1847
  }
}`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "integrity.json")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return p
}

func TestLoad_DerivesIndexAndStatistics(t *testing.T) {
	snap, err := Load(writeDataset(t, validJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 82.1×0.4 + 75.8×0.3 + 77.9×0.3 = 78.95 → 79.0 after rounding.
	if got := snap.IntegrationIndex.TotalScore; math.Abs(got-79.0) > 1e-9 {
		t.Errorf("TotalScore: got %g, want 79.0", got)
	}
	if got := snap.IntegrationIndex.Grade; got != "B" {
		t.Errorf("Grade: got %q, want B", got)
	}
	if got := snap.Statistics.TotalDepartments; got != 2 {
		t.Errorf("TotalDepartments: got %d, want 2", got)
	}
	// (85.2 + 82.7) / 2 = 83.95 → 84.0
	if got := snap.Statistics.AverageScore; math.Abs(got-84.0) > 1e-9 {
		t.Errorf("AverageScore: got %g, want 84.0", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load on missing file: expected error, got nil")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(writeDataset(t, `{"departments": [`))
	if err == nil {
		t.Fatal("Load on malformed JSON: expected error, got nil")
	}
}

func TestLoad_RejectsBadWeights(t *testing.T) {
	bad := strings.Replace(validJSON, `"weight": 0.4`, `"weight": 0.5`, 1)
	_, err := Load(writeDataset(t, bad))
	if err == nil {
		t.Fatal("Load with weight sum 1.1: expected error, got nil")
	}
}

func TestValidate_DuplicateDepartmentID(t *testing.T) {
	snap := &Snapshot{
		Departments: []Department{
			{ID: "d1", Name: "A", Score: 80},
			{ID: "d1", Name: "B", Score: 70},
		},
	}
	err := Validate(snap)
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Errorf("Validate: err = %v, want duplicate id error", err)
	}
}

func TestValidate_ScoreOutOfRange(t *testing.T) {
	snap := &Snapshot{
		Departments: []Department{{ID: "d1", Name: "A", Score: 120}},
	}
	if err := Validate(snap); err == nil {
		t.Error("Validate with score 120: expected error, got nil")
	}
	snap.Departments[0].Score = -1
	if err := Validate(snap); err == nil {
		t.Error("Validate with score -1: expected error, got nil")
	}
}

func TestClone_Independent(t *testing.T) {
	snap, err := Load(writeDataset(t, validJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cp := snap.Clone()
	if !reflect.DeepEqual(snap, cp) {
		t.Fatal("Clone: copy differs from original")
	}

	cp.Departments[0].Score = 60.0
	cp.MonthlyTrends[0].TotalScore = 1
	cp.Statistics.AverageScore = 1

	if snap.Departments[0].Score == 60.0 {
		t.Error("Clone: department mutation leaked into original")
	}
	if snap.MonthlyTrends[0].TotalScore == 1 {
		t.Error("Clone: trend mutation leaked into original")
	}
	if snap.Statistics.AverageScore == 1 {
		t.Error("Clone: statistics mutation leaked into original")
	}
}

func TestTrendValue(t *testing.T) {
	tests := []struct {
		trend string
		want  float64
	}{
		{"+2.5", 2.5},
		{"-1.2", -1.2},
		{"0.0", 0},
		{"", 0},
		{"n/a", 0},
	}
	for _, tc := range tests {
		d := Department{Trend: tc.trend}
		if got := d.TrendValue(); got != tc.want {
			t.Errorf("TrendValue(%q) = %g, want %g", tc.trend, got, tc.want)
		}
	}
}

func TestAverageScore_Empty(t *testing.T) {
	s := &Snapshot{}
	if got := s.AverageScore(); got != 0 {
		t.Errorf("AverageScore on empty snapshot: got %g, want 0", got)
	}
}
