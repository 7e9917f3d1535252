package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// mockPredictionJSON is the canned forecast the mock returns, in the same
// wire format a real service would produce.
const mockPredictionJSON = `{
  "predictions": {
    "nextThreeMonths": [
      {"month": "2025-08", "totalScore": 79.2, "contractScore": 83.4,
       "personnelScore": 76.8, "budgetScore": 78.5, "confidence": 85},
      {"month": "2025-09", "totalScore": 79.8, "contractScore": 84.1,
       "personnelScore": 77.2, "budgetScore": 79.1, "confidence": 80},
      {"month": "2025-10", "totalScore": 80.3, "contractScore": 84.7,
       "personnelScore": 77.8, "budgetScore": 79.6, "confidence": 75}
    ],
    "keyFactors": [
      "Sustained improvement in the contract category",
      "Second-half budget execution season",
      "Delayed effect of personnel transparency measures"
    ],
    "riskFactors": [
      "Changes in economic conditions",
      "Possible policy shifts",
      "External audit findings"
    ],
    "recommendations": [
      "Strengthen transparency of the personnel committee",
      "Expand the citizen monitoring program",
      "Run quarterly integrity self-assessments"
    ]
  }
}`

// MockClient is the development stand-in for the advisory service. It
// answers from canned text keyed on the question's content and needs no
// network access.
type MockClient struct{}

// NewMock returns a MockClient.
func NewMock() *MockClient { return &MockClient{} }

// Ask returns a canned answer matched on keywords in the question.
func (m *MockClient) Ask(ctx context.Context, question string, snap *dataset.Snapshot) (string, error) {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "predict"):
		return mockPredictionJSON, nil
	case strings.Contains(q, "trend"):
		return m.trendAnalysis(snap), nil
	case strings.Contains(q, "improve"):
		return "The Planning and Budget department improved the most over the past six months (+2.3 points), driven by a lower re-tender rate in the contract category.", nil
	default:
		return fmt.Sprintf("Analysis of your question:\n\n%s\n\nThe overall index shows a steady upward trend. Ask about a specific department or category for more detail.", question), nil
	}
}

// AnalyzeTrends summarizes the monthly series.
func (m *MockClient) AnalyzeTrends(ctx context.Context, trends []dataset.MonthlyTrend) (string, error) {
	if len(trends) == 0 {
		return "No monthly data is available to analyze yet.", nil
	}
	first, last := trends[0], trends[len(trends)-1]
	return fmt.Sprintf(
		"Integrity index trend (%s to %s): the total score moved from %.1f to %.1f. "+
			"The contract category leads the change (%.1f to %.1f); personnel remains the slowest mover.",
		first.Month, last.Month,
		first.TotalScore, last.TotalScore,
		first.ContractScore, last.ContractScore,
	), nil
}

// PredictScores returns the canned three-month forecast.
func (m *MockClient) PredictScores(ctx context.Context, snap *dataset.Snapshot) (*Prediction, error) {
	return ParsePrediction(mockPredictionJSON)
}

func (m *MockClient) trendAnalysis(snap *dataset.Snapshot) string {
	if snap == nil || len(snap.MonthlyTrends) == 0 {
		return "No monthly data is available to analyze yet."
	}
	out, _ := m.AnalyzeTrends(context.Background(), snap.MonthlyTrends)
	return out
}
