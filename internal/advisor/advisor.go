package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// FallbackMessage is the user-visible text returned when the advisory
// collaborator fails or its response cannot be parsed. Collaborator
// failures are never fatal to the engine.
const FallbackMessage = "AI analysis is temporarily unavailable. Please try again in a moment."

// MonthPrediction is one month of the forward score forecast.
type MonthPrediction struct {
	Month          string  `json:"month"`
	TotalScore     float64 `json:"totalScore"`
	ContractScore  float64 `json:"contractScore"`
	PersonnelScore float64 `json:"personnelScore"`
	BudgetScore    float64 `json:"budgetScore"`
	Confidence     float64 `json:"confidence"`
}

// Prediction is the structured forecast the collaborator returns.
type Prediction struct {
	NextThreeMonths []MonthPrediction `json:"nextThreeMonths"`
	KeyFactors      []string          `json:"keyFactors"`
	RiskFactors     []string          `json:"riskFactors"`
	Recommendations []string          `json:"recommendations"`
}

// predictionEnvelope matches the collaborator's wire format.
type predictionEnvelope struct {
	Predictions Prediction `json:"predictions"`
}

// ParseError reports that the collaborator's response could not be parsed
// into the expected prediction schema.
type ParseError struct {
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("advisor: parse response: %s: %v", e.Reason, e.Cause)
	}
	return "advisor: parse response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ParsePrediction extracts the prediction document from the collaborator's
// response text. The response may wrap the JSON object in prose; the
// outermost braces are taken as the document. Returns a *ParseError when
// no parsable prediction is found.
func ParsePrediction(text string) (*Prediction, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &ParseError{Reason: "no JSON object in response"}
	}

	var env predictionEnvelope
	if err := json.Unmarshal([]byte(text[start:end+1]), &env); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Cause: err}
	}
	if len(env.Predictions.NextThreeMonths) == 0 {
		return nil, &ParseError{Reason: "predictions.nextThreeMonths is empty"}
	}
	return &env.Predictions, nil
}

// Client is the AI advisory collaborator: given a question or a slice of
// the snapshot it returns analysis text or a structured prediction.
type Client interface {
	// Ask answers a free-text question about the current snapshot.
	Ask(ctx context.Context, question string, snap *dataset.Snapshot) (string, error)

	// AnalyzeTrends produces a narrative analysis of the monthly series.
	AnalyzeTrends(ctx context.Context, trends []dataset.MonthlyTrend) (string, error)

	// PredictScores forecasts the next three months of scores.
	PredictScores(ctx context.Context, snap *dataset.Snapshot) (*Prediction, error)
}

// HTTPClient talks to a real advisory service over HTTP. Requests are
// JSON-encoded, responses are {"text": "..."}.
type HTTPClient struct {
	endpoint string
	header   string
	apiKey   string
	client   *http.Client
}

// NewHTTP creates an HTTPClient for the given endpoint. header and apiKey
// may be empty when the service is unauthenticated.
func NewHTTP(endpoint, header, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		endpoint: endpoint,
		header:   header,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type askRequest struct {
	Question string            `json:"question"`
	Snapshot *dataset.Snapshot `json:"snapshot,omitempty"`

	Trends []dataset.MonthlyTrend `json:"trends,omitempty"`
}

type askResponse struct {
	Text string `json:"text"`
}

// Ask sends the question and snapshot to the advisory service.
func (c *HTTPClient) Ask(ctx context.Context, question string, snap *dataset.Snapshot) (string, error) {
	return c.post(ctx, askRequest{Question: question, Snapshot: snap})
}

// AnalyzeTrends asks the service for a narrative over the monthly series.
func (c *HTTPClient) AnalyzeTrends(ctx context.Context, trends []dataset.MonthlyTrend) (string, error) {
	return c.post(ctx, askRequest{
		Question: "Analyze the monthly integrity index series: overall trend, the category with the largest change, notable patterns, and a three-month outlook.",
		Trends:   trends,
	})
}

// PredictScores asks the service for a structured three-month forecast.
func (c *HTTPClient) PredictScores(ctx context.Context, snap *dataset.Snapshot) (*Prediction, error) {
	text, err := c.post(ctx, askRequest{
		Question: "Predict the integrity index for the next three months as JSON matching the prediction schema.",
		Snapshot: snap,
	})
	if err != nil {
		return nil, err
	}
	return ParsePrediction(text)
}

func (c *HTTPClient) post(ctx context.Context, body askRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("advisor: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("advisor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.header != "" && c.apiKey != "" {
		req.Header.Set(c.header, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("advisor: service returned HTTP %d", resp.StatusCode)
	}

	var out askResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", &ParseError{Reason: "invalid response envelope", Cause: err}
	}
	return out.Text, nil
}
