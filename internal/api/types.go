package api

import "github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status      string  `json:"status"`
	TotalScore  float64 `json:"totalScore"`
	Grade       string  `json:"grade"`
	Departments int     `json:"departments"`
	SimRunning  bool    `json:"simRunning"`
	Unread      int     `json:"unread"`
}

// DepartmentsResponse is the payload for GET /api/v1/departments.
type DepartmentsResponse struct {
	Departments []dataset.Department `json:"departments"`
	Count       int                  `json:"count"`
}

// TrendsResponse is the payload for GET /api/v1/trends.
type TrendsResponse struct {
	Range  string                 `json:"range"`
	Trends []dataset.MonthlyTrend `json:"trends"`
}

// SimStatusResponse is the payload for GET /api/v1/sim/status and for the
// POST /api/v1/sim/{start,stop,reset} responses.
type SimStatusResponse struct {
	Running  bool   `json:"running"`
	Ticks    int    `json:"ticks"`
	Interval string `json:"interval"`
	LastTick string `json:"lastTick,omitempty"` // RFC3339
}

// AskRequest is the body of POST /api/v1/advisor/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// TextResponse carries free-form advisory text.
type TextResponse struct {
	Text string `json:"text"`
}

// BookmarkRequest is the body of POST /api/v1/bookmarks.
type BookmarkRequest struct {
	Label string `json:"label"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
