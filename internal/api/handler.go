package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/advisor"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/export"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/filter"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/notify"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/sim"
)

// Deps collects the engines the handler serves.
type Deps struct {
	Sim       *sim.Simulator
	Notify    *notify.Engine
	Advisor   advisor.Client
	Bookmarks *export.Bookmarks

	// Now is the clock used for export filenames and trend windows.
	// Defaults to time.Now.
	Now func() time.Time
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads the current snapshot from the simulator and returns JSON.
type Handler struct {
	deps Deps
	mux  *http.ServeMux
}

// New creates a Handler wired to the given engines and registers all routes.
func New(deps Deps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &Handler{deps: deps, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)
	h.mux.HandleFunc("/api/v1/departments", h.departments)
	h.mux.HandleFunc("/api/v1/trends", h.trends)
	h.mux.HandleFunc("/api/v1/notifications", h.notifications)
	h.mux.HandleFunc("/api/v1/notifications/", h.notificationByID) // subtree — extracts {id}
	h.mux.HandleFunc("/api/v1/sim/start", h.simStart)
	h.mux.HandleFunc("/api/v1/sim/stop", h.simStop)
	h.mux.HandleFunc("/api/v1/sim/reset", h.simReset)
	h.mux.HandleFunc("/api/v1/sim/status", h.simStatus)
	h.mux.HandleFunc("/api/v1/advisor/ask", h.advisorAsk)
	h.mux.HandleFunc("/api/v1/advisor/predict", h.advisorPredict)
	h.mux.HandleFunc("/api/v1/export/csv", h.exportCSV)
	h.mux.HandleFunc("/api/v1/export/report", h.exportReport)
	h.mux.HandleFunc("/api/v1/export/share", h.exportShare)
	h.mux.HandleFunc("/api/v1/bookmarks", h.bookmarks)
	h.mux.HandleFunc("/api/v1/bookmarks/", h.bookmarkByID) // subtree — extracts {id}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — a compact liveness summary.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := h.deps.Sim.Snapshot()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		TotalScore:  snap.IntegrationIndex.TotalScore,
		Grade:       snap.IntegrationIndex.Grade,
		Departments: len(snap.Departments),
		SimRunning:  h.deps.Sim.Running(),
		Unread:      h.deps.Notify.UnreadCount(),
	})
}

// snapshot returns GET /api/v1/snapshot — the full current dataset.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.deps.Sim.Snapshot())
}

// departments returns GET /api/v1/departments — the department list, optionally
// filtered by ?ids=a,b and an inclusive ?min=..&max=.. score range.
func (h *Handler) departments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	c := filter.Default()
	if ids := q.Get("ids"); ids != "" {
		c.Departments = strings.Split(ids, ",")
	}
	c.ScoreRange.Min = filter.ScoreBound(q.Get("min"), 0)
	c.ScoreRange.Max = filter.ScoreBound(q.Get("max"), 100)
	if cat := q.Get("category"); cat != "" {
		c.Category = cat
	}

	depts := filter.Apply(h.deps.Sim.Snapshot().Departments, c)
	jsonResp(w, http.StatusOK, DepartmentsResponse{
		Departments: depts,
		Count:       len(depts),
	})
}

// trends returns GET /api/v1/trends — the monthly series windowed by
// ?range=all|recent3|recent6|thisYear.
func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dateRange := r.URL.Query().Get("range")
	if dateRange == "" {
		dateRange = filter.RangeAll
	}
	snap := h.deps.Sim.Snapshot()
	jsonResp(w, http.StatusOK, TrendsResponse{
		Range:  dateRange,
		Trends: filter.TrendWindow(snap.MonthlyTrends, dateRange, h.deps.Now()),
	})
}

// notifications returns GET /api/v1/notifications — the active list.
func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{
		"notifications": h.deps.Notify.List(),
		"unread":        h.deps.Notify.UnreadCount(),
	})
}

// notificationByID dispatches the /api/v1/notifications/ subtree:
//
//	POST   /api/v1/notifications/read-all
//	POST   /api/v1/notifications/{id}/read
//	DELETE /api/v1/notifications/{id}
func (h *Handler) notificationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/notifications/")
	if rest == "" {
		h.notifications(w, r)
		return
	}

	if rest == "read-all" {
		if r.Method != http.MethodPost {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.deps.Notify.MarkAllRead()
		jsonResp(w, http.StatusOK, map[string]int{"unread": h.deps.Notify.UnreadCount()})
		return
	}

	if id, ok := strings.CutSuffix(rest, "/read"); ok {
		if r.Method != http.MethodPost {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !h.deps.Notify.MarkRead(id) {
			jsonErr(w, http.StatusNotFound, "notification not found")
			return
		}
		jsonResp(w, http.StatusOK, map[string]int{"unread": h.deps.Notify.UnreadCount()})
		return
	}

	if r.Method != http.MethodDelete {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.deps.Notify.Remove(rest) {
		jsonErr(w, http.StatusNotFound, "notification not found")
		return
	}
	jsonResp(w, http.StatusOK, map[string]int{"unread": h.deps.Notify.UnreadCount()})
}

// simStart handles POST /api/v1/sim/start. Idempotent.
func (h *Handler) simStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.deps.Sim.Start()
	jsonResp(w, http.StatusOK, h.simStatusBody())
}

// simStop handles POST /api/v1/sim/stop. Idempotent.
func (h *Handler) simStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.deps.Sim.Stop()
	jsonResp(w, http.StatusOK, h.simStatusBody())
}

// simReset handles POST /api/v1/sim/reset — stops the simulator and restores
// the seed snapshot.
func (h *Handler) simReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.deps.Sim.Reset()
	jsonResp(w, http.StatusOK, h.simStatusBody())
}

// simStatus handles GET /api/v1/sim/status.
func (h *Handler) simStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.simStatusBody())
}

func (h *Handler) simStatusBody() SimStatusResponse {
	resp := SimStatusResponse{
		Running:  h.deps.Sim.Running(),
		Ticks:    h.deps.Sim.Ticks(),
		Interval: h.deps.Sim.Interval().String(),
	}
	if lt := h.deps.Sim.LastTick(); !lt.IsZero() {
		resp.LastTick = lt.UTC().Format(time.RFC3339)
	}
	return resp
}

// advisorAsk handles POST /api/v1/advisor/ask. Advisory failures degrade to
// the fallback message rather than an error status: the dashboard keeps
// rendering even when the AI service is down.
func (h *Handler) advisorAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		jsonErr(w, http.StatusBadRequest, "question is required")
		return
	}

	text, err := h.deps.Advisor.Ask(r.Context(), req.Question, h.deps.Sim.Snapshot())
	if err != nil {
		slog.Warn("api: advisor ask failed", "err", err)
		text = advisor.FallbackMessage
	}
	jsonResp(w, http.StatusOK, TextResponse{Text: text})
}

// advisorPredict handles POST /api/v1/advisor/predict. On failure the
// response carries the fallback text instead of a prediction.
func (h *Handler) advisorPredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	pred, err := h.deps.Advisor.PredictScores(r.Context(), h.deps.Sim.Snapshot())
	if err != nil {
		slog.Warn("api: advisor predict failed", "err", err)
		jsonResp(w, http.StatusOK, TextResponse{Text: advisor.FallbackMessage})
		return
	}
	jsonResp(w, http.StatusOK, pred)
}

// exportCSV handles GET /api/v1/export/csv — the department table as a
// BOM-prefixed CSV download.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename(h.deps.Now())+`"`)
	w.Write([]byte(export.CSV(h.deps.Sim.Snapshot()))) //nolint:errcheck
}

// exportReport handles GET /api/v1/export/report — a printable HTML page.
func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(export.PrintableHTML(h.deps.Sim.Snapshot(), h.deps.Now()))) //nolint:errcheck
}

// exportShare handles GET /api/v1/export/share — a plain-text summary.
func (h *Handler) exportShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.ShareText(h.deps.Sim.Snapshot(), h.deps.Now()))) //nolint:errcheck
}

// bookmarks handles GET (list) and POST (save current snapshot) on
// /api/v1/bookmarks.
func (h *Handler) bookmarks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jsonResp(w, http.StatusOK, h.deps.Bookmarks.List())

	case http.MethodPost:
		var req BookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Label) == "" {
			jsonErr(w, http.StatusBadRequest, "label is required")
			return
		}
		bm := h.deps.Bookmarks.Save(req.Label, h.deps.Sim.Snapshot())
		jsonResp(w, http.StatusCreated, bm)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// bookmarkByID handles GET and DELETE on /api/v1/bookmarks/{id}.
func (h *Handler) bookmarkByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/bookmarks/")
	if id == "" {
		h.bookmarks(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		bm, ok := h.deps.Bookmarks.Get(id)
		if !ok {
			jsonErr(w, http.StatusNotFound, "bookmark not found")
			return
		}
		jsonResp(w, http.StatusOK, bm)

	case http.MethodDelete:
		if !h.deps.Bookmarks.Delete(id) {
			jsonErr(w, http.StatusNotFound, "bookmark not found")
			return
		}
		jsonResp(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
