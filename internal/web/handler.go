package web

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"focuswatch/internal/config"
	"focuswatch/internal/models"
	"focuswatch/internal/reporter"
	"focuswatch/pkg/focus"
	"focuswatch/pkg/utils"
)

const defaultEventLimit = 100

// Store is the read side of the history database used by the API.
type Store interface {
	reporter.EventStore
	GetRecent(limit int) ([]*models.FocusEvent, error)
	GetLatest() (*models.FocusEvent, error)
}

type Handler struct {
	config   *config.Config
	store    Store
	backend  focus.Backend
	reporter *reporter.Reporter
	log      zerolog.Logger
}

func NewHandler(cfg *config.Config, store Store, backend focus.Backend, log zerolog.Logger) *Handler {
	return &Handler{
		config:   cfg,
		store:    store,
		backend:  backend,
		reporter: reporter.New(cfg, store),
		log:      log,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/capabilities", h.handleCapabilities)
	mux.HandleFunc("/api/focus/current", h.handleCurrentFocus)
	mux.HandleFunc("/api/events", h.handleEvents)
	mux.HandleFunc("/api/events/latest", h.handleLatestEvent)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/summary", h.handleSummary)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

func (h *Handler) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.respondJSON(w, h.backend.Capabilities())
}

func (h *Handler) handleCurrentFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := focus.SafeQuery(h.backend)

	if r.Header.Get("HX-Request") == "true" {
		h.respondCurrentHTML(w, snap)
		return
	}

	h.respondJSON(w, snap)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	periodType := query.Get("period") // day, week, month

	var (
		events []*models.FocusEvent
		err    error
	)

	if periodType != "" {
		period, perr := h.reporter.Period(periodType)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		events, err = h.store.GetEventsBetween(period.Start, period.End)
	} else {
		limit := defaultEventLimit
		if limitStr := query.Get("limit"); limitStr != "" {
			l, cerr := strconv.Atoi(limitStr)
			if cerr != nil || l <= 0 {
				http.Error(w, fmt.Sprintf("invalid limit: %q", limitStr), http.StatusBadRequest)
				return
			}
			limit = l
		}
		events, err = h.store.GetRecent(limit)
	}

	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch events: %v", err), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*models.FocusEvent{}
	}

	h.respondJSON(w, events)
}

func (h *Handler) handleLatestEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	event, err := h.store.GetLatest()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch latest event: %v", err), http.StatusInternalServerError)
		return
	}

	if event == nil {
		http.Error(w, "No events found", http.StatusNotFound)
		return
	}

	h.respondJSON(w, event)
}

func (h *Handler) periodParam(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return "day"
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := h.periodParam(r)
	if _, err := h.reporter.Period(periodType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, report)
}

// handleSummary serves the dashboard fragments. Plain requests get the
// report as JSON.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := h.periodParam(r)
	if _, err := h.reporter.Period(periodType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get summary: %v", err), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		h.respondSummaryHTML(w, report)
		return
	}

	h.respondJSON(w, report)
}

func (h *Handler) respondSummaryHTML(w http.ResponseWriter, report *models.Report) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if len(report.Apps) == 0 {
		w.Write([]byte(`<div class="loading">No data available</div>`))
		return
	}

	var b strings.Builder
	b.WriteString(`<div class="listing">`)
	for _, app := range report.Apps {
		fmt.Fprintf(&b, `
		<div class="app-item" style="--bar-width: %.1f%%">
			<span class="app-name">%s</span>
			<div>
				<span class="app-time">%s</span>
				<span class="app-percentage">%.1f%%</span>
			</div>
		</div>`, app.Percentage, html.EscapeString(app.AppName), utils.FormatRoundedUnit(app.TotalSeconds), app.Percentage)
	}
	b.WriteString(`</div>`)
	fmt.Fprintf(&b, `<div class="total">Total: %s</div>`, utils.FormatRoundedUnit(report.TotalSeconds))

	w.Write([]byte(b.String()))
}

func (h *Handler) respondCurrentHTML(w http.ResponseWriter, snap focus.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if snap.Application == nil && snap.Window == nil {
		w.Write([]byte(`<div class="loading">Nothing focused</div>`))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="app-item"><span class="app-name">%s</span><span class="app-time">%s</span></div>`,
		html.EscapeString(snap.ApplicationName()), html.EscapeString(string(snap.ConfidenceLevel)))
	if snap.Window != nil {
		fmt.Fprintf(&b, `<div class="app-item"><span class="app-time">%s</span></div>`, html.EscapeString(snap.Window.Title))
	}
	if snap.BrowserTab != nil && snap.BrowserTab.Title != nil {
		fmt.Fprintf(&b, `<div class="app-item"><span class="app-time">Tab: %s</span></div>`, html.EscapeString(*snap.BrowserTab.Title))
	}

	w.Write([]byte(b.String()))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	latestEvent, _ := h.store.GetLatest()

	status := map[string]interface{}{
		"poll_interval":   h.config.Watcher.PollInterval.String(),
		"debounce_window": h.config.Watcher.DebounceWindow.String(),
		"database_path":   h.config.Database.Path,
		"capabilities":    h.backend.Capabilities(),
	}

	if latestEvent != nil {
		status["latest_event"] = map[string]interface{}{
			"app_name":     latestEvent.AppName,
			"window_title": latestEvent.WindowTitle,
			"timestamp":    latestEvent.Timestamp,
			"confidence":   latestEvent.Confidence,
		}
	}

	h.respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Error encoding JSON")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
