package reporter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"focuswatch/internal/config"
	"focuswatch/internal/models"
	"focuswatch/pkg/utils"
)

// EventStore is the read side of the history database.
type EventStore interface {
	GetEventsBetween(start, end time.Time) ([]*models.FocusEvent, error)
}

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	store  EventStore
	now    func() time.Time
}

// New creates a new reporter
func New(cfg *config.Config, store EventStore) *Reporter {
	return &Reporter{
		config: cfg,
		store:  store,
		now:    time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.Period(periodType)
	if err != nil {
		return nil, err
	}

	events, err := r.store.GetEventsBetween(period.Start, period.End)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load focus events")
	}

	summaries := r.summarize(events, period.End)

	var totalSeconds int64
	for i := range summaries {
		summaries[i].TotalMinutes = float64(summaries[i].TotalSeconds) / 60.0
		summaries[i].TotalHours = float64(summaries[i].TotalSeconds) / 3600.0
		totalSeconds += summaries[i].TotalSeconds
	}

	if totalSeconds > 0 {
		for i := range summaries {
			summaries[i].Percentage = (float64(summaries[i].TotalSeconds) / float64(totalSeconds)) * 100.0
		}
	}

	report := &models.Report{
		Period:       *period,
		Apps:         summaries,
		TotalSeconds: totalSeconds,
		TotalMinutes: float64(totalSeconds) / 60.0,
		TotalHours:   float64(totalSeconds) / 3600.0,
		GeneratedAt:  r.now(),
	}

	return report, nil
}

// summarize attributes the time between consecutive focus changes to the
// earlier one. Spans are capped at MaxGap; the last event runs until now or
// the end of the period, whichever comes first. Events without an
// application end the previous span and count as idle.
func (r *Reporter) summarize(events []*models.FocusEvent, periodEnd time.Time) []models.AppSummary {
	limit := r.now()
	if periodEnd.Before(limit) {
		limit = periodEnd
	}

	byApp := make(map[string]*models.AppSummary)
	for i, e := range events {
		if e.AppName == "" {
			continue
		}

		next := limit
		if i+1 < len(events) {
			next = events[i+1].Timestamp
		}
		span := next.Sub(e.Timestamp)
		if span < 0 {
			span = 0
		}
		if span > r.config.Report.MaxGap {
			span = r.config.Report.MaxGap
		}

		s, ok := byApp[e.AppName]
		if !ok {
			s = &models.AppSummary{AppName: e.AppName}
			byApp[e.AppName] = s
		}
		s.TotalSeconds += int64(span / time.Second)
		s.EventCount++
	}

	summaries := make([]models.AppSummary, 0, len(byApp))
	for _, s := range byApp {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSeconds != summaries[j].TotalSeconds {
			return summaries[i].TotalSeconds > summaries[j].TotalSeconds
		}
		return summaries[i].AppName < summaries[j].AppName
	})
	return summaries
}

// Period calculates the time range of a day, week or month report
func (r *Reporter) Period(periodType string) (*models.ReportPeriod, error) {
	now := r.now().In(r.config.Location())
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, errors.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Focus Report - %s\n", report.Period.Type)
	fmt.Fprintf(&b, "Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total Time: %.2fh (%.0fm)\n\n", report.TotalHours, report.TotalMinutes)

	if len(report.Apps) == 0 {
		b.WriteString("No focus changes recorded for this period.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-30s %8s %10s %8s %9s\n", "Application", "Time", "Minutes", "Changes", "Percent")
	b.WriteString(strings.Repeat("-", 70) + "\n")

	for _, app := range report.Apps {
		fmt.Fprintf(&b, "%-30s %8s %10.0f %8d %8.1f%%\n",
			truncate(app.AppName, 30),
			utils.FormatRoundedUnit(app.TotalSeconds),
			app.TotalMinutes,
			app.EventCount,
			app.Percentage)
	}

	return b.String()
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}
	return string(data), nil
}

// truncate truncates a string to the specified number of runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
