package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kpushkaryov/evader/pkg/logger"
)

// Writer turns a finished run's recorder state into a report file.
type Writer struct {
	rec    *Recorder
	config WriterConfig
}

// WriterConfig configures report generation
type WriterConfig struct {
	OutputDir   string
	Format      string // "json", "markdown"
	DetailLevel string // "summary", "full"
	// ScenarioConfig is the parameter set the run was started with,
	// embedded so a report is reproducible on its own.
	ScenarioConfig map[string]interface{}
}

// RunReport is the on-disk report for one engagement run
type RunReport struct {
	Metadata       ReportMetadata           `json:"metadata"`
	Summary        EngagementSummary        `json:"summary"`
	Timeline       []TimelineEntry          `json:"timeline"`
	Metrics        map[string]MetricSummary `json:"metrics"`
	EventLog       []EventLogEntry          `json:"event_log,omitempty"`
	ScenarioConfig map[string]interface{}   `json:"scenario_config,omitempty"`
}

// ReportMetadata contains report metadata
type ReportMetadata struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	RunStart    time.Time `json:"run_start"`
	RunEnd      time.Time `json:"run_end"`
	Duration    string    `json:"duration"`
	Version     string    `json:"version"`
}

// EngagementSummary provides the high-level result of the run
type EngagementSummary struct {
	Outcome         Outcome `json:"outcome"`
	SimDuration     float64 `json:"sim_duration_s"`
	MissilesFired   int     `json:"missiles_fired"`
	MissilesHit     int     `json:"missiles_hit"`
	MissilesExpired int     `json:"missiles_expired"`
	DegradedTicks   int     `json:"degraded_ticks"`
	ClosestApproach float64 `json:"closest_approach"`
	FuelSpent       float64 `json:"fuel_spent"`
}

// TimelineEntry represents a significant event in the timeline
type TimelineEntry struct {
	SimTime     float64                `json:"sim_time_s"`
	EventType   string                 `json:"event_type"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// MetricSummary condenses a metric's history
type MetricSummary struct {
	Final float64 `json:"final"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Unit  string  `json:"unit"`
}

// EventLogEntry represents a detailed event log entry
type EventLogEntry struct {
	Timestamp   time.Time              `json:"timestamp"`
	SimTime     float64                `json:"sim_time_s"`
	EventType   string                 `json:"event_type"`
	Severity    string                 `json:"severity"`
	Description string                 `json:"description"`
	Entity      string                 `json:"entity,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// NewWriter creates a report writer for a recorder
func NewWriter(rec *Recorder, config WriterConfig) *Writer {
	return &Writer{
		rec:    rec,
		config: config,
	}
}

// Generate builds the report from the recorder state
func (w *Writer) Generate() (*RunReport, error) {
	summary := w.rec.GetSummary()
	events := w.rec.GetEvents()
	metrics := w.rec.GetMetrics()

	report := &RunReport{
		Metadata: ReportMetadata{
			RunID:       summary.RunID,
			GeneratedAt: time.Now(),
			RunStart:    summary.StartTime,
			RunEnd:      summary.StartTime.Add(summary.Duration),
			Duration:    summary.Duration.Round(time.Millisecond).String(),
			Version:     "1.0",
		},
		Summary:        w.buildSummary(events, summary, metrics),
		Timeline:       w.buildTimeline(events),
		Metrics:        condenseMetrics(metrics),
		ScenarioConfig: w.config.ScenarioConfig,
	}

	if w.config.DetailLevel == "full" {
		report.EventLog = buildEventLog(events)
	}

	return report, nil
}

// Save writes the report to the output directory
func (w *Writer) Save(report *RunReport) error {
	if err := os.MkdirAll(w.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("run_%s_%s", shortID(report.Metadata.RunID), timestamp)

	var path string
	var err error
	switch w.config.Format {
	case "", "json":
		path = filepath.Join(w.config.OutputDir, filename+".json")
		err = w.saveJSON(report, path)
	case "markdown":
		path = filepath.Join(w.config.OutputDir, filename+".md")
		err = w.saveMarkdown(report, path)
	default:
		return fmt.Errorf("unsupported report format: %s", w.config.Format)
	}

	if err == nil {
		logger.Successf("Report saved to: %s", path)
	}
	return err
}

func (w *Writer) saveJSON(report *RunReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (w *Writer) saveMarkdown(report *RunReport, path string) error {
	var sb strings.Builder

	sb.WriteString("# Engagement Report\n\n")
	sb.WriteString(fmt.Sprintf("**Run ID:** %s\n", report.Metadata.RunID))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", report.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", report.Metadata.Duration))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", report.Summary.Outcome))
	sb.WriteString(fmt.Sprintf("- **Simulated time:** %.2fs\n", report.Summary.SimDuration))
	sb.WriteString(fmt.Sprintf("- **Missiles fired:** %d\n", report.Summary.MissilesFired))
	sb.WriteString(fmt.Sprintf("- **Missiles hit:** %d\n", report.Summary.MissilesHit))
	sb.WriteString(fmt.Sprintf("- **Missiles expired:** %d\n", report.Summary.MissilesExpired))
	sb.WriteString(fmt.Sprintf("- **Degraded ticks:** %d\n", report.Summary.DegradedTicks))
	if report.Summary.ClosestApproach > 0 {
		sb.WriteString(fmt.Sprintf("- **Closest approach:** %.2f\n", report.Summary.ClosestApproach))
	}
	if report.Summary.FuelSpent > 0 {
		sb.WriteString(fmt.Sprintf("- **Fuel spent:** %.2f\n", report.Summary.FuelSpent))
	}
	sb.WriteString("\n")

	if len(report.Timeline) > 0 {
		sb.WriteString("## Timeline\n\n")
		for _, entry := range report.Timeline {
			sb.WriteString(fmt.Sprintf("- `t=%7.2f` **%s** %s\n", entry.SimTime, entry.EventType, entry.Description))
		}
		sb.WriteString("\n")
	}

	if len(report.Metrics) > 0 {
		sb.WriteString("## Metrics\n\n")
		sb.WriteString("| Metric | Final | Min | Max | Unit |\n")
		sb.WriteString("|--------|-------|-----|-----|------|\n")
		names := make([]string, 0, len(report.Metrics))
		for name := range report.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m := report.Metrics[name]
			sb.WriteString(fmt.Sprintf("| %s | %.3f | %.3f | %.3f | %s |\n", name, m.Final, m.Min, m.Max, m.Unit))
		}
		sb.WriteString("\n")
	}

	if len(report.ScenarioConfig) > 0 {
		sb.WriteString("## Scenario Configuration\n\n")
		keys := make([]string, 0, len(report.ScenarioConfig))
		for k := range report.ScenarioConfig {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("- **%s:** %v\n", k, report.ScenarioConfig[k]))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func (w *Writer) buildSummary(events []Event, summary Summary, metrics map[string]Metric) EngagementSummary {
	es := EngagementSummary{
		Outcome:         summary.Outcome,
		MissilesFired:   summary.EventCounts[EventTypeLaunch],
		MissilesHit:     summary.EventCounts[EventTypeHit],
		MissilesExpired: summary.EventCounts[EventTypeExpired],
		DegradedTicks:   summary.EventCounts[EventTypeDegraded],
	}

	for _, event := range events {
		if event.SimTime > es.SimDuration {
			es.SimDuration = event.SimTime
		}
	}

	if m, ok := metrics["closest_approach"]; ok {
		es.ClosestApproach = m.Value
		for _, point := range m.History {
			if point.Value < es.ClosestApproach {
				es.ClosestApproach = point.Value
			}
		}
	}
	if m, ok := metrics["fuel_spent"]; ok {
		es.FuelSpent = m.Value
	}

	return es
}

// buildTimeline keeps the events a reader scans first: launches, hits,
// expirations, arrivals, and degraded controller ticks.
func (w *Writer) buildTimeline(events []Event) []TimelineEntry {
	timeline := make([]TimelineEntry, 0)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	for _, event := range events {
		switch event.Type {
		case EventTypeLaunch, EventTypeHit, EventTypeExpired, EventTypeArrival, EventTypeDegraded:
			timeline = append(timeline, TimelineEntry{
				SimTime:     event.SimTime,
				EventType:   event.Type,
				Description: event.Message,
				Details:     event.Details,
			})
		}
	}

	return timeline
}

func buildEventLog(events []Event) []EventLogEntry {
	log := make([]EventLogEntry, 0, len(events))

	for _, event := range events {
		entry := EventLogEntry{
			Timestamp:   event.Timestamp,
			SimTime:     event.SimTime,
			EventType:   event.Type,
			Severity:    event.Severity,
			Description: event.Message,
			Details:     event.Details,
		}
		if event.EntityID != nil {
			entry.Entity = shortID(event.EntityID.String())
		}
		log = append(log, entry)
	}

	return log
}

func condenseMetrics(metrics map[string]Metric) map[string]MetricSummary {
	out := make(map[string]MetricSummary, len(metrics))
	for name, m := range metrics {
		ms := MetricSummary{Final: m.Value, Min: m.Value, Max: m.Value, Unit: m.Unit}
		for _, point := range m.History {
			if point.Value < ms.Min {
				ms.Min = point.Value
			}
			if point.Value > ms.Max {
				ms.Max = point.Value
			}
		}
		out[name] = ms
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
