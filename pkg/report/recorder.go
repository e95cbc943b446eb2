package report

import (
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/kpushkaryov/evader/pkg/logger"
)

// Recorder collects everything that happens during one engagement run:
// typed events, tracked metrics, and the final outcome. It is safe for
// concurrent use by the world loop and the entities it steps.
type Recorder struct {
	runID     string
	startTime time.Time
	events    []Event
	metrics   map[string]Metric
	outcome   Outcome
	mu        sync.RWMutex
}

// Event represents one logged engagement event
type Event struct {
	Timestamp time.Time
	SimTime   float64
	Type      string
	Severity  string
	EntityID  *uuid.UUID
	Message   string
	Details   map[string]interface{}
}

// Metric represents a tracked metric
type Metric struct {
	Name        string
	Value       float64
	Unit        string
	LastUpdated time.Time
	History     []MetricPoint
}

// MetricPoint represents a metric value at a point in time
type MetricPoint struct {
	Timestamp time.Time
	SimTime   float64
	Value     float64
}

// Outcome is how an engagement run ended.
type Outcome string

const (
	OutcomeUnresolved    Outcome = "unresolved"
	OutcomeReachedTarget Outcome = "reached_target"
	OutcomeDestroyed     Outcome = "destroyed"
	OutcomeSurvived      Outcome = "survived"
	OutcomeAborted       Outcome = "aborted"
)

// EventType constants
const (
	EventTypeRunStart = "run_start"
	EventTypeLaunch   = "launch"
	EventTypeHit      = "hit"
	EventTypeExpired  = "expired"
	EventTypeArrival  = "arrival"
	EventTypeDegraded = "degraded"
	EventTypeStatus   = "status"
	EventTypeSystem   = "system"
)

// Severity constants
const (
	SeverityDebug    = "debug"
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Color definitions
var (
	colorDebug    = color.New(color.FgHiBlack)
	colorInfo     = color.New(color.FgCyan)
	colorWarning  = color.New(color.FgYellow)
	colorError    = color.New(color.FgRed)
	colorCritical = color.New(color.FgRed, color.Bold)
	colorAircraft = color.New(color.FgBlue, color.Bold)
	colorMissile  = color.New(color.FgRed, color.Bold)
	colorSuccess  = color.New(color.FgGreen)
)

// NewRecorder creates a recorder for one engagement run
func NewRecorder(runID string) *Recorder {
	r := &Recorder{
		runID:     runID,
		startTime: time.Now(),
		events:    make([]Event, 0),
		metrics:   make(map[string]Metric),
		outcome:   OutcomeUnresolved,
	}

	r.logEvent(Event{
		Timestamp: r.startTime,
		Type:      EventTypeRunStart,
		Severity:  SeverityInfo,
		Message:   fmt.Sprintf("Run started: %s", runID),
	})
	r.echo(SeverityInfo, "Run Started",
		fmt.Sprintf("ID: %s | Time: %s", runID, r.startTime.Format("15:04:05")))

	return r
}

// RunID returns the run identifier.
func (r *Recorder) RunID() string {
	return r.runID
}

// LogLaunch records a missile launch against the aircraft.
func (r *Recorder) LogLaunch(simTime float64, launcherID, missileID uuid.UUID, aircraftDistance float64) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		SimTime:   simTime,
		Type:      EventTypeLaunch,
		Severity:  SeverityInfo,
		EntityID:  &missileID,
		Message:   fmt.Sprintf("Missile launched: %s at range %.1f", missileID.String()[:8], aircraftDistance),
		Details: map[string]interface{}{
			"launcher_id": launcherID,
			"distance":    aircraftDistance,
		},
	})

	r.echo(SeverityInfo, logger.IconRocket+" Launch",
		fmt.Sprintf("t=%.2f | %s | Range: %.1f",
			simTime, colorMissile.Sprint(missileID.String()[:8]), aircraftDistance))
}

// LogHit records a missile detonating on the aircraft.
func (r *Recorder) LogHit(simTime float64, missileID uuid.UUID, distance float64) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		SimTime:   simTime,
		Type:      EventTypeHit,
		Severity:  SeverityCritical,
		EntityID:  &missileID,
		Message:   fmt.Sprintf("Aircraft hit by %s at %.2f", missileID.String()[:8], distance),
		Details: map[string]interface{}{
			"distance": distance,
		},
	})

	r.echo(SeverityCritical, logger.IconBoom+" Aircraft Hit",
		fmt.Sprintf("t=%.2f | Missile: %s | Distance: %.2f",
			simTime, colorMissile.Sprint(missileID.String()[:8]), distance))
}

// LogExpired records a missile leaving play without a hit.
func (r *Recorder) LogExpired(simTime float64, missileID uuid.UUID, reason string) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		SimTime:   simTime,
		Type:      EventTypeExpired,
		Severity:  SeverityDebug,
		EntityID:  &missileID,
		Message:   fmt.Sprintf("Missile expired: %s (%s)", missileID.String()[:8], reason),
		Details: map[string]interface{}{
			"reason": reason,
		},
	})
}

// LogArrival records the aircraft reaching its target.
func (r *Recorder) LogArrival(simTime float64, aircraftID uuid.UUID, distance float64) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		SimTime:   simTime,
		Type:      EventTypeArrival,
		Severity:  SeverityInfo,
		EntityID:  &aircraftID,
		Message:   fmt.Sprintf("Aircraft reached target at t=%.2f", simTime),
		Details: map[string]interface{}{
			"distance": distance,
		},
	})

	r.echo(SeverityInfo, logger.IconTarget+" Target Reached",
		fmt.Sprintf("t=%.2f | %s", simTime, colorAircraft.Sprint(aircraftID.String()[:8])))
}

// LogDegraded records a controller tick that fell back to the safe
// default because no feasible trajectory was found.
func (r *Recorder) LogDegraded(simTime float64, aircraftID uuid.UUID, err error) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		SimTime:   simTime,
		Type:      EventTypeDegraded,
		Severity:  SeverityWarning,
		EntityID:  &aircraftID,
		Message:   fmt.Sprintf("Controller degraded at t=%.2f: %v", simTime, err),
		Details: map[string]interface{}{
			"error": fmt.Sprint(err),
		},
	})

	r.echo(SeverityWarning, logger.IconWarning+" Degraded Tick",
		fmt.Sprintf("t=%.2f | %v", simTime, err))
}

// LogStatus records a periodic world status line.
func (r *Recorder) LogStatus(simTime float64, activeMissiles int, aircraftDistance float64) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		SimTime:   simTime,
		Type:      EventTypeStatus,
		Severity:  SeverityDebug,
		Message:   fmt.Sprintf("t=%.2f: %d missiles in flight, target %.1f away", simTime, activeMissiles, aircraftDistance),
		Details: map[string]interface{}{
			"active_missiles": activeMissiles,
			"target_distance": aircraftDistance,
		},
	})
}

// LogError records a run-level error.
func (r *Recorder) LogError(message string, err error) {
	r.logEvent(Event{
		Timestamp: time.Now(),
		Type:      EventTypeSystem,
		Severity:  SeverityError,
		Message:   message,
		Details: map[string]interface{}{
			"error": err.Error(),
		},
	})

	logger.Errorf("%s: %v", message, err)
}

// SetOutcome records how the run ended. The first terminal outcome wins.
func (r *Recorder) SetOutcome(outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == OutcomeUnresolved {
		r.outcome = outcome
	}
}

// Outcome returns the recorded outcome of the run.
func (r *Recorder) Outcome() Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outcome
}

// UpdateMetric updates a metric value
func (r *Recorder) UpdateMetric(name string, simTime, value float64, unit string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metric, exists := r.metrics[name]
	if !exists {
		metric = Metric{
			Name:    name,
			Unit:    unit,
			History: make([]MetricPoint, 0),
		}
	}

	metric.Value = value
	metric.LastUpdated = time.Now()
	metric.History = append(metric.History, MetricPoint{
		Timestamp: metric.LastUpdated,
		SimTime:   simTime,
		Value:     value,
	})

	// Keep only last 10000 points
	if len(metric.History) > 10000 {
		metric.History = metric.History[len(metric.History)-10000:]
	}

	r.metrics[name] = metric
}

// GetEvents returns all logged events
func (r *Recorder) GetEvents() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// GetMetrics returns current metrics
func (r *Recorder) GetMetrics() map[string]Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics := make(map[string]Metric)
	for k, v := range r.metrics {
		metrics[k] = v
	}
	return metrics
}

// Summary represents an aggregate view of the run
type Summary struct {
	RunID       string
	StartTime   time.Time
	Duration    time.Duration
	Outcome     Outcome
	TotalEvents int
	EventCounts map[string]int
	Metrics     map[string]Metric
}

// GetSummary returns a run summary
func (r *Recorder) GetSummary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eventCounts := make(map[string]int)
	for _, event := range r.events {
		eventCounts[event.Type]++
	}

	metrics := make(map[string]Metric, len(r.metrics))
	for k, v := range r.metrics {
		metrics[k] = v
	}

	return Summary{
		RunID:       r.runID,
		StartTime:   r.startTime,
		Duration:    time.Since(r.startTime),
		Outcome:     r.outcome,
		TotalEvents: len(r.events),
		EventCounts: eventCounts,
		Metrics:     metrics,
	}
}

// logEvent adds an event to the log
func (r *Recorder) logEvent(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	// Keep only last 100000 events to prevent memory issues
	if len(r.events) > 100000 {
		r.events = r.events[len(r.events)-100000:]
	}
}

// echo prints a colored console line for an event
func (r *Recorder) echo(severity, eventType, message string) {
	timestamp := time.Now().Format("15:04:05.000")

	var severityColor *color.Color
	switch severity {
	case SeverityDebug:
		severityColor = colorDebug
	case SeverityInfo:
		severityColor = colorInfo
	case SeverityWarning:
		severityColor = colorWarning
	case SeverityError:
		severityColor = colorError
	case SeverityCritical:
		severityColor = colorCritical
	default:
		severityColor = colorInfo
	}

	fmt.Printf("[%s] %s %s | %s\n",
		timestamp,
		severityColor.Sprint(fmt.Sprintf("%-8s", severity)),
		eventType,
		message)
}

// PrintSummary prints a formatted summary
func (r *Recorder) PrintSummary() {
	summary := r.GetSummary()

	var outcomeColor *color.Color
	switch summary.Outcome {
	case OutcomeReachedTarget, OutcomeSurvived:
		outcomeColor = colorSuccess
	case OutcomeDestroyed:
		outcomeColor = colorCritical
	default:
		outcomeColor = colorWarning
	}

	colorSuccess.Println("\n==================================================")
	colorSuccess.Printf("          RUN SUMMARY - %s\n", summary.RunID)
	colorSuccess.Println("==================================================")

	fmt.Printf("\nOutcome: %s | Duration: %v | Events: %d\n",
		outcomeColor.Sprint(summary.Outcome), summary.Duration.Round(time.Millisecond), summary.TotalEvents)

	fmt.Println("\nEvent Distribution:")
	for eventType, count := range summary.EventCounts {
		fmt.Printf("   %-16s: %d\n", eventType, count)
	}

	if len(summary.Metrics) > 0 {
		fmt.Println("\nMetrics:")
		for name, metric := range summary.Metrics {
			fmt.Printf("   %-16s: %.3f %s\n", name, metric.Value, metric.Unit)
		}
	}

	colorSuccess.Println("\n==================================================")
}
