package sim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/geom"
	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/report"
)

// statusInterval is how often, in model seconds, the world records a
// status line and the slower-moving metrics.
const statusInterval = 1.0

// World is the engagement theater: a rectangle of airspace holding the
// aircraft, the launchers, and every missile in play. It advances all
// objects in lockstep ticks and doubles as the controller's read-only
// view of the battle.
type World struct {
	min, max      geom.Vector
	target        control.TargetState
	arrivalRadius float64

	objects  []Object
	aircraft *Aircraft

	rec *report.Recorder
	log logger.Logger

	simTime float64
	arrived bool
	runErr  error

	stopChan chan struct{}
	stopOnce sync.Once
}

// WorldConfig configures a new world.
type WorldConfig struct {
	Min           geom.Vector
	Max           geom.Vector
	Target        control.TargetState
	ArrivalRadius float64          // distance at which the aircraft counts as arrived
	Recorder      *report.Recorder // optional; nil runs without event reporting
}

// NewWorld creates an empty world. Add entities with Add, then Run.
func NewWorld(cfg WorldConfig) (*World, error) {
	if cfg.Max.X <= cfg.Min.X || cfg.Max.Y <= cfg.Min.Y {
		return nil, fmt.Errorf("world bounds are empty: min=(%g, %g) max=(%g, %g)",
			cfg.Min.X, cfg.Min.Y, cfg.Max.X, cfg.Max.Y)
	}
	if cfg.ArrivalRadius < 0 {
		return nil, fmt.Errorf("arrival radius must be non-negative, got %g", cfg.ArrivalRadius)
	}
	return &World{
		min:           cfg.Min,
		max:           cfg.Max,
		target:        cfg.Target,
		arrivalRadius: cfg.ArrivalRadius,
		rec:           cfg.Recorder,
		log:           logger.WithPrefix("sim"),
		stopChan:      make(chan struct{}),
	}, nil
}

// Add registers an object with the world. Objects advance in the order
// they were added.
func (w *World) Add(obj Object) {
	if m, ok := obj.(worldMember); ok {
		m.join(w)
	}
	w.objects = append(w.objects, obj)
}

// SimTime returns the model time of the last completed tick.
func (w *World) SimTime() float64 { return w.simTime }

// Aircraft implements control.WorldView.
func (w *World) Aircraft() control.MovingObject {
	if w.aircraft == nil {
		return control.MovingObject{}
	}
	return control.MovingObject{Pos: w.aircraft.pos, Vel: w.aircraft.vel}
}

// Target implements control.WorldView.
func (w *World) Target() control.TargetState { return w.target }

// Threats implements control.WorldView: every missile in play, spent
// ones flagged inactive.
func (w *World) Threats() []control.ThreatState {
	threats := make([]control.ThreatState, 0)
	for _, obj := range w.objects {
		if m, ok := obj.(*Missile); ok {
			threats = append(threats, m.threatState())
		}
	}
	return threats
}

// ActiveThreats returns only the missiles still in flight.
func (w *World) ActiveThreats() []control.ThreatState {
	active := make([]control.ThreatState, 0)
	for _, th := range w.Threats() {
		if th.Active {
			active = append(active, th)
		}
	}
	return active
}

// Run advances the world in dt ticks until tmax model seconds have
// elapsed, the engagement is decided early, the context is cancelled,
// or Stop is called. frameTime > 0 paces ticks to that many wall-clock
// seconds each; zero runs flat out.
func (w *World) Run(ctx context.Context, tmax, dt, frameTime float64) (report.Outcome, error) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return report.OutcomeUnresolved, fmt.Errorf("time step must be positive and finite, got %g", dt)
	}
	if tmax <= 0 || math.IsNaN(tmax) || math.IsInf(tmax, 0) {
		return report.OutcomeUnresolved, fmt.Errorf("tmax must be positive and finite, got %g", tmax)
	}
	if frameTime < 0 {
		return report.OutcomeUnresolved, fmt.Errorf("frame time must be non-negative, got %g", frameTime)
	}

	w.log.Infof("Starting engagement: tmax=%.2f dt=%.3f objects=%d", tmax, dt, len(w.objects))

	var tickC <-chan time.Time
	if frameTime > 0 {
		ticker := time.NewTicker(time.Duration(frameTime * float64(time.Second)))
		defer ticker.Stop()
		tickC = ticker.C
	}

	statusTicks := int(math.Round(statusInterval / dt))
	if statusTicks < 1 {
		statusTicks = 1
	}
	maxTicks := int(math.Ceil(tmax/dt - 1e-9))

	for tick := 1; tick <= maxTicks; tick++ {
		if tickC != nil {
			select {
			case <-ctx.Done():
				return w.abort(ctx.Err())
			case <-w.stopChan:
				return w.stopped()
			case <-tickC:
			}
		} else {
			select {
			case <-ctx.Done():
				return w.abort(ctx.Err())
			case <-w.stopChan:
				return w.stopped()
			default:
			}
		}

		t := float64(tick) * dt
		w.simTime = t

		// Launchers append fresh missiles mid-pass; an index loop lets
		// them advance in the same tick they were fired.
		for i := 0; i < len(w.objects); i++ {
			w.objects[i].Advance(t, dt)
		}

		if w.runErr != nil {
			if w.rec != nil {
				w.rec.SetOutcome(report.OutcomeAborted)
			}
			return report.OutcomeAborted, w.runErr
		}

		w.observe(t, tick%statusTicks == 0)

		if w.decided() {
			w.log.Infof("Engagement decided at t=%.2f", t)
			break
		}
	}

	outcome := w.conclude()
	if w.rec != nil {
		if w.aircraft != nil {
			w.rec.UpdateMetric("fuel_spent", w.simTime, w.aircraft.fuelSpent, "m/s")
		}
		w.rec.SetOutcome(outcome)
	}
	w.log.Infof("Engagement over at t=%.2f: %s", w.simTime, outcome)
	return outcome, nil
}

// Stop ends the run at the next tick boundary. Safe to call more than
// once and from other goroutines.
func (w *World) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

// observe checks for arrival and records metrics after a tick.
func (w *World) observe(t float64, status bool) {
	if w.aircraft == nil {
		return
	}
	targetDist := w.aircraft.pos.DistanceTo(w.target.Pos)
	if !w.arrived && !w.aircraft.destroyed && targetDist <= w.arrivalRadius {
		w.arrived = true
		w.log.Infof("%s reached the target at t=%.2f", w.aircraft.label, t)
		if w.rec != nil {
			w.rec.LogArrival(t, w.aircraft.id, targetDist)
		}
	}
	if w.rec == nil {
		return
	}
	active, closest := w.missileStatus()
	if active > 0 {
		w.rec.UpdateMetric("closest_approach", t, closest, "m")
	}
	if status {
		w.rec.UpdateMetric("aircraft_target_distance", t, targetDist, "m")
		w.rec.UpdateMetric("active_missiles", t, float64(active), "count")
		w.rec.UpdateMetric("fuel_spent", t, w.aircraft.fuelSpent, "m/s")
		w.rec.LogStatus(t, active, targetDist)
	}
}

// missileStatus counts missiles in flight and their closest distance
// to the aircraft.
func (w *World) missileStatus() (active int, closest float64) {
	closest = math.Inf(1)
	if w.aircraft == nil {
		return 0, closest
	}
	for _, obj := range w.objects {
		m, ok := obj.(*Missile)
		if !ok || m.destroyed {
			continue
		}
		active++
		if d := w.aircraft.pos.DistanceTo(m.pos); d < closest {
			closest = d
		}
	}
	return active, closest
}

// decided reports whether nothing can change the outcome anymore: the
// aircraft is down and no missile remains in flight.
func (w *World) decided() bool {
	if w.aircraft == nil || !w.aircraft.destroyed {
		return false
	}
	active, _ := w.missileStatus()
	return active == 0
}

// conclude classifies the finished run. Arrival before destruction
// still counts as reaching the target.
func (w *World) conclude() report.Outcome {
	switch {
	case w.aircraft == nil:
		return report.OutcomeUnresolved
	case w.arrived:
		return report.OutcomeReachedTarget
	case w.aircraft.destroyed:
		return report.OutcomeDestroyed
	default:
		return report.OutcomeSurvived
	}
}

func (w *World) abort(cause error) (report.Outcome, error) {
	w.log.Warnf("Run cancelled at t=%.2f: %v", w.simTime, cause)
	if w.rec != nil {
		w.rec.SetOutcome(report.OutcomeAborted)
	}
	return report.OutcomeAborted, cause
}

func (w *World) stopped() (report.Outcome, error) {
	w.log.Infof("Run stopped at t=%.2f", w.simTime)
	if w.rec != nil {
		w.rec.SetOutcome(report.OutcomeAborted)
	}
	return report.OutcomeAborted, nil
}

// contains reports whether a point lies inside the world bounds.
func (w *World) contains(p geom.Vector) bool {
	return p.X >= w.min.X && p.X <= w.max.X && p.Y >= w.min.Y && p.Y <= w.max.Y
}

// fail records a run-level failure. The first failure wins; Run
// surfaces it after the current tick.
func (w *World) fail(message string, err error) {
	if w.runErr == nil {
		w.runErr = fmt.Errorf("%s: %w", message, err)
	}
	if w.rec != nil {
		w.rec.LogError(message, err)
	}
}

func (w *World) noteLaunch(t float64, launcherID, missileID uuid.UUID, distance float64) {
	if w.rec != nil {
		w.rec.LogLaunch(t, launcherID, missileID, distance)
	}
}

func (w *World) noteHit(t float64, missileID uuid.UUID, distance float64) {
	if w.rec != nil {
		w.rec.LogHit(t, missileID, distance)
	}
}

func (w *World) noteExpired(t float64, missileID uuid.UUID, reason string) {
	if w.rec != nil {
		w.rec.LogExpired(t, missileID, reason)
	}
}

func (w *World) noteDegraded(t float64, aircraftID uuid.UUID) {
	if w.rec != nil {
		w.rec.LogDegraded(t, aircraftID, control.ErrOptimizationFailed)
	}
}
