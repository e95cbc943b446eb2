package control

import (
	"errors"
	"math"
	"testing"

	"github.com/kpushkaryov/evader/pkg/geom"
	"github.com/kpushkaryov/evader/pkg/logger"
)

func testOptimizer(t *testing.T, cfg Config) *optimizer {
	t.Helper()
	opt, err := newOptimizer(cfg, logger.WithPrefix("control"))
	if err != nil {
		t.Fatalf("newOptimizer() error = %v", err)
	}
	return opt
}

// headOnSnapshot is the canonical engagement: a stationary aircraft at the
// origin, the target beyond it on the x axis, and a threat inbound along
// the same axis.
func headOnSnapshot() Snapshot {
	return Snapshot{
		Aircraft: AircraftState{MaxSpeed: 20, MaxAccel: 5},
		Target:   TargetState{MovingObject: MovingObject{Pos: geom.Vector{X: 100}}},
		Threats: []ThreatState{
			{
				MovingObject: MovingObject{Pos: geom.Vector{X: 50}, Vel: geom.Vector{X: -10}},
				Speed:        10,
				Active:       true,
			},
		},
		TimeStep: 1,
		Horizon:  5,
	}
}

func TestSolveRespectsLimits(t *testing.T) {
	for _, objective := range []Objective{ObjectiveFuel, ObjectiveMinDistance, ObjectiveNextDistance} {
		t.Run(objective.String(), func(t *testing.T) {
			cfg := Config{
				Objective:       objective,
				Horizon:         5,
				TimeStep:        1,
				MaxAccel:        5,
				MaxSpeed:        20,
				TargetWeight:    0.3,
				SolverTolerance: 1e-6,
				MaxRestarts:     2,
			}
			opt := testOptimizer(t, cfg)
			snap := headOnSnapshot()

			decision, solution, err := opt.solve(&snap, nil)
			if err != nil {
				t.Fatalf("solve() error = %v", err)
			}
			if mag := decision.Accel.Magnitude(); mag > cfg.MaxAccel+1e-9 {
				t.Errorf("Got acceleration magnitude %g, want at most %g", mag, cfg.MaxAccel)
			}
			if len(solution) != 2*cfg.Horizon {
				t.Errorf("Got solution length %d, want %d", len(solution), 2*cfg.Horizon)
			}

			// One external integration step from the returned control must
			// stay inside the speed envelope.
			vel := snap.Aircraft.Vel.Add(decision.Accel.Scale(cfg.TimeStep)).ClampMagnitude(cfg.MaxSpeed)
			if speed := vel.Magnitude(); speed > cfg.MaxSpeed+1e-9 {
				t.Errorf("Got next-tick speed %g, want at most %g", speed, cfg.MaxSpeed)
			}
		})
	}
}

func TestSolveNoWorseThanHolding(t *testing.T) {
	cfg := Config{
		Objective:       ObjectiveMinDistance,
		Horizon:         5,
		TimeStep:        1,
		MaxAccel:        5,
		MaxSpeed:        20,
		TargetWeight:    0,
		SolverTolerance: 1e-6,
		MaxRestarts:     4,
	}
	opt := testOptimizer(t, cfg)
	snap := Snapshot{
		Aircraft: AircraftState{MaxSpeed: 20, MaxAccel: 5},
		Threats: []ThreatState{
			{
				MovingObject: MovingObject{Pos: geom.Vector{X: 30, Y: 2}, Vel: geom.Vector{X: -10}},
				Speed:        10,
				Active:       true,
			},
			{
				MovingObject: MovingObject{Pos: geom.Vector{X: -30, Y: -2}, Vel: geom.Vector{X: 10}},
				Speed:        10,
				Active:       true,
			},
		},
		TimeStep: 1,
		Horizon:  5,
	}

	_, holdSep := horizonStats(&snap, make([]ControlDecision, cfg.Horizon))
	_, solution, err := opt.solve(&snap, nil)
	if err != nil {
		t.Fatalf("solve() error = %v", err)
	}
	_, gotSep := horizonStats(&snap, reshapeControls(solution))
	if gotSep < holdSep-1e-9 {
		t.Errorf("Got minimum separation %g, want at least the hold-position %g", gotSep, holdSep)
	}
}

func TestSolveEvadesHeadOnThreat(t *testing.T) {
	cfg := Config{
		Objective:       ObjectiveMinDistance,
		Horizon:         5,
		TimeStep:        1,
		MaxAccel:        5,
		MaxSpeed:        20,
		TargetWeight:    0.3,
		SolverTolerance: 1e-6,
		MaxRestarts:     4,
	}
	opt := testOptimizer(t, cfg)
	snap := headOnSnapshot()

	decision, _, err := opt.solve(&snap, nil)
	if err != nil {
		t.Fatalf("solve() error = %v", err)
	}

	// The threat rides the aircraft-target axis, so any useful maneuver
	// must break off it.
	if math.Abs(decision.Accel.Y) <= 0.5 {
		t.Errorf("Got perpendicular acceleration %g, want a clear evasive component", decision.Accel.Y)
	}

	// Holding position would leave the threat 40 away after one tick.
	// The chosen control must do strictly better.
	vel := snap.Aircraft.Vel.Add(decision.Accel.Scale(snap.TimeStep)).ClampMagnitude(cfg.MaxSpeed)
	pos := snap.Aircraft.Pos.Add(vel.Scale(snap.TimeStep))
	threatPos, err := Predict(snap.Threats[0], snap.TimeStep)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if dist := pos.DistanceTo(threatPos); dist <= 40 {
		t.Errorf("Got next-tick threat distance %g, want strictly above the hold-position 40", dist)
	}
}

func TestSolveReportsInfeasible(t *testing.T) {
	cfg := Config{
		Objective:       ObjectiveMinDistance,
		Horizon:         5,
		TimeStep:        1,
		MaxAccel:        5,
		MaxSpeed:        20,
		SurvivalRadius:  100,
		TargetWeight:    0.3,
		SolverTolerance: 1e-6,
		MaxRestarts:     0,
	}
	opt := testOptimizer(t, cfg)
	snap := Snapshot{
		Aircraft: AircraftState{MaxSpeed: 20, MaxAccel: 5},
		Threats: []ThreatState{
			{
				MovingObject: MovingObject{Pos: geom.Vector{X: 0.5}},
				Speed:        0,
				Active:       true,
			},
		},
		TimeStep: 1,
		Horizon:  5,
	}

	_, _, err := opt.solve(&snap, nil)
	if !errors.Is(err, ErrOptimizationFailed) {
		t.Fatalf("solve() error = %v, want ErrOptimizationFailed", err)
	}
}

func TestSolvePrefersSmallestControl(t *testing.T) {
	cfg := Config{
		Objective:       ObjectiveFuel,
		Horizon:         4,
		TimeStep:        1,
		MaxAccel:        5,
		MaxSpeed:        20,
		TargetWeight:    0,
		SolverTolerance: 1e-6,
		MaxRestarts:     2,
	}
	opt := testOptimizer(t, cfg)
	snap := Snapshot{
		Aircraft: AircraftState{MaxSpeed: 20, MaxAccel: 5},
		TimeStep: 1,
		Horizon:  4,
	}

	// With no threats and no progress reward every zero-effort sequence
	// ties, and the tie must go to the smallest control.
	decision, _, err := opt.solve(&snap, nil)
	if err != nil {
		t.Fatalf("solve() error = %v", err)
	}
	if decision.Accel != (geom.Vector{}) {
		t.Errorf("Got acceleration %v, want zero", decision.Accel)
	}
}
