package control

import (
	"fmt"
	"math"

	"github.com/kpushkaryov/evader/pkg/geom"
)

// Objective selects the scoring strategy the optimizer minimizes.
type Objective int

const (
	// ObjectiveFuel minimizes total control effort over the horizon.
	// Threats enter only through the survival-radius constraint.
	ObjectiveFuel Objective = iota
	// ObjectiveMinDistance maximizes the worst-case separation from threats
	// anywhere in the horizon.
	ObjectiveMinDistance
	// ObjectiveNextDistance maximizes the separation from threats at the
	// next tick only, a cheaper and more reactive variant.
	ObjectiveNextDistance
)

// String returns the configuration-surface name of the objective.
func (o Objective) String() string {
	switch o {
	case ObjectiveFuel:
		return "fuel"
	case ObjectiveMinDistance:
		return "min_distance"
	case ObjectiveNextDistance:
		return "next_distance"
	default:
		return fmt.Sprintf("objective(%d)", int(o))
	}
}

// ParseObjective parses a configuration-surface objective name.
func ParseObjective(name string) (Objective, error) {
	switch name {
	case "fuel":
		return ObjectiveFuel, nil
	case "min_distance":
		return ObjectiveMinDistance, nil
	case "next_distance":
		return ObjectiveNextDistance, nil
	default:
		return 0, fmt.Errorf("%w: unknown objective %q", ErrInvalidArgument, name)
	}
}

// scorer is the capability shared by all objective evaluators: score one
// candidate control sequence against a snapshot. Lower is better.
type scorer interface {
	score(snap *Snapshot, controls []ControlDecision) float64
}

// newScorer builds the evaluator for an objective with the configured
// target-progress weight and survival radius.
func newScorer(obj Objective, targetWeight, survivalRadius float64) (scorer, error) {
	switch obj {
	case ObjectiveFuel:
		return fuelScorer{targetWeight: targetWeight, survivalRadius: survivalRadius}, nil
	case ObjectiveMinDistance:
		return minDistanceScorer{targetWeight: targetWeight, survivalRadius: survivalRadius}, nil
	case ObjectiveNextDistance:
		return nextDistanceScorer{targetWeight: targetWeight, survivalRadius: survivalRadius}, nil
	default:
		return nil, fmt.Errorf("%w: unknown objective %d", ErrInvalidArgument, int(obj))
	}
}

// rollout advances the aircraft through the candidate controls using the
// same semi-implicit Euler step and speed clamp the external integrator
// applies, so evaluation can never exploit dynamics the committed control
// would violate. Per-tick accelerations are clamped to the aircraft limit
// exactly as the returned command is. The final position is returned.
func rollout(snap *Snapshot, controls []ControlDecision) geom.Vector {
	pos := snap.Aircraft.Pos
	vel := snap.Aircraft.Vel
	dt := snap.TimeStep
	for _, c := range controls {
		accel := c.Accel.ClampMagnitude(snap.Aircraft.MaxAccel)
		vel = vel.Add(accel.Scale(dt)).ClampMagnitude(snap.Aircraft.MaxSpeed)
		pos = pos.Add(vel.Scale(dt))
	}
	return pos
}

// horizonStats runs one rollout and returns the final aircraft position
// together with the smallest predicted separation from any active threat
// over the horizon. Within each tick both motions are linear, so the
// separation is the closest approach inside the tick segment rather than
// the boundary sample alone; boundary-only sampling would let a trajectory
// thread straight through a threat between two ticks. The separation is
// +Inf when no threat is active.
func horizonStats(snap *Snapshot, controls []ControlDecision) (geom.Vector, float64) {
	minSep := math.Inf(1)
	pos := snap.Aircraft.Pos
	vel := snap.Aircraft.Vel
	dt := snap.TimeStep
	for k, c := range controls {
		accel := c.Accel.ClampMagnitude(snap.Aircraft.MaxAccel)
		vel = vel.Add(accel.Scale(dt)).ClampMagnitude(snap.Aircraft.MaxSpeed)
		segStart := float64(k) * dt
		for _, th := range snap.Threats {
			if !th.Active {
				continue
			}
			d := segmentSeparation(pos, vel, th.positionAt(segStart), th.velocity(), dt)
			if d < minSep {
				minSep = d
			}
		}
		pos = pos.Add(vel.Scale(dt))
	}
	return pos, minSep
}

// segmentSeparation returns the closest approach of two linearly moving
// points within a window of dt from now.
func segmentSeparation(x1, v1, x2, v2 geom.Vector, dt float64) float64 {
	tau := geom.TimeOfClosestApproach(x1, v1, x2, v2)
	if tau < 0 {
		tau = 0
	} else if tau > dt {
		tau = dt
	}
	return x1.Add(v1.Scale(tau)).DistanceTo(x2.Add(v2.Scale(tau)))
}

// nextTickSeparation returns the smallest distance between the aircraft's
// position after applying the first control and any active threat's
// predicted position at that same instant. This is a strict point sample:
// the myopic next-distance contract must not look past the first tick.
func nextTickSeparation(snap *Snapshot, controls []ControlDecision) float64 {
	minSep := math.Inf(1)
	if len(controls) == 0 {
		return minSep
	}
	dt := snap.TimeStep
	accel := controls[0].Accel.ClampMagnitude(snap.Aircraft.MaxAccel)
	vel := snap.Aircraft.Vel.Add(accel.Scale(dt)).ClampMagnitude(snap.Aircraft.MaxSpeed)
	pos := snap.Aircraft.Pos.Add(vel.Scale(dt))
	for _, th := range snap.Threats {
		if !th.Active {
			continue
		}
		if d := pos.DistanceTo(th.positionAt(dt)); d < minSep {
			minSep = d
		}
	}
	return minSep
}

// targetTerm is the mandatory progress term shared by all evaluators: the
// weighted distance between the aircraft's final-horizon position and the
// target's predicted position at that time.
func targetTerm(snap *Snapshot, finalPos geom.Vector, weight float64) float64 {
	horizonTime := float64(snap.Horizon) * snap.TimeStep
	targetAt := snap.Target.Pos.Add(snap.Target.Vel.Scale(horizonTime))
	return weight * finalPos.DistanceTo(targetAt)
}

// survivalPenaltyWeight scales the soft barrier below the survival radius.
// It has to dwarf the separation and fuel terms so the solver treats the
// radius as a wall rather than a trade.
const survivalPenaltyWeight = 1e3

// survivalPenalty substitutes for the hard separation constraint, which the
// derivative-free solver cannot express: dipping below the survival radius
// is charged quadratically instead. Feasibility of the final candidate is
// still checked hard by the optimizer.
func survivalPenalty(minSep, radius float64) float64 {
	if radius <= 0 || math.IsInf(minSep, 1) {
		return 0
	}
	if shortfall := radius - minSep; shortfall > 0 {
		return survivalPenaltyWeight * shortfall * shortfall
	}
	return 0
}

// fuelScorer charges the squared magnitude of every control in the
// sequence, a proxy for energy spent. Threat separation enters only
// through the survival-radius penalty.
type fuelScorer struct {
	targetWeight   float64
	survivalRadius float64
}

func (s fuelScorer) score(snap *Snapshot, controls []ControlDecision) float64 {
	effort := 0.0
	for _, c := range controls {
		effort += c.Accel.ClampMagnitude(snap.Aircraft.MaxAccel).MagnitudeSq()
	}
	finalPos, sep := horizonStats(snap, controls)
	return effort + targetTerm(snap, finalPos, s.targetWeight) + survivalPenalty(sep, s.survivalRadius)
}

// minDistanceScorer rewards the worst-case separation from threats anywhere
// in the horizon.
type minDistanceScorer struct {
	targetWeight   float64
	survivalRadius float64
}

func (s minDistanceScorer) score(snap *Snapshot, controls []ControlDecision) float64 {
	finalPos, sep := horizonStats(snap, controls)
	score := targetTerm(snap, finalPos, s.targetWeight)
	if !math.IsInf(sep, 1) {
		score += -sep + survivalPenalty(sep, s.survivalRadius)
	}
	return score
}

// nextDistanceScorer rewards separation from threats at the first tick
// only. Nothing past the first tick's threat prediction may influence the
// score, including the survival penalty.
type nextDistanceScorer struct {
	targetWeight   float64
	survivalRadius float64
}

func (s nextDistanceScorer) score(snap *Snapshot, controls []ControlDecision) float64 {
	sep := nextTickSeparation(snap, controls)
	score := targetTerm(snap, rollout(snap, controls), s.targetWeight)
	if !math.IsInf(sep, 1) {
		score += -sep + survivalPenalty(sep, s.survivalRadius)
	}
	return score
}
