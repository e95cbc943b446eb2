package control

import (
	"fmt"
	"math"

	"github.com/kpushkaryov/evader/pkg/geom"
)

// velocity returns the threat's effective constant velocity: its scalar
// speed applied along the current heading. A zero heading means the threat
// holds position regardless of speed.
func (t ThreatState) velocity() geom.Vector {
	return t.Vel.Normalize().Scale(t.Speed)
}

// positionAt returns the threat's position dt from now assuming
// straight-line travel. Callers guarantee dt >= 0; Predict is the validated
// entry point.
func (t ThreatState) positionAt(dt float64) geom.Vector {
	return t.Pos.Add(t.velocity().Scale(dt))
}

// Predict returns the threat's position after dt elapses, assuming
// straight-line travel at constant speed along its current heading. A
// threat with zero velocity stays where it is.
func Predict(threat ThreatState, dt float64) (geom.Vector, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return geom.Vector{}, fmt.Errorf("%w: prediction offset must be non-negative and finite, got %g", ErrInvalidArgument, dt)
	}
	return threat.positionAt(dt), nil
}

// TimeToReach returns the minimal non-negative time at which the threat's
// straight-line path comes within radius of point. ok is false when it
// never does: the threat is heading away, or holds position outside the
// radius.
func TimeToReach(threat ThreatState, point geom.Vector, radius float64) (t float64, ok bool) {
	if threat.Pos.DistanceTo(point) <= radius {
		return 0, true
	}
	vel := threat.velocity()
	speed := vel.Magnitude()
	if speed == 0 {
		return 0, false
	}
	minSepSq := geom.MinSeparationSq(threat.Pos, vel, point, geom.Vector{})
	if minSepSq > radius*radius {
		return 0, false
	}
	// The path enters the radius at the closest-approach time minus the
	// half-chord flight time. Starting outside the radius, a negative entry
	// time means the pass already happened.
	entry := geom.TimeOfClosestApproach(threat.Pos, vel, point, geom.Vector{}) -
		math.Sqrt(radius*radius-minSepSq)/speed
	if entry < 0 {
		return 0, false
	}
	return entry, true
}
