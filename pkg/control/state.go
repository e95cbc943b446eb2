package control

import (
	"fmt"
	"math"

	"github.com/kpushkaryov/evader/pkg/geom"
)

// speedSlack absorbs rounding in the speed invariant check: the external
// integrator clamps to the limit exactly, so anything beyond this is an
// upstream bug, not noise.
const speedSlack = 1e-9

// MovingObject is a position/velocity pair captured at a single instant.
type MovingObject struct {
	Pos geom.Vector
	Vel geom.Vector
}

// AircraftState is the aircraft's kinematic state together with its
// physical limits.
type AircraftState struct {
	MovingObject
	MaxSpeed float64
	MaxAccel float64
}

// ThreatState is one projectile's kinematic state as seen by the
// controller. Speed is the constant magnitude the threat travels at along
// its velocity heading. Inactive threats are treated as absent by every
// consumer.
type ThreatState struct {
	MovingObject
	Speed  float64
	Active bool
}

// TargetState is the point the aircraft is trying to reach, carried as a
// moving object so that slowly drifting targets predict correctly.
type TargetState struct {
	MovingObject
}

// ControlDecision is the acceleration chosen for the upcoming tick. Its
// magnitude never exceeds the aircraft's acceleration limit.
type ControlDecision struct {
	Accel geom.Vector
}

// WorldView gives the controller read access to the live simulation state.
// The controller reads through it exactly once per tick and never retains
// it beyond the call.
type WorldView interface {
	Aircraft() MovingObject
	Target() TargetState
	Threats() []ThreatState
}

// Snapshot is the full input of one optimization call, captured at a single
// consistent instant and immutable afterwards.
type Snapshot struct {
	Aircraft AircraftState
	Target   TargetState
	Threats  []ThreatState
	TimeStep float64
	Horizon  int
}

// Validate checks the snapshot invariants. A violation indicates an
// upstream integration bug and is fatal for the tick.
func (s *Snapshot) Validate() error {
	if s.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1, got %d", ErrInvalidArgument, s.Horizon)
	}
	if !isFiniteScalar(s.TimeStep) || s.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive and finite, got %g", ErrInvalidArgument, s.TimeStep)
	}
	if !isFiniteScalar(s.Aircraft.MaxSpeed) || s.Aircraft.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max speed must be positive and finite, got %g", ErrInvalidArgument, s.Aircraft.MaxSpeed)
	}
	if !isFiniteScalar(s.Aircraft.MaxAccel) || s.Aircraft.MaxAccel <= 0 {
		return fmt.Errorf("%w: max acceleration must be positive and finite, got %g", ErrInvalidArgument, s.Aircraft.MaxAccel)
	}
	if !s.Aircraft.Pos.IsFinite() || !s.Aircraft.Vel.IsFinite() {
		return fmt.Errorf("%w: aircraft state contains non-finite coordinates", ErrInvalidArgument)
	}
	if speed := s.Aircraft.Vel.Magnitude(); speed > s.Aircraft.MaxSpeed+speedSlack {
		return fmt.Errorf("%w: aircraft speed %g exceeds limit %g", ErrInvalidArgument, speed, s.Aircraft.MaxSpeed)
	}
	if !s.Target.Pos.IsFinite() || !s.Target.Vel.IsFinite() {
		return fmt.Errorf("%w: target state contains non-finite coordinates", ErrInvalidArgument)
	}
	for i, th := range s.Threats {
		if !th.Pos.IsFinite() || !th.Vel.IsFinite() {
			return fmt.Errorf("%w: threat %d contains non-finite coordinates", ErrInvalidArgument, i)
		}
		if !isFiniteScalar(th.Speed) || th.Speed < 0 {
			return fmt.Errorf("%w: threat %d speed must be non-negative and finite, got %g", ErrInvalidArgument, i, th.Speed)
		}
	}
	return nil
}

func isFiniteScalar(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
