package sim

import (
	"fmt"

	"github.com/kpushkaryov/evader/pkg/control"
)

// HomingPilot steers straight for the target and ignores missiles
// entirely. It commands the velocity change that closes the gap
// between the current velocity and the displacement to the target,
// clamped to what one tick allows. The distance to the target then
// decays roughly exponentially, which lands the aircraft softly
// instead of overshooting.
type HomingPilot struct {
	maxAccel float64
	timeStep float64
}

// NewHomingPilot creates a homing pilot for an aircraft with the given
// acceleration limit, advancing in timeStep ticks.
func NewHomingPilot(maxAccel, timeStep float64) (*HomingPilot, error) {
	if maxAccel <= 0 {
		return nil, fmt.Errorf("homing pilot max acceleration must be positive, got %g", maxAccel)
	}
	if timeStep <= 0 {
		return nil, fmt.Errorf("homing pilot time step must be positive, got %g", timeStep)
	}
	return &HomingPilot{maxAccel: maxAccel, timeStep: timeStep}, nil
}

// NextAcceleration implements Pilot.
func (p *HomingPilot) NextAcceleration(view control.WorldView) (control.ControlDecision, error) {
	aircraft := view.Aircraft()
	want := view.Target().Pos.Subtract(aircraft.Pos).Subtract(aircraft.Vel)
	dv := want.ClampMagnitude(p.maxAccel * p.timeStep)
	return control.ControlDecision{Accel: dv.Scale(1 / p.timeStep)}, nil
}

// DegradedTicks implements Pilot. A homing pilot never degrades.
func (p *HomingPilot) DegradedTicks() int { return 0 }
