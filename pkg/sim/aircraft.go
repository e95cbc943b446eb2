package sim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/geom"
)

// Aircraft is the controllable point mass the missiles hunt. Each tick
// it asks its pilot for an acceleration and integrates semi-implicit
// Euler with the same clamps the controller uses in its rollout, so
// prediction and motion agree exactly.
type Aircraft struct {
	id    uuid.UUID
	label string

	pos geom.Vector
	vel geom.Vector

	maxSpeed float64
	maxAccel float64
	pilot    Pilot

	destroyed    bool
	fuelSpent    float64
	degradedSeen int

	world *World
}

// AircraftConfig configures a new aircraft.
type AircraftConfig struct {
	Name     string // defaults to "Aircraft"
	Pos      geom.Vector
	Vel      geom.Vector
	MaxSpeed float64
	MaxAccel float64
	Pilot    Pilot
}

// NewAircraft creates an aircraft. The aircraft must join a world
// before it is advanced.
func NewAircraft(cfg AircraftConfig) (*Aircraft, error) {
	if cfg.Pilot == nil {
		return nil, fmt.Errorf("aircraft pilot is required")
	}
	if cfg.MaxSpeed <= 0 {
		return nil, fmt.Errorf("aircraft max speed must be positive, got %g", cfg.MaxSpeed)
	}
	if cfg.MaxAccel <= 0 {
		return nil, fmt.Errorf("aircraft max acceleration must be positive, got %g", cfg.MaxAccel)
	}
	if speed := cfg.Vel.Magnitude(); speed > cfg.MaxSpeed {
		return nil, fmt.Errorf("aircraft initial speed %g exceeds limit %g", speed, cfg.MaxSpeed)
	}
	name := cfg.Name
	if name == "" {
		name = "Aircraft"
	}
	return &Aircraft{
		id:       uuid.New(),
		label:    name,
		pos:      cfg.Pos,
		vel:      cfg.Vel,
		maxSpeed: cfg.MaxSpeed,
		maxAccel: cfg.MaxAccel,
		pilot:    cfg.Pilot,
	}, nil
}

func (a *Aircraft) join(w *World) {
	a.world = w
	w.aircraft = a
}

// ID returns the aircraft's unique identifier.
func (a *Aircraft) ID() uuid.UUID { return a.id }

// Label returns the aircraft's display name.
func (a *Aircraft) Label() string { return a.label }

// Position returns the current position.
func (a *Aircraft) Position() geom.Vector { return a.pos }

// Velocity returns the current velocity.
func (a *Aircraft) Velocity() geom.Vector { return a.vel }

// Destroyed reports whether a missile has taken the aircraft out.
func (a *Aircraft) Destroyed() bool { return a.destroyed }

// FuelSpent returns the accumulated commanded velocity change, the
// delta-v total the fuel objective minimizes.
func (a *Aircraft) FuelSpent() float64 { return a.fuelSpent }

// Advance runs one control-and-integrate step. A destroyed aircraft
// stays where it fell.
func (a *Aircraft) Advance(t, dt float64) {
	if a.destroyed {
		return
	}

	decision, err := a.pilot.NextAcceleration(a.world)
	if err != nil {
		// Snapshot validation failures mean the world fed the
		// controller a broken state. Abort the run instead of
		// integrating garbage.
		a.world.fail("aircraft control failed", err)
		decision = control.ControlDecision{}
	}
	if n := a.pilot.DegradedTicks(); n > a.degradedSeen {
		a.world.noteDegraded(t, a.id)
		a.degradedSeen = n
	}

	accel := decision.Accel.ClampMagnitude(a.maxAccel)
	a.vel = a.vel.Add(accel.Scale(dt)).ClampMagnitude(a.maxSpeed)
	a.pos = a.pos.Add(a.vel.Scale(dt))
	a.fuelSpent += accel.Magnitude() * dt

	a.world.log.Debugf("%s: pos=(%.2f, %.2f) vel=(%.2f, %.2f) accel=(%.2f, %.2f)",
		a.label, a.pos.X, a.pos.Y, a.vel.X, a.vel.Y, accel.X, accel.Y)
}

// Destroy zeroes the velocity and marks the aircraft destroyed.
func (a *Aircraft) Destroy() {
	a.vel = geom.Vector{}
	a.destroyed = true
}
