// Package sim models a single engagement: one controllable aircraft
// trying to reach a ground target inside a rectangular theater while
// stationary missile systems fire unguided, proximity-fuzed missiles
// at it. The world advances all objects in lockstep ticks and reports
// the run through a report.Recorder.
package sim

import (
	"github.com/google/uuid"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/geom"
)

// Object is anything the world advances once per tick. t is the model
// time at the end of the tick, dt the tick length.
type Object interface {
	ID() uuid.UUID
	Label() string
	Advance(t, dt float64)
}

// Body is an object with a kinematic state the world can aim at.
type Body interface {
	Position() geom.Vector
	Velocity() geom.Vector
}

// Pilot chooses the aircraft's acceleration for the upcoming tick.
// control.Controller satisfies this; HomingPilot is the non-evading
// alternative.
type Pilot interface {
	NextAcceleration(view control.WorldView) (control.ControlDecision, error)

	// DegradedTicks reports how many calls so far fell back to a safe
	// default instead of an optimized command.
	DegradedTicks() int
}

// worldMember is implemented by objects that need a back-reference to
// the world they joined.
type worldMember interface {
	join(w *World)
}
