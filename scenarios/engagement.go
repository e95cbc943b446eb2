// Package scenarios holds the bundled engagement scenarios. Every
// scenario flies the same reference layout, a lone aircraft crossing a
// 100x100 theater toward a defended ground target, and differs only in
// the pilot driving the aircraft. Scenarios register themselves with
// scenario.DefaultRegistry on import.
package scenarios

import (
	"context"
	"fmt"
	"sync"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/geom"
	"github.com/kpushkaryov/evader/pkg/report"
	"github.com/kpushkaryov/evader/pkg/scenario"
	"github.com/kpushkaryov/evader/pkg/sim"
)

// Reference engagement layout. The aircraft starts high on the west
// side and must reach the target on the ground between two launchers.
var (
	aircraftStart = geom.Vector{X: 25, Y: 90}
	targetPos     = geom.Vector{X: 50, Y: 0}
	launcherEast  = geom.Vector{X: 75, Y: 0}
	launcherWest  = geom.Vector{X: 25, Y: 0}
)

const (
	worldSize        = 100.0
	arrivalRadius    = 1.0
	aircraftMaxSpeed = 20.0
	aircraftMaxAccel = 15.0

	missileSpeed   = 50.0
	explosionRange = 5.0
	rateOfFire     = 2.0
	firingRange    = 50.0
	maxFiringAngle = 1.5

	defaultTMax     = 20.0
	defaultTimeStep = 0.05
)

// engagement is the common chassis of the bundled scenarios: name,
// clock settings, and the world assembly for the reference layout.
// Concrete scenarios embed it and supply the pilot.
type engagement struct {
	name        string
	description string

	tmax      float64
	timeStep  float64
	frameTime float64

	mu    sync.Mutex
	world *sim.World
}

// Name returns the registry name of the scenario.
func (e *engagement) Name() string { return e.name }

// Description returns what the scenario demonstrates.
func (e *engagement) Description() string { return e.description }

// Stop ends a running engagement at the next tick boundary.
func (e *engagement) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.world != nil {
		e.world.Stop()
	}
}

// commonParameters are the clock knobs every scenario exposes.
func commonParameters() []scenario.Parameter {
	return []scenario.Parameter{
		{
			Name:        "tmax",
			Type:        "float",
			Description: "Model time limit in seconds",
			Default:     defaultTMax,
			Min:         1.0,
			Max:         600.0,
		},
		{
			Name:        "time_step",
			Type:        "float",
			Description: "Tick length in seconds",
			Default:     defaultTimeStep,
			Min:         0.001,
			Max:         1.0,
		},
		{
			Name:        "frame_time",
			Type:        "float",
			Description: "Wall-clock seconds per tick, 0 runs flat out",
			Default:     0.0,
			Min:         0.0,
			Max:         10.0,
		},
	}
}

// configure applies the clock parameters over the defaults.
func (e *engagement) configure(params map[string]interface{}) error {
	e.tmax = defaultTMax
	e.timeStep = defaultTimeStep
	e.frameTime = 0

	if v, ok := floatParam(params, "tmax"); ok {
		e.tmax = v
	}
	if v, ok := floatParam(params, "time_step"); ok {
		e.timeStep = v
	}
	if v, ok := floatParam(params, "frame_time"); ok {
		e.frameTime = v
	}

	if e.tmax <= 0 {
		return fmt.Errorf("tmax must be positive, got %g", e.tmax)
	}
	if e.timeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %g", e.timeStep)
	}
	if e.frameTime < 0 {
		return fmt.Errorf("frame time must be non-negative, got %g", e.frameTime)
	}
	return nil
}

// run assembles the reference world around the given pilot and flies
// the engagement to its outcome.
func (e *engagement) run(ctx context.Context, rec *report.Recorder, pilot sim.Pilot) error {
	world, err := e.buildWorld(rec, pilot)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.world = world
	e.mu.Unlock()

	_, err = world.Run(ctx, e.tmax, e.timeStep, e.frameTime)
	return err
}

func (e *engagement) buildWorld(rec *report.Recorder, pilot sim.Pilot) (*sim.World, error) {
	world, err := sim.NewWorld(sim.WorldConfig{
		Min:           geom.Vector{},
		Max:           geom.Vector{X: worldSize, Y: worldSize},
		Target:        control.TargetState{MovingObject: control.MovingObject{Pos: targetPos}},
		ArrivalRadius: arrivalRadius,
		Recorder:      rec,
	})
	if err != nil {
		return nil, err
	}

	aircraft, err := sim.NewAircraft(sim.AircraftConfig{
		Pos:      aircraftStart,
		MaxSpeed: aircraftMaxSpeed,
		MaxAccel: aircraftMaxAccel,
		Pilot:    pilot,
	})
	if err != nil {
		return nil, err
	}
	world.Add(aircraft)

	for i, pos := range []geom.Vector{launcherEast, launcherWest} {
		launcher, err := sim.NewLauncher(sim.LauncherConfig{
			Name:           fmt.Sprintf("Launcher %d", i+1),
			Pos:            pos,
			MissileSpeed:   missileSpeed,
			ExplosionRange: explosionRange,
			RateOfFire:     rateOfFire,
			FiringRange:    firingRange,
			MaxFiringAngle: maxFiringAngle,
		})
		if err != nil {
			return nil, err
		}
		world.Add(launcher)
	}

	return world, nil
}

// floatParam reads a float parameter that may arrive as int or float64,
// depending on whether it came from a prompt or a YAML file.
func floatParam(params map[string]interface{}, name string) (float64, bool) {
	switch v := params[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// intParam reads an integer parameter that may arrive as int or float64.
func intParam(params map[string]interface{}, name string) (int, bool) {
	switch v := params[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// stringParam reads a string parameter.
func stringParam(params map[string]interface{}, name string) (string, bool) {
	if v, ok := params[name].(string); ok {
		return v, true
	}
	return "", false
}
