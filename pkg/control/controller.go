package control

import (
	"errors"
	"math"

	"github.com/kpushkaryov/evader/pkg/geom"
	"github.com/kpushkaryov/evader/pkg/logger"
)

// Controller is the facade the simulation loop drives: each tick it
// captures a snapshot of the live state, solves the receding-horizon
// trajectory problem and hands back a single bounded acceleration.
type Controller struct {
	cfg      Config
	opt      *optimizer
	warm     []float64
	degraded int
	log      logger.Logger
}

// New creates a controller for the given configuration.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.WithPrefix("control")
	opt, err := newOptimizer(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Controller{
		cfg: cfg,
		opt: opt,
		log: log,
	}, nil
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// DegradedTicks returns how many calls fell back to the safe default
// because no feasible trajectory was found.
func (c *Controller) DegradedTicks() int {
	return c.degraded
}

// NextAcceleration captures one consistent snapshot of the live state,
// solves the trajectory problem and returns the acceleration to apply for
// the upcoming tick. A failed optimization is recovered with the fallback
// maneuver and counted as a degraded tick; only malformed state surfaces an
// error. The previous solution is kept as a warm start across calls, and
// nothing else.
func (c *Controller) NextAcceleration(view WorldView) (ControlDecision, error) {
	snap := c.buildSnapshot(view)
	if err := snap.Validate(); err != nil {
		return ControlDecision{}, err
	}
	c.logNearestThreat(snap)

	decision, solution, err := c.opt.solve(snap, c.warm)
	if err != nil {
		if !errors.Is(err, ErrOptimizationFailed) {
			return ControlDecision{}, err
		}
		c.degraded++
		c.warm = nil
		fallback := c.fallback(snap)
		c.log.Warnf("Degraded tick %d, applying fallback acceleration (%.3g, %.3g): %v",
			c.degraded, fallback.Accel.X, fallback.Accel.Y, err)
		return fallback, nil
	}
	c.warm = solution
	return decision, nil
}

// buildSnapshot captures one consistent view of the world. The live state
// supplies kinematics only; the aircraft limits come from the
// configuration.
func (c *Controller) buildSnapshot(view WorldView) *Snapshot {
	return &Snapshot{
		Aircraft: AircraftState{
			MovingObject: view.Aircraft(),
			MaxSpeed:     c.cfg.MaxSpeed,
			MaxAccel:     c.cfg.MaxAccel,
		},
		Target:   view.Target(),
		Threats:  append([]ThreatState(nil), view.Threats()...),
		TimeStep: c.cfg.TimeStep,
		Horizon:  c.cfg.Horizon,
	}
}

// fallback is the safe default applied on a degraded tick: maximum
// acceleration directly away from the nearest active threat, or none when
// no threat is active.
func (c *Controller) fallback(snap *Snapshot) ControlDecision {
	th, ok := nearestActiveThreat(snap)
	if !ok {
		return ControlDecision{}
	}
	away := snap.Aircraft.Pos.Subtract(th.Pos).Normalize()
	if away.MagnitudeSq() == 0 {
		// Co-located with the threat; any direction beats standing still.
		away = geom.Vector{X: 1}
	}
	return ControlDecision{Accel: away.Scale(snap.Aircraft.MaxAccel)}
}

// logNearestThreat emits the per-tick debug trail for the closest active
// threat.
func (c *Controller) logNearestThreat(snap *Snapshot) {
	th, ok := nearestActiveThreat(snap)
	if !ok {
		return
	}
	sep := geom.MinSeparation(snap.Aircraft.Pos, snap.Aircraft.Vel, th.Pos, th.velocity())
	tca := geom.TimeOfClosestApproach(snap.Aircraft.Pos, snap.Aircraft.Vel, th.Pos, th.velocity())
	if c.cfg.SurvivalRadius > 0 {
		if t, reached := TimeToReach(th, snap.Aircraft.Pos, c.cfg.SurvivalRadius); reached {
			c.log.Debugf("Threat detected: predicted closest approach %.3g at t=%.3g, survival radius crossed at t=%.3g", sep, tca, t)
			return
		}
	}
	c.log.Debugf("Threat detected: predicted closest approach %.3g at t=%.3g", sep, tca)
}

// nearestActiveThreat returns the active threat currently closest to the
// aircraft.
func nearestActiveThreat(snap *Snapshot) (ThreatState, bool) {
	bestDist := math.Inf(1)
	var best ThreatState
	found := false
	for _, th := range snap.Threats {
		if !th.Active {
			continue
		}
		if d := snap.Aircraft.Pos.DistanceTo(th.Pos); d < bestDist {
			bestDist = d
			best = th
			found = true
		}
	}
	return best, found
}
