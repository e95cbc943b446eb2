package sim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kpushkaryov/evader/pkg/geom"
)

// vertical is the reference direction launch angles are measured from.
var vertical = geom.Vector{X: 0, Y: 1}

// Launcher is a stationary missile system. It keeps at most one
// missile in flight: while that missile lives the launcher only
// watches it, and once it is gone the launcher fires again as soon as
// the cooldown allows and a firing solution within the angle limit
// exists.
type Launcher struct {
	id    uuid.UUID
	label string
	pos   geom.Vector

	missileSpeed   float64
	explosionRange float64
	rateOfFire     float64
	firingRange    float64
	maxFiringAngle float64

	missile      *Missile
	lastFireTime float64
	hasFired     bool
	fired        int

	world *World
}

// LauncherConfig configures a new launcher.
type LauncherConfig struct {
	Name           string // defaults to "Launcher"
	Pos            geom.Vector
	MissileSpeed   float64 // constant missile flight speed
	ExplosionRange float64 // missile proximity fuze radius
	RateOfFire     float64 // minimum time between launches
	FiringRange    float64 // maximum distance to the target, and the missile leash
	MaxFiringAngle float64 // maximum launch angle from vertical, radians
}

// NewLauncher creates a launcher. The launcher must join a world
// before it is advanced.
func NewLauncher(cfg LauncherConfig) (*Launcher, error) {
	if cfg.MissileSpeed <= 0 {
		return nil, fmt.Errorf("launcher missile speed must be positive, got %g", cfg.MissileSpeed)
	}
	if cfg.ExplosionRange < 0 {
		return nil, fmt.Errorf("launcher explosion range must be non-negative, got %g", cfg.ExplosionRange)
	}
	if cfg.RateOfFire < 0 {
		return nil, fmt.Errorf("launcher rate of fire must be non-negative, got %g", cfg.RateOfFire)
	}
	if cfg.FiringRange <= 0 {
		return nil, fmt.Errorf("launcher firing range must be positive, got %g", cfg.FiringRange)
	}
	if cfg.MaxFiringAngle <= 0 {
		return nil, fmt.Errorf("launcher max firing angle must be positive, got %g", cfg.MaxFiringAngle)
	}
	name := cfg.Name
	if name == "" {
		name = "Launcher"
	}
	return &Launcher{
		id:             uuid.New(),
		label:          name,
		pos:            cfg.Pos,
		missileSpeed:   cfg.MissileSpeed,
		explosionRange: cfg.ExplosionRange,
		rateOfFire:     cfg.RateOfFire,
		firingRange:    cfg.FiringRange,
		maxFiringAngle: cfg.MaxFiringAngle,
	}, nil
}

func (l *Launcher) join(w *World) { l.world = w }

// ID returns the launcher's unique identifier.
func (l *Launcher) ID() uuid.UUID { return l.id }

// Label returns the launcher's display name.
func (l *Launcher) Label() string { return l.label }

// Position returns the launcher's fixed position.
func (l *Launcher) Position() geom.Vector { return l.pos }

// FiredCount returns how many missiles the launcher has fired.
func (l *Launcher) FiredCount() int { return l.fired }

// Advance tends the in-flight missile and fires a new one when the
// slot is free, the cooldown has passed, and a target presents itself.
func (l *Launcher) Advance(t, dt float64) {
	if l.missile != nil {
		if l.pos.DistanceTo(l.missile.Position()) > l.firingRange {
			l.missile.selfDestruct(t, "left the firing range")
		}
		if l.missile.Destroyed() {
			l.missile = nil
		}
	}
	if l.missile != nil {
		return
	}
	if l.hasFired && t < l.lastFireTime+l.rateOfFire {
		l.world.log.Debugf("%s holding fire: cooldown until t=%.2f", l.label, l.lastFireTime+l.rateOfFire)
		return
	}
	target := l.findTarget()
	if target == nil {
		return
	}
	if l.fire(t, target) {
		l.lastFireTime = t
		l.hasFired = true
	}
}

// findTarget returns the aircraft when it is alive and within firing
// range.
func (l *Launcher) findTarget() *Aircraft {
	aircraft := l.world.aircraft
	if aircraft == nil || aircraft.Destroyed() {
		return nil
	}
	if l.pos.DistanceTo(aircraft.Position()) > l.firingRange {
		return nil
	}
	return aircraft
}

// fire solves the intercept against the target's current course and
// launches when a solution inside the angle limit exists.
func (l *Launcher) fire(t float64, target *Aircraft) bool {
	sol, ok := geom.FiringDirection(l.pos, l.missileSpeed, target.Position(), target.Velocity())
	if !ok {
		l.world.log.Debugf("%s: no viable firing solution", l.label)
		return false
	}
	if angle := geom.AngleBetween(vertical, sol.Velocity); angle > l.maxFiringAngle {
		l.world.log.Debugf("%s: firing angle %.3f exceeds limit %.3f", l.label, angle, l.maxFiringAngle)
		return false
	}

	l.fired++
	missile := NewMissile(MissileConfig{
		Name:           fmt.Sprintf("%s missile %d", l.label, l.fired),
		Pos:            l.pos,
		Vel:            sol.Velocity,
		ExplosionRange: l.explosionRange,
		Target:         target,
	})
	l.missile = missile
	l.world.Add(missile)

	distance := l.pos.DistanceTo(target.Position())
	l.world.log.Infof("%s fired %s: intercept in %.2fs at range %.1f", l.label, missile.Label(), sol.Time, distance)
	l.world.noteLaunch(t, l.id, missile.id, distance)
	return true
}
