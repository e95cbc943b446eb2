package sim

import (
	"github.com/google/uuid"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/geom"
)

// Missile is an unguided projectile with a proximity fuze. It flies a
// straight line at constant speed, explodes when it comes within
// ExplosionRange of its target, and self-destructs when it leaves the
// theater or strays beyond its launcher's firing range.
type Missile struct {
	id    uuid.UUID
	label string

	pos   geom.Vector
	vel   geom.Vector
	speed float64

	explosionRange float64
	target         *Aircraft

	exploded  bool
	destroyed bool

	world *World
}

// MissileConfig configures a new missile.
type MissileConfig struct {
	Name           string // defaults to "Missile"
	Pos            geom.Vector
	Vel            geom.Vector
	ExplosionRange float64
	Target         *Aircraft
}

// NewMissile creates a missile. Launchers build missiles themselves;
// this is exposed for scenarios that pre-place a volley.
func NewMissile(cfg MissileConfig) *Missile {
	name := cfg.Name
	if name == "" {
		name = "Missile"
	}
	return &Missile{
		id:             uuid.New(),
		label:          name,
		pos:            cfg.Pos,
		vel:            cfg.Vel,
		speed:          cfg.Vel.Magnitude(),
		explosionRange: cfg.ExplosionRange,
		target:         cfg.Target,
	}
}

func (m *Missile) join(w *World) { m.world = w }

// ID returns the missile's unique identifier.
func (m *Missile) ID() uuid.UUID { return m.id }

// Label returns the missile's display name.
func (m *Missile) Label() string { return m.label }

// Position returns the current position.
func (m *Missile) Position() geom.Vector { return m.pos }

// Velocity returns the current velocity. Destroyed missiles report
// zero.
func (m *Missile) Velocity() geom.Vector { return m.vel }

// Exploded reports whether the proximity fuze went off.
func (m *Missile) Exploded() bool { return m.exploded }

// Destroyed reports whether the missile is out of play, by explosion
// or self-destruct.
func (m *Missile) Destroyed() bool { return m.destroyed }

// Advance checks the fuze against the target's current position, then
// moves the missile one tick. The fuze fires before the move, on the
// separation at the start of the tick.
func (m *Missile) Advance(t, dt float64) {
	if !m.destroyed && m.target != nil {
		targetDist := m.pos.DistanceTo(m.target.Position())
		if targetDist <= m.explosionRange {
			m.world.log.Debugf("%s exploded %.2f from %s", m.label, targetDist, m.target.Label())
			m.exploded = true
			m.destroy()
			m.target.Destroy()
			m.world.noteHit(t, m.id, targetDist)
		}
	}
	m.pos = m.pos.Add(m.vel.Scale(dt))
	if !m.destroyed && !m.world.contains(m.pos) {
		m.selfDestruct(t, "left the theater")
	}
}

// selfDestruct takes the missile out of play without an explosion.
func (m *Missile) selfDestruct(t float64, reason string) {
	m.world.log.Debugf("%s self-destructed: %s", m.label, reason)
	m.destroy()
	m.world.noteExpired(t, m.id, reason)
}

func (m *Missile) destroy() {
	m.vel = geom.Vector{}
	m.destroyed = true
}

// threatState maps the missile onto the controller's threat contract.
func (m *Missile) threatState() control.ThreatState {
	return control.ThreatState{
		MovingObject: control.MovingObject{Pos: m.pos, Vel: m.vel},
		Speed:        m.speed,
		Active:       !m.destroyed,
	}
}
