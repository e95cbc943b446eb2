package sim

import (
	"math"
	"testing"

	"github.com/kpushkaryov/evader/pkg/control"
	"github.com/kpushkaryov/evader/pkg/geom"
	"github.com/kpushkaryov/evader/pkg/report"
)

// stubPilot commands a fixed acceleration and lets tests fake degraded
// optimizer ticks.
type stubPilot struct {
	accel    geom.Vector
	err      error
	degraded int
	calls    int
}

func (p *stubPilot) NextAcceleration(view control.WorldView) (control.ControlDecision, error) {
	p.calls++
	if p.err != nil {
		return control.ControlDecision{}, p.err
	}
	return control.ControlDecision{Accel: p.accel}, nil
}

func (p *stubPilot) DegradedTicks() int { return p.degraded }

func testWorld(t *testing.T, rec *report.Recorder) *World {
	t.Helper()
	w, err := NewWorld(WorldConfig{
		Min:           geom.Vector{X: 0, Y: 0},
		Max:           geom.Vector{X: 100, Y: 100},
		Target:        control.TargetState{MovingObject: control.MovingObject{Pos: geom.Vector{X: 50, Y: 0}}},
		ArrivalRadius: 1,
		Recorder:      rec,
	})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

func testAircraft(t *testing.T, pos geom.Vector, pilot Pilot) *Aircraft {
	t.Helper()
	a, err := NewAircraft(AircraftConfig{
		Pos:      pos,
		MaxSpeed: 20,
		MaxAccel: 15,
		Pilot:    pilot,
	})
	if err != nil {
		t.Fatalf("NewAircraft failed: %v", err)
	}
	return a
}

func testLauncher(t *testing.T, pos geom.Vector) *Launcher {
	t.Helper()
	l, err := NewLauncher(LauncherConfig{
		Pos:            pos,
		MissileSpeed:   50,
		ExplosionRange: 5,
		RateOfFire:     2,
		FiringRange:    50,
		MaxFiringAngle: 1.5,
	})
	if err != nil {
		t.Fatalf("NewLauncher failed: %v", err)
	}
	return l
}

func countEvents(rec *report.Recorder, eventType string) int {
	n := 0
	for _, ev := range rec.GetEvents() {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func TestNewAircraftValidation(t *testing.T) {
	pilot := &stubPilot{}
	tests := []struct {
		name   string
		cfg    AircraftConfig
		hasErr bool
	}{
		{
			name:   "valid",
			cfg:    AircraftConfig{MaxSpeed: 20, MaxAccel: 15, Pilot: pilot},
			hasErr: false,
		},
		{
			name:   "missing pilot",
			cfg:    AircraftConfig{MaxSpeed: 20, MaxAccel: 15},
			hasErr: true,
		},
		{
			name:   "zero max speed",
			cfg:    AircraftConfig{MaxAccel: 15, Pilot: pilot},
			hasErr: true,
		},
		{
			name:   "zero max accel",
			cfg:    AircraftConfig{MaxSpeed: 20, Pilot: pilot},
			hasErr: true,
		},
		{
			name:   "initial speed over limit",
			cfg:    AircraftConfig{Vel: geom.Vector{X: 25}, MaxSpeed: 20, MaxAccel: 15, Pilot: pilot},
			hasErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAircraft(tt.cfg)
			if tt.hasErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.hasErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestAircraftAdvanceIntegratesAndClamps(t *testing.T) {
	pilot := &stubPilot{accel: geom.Vector{X: 30}}
	a, err := NewAircraft(AircraftConfig{MaxSpeed: 10, MaxAccel: 5, Pilot: pilot})
	if err != nil {
		t.Fatalf("NewAircraft failed: %v", err)
	}
	w := testWorld(t, nil)
	w.Add(a)

	// Commanded (30, 0) clamps to (5, 0); with dt=1 the velocity grows
	// 5 per tick until the speed cap bites.
	a.Advance(1, 1)
	if got := a.Velocity(); math.Abs(got.X-5) > 1e-12 || got.Y != 0 {
		t.Errorf("expected velocity (5, 0) after clamped accel, got (%g, %g)", got.X, got.Y)
	}
	if got := a.Position(); math.Abs(got.X-5) > 1e-12 {
		t.Errorf("expected position x=5, got %g", got.X)
	}

	a.Advance(2, 1)
	a.Advance(3, 1)
	if got := a.Velocity().Magnitude(); math.Abs(got-10) > 1e-12 {
		t.Errorf("speed should cap at 10, got %g", got)
	}
	if got := a.Position().X; math.Abs(got-25) > 1e-12 {
		t.Errorf("expected position x=25 after three ticks, got %g", got)
	}
	if got := a.FuelSpent(); math.Abs(got-15) > 1e-12 {
		t.Errorf("expected fuel 15 after three ticks at accel 5, got %g", got)
	}
}

func TestAircraftDestroyedStaysPut(t *testing.T) {
	pilot := &stubPilot{accel: geom.Vector{X: 5}}
	a := testAircraft(t, geom.Vector{X: 50, Y: 50}, pilot)
	w := testWorld(t, nil)
	w.Add(a)

	a.Destroy()
	a.Advance(0.05, 0.05)

	if !a.Destroyed() {
		t.Fatalf("aircraft should stay destroyed")
	}
	if got := a.Position(); got.X != 50 || got.Y != 50 {
		t.Errorf("destroyed aircraft moved to (%g, %g)", got.X, got.Y)
	}
	if got := a.Velocity(); got.X != 0 || got.Y != 0 {
		t.Errorf("destroyed aircraft kept velocity (%g, %g)", got.X, got.Y)
	}
	if pilot.calls != 0 {
		t.Errorf("pilot consulted %d times after destruction", pilot.calls)
	}
}

func TestAircraftDegradedTickRecordedOnce(t *testing.T) {
	rec := report.NewRecorder("degraded-test")
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 50}, pilot)
	w := testWorld(t, rec)
	w.Add(a)

	a.Advance(0.05, 0.05)
	if got := countEvents(rec, report.EventTypeDegraded); got != 0 {
		t.Fatalf("expected no degraded events yet, got %d", got)
	}

	// The pilot reports one degraded tick; only the delta should be
	// logged, not one event per subsequent advance.
	pilot.degraded = 1
	a.Advance(0.10, 0.05)
	a.Advance(0.15, 0.05)

	if got := countEvents(rec, report.EventTypeDegraded); got != 1 {
		t.Errorf("expected exactly one degraded event, got %d", got)
	}
}

func TestMissileProximityFuze(t *testing.T) {
	rec := report.NewRecorder("fuze-test")
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 50}, pilot)
	w := testWorld(t, rec)
	w.Add(a)

	m := NewMissile(MissileConfig{
		Pos:            geom.Vector{X: 50, Y: 46},
		Vel:            geom.Vector{Y: 50},
		ExplosionRange: 5,
		Target:         a,
	})
	w.Add(m)

	// Separation 4 is inside the fuze radius, so the missile explodes
	// before it moves.
	m.Advance(0.05, 0.05)

	if !m.Exploded() {
		t.Fatalf("missile within explosion range should explode")
	}
	if !m.Destroyed() {
		t.Errorf("exploded missile should be destroyed")
	}
	if !a.Destroyed() {
		t.Errorf("aircraft should be destroyed by the explosion")
	}
	if got := m.Velocity(); got.X != 0 || got.Y != 0 {
		t.Errorf("destroyed missile kept velocity (%g, %g)", got.X, got.Y)
	}
	if got := countEvents(rec, report.EventTypeHit); got != 1 {
		t.Errorf("expected one hit event, got %d", got)
	}
}

func TestMissileFliesStraight(t *testing.T) {
	w := testWorld(t, nil)
	m := NewMissile(MissileConfig{
		Pos: geom.Vector{X: 10, Y: 10},
		Vel: geom.Vector{X: 20, Y: 10},
	})
	w.Add(m)

	m.Advance(0.05, 0.05)
	m.Advance(0.10, 0.05)

	if got := m.Position(); math.Abs(got.X-12) > 1e-12 || math.Abs(got.Y-11) > 1e-12 {
		t.Errorf("expected position (12, 11), got (%g, %g)", got.X, got.Y)
	}
	if m.Destroyed() {
		t.Errorf("missile inside bounds should stay alive")
	}
}

func TestMissileSelfDestructsOutOfBounds(t *testing.T) {
	rec := report.NewRecorder("bounds-test")
	w := testWorld(t, rec)
	m := NewMissile(MissileConfig{
		Pos: geom.Vector{X: 99.9, Y: 50},
		Vel: geom.Vector{X: 10},
	})
	w.Add(m)

	m.Advance(0.05, 0.05)

	if !m.Destroyed() {
		t.Fatalf("missile leaving the theater should self-destruct")
	}
	if m.Exploded() {
		t.Errorf("self-destruct should not count as an explosion")
	}
	if got := countEvents(rec, report.EventTypeExpired); got != 1 {
		t.Errorf("expected one expired event, got %d", got)
	}
}

func TestNewLauncherValidation(t *testing.T) {
	base := LauncherConfig{
		MissileSpeed:   50,
		ExplosionRange: 5,
		RateOfFire:     2,
		FiringRange:    50,
		MaxFiringAngle: 1.5,
	}
	tests := []struct {
		name   string
		mutate func(*LauncherConfig)
		hasErr bool
	}{
		{"valid", func(c *LauncherConfig) {}, false},
		{"zero missile speed", func(c *LauncherConfig) { c.MissileSpeed = 0 }, true},
		{"negative explosion range", func(c *LauncherConfig) { c.ExplosionRange = -1 }, true},
		{"negative rate of fire", func(c *LauncherConfig) { c.RateOfFire = -1 }, true},
		{"zero firing range", func(c *LauncherConfig) { c.FiringRange = 0 }, true},
		{"zero firing angle", func(c *LauncherConfig) { c.MaxFiringAngle = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewLauncher(cfg)
			if tt.hasErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.hasErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestLauncherFiresAtTargetInRange(t *testing.T) {
	rec := report.NewRecorder("fire-test")
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 40}, pilot)
	w := testWorld(t, rec)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	l.Advance(0.05, 0.05)

	if got := l.FiredCount(); got != 1 {
		t.Fatalf("expected one launch, got %d", got)
	}
	threats := w.Threats()
	if len(threats) != 1 {
		t.Fatalf("expected one missile in the world, got %d", len(threats))
	}
	vel := threats[0].Vel
	if math.Abs(vel.Magnitude()-50) > 1e-9 {
		t.Errorf("missile speed should match launcher speed 50, got %g", vel.Magnitude())
	}
	if math.Abs(vel.X) > 1e-9 || vel.Y <= 0 {
		t.Errorf("shot at a hovering target overhead should fly straight up, got (%g, %g)", vel.X, vel.Y)
	}
	if got := countEvents(rec, report.EventTypeLaunch); got != 1 {
		t.Errorf("expected one launch event, got %d", got)
	}
}

func TestLauncherKeepsOneMissileInFlight(t *testing.T) {
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 40}, pilot)
	w := testWorld(t, nil)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	l.Advance(0.05, 0.05)
	// Cooldown is long past, but the first missile still flies.
	l.Advance(2.10, 0.05)

	if got := l.FiredCount(); got != 1 {
		t.Errorf("launcher with a missile in flight fired again, count %d", got)
	}
}

func TestLauncherHonorsCooldown(t *testing.T) {
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 40}, pilot)
	w := testWorld(t, nil)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	l.Advance(0.05, 0.05)
	if got := l.FiredCount(); got != 1 {
		t.Fatalf("expected first launch, got %d", got)
	}

	// Clear the slot as if the missile were gone, then advance inside
	// the cooldown window.
	l.missile.destroy()
	l.Advance(1.0, 0.05)
	if got := l.FiredCount(); got != 1 {
		t.Errorf("launcher fired during cooldown, count %d", got)
	}

	l.Advance(2.05, 0.05)
	if got := l.FiredCount(); got != 2 {
		t.Errorf("expected second launch after cooldown, got %d", got)
	}
}

func TestLauncherRejectsWideAngle(t *testing.T) {
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 90, Y: 0}, pilot)
	w := testWorld(t, nil)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	// The only solution is horizontal, 1.5708 rad from vertical,
	// just over the 1.5 rad limit.
	l.Advance(0.05, 0.05)

	if got := l.FiredCount(); got != 0 {
		t.Errorf("horizontal shot exceeds the angle limit, launch count %d", got)
	}
	if got := len(w.Threats()); got != 0 {
		t.Errorf("expected no missiles, got %d", got)
	}
}

func TestLauncherHoldsFireOutOfRange(t *testing.T) {
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 95}, pilot)
	w := testWorld(t, nil)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	l.Advance(0.05, 0.05)

	if got := l.FiredCount(); got != 0 {
		t.Errorf("target at range 95 is outside firing range 50, launch count %d", got)
	}
}

func TestLauncherHoldsFireOnDeadAircraft(t *testing.T) {
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 40}, pilot)
	w := testWorld(t, nil)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	a.Destroy()
	l.Advance(0.05, 0.05)

	if got := l.FiredCount(); got != 0 {
		t.Errorf("launcher fired at a destroyed aircraft, count %d", got)
	}
}

func TestLauncherLeashSelfDestructsMissile(t *testing.T) {
	rec := report.NewRecorder("leash-test")
	pilot := &stubPilot{}
	a := testAircraft(t, geom.Vector{X: 50, Y: 40}, pilot)
	w := testWorld(t, rec)
	w.Add(a)
	l := testLauncher(t, geom.Vector{X: 50, Y: 0})
	w.Add(l)

	l.Advance(0.05, 0.05)
	m := l.missile
	if m == nil {
		t.Fatalf("expected a missile in flight")
	}

	// Drag the missile past the leash and let the launcher notice.
	m.pos = geom.Vector{X: 50, Y: 60}
	l.Advance(0.10, 0.05)

	if !m.Destroyed() {
		t.Errorf("missile beyond the firing range should self-destruct")
	}
	if l.missile != nil {
		t.Errorf("launcher slot should be free after the self-destruct")
	}
	if got := countEvents(rec, report.EventTypeExpired); got != 1 {
		t.Errorf("expected one expired event, got %d", got)
	}
}

func TestNewHomingPilotValidation(t *testing.T) {
	if _, err := NewHomingPilot(0, 0.05); err == nil {
		t.Errorf("expected error for zero max accel")
	}
	if _, err := NewHomingPilot(15, 0); err == nil {
		t.Errorf("expected error for zero time step")
	}
	if _, err := NewHomingPilot(15, 0.05); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestHomingPilotSteersTowardTarget(t *testing.T) {
	pilot, err := NewHomingPilot(15, 0.05)
	if err != nil {
		t.Fatalf("NewHomingPilot failed: %v", err)
	}
	a := testAircraft(t, geom.Vector{X: 45, Y: 0}, pilot)
	w := testWorld(t, nil)
	w.Add(a)

	// Target 5 m east: the wanted velocity change saturates the
	// per-tick budget, so the accel pins at the limit.
	decision, err := pilot.NextAcceleration(w)
	if err != nil {
		t.Fatalf("NextAcceleration failed: %v", err)
	}
	if math.Abs(decision.Accel.X-15) > 1e-9 || math.Abs(decision.Accel.Y) > 1e-9 {
		t.Errorf("expected accel (15, 0), got (%g, %g)", decision.Accel.X, decision.Accel.Y)
	}

	// Close to the target the wanted change shrinks, giving the soft
	// approach instead of an overshoot.
	a.pos = geom.Vector{X: 49.9}
	decision, err = pilot.NextAcceleration(w)
	if err != nil {
		t.Fatalf("NextAcceleration failed: %v", err)
	}
	if math.Abs(decision.Accel.X-2) > 1e-9 {
		t.Errorf("expected accel x=2 near the target, got %g", decision.Accel.X)
	}
}
