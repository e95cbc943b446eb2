package geom

import "math"

// AngleBetween returns the angle between two vectors in radians, in [0, pi].
func AngleBetween(a, b Vector) float64 {
	return math.Atan2(math.Abs(a.Cross(b)), a.Dot(b))
}

// TimeOfClosestApproach returns the time at which two objects moving at
// constant velocity are closest to each other. The result is zero when the
// relative velocity vanishes and negative when the closest approach lies in
// the past.
func TimeOfClosestApproach(x1, v1, x2, v2 Vector) float64 {
	dv := v1.Subtract(v2)
	dvsq := dv.Dot(dv)
	if dvsq == 0 {
		return 0
	}
	dx := x1.Subtract(x2)
	return -dv.Dot(dx) / dvsq
}

// MinSeparationSq returns the squared distance between two objects moving at
// constant velocity at their closest approach.
func MinSeparationSq(x1, v1, x2, v2 Vector) float64 {
	dv := v1.Subtract(v2)
	dvsq := dv.Dot(dv)
	dx := x1.Subtract(x2)
	if dvsq == 0 {
		return dx.Dot(dx)
	}
	c := dv.Cross(dx)
	return c * c / dvsq
}

// MinSeparation returns the distance between two objects moving at constant
// velocity at their closest approach.
func MinSeparation(x1, v1, x2, v2 Vector) float64 {
	return math.Sqrt(MinSeparationSq(x1, v1, x2, v2))
}

// FiringSolution is an intercept solution for an unguided projectile.
type FiringSolution struct {
	Time     float64 // time of flight until intercept
	Velocity Vector  // launch velocity, magnitude equals the projectile speed
}

// FiringDirection computes the launch velocity with which a projectile fired
// from a stationary gun at constant speed intercepts a target traveling at
// constant velocity. It solves the quadratic intercept equation and returns
// the earliest positive-time solution. ok is false when no such solution
// exists: the target is faster than the projectile and heading away, or the
// gun sits exactly on the target.
func FiringDirection(gunPos Vector, projSpeed float64, targetPos, targetVel Vector) (FiringSolution, bool) {
	d := targetPos.Subtract(gunPos)
	dsq := d.Dot(d)
	if dsq == 0 {
		return FiringSolution{}, false
	}
	cross := d.Cross(targetVel)
	dis := projSpeed*projSpeed*dsq - cross*cross
	if dis < 0 {
		return FiringSolution{}, false
	}
	sq := math.Sqrt(dis)
	a := -d.Y * cross
	b := d.X * cross
	c := -d.Dot(targetVel)
	den := targetVel.Dot(targetVel) - projSpeed*projSpeed

	candidates := [2]FiringSolution{
		{
			Time:     (c + sq) / den,
			Velocity: Vector{X: (a - d.X*sq) / dsq, Y: (b - d.Y*sq) / dsq},
		},
		{
			Time:     (c - sq) / den,
			Velocity: Vector{X: (a + d.X*sq) / dsq, Y: (b + d.Y*sq) / dsq},
		},
	}

	best := FiringSolution{}
	ok := false
	for _, cand := range candidates {
		if cand.Time <= 0 || math.IsNaN(cand.Time) || math.IsInf(cand.Time, 0) {
			continue
		}
		if !ok || cand.Time < best.Time {
			best = cand
			ok = true
		}
	}
	return best, ok
}
