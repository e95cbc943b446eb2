package geom

import "math"

// Vector is a 2D vector used for positions, velocities and accelerations.
type Vector struct {
	X, Y float64
}

func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vector) Subtract(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the cross product of the two vectors.
func (v Vector) Cross(other Vector) float64 {
	return v.X*other.Y - v.Y*other.X
}

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector) MagnitudeSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector) Normalize() Vector {
	mag := v.Magnitude()
	if mag == 0 {
		return v
	}
	return v.Scale(1.0 / mag)
}

func (v Vector) DistanceTo(other Vector) float64 {
	return v.Subtract(other).Magnitude()
}

// ClampMagnitude scales v down so that its magnitude does not exceed limit,
// preserving direction. Vectors within the limit are returned unchanged.
func (v Vector) ClampMagnitude(limit float64) Vector {
	mag := v.Magnitude()
	if mag <= limit {
		return v
	}
	return v.Scale(limit / mag)
}

// IsFinite reports whether both components are finite numbers.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
