package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector{X: 3, Y: 4}
	b := Vector{X: -1, Y: 2}

	sum := a.Add(b)
	if sum.X != 2 || sum.Y != 6 {
		t.Errorf("Expected sum (2, 6), got (%g, %g)", sum.X, sum.Y)
	}

	diff := a.Subtract(b)
	if diff.X != 4 || diff.Y != 2 {
		t.Errorf("Expected difference (4, 2), got (%g, %g)", diff.X, diff.Y)
	}

	scaled := a.Scale(2)
	if scaled.X != 6 || scaled.Y != 8 {
		t.Errorf("Expected scaled (6, 8), got (%g, %g)", scaled.X, scaled.Y)
	}

	if dot := a.Dot(b); dot != 5 {
		t.Errorf("Expected dot product 5, got %g", dot)
	}

	if cross := a.Cross(b); cross != 10 {
		t.Errorf("Expected cross product 10, got %g", cross)
	}

	if mag := a.Magnitude(); mag != 5 {
		t.Errorf("Expected magnitude 5, got %g", mag)
	}

	if d := a.DistanceTo(b); !almostEqual(d, math.Sqrt(20)) {
		t.Errorf("Expected distance sqrt(20), got %g", d)
	}
}

func TestVectorNormalize(t *testing.T) {
	v := Vector{X: 3, Y: 4}.Normalize()
	if !almostEqual(v.X, 0.6) || !almostEqual(v.Y, 0.8) {
		t.Errorf("Expected unit vector (0.6, 0.8), got (%g, %g)", v.X, v.Y)
	}

	// The zero vector normalizes to itself
	zero := Vector{}.Normalize()
	if zero.X != 0 || zero.Y != 0 {
		t.Errorf("Expected zero vector to normalize to itself, got (%g, %g)", zero.X, zero.Y)
	}
}

func TestClampMagnitude(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector
		limit float64
		want  Vector
	}{
		{
			name:  "within limit unchanged",
			v:     Vector{X: 1, Y: 1},
			limit: 5,
			want:  Vector{X: 1, Y: 1},
		},
		{
			name:  "over limit scaled down",
			v:     Vector{X: 6, Y: 8},
			limit: 5,
			want:  Vector{X: 3, Y: 4},
		},
		{
			name:  "zero stays zero",
			v:     Vector{},
			limit: 5,
			want:  Vector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ClampMagnitude(tt.limit)
			if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) {
				t.Errorf("Expected (%g, %g), got (%g, %g)", tt.want.X, tt.want.Y, got.X, got.Y)
			}
			if got.Magnitude() > tt.limit+tol {
				t.Errorf("Clamped magnitude %g exceeds limit %g", got.Magnitude(), tt.limit)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !(Vector{X: 1, Y: -2}).IsFinite() {
		t.Error("Expected finite vector to report finite")
	}
	if (Vector{X: math.NaN(), Y: 0}).IsFinite() {
		t.Error("Expected NaN component to report non-finite")
	}
	if (Vector{X: 0, Y: math.Inf(1)}).IsFinite() {
		t.Error("Expected infinite component to report non-finite")
	}
}
