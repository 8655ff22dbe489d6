package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/armsim/internal/dynamo"
)

func TestHermite_Endpoints(t *testing.T) {
	x0, x1 := dynamo.State{1, 2}, dynamo.State{3, 5}
	f0, f1 := dynamo.State{0.5, -1}, dynamo.State{2, 0}

	if got := Hermite(1, 2, x0, x1, f0, f1, 1); got[0] != 1 || got[1] != 2 {
		t.Errorf("expected x0 at t0, got %v", got)
	}
	if got := Hermite(1, 2, x0, x1, f0, f1, 2); got[0] != 3 || got[1] != 5 {
		t.Errorf("expected x1 at t1, got %v", got)
	}
}

func TestHermite_ExactForCubic(t *testing.T) {
	// x(t) = t^3 - t, x'(t) = 3t^2 - 1
	x := func(t float64) float64 { return t*t*t - t }
	dx := func(t float64) float64 { return 3*t*t - 1 }

	t0, t1 := 0.5, 1.5
	x0, x1 := dynamo.State{x(t0)}, dynamo.State{x(t1)}
	f0, f1 := dynamo.State{dx(t0)}, dynamo.State{dx(t1)}

	for _, tt := range []float64{0.5, 0.7, 1.0, 1.25, 1.5} {
		got := Hermite(t0, t1, x0, x1, f0, f1, tt)[0]
		if math.Abs(got-x(tt)) > 1e-12 {
			t.Errorf("t=%g: got %g, want %g", tt, got, x(tt))
		}
	}
}

func TestHermite_ZeroWidthStep(t *testing.T) {
	got := Hermite(1, 1, dynamo.State{1}, dynamo.State{4}, dynamo.State{0}, dynamo.State{0}, 1)
	if got[0] != 4 {
		t.Errorf("expected x1 for a zero width step, got %v", got)
	}
}
