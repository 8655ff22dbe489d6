package integrators

import "github.com/san-kum/armsim/internal/dynamo"

// Hermite evaluates the cubic Hermite interpolant of an accepted step
// [t0, t1] at t, using the end states and derivatives the step already
// computed. t outside [t0, t1] extrapolates.
func Hermite(t0, t1 float64, x0, x1, f0, f1 dynamo.State, t float64) dynamo.State {
	h := t1 - t0
	out := make(dynamo.State, len(x0))
	if h == 0 {
		copy(out, x1)
		return out
	}

	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	for i := range x0 {
		out[i] = h00*x0[i] + h10*h*f0[i] + h01*x1[i] + h11*h*f1[i]
	}
	return out
}
