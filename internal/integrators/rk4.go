package integrators

import "github.com/san-kum/armsim/internal/dynamo"

// RK4 is the classic fixed-step fourth-order Runge-Kutta method. Stage
// derivatives live in buffers reused between calls, so an RK4 must not be
// shared between goroutines.
type RK4 struct {
	stages   [4]dynamo.State
	midpoint dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.midpoint) == n {
		return
	}
	for i := range r.stages {
		r.stages[i] = make(dynamo.State, n)
	}
	r.midpoint = make(dynamo.State, n)
}

// axpy writes x + h*k into dst.
func axpy(dst, x, k dynamo.State, h float64) dynamo.State {
	for i := range dst {
		dst[i] = x[i] + h*k[i]
	}
	return dst
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.resize(len(x))
	half := dt / 2

	copy(r.stages[0], dyn.Derive(x, t))
	copy(r.stages[1], dyn.Derive(axpy(r.midpoint, x, r.stages[0], half), t+half))
	copy(r.stages[2], dyn.Derive(axpy(r.midpoint, x, r.stages[1], half), t+half))
	copy(r.stages[3], dyn.Derive(axpy(r.midpoint, x, r.stages[2], dt), t+dt))

	k1, k2, k3, k4 := r.stages[0], r.stages[1], r.stages[2], r.stages[3]
	out := make(dynamo.State, len(x))
	for i := range out {
		out[i] = x[i] + dt*(k1[i]+2*(k2[i]+k3[i])+k4[i])/6
	}
	return out
}
