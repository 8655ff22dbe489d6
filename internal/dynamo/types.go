package dynamo

import "math"

// State is a flat vector of system coordinates.
type State []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE dX/dt = f(X, t) of fixed dimension.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian systems expose the quantity a lossless run conserves.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

// Tolerance is the mixed absolute/relative error target of an adaptive solver.
type Tolerance struct {
	Abs float64
	Rel float64
}

// Scale returns the per-component error scale atol + rtol*max(|a|, |b|).
func (tol Tolerance) Scale(a, b float64) float64 {
	return tol.Abs + tol.Rel*math.Max(math.Abs(a), math.Abs(b))
}

// Stats counts solver work over one run.
type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
}
