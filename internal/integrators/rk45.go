package integrators

import (
	"math"

	"github.com/san-kum/armsim/internal/dynamo"
)

// Dormand-Prince 5(4) tableau. Row i of dpA holds the coefficients of
// stage i+1 on the earlier stages; dpC are the stage times. The last row
// equals the fifth-order weights, which is what makes FSAL possible.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// fifth minus fourth order weights
	dpE = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

// RK45 is an embedded Dormand-Prince stepper. It holds only step-size
// control constants and is safe for concurrent use.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{safety: 0.9, minScale: 0.2, maxScale: 10}
}

// Trial is the outcome of one step attempt.
type Trial struct {
	X      dynamo.State // fifth-order solution at t+dt
	Err    dynamo.State // embedded error estimate
	DerivA dynamo.State // f(t, x)
	DerivB dynamo.State // f(t+dt, X); pass as k1 to the next Attempt
	Evals  int
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return r.Attempt(dyn, x, nil, t, dt).X
}

// Attempt performs one step without accepting or rejecting it. k1 may be
// nil; when the caller already holds f(t, x) it is reused.
func (r *RK45) Attempt(dyn dynamo.System, x, k1 dynamo.State, t, dt float64) Trial {
	n := len(x)
	var k [7]dynamo.State
	evals := 6
	if k1 == nil {
		k1 = dyn.Derive(x, t)
		evals++
	}
	k[0] = k1

	var stage dynamo.State
	for s := 1; s < 7; s++ {
		stage = make(dynamo.State, n)
		for i := range stage {
			acc := 0.0
			for j := 0; j < s; j++ {
				acc += dpA[s][j] * k[j][i]
			}
			stage[i] = x[i] + dt*acc
		}
		k[s] = dyn.Derive(stage, t+dpC[s]*dt)
	}

	est := make(dynamo.State, n)
	for i := range est {
		for s, e := range dpE {
			est[i] += e * k[s][i]
		}
		est[i] *= dt
	}

	// The seventh stage point is the solution itself.
	return Trial{X: stage, Err: est, DerivA: k[0], DerivB: k[6], Evals: evals}
}

// ErrorNorm is the RMS of the error estimate scaled by tol. A trial is
// acceptable when the norm is at most 1.
func ErrorNorm(x dynamo.State, tr Trial, tol dynamo.Tolerance) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for i, e := range tr.Err {
		q := e / tol.Scale(x[i], tr.X[i])
		sum += q * q
	}
	return math.Sqrt(sum / float64(len(x)))
}

// NextStep scales dt by the usual fifth-root controller, kept within
// [minScale, maxScale].
func (r *RK45) NextStep(dt, errNorm float64) float64 {
	switch {
	case errNorm == 0:
		return dt * r.maxScale
	case math.IsNaN(errNorm), math.IsInf(errNorm, 0):
		return dt * r.minScale
	}
	f := r.safety * math.Pow(errNorm, -0.2)
	return dt * math.Max(r.minScale, math.Min(r.maxScale, f))
}
