package continuous

import (
	"context"
	"errors"

	"github.com/san-kum/armsim/internal/dynamo"
)

// Result is the batch form of a trajectory run. On failure Samples holds
// every grid point reached before the solver stopped.
type Result struct {
	Samples []Sample
	Success bool
	Message string
	Stats   dynamo.Stats
	Err     error
}

// Solve integrates the whole grid. A solver failure is reported through
// Success and Message, never as the returned error; the error is only for
// context cancellation.
func Solve(ctx context.Context, tr *Trajectory) (*Result, error) {
	res := &Result{Samples: make([]Sample, 0, tr.grid.N)}

	stats, err := tr.run(ctx, func(s Sample) bool {
		res.Samples = append(res.Samples, s)
		return true
	})
	res.Stats = stats

	var solverErr *SolverError
	switch {
	case err == nil:
		res.Success = true
		res.Message = "The solver successfully reached the end of the integration interval."
	case errors.As(err, &solverErr):
		res.Message = solverErr.Message
		res.Err = err
	default:
		return res, err
	}
	return res, nil
}

// Times, Thetas and Omegas split the samples into columns for plotting.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.T
	}
	return out
}

func (r *Result) Thetas() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Theta
	}
	return out
}

func (r *Result) Omegas() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Omega
	}
	return out
}

// States returns the samples as dynamo states (theta, omega).
func (r *Result) States() []dynamo.State {
	out := make([]dynamo.State, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = dynamo.State{s.Theta, s.Omega}
	}
	return out
}
