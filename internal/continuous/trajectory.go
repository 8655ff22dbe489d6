package continuous

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/integrators"
	"github.com/san-kum/armsim/internal/physics"
)

type Sample struct {
	T     float64 `json:"t"`
	Theta float64 `json:"theta"`
	Omega float64 `json:"omega"`
}

// Grid is an inclusive linspace of N output times over [Start, End].
type Grid struct {
	Start float64
	End   float64
	N     int
}

func Linspace(start, end float64, n int) Grid {
	return Grid{Start: start, End: end, N: n}
}

func (g Grid) At(i int) float64 {
	if g.N <= 1 {
		return g.Start
	}
	if i == g.N-1 {
		return g.End
	}
	return g.Start + (g.End-g.Start)*float64(i)/float64(g.N-1)
}

func (g Grid) validate() error {
	if g.N < 1 {
		return fmt.Errorf("grid needs at least one sample, got %d", g.N)
	}
	if !(g.End > g.Start) {
		return fmt.Errorf("grid end %g must be after start %g", g.End, g.Start)
	}
	return nil
}

// Options configure the adaptive solver. Output times never constrain the
// internal steps; samples are interpolated from whatever steps were taken.
type Options struct {
	FirstStep float64
	MinStep   float64
	MaxStep   float64
	Tolerance dynamo.Tolerance
	MaxSteps  int
}

func DefaultOptions() Options {
	return Options{
		FirstStep: 0.1,
		MinStep:   1e-6,
		MaxStep:   math.Inf(1),
		Tolerance: dynamo.Tolerance{Abs: 0.1, Rel: 1e-3},
		MaxSteps:  500000,
	}
}

func (o Options) validate() error {
	if o.FirstStep <= 0 {
		return fmt.Errorf("first step must be positive, got %g", o.FirstStep)
	}
	if o.MinStep <= 0 || o.MinStep > o.FirstStep {
		return fmt.Errorf("min step must be in (0, first step], got %g", o.MinStep)
	}
	if o.MaxStep < o.MinStep {
		return fmt.Errorf("max step %g below min step %g", o.MaxStep, o.MinStep)
	}
	if o.Tolerance.Abs <= 0 && o.Tolerance.Rel <= 0 {
		return errors.New("tolerance must be positive for adaptive stepping")
	}
	if o.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", o.MaxSteps)
	}
	return nil
}

// SolverError is the non-fatal failure of one integration run. Message is
// the human-readable diagnostic.
type SolverError struct {
	Message string
	Time    float64
	Err     error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver stopped at t=%.6g: %s", e.Time, e.Message)
}

func (e *SolverError) Unwrap() error { return e.Err }

// Trajectory is one configured run of the continuous arm. It holds no
// mutable solver state; every call to Samples integrates from x0 again.
type Trajectory struct {
	arm     *physics.Arm
	x0      physics.ArmState
	grid    Grid
	opts    Options
	stepper *integrators.RK45
}

func NewTrajectory(arm *physics.Arm, x0 physics.ArmState, grid Grid, opts Options) (*Trajectory, error) {
	if arm == nil {
		return nil, errors.New("nil arm")
	}
	if err := grid.validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Trajectory{arm: arm, x0: x0, grid: grid, opts: opts, stepper: integrators.NewRK45()}, nil
}

func (tr *Trajectory) Grid() Grid { return tr.grid }

// Samples yields (sample, nil) for each grid point in order. If the solver
// fails, it yields (zero sample, *SolverError) once and stops.
func (tr *Trajectory) Samples() iter.Seq2[Sample, error] {
	return func(yield func(Sample, error) bool) {
		_, err := tr.run(context.Background(), func(s Sample) bool {
			return yield(s, nil)
		})
		if err != nil {
			yield(Sample{}, err)
		}
	}
}

func (tr *Trajectory) run(ctx context.Context, emit func(Sample) bool) (dynamo.Stats, error) {
	var stats dynamo.Stats
	dyn := tr.arm
	g := tr.grid
	o := tr.opts

	t := g.Start
	x := dynamo.State{tr.x0.Theta, tr.x0.Omega}
	next := 0

	// Grid points at or before the start are the initial state itself.
	for next < g.N && g.At(next) <= t {
		if !emit(Sample{T: g.At(next), Theta: x[0], Omega: x[1]}) {
			return stats, nil
		}
		next++
	}

	f := dyn.Derive(x, t)
	stats.Evaluations++
	h := math.Min(o.FirstStep, o.MaxStep)

	for next < g.N {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if stats.Accepted+stats.Rejected >= o.MaxSteps {
			return stats, solverErr(t, dynamo.ErrTooManySteps,
				fmt.Sprintf("maximum number of steps (%d) exceeded", o.MaxSteps))
		}

		if t+h > g.End {
			h = g.End - t
		}

		trial := tr.stepper.Attempt(dyn, x, f, t, h)
		stats.Evaluations += trial.Evals

		if !trial.X.IsValid() {
			return stats, solverErr(t, dynamo.ErrInvalidState, "state became non-finite")
		}

		norm := integrators.ErrorNorm(x, trial, o.Tolerance)
		if norm > 1 {
			stats.Rejected++
			h = tr.stepper.NextStep(h, norm)
			if h < o.MinStep {
				return stats, solverErr(t, dynamo.ErrStepTooSmall,
					fmt.Sprintf("required step size %.3g is below the minimum %.3g", h, o.MinStep))
			}
			continue
		}

		stats.Accepted++
		t1 := t + h
		if g.End-t1 < 1e-12*math.Max(1, math.Abs(g.End)) {
			t1 = g.End
		}

		for next < g.N && g.At(next) <= t1 {
			xs := integrators.Hermite(t, t1, x, trial.X, trial.DerivA, trial.DerivB, g.At(next))
			if !emit(Sample{T: g.At(next), Theta: xs[0], Omega: xs[1]}) {
				return stats, nil
			}
			next++
		}

		t, x, f = t1, trial.X, trial.DerivB
		h = math.Max(o.MinStep, math.Min(o.MaxStep, tr.stepper.NextStep(h, norm)))
	}

	return stats, nil
}

func solverErr(t float64, base error, msg string) *SolverError {
	return &SolverError{Message: msg, Time: t, Err: base}
}
