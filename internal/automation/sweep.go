package automation

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/continuous"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/physics"
)

// Sweep runs the validator across evenly spaced values of one torque
// parameter. Workers bounds how many trajectories are solved at once; zero
// means one.
type Sweep struct {
	Param   string
	Min     float64
	Max     float64
	Steps   int
	Workers int
}

type SweepResult struct {
	Value       float64
	Success     bool
	Message     string
	FinalTheta  float64
	Period      float64
	EnergyDrift float64
}

var sweepParams = map[string]func(p *physics.ArmParams, v float64){
	"mass":     func(p *physics.ArmParams, v float64) { p.Mass = v },
	"inertia":  func(p *physics.ArmParams, v float64) { p.Inertia = v },
	"radius":   func(p *physics.ArmParams, v float64) { p.Radius = v },
	"friction": func(p *physics.ArmParams, v float64) { p.Friction = v },
}

func (sw Sweep) Validate() error {
	if _, ok := sweepParams[sw.Param]; !ok {
		return fmt.Errorf("unknown sweep parameter %q", sw.Param)
	}
	if sw.Steps < 1 {
		return fmt.Errorf("sweep needs at least one step, got %d", sw.Steps)
	}
	if sw.Steps > 1 && !(sw.Max > sw.Min) {
		return fmt.Errorf("sweep max %g must exceed min %g", sw.Max, sw.Min)
	}
	if sw.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", sw.Workers)
	}
	return nil
}

func (sw Sweep) value(i int) float64 {
	if sw.Steps == 1 {
		return sw.Min
	}
	return sw.Min + (sw.Max-sw.Min)*float64(i)/float64(sw.Steps-1)
}

// RunSweep solves one trajectory per sweep value. Solver failures are
// recorded per value; a parameter the torque model rejects, or cancellation,
// stops the sweep and returns the results before the first such value.
func RunSweep(ctx context.Context, base config.ValidatorConfig, sw Sweep) ([]SweepResult, error) {
	if err := sw.Validate(); err != nil {
		return nil, err
	}

	results := make([]SweepResult, sw.Steps)
	errs := make([]error, sw.Steps)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < max(1, sw.Workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = solveOne(ctx, base, sw.Param, sw.value(i))
			}
		}()
	}
	for i := 0; i < sw.Steps; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results[:i], err
		}
	}
	return results, nil
}

func solveOne(ctx context.Context, base config.ValidatorConfig, param string, val float64) (SweepResult, error) {
	v := base
	sweepParams[param](&v.Params, val)

	a, err := physics.NewArm(v.Params)
	if err != nil {
		return SweepResult{}, fmt.Errorf("%s=%g: %w", param, val, err)
	}
	tr, err := continuous.NewTrajectory(a, v.InitialState(), v.Grid(), v.Options())
	if err != nil {
		return SweepResult{}, err
	}
	res, err := continuous.Solve(ctx, tr)
	if err != nil {
		return SweepResult{}, err
	}

	r := SweepResult{Value: val, Success: res.Success, Message: res.Message}
	drift := metrics.NewEnergyDrift(a)
	for _, smp := range res.Samples {
		drift.Observe(dynamo.State{smp.Theta, smp.Omega}, smp.T)
	}
	r.EnergyDrift = drift.Value()
	if n := len(res.Samples); n > 0 {
		r.FinalTheta = res.Samples[n-1].Theta
	}
	if res.Success && v.Samples > 1 {
		dt := v.Duration / float64(v.Samples-1)
		if period, err := analysis.DominantPeriod(res.Thetas(), dt); err == nil {
			r.Period = period
		}
	}
	return r, nil
}
