package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/interact"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/scene"
	"github.com/san-kum/armsim/internal/storage"
)

// Report summarises one scenario replay. Series has one row per tick with
// columns aft, fore and live.
type Report struct {
	Name     string
	Ticks    int
	Aft      *metrics.Range
	Fore     *metrics.Range
	Launched int
	Culled   int
	PeakLive int
	Kicks    int
	Series   *storage.Series
}

// WithinLimits reports whether both joint angles stayed inside their limits
// widened by tol.
func (r *Report) WithinLimits(tol float64) bool {
	for _, rg := range []*metrics.Range{r.Aft, r.Fore} {
		if rg.Samples() == 0 {
			continue
		}
		if rg.Min() < rg.Lo-tol || rg.Max() > rg.Hi+tol {
			return false
		}
	}
	return true
}

func (r *Report) Metrics() map[string]float64 {
	return map[string]float64{
		"aft_min":       r.Aft.Min(),
		"aft_max":       r.Aft.Max(),
		"aft_in_limit":  r.Aft.Value(),
		"fore_min":      r.Fore.Min(),
		"fore_max":      r.Fore.Max(),
		"fore_in_limit": r.Fore.Value(),
		"launched":      float64(r.Launched),
		"culled":        float64(r.Culled),
		"peak_live":     float64(r.PeakLive),
	}
}

// Run replays sc against s. Events for tick i are applied before tick i
// runs, never while the world is stepping. On cancellation the report
// covers the ticks completed so far.
func Run(ctx context.Context, s *scene.Scene, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	layout := s.Arm().Layout()
	rep := &Report{
		Name:   sc.Name,
		Aft:    metrics.NewRange("aft", 0, layout.ShoulderLimit.Min, layout.ShoulderLimit.Max),
		Fore:   metrics.NewRange("fore", 0, layout.ElbowLimit.Min, layout.ElbowLimit.Max),
		Series: &storage.Series{Columns: []string{"aft", "fore", "live"}},
	}
	launched0 := s.Launched()
	culled0 := s.Culled()

	var rng *rand.Rand
	if sc.Perturb != nil {
		rng = rand.New(rand.NewSource(sc.Perturb.Seed))
	}

	next := 0
	for tick := 0; tick < sc.Ticks; tick++ {
		select {
		case <-ctx.Done():
			rep.finish(s, launched0, culled0)
			return rep, ctx.Err()
		default:
		}

		for next < len(sc.Events) && sc.Events[next].Tick == tick {
			if err := apply(s, sc.Events[next]); err != nil {
				rep.finish(s, launched0, culled0)
				return rep, fmt.Errorf("tick %d: %w", tick, err)
			}
			next++
		}
		if rng != nil && tick%sc.Perturb.Every == 0 {
			s.Arm().Perturb(rng, sc.Perturb.Magnitude)
			rep.Kicks++
		}

		frame := s.Tick()
		aft, fore := s.Arm().AftAngle(), s.Arm().ForeRelativeAngle()
		rep.Aft.Observe(dynamo.State{aft}, frame.Time)
		rep.Fore.Observe(dynamo.State{fore}, frame.Time)
		rep.Series.Append(frame.Time, aft, fore, float64(len(frame.Sprites)))
		rep.PeakLive = max(rep.PeakLive, len(frame.Sprites))
		rep.Ticks++
	}

	rep.finish(s, launched0, culled0)
	slog.Debug("scenario finished",
		"name", sc.Name,
		"ticks", rep.Ticks,
		"launched", rep.Launched,
		"culled", rep.Culled,
		"aft_min", rep.Aft.Min(),
		"aft_max", rep.Aft.Max())
	return rep, nil
}

func (r *Report) finish(s *scene.Scene, launched0, culled0 int) {
	r.Launched = s.Launched() - launched0
	r.Culled = s.Culled() - culled0
}

func apply(s *scene.Scene, ev Event) error {
	p := cp.Vector{X: ev.X, Y: ev.Y}
	switch ev.Kind {
	case Press:
		btn, err := interact.ParseButton(ev.Button)
		if err != nil {
			return err
		}
		return s.Press(btn, p)
	case Move:
		s.Move(p, cp.Vector{X: ev.DX, Y: ev.DY})
	case Release:
		btn, err := interact.ParseButton(ev.Button)
		if err != nil {
			return err
		}
		s.Release(btn)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}
