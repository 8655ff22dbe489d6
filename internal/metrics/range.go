package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/dynamo"
)

// Range watches one state component against [Lo, Hi]. Value is the fraction
// of samples inside the interval.
type Range struct {
	name       string
	index      int
	Lo, Hi     float64
	min, max   float64
	violations int
	samples    int
}

func NewRange(name string, index int, lo, hi float64) *Range {
	r := &Range{name: name, index: index, Lo: lo, Hi: hi}
	r.Reset()
	return r
}

func (r *Range) Name() string { return r.name }

func (r *Range) Observe(x dynamo.State, t float64) {
	if r.index >= len(x) {
		return
	}
	v := x[r.index]
	r.samples++
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
	if v < r.Lo || v > r.Hi {
		r.violations++
	}
}

func (r *Range) Value() float64 {
	if r.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(r.violations)/float64(r.samples)
}

func (r *Range) Min() float64    { return r.min }
func (r *Range) Max() float64    { return r.max }
func (r *Range) Violations() int { return r.violations }
func (r *Range) Samples() int    { return r.samples }

func (r *Range) Reset() {
	r.min = math.Inf(1)
	r.max = math.Inf(-1)
	r.violations = 0
	r.samples = 0
}
