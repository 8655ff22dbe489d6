package metrics

import "github.com/san-kum/armsim/internal/dynamo"

// Metric accumulates a scalar over a run. Observe is called once per sample.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}
