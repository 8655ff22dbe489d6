package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/dynamo"
)

// Energy is the mean total energy over the observed samples.
type Energy struct {
	sys dynamo.Hamiltonian
	sum float64
	n   int
}

func NewEnergy(sys dynamo.Hamiltonian) *Energy {
	return &Energy{sys: sys}
}

func (*Energy) Name() string { return "energy" }

func (m *Energy) Observe(x dynamo.State, _ float64) {
	m.sum += m.sys.Energy(x)
	m.n++
}

func (m *Energy) Value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func (m *Energy) Reset() { m.sum, m.n = 0, 0 }

// EnergyDrift is the largest |E - E0| seen, relative to Scale when set and to
// |E0| otherwise. E0 is the first observed sample.
type EnergyDrift struct {
	sys   dynamo.Hamiltonian
	Scale float64

	e0    float64
	worst float64
	seen  bool
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{sys: sys}
}

func (*EnergyDrift) Name() string { return "energy_drift" }

func (m *EnergyDrift) Observe(x dynamo.State, _ float64) {
	e := m.sys.Energy(x)
	if !m.seen {
		m.e0, m.seen = e, true
	}
	ref := m.Scale
	if ref == 0 {
		ref = math.Abs(m.e0)
	}
	if ref != 0 {
		m.worst = math.Max(m.worst, math.Abs(e-m.e0)/ref)
	}
}

func (m *EnergyDrift) Value() float64 { return m.worst }

// Reset forgets E0 and the worst drift but keeps Scale.
func (m *EnergyDrift) Reset() { m.e0, m.worst, m.seen = 0, 0, false }
