package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/dynamo"
)

const degToRad = math.Pi / 180.0

// ArmParams is the constant set shared by the torque model and the
// continuous integrator. Treat values as immutable once an Arm is built.
type ArmParams struct {
	Mass     float64 `yaml:"mass"`     // kg
	Inertia  float64 `yaml:"inertia"`  // kg m^2
	Gravity  float64 `yaml:"gravity"`  // m/s^2
	Theta0   float64 `yaml:"theta0"`   // degrees
	Radius   float64 `yaml:"radius"`   // axis to centre of mass, m
	Friction float64 `yaml:"friction"` // friction torque scale
}

func DefaultArmParams() ArmParams {
	m := 0.25
	return ArmParams{
		Mass:     m,
		Inertia:  m * 6.5e-5,
		Gravity:  9.8,
		Theta0:   0,
		Radius:   0.15,
		Friction: 1e-3,
	}
}

func (p ArmParams) Validate() error {
	if p.Inertia <= 0 || math.IsNaN(p.Inertia) {
		return fmt.Errorf("inertia must be positive, got %g: %w", p.Inertia, dynamo.ErrParameterBounds)
	}
	if p.Mass < 0 || p.Radius < 0 || p.Friction < 0 {
		return fmt.Errorf("mass, radius and friction must be non-negative: %w", dynamo.ErrParameterBounds)
	}
	return nil
}

// ArmState is the single degree of freedom of the reduced arm.
// Theta is in degrees, Omega in degrees per second.
type ArmState struct {
	Theta float64
	Omega float64
}

// TorqueContributor is one additive term of the net torque.
type TorqueContributor interface {
	Name() string
	Contribute(s ArmState) float64
}

// GravityTorque is -r*m*cos(theta). Positive torque increases theta.
type GravityTorque struct {
	Radius float64
	Mass   float64
}

func (g GravityTorque) Name() string { return "gravity" }

func (g GravityTorque) Contribute(s ArmState) float64 {
	return -g.Radius * g.Mass * math.Cos(s.Theta*degToRad)
}

// FrictionTorque is -k*tanh(omega). tanh stands in for sign(omega) so the
// derivative stays continuous through omega = 0.
type FrictionTorque struct {
	K float64
}

func (f FrictionTorque) Name() string { return "friction" }

func (f FrictionTorque) Contribute(s ArmState) float64 {
	return -f.K * math.Tanh(s.Omega)
}

type TorqueModel struct {
	contributors []TorqueContributor
}

func NewTorqueModel(p ArmParams) *TorqueModel {
	return &TorqueModel{
		contributors: []TorqueContributor{
			GravityTorque{Radius: p.Radius, Mass: p.Mass},
			FrictionTorque{K: p.Friction},
		},
	}
}

// NewTorqueModelFrom builds a model from an explicit contributor set.
func NewTorqueModelFrom(contributors ...TorqueContributor) *TorqueModel {
	return &TorqueModel{contributors: contributors}
}

func (m *TorqueModel) Torque(theta, omega float64) float64 {
	s := ArmState{Theta: theta, Omega: omega}
	sum := 0.0
	for _, c := range m.contributors {
		sum += c.Contribute(s)
	}
	return sum
}

// Terms returns each contributor's share of the torque at s, keyed by name.
func (m *TorqueModel) Terms(s ArmState) map[string]float64 {
	terms := make(map[string]float64, len(m.contributors))
	for _, c := range m.contributors {
		terms[c.Name()] += c.Contribute(s)
	}
	return terms
}

// Arm is the single-link reduction of the rigid-body arm:
// dθ/dt = ω, dω/dt = τ(θ, ω) / I.
type Arm struct {
	params ArmParams
	torque *TorqueModel
}

func NewArm(p ArmParams) (*Arm, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Arm{params: p, torque: NewTorqueModel(p)}, nil
}

func (a *Arm) Params() ArmParams { return a.params }

func (a *Arm) Torque() *TorqueModel { return a.torque }

func (a *Arm) StateDim() int {
	return 2
}

func (a *Arm) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]
	alpha := a.torque.Torque(theta, omega) / a.params.Inertia
	return dynamo.State{omega, alpha}
}

// Energy is conserved when friction is zero. The potential integrates the
// gravity term with theta in degrees, matching the units of Derive.
func (a *Arm) Energy(x dynamo.State) float64 {
	ke := 0.5 * a.params.Inertia * x[1] * x[1]
	pe := a.params.Radius * a.params.Mass * math.Sin(x[0]*degToRad) / degToRad
	return ke + pe
}

// SmallAnglePeriod is the linearised oscillation period about the -90°
// equilibrium, in seconds.
func (a *Arm) SmallAnglePeriod() float64 {
	k := a.params.Radius * a.params.Mass * degToRad
	if k <= 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi * math.Sqrt(a.params.Inertia/k)
}

func (a *Arm) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":     a.params.Mass,
		"inertia":  a.params.Inertia,
		"gravity":  a.params.Gravity,
		"theta0":   a.params.Theta0,
		"radius":   a.params.Radius,
		"friction": a.params.Friction,
	}
}
