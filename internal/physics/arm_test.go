package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/armsim/internal/dynamo"
)

func TestFrictionTorque_OpposesMotion(t *testing.T) {
	f := FrictionTorque{K: 1e-3}

	for _, omega := range []float64{-1e6, -400, -1, -1e-3, 1e-9, 1e-3, 0.5, 1, 400, 1e6} {
		tau := f.Contribute(ArmState{Omega: omega})
		if tau == 0 || math.Signbit(tau) == math.Signbit(omega) {
			t.Errorf("omega=%g: torque %g does not oppose motion", omega, tau)
		}
		if math.Abs(tau) > f.K {
			t.Errorf("omega=%g: |torque| %g exceeds friction constant %g", omega, math.Abs(tau), f.K)
		}
	}

	if tau := f.Contribute(ArmState{Omega: 0}); tau != 0 {
		t.Errorf("expected zero torque at rest, got %g", tau)
	}
}

func TestFrictionTorque_StrictBoundForModerateOmega(t *testing.T) {
	f := FrictionTorque{K: 2.0}
	for _, omega := range []float64{-5, -0.1, 0.1, 5} {
		if tau := f.Contribute(ArmState{Omega: omega}); math.Abs(tau) >= f.K {
			t.Errorf("omega=%g: |torque| %g not strictly below %g", omega, math.Abs(tau), f.K)
		}
	}
}

func TestGravityTorque_PeriodicAndExtremes(t *testing.T) {
	g := GravityTorque{Radius: 0.15, Mass: 0.25}
	peak := g.Radius * g.Mass

	for theta := -720.0; theta <= 720.0; theta += 7.5 {
		a := g.Contribute(ArmState{Theta: theta})
		b := g.Contribute(ArmState{Theta: theta + 360})
		if math.Abs(a-b) > 1e-12 {
			t.Fatalf("theta=%g: torque not 360° periodic (%g vs %g)", theta, a, b)
		}
		if math.Abs(a) > peak+1e-15 {
			t.Fatalf("theta=%g: |torque| %g exceeds peak %g", theta, math.Abs(a), peak)
		}
	}

	if got := g.Contribute(ArmState{Theta: 0}); math.Abs(got+peak) > 1e-15 {
		t.Errorf("theta=0: expected %g, got %g", -peak, got)
	}
	if got := g.Contribute(ArmState{Theta: 180}); math.Abs(got-peak) > 1e-15 {
		t.Errorf("theta=180: expected %g, got %g", peak, got)
	}
	if got := g.Contribute(ArmState{Theta: 90}); math.Abs(got) > 1e-15 {
		t.Errorf("theta=90: expected zero torque, got %g", got)
	}
}

func TestTorqueModel_SumsContributors(t *testing.T) {
	p := DefaultArmParams()
	m := NewTorqueModel(p)

	theta, omega := 30.0, 400.0
	want := -p.Radius*p.Mass*math.Cos(theta*math.Pi/180) - p.Friction*math.Tanh(omega)
	if got := m.Torque(theta, omega); math.Abs(got-want) > 1e-15 {
		t.Errorf("Torque = %g, want %g", got, want)
	}

	terms := m.Terms(ArmState{Theta: theta, Omega: omega})
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if math.Abs(terms["gravity"]+terms["friction"]-want) > 1e-15 {
		t.Errorf("terms do not sum to torque: %v", terms)
	}
}

func TestNewTorqueModelFrom_Empty(t *testing.T) {
	m := NewTorqueModelFrom()
	if got := m.Torque(12, 34); got != 0 {
		t.Errorf("expected zero torque with no contributors, got %g", got)
	}
}

func TestArm_Derive(t *testing.T) {
	a, err := NewArm(DefaultArmParams())
	if err != nil {
		t.Fatalf("NewArm: %v", err)
	}

	dx := a.Derive(dynamo.State{-90, 0}, 0)
	if math.Abs(dx[0]) > 1e-12 || math.Abs(dx[1]) > 1e-9 {
		t.Errorf("expected equilibrium at -90°, got %v", dx)
	}

	dx = a.Derive(dynamo.State{30, 400}, 0)
	if dx[0] != 400 {
		t.Errorf("dθ/dt = %g, want 400", dx[0])
	}
	want := a.Torque().Torque(30, 400) / a.Params().Inertia
	if math.Abs(dx[1]-want) > 1e-9 {
		t.Errorf("dω/dt = %g, want %g", dx[1], want)
	}
}

func TestArm_EnergyGradientMatchesDynamics(t *testing.T) {
	p := DefaultArmParams()
	p.Friction = 0
	a, _ := NewArm(p)

	x := dynamo.State{10, 50}
	dx := a.Derive(x, 0)
	h := 1e-6
	dEdTheta := (a.Energy(dynamo.State{x[0] + h, x[1]}) - a.Energy(dynamo.State{x[0] - h, x[1]})) / (2 * h)
	dEdOmega := (a.Energy(dynamo.State{x[0], x[1] + h}) - a.Energy(dynamo.State{x[0], x[1] - h})) / (2 * h)

	if dEdt := dEdTheta*dx[0] + dEdOmega*dx[1]; math.Abs(dEdt) > 1e-6 {
		t.Errorf("expected dE/dt = 0 without friction, got %g", dEdt)
	}
}

func TestNewArm_RejectsBadInertia(t *testing.T) {
	p := DefaultArmParams()
	p.Inertia = 0
	if _, err := NewArm(p); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestArm_SmallAnglePeriod(t *testing.T) {
	a, _ := NewArm(DefaultArmParams())
	if p := a.SmallAnglePeriod(); p < 0.9 || p > 1.1 {
		t.Errorf("expected period near 1s, got %g", p)
	}
}
