package arm

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/world"
)

// Segment is one rigid link: a body and its box shape.
type Segment struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Length float64
	Width  float64
}

type Floor struct {
	Body  *cp.Body
	Shape *cp.Shape
	A, B  cp.Vector
}

// Joints holds the constraint handles of the assembly.
type Joints struct {
	Shoulder      *cp.Constraint
	Elbow         *cp.Constraint
	Spring        *cp.Constraint
	ShoulderLimit *cp.Constraint
	ElbowLimit    *cp.Constraint
}

func (j Joints) All() []*cp.Constraint {
	return []*cp.Constraint{j.Shoulder, j.Elbow, j.Spring, j.ShoulderLimit, j.ElbowLimit}
}

type Arm struct {
	Floor  Floor
	Anchor Segment
	Aft    Segment
	Fore   Segment
	Joints Joints
	layout Layout
}

// Build adds the floor, the anchor and both segments to w and joins them.
// Any failure is a setup error; nothing is rolled back.
func Build(w *world.World, l Layout) (*Arm, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("arm layout: %w", err)
	}

	a := &Arm{layout: l}
	var err error

	if a.Floor, err = addFloor(w, l); err != nil {
		return nil, fmt.Errorf("arm floor: %w", err)
	}
	if a.Anchor, err = addAnchor(w, l); err != nil {
		return nil, fmt.Errorf("arm anchor: %w", err)
	}
	if a.Aft, err = addSegment(w, l, l.AftCenter); err != nil {
		return nil, fmt.Errorf("arm aft segment: %w", err)
	}
	if a.Fore, err = addSegment(w, l, l.ForeCenter); err != nil {
		return nil, fmt.Errorf("arm fore segment: %w", err)
	}

	anchor, aft, fore := a.Anchor.Body, a.Aft.Body, a.Fore.Body

	a.Joints = Joints{
		Shoulder:      cp.NewPivotJoint(anchor, aft, l.ShoulderPivot()),
		Elbow:         cp.NewPivotJoint(aft, fore, l.ElbowPivot()),
		Spring:        cp.NewDampedRotarySpring(aft, fore, l.Spring.RestAngle, l.Spring.Stiffness, l.Spring.Damping),
		ShoulderLimit: cp.NewRotaryLimitJoint(anchor, aft, l.ShoulderLimit.Min, l.ShoulderLimit.Max),
		ElbowLimit:    cp.NewRotaryLimitJoint(aft, fore, l.ElbowLimit.Min, l.ElbowLimit.Max),
	}
	pairs := [][2]*cp.Body{{anchor, aft}, {aft, fore}, {aft, fore}, {anchor, aft}, {aft, fore}}
	for i, j := range a.Joints.All() {
		j.SetCollideBodies(false)
		if _, err := w.AddJoint(j, pairs[i][0], pairs[i][1]); err != nil {
			return nil, fmt.Errorf("arm joint: %w", err)
		}
	}
	// The spring applies no torque to sleeping bodies.
	a.Joints.Spring.ActivateBodies()

	return a, nil
}

func addFloor(w *world.World, l Layout) (Floor, error) {
	body, err := w.AddBody(cp.NewStaticBody())
	if err != nil {
		return Floor{}, err
	}
	f := Floor{
		Body: body,
		A:    cp.Vector{X: 0, Y: l.FloorHeight},
		B:    cp.Vector{X: l.Width, Y: l.FloorHeight},
	}
	shape := cp.NewSegment(body, f.A, f.B, 0)
	shape.SetFriction(l.FloorFriction)
	shape.SetFilter(world.NotGrabbableFilter)
	if f.Shape, err = w.AddShape(shape); err != nil {
		return Floor{}, err
	}
	return f, nil
}

func addAnchor(w *world.World, l Layout) (Segment, error) {
	body := cp.NewStaticBody()
	body.SetPosition(l.Anchor)
	if _, err := w.AddBody(body); err != nil {
		return Segment{}, err
	}
	shape := cp.NewBox(body, l.AnchorSize, l.AnchorSize, 0)
	shape.SetFilter(world.NotGrabbableFilter)
	if _, err := w.AddShape(shape); err != nil {
		return Segment{}, err
	}
	return Segment{Body: body, Shape: shape, Length: l.AnchorSize, Width: l.AnchorSize}, nil
}

func addSegment(w *world.World, l Layout, center cp.Vector) (Segment, error) {
	body := cp.NewBody(l.SegmentMass, cp.MomentForBox(l.SegmentMass, l.SegmentLength, l.SegmentWidth))
	body.SetPosition(center)
	if _, err := w.AddBody(body); err != nil {
		return Segment{}, err
	}
	shape := cp.NewBox(body, l.SegmentLength, l.SegmentWidth, 0)
	shape.SetElasticity(l.Elasticity)
	shape.SetFriction(l.Friction)
	if _, err := w.AddShape(shape); err != nil {
		return Segment{}, err
	}
	return Segment{Body: body, Shape: shape, Length: l.SegmentLength, Width: l.SegmentWidth}, nil
}

func (a *Arm) Layout() Layout { return a.layout }

// AftAngle is the aft segment's angle relative to the anchor, the quantity
// bounded by the shoulder limit.
func (a *Arm) AftAngle() float64 {
	return a.Aft.Body.Angle() - a.Anchor.Body.Angle()
}

// ForeRelativeAngle is the fore segment's angle relative to the aft segment.
func (a *Arm) ForeRelativeAngle() float64 {
	return a.Fore.Body.Angle() - a.Aft.Body.Angle()
}

// Tip is the world position of the fore segment's distal end.
func (a *Arm) Tip() cp.Vector {
	return a.Fore.Body.LocalToWorld(cp.Vector{X: a.Fore.Length / 2})
}

// Perturb applies a random impulse, each component uniform in
// [-magnitude, magnitude], at the fore tip and returns it.
func (a *Arm) Perturb(rng *rand.Rand, magnitude float64) cp.Vector {
	impulse := cp.Vector{
		X: (rng.Float64()*2 - 1) * magnitude,
		Y: (rng.Float64()*2 - 1) * magnitude,
	}
	a.Fore.Body.Activate()
	a.Fore.Body.ApplyImpulseAtWorldPoint(impulse, a.Tip())
	return impulse
}

func (a *Arm) Bodies() []*cp.Body {
	return []*cp.Body{a.Anchor.Body, a.Aft.Body, a.Fore.Body}
}
