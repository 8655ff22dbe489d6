package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	ErrBodyNotInWorld = errors.New("body not in world")
	ErrBodyJointed    = errors.New("body still referenced by a joint")
	ErrDuplicate      = errors.New("already in world")
)

// Pick categories follow the usual Chipmunk convention: one reserved bit marks
// shapes that the pointer may grab.
const GrabbableMaskBit uint = 1 << 31

var (
	GrabFilter         = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: GrabbableMaskBit, Mask: GrabbableMaskBit}
	NotGrabbableFilter = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: ^GrabbableMaskBit, Mask: ^GrabbableMaskBit}
)

type Config struct {
	Gravity    cp.Vector
	Iterations uint
	Dt         float64
}

func (c Config) Validate() error {
	if c.Dt <= 0 || math.IsInf(c.Dt, 0) || math.IsNaN(c.Dt) {
		return fmt.Errorf("world dt must be positive and finite, got %g", c.Dt)
	}
	if c.Iterations == 0 {
		return errors.New("world iterations must be positive")
	}
	if math.IsNaN(c.Gravity.X) || math.IsNaN(c.Gravity.Y) ||
		math.IsInf(c.Gravity.X, 0) || math.IsInf(c.Gravity.Y, 0) {
		return fmt.Errorf("world gravity must be finite, got %v", c.Gravity)
	}
	return nil
}

// World owns a cp.Space and keeps its own record of membership so that
// removal can be validated before the engine is touched.
type World struct {
	space *cp.Space
	dt    float64
	steps int

	shapes map[*cp.Body][]*cp.Shape
	owner  map[*cp.Shape]*cp.Body
	joints map[*cp.Constraint]binding
	refs   map[*cp.Body]int
}

func New(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	space := cp.NewSpace()
	space.Iterations = cfg.Iterations
	space.SetGravity(cfg.Gravity)

	w := &World{
		space:  space,
		dt:     cfg.Dt,
		shapes: make(map[*cp.Body][]*cp.Shape),
		owner:  make(map[*cp.Shape]*cp.Body),
		joints: make(map[*cp.Constraint]binding),
		refs:   make(map[*cp.Body]int),
	}
	w.shapes[space.StaticBody] = nil
	return w, nil
}

func (w *World) Space() *cp.Space     { return w.space }
func (w *World) StaticBody() *cp.Body { return w.space.StaticBody }
func (w *World) Dt() float64          { return w.dt }
func (w *World) Steps() int           { return w.steps }
func (w *World) Time() float64        { return float64(w.steps) * w.dt }
func (w *World) Gravity() cp.Vector   { return w.space.Gravity() }
func (w *World) Iterations() uint     { return w.space.Iterations }

func (w *World) Contains(b *cp.Body) bool {
	_, ok := w.shapes[b]
	return ok
}

// Bodies counts the bodies added by callers; the space's own static body is
// not included.
func (w *World) Bodies() int { return len(w.shapes) - 1 }

func (w *World) Joints() int { return len(w.joints) }

func (w *World) ContainsShape(s *cp.Shape) bool {
	_, ok := w.owner[s]
	return ok
}

func (w *World) ShapesOf(b *cp.Body) []*cp.Shape {
	out := make([]*cp.Shape, len(w.shapes[b]))
	copy(out, w.shapes[b])
	return out
}

func (w *World) AddBody(b *cp.Body) (*cp.Body, error) {
	if b == nil {
		return nil, errors.New("nil body")
	}
	if w.Contains(b) {
		return nil, fmt.Errorf("add body: %w", ErrDuplicate)
	}
	w.space.AddBody(b)
	w.shapes[b] = nil
	return b, nil
}

func (w *World) AddShape(s *cp.Shape) (*cp.Shape, error) {
	if s == nil {
		return nil, errors.New("nil shape")
	}
	if w.ContainsShape(s) {
		return nil, fmt.Errorf("add shape: %w", ErrDuplicate)
	}
	b := s.Body()
	if !w.Contains(b) {
		return nil, fmt.Errorf("add shape: %w", ErrBodyNotInWorld)
	}
	w.space.AddShape(s)
	w.shapes[b] = append(w.shapes[b], s)
	w.owner[s] = b
	return s, nil
}

// binding is the body pair a joint was created with. cp keeps it
// unexported, so the world records it on insertion.
type binding struct{ a, b *cp.Body }

// AddJoint adds c, which must have been created on bodies a and b. Both
// bodies have to be in the world already.
func (w *World) AddJoint(c *cp.Constraint, a, b *cp.Body) (*cp.Constraint, error) {
	if c == nil {
		return nil, errors.New("nil joint")
	}
	if _, ok := w.joints[c]; ok {
		return nil, fmt.Errorf("add joint: %w", ErrDuplicate)
	}
	if !w.Contains(a) || !w.Contains(b) {
		return nil, fmt.Errorf("add joint: %w", ErrBodyNotInWorld)
	}
	w.space.AddConstraint(c)
	w.joints[c] = binding{a, b}
	w.refs[a]++
	w.refs[b]++
	return c, nil
}

// JointBodies returns the bodies c was added with.
func (w *World) JointBodies(c *cp.Constraint) (a, b *cp.Body, ok bool) {
	j, ok := w.joints[c]
	return j.a, j.b, ok
}

// RemoveBody removes b together with its shapes. A body still bound by a
// joint is left untouched and ErrBodyJointed is returned; remove the joints
// first.
func (w *World) RemoveBody(b *cp.Body) error {
	if b == w.space.StaticBody {
		return errors.New("remove body: static body belongs to the space")
	}
	if !w.Contains(b) {
		return fmt.Errorf("remove body: %w", ErrBodyNotInWorld)
	}
	if w.refs[b] > 0 {
		return fmt.Errorf("remove body: %d joints: %w", w.refs[b], ErrBodyJointed)
	}

	for _, s := range w.shapes[b] {
		w.space.RemoveShape(s)
		delete(w.owner, s)
	}
	w.space.RemoveBody(b)
	delete(w.shapes, b)
	delete(w.refs, b)
	return nil
}

func (w *World) RemoveShape(s *cp.Shape) error {
	b, ok := w.owner[s]
	if !ok {
		return fmt.Errorf("remove shape: %w", ErrBodyNotInWorld)
	}
	w.space.RemoveShape(s)
	delete(w.owner, s)

	list := w.shapes[b]
	for i, x := range list {
		if x == s {
			w.shapes[b] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func (w *World) RemoveJoint(c *cp.Constraint) error {
	j, ok := w.joints[c]
	if !ok {
		return errors.New("remove joint: not in world")
	}
	w.space.RemoveConstraint(c)
	delete(w.joints, c)
	for _, b := range []*cp.Body{j.a, j.b} {
		if w.refs[b]--; w.refs[b] <= 0 {
			delete(w.refs, b)
		}
	}
	return nil
}

// Step advances the space by the configured dt. The step is fixed; callers
// never pass the frame delta.
func (w *World) Step() {
	w.space.Step(w.dt)
	w.steps++
}

type Hit struct {
	Shape    *cp.Shape
	Point    cp.Vector
	Distance float64
}

// PointQuery returns the shapes within maxDistance of p that pass filter.
// Candidates come from the spatial index's box query and are then measured
// exactly. Shapes on static bodies are never returned. Hit order is whatever
// the index produces and is not stable across runs.
func (w *World) PointQuery(p cp.Vector, maxDistance float64, filter cp.ShapeFilter) []Hit {
	var hits []Hit
	bb := cp.NewBBForCircle(p, math.Max(maxDistance, 0))
	w.space.BBQuery(bb, filter, func(s *cp.Shape, _ interface{}) {
		if s.Body().GetType() == cp.BODY_STATIC {
			return
		}
		info := s.PointQuery(p)
		if info.Distance > maxDistance {
			return
		}
		hits = append(hits, Hit{Shape: s, Point: info.Point, Distance: info.Distance})
	}, nil)
	return hits
}
