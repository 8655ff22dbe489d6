package interact

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/world"
)

type Button int

const (
	Primary Button = iota
	Secondary
)

func (b Button) String() string {
	switch b {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

func ParseButton(s string) (Button, error) {
	switch s {
	case "primary", "left", "":
		return Primary, nil
	case "secondary", "right":
		return Secondary, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// DragState is the shape held by the pointer and where the pointer was last
// seen. A nil *DragState means nothing is held.
type DragState struct {
	Shape   *cp.Shape
	Pointer cp.Vector
}

func (d *DragState) Body() *cp.Body {
	if d == nil || d.Shape == nil {
		return nil
	}
	return d.Shape.Body()
}

// Hold pins the dragged body to the last pointer position with zero velocity.
func (d *DragState) Hold() {
	b := d.Body()
	if b == nil {
		return
	}
	b.SetPosition(d.Pointer)
	b.SetVelocity(0, 0)
}

type Projectile struct {
	Mass     float64   `yaml:"mass"`
	Radius   float64   `yaml:"radius"`
	Friction float64   `yaml:"friction"`
	Velocity cp.Vector `yaml:"velocity"`
}

type Config struct {
	DragGain   float64    `yaml:"drag_gain"`
	PickRadius float64    `yaml:"pick_radius"`
	Projectile Projectile `yaml:"projectile"`
}

func DefaultConfig() Config {
	return Config{
		DragGain:   20,
		PickRadius: 1,
		Projectile: Projectile{
			Mass:     60,
			Radius:   10,
			Friction: 0.3,
			Velocity: cp.Vector{X: 2000, Y: 0},
		},
	}
}

func (c Config) Validate() error {
	if c.DragGain < 0 {
		return fmt.Errorf("%w: drag gain %g", dynamo.ErrParameterBounds, c.DragGain)
	}
	if c.PickRadius < 0 {
		return fmt.Errorf("%w: pick radius %g", dynamo.ErrParameterBounds, c.PickRadius)
	}
	if c.Projectile.Mass <= 0 || c.Projectile.Radius <= 0 {
		return fmt.Errorf("%w: projectile mass %g radius %g", dynamo.ErrParameterBounds,
			c.Projectile.Mass, c.Projectile.Radius)
	}
	return nil
}

// Controller turns pointer events into drag transitions and projectile
// launches. It keeps no drag state of its own; each transition takes the
// current *DragState and returns the next one.
type Controller struct {
	world *world.World
	cfg   Config
}

func New(w *world.World, cfg Config) (*Controller, error) {
	if w == nil {
		return nil, errors.New("nil world")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{world: w, cfg: cfg}, nil
}

func (c *Controller) Config() Config { return c.cfg }

// Press with the primary button picks the nearest grabbable shape within the
// pick radius. A miss leaves drag unchanged. Other buttons never change the
// drag state.
func (c *Controller) Press(drag *DragState, btn Button, p cp.Vector) *DragState {
	if btn != Primary {
		return drag
	}
	hit := c.pick(p)
	if hit == nil {
		return drag
	}
	return &DragState{Shape: hit, Pointer: p}
}

// Move drives the dragged body kinematically: position to the pointer,
// velocity to the pointer delta times the drag gain.
func (c *Controller) Move(drag *DragState, p, delta cp.Vector) *DragState {
	if drag == nil {
		return nil
	}
	b := drag.Body()
	b.SetPosition(p)
	b.SetVelocity(delta.X*c.cfg.DragGain, delta.Y*c.cfg.DragGain)
	b.Activate()
	return &DragState{Shape: drag.Shape, Pointer: p}
}

// Release ends the drag for the primary button and ignores the others, so a
// caller must release with Primary for a press-drag-release cycle to end
// with no drag.
func (c *Controller) Release(drag *DragState, btn Button) *DragState {
	if btn == Primary {
		return nil
	}
	return drag
}

// Launch adds a projectile at p with the configured mass, radius, friction
// and velocity.
func (c *Controller) Launch(p cp.Vector) (*cp.Body, *cp.Shape, error) {
	pc := c.cfg.Projectile
	body := cp.NewBody(pc.Mass, cp.MomentForCircle(pc.Mass, 0, pc.Radius, cp.Vector{}))
	body.SetPosition(p)
	body.SetVelocityVector(pc.Velocity)
	if _, err := c.world.AddBody(body); err != nil {
		return nil, nil, fmt.Errorf("launch: %w", err)
	}

	shape := cp.NewCircle(body, pc.Radius, cp.Vector{})
	shape.SetFriction(pc.Friction)
	if _, err := c.world.AddShape(shape); err != nil {
		return nil, nil, fmt.Errorf("launch: %w", err)
	}
	return body, shape, nil
}

func (c *Controller) pick(p cp.Vector) *cp.Shape {
	hits := c.world.PointQuery(p, c.cfg.PickRadius, world.GrabFilter)
	if len(hits) == 0 {
		return nil
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.Distance < best.Distance {
			best = h
		}
	}
	return best.Shape
}
