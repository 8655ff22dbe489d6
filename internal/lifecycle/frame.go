package lifecycle

import (
	"time"

	"github.com/jakecoffman/cp"
)

// Visual sizes the on-screen representation of a body. It is either a
// Circle or a Box; the body and its shapes stay authoritative.
type Visual interface {
	Size() (w, h float64)
	isVisual()
}

type Circle struct {
	Radius float64
}

func (c Circle) Size() (float64, float64) { return 2 * c.Radius, 2 * c.Radius }
func (Circle) isVisual()                  {}

type Box struct {
	Width  float64
	Height float64
}

func (b Box) Size() (float64, float64) { return b.Width, b.Height }
func (Box) isVisual()                  {}

// Pose is one body's place on screen for a single frame.
type Pose struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AngleDeg float64 `json:"angle_deg"`
	Asset    string  `json:"asset"`
	Visual   Visual  `json:"-"`
}

type Line struct {
	A cp.Vector
	B cp.Vector
}

type Diagnostics struct {
	ProcessingTime time.Duration
	DrawTime       time.Duration
}

type Frame struct {
	Tick        int
	Time        float64
	Sprites     []Pose
	Lines       []Line
	Diagnostics Diagnostics
}
