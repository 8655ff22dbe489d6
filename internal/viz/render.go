package viz

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/lifecycle"
)

// Viewport maps world coordinates (y up) onto a canvas raster (y down).
type Viewport struct {
	WorldWidth, WorldHeight float64
	Cols, Rows              int
}

func (v Viewport) scale() (sx, sy float64) {
	pw, ph := v.Cols*2, v.Rows*4
	return float64(pw-1) / v.WorldWidth, float64(ph-1) / v.WorldHeight
}

// ToDot returns the sub-pixel under world point p.
func (v Viewport) ToDot(p cp.Vector) (int, int) {
	sx, sy := v.scale()
	return int(math.Round(p.X * sx)), int(math.Round((v.WorldHeight - p.Y) * sy))
}

// ToWorld returns the world point at the centre of terminal cell (col, row).
func (v Viewport) ToWorld(col, row int) cp.Vector {
	sx, sy := v.scale()
	x := (float64(col*2) + 0.5) / sx
	y := v.WorldHeight - (float64(row*4)+1.5)/sy
	return cp.Vector{X: x, Y: y}
}

// Render draws the frame's static lines and every sprite outline.
func Render(c *Canvas, v Viewport, f *lifecycle.Frame) {
	c.Clear()
	if f == nil {
		return
	}
	for _, l := range f.Lines {
		x0, y0 := v.ToDot(l.A)
		x1, y1 := v.ToDot(l.B)
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, pose := range f.Sprites {
		drawPose(c, v, pose)
	}
}

func drawPose(c *Canvas, v Viewport, pose lifecycle.Pose) {
	centre := cp.Vector{X: pose.X, Y: pose.Y}
	sin, cos := math.Sincos(pose.AngleDeg * math.Pi / 180)
	rotate := func(p cp.Vector) cp.Vector {
		return cp.Vector{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}

	switch vis := pose.Visual.(type) {
	case lifecycle.Box:
		hw, hh := vis.Width/2, vis.Height/2
		local := []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
		pts := make([][2]int, len(local))
		for i, p := range local {
			x, y := v.ToDot(centre.Add(rotate(p)))
			pts[i] = [2]int{x, y}
		}
		c.DrawPolygon(pts)
	case lifecycle.Circle:
		sx, sy := v.scale()
		cx, cy := v.ToDot(centre)
		c.DrawEllipse(cx, cy, vis.Radius*sx, vis.Radius*sy)
		ex, ey := v.ToDot(centre.Add(rotate(cp.Vector{X: vis.Radius})))
		c.DrawLine(cx, cy, ex, ey)
	default:
		x, y := v.ToDot(centre)
		c.Set(x, y)
	}
}
