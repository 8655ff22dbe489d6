package analysis

// Rect is an axis-aligned box in data coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Bounds returns the box around points grown by margin times its size on
// every side. A degenerate axis is treated as having unit size.
func Bounds(points []Point, margin float64) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{points[0].X, points[0].Y, points[0].X, points[0].Y}
	for _, p := range points[1:] {
		r.MinX, r.MaxX = min(r.MinX, p.X), max(r.MaxX, p.X)
		r.MinY, r.MaxY = min(r.MinY, p.Y), max(r.MaxY, p.Y)
	}
	w, h := r.MaxX-r.MinX, r.MaxY-r.MinY
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return Rect{r.MinX - w*margin, r.MinY - h*margin, r.MaxX + w*margin, r.MaxY + h*margin}
}

// Unit maps p into [0, 1] x [0, 1] with (0, 0) at the box's minimum corner.
func (r Rect) Unit(p Point) (u, v float64) {
	return (p.X - r.MinX) / (r.MaxX - r.MinX), (p.Y - r.MinY) / (r.MaxY - r.MinY)
}
