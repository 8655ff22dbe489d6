package analysis

import (
	"strings"
)

type Point struct {
	X, Y float64
}

// PhasePortrait is a trajectory projected onto two state components.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

func NewPhasePortrait(xLabel, yLabel string, xs, ys []float64) *PhasePortrait {
	n := min(len(xs), len(ys))
	p := &PhasePortrait{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return p
}

// ASCII renders the portrait onto a width by height character grid with
// axes drawn where they cross the visible area.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	box := Bounds(p.Points, 0.1)
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	toCell := func(pt Point) (col, row int) {
		u, v := box.Unit(pt)
		return int(u * float64(width-1)), height - 1 - int(v*float64(height-1))
	}

	for _, pt := range p.Points {
		col, row := toCell(pt)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	// Axes go under the trace.
	ox, oy := toCell(Point{})
	if box.MinX <= 0 && box.MaxX >= 0 {
		for row := range grid {
			if grid[row][ox] == ' ' {
				grid[row][ox] = '│'
			}
		}
	}
	if box.MinY <= 0 && box.MaxY >= 0 {
		for col := range grid[oy] {
			if grid[oy][col] == ' ' {
				grid[oy][col] = '─'
			}
		}
	}

	var sb strings.Builder
	if p.XLabel != "" || p.YLabel != "" {
		sb.WriteString(p.YLabel + " vs " + p.XLabel + "\n")
	}
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}
