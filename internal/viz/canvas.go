package viz

import (
	"math"
	"math/bits"
	"strings"
)

// brailleBase is U+2800, the empty braille cell. The low eight bits of a
// cell's code point select its dots; dotBit maps a dot's (row, col) inside
// the 2x4 cell to its bit.
const brailleBase = 0x2800

var dotBit = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width by Height grid of braille cells, giving a
// (2*Width) by (4*Height) dot raster with (0, 0) at the top left.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// Dots returns the raster size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) locate(x, y int) (idx int, bit uint8, ok bool) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return 0, 0, false
	}
	return (y/4)*c.Width + x/2, dotBit[y%4][x%2], true
}

// Set turns on the dot at (x, y). Dots outside the raster are dropped.
func (c *Canvas) Set(x, y int) {
	if i, b, ok := c.locate(x, y); ok {
		c.cells[i] |= b
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, b, ok := c.locate(x, y)
	return ok && c.cells[i]&b != 0
}

// Cell returns the braille rune drawn at cell (col, row).
func (c *Canvas) Cell(col, row int) rune {
	return brailleBase + rune(c.cells[row*c.Width+col])
}

// Count is the number of dots set.
func (c *Canvas) Count() int {
	n := 0
	for _, m := range c.cells {
		n += bits.OnesCount8(m)
	}
	return n
}

func (c *Canvas) Clear() { clear(c.cells) }

// DrawLine plots the dots from (x0, y0) to (x1, y1) inclusive, one per
// step along the major axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(abs(dx), abs(dy))
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		c.Set(x0+int(math.Round(f*float64(dx))), y0+int(math.Round(f*float64(dy))))
	}
}

// DrawPolygon outlines a closed polygon through pts.
func (c *Canvas) DrawPolygon(pts [][2]int) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		c.DrawLine(a[0], a[1], b[0], b[1])
	}
}

// DrawEllipse outlines an axis-aligned ellipse centred on (cx, cy).
func (c *Canvas) DrawEllipse(cx, cy int, rx, ry float64) {
	if rx < 0.5 && ry < 0.5 {
		c.Set(cx, cy)
		return
	}
	n := max(8, int(2*math.Pi*math.Max(rx, ry)))
	pts := make([][2]int, n)
	for i := range pts {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = [2]int{cx + int(math.Round(rx*co)), cy + int(math.Round(ry*s))}
	}
	c.DrawPolygon(pts)
}

// String renders the rows joined by newlines, without a trailing one.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.Width*c.Height*3 + c.Height)
	for row := 0; row < c.Height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < c.Width; col++ {
			sb.WriteRune(c.Cell(col, row))
		}
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
