package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/lifecycle"
)

const (
	Background = "#0a0a0a"
	Stroke     = "#00ff88"
)

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, Background)
}

// FrameSVG draws a frame in world coordinates on a width by height page.
// World y points up, so the scene group is flipped.
func FrameSVG(f *lifecycle.Frame, width, height float64) string {
	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<g transform="translate(0 %.1f) scale(1 -1)" fill="none" stroke="%s" stroke-width="2">
`, height, Stroke)

	if f != nil {
		for _, l := range f.Lines {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, l.A.X, l.A.Y, l.B.X, l.B.Y)
		}
		for _, p := range f.Sprites {
			switch v := p.Visual.(type) {
			case lifecycle.Box:
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" transform="translate(%.1f %.1f) rotate(%.2f)" class="%s"/>
`, -v.Width/2, -v.Height/2, v.Width, v.Height, p.X, p.Y, p.AngleDeg, p.Asset)
			case lifecycle.Circle:
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" class="%s"/>
`, p.X, p.Y, v.Radius, p.Asset)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectoryToSVG draws points as a polyline scaled to fit the page with a
// ten percent margin.
func TrajectoryToSVG(points []analysis.Point, width, height int) string {
	if len(points) < 2 {
		return ""
	}

	box := analysis.Bounds(points, 0.1)
	w, h := float64(width), float64(height)

	var sb strings.Builder
	header(&sb, w, h)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, Stroke)

	for i, p := range points {
		u, v := box.Unit(p)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", u*w, h-v*h)
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
