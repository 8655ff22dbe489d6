package export

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/lifecycle"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("malformed svg: %v\n%s", err, doc)
		}
	}
}

func TestFrameSVG(t *testing.T) {
	f := &lifecycle.Frame{
		Lines: []lifecycle.Line{{A: cp.Vector{X: 0, Y: 80}, B: cp.Vector{X: 1200, Y: 80}}},
		Sprites: []lifecycle.Pose{
			{X: 720, Y: 240, AngleDeg: 12.5, Asset: "crate", Visual: lifecycle.Box{Width: 256, Height: 32}},
			{X: 300, Y: 400, Asset: "coin", Visual: lifecycle.Circle{Radius: 10}},
		},
	}
	doc := FrameSVG(f, 1200, 800)
	wellFormed(t, doc)

	for _, want := range []string{
		`<line x1="0.0" y1="80.0" x2="1200.0" y2="80.0"/>`,
		`rotate(12.50)`,
		`<circle cx="300.0" cy="400.0" r="10.0" class="coin"/>`,
		`translate(0 800.0) scale(1 -1)`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q", want)
		}
	}

	wellFormed(t, FrameSVG(nil, 10, 10))
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]analysis.Point{{X: 1, Y: 1}}, 100, 100) != "" {
		t.Error("a single point should not produce a path")
	}

	doc := TrajectoryToSVG([]analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, 120, 60)
	wellFormed(t, doc)
	if strings.Count(doc, " L") != 2 {
		t.Errorf("expected two line segments in %s", doc)
	}
	// First point sits at the 10% margin: x = 0.1/1.2*120 = 10.
	if !strings.Contains(doc, `d="M10.0,`) {
		t.Errorf("unexpected path start in %s", doc)
	}
}
