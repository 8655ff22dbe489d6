package arm

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/dynamo"
)

type Spring struct {
	RestAngle float64 `yaml:"rest_angle"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

// Limit bounds the relative angle (b - a) of two bodies, in radians.
type Limit struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Layout places the arm in world coordinates (y up). All lengths are in
// world units, angles in radians.
type Layout struct {
	Width         float64 `yaml:"width"`
	FloorHeight   float64 `yaml:"floor_height"`
	FloorFriction float64 `yaml:"floor_friction"`

	Anchor     cp.Vector `yaml:"anchor"`
	AnchorSize float64   `yaml:"anchor_size"`

	SegmentLength float64   `yaml:"segment_length"`
	SegmentWidth  float64   `yaml:"segment_width"`
	SegmentMass   float64   `yaml:"segment_mass"`
	Elasticity    float64   `yaml:"elasticity"`
	Friction      float64   `yaml:"friction"`
	AftCenter     cp.Vector `yaml:"aft_center"`
	ForeCenter    cp.Vector `yaml:"fore_center"`
	PivotInset    float64   `yaml:"pivot_inset"`

	Spring        Spring `yaml:"spring"`
	ShoulderLimit Limit  `yaml:"shoulder_limit"`
	ElbowLimit    Limit  `yaml:"elbow_limit"`
}

// DefaultLayout lays the arm out horizontally across a width x height screen,
// anchored left of centre at 30% height.
func DefaultLayout(width, height float64) Layout {
	y := height * 0.3
	return Layout{
		Width:         width,
		FloorHeight:   80,
		FloorFriction: 10,
		Anchor:        cp.Vector{X: width/2 - 256, Y: y},
		AnchorSize:    8,
		SegmentLength: 256,
		SegmentWidth:  32,
		SegmentMass:   1.0,
		Elasticity:    0.05,
		Friction:      0.9,
		AftCenter:     cp.Vector{X: width/2 + 120, Y: y},
		ForeCenter:    cp.Vector{X: width/2 + 372, Y: y},
		PivotInset:    8,
		Spring:        Spring{RestAngle: -1.5, Stiffness: 1e6, Damping: 5e4},
		ShoulderLimit: Limit{Min: 0, Max: math.Pi},
		ElbowLimit:    Limit{Min: -math.Pi, Max: math.Pi},
	}
}

// ShoulderPivot is the world point joining anchor and aft segment.
func (l Layout) ShoulderPivot() cp.Vector {
	return cp.Vector{X: l.AftCenter.X - (l.SegmentLength/2 - l.PivotInset), Y: l.AftCenter.Y}
}

// ElbowPivot is the world point joining aft and fore segments.
func (l Layout) ElbowPivot() cp.Vector {
	return cp.Vector{X: l.ForeCenter.X - (l.SegmentLength/2 - l.PivotInset), Y: l.ForeCenter.Y}
}

func (l Layout) Validate() error {
	if l.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %g", dynamo.ErrParameterBounds, l.Width)
	}
	if l.SegmentLength <= 0 || l.SegmentWidth <= 0 {
		return fmt.Errorf("%w: segment %gx%g", dynamo.ErrParameterBounds, l.SegmentLength, l.SegmentWidth)
	}
	if l.SegmentMass <= 0 {
		return fmt.Errorf("%w: segment mass must be positive, got %g", dynamo.ErrParameterBounds, l.SegmentMass)
	}
	if l.AnchorSize <= 0 {
		return fmt.Errorf("%w: anchor size must be positive, got %g", dynamo.ErrParameterBounds, l.AnchorSize)
	}
	if l.PivotInset < 0 || l.PivotInset >= l.SegmentLength/2 {
		return fmt.Errorf("%w: pivot inset %g outside segment", dynamo.ErrParameterBounds, l.PivotInset)
	}
	if l.Spring.Stiffness < 0 || l.Spring.Damping < 0 {
		return fmt.Errorf("%w: spring stiffness and damping must be non-negative", dynamo.ErrParameterBounds)
	}
	for name, lim := range map[string]Limit{"shoulder": l.ShoulderLimit, "elbow": l.ElbowLimit} {
		if lim.Min > lim.Max {
			return fmt.Errorf("%w: %s limit [%g, %g]", dynamo.ErrParameterBounds, name, lim.Min, lim.Max)
		}
	}
	return nil
}
