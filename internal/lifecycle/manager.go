package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/interact"
	"github.com/san-kum/armsim/internal/world"
)

type tracked struct {
	body    *cp.Body
	visual  Visual
	asset   string
	refused bool
}

// Manager culls bodies that fall out of the world, steps the world, and
// reports every tracked body's pose each tick.
type Manager struct {
	world      *world.World
	lowerBound float64
	lines      []Line
	log        *slog.Logger

	bodies   []*tracked
	culled   int
	drawTime time.Duration
	last     Diagnostics
}

func NewManager(w *world.World, lowerBound float64, lines []Line, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		world:      w,
		lowerBound: lowerBound,
		lines:      append([]Line(nil), lines...),
		log:        log,
	}
}

// Track associates a visual with a body already in the world.
func (m *Manager) Track(body *cp.Body, v Visual, asset string) error {
	if !m.world.Contains(body) {
		return fmt.Errorf("track: %w", world.ErrBodyNotInWorld)
	}
	if v == nil {
		return errors.New("track: nil visual")
	}
	for _, t := range m.bodies {
		if t.body == body {
			return fmt.Errorf("track: %w", world.ErrDuplicate)
		}
	}
	m.bodies = append(m.bodies, &tracked{body: body, visual: v, asset: asset})
	return nil
}

func (m *Manager) Tracked() int { return len(m.bodies) }

// Culled is the number of bodies removed for leaving the world so far.
func (m *Manager) Culled() int { return m.culled }

func (m *Manager) IsTracked(body *cp.Body) bool {
	for _, t := range m.bodies {
		if t.body == body {
			return true
		}
	}
	return false
}

// ReportDrawTime records how long the renderer took for the last frame.
func (m *Manager) ReportDrawTime(d time.Duration) { m.drawTime = d }

func (m *Manager) Diagnostics() Diagnostics { return m.last }

// Tick runs one simulation frame: cull, step, reassert the drag, then read
// back poses. The returned drag is nil if the dragged body was culled.
func (m *Manager) Tick(drag *interact.DragState) (*Frame, *interact.DragState) {
	start := time.Now()

	drag = m.cull(drag)
	m.world.Step()
	if drag != nil {
		drag.Hold()
	}

	frame := m.Snapshot()
	m.last = Diagnostics{ProcessingTime: time.Since(start), DrawTime: m.drawTime}
	frame.Diagnostics = m.last
	return frame, drag
}

// Snapshot reads back the current poses without stepping.
func (m *Manager) Snapshot() *Frame {
	frame := &Frame{
		Tick:        m.world.Steps(),
		Time:        m.world.Time(),
		Sprites:     make([]Pose, 0, len(m.bodies)),
		Lines:       m.lines,
		Diagnostics: m.last,
	}
	for _, t := range m.bodies {
		frame.Sprites = append(frame.Sprites, poseOf(t))
	}
	return frame
}

func (m *Manager) cull(drag *interact.DragState) *interact.DragState {
	kept := m.bodies[:0]
	for _, t := range m.bodies {
		if t.body.Position().Y >= m.lowerBound {
			kept = append(kept, t)
			continue
		}

		if err := m.world.RemoveBody(t.body); err != nil {
			if !t.refused {
				m.log.Warn("body below lower bound not removed", "error", err, "y", t.body.Position().Y)
				t.refused = true
			}
			kept = append(kept, t)
			continue
		}

		m.culled++
		m.log.Debug("culled body", "asset", t.asset, "y", t.body.Position().Y, "tick", m.world.Steps())
		if drag.Body() == t.body {
			drag = nil
		}
	}
	for i := len(kept); i < len(m.bodies); i++ {
		m.bodies[i] = nil
	}
	m.bodies = kept
	return drag
}

func poseOf(t *tracked) Pose {
	p := t.body.Position()
	return Pose{
		X:        p.X,
		Y:        p.Y,
		AngleDeg: t.body.Angle() * 180 / math.Pi,
		Asset:    t.asset,
		Visual:   t.visual,
	}
}
