package scene

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/interact"
	"github.com/san-kum/armsim/internal/lifecycle"
	"github.com/san-kum/armsim/internal/world"
)

const (
	SegmentAsset    = "crate"
	ProjectileAsset = "coin"
)

// Scene is the interactive arm: world, assembly, pointer controller and
// lifecycle manager wired from one config. Input methods must be called
// between ticks, never from inside one.
type Scene struct {
	cfg   config.SceneConfig
	world *world.World
	arm   *arm.Arm
	ctrl  *interact.Controller
	life  *lifecycle.Manager
	log   *slog.Logger

	drag     *interact.DragState
	launched int
	last     *lifecycle.Frame
}

func New(cfg *config.Config, log *slog.Logger) (*Scene, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}

	wc, err := cfg.WorldConfig()
	if err != nil {
		return nil, err
	}
	w, err := world.New(wc)
	if err != nil {
		return nil, err
	}

	a, err := arm.Build(w, cfg.Scene.Arm)
	if err != nil {
		return nil, err
	}

	ctrl, err := interact.New(w, cfg.Scene.Interaction)
	if err != nil {
		return nil, err
	}

	floor := []lifecycle.Line{{A: a.Floor.A, B: a.Floor.B}}
	life := lifecycle.NewManager(w, cfg.Scene.LowerBound, floor, log)
	for _, seg := range []arm.Segment{a.Aft, a.Fore} {
		if err := life.Track(seg.Body, lifecycle.Box{Width: seg.Length, Height: seg.Width}, SegmentAsset); err != nil {
			return nil, err
		}
	}

	s := &Scene{
		cfg:   cfg.Scene,
		world: w,
		arm:   a,
		ctrl:  ctrl,
		life:  life,
		log:   log,
	}
	s.last = life.Snapshot()

	log.Debug("scene ready",
		"bodies", w.Bodies(),
		"joints", w.Joints(),
		"iterations", w.Iterations(),
		"gravity", w.Gravity(),
		"dt", w.Dt())
	return s, nil
}

// Press starts a drag with the primary button and launches a projectile
// with any other button.
func (s *Scene) Press(btn interact.Button, p cp.Vector) error {
	if btn == interact.Primary {
		s.drag = s.ctrl.Press(s.drag, btn, p)
		return nil
	}
	_, err := s.Launch(p)
	return err
}

func (s *Scene) Move(p, delta cp.Vector) {
	s.drag = s.ctrl.Move(s.drag, p, delta)
}

func (s *Scene) Release(btn interact.Button) {
	s.drag = s.ctrl.Release(s.drag, btn)
}

// Launch adds a tracked projectile at p.
func (s *Scene) Launch(p cp.Vector) (*cp.Body, error) {
	body, _, err := s.ctrl.Launch(p)
	if err != nil {
		return nil, err
	}
	radius := s.ctrl.Config().Projectile.Radius
	if err := s.life.Track(body, lifecycle.Circle{Radius: radius}, ProjectileAsset); err != nil {
		return nil, err
	}
	s.launched++
	s.log.Debug("launched projectile", "x", p.X, "y", p.Y)
	return body, nil
}

// Tick advances the scene by one fixed step and returns the frame to draw.
func (s *Scene) Tick() *lifecycle.Frame {
	s.last, s.drag = s.life.Tick(s.drag)
	return s.last
}

func (s *Scene) ReportDrawTime(d time.Duration) { s.life.ReportDrawTime(d) }

func (s *Scene) Frame() *lifecycle.Frame            { return s.last }
func (s *Scene) Drag() *interact.DragState          { return s.drag }
func (s *Scene) Dragging() bool                     { return s.drag != nil }
func (s *Scene) Diagnostics() lifecycle.Diagnostics { return s.life.Diagnostics() }
func (s *Scene) Arm() *arm.Arm                      { return s.arm }
func (s *Scene) World() *world.World                { return s.world }
func (s *Scene) Config() config.SceneConfig         { return s.cfg }
func (s *Scene) Launched() int                      { return s.launched }
func (s *Scene) Culled() int                        { return s.life.Culled() }
func (s *Scene) Live() int                          { return s.life.Tracked() }
func (s *Scene) Bounds() (width, height float64)    { return s.cfg.Width, s.cfg.Height }
func (s *Scene) Tracks(body *cp.Body) bool          { return s.life.IsTracked(body) }
