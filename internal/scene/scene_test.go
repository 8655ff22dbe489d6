package scene

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/interact"
)

func newScene(t *testing.T, cfg *config.Config) *Scene {
	t.Helper()
	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestScene_ProjectileAfterOneStep(t *testing.T) {
	s := newScene(t, config.DefaultConfig())

	body, err := s.Launch(cp.Vector{X: 600, Y: 400})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if body.Mass() != 60 {
		t.Errorf("mass = %g, want 60", body.Mass())
	}

	s.Tick()

	v := body.Velocity()
	want := -9800.0 / 60.0
	if math.Abs(v.Y-want) > 1e-6 {
		t.Errorf("vy = %g, want %g", v.Y, want)
	}
	if math.Abs(v.X-2000) > 1e-6 {
		t.Errorf("vx = %g, want 2000", v.X)
	}
}

func TestScene_InitialFrame(t *testing.T) {
	s := newScene(t, config.DefaultConfig())

	f := s.Frame()
	if f == nil {
		t.Fatal("expected an initial frame")
	}
	if len(f.Sprites) != 2 {
		t.Fatalf("expected the two arm segments, got %d sprites", len(f.Sprites))
	}
	for _, sp := range f.Sprites {
		if sp.Asset != SegmentAsset {
			t.Errorf("asset = %q", sp.Asset)
		}
	}
	if len(f.Lines) != 1 || f.Lines[0].A.Y != 80 || f.Lines[0].B.X != 1200 {
		t.Errorf("floor line = %+v", f.Lines)
	}
}

func TestScene_SecondaryPressLaunches(t *testing.T) {
	s := newScene(t, config.DefaultConfig())

	if err := s.Press(interact.Secondary, cp.Vector{X: 100, Y: 700}); err != nil {
		t.Fatalf("Press: %v", err)
	}
	if s.Launched() != 1 || s.Live() != 3 {
		t.Errorf("launched=%d live=%d", s.Launched(), s.Live())
	}
	if s.Dragging() {
		t.Error("a launch must not start a drag")
	}

	frame := s.Tick()
	if len(frame.Sprites) != 3 {
		t.Errorf("expected 3 sprites, got %d", len(frame.Sprites))
	}
}

func TestScene_DragCycle(t *testing.T) {
	s := newScene(t, config.DefaultConfig())

	if err := s.Press(interact.Primary, cp.Vector{X: 100, Y: 700}); err != nil || s.Dragging() {
		t.Fatalf("miss should stay idle (err=%v)", err)
	}

	p := cp.Vector{X: 972, Y: 240}
	_ = s.Press(interact.Primary, p)
	if !s.Dragging() {
		t.Fatal("expected a drag on the fore segment")
	}

	target := cp.Vector{X: 960, Y: 300}
	s.Move(target, cp.Vector{X: -12, Y: 60})
	s.Tick()
	if got := s.Arm().Fore.Body.Position(); got != target {
		t.Errorf("dragged body at %v, want %v", got, target)
	}

	s.Release(interact.Primary)
	if s.Dragging() {
		t.Error("release should end the drag")
	}
}

func TestScene_ProjectileEventuallyCulled(t *testing.T) {
	s := newScene(t, config.DefaultConfig())

	// Launched beyond the right edge of the floor so nothing catches it.
	body, err := s.Launch(cp.Vector{X: 1300, Y: 400})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120 && s.Tracks(body); i++ {
		s.Tick()
	}
	if s.Tracks(body) || s.World().Contains(body) {
		t.Error("projectile should have been culled")
	}
	if s.Culled() != 1 || s.Live() != 2 {
		t.Errorf("culled=%d live=%d", s.Culled(), s.Live())
	}
}

func TestScene_Diagnostics(t *testing.T) {
	s := newScene(t, config.DefaultConfig())
	s.ReportDrawTime(2 * time.Millisecond)
	f := s.Tick()
	if f.Diagnostics.DrawTime != 2*time.Millisecond {
		t.Errorf("draw time = %v", f.Diagnostics.DrawTime)
	}
	if s.Diagnostics() != f.Diagnostics {
		t.Error("scene diagnostics should match the last frame")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene.Iterations = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error")
	}
}
