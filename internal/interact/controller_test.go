package interact_test

import (
	"github.com/jakecoffman/cp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/interact"
	"github.com/san-kum/armsim/internal/world"
)

var _ = Describe("Controller", func() {
	var (
		w    *world.World
		a    *arm.Arm
		ctrl *interact.Controller
	)

	BeforeEach(func() {
		var err error
		w, err = world.New(world.Config{Gravity: cp.Vector{Y: -9800}, Iterations: 350, Dt: 1.0 / 60.0})
		Expect(err).NotTo(HaveOccurred())
		a, err = arm.Build(w, arm.DefaultLayout(1200, 800))
		Expect(err).NotTo(HaveOccurred())
		ctrl, err = interact.New(w, interact.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Press", func() {
		It("stays idle when nothing is under the pointer", func() {
			drag := ctrl.Press(nil, interact.Primary, cp.Vector{X: 100, Y: 700})
			Expect(drag).To(BeNil())
		})

		It("ignores static shapes such as the anchor and floor", func() {
			Expect(ctrl.Press(nil, interact.Primary, a.Layout().Anchor)).To(BeNil())
			Expect(ctrl.Press(nil, interact.Primary, cp.Vector{X: 50, Y: 80})).To(BeNil())
		})

		It("starts a drag on a segment hit", func() {
			p := cp.Vector{X: 720, Y: 240}
			drag := ctrl.Press(nil, interact.Primary, p)
			Expect(drag).NotTo(BeNil())
			Expect(drag.Shape).To(BeIdenticalTo(a.Aft.Shape))
			Expect(drag.Pointer).To(Equal(p))
		})

		It("keeps the current drag on a miss", func() {
			drag := ctrl.Press(nil, interact.Primary, cp.Vector{X: 720, Y: 240})
			Expect(ctrl.Press(drag, interact.Primary, cp.Vector{X: 100, Y: 700})).To(BeIdenticalTo(drag))
		})

		It("does not start a drag with the secondary button", func() {
			Expect(ctrl.Press(nil, interact.Secondary, cp.Vector{X: 720, Y: 240})).To(BeNil())
		})
	})

	Describe("Move", func() {
		It("is a no-op while idle", func() {
			Expect(ctrl.Move(nil, cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: 1})).To(BeNil())
		})

		It("sets position to the pointer and velocity to the scaled delta", func() {
			drag := ctrl.Press(nil, interact.Primary, cp.Vector{X: 972, Y: 240})
			Expect(drag).NotTo(BeNil())

			p := cp.Vector{X: 980, Y: 250}
			drag = ctrl.Move(drag, p, cp.Vector{X: 8, Y: 10})

			body := a.Fore.Body
			Expect(drag.Pointer).To(Equal(p))
			Expect(body.Position()).To(Equal(p))
			Expect(body.Velocity().X).To(BeNumerically("~", 160, 1e-9))
			Expect(body.Velocity().Y).To(BeNumerically("~", 200, 1e-9))
		})
	})

	Describe("Release", func() {
		It("always returns to idle after press and moves", func() {
			drag := ctrl.Press(nil, interact.Primary, cp.Vector{X: 720, Y: 240})
			Expect(drag).NotTo(BeNil())
			for i := 0; i < 5; i++ {
				drag = ctrl.Move(drag, cp.Vector{X: 720 + float64(i), Y: 260}, cp.Vector{X: 1, Y: 4})
				w.Step()
				drag.Hold()
			}
			Expect(ctrl.Release(drag, interact.Primary)).To(BeNil())
		})

		It("keeps the drag when a different button is released", func() {
			drag := ctrl.Press(nil, interact.Primary, cp.Vector{X: 720, Y: 240})
			Expect(ctrl.Release(drag, interact.Secondary)).To(BeIdenticalTo(drag))
		})
	})

	Describe("Hold", func() {
		It("pins the body after a physics step", func() {
			p := cp.Vector{X: 720, Y: 240}
			drag := ctrl.Press(nil, interact.Primary, p)
			w.Step()
			drag.Hold()
			Expect(a.Aft.Body.Position()).To(Equal(p))
			Expect(a.Aft.Body.Velocity()).To(Equal(cp.Vector{}))
		})

		It("tolerates an absent drag", func() {
			var drag *interact.DragState
			Expect(drag.Body()).To(BeNil())
			Expect(func() { drag.Hold() }).NotTo(Panic())
		})
	})

	Describe("Launch", func() {
		It("adds a projectile with the configured properties", func() {
			before := w.Bodies()
			body, shape, err := ctrl.Launch(cp.Vector{X: 600, Y: 400})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Bodies()).To(Equal(before + 1))
			Expect(w.ContainsShape(shape)).To(BeTrue())
			Expect(body.Mass()).To(Equal(60.0))
			Expect(body.Velocity()).To(Equal(cp.Vector{X: 2000, Y: 0}))
			Expect(shape.Friction()).To(Equal(0.3))
		})

		It("makes the projectile grabbable", func() {
			_, shape, err := ctrl.Launch(cp.Vector{X: 300, Y: 600})
			Expect(err).NotTo(HaveOccurred())
			drag := ctrl.Press(nil, interact.Primary, cp.Vector{X: 300, Y: 600})
			Expect(drag).NotTo(BeNil())
			Expect(drag.Shape).To(BeIdenticalTo(shape))
		})
	})

	Describe("Config", func() {
		It("rejects a massless projectile", func() {
			cfg := interact.DefaultConfig()
			cfg.Projectile.Mass = 0
			_, err := interact.New(w, cfg)
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = DescribeTable("ParseButton",
	func(in string, want interact.Button, ok bool) {
		got, err := interact.ParseButton(in)
		if !ok {
			Expect(err).To(HaveOccurred())
			return
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	},
	Entry("primary", "primary", interact.Primary, true),
	Entry("left alias", "left", interact.Primary, true),
	Entry("secondary", "secondary", interact.Secondary, true),
	Entry("right alias", "right", interact.Secondary, true),
	Entry("unknown", "middle", interact.Primary, false),
)
