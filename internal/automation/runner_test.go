package automation_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/automation"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/scene"
)

var _ = Describe("Run", func() {
	var s *scene.Scene

	BeforeEach(func() {
		var err error
		s, err = scene.New(config.DefaultConfig(), nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("records one row per tick", func() {
		rep, err := automation.Run(context.Background(), s, &automation.Scenario{Name: "idle", Ticks: 60})
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Ticks).To(Equal(60))
		Expect(rep.Series.Len()).To(Equal(60))
		Expect(rep.Series.Columns).To(Equal([]string{"aft", "fore", "live"}))
		Expect(rep.Aft.Samples()).To(Equal(60))
		Expect(rep.PeakLive).To(Equal(2))
		Expect(rep.WithinLimits(0.1)).To(BeTrue())
	})

	It("launches on a secondary press and counts culls", func() {
		sc := &automation.Scenario{
			Ticks: 120,
			Events: []automation.Event{
				{Tick: 0, Kind: automation.Press, Button: "secondary", X: 1300, Y: 400},
			},
		}
		rep, err := automation.Run(context.Background(), s, sc)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Launched).To(Equal(1))
		Expect(rep.PeakLive).To(Equal(3))
		Expect(rep.Culled).To(Equal(1))
		Expect(rep.Metrics()).To(HaveKeyWithValue("culled", 1.0))
	})

	It("pins a dragged segment to the pointer until release", func() {
		hold := &automation.Scenario{
			Ticks: 30,
			Events: []automation.Event{
				{Tick: 0, Kind: automation.Press, Button: "primary", X: 720, Y: 240},
				{Tick: 1, Kind: automation.Move, X: 720, Y: 260, DY: 20},
				{Tick: 2, Kind: automation.Move, X: 720, Y: 280, DY: 20},
			},
		}
		_, err := automation.Run(context.Background(), s, hold)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Dragging()).To(BeTrue())
		Expect(s.Drag().Body()).To(BeIdenticalTo(s.Arm().Aft.Body))

		p := s.Arm().Aft.Body.Position()
		Expect(p.X).To(BeNumerically("~", 720, 1e-9))
		Expect(p.Y).To(BeNumerically("~", 280, 1e-9))

		release := &automation.Scenario{
			Ticks:  30,
			Events: []automation.Event{{Tick: 0, Kind: automation.Release, Button: "primary"}},
		}
		_, err = automation.Run(context.Background(), s, release)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Dragging()).To(BeFalse())
	})

	It("holds the joint limits under repeated kicks", func() {
		sc := &automation.Scenario{
			Ticks:   300,
			Perturb: &automation.Perturbation{Every: 10, Magnitude: 300, Seed: 42},
		}
		rep, err := automation.Run(context.Background(), s, sc)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Kicks).To(Equal(30))
		Expect(rep.WithinLimits(0.1)).To(BeTrue())
	})

	It("stops on cancellation with a partial report", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rep, err := automation.Run(ctx, s, &automation.Scenario{Ticks: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(rep.Ticks).To(Equal(0))
	})

	It("rejects an invalid scenario before ticking", func() {
		_, err := automation.Run(context.Background(), s, &automation.Scenario{})
		Expect(err).To(HaveOccurred())
		Expect(s.World().Steps()).To(BeZero())
	})
})
