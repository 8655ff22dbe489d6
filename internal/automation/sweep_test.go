package automation_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/automation"
	"github.com/san-kum/armsim/internal/config"
)

var _ = Describe("RunSweep", func() {
	base := config.DefaultConfig().Validator

	It("solves one trajectory per value", func() {
		results, err := automation.RunSweep(context.Background(), base,
			automation.Sweep{Param: "friction", Min: 0, Max: 1e-3, Steps: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Value).To(Equal(0.0))
		Expect(results[2].Value).To(BeNumerically("~", 1e-3, 1e-15))

		for _, r := range results {
			Expect(r.Success).To(BeTrue(), r.Message)
			Expect(r.Period).To(BeNumerically(">", 0))
		}
		Expect(results[2].EnergyDrift).To(BeNumerically(">", results[0].EnergyDrift))
	})

	It("rejects unknown parameters and empty sweeps", func() {
		_, err := automation.RunSweep(context.Background(), base, automation.Sweep{Param: "colour", Steps: 2, Max: 1})
		Expect(err).To(MatchError(ContainSubstring("unknown sweep parameter")))

		_, err = automation.RunSweep(context.Background(), base, automation.Sweep{Param: "mass", Steps: 0})
		Expect(err).To(HaveOccurred())
	})

	It("stops at a parameter the torque model refuses", func() {
		results, err := automation.RunSweep(context.Background(), base,
			automation.Sweep{Param: "inertia", Min: -1, Max: 1, Steps: 2})
		Expect(err).To(HaveOccurred())
		Expect(results).To(BeEmpty())
	})
})

var _ = Describe("RunSweep with workers", func() {
	It("matches the sequential sweep", func() {
		base := config.DefaultConfig().Validator
		sw := automation.Sweep{Param: "radius", Min: 0.1, Max: 0.2, Steps: 4}

		seq, err := automation.RunSweep(context.Background(), base, sw)
		Expect(err).NotTo(HaveOccurred())

		sw.Workers = 3
		par, err := automation.RunSweep(context.Background(), base, sw)
		Expect(err).NotTo(HaveOccurred())
		Expect(par).To(Equal(seq))
	})
})
