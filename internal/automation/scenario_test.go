package automation_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/automation"
)

var _ = Describe("Scenario", func() {
	It("parses events and orders them by tick", func() {
		sc, err := automation.ParseScenario([]byte(`
name: grab
ticks: 90
events:
  - {tick: 30, kind: release, button: primary}
  - {tick: 0, kind: press, button: left, x: 720, y: 240}
  - {tick: 5, kind: move, x: 720, y: 300, dx: 0, dy: 60}
perturb: {every: 10, magnitude: 50, seed: 7}
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Name).To(Equal("grab"))
		Expect(sc.Events).To(HaveLen(3))
		Expect(sc.Events[0].Kind).To(Equal(automation.Press))
		Expect(sc.Events[1].DY).To(Equal(60.0))
		Expect(sc.Events[2].Tick).To(Equal(30))
		Expect(sc.Perturb.Seed).To(Equal(int64(7)))
	})

	DescribeTable("rejects malformed scenarios",
		func(doc string) {
			_, err := automation.ParseScenario([]byte(doc))
			Expect(err).To(HaveOccurred())
		},
		Entry("no ticks", "name: x\n"),
		Entry("event past the end", "ticks: 10\nevents: [{tick: 10, kind: move}]\n"),
		Entry("unknown kind", "ticks: 10\nevents: [{tick: 1, kind: wiggle}]\n"),
		Entry("unknown button", "ticks: 10\nevents: [{tick: 1, kind: press, button: middle}]\n"),
		Entry("zero perturb period", "ticks: 10\nperturb: {every: 0, magnitude: 1}\n"),
		Entry("not yaml", "ticks: [\n"),
	)

	It("loads from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "s.yaml")
		Expect(os.WriteFile(path, []byte("name: idle\nticks: 3\n"), 0644)).To(Succeed())

		sc, err := automation.LoadScenario(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Ticks).To(Equal(3))

		_, err = automation.LoadScenario(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})
})
