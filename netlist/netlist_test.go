package netlist_test

import (
	"bytes"
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mulsim/netlist"
	"github.com/sarchlab/mulsim/timing/latency"
)

var _ = Describe("Design", func() {
	var d *netlist.Design

	BeforeEach(func() {
		d = netlist.Describe()
	})

	It("should expose the multiplier ports", func() {
		a, ok := d.Port("a")
		Expect(ok).To(BeTrue())
		Expect(a).To(Equal(netlist.Port{Name: "a", Direction: netlist.Input, Width: 4}))

		p, ok := d.Port("p")
		Expect(ok).To(BeTrue())
		Expect(p.Direction).To(Equal(netlist.Output))
		Expect(p.Width).To(Equal(8))

		_, ok = d.Port("valid")
		Expect(ok).To(BeFalse())
	})

	It("should describe seven registers over three stages", func() {
		Expect(d.Registers).To(HaveLen(7))
		Expect(d.FlipFlops()).To(Equal(4*4 + 6 + 8 + 8))

		s1b, ok := d.Register("s1_b")
		Expect(ok).To(BeTrue())
		Expect(s1b.Stage).To(Equal(latency.StageReduction))
		Expect(s1b.Sources).To(ConsistOf("pp2", "pp3"))

		out, ok := d.Register(d.OutputRegister)
		Expect(ok).To(BeTrue())
		Expect(out.Stage).To(Equal(latency.StageFinalSum))
		Expect(out.Max).To(Equal(uint64(225)))
	})

	It("should render a tree grouped by stage", func() {
		out := d.Tree().String()
		Expect(out).To(ContainSubstring("mul4x4 (clock clk, reset reset)"))
		Expect(out).To(ContainSubstring("partial-products"))
		Expect(out).To(ContainSubstring("pp3 <= b[3] ? a : 0"))
		Expect(out).To(ContainSubstring("s1_a <= pp0 + (pp1 << 1)"))
		Expect(out).To(ContainSubstring("p_reg <= s1_a + s1_b"))
	})

	It("should encode to JSON", func() {
		var buf bytes.Buffer
		Expect(d.WriteJSON(&buf)).To(Succeed())

		var back netlist.Design
		Expect(json.Unmarshal(buf.Bytes(), &back)).To(Succeed())
		Expect(back.Registers).To(HaveLen(7))
		Expect(back.OutputRegister).To(Equal("p_reg"))
	})
})

var _ = Describe("DryRunBackend", func() {
	var (
		d       *netlist.Design
		c       netlist.Constraints
		backend netlist.Backend
	)

	BeforeEach(func() {
		d = netlist.Describe()
		c = netlist.ConstraintsFromConfig(d, latency.DefaultSimConfig())
		backend = netlist.DryRunBackend{}
	})

	It("should derive constraints from the configuration", func() {
		Expect(c.ClockPeriodNs).To(BeNumerically("~", 10.0))
		Expect(c.ResetHoldCycles).To(Equal(uint64(2)))
		Expect(c.LatencyCycles).To(Equal(uint64(3)))
	})

	It("should accept the multiplier", func() {
		report, err := backend.Submit(context.Background(), d, c)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Backend).To(Equal("dry-run"))
		Expect(report.Registers).To(Equal(7))
		Expect(report.FlipFlops).To(Equal(38))
		Expect(report.Stages).To(Equal(3))
		Expect(report.Latency).To(Equal(uint64(3)))
		Expect(report.Warnings).To(BeEmpty())
	})

	It("should reject a register too narrow for its range", func() {
		d.Registers[4].Width = 5

		_, err := backend.Submit(context.Background(), d, c)
		Expect(err).To(MatchError(ContainSubstring("s1_a needs 6 bits, has 5")))
	})

	It("should warn about an oversized register", func() {
		d.Registers[0].Width = 6

		report, err := backend.Submit(context.Background(), d, c)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Warnings).To(ConsistOf(ContainSubstring("pp0 is 6 bits wide")))
	})

	It("should reject unknown sources and bad constraints", func() {
		d.Registers[6].Sources = []string{"s1_a", "s1_c"}
		c.ClockPeriodNs = 0
		c.ResetHoldCycles = 0

		err := netlist.Validate(d, c)
		Expect(err).To(MatchError(ContainSubstring(`p_reg reads unknown signal "s1_c"`)))
		Expect(err).To(MatchError(ContainSubstring("clock period must be > 0")))
		Expect(err).To(MatchError(ContainSubstring("reset hold must be at least one cycle")))
	})

	It("should stop on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := backend.Submit(ctx, d, c)
		Expect(err).To(MatchError(context.Canceled))
	})
})
