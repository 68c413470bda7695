package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mulsim/timing/pipeline"
)

var _ = Describe("Stages", func() {
	Describe("EvaluatePartialProducts", func() {
		It("should gate A by each bit of B", func() {
			next := pipeline.EvaluatePartialProducts(7, 0b1010)
			Expect(next.PP).To(Equal([4]uint8{0, 7, 0, 7}))
		})

		It("should produce all zeros when B is zero", func() {
			next := pipeline.EvaluatePartialProducts(15, 0)
			Expect(next.PP).To(Equal([4]uint8{}))
		})

		It("should copy A into every slot when B is 15", func() {
			next := pipeline.EvaluatePartialProducts(9, 15)
			Expect(next.PP).To(Equal([4]uint8{9, 9, 9, 9}))
		})
	})

	Describe("EvaluateReduction", func() {
		It("should shift and pair partial products", func() {
			cur := pipeline.PartialProductRegister{PP: [4]uint8{1, 2, 3, 4}}
			next := pipeline.EvaluateReduction(cur)
			Expect(next.S1A).To(Equal(uint8(1 + 2<<1)))
			Expect(next.S1B).To(Equal(uint8(3<<2 + 4<<3)))
		})

		It("should reach the register bounds with saturated inputs", func() {
			cur := pipeline.PartialProductRegister{PP: [4]uint8{15, 15, 15, 15}}
			next := pipeline.EvaluateReduction(cur)
			Expect(next.S1A).To(Equal(uint8(pipeline.MaxS1A)))
			Expect(next.S1B).To(Equal(uint8(pipeline.MaxS1B)))
		})
	})

	Describe("EvaluateFinalSum", func() {
		It("should add the reduction terms", func() {
			next := pipeline.EvaluateFinalSum(pipeline.ReductionRegister{S1A: 45, S1B: 180})
			Expect(next.P).To(Equal(uint8(pipeline.MaxProduct)))
		})
	})

	It("should compose into A*B for every operand pair", func() {
		for a := uint8(0); a < 16; a++ {
			for b := uint8(0); b < 16; b++ {
				s1 := pipeline.EvaluatePartialProducts(a, b)
				s2 := pipeline.EvaluateReduction(s1)
				s3 := pipeline.EvaluateFinalSum(s2)
				Expect(int(s3.P)).To(Equal(int(a)*int(b)), "a=%d b=%d", a, b)
			}
		}
	})
})

var _ = Describe("RegisterFile", func() {
	It("should start cleared", func() {
		var regs pipeline.RegisterFile
		Expect(regs.IsZero()).To(BeTrue())
		Expect(regs.CheckBounds()).To(Succeed())
	})

	It("should clear every field", func() {
		regs := pipeline.RegisterFile{
			Stage1: pipeline.PartialProductRegister{PP: [4]uint8{1, 2, 3, 4}},
			Stage2: pipeline.ReductionRegister{S1A: 5, S1B: 6},
			Stage3: pipeline.ProductRegister{P: 7},
		}
		regs.Clear()
		Expect(regs.IsZero()).To(BeTrue())
	})

	It("should report out-of-range fields", func() {
		regs := pipeline.RegisterFile{}
		regs.Stage1.PP[2] = 16
		Expect(regs.CheckBounds()).To(MatchError(ContainSubstring("pp2")))

		regs = pipeline.RegisterFile{}
		regs.Stage2.S1A = 46
		Expect(regs.CheckBounds()).To(MatchError(ContainSubstring("s1_a")))

		regs = pipeline.RegisterFile{}
		regs.Stage2.S1B = 181
		Expect(regs.CheckBounds()).To(MatchError(ContainSubstring("s1_b")))

		regs = pipeline.RegisterFile{}
		regs.Stage3.P = 226
		Expect(regs.CheckBounds()).To(MatchError(ContainSubstring("p = 226")))
	})

	It("should format in waveform order", func() {
		regs := pipeline.RegisterFile{
			Stage1: pipeline.PartialProductRegister{PP: [4]uint8{1, 2, 3, 4}},
			Stage2: pipeline.ReductionRegister{S1A: 5, S1B: 6},
			Stage3: pipeline.ProductRegister{P: 7},
		}
		Expect(regs.String()).To(Equal("pp0=1 pp1=2 pp2=3 pp3=4 s1_a=5 s1_b=6 p=7"))
	})
})
