package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mulsim/emu"
)

var _ = Describe("Multiplier", func() {
	Describe("Multiply", func() {
		It("should multiply every pair of 4-bit operands", func() {
			for a := uint8(0); a <= emu.MaxOperand; a++ {
				for b := uint8(0); b <= emu.MaxOperand; b++ {
					p, err := emu.Multiply(a, b)
					Expect(err).NotTo(HaveOccurred())
					Expect(int(p)).To(Equal(int(a) * int(b)))
				}
			}
		})

		It("should produce the maximum product for 15*15", func() {
			p, err := emu.Multiply(15, 15)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(uint8(emu.MaxProduct)))
		})

		It("should reject an out-of-range A", func() {
			_, err := emu.Multiply(16, 3)

			var rangeErr *emu.InputRangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
			Expect(rangeErr.Operand).To(Equal("A"))
			Expect(rangeErr.Value).To(Equal(uint8(16)))
		})

		It("should reject an out-of-range B", func() {
			_, err := emu.Multiply(3, 200)

			var rangeErr *emu.InputRangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
			Expect(rangeErr.Operand).To(Equal("B"))
			Expect(err.Error()).To(ContainSubstring("out of range"))
		})
	})

	Describe("PartialProduct", func() {
		It("should gate A by the selected bit of B", func() {
			Expect(emu.PartialProduct(9, 0b0101, 0)).To(Equal(uint8(9)))
			Expect(emu.PartialProduct(9, 0b0101, 1)).To(Equal(uint8(0)))
			Expect(emu.PartialProduct(9, 0b0101, 2)).To(Equal(uint8(9)))
			Expect(emu.PartialProduct(9, 0b0101, 3)).To(Equal(uint8(0)))
		})
	})

	Describe("ShiftAdd", func() {
		It("should agree with Multiply", func() {
			for a := uint8(0); a <= emu.MaxOperand; a++ {
				for b := uint8(0); b <= emu.MaxOperand; b++ {
					p, _ := emu.Multiply(a, b)
					Expect(emu.ShiftAdd(a, b)).To(Equal(p))
				}
			}
		})
	})
})
