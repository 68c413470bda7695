// Package pipeline provides the 3-stage pipelined multiplier datapath.
package pipeline

import "fmt"

// Register widths in bits.
const (
	PartialProductBits = 4
	S1ABits            = 6
	S1BBits            = 8
	ProductBits        = 8
)

// Largest value each register can hold given 4-bit operands.
const (
	MaxPartialProduct = 15
	MaxS1A            = 45
	MaxS1B            = 180
	MaxProduct        = 225
)

// PartialProductRegister holds state between the input and the reduction
// stage. PP[i] is A gated by bit i of B.
type PartialProductRegister struct {
	PP [4]uint8 `json:"pp"`
}

// Clear resets the register to zero.
func (r *PartialProductRegister) Clear() {
	r.PP = [4]uint8{}
}

// ReductionRegister holds state between the reduction and final-sum stages.
type ReductionRegister struct {
	// S1A is PP0 + (PP1 << 1).
	S1A uint8 `json:"s1_a"`

	// S1B is (PP2 << 2) + (PP3 << 3).
	S1B uint8 `json:"s1_b"`
}

// Clear resets the register to zero.
func (r *ReductionRegister) Clear() {
	r.S1A = 0
	r.S1B = 0
}

// ProductRegister holds the multiplier output.
type ProductRegister struct {
	P uint8 `json:"p"`
}

// Clear resets the register to zero.
func (r *ProductRegister) Clear() {
	r.P = 0
}

// RegisterFile is the complete state of the multiplier.
type RegisterFile struct {
	Stage1 PartialProductRegister `json:"stage1"`
	Stage2 ReductionRegister      `json:"stage2"`
	Stage3 ProductRegister        `json:"stage3"`
}

// Clear resets every field to zero.
func (r *RegisterFile) Clear() {
	r.Stage1.Clear()
	r.Stage2.Clear()
	r.Stage3.Clear()
}

// IsZero reports whether every field is zero.
func (r RegisterFile) IsZero() bool {
	return r == RegisterFile{}
}

// CheckBounds verifies that no field exceeds the range its inputs allow.
func (r RegisterFile) CheckBounds() error {
	for i, pp := range r.Stage1.PP {
		if pp > MaxPartialProduct {
			return fmt.Errorf("pp%d = %d exceeds %d", i, pp, MaxPartialProduct)
		}
	}
	if r.Stage2.S1A > MaxS1A {
		return fmt.Errorf("s1_a = %d exceeds %d", r.Stage2.S1A, MaxS1A)
	}
	if r.Stage2.S1B > MaxS1B {
		return fmt.Errorf("s1_b = %d exceeds %d", r.Stage2.S1B, MaxS1B)
	}
	if r.Stage3.P > MaxProduct {
		return fmt.Errorf("p = %d exceeds %d", r.Stage3.P, MaxProduct)
	}
	return nil
}

// String formats the register file in waveform column order.
func (r RegisterFile) String() string {
	return fmt.Sprintf("pp0=%d pp1=%d pp2=%d pp3=%d s1_a=%d s1_b=%d p=%d",
		r.Stage1.PP[0], r.Stage1.PP[1], r.Stage1.PP[2], r.Stage1.PP[3],
		r.Stage2.S1A, r.Stage2.S1B, r.Stage3.P)
}
