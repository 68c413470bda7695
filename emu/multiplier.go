// Package emu provides the functional (un-pipelined) multiplier model.
// It is the golden reference the timing model is checked against.
package emu

const (
	// OperandBits is the width of each multiplier operand.
	OperandBits = 4

	// MaxOperand is the largest value an operand may take.
	MaxOperand = 1<<OperandBits - 1

	// ProductBits is the width of the product register.
	ProductBits = 2 * OperandBits

	// MaxProduct is the largest product the multiplier can produce.
	MaxProduct = MaxOperand * MaxOperand
)

// ValidateOperands checks that both operands fit in OperandBits.
// The first offending operand is reported.
func ValidateOperands(a, b uint8) error {
	if a > MaxOperand {
		return &InputRangeError{Operand: "A", Value: a}
	}
	if b > MaxOperand {
		return &InputRangeError{Operand: "B", Value: b}
	}
	return nil
}

// Multiply returns a*b for two 4-bit operands.
func Multiply(a, b uint8) (uint8, error) {
	if err := ValidateOperands(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// PartialProduct returns operand a gated by bit i of operand b, unshifted.
func PartialProduct(a, b uint8, i uint) uint8 {
	if (b>>i)&1 == 0 {
		return 0
	}
	return a
}

// ShiftAdd computes a*b the way the datapath does, by summing the shifted
// partial products in a single step. It does not validate its operands.
func ShiftAdd(a, b uint8) uint8 {
	var sum uint8
	for i := uint(0); i < OperandBits; i++ {
		sum += PartialProduct(a, b, i) << i
	}
	return sum
}
