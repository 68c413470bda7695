package pipeline

import "github.com/sarchlab/mulsim/emu"

// EvaluatePartialProducts computes the next stage-1 register from the
// external inputs.
func EvaluatePartialProducts(a, b uint8) PartialProductRegister {
	var next PartialProductRegister
	for i := range next.PP {
		next.PP[i] = emu.PartialProduct(a, b, uint(i))
	}
	return next
}

// EvaluateReduction computes the next stage-2 register from the current
// stage-1 register.
func EvaluateReduction(cur PartialProductRegister) ReductionRegister {
	return ReductionRegister{
		S1A: cur.PP[0] + cur.PP[1]<<1,
		S1B: cur.PP[2]<<2 + cur.PP[3]<<3,
	}
}

// EvaluateFinalSum computes the next stage-3 register from the current
// stage-2 register.
func EvaluateFinalSum(cur ReductionRegister) ProductRegister {
	return ProductRegister{
		P: cur.S1A + cur.S1B,
	}
}
