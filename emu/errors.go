package emu

import "fmt"

// InputRangeError reports an operand outside [0, MaxOperand].
type InputRangeError struct {
	// Operand names the offending input ("A" or "B").
	Operand string
	// Value is the rejected value.
	Value uint8
}

func (e *InputRangeError) Error() string {
	return fmt.Sprintf("operand %s = %d out of range [0, %d]",
		e.Operand, e.Value, MaxOperand)
}
