package core

import "errors"

// ErrExhausted is returned by a Stepper whose input source has run out.
var ErrExhausted = errors.New("input source exhausted")

// Inputs are the external signals applied during one cycle.
type Inputs struct {
	A     uint8
	B     uint8
	Reset bool
}

// InputSource supplies per-cycle inputs.
type InputSource interface {
	// Next returns the inputs for the given cycle. ok is false once the
	// source has nothing more to apply.
	Next(cycle uint64) (in Inputs, ok bool)
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func(cycle uint64) (Inputs, bool)

// Next calls f.
func (f InputSourceFunc) Next(cycle uint64) (Inputs, bool) {
	return f(cycle)
}

// SliceSource replays a fixed sequence of inputs.
type SliceSource []Inputs

// Next returns the inputs at index cycle.
func (s SliceSource) Next(cycle uint64) (Inputs, bool) {
	if cycle >= uint64(len(s)) {
		return Inputs{}, false
	}
	return s[cycle], true
}

// Stepper advances a model by one clock cycle.
type Stepper interface {
	Step() error
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func() error

// Step calls f.
func (f StepperFunc) Step() error {
	return f()
}

// Drive returns a Stepper that ticks the core with inputs from source.
func (c *Core) Drive(source InputSource) Stepper {
	return StepperFunc(func() error {
		in, ok := source.Next(c.cycle)
		if !ok {
			return ErrExhausted
		}
		_, err := c.Tick(in.A, in.B, in.Reset)
		return err
	})
}
