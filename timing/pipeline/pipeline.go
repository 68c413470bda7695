package pipeline

import "github.com/sarchlab/mulsim/emu"

// Statistics holds datapath activity counters.
type Statistics struct {
	// Cycles is the total number of cycles advanced.
	Cycles uint64
	// ResetCycles is the number of cycles with reset asserted.
	ResetCycles uint64
}

// Datapath implements the 3-stage pipelined 4x4 multiplier.
// Stages: PartialProducts -> Reduction -> FinalSum.
//
// A vector presented at cycle t is observed on P at cycle t+3. There is no
// valid or enable signal: every cycle's inputs are captured.
type Datapath struct {
	regs  RegisterFile
	stats Statistics
}

// NewDatapath creates a datapath with all registers cleared.
func NewDatapath() *Datapath {
	return &Datapath{}
}

// Advance executes one clock cycle and returns the P observed during it,
// which is the value latched at the previous edge. While reset is asserted
// the observed P is zero.
//
// Operands are validated before anything is touched; an out-of-range operand
// returns an *emu.InputRangeError and leaves the state unchanged.
//
// Every stage's next value is computed from the registers as they were
// before the edge, then all stages latch together. Reset is applied as an
// override after evaluation and forces every register to zero.
func (d *Datapath) Advance(a, b uint8, reset bool) (uint8, error) {
	if err := emu.ValidateOperands(a, b); err != nil {
		return 0, err
	}

	d.stats.Cycles++
	observed := d.regs.Stage3.P

	// Stages are evaluated from the pre-edge copy only.
	cur := d.regs
	next := RegisterFile{
		Stage1: EvaluatePartialProducts(a, b),
		Stage2: EvaluateReduction(cur.Stage1),
		Stage3: EvaluateFinalSum(cur.Stage2),
	}

	if reset {
		d.stats.ResetCycles++
		next.Clear()
		observed = 0
	}

	d.regs = next

	return observed, nil
}

// Product returns the value latched in P at the last edge. Unless reset is
// asserted, it is what the next Advance observes.
func (d *Datapath) Product() uint8 {
	return d.regs.Stage3.P
}

// Registers returns a copy of the register file.
func (d *Datapath) Registers() RegisterFile {
	return d.regs
}

// Stats returns datapath statistics.
func (d *Datapath) Stats() Statistics {
	return d.stats
}

// Reset clears all registers and statistics.
func (d *Datapath) Reset() {
	d.regs.Clear()
	d.stats = Statistics{}
}
