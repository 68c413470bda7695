// Package testbench drives stimulus into the clocked multiplier and checks
// every observed product against the functional model.
package testbench

import (
	"fmt"

	"github.com/sarchlab/mulsim/emu"
	"github.com/sarchlab/mulsim/stimulus"
)

// RecordKind distinguishes what a verification record checked.
type RecordKind string

const (
	// KindProduct checks the product of a vector presented latency cycles
	// earlier.
	KindProduct RecordKind = "product"
	// KindFlush checks that P is zero on a cycle no vector can reach, such
	// as a reset cycle or the cycles right after one.
	KindFlush RecordKind = "flush"
)

// Record is one entry of the verification log.
type Record struct {
	// Cycle is the cycle the output was observed on.
	Cycle uint64 `json:"cycle"`
	// Issued is the cycle the vector was presented on (products only).
	Issued   uint64     `json:"issued"`
	Kind     RecordKind `json:"kind"`
	A        uint8      `json:"a"`
	B        uint8      `json:"b"`
	Expected uint8      `json:"expected"`
	Observed uint8      `json:"observed"`
	Pass     bool       `json:"pass"`
}

// MismatchError reports an observed P that differs from the reference.
type MismatchError struct {
	Cycle    uint64
	Issued   uint64
	A        uint8
	B        uint8
	Expected uint8
	Observed uint8
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cycle %d: observed P=%d, expected %d (A=%d B=%d presented at cycle %d)",
		e.Cycle, e.Observed, e.Expected, e.A, e.B, e.Issued)
}

// CheckerStats summarises a checker's activity.
type CheckerStats struct {
	Checks    uint64 `json:"checks"`
	Passed    uint64 `json:"passed"`
	Failed    uint64 `json:"failed"`
	Discarded uint64 `json:"discarded"`
}

// Checker holds outstanding expectations and compares them with the
// multiplier output.
type Checker struct {
	latency uint64
	pending map[uint64]stimulus.Vector

	// known is set once the pipeline contents are known to be zero, either
	// because the model was fresh or because reset was asserted.
	known bool

	records []Record
	stats   CheckerStats
}

// NewChecker creates a checker for a pipeline of the given latency. known
// tells whether the pipeline is in its reset state.
func NewChecker(latency uint64, known bool) *Checker {
	return &Checker{
		latency: latency,
		pending: make(map[uint64]stimulus.Vector),
		known:   known,
	}
}

// Expect records that v's product is due latency cycles after v.Cycle.
func (c *Checker) Expect(v stimulus.Vector) {
	c.pending[v.Cycle+c.latency] = v
}

// Reset discards every outstanding expectation. It is called for each cycle
// that has reset asserted.
func (c *Checker) Reset() {
	c.stats.Discarded += uint64(len(c.pending))
	clear(c.pending)
	c.known = true
}

// Outstanding returns the number of expectations not yet checked.
func (c *Checker) Outstanding() int {
	return len(c.pending)
}

// Observe checks the P value seen on cycle. It returns a *MismatchError
// when the value differs from the reference.
func (c *Checker) Observe(cycle uint64, p uint8) error {
	rec := Record{Cycle: cycle, Observed: p}

	if v, ok := c.pending[cycle]; ok {
		delete(c.pending, cycle)
		expected, err := emu.Multiply(v.A, v.B)
		if err != nil {
			return fmt.Errorf("reference model: %w", err)
		}
		rec.Kind = KindProduct
		rec.Issued = v.Cycle
		rec.A = v.A
		rec.B = v.B
		rec.Expected = expected
	} else if c.known {
		rec.Kind = KindFlush
		rec.Issued = cycle
	} else {
		return nil
	}

	rec.Pass = rec.Observed == rec.Expected
	c.records = append(c.records, rec)
	c.stats.Checks++

	if rec.Pass {
		c.stats.Passed++
		return nil
	}

	c.stats.Failed++
	return &MismatchError{
		Cycle:    rec.Cycle,
		Issued:   rec.Issued,
		A:        rec.A,
		B:        rec.B,
		Expected: rec.Expected,
		Observed: rec.Observed,
	}
}

// Records returns the verification log in observation order.
func (c *Checker) Records() []Record {
	return c.records
}

// Stats returns the checker statistics.
func (c *Checker) Stats() CheckerStats {
	return c.stats
}
