// Package core provides the clocked simulation engine for the multiplier.
// It wraps the datapath with a cycle counter, reset-hold tracking and an
// optional register trace.
package core

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/mulsim/timing/latency"
	"github.com/sarchlab/mulsim/timing/pipeline"
)

// Stats holds activity statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// ResetCycles is the number of cycles with reset asserted.
	ResetCycles uint64
	// EarlyReleases counts reset pulses shorter than the hold requirement.
	EarlyReleases uint64
}

// TraceEntry is a snapshot of one simulated cycle.
type TraceEntry struct {
	// Cycle is the zero-based index of the cycle.
	Cycle uint64 `json:"cycle"`
	// A and B are the operands applied during the cycle.
	A uint8 `json:"a"`
	B uint8 `json:"b"`
	// Reset reports whether reset was asserted.
	Reset bool `json:"reset"`
	// Observed is the P value seen during the cycle.
	Observed uint8 `json:"observed"`
	// Registers is the register file after the cycle's clock edge.
	Registers pipeline.RegisterFile `json:"registers"`
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*Core)

// WithConfig sets the simulation configuration.
func WithConfig(config *latency.SimConfig) CoreOption {
	return func(c *Core) {
		c.config = config
	}
}

// WithTrace enables per-cycle register snapshots.
func WithTrace() CoreOption {
	return func(c *Core) {
		c.recordTrace = true
	}
}

// Core represents the clocked multiplier model.
type Core struct {
	// Datapath is the underlying 3-stage multiplier.
	Datapath *pipeline.Datapath

	config *latency.SimConfig
	table  *latency.Table

	cycle         uint64
	resetRun      uint64
	settled       bool
	earlyReleases uint64

	recordTrace bool
	trace       []TraceEntry
}

// NewCore creates a new Core with a freshly cleared datapath.
func NewCore(opts ...CoreOption) *Core {
	c := &Core{
		Datapath: pipeline.NewDatapath(),
		config:   latency.DefaultSimConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.config.RecordTrace {
		c.recordTrace = true
	}
	c.table = latency.NewTable()

	return c
}

// Tick executes one clock cycle and returns the P observed during it.
func (c *Core) Tick(a, b uint8, reset bool) (uint8, error) {
	p, err := c.Datapath.Advance(a, b, reset)
	if err != nil {
		return 0, fmt.Errorf("cycle %d: %w", c.cycle, err)
	}

	c.trackReset(reset)

	if c.recordTrace {
		regs := c.Datapath.Registers()
		if err := regs.CheckBounds(); err != nil {
			return p, fmt.Errorf("cycle %d: %w", c.cycle, err)
		}
		c.trace = append(c.trace, TraceEntry{
			Cycle:     c.cycle,
			A:         a,
			B:         b,
			Reset:     reset,
			Observed:  p,
			Registers: regs,
		})
	}

	c.cycle++

	return p, nil
}

// trackReset follows the length of the current reset pulse.
func (c *Core) trackReset(reset bool) {
	hold := c.config.ResetHoldCycles

	if reset {
		c.resetRun++
		if c.resetRun >= hold {
			c.settled = true
		}
		return
	}

	if c.resetRun > 0 && c.resetRun < hold {
		c.earlyReleases++
		c.settled = false
		log.WithFields(log.Fields{
			"cycle": c.cycle,
			"held":  c.resetRun,
			"need":  hold,
		}).Warn("reset released before hold requirement")
	}
	c.resetRun = 0
}

// Cycle returns the index of the next cycle to be simulated.
func (c *Core) Cycle() uint64 {
	return c.cycle
}

// ResetSettled reports whether the most recent reset pulse was held for at
// least the configured number of cycles. It is false until the first such
// pulse.
func (c *Core) ResetSettled() bool {
	return c.settled
}

// InReset reports whether reset was asserted on the last cycle.
func (c *Core) InReset() bool {
	return c.resetRun > 0
}

// Latency returns the number of cycles between applying a vector and
// observing its product.
func (c *Core) Latency() uint64 {
	return c.table.Total()
}

// Config returns the simulation configuration.
func (c *Core) Config() *latency.SimConfig {
	return c.config
}

// Trace returns the recorded per-cycle snapshots.
func (c *Core) Trace() []TraceEntry {
	return c.trace
}

// Stats returns activity statistics for the core.
func (c *Core) Stats() Stats {
	dpStats := c.Datapath.Stats()
	return Stats{
		Cycles:        dpStats.Cycles,
		ResetCycles:   dpStats.ResetCycles,
		EarlyReleases: c.earlyReleases,
	}
}

// Run feeds the core from source for up to the given number of cycles.
// It stops early when the source is exhausted.
func (c *Core) Run(source InputSource, cycles uint64) error {
	stepper := c.Drive(source)
	for i := uint64(0); i < cycles; i++ {
		if err := stepper.Step(); err != nil {
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Reset clears all core state, including the trace.
func (c *Core) Reset() {
	c.Datapath.Reset()
	c.cycle = 0
	c.resetRun = 0
	c.settled = false
	c.earlyReleases = 0
	c.trace = nil
}
