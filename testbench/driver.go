package testbench

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/mulsim/emu"
	"github.com/sarchlab/mulsim/stimulus"
	"github.com/sarchlab/mulsim/timing/core"
	"github.com/sarchlab/mulsim/timing/latency"
)

// Target is the clocked model a Driver stimulates. *core.Core implements it.
type Target interface {
	Tick(a, b uint8, reset bool) (uint8, error)
	Cycle() uint64
	Latency() uint64
	Config() *latency.SimConfig
}

// DriverOption is a functional option for configuring the Driver.
type DriverOption func(*Driver)

// WithFailFast overrides the configured fail-fast behaviour.
func WithFailFast(failFast bool) DriverOption {
	return func(d *Driver) {
		d.failFast = failFast
	}
}

// Driver applies vectors to a Core one cycle at a time and checks the
// products it observes.
type Driver struct {
	target  Target
	checker *Checker

	scheduled *stimulus.Vector
	a, b      uint8
	draining  bool

	failFast   bool
	mismatches []error
}

// NewDriver creates a driver for c. Flush checks are enabled immediately
// when c has not been ticked yet, otherwise after the first reset.
func NewDriver(c Target, opts ...DriverOption) *Driver {
	d := &Driver{
		target:   c,
		checker:  NewChecker(c.Latency(), c.Cycle() == 0),
		failFast: c.Config().FailFast,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Schedule presents A and B on the next Step. The product is expected
// latency cycles later. Scheduling again before Step replaces the vector.
func (d *Driver) Schedule(a, b uint8) error {
	if err := emu.ValidateOperands(a, b); err != nil {
		return err
	}

	if d.scheduled != nil {
		log.Debugf("cycle %d: vector (%d,%d) replaced by (%d,%d)",
			d.scheduled.Cycle, d.scheduled.A, d.scheduled.B, a, b)
	}

	d.scheduled = &stimulus.Vector{Cycle: d.target.Cycle(), A: a, B: b}

	return nil
}

// Step advances the core by one cycle with reset deasserted. It applies the
// scheduled vector, or holds the previous operands when none is scheduled.
// Held operands are captured like any other vector.
func (d *Driver) Step() error {
	return d.tick(false)
}

// AssertReset advances the core by the given number of cycles with reset
// asserted. Outstanding expectations are dropped.
func (d *Driver) AssertReset(cycles int) error {
	for i := 0; i < cycles; i++ {
		if err := d.tick(true); err != nil {
			return err
		}
	}
	return nil
}

// Drain holds the current operands long enough for every outstanding
// expectation to be checked. Drain cycles capture no new expectations.
func (d *Driver) Drain() error {
	for i := uint64(0); i < d.target.Latency(); i++ {
		if err := d.drainStep(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) drainStep() error {
	d.draining = true
	defer func() { d.draining = false }()
	return d.handle(d.Step())
}

func (d *Driver) tick(reset bool) error {
	cycle := d.target.Cycle()

	if d.scheduled != nil {
		d.a, d.b = d.scheduled.A, d.scheduled.B
		d.scheduled = nil
	}

	p, err := d.target.Tick(d.a, d.b, reset)
	if err != nil {
		return err
	}

	log.Debugf("cycle %d: a=%d b=%d reset=%t p=%d", cycle, d.a, d.b, reset, p)

	if reset {
		d.checker.Reset()
	} else if !d.draining {
		d.checker.Expect(stimulus.Vector{Cycle: cycle, A: d.a, B: d.b})
	}

	err = d.checker.Observe(cycle, p)

	var mismatch *MismatchError
	if errors.As(err, &mismatch) {
		log.WithFields(log.Fields{
			"cycle":    mismatch.Cycle,
			"a":        mismatch.A,
			"b":        mismatch.B,
			"expected": mismatch.Expected,
			"observed": mismatch.Observed,
		}).Warn("product mismatch")
	}

	return err
}

// Apply performs one cycle of a stimulus program.
func (d *Driver) Apply(action stimulus.Action) error {
	if action.Reset {
		return d.handle(d.AssertReset(1))
	}

	if action.Load {
		if err := d.Schedule(action.A, action.B); err != nil {
			return err
		}
	}

	return d.handle(d.Step())
}

// handle records mismatches when the driver is not failing fast.
func (d *Driver) handle(err error) error {
	var mismatch *MismatchError
	if !d.failFast && errors.As(err, &mismatch) {
		d.mismatches = append(d.mismatches, err)
		return nil
	}
	return err
}

// RunProgram applies every cycle of p and then drains the pipeline.
// Without fail-fast, all mismatches are returned joined.
func (d *Driver) RunProgram(p *stimulus.Program) error {
	for i, action := range p.Actions() {
		if err := d.Apply(action); err != nil {
			return fmt.Errorf("%s: step %d: %w", p.Name, i, err)
		}
	}

	if err := d.Drain(); err != nil {
		return fmt.Errorf("%s: drain: %w", p.Name, err)
	}

	return d.Err()
}

// Stepper returns a core.Stepper that applies p one cycle per Step, drains
// the pipeline, and then reports core.ErrExhausted.
func (d *Driver) Stepper(p *stimulus.Program) core.Stepper {
	actions := p.Actions()
	next := 0
	drain := d.target.Latency()

	return core.StepperFunc(func() error {
		if next < len(actions) {
			action := actions[next]
			next++
			return d.Apply(action)
		}
		if drain > 0 {
			drain--
			return d.drainStep()
		}
		return core.ErrExhausted
	})
}

// Err returns every mismatch recorded so far, joined, or nil.
func (d *Driver) Err() error {
	return errors.Join(d.mismatches...)
}

// Outstanding returns the number of expectations not yet checked.
func (d *Driver) Outstanding() int {
	return d.checker.Outstanding()
}

// Records returns the verification log.
func (d *Driver) Records() []Record {
	return d.checker.Records()
}

// Stats returns the checker statistics.
func (d *Driver) Stats() CheckerStats {
	return d.checker.Stats()
}

// Target returns the driven model.
func (d *Driver) Target() Target {
	return d.target
}
