package netlist

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/sarchlab/mulsim/timing/latency"
)

// Report is what a backend returns for a submitted design.
type Report struct {
	Backend   string      `json:"backend"`
	Design    string      `json:"design"`
	Registers int         `json:"registers"`
	FlipFlops int         `json:"flip_flops"`
	Stages    int         `json:"stages"`
	Latency   uint64      `json:"latency_cycles"`
	Clock     Constraints `json:"constraints"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// Backend consumes a design and its constraints. Implementations are
// external tools; the simulator never looks inside.
type Backend interface {
	Submit(ctx context.Context, d *Design, c Constraints) (*Report, error)
}

// DryRunBackend checks a design for structural consistency and summarises
// it without producing any physical output.
type DryRunBackend struct{}

// Submit validates d and c.
func (DryRunBackend) Submit(
	ctx context.Context,
	d *Design,
	c Constraints,
) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Validate(d, c); err != nil {
		return nil, fmt.Errorf("design %s rejected: %w", d.Name, err)
	}

	stages := map[latency.Stage]bool{}
	for _, r := range d.Registers {
		stages[r.Stage] = true
	}

	report := &Report{
		Backend:   "dry-run",
		Design:    d.Name,
		Registers: len(d.Registers),
		FlipFlops: d.FlipFlops(),
		Stages:    len(stages),
		Latency:   c.LatencyCycles,
		Clock:     c,
	}

	for _, r := range d.Registers {
		if need := bits.Len64(r.Max); need < r.Width {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s is %d bits wide but never exceeds %d bits", r.Name, r.Width, need))
		}
	}

	return report, nil
}

// Validate checks that every register is wide enough for its range, reads
// only known signals, and that the constraints agree with the design.
func Validate(d *Design, c Constraints) error {
	var errs []error

	known := map[string]bool{}
	for _, p := range d.Ports {
		known[p.Name] = true
	}
	for _, r := range d.Registers {
		known[r.Name] = true
	}

	for _, r := range d.Registers {
		if need := bits.Len64(r.Max); need > r.Width {
			errs = append(errs, fmt.Errorf("%s needs %d bits, has %d", r.Name, need, r.Width))
		}
		for _, src := range r.Sources {
			if !known[src] {
				errs = append(errs, fmt.Errorf("%s reads unknown signal %q", r.Name, src))
			}
		}
	}

	out, ok := d.Register(d.OutputRegister)
	if !ok {
		errs = append(errs, fmt.Errorf("output register %q not found", d.OutputRegister))
	} else if port, ok := d.Port("p"); ok && port.Width < out.Width {
		errs = append(errs, fmt.Errorf("output port p[%d] narrower than %s[%d]",
			port.Width, out.Name, out.Width))
	}

	if c.ClockPort != d.Clock {
		errs = append(errs, fmt.Errorf("clock constraint on %q, design clock is %q", c.ClockPort, d.Clock))
	}
	if c.ResetPort != d.Reset {
		errs = append(errs, fmt.Errorf("reset constraint on %q, design reset is %q", c.ResetPort, d.Reset))
	}
	if c.ClockPeriodNs <= 0 {
		errs = append(errs, fmt.Errorf("clock period must be > 0, got %v", c.ClockPeriodNs))
	}
	if c.ResetHoldCycles == 0 {
		errs = append(errs, errors.New("reset hold must be at least one cycle"))
	}

	return errors.Join(errs...)
}
