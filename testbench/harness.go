package testbench

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/mulsim/stimulus"
	"github.com/sarchlab/mulsim/timing/core"
	"github.com/sarchlab/mulsim/timing/latency"
)

// Result holds the outcome of one verification scenario.
type Result struct {
	// Name identifies the scenario.
	Name string `json:"name"`

	// Description explains what the scenario exercises.
	Description string `json:"description"`

	// Cycles is the number of simulated cycles, including the drain.
	Cycles uint64 `json:"cycles"`

	// ResetCycles is the number of cycles with reset asserted.
	ResetCycles uint64 `json:"reset_cycles"`

	// EarlyResets counts reset pulses shorter than the configured hold.
	EarlyResets uint64 `json:"early_resets"`

	// Checker statistics.
	Checks    uint64 `json:"checks"`
	Passed    uint64 `json:"passed"`
	Failed    uint64 `json:"failed"`
	Discarded uint64 `json:"discarded"`

	// Records is the verification log.
	Records []Record `json:"records,omitempty"`

	// Trace holds per-cycle register snapshots when tracing is enabled.
	Trace []core.TraceEntry `json:"-"`

	// Error is the first error text, if the scenario did not pass.
	Error string `json:"error,omitempty"`

	// SimTime is the simulated time in seconds (event-engine runs only).
	SimTime float64 `json:"sim_time_s,omitempty"`

	// WallTime is the actual time taken to run the scenario.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Pass reports whether the scenario ran without errors or mismatches.
func (r Result) Pass() bool {
	return r.Error == "" && r.Failed == 0
}

// HarnessConfig configures the verification harness.
type HarnessConfig struct {
	// Sim is the simulation configuration applied to every scenario.
	Sim *latency.SimConfig

	// UseEventEngine clocks scenarios through an Akita serial engine
	// instead of a plain loop.
	UseEventEngine bool

	// Output is where reports are written (default: os.Stdout).
	Output io.Writer

	// Verbose includes the full verification log in reports.
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Sim:            latency.DefaultSimConfig(),
		UseEventEngine: false,
		Output:         os.Stdout,
		Verbose:        false,
	}
}

// Harness runs verification scenarios and reports results.
type Harness struct {
	config    HarnessConfig
	scenarios []*stimulus.Program
}

// NewHarness creates a new verification harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Sim == nil {
		config.Sim = latency.DefaultSimConfig()
	}
	return &Harness{
		config:    config,
		scenarios: []*stimulus.Program{},
	}
}

// AddScenario adds a scenario to the harness.
func (h *Harness) AddScenario(p *stimulus.Program) {
	h.scenarios = append(h.scenarios, p)
}

// AddScenarios adds multiple scenarios to the harness.
func (h *Harness) AddScenarios(programs []*stimulus.Program) {
	h.scenarios = append(h.scenarios, programs...)
}

// RunAll executes all scenarios in order, one after another.
func (h *Harness) RunAll() []Result {
	results := make([]Result, 0, len(h.scenarios))

	for _, p := range h.scenarios {
		results = append(results, h.Run(p))
	}

	return results
}

// RunSuite executes all scenarios concurrently, at most Sim.Parallelism at
// a time. Each scenario gets its own core, so nothing is shared between
// goroutines. Results are returned in the order scenarios were added.
func (h *Harness) RunSuite(ctx context.Context) ([]Result, error) {
	if err := h.config.Sim.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sim config: %w", err)
	}

	results := make([]Result, len(h.scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.Sim.Parallelism)

	for i, p := range h.scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = h.Run(p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scenario suite interrupted: %w", err)
	}

	return results, nil
}

// Run executes a single scenario on a fresh core.
func (h *Harness) Run(p *stimulus.Program) Result {
	c := core.NewCore(core.WithConfig(h.config.Sim.Clone()))
	driver := NewDriver(c)

	log.Debugf("running scenario %s (%d cycles)", p.Name, p.Cycles())

	start := time.Now()
	var (
		err     error
		simTime float64
	)
	if h.config.UseEventEngine {
		simTime, err = runOnEngine(c, driver, p)
	} else {
		err = driver.RunProgram(p)
	}
	wallTime := time.Since(start)

	coreStats := c.Stats()
	checkStats := driver.Stats()
	result := Result{
		Name:        p.Name,
		Description: p.Description,
		Cycles:      coreStats.Cycles,
		ResetCycles: coreStats.ResetCycles,
		EarlyResets: coreStats.EarlyReleases,
		Checks:      checkStats.Checks,
		Passed:      checkStats.Passed,
		Failed:      checkStats.Failed,
		Discarded:   checkStats.Discarded,
		Records:     driver.Records(),
		Trace:       c.Trace(),
		SimTime:     simTime,
		WallTime:    wallTime,
	}
	if err != nil {
		result.Error = err.Error()
		log.WithField("scenario", p.Name).Warnf("scenario failed: %v", err)
	}

	return result
}

// runOnEngine clocks the driver from an Akita serial engine and returns
// the simulated time of the last edge.
func runOnEngine(c *core.Core, driver *Driver, p *stimulus.Program) (float64, error) {
	engine := sim.NewSerialEngine()
	clock := core.NewClock(engine, core.FreqFromConfig(c), driver.Stepper(p))

	cycles := uint64(p.Cycles()) + c.Latency()
	if err := clock.Run(cycles); err != nil {
		return float64(clock.LastEdge()), fmt.Errorf("%s: %w", p.Name, err)
	}

	return float64(clock.LastEdge()), driver.Err()
}

// Config returns the harness configuration.
func (h *Harness) Config() HarnessConfig {
	return h.config
}
