package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	log "github.com/sirupsen/logrus"
)

// clockEdgeEvent marks one rising edge of the modeled clock.
type clockEdgeEvent struct {
	*sim.EventBase
	cycle uint64
}

// Clock drives a Stepper from an Akita event engine, one event per clock
// edge. Simulated time advances by one period per cycle.
type Clock struct {
	engine sim.Engine
	freq   sim.Freq
	target Stepper

	cycles    uint64
	remaining uint64
	lastEdge  sim.VTimeInSec
	err       error
}

// NewClock creates a clock that steps target on engine at freq.
func NewClock(engine sim.Engine, freq sim.Freq, target Stepper) *Clock {
	return &Clock{
		engine: engine,
		freq:   freq,
		target: target,
	}
}

// FreqFromConfig returns the clock frequency the configuration asks for.
func FreqFromConfig(c *Core) sim.Freq {
	return sim.Freq(c.Config().ClockFreqMHz) * sim.MHz
}

// Run schedules up to cycles clock edges and runs the engine until they
// have all fired or the target stops. An exhausted input source is a clean
// stop.
func (c *Clock) Run(cycles uint64) error {
	if cycles == 0 {
		return nil
	}

	c.remaining = cycles
	c.err = nil

	first := c.freq.NextTick(c.engine.CurrentTime())
	c.engine.Schedule(c.newEdge(first))

	if err := c.engine.Run(); err != nil {
		return fmt.Errorf("clock engine failed: %w", err)
	}

	if errors.Is(c.err, ErrExhausted) {
		return nil
	}
	return c.err
}

// Handle processes a clock edge.
func (c *Clock) Handle(e sim.Event) error {
	edge, ok := e.(*clockEdgeEvent)
	if !ok {
		return fmt.Errorf("clock cannot handle event of type %T", e)
	}

	c.lastEdge = edge.Time()
	log.Debugf("clock edge %d at %.3e s", edge.cycle, float64(edge.Time()))

	if err := c.target.Step(); err != nil {
		c.err = err
		return nil
	}

	c.cycles++
	c.remaining--
	if c.remaining > 0 {
		c.engine.Schedule(c.newEdge(c.freq.NextTick(edge.Time())))
	}

	return nil
}

func (c *Clock) newEdge(t sim.VTimeInSec) *clockEdgeEvent {
	return &clockEdgeEvent{
		EventBase: sim.NewEventBase(t, c),
		cycle:     c.cycles,
	}
}

// Cycles returns the number of edges that stepped the target successfully.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// LastEdge returns the simulated time of the most recent clock edge.
func (c *Clock) LastEdge() sim.VTimeInSec {
	return c.lastEdge
}

// Period returns the clock period.
func (c *Clock) Period() sim.VTimeInSec {
	return c.freq.Period()
}
