// Package netlist describes the multiplier structurally for an external
// physical-design backend. The backend itself is opaque: this package only
// produces the logical description and the constraints it consumes.
package netlist

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xlab/treeprint"

	"github.com/sarchlab/mulsim/emu"
	"github.com/sarchlab/mulsim/timing/latency"
	"github.com/sarchlab/mulsim/timing/pipeline"
)

// Direction of a top-level port.
type Direction string

// Port directions.
const (
	Input  Direction = "input"
	Output Direction = "output"
)

// Port is a top-level pin of the design.
type Port struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Width     int       `json:"width"`
}

// Register is one clocked state element.
type Register struct {
	Name  string        `json:"name"`
	Width int           `json:"width"`
	Stage latency.Stage `json:"stage"`
	// Max is the largest value the register can hold.
	Max uint64 `json:"max"`
	// Next is the next-state expression sampled at the clock edge.
	Next string `json:"next"`
	// Sources lists the signals Next reads.
	Sources []string `json:"sources"`
}

// Design is the logical description handed to a backend.
type Design struct {
	Name      string     `json:"name"`
	Clock     string     `json:"clock"`
	Reset     string     `json:"reset"`
	Ports     []Port     `json:"ports"`
	Registers []Register `json:"registers"`
	// OutputRegister names the register driving the product port.
	OutputRegister string `json:"output_register"`
}

// Describe returns the structure of the 3-stage multiplier.
func Describe() *Design {
	d := &Design{
		Name:  "mul4x4",
		Clock: "clk",
		Reset: "reset",
		Ports: []Port{
			{Name: "clk", Direction: Input, Width: 1},
			{Name: "reset", Direction: Input, Width: 1},
			{Name: "a", Direction: Input, Width: emu.OperandBits},
			{Name: "b", Direction: Input, Width: emu.OperandBits},
			{Name: "p", Direction: Output, Width: emu.ProductBits},
		},
		OutputRegister: "p_reg",
	}

	for i := 0; i < 4; i++ {
		d.Registers = append(d.Registers, Register{
			Name:    fmt.Sprintf("pp%d", i),
			Width:   pipeline.PartialProductBits,
			Stage:   latency.StagePartialProducts,
			Max:     pipeline.MaxPartialProduct,
			Next:    fmt.Sprintf("b[%d] ? a : 0", i),
			Sources: []string{"a", "b"},
		})
	}

	d.Registers = append(d.Registers,
		Register{
			Name:    "s1_a",
			Width:   pipeline.S1ABits,
			Stage:   latency.StageReduction,
			Max:     pipeline.MaxS1A,
			Next:    "pp0 + (pp1 << 1)",
			Sources: []string{"pp0", "pp1"},
		},
		Register{
			Name:    "s1_b",
			Width:   pipeline.S1BBits,
			Stage:   latency.StageReduction,
			Max:     pipeline.MaxS1B,
			Next:    "(pp2 << 2) + (pp3 << 3)",
			Sources: []string{"pp2", "pp3"},
		},
		Register{
			Name:    "p_reg",
			Width:   pipeline.ProductBits,
			Stage:   latency.StageFinalSum,
			Max:     pipeline.MaxProduct,
			Next:    "s1_a + s1_b",
			Sources: []string{"s1_a", "s1_b"},
		},
	)

	return d
}

// Register returns the register with the given name.
func (d *Design) Register(name string) (Register, bool) {
	for _, r := range d.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// Port returns the port with the given name.
func (d *Design) Port(name string) (Port, bool) {
	for _, p := range d.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// FlipFlops is the total number of state bits.
func (d *Design) FlipFlops() int {
	n := 0
	for _, r := range d.Registers {
		n += r.Width
	}
	return n
}

// Tree renders the design grouped by pipeline stage.
func (d *Design) Tree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s (clock %s, reset %s)", d.Name, d.Clock, d.Reset))

	ports := tree.AddBranch("ports")
	for _, p := range d.Ports {
		ports.AddMetaNode(p.Direction, fmt.Sprintf("%s[%d]", p.Name, p.Width))
	}

	stages := tree.AddBranch("stages")
	for _, s := range latency.NewTable().Stages() {
		branch := stages.AddBranch(s.String())
		for _, r := range d.Registers {
			if r.Stage != s {
				continue
			}
			branch.AddMetaNode(r.Width, fmt.Sprintf("%s <= %s", r.Name, r.Next))
		}
	}

	return tree
}

// WriteJSON writes the design as indented JSON.
func (d *Design) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode design: %w", err)
	}
	return nil
}

// Constraints are the timing and reset requirements passed to a backend.
type Constraints struct {
	ClockPort     string  `json:"clock_port"`
	ClockPeriodNs float64 `json:"clock_period_ns"`
	ResetPort     string  `json:"reset_port"`
	// ResetHoldCycles is the number of cycles reset must stay asserted.
	ResetHoldCycles uint64 `json:"reset_hold_cycles"`
	// LatencyCycles is the input-to-output register depth.
	LatencyCycles uint64 `json:"latency_cycles"`
}

// ConstraintsFromConfig derives backend constraints from a simulation
// configuration.
func ConstraintsFromConfig(d *Design, c *latency.SimConfig) Constraints {
	return Constraints{
		ClockPort:       d.Clock,
		ClockPeriodNs:   c.ClockPeriodNs(),
		ResetPort:       d.Reset,
		ResetHoldCycles: c.ResetHoldCycles,
		LatencyCycles:   latency.NewTable().Total(),
	}
}
