// Package stimulus provides input vectors and stimulus programs for the
// multiplier testbench.
//
// A stimulus program is a list of commands, each spanning one or more
// cycles:
//
//	reset 2     # assert reset for two cycles
//	vec 3 2     # present A=3, B=2 for one cycle
//	idle 4      # hold the last operands for four cycles
//
// Programs can be parsed from text with Parse or Load, or taken from the
// built-in scenarios.
package stimulus

import "fmt"

// Vector is one pair of operands presented at a given cycle.
type Vector struct {
	Cycle uint64 `json:"cycle"`
	A     uint8  `json:"a"`
	B     uint8  `json:"b"`
}

// Product returns the expected result of the vector.
func (v Vector) Product() uint8 {
	return v.A * v.B
}

// Op represents a stimulus command.
type Op uint8

// Stimulus commands.
const (
	OpUnknown Op = iota
	OpReset      // assert reset for Count cycles
	OpVector     // present A, B for one cycle
	OpIdle       // hold the previous operands for Count cycles
)

// String returns the command keyword.
func (o Op) String() string {
	switch o {
	case OpReset:
		return "reset"
	case OpVector:
		return "vec"
	case OpIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Command is a single stimulus program step.
type Command struct {
	Op    Op
	A     uint8 // operand A (OpVector only)
	B     uint8 // operand B (OpVector only)
	Count int   // cycle count (OpReset, OpIdle)
}

// Cycles returns how many clock cycles the command spans.
func (c Command) Cycles() int {
	if c.Op == OpVector {
		return 1
	}
	return c.Count
}

// String formats the command in stimulus file syntax.
func (c Command) String() string {
	if c.Op == OpVector {
		return fmt.Sprintf("%s %d %d", c.Op, c.A, c.B)
	}
	return fmt.Sprintf("%s %d", c.Op, c.Count)
}

// Action is what the driver does during one cycle.
type Action struct {
	// Reset asserts reset for the cycle.
	Reset bool
	// Load presents A and B as a new vector. When false and Reset is false,
	// the previous operands are held.
	Load bool
	A    uint8
	B    uint8
}

// Program is a named stimulus sequence.
type Program struct {
	Name        string
	Description string
	Commands    []Command
}

// Add appends commands and returns the program for chaining.
func (p *Program) Add(cmds ...Command) *Program {
	p.Commands = append(p.Commands, cmds...)
	return p
}

// Reset appends a reset pulse of n cycles.
func (p *Program) Reset(n int) *Program {
	return p.Add(Command{Op: OpReset, Count: n})
}

// Vec appends a single vector.
func (p *Program) Vec(a, b uint8) *Program {
	return p.Add(Command{Op: OpVector, A: a, B: b})
}

// Idle appends n cycles that hold the previous operands.
func (p *Program) Idle(n int) *Program {
	return p.Add(Command{Op: OpIdle, Count: n})
}

// Cycles returns the total number of cycles the program spans.
func (p *Program) Cycles() int {
	total := 0
	for _, c := range p.Commands {
		total += c.Cycles()
	}
	return total
}

// Actions expands the program into one Action per cycle.
func (p *Program) Actions() []Action {
	actions := make([]Action, 0, p.Cycles())
	for _, c := range p.Commands {
		switch c.Op {
		case OpReset:
			for i := 0; i < c.Count; i++ {
				actions = append(actions, Action{Reset: true})
			}
		case OpVector:
			actions = append(actions, Action{Load: true, A: c.A, B: c.B})
		case OpIdle:
			for i := 0; i < c.Count; i++ {
				actions = append(actions, Action{})
			}
		}
	}
	return actions
}

// String formats the program in stimulus file syntax.
func (p *Program) String() string {
	var out []byte
	if p.Name != "" {
		out = fmt.Appendf(out, "# %s\n", p.Name)
	}
	if p.Description != "" {
		out = fmt.Appendf(out, "# %s\n", p.Description)
	}
	for _, c := range p.Commands {
		out = fmt.Appendf(out, "%s\n", c)
	}
	return string(out)
}
