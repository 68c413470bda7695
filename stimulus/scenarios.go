package stimulus

import (
	"fmt"
	"math/rand"
	"sort"
)

// EndToEnd returns the reference scenario: reset for two cycles, then six
// back-to-back vectors. The products 6, 28, 27, 225, 48 are observed on
// cycles 4 to 8 after reset release.
func EndToEnd() *Program {
	p := &Program{
		Name:        "end_to_end",
		Description: "2-cycle reset then (3,2) (7,4) (9,3) (15,15) (6,8) (0,0)",
	}
	return p.Reset(2).
		Vec(3, 2).
		Vec(7, 4).
		Vec(9, 3).
		Vec(15, 15).
		Vec(6, 8).
		Vec(0, 0)
}

// Exhaustive presents all 256 operand pairs back to back.
func Exhaustive() *Program {
	p := &Program{
		Name:        "exhaustive",
		Description: "all 256 operand pairs at full throughput",
	}
	p.Reset(2)
	for a := uint8(0); a < 16; a++ {
		for b := uint8(0); b < 16; b++ {
			p.Vec(a, b)
		}
	}
	return p
}

// Boundary exercises the minimum and maximum products.
func Boundary() *Program {
	p := &Program{
		Name:        "boundary",
		Description: "15*15, zero operands and single-bit operands",
	}
	return p.Reset(2).
		Vec(15, 15).
		Vec(0, 15).
		Vec(15, 0).
		Vec(0, 0).
		Vec(1, 1).
		Vec(8, 8).
		Vec(15, 1).
		Vec(1, 15).
		Vec(15, 15)
}

// HoldIdle presents vectors separated by held cycles. Every held cycle is
// still captured and repeats the previous product.
func HoldIdle() *Program {
	p := &Program{
		Name:        "hold_idle",
		Description: "vectors separated by held (idle) cycles",
	}
	return p.Reset(2).
		Vec(5, 7).
		Idle(4).
		Vec(12, 3).
		Vec(12, 3).
		Idle(2).
		Vec(0, 9).
		Idle(3)
}

// MidStreamReset interrupts a full pipeline with a reset pulse. Vectors in
// flight when reset asserts are dropped.
func MidStreamReset() *Program {
	p := &Program{
		Name:        "mid_stream_reset",
		Description: "reset asserted while three vectors are in flight",
	}
	return p.Reset(2).
		Vec(9, 9).
		Vec(10, 11).
		Vec(13, 2).
		Reset(2).
		Vec(4, 4).
		Vec(14, 15).
		Idle(1)
}

// Random presents n pseudo-random vectors generated from seed. The same
// seed always yields the same program.
func Random(seed int64, n int) *Program {
	p := &Program{
		Name:        fmt.Sprintf("random_%d", seed),
		Description: fmt.Sprintf("%d random vectors, seed %d", n, seed),
	}
	rng := rand.New(rand.NewSource(seed))
	p.Reset(2)
	for i := 0; i < n; i++ {
		p.Vec(uint8(rng.Intn(16)), uint8(rng.Intn(16)))
	}
	return p
}

var builtins = map[string]func() *Program{
	"end_to_end":       EndToEnd,
	"exhaustive":       Exhaustive,
	"boundary":         Boundary,
	"hold_idle":        HoldIdle,
	"mid_stream_reset": MidStreamReset,
	"random":           func() *Program { return Random(1, 1000) },
}

// Lookup returns the built-in scenario with the given name.
func Lookup(name string) (*Program, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return build(), nil
}

// Names returns the built-in scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every built-in scenario, ordered by name.
func All() []*Program {
	programs := make([]*Program, 0, len(builtins))
	for _, name := range Names() {
		programs = append(programs, builtins[name]())
	}
	return programs
}
