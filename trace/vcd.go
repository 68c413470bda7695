package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/sarchlab/mulsim/timing/core"
)

// VCDOptions controls the header of a VCD dump.
type VCDOptions struct {
	Module   string
	PeriodNs float64
}

// DefaultVCDOptions returns options for a 100 MHz clock.
func DefaultVCDOptions() VCDOptions {
	return VCDOptions{
		Module:   "mul4x4",
		PeriodNs: 10,
	}
}

// vcdTimescale is the unit every timestamp is written in.
const vcdTimescale = "1ps"

// edgeTicks returns the picosecond timestamps of the rising and falling
// edge of cycle n, each rounded from the exact time. The period is clamped
// to 2ps so the two edges never coincide.
func edgeTicks(n int, periodNs float64) (rise, fall int64) {
	periodPs := math.Max(periodNs*1000, 2)
	rise = int64(math.Round(float64(n) * periodPs))
	fall = int64(math.Round((float64(n) + 0.5) * periodPs))
	return rise, fall
}

// WriteVCD writes the trace as a value change dump. Each cycle occupies one
// clock period; a value is emitted only when it differs from the previous
// cycle.
func WriteVCD(w io.Writer, entries []core.TraceEntry, o VCDOptions) error {
	if o.Module == "" {
		o.Module = "mul4x4"
	}
	if o.PeriodNs <= 0 {
		o.PeriodNs = 10
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "$timescale %s $end\n", vcdTimescale)
	fmt.Fprintf(bw, "$scope module %s $end\n", o.Module)
	fmt.Fprintf(bw, "$var wire 1 %s clk $end\n", vcdID(len(Signals)))
	for i, s := range Signals {
		fmt.Fprintf(bw, "$var wire %d %s %s $end\n", s.Width, vcdID(i), s.Name)
	}
	fmt.Fprintln(bw, "$upscope $end")
	fmt.Fprintln(bw, "$enddefinitions $end")

	clk := vcdID(len(Signals))
	prev := make([]uint64, len(Signals))

	for n, e := range entries {
		rise, fall := edgeTicks(n, o.PeriodNs)
		fmt.Fprintf(bw, "#%d\n", rise)
		fmt.Fprintf(bw, "1%s\n", clk)

		for i, s := range Signals {
			v := s.Value(e)
			if n > 0 && v == prev[i] {
				continue
			}
			prev[i] = v
			writeVCDValue(bw, s, v, vcdID(i))
		}

		fmt.Fprintf(bw, "#%d\n", fall)
		fmt.Fprintf(bw, "0%s\n", clk)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write vcd: %w", err)
	}
	return nil
}

func writeVCDValue(w io.Writer, s Signal, v uint64, id string) {
	if s.Width == 1 {
		fmt.Fprintf(w, "%d%s\n", v&1, id)
		return
	}
	fmt.Fprintf(w, "b%s %s\n", strconv.FormatUint(v, 2), id)
}

// vcdID maps an index onto the printable identifier range used by VCD.
func vcdID(i int) string {
	const first, span = '!', '~' - '!' + 1
	id := ""
	for {
		id += string(rune(first + i%span))
		i /= span
		if i == 0 {
			return id
		}
		i--
	}
}
