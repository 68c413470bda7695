// Package trace exports per-cycle register snapshots for waveform-style
// inspection and compares traces from separate runs.
package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/mulsim/timing/core"
)

// Signal describes one traced value.
type Signal struct {
	Name  string
	Width int
	Value func(e core.TraceEntry) uint64
}

// Signals lists every traced signal in waveform order: the inputs, then
// the six registers.
var Signals = []Signal{
	{"reset", 1, func(e core.TraceEntry) uint64 { return boolBit(e.Reset) }},
	{"a", 4, func(e core.TraceEntry) uint64 { return uint64(e.A) }},
	{"b", 4, func(e core.TraceEntry) uint64 { return uint64(e.B) }},
	{"pp0", 4, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage1.PP[0]) }},
	{"pp1", 4, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage1.PP[1]) }},
	{"pp2", 4, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage1.PP[2]) }},
	{"pp3", 4, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage1.PP[3]) }},
	{"s1_a", 6, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage2.S1A) }},
	{"s1_b", 8, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage2.S1B) }},
	{"p", 8, func(e core.TraceEntry) uint64 { return uint64(e.Registers.Stage3.P) }},
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// WriteJSON writes the trace as an indented JSON array.
func WriteJSON(w io.Writer, entries []core.TraceEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	return nil
}

// ReadJSON reads a trace written by WriteJSON.
func ReadJSON(r io.Reader) ([]core.TraceEntry, error) {
	var entries []core.TraceEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}
	return entries, nil
}

// WriteCSV writes one row per cycle with a column per signal.
func WriteCSV(w io.Writer, entries []core.TraceEntry) error {
	cw := csv.NewWriter(w)

	header := []string{"cycle"}
	for _, s := range Signals {
		header = append(header, s.Name)
	}
	header = append(header, "observed")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write trace header: %w", err)
	}

	for _, e := range entries {
		row := []string{strconv.FormatUint(e.Cycle, 10)}
		for _, s := range Signals {
			row = append(row, strconv.FormatUint(s.Value(e), 10))
		}
		row = append(row, strconv.Itoa(int(e.Observed)))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write trace row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
