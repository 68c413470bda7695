package testbench

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintResults outputs scenario results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	out := h.config.Output

	_, _ = fmt.Fprintln(out, "=== Multiplier Verification Results ===")
	_, _ = fmt.Fprintln(out, "")

	for _, r := range results {
		status := "PASS"
		if !r.Pass() {
			status = "FAIL"
		}

		_, _ = fmt.Fprintf(out, "Scenario: %s [%s]\n", r.Name, status)
		_, _ = fmt.Fprintf(out, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(out, "  Cycles:      %d (reset %d)\n", r.Cycles, r.ResetCycles)
		_, _ = fmt.Fprintf(out, "  Checks:      %d\n", r.Checks)
		_, _ = fmt.Fprintf(out, "  Passed:      %d\n", r.Passed)
		_, _ = fmt.Fprintf(out, "  Failed:      %d\n", r.Failed)
		if r.Discarded > 0 {
			_, _ = fmt.Fprintf(out, "  Discarded:   %d (dropped by reset)\n", r.Discarded)
		}
		if r.EarlyResets > 0 {
			_, _ = fmt.Fprintf(out, "  Short reset pulses: %d\n", r.EarlyResets)
		}
		if r.SimTime > 0 {
			_, _ = fmt.Fprintf(out, "  Sim Time:    %.3e s\n", r.SimTime)
		}
		if r.Error != "" {
			_, _ = fmt.Fprintf(out, "  Error:       %s\n", r.Error)
		}

		if h.config.Verbose {
			PrintLog(out, r.Records)
		}

		_, _ = fmt.Fprintf(out, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(out, "")
	}
}

// PrintLog writes the verification log as an aligned table.
func PrintLog(out io.Writer, records []Record) {
	_, _ = fmt.Fprintf(out, "  %6s  %6s  %-7s  %2s  %2s  %8s  %8s  %s\n",
		"cycle", "issued", "kind", "A", "B", "expected", "observed", "result")

	for _, rec := range records {
		result := "pass"
		if !rec.Pass {
			result = "FAIL"
		}
		_, _ = fmt.Fprintf(out, "  %6d  %6d  %-7s  %2d  %2d  %8d  %8d  %s\n",
			rec.Cycle, rec.Issued, rec.Kind, rec.A, rec.B,
			rec.Expected, rec.Observed, result)
	}
}

// PrintCSV outputs scenario results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,reset_cycles,checks,passed,failed,discarded,early_resets,pass")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%d,%d,%t\n",
			r.Name,
			r.Cycles,
			r.ResetCycles,
			r.Checks,
			r.Passed,
			r.Failed,
			r.Discarded,
			r.EarlyResets,
			r.Pass(),
		)
	}
}

// PrintJSON outputs scenario results as indented JSON.
func (h *Harness) PrintJSON(results []Result) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
