package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/mulsim/stimulus"
	"github.com/sarchlab/mulsim/testbench"
	"github.com/sarchlab/mulsim/timing/core"
	"github.com/sarchlab/mulsim/timing/latency"
	"github.com/sarchlab/mulsim/trace"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [flags] scenario",
		Short: "Export the register trace of one scenario.",
		Long: `Runs a single scenario with tracing enabled and writes one register
snapshot per cycle as json, csv, vcd or html.`,
		Args: cobra.MaximumNArgs(1),
		RunE: traceScenario,
	}

	cmd.Flags().StringP("format", "F", "json", "output format: json, csv, vcd or html")
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringP("file", "f", "", "trace a stimulus file instead of a built-in scenario")

	return cmd
}

func traceScenario(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := pickProgram(args, GetString(cmd, "file"))
	if err != nil {
		return err
	}

	entries, err := recordTrace(config, p, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path := GetString(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	return writeTrace(out, GetString(cmd, "format"), p.Name, entries, config)
}

// pickProgram returns the named scenario, the stimulus file, or end_to_end.
func pickProgram(args []string, file string) (*stimulus.Program, error) {
	switch {
	case file != "":
		return stimulus.Load(file)
	case len(args) == 1:
		return stimulus.Lookup(args[0])
	default:
		return stimulus.EndToEnd(), nil
	}
}

// recordTrace runs p once with tracing on. A failing scenario still
// yields its trace; the failure is returned alongside it.
func recordTrace(
	config *latency.SimConfig,
	p *stimulus.Program,
	useEngine bool,
) ([]core.TraceEntry, error) {
	config = config.Clone()
	config.RecordTrace = true

	harness := testbench.NewHarness(testbench.HarnessConfig{
		Sim:            config,
		UseEventEngine: useEngine,
		Output:         io.Discard,
	})
	r := harness.Run(p)
	if !r.Pass() {
		return r.Trace, fmt.Errorf("scenario %s failed: %s", r.Name, r.Error)
	}
	return r.Trace, nil
}

func writeTrace(
	out io.Writer,
	format, name string,
	entries []core.TraceEntry,
	config *latency.SimConfig,
) error {
	switch format {
	case "json":
		return trace.WriteJSON(out, entries)
	case "csv":
		return trace.WriteCSV(out, entries)
	case "vcd":
		o := trace.DefaultVCDOptions()
		o.PeriodNs = config.ClockPeriodNs()
		return trace.WriteVCD(out, entries, o)
	case "html":
		return trace.WriteHTML(out, name, entries)
	default:
		return fmt.Errorf("unknown trace format %q", format)
	}
}
