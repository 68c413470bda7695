package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/mulsim/netlist"
)

func newNetlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netlist",
		Short: "Print the structural description handed to the backend.",
		Long: `Describes the multiplier's ports and registers, derives constraints from
the configuration, and submits both to the dry-run backend.`,
		Args: cobra.NoArgs,
		RunE: describeNetlist,
	}

	cmd.Flags().Bool("json", false, "print the design, constraints and report as JSON")

	return cmd
}

func describeNetlist(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	design := netlist.Describe()
	constraints := netlist.ConstraintsFromConfig(design, config)

	var backend netlist.Backend = netlist.DryRunBackend{}
	report, err := backend.Submit(context.Background(), design, constraints)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if GetFlag(cmd, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Design *netlist.Design `json:"design"`
			Report *netlist.Report `json:"report"`
		}{design, report})
	}

	_, _ = fmt.Fprint(out, design.Tree().String())
	_, _ = fmt.Fprintf(out, "\nbackend:    %s\n", report.Backend)
	_, _ = fmt.Fprintf(out, "registers:  %d (%d flip-flops)\n", report.Registers, report.FlipFlops)
	_, _ = fmt.Fprintf(out, "latency:    %d cycles\n", report.Latency)
	_, _ = fmt.Fprintf(out, "clock:      %s %.3f ns\n", constraints.ClockPort, constraints.ClockPeriodNs)
	_, _ = fmt.Fprintf(out, "reset:      %s held %d cycles\n", constraints.ResetPort, constraints.ResetHoldCycles)
	for _, w := range report.Warnings {
		_, _ = fmt.Fprintf(out, "warning:    %s\n", w)
	}
	return nil
}
