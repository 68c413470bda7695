package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/mulsim/testbench"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [scenario...]",
		Short: "Run verification scenarios.",
		Long: `Runs built-in scenarios by name (or "all") and stimulus files given
with --file. With no arguments every built-in scenario runs.`,
		RunE: runScenarios,
	}

	cmd.Flags().StringSliceP("file", "f", nil, "stimulus file to run (repeatable)")
	cmd.Flags().Bool("json", false, "print results as JSON")
	cmd.Flags().Bool("csv", false, "print results as CSV")
	cmd.Flags().Bool("parallel", false, "run scenarios concurrently")
	cmd.Flags().Bool("engine", false, "clock scenarios through the event engine")
	cmd.Flags().Bool("log", false, "include the verification log in the report")

	return cmd
}

func runScenarios(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := cmd.Flags().GetStringSlice("file")
	if err != nil {
		return err
	}
	programs, err := selectPrograms(args, files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	harness := testbench.NewHarness(testbench.HarnessConfig{
		Sim:            config,
		UseEventEngine: GetFlag(cmd, "engine"),
		Output:         out,
		Verbose:        GetFlag(cmd, "log"),
	})
	harness.AddScenarios(programs)

	var results []testbench.Result
	if GetFlag(cmd, "parallel") {
		results, err = harness.RunSuite(context.Background())
		if err != nil {
			return err
		}
	} else {
		results = harness.RunAll()
	}

	switch {
	case GetFlag(cmd, "json"):
		if err := harness.PrintJSON(results); err != nil {
			return err
		}
	case GetFlag(cmd, "csv"):
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	failed := 0
	for _, r := range results {
		if !r.Pass() {
			failed++
		}
	}

	if !GetFlag(cmd, "json") && !GetFlag(cmd, "csv") {
		summary := fmt.Sprintf("%d/%d scenarios passed", len(results)-failed, len(results))
		_, _ = fmt.Fprintln(out, colorize(out, summary, failed == 0))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}
