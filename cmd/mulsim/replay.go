package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/mulsim/trace"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [flags] scenario",
		Short: "Check that a scenario replays identically.",
		Long: `Runs a scenario twice, once in a plain loop and once clocked by the
event engine, and diffs the two register traces.`,
		Args: cobra.MaximumNArgs(1),
		RunE: replayScenario,
	}

	cmd.Flags().StringP("file", "f", "", "replay a stimulus file instead of a built-in scenario")

	return cmd
}

func replayScenario(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := pickProgram(args, GetString(cmd, "file"))
	if err != nil {
		return err
	}

	loop, err := recordTrace(config, p, false)
	if err != nil {
		return err
	}
	evented, err := recordTrace(config, p, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cmp, err := trace.Diff(loop, evented, isTerminal(out))
	if err != nil {
		return err
	}

	if !cmp.Identical {
		_, _ = fmt.Fprintln(out, cmp.Report)
		_, _ = fmt.Fprintln(out, colorize(out, p.Name+": replay diverged", false))
		return fmt.Errorf("%s: replay diverged", p.Name)
	}

	msg := fmt.Sprintf("%s: %d cycles replayed identically", p.Name, len(loop))
	_, _ = fmt.Fprintln(out, colorize(out, msg, true))
	return nil
}
