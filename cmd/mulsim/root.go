package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarchlab/mulsim/stimulus"
	"github.com/sarchlab/mulsim/timing/latency"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mulsim",
		Short: "Cycle-accurate simulator for a 3-stage pipelined 4x4 multiplier.",
		Long: `Drives the pipelined multiplier with stimulus programs, checks every
observed product against the functional model, and exports register traces.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if GetFlag(cmd, "verbose") {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}

	root.PersistentFlags().String("config", "", "path to simulation configuration JSON file")
	root.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")

	root.AddCommand(
		newRunCmd(),
		newTraceCmd(),
		newReplayCmd(),
		newNetlistCmd(),
		newConfigCmd(),
		newListCmd(),
	)

	return root
}

// GetFlag gets an expected boolean flag, or exits on error.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// GetString gets an expected string flag, or exits on error.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig(cmd *cobra.Command) (*latency.SimConfig, error) {
	path := GetString(cmd, "config")
	if path == "" {
		return latency.DefaultSimConfig(), nil
	}

	config, err := latency.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded configuration from %s", path)
	return config, nil
}

// selectPrograms resolves scenario names and stimulus files. With neither,
// every built-in scenario is selected.
func selectPrograms(names, files []string) ([]*stimulus.Program, error) {
	if len(names) == 0 && len(files) == 0 {
		return stimulus.All(), nil
	}

	var programs []*stimulus.Program
	for _, name := range names {
		if name == "all" {
			programs = append(programs, stimulus.All()...)
			continue
		}
		p, err := stimulus.Lookup(name)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	for _, file := range files {
		p, err := stimulus.Load(file)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}

	return programs, nil
}

// isTerminal reports whether out is attached to a terminal.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorize wraps s in green or red when out is a terminal.
func colorize(out io.Writer, s string, ok bool) string {
	if !isTerminal(out) {
		return s
	}
	if ok {
		return "\033[1;32m" + s + "\033[0m"
	}
	return "\033[1;31m" + s + "\033[0m"
}
