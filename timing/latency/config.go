package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimConfig holds the run-time parameters of a multiplier simulation.
type SimConfig struct {
	// ResetHoldCycles is the number of consecutive cycles reset must be
	// asserted before release for the pipeline to count as settled.
	// Default: 2 cycles.
	ResetHoldCycles uint64 `json:"reset_hold_cycles"`

	// ClockFreqMHz is the modeled clock frequency. It only scales simulated
	// time in event-driven runs and is handed to the backend as the clock
	// constraint. Default: 100 MHz.
	ClockFreqMHz float64 `json:"clock_freq_mhz"`

	// RecordTrace enables per-cycle register snapshots. Default: false.
	RecordTrace bool `json:"record_trace"`

	// FailFast stops a verification run at the first mismatch.
	// Default: true.
	FailFast bool `json:"fail_fast"`

	// Parallelism bounds how many independent scenarios run at once.
	// Default: 4.
	Parallelism int `json:"parallelism"`
}

// DefaultSimConfig returns a SimConfig with the default values.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		ResetHoldCycles: 2,
		ClockFreqMHz:    100,
		RecordTrace:     false,
		FailFast:        true,
		Parallelism:     4,
	}
}

// LoadConfig loads a SimConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sim config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes a SimConfig to a JSON file.
func (c *SimConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sim config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sim config file: %w", err)
	}

	return nil
}

// Validate checks that all values are usable.
func (c *SimConfig) Validate() error {
	if c.ResetHoldCycles == 0 {
		return fmt.Errorf("reset_hold_cycles must be > 0")
	}
	if c.ClockFreqMHz <= 0 {
		return fmt.Errorf("clock_freq_mhz must be > 0")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be > 0")
	}
	return nil
}

// ClockPeriodNs returns the clock period implied by ClockFreqMHz.
func (c *SimConfig) ClockPeriodNs() float64 {
	return 1000 / c.ClockFreqMHz
}

// Clone returns a deep copy of the SimConfig.
func (c *SimConfig) Clone() *SimConfig {
	clone := *c
	return &clone
}
