// Package latency describes the cycle timing of the pipelined multiplier
// and the configuration of a simulation run.
//
// Every stage of the multiplier is a single register boundary, so the
// latency of the whole pipeline is the number of stages.
package latency

// Stage identifies one register stage of the multiplier.
type Stage uint8

const (
	// StagePartialProducts latches the four gated copies of A.
	StagePartialProducts Stage = iota
	// StageReduction latches the two pairwise sums of shifted partial products.
	StageReduction
	// StageFinalSum latches the product.
	StageFinalSum

	numStages
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StagePartialProducts:
		return "partial-products"
	case StageReduction:
		return "reduction"
	case StageFinalSum:
		return "final-sum"
	default:
		return "unknown"
	}
}

// Table provides per-stage latency lookups. Every stage is one register
// boundary, so the table has no tunable state.
type Table struct{}

// NewTable creates a latency table.
func NewTable() *Table {
	return &Table{}
}

// Stages returns the pipeline stages in order from input to output.
func (t *Table) Stages() []Stage {
	stages := make([]Stage, 0, numStages)
	for s := Stage(0); s < numStages; s++ {
		stages = append(stages, s)
	}
	return stages
}

// GetLatency returns the number of cycles a value spends in the stage.
func (t *Table) GetLatency(s Stage) uint64 {
	if s >= numStages {
		return 0
	}
	return 1
}

// Total returns the number of cycles from input capture to a valid product.
func (t *Table) Total() uint64 {
	var total uint64
	for _, s := range t.Stages() {
		total += t.GetLatency(s)
	}
	return total
}
