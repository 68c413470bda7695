package trace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/sarchlab/mulsim/timing/core"
)

// Comparison is the result of diffing two traces.
type Comparison struct {
	Identical bool
	Report    string
}

// Diff compares two traces by their JSON form. When they differ, Report
// holds an ASCII diff of the left trace against the right one.
func Diff(left, right []core.TraceEntry, coloring bool) (*Comparison, error) {
	l, err := encode(left)
	if err != nil {
		return nil, err
	}
	r, err := encode(right)
	if err != nil {
		return nil, err
	}
	return DiffJSON(l, r, coloring)
}

// DiffJSON compares two JSON documents.
func DiffJSON(left, right []byte, coloring bool) (*Comparison, error) {
	delta, err := gojsondiff.New().Compare(wrap(left), wrap(right))
	if err != nil {
		return nil, fmt.Errorf("failed to diff traces: %w", err)
	}
	if !delta.Modified() {
		return &Comparison{Identical: true}, nil
	}

	var leftObj interface{}
	if err := json.Unmarshal(wrap(left), &leftObj); err != nil {
		return nil, fmt.Errorf("failed to decode left trace: %w", err)
	}

	cfg := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	}
	report, err := formatter.NewAsciiFormatter(leftObj, cfg).Format(delta)
	if err != nil {
		return nil, fmt.Errorf("failed to format trace diff: %w", err)
	}

	return &Comparison{Report: report}, nil
}

func encode(entries []core.TraceEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrap turns a top-level array into an object, since gojsondiff's Compare
// only accepts objects.
func wrap(doc []byte) []byte {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		out := make([]byte, 0, len(trimmed)+10)
		out = append(out, `{"trace":`...)
		out = append(out, trimmed...)
		out = append(out, '}')
		return out
	}
	return trimmed
}
