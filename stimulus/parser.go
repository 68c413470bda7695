package stimulus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarchlab/mulsim/emu"
)

// ParseError reports a malformed stimulus line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a stimulus program from r.
//
// Each non-empty line holds one command. Text after '#' is a comment.
// A line with two bare numbers is shorthand for "vec A B".
func Parse(r io.Reader) (*Program, error) {
	p := &Program{}
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		cmd, err := parseCommand(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Text: strings.TrimSpace(text), Err: err}
		}
		p.Commands = append(p.Commands, cmd)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stimulus: %w", err)
	}

	return p, nil
}

// Load parses the stimulus file at path. The program is named after the
// file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stimulus file: %w", err)
	}
	defer func() { _ = f.Close() }()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.Description = "stimulus file " + path

	return p, nil
}

func parseCommand(fields []string) (Command, error) {
	switch strings.ToLower(fields[0]) {
	case "reset":
		n, err := parseCount(fields)
		return Command{Op: OpReset, Count: n}, err
	case "idle", "hold":
		n, err := parseCount(fields)
		return Command{Op: OpIdle, Count: n}, err
	case "vec":
		return parseVector(fields[1:])
	default:
		if len(fields) == 2 {
			return parseVector(fields)
		}
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// parseCount reads the optional cycle count of reset and idle; it
// defaults to one.
func parseCount(fields []string) (int, error) {
	switch len(fields) {
	case 1:
		return 1, nil
	case 2:
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("invalid cycle count: %w", err)
		}
		if n <= 0 {
			return 0, fmt.Errorf("cycle count must be > 0")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s takes at most one argument", fields[0])
	}
}

func parseVector(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, fmt.Errorf("vector needs exactly two operands")
	}

	a, err := parseOperand(args[0])
	if err != nil {
		return Command{}, err
	}
	b, err := parseOperand(args[1])
	if err != nil {
		return Command{}, err
	}

	if err := emu.ValidateOperands(a, b); err != nil {
		return Command{}, err
	}

	return Command{Op: OpVector, A: a, B: b}, nil
}

// parseOperand accepts decimal, 0x hex or 0b binary operands.
func parseOperand(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid operand %q: %w", s, err)
	}
	return uint8(v), nil
}
