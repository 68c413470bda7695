package stimulus_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mulsim/emu"
	"github.com/sarchlab/mulsim/stimulus"
)

var _ = Describe("Parse", func() {
	parse := func(text string) (*stimulus.Program, error) {
		return stimulus.Parse(strings.NewReader(text))
	}

	It("should parse every command form", func() {
		p, err := parse(`
# reference run
reset 2
vec 3 2
7 4          # shorthand
vec 0x9 0b11
idle 3
hold
reset
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Commands).To(Equal([]stimulus.Command{
			{Op: stimulus.OpReset, Count: 2},
			{Op: stimulus.OpVector, A: 3, B: 2},
			{Op: stimulus.OpVector, A: 7, B: 4},
			{Op: stimulus.OpVector, A: 9, B: 3},
			{Op: stimulus.OpIdle, Count: 3},
			{Op: stimulus.OpIdle, Count: 1},
			{Op: stimulus.OpReset, Count: 1},
		}))
	})

	It("should round-trip a formatted program", func() {
		original := stimulus.MidStreamReset()
		p, err := parse(original.String())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Commands).To(Equal(original.Commands))
	})

	It("should accept an empty program", func() {
		p, err := parse("\n# nothing\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Commands).To(BeEmpty())
	})

	It("should reject out-of-range operands with an InputRangeError", func() {
		_, err := parse("reset 2\nvec 16 3\n")

		var parseErr *stimulus.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
		Expect(parseErr.Line).To(Equal(2))

		var rangeErr *emu.InputRangeError
		Expect(errors.As(err, &rangeErr)).To(BeTrue())
		Expect(rangeErr.Operand).To(Equal("A"))
	})

	DescribeTable("malformed lines",
		func(text, message string) {
			_, err := parse(text)
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("unknown command", "jump 1 2 3", "unknown command"),
		Entry("bad count", "reset x", "invalid cycle count"),
		Entry("zero count", "idle 0", "must be > 0"),
		Entry("extra argument", "reset 1 2", "at most one argument"),
		Entry("missing operand", "vec 3", "exactly two operands"),
		Entry("non-numeric operand", "vec a 3", "invalid operand"),
		Entry("operand overflow", "vec 300 3", "invalid operand"),
	)
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "mulsim-stim")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("should name the program after the file", func() {
		path := filepath.Join(dir, "smoke.stim")
		Expect(os.WriteFile(path, []byte("reset 2\nvec 2 2\n"), 0644)).To(Succeed())

		p, err := stimulus.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name).To(Equal("smoke"))
		Expect(p.Cycles()).To(Equal(3))
	})

	It("should fail on a missing file", func() {
		_, err := stimulus.Load(filepath.Join(dir, "missing.stim"))
		Expect(err).To(MatchError(ContainSubstring("failed to open")))
	})

	It("should prefix parse errors with the path", func() {
		path := filepath.Join(dir, "bad.stim")
		Expect(os.WriteFile(path, []byte("oops\n"), 0644)).To(Succeed())

		_, err := stimulus.Load(path)
		Expect(err).To(MatchError(ContainSubstring("bad.stim")))
	})
})
