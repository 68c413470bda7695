package testbench_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mulsim/stimulus"
	"github.com/sarchlab/mulsim/testbench"
)

var _ = Describe("Harness", func() {
	var (
		config  testbench.HarnessConfig
		output  *bytes.Buffer
		harness *testbench.Harness
	)

	BeforeEach(func() {
		output = &bytes.Buffer{}
		config = testbench.DefaultConfig()
		config.Output = output
	})

	JustBeforeEach(func() {
		harness = testbench.NewHarness(config)
		harness.AddScenarios(stimulus.All())
	})

	It("should pass every built-in scenario", func() {
		results := harness.RunAll()

		Expect(results).To(HaveLen(len(stimulus.Names())))
		for _, r := range results {
			Expect(r.Pass()).To(BeTrue(), "%s: %s", r.Name, r.Error)
			Expect(r.Checks).To(BeNumerically(">", 0))
			Expect(r.Cycles).To(BeNumerically(">", 0))
		}
	})

	It("should count a product check for every exhaustive vector", func() {
		h := testbench.NewHarness(config)
		r := h.Run(stimulus.Exhaustive())

		products := 0
		for _, rec := range r.Records {
			if rec.Kind == testbench.KindProduct {
				products++
			}
		}
		Expect(products).To(Equal(256))
		Expect(r.Failed).To(BeZero())
	})

	It("should report discarded vectors in the mid-stream reset scenario", func() {
		h := testbench.NewHarness(config)
		r := h.Run(stimulus.MidStreamReset())
		Expect(r.Pass()).To(BeTrue())
		Expect(r.Discarded).To(Equal(uint64(3)))
	})

	Context("with the event engine", func() {
		BeforeEach(func() {
			config.UseEventEngine = true
		})

		It("should produce the same verification log as the loop", func() {
			loop := testbench.NewHarness(testbench.HarnessConfig{Output: output})
			want := loop.Run(stimulus.EndToEnd())

			got := harness.Run(stimulus.EndToEnd())
			Expect(got.Pass()).To(BeTrue(), got.Error)
			Expect(got.Records).To(Equal(want.Records))
			Expect(got.SimTime).To(BeNumerically(">", 0))
		})
	})

	Context("with tracing", func() {
		BeforeEach(func() {
			config.Sim.RecordTrace = true
		})

		It("should attach one trace entry per cycle", func() {
			r := harness.Run(stimulus.EndToEnd())
			Expect(r.Trace).To(HaveLen(int(r.Cycles)))
		})
	})

	Describe("RunSuite", func() {
		It("should return results in scenario order", func() {
			results, err := harness.RunSuite(context.Background())
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, 0, len(results))
			for _, r := range results {
				names = append(names, r.Name)
				Expect(r.Pass()).To(BeTrue())
			}
			Expect(names).To(Equal([]string{
				"boundary", "end_to_end", "exhaustive", "hold_idle",
				"mid_stream_reset", "random_1",
			}))
		})

		It("should be deterministic across runs", func() {
			first, err := harness.RunSuite(context.Background())
			Expect(err).NotTo(HaveOccurred())
			second, err := harness.RunSuite(context.Background())
			Expect(err).NotTo(HaveOccurred())

			for i := range first {
				Expect(second[i].Records).To(Equal(first[i].Records))
			}
		})

		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := harness.RunSuite(ctx)
			Expect(err).To(MatchError(context.Canceled))
		})

		Context("with a parallelism of zero", func() {
			BeforeEach(func() {
				config.Sim.Parallelism = 0
			})

			It("should reject the config instead of blocking", func() {
				done := make(chan error, 1)
				go func() {
					_, err := harness.RunSuite(context.Background())
					done <- err
				}()

				var err error
				Eventually(done, "2s").Should(Receive(&err))
				Expect(err).To(MatchError(ContainSubstring("parallelism must be > 0")))
			})
		})
	})

	Describe("reports", func() {
		var results []testbench.Result

		JustBeforeEach(func() {
			h := testbench.NewHarness(config)
			h.AddScenario(stimulus.EndToEnd())
			results = h.RunAll()
		})

		It("should print a human-readable summary", func() {
			harness.PrintResults(results)
			Expect(output.String()).To(ContainSubstring("Scenario: end_to_end [PASS]"))
			Expect(output.String()).NotTo(ContainSubstring("expected"))
		})

		Context("when verbose", func() {
			BeforeEach(func() {
				config.Verbose = true
			})

			It("should include the verification log", func() {
				harness.PrintResults(results)
				Expect(output.String()).To(ContainSubstring("expected"))
				Expect(output.String()).To(ContainSubstring("225"))
			})
		})

		It("should print CSV", func() {
			harness.PrintCSV(results)
			lines := strings.Split(strings.TrimSpace(output.String()), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[1]).To(HavePrefix("end_to_end,11,2,11,11,0,0,0,true"))
		})

		It("should print JSON", func() {
			Expect(harness.PrintJSON(results)).To(Succeed())

			var decoded []testbench.Result
			Expect(json.Unmarshal(output.Bytes(), &decoded)).To(Succeed())
			Expect(decoded[0].Name).To(Equal("end_to_end"))
			Expect(decoded[0].Records).To(HaveLen(11))
		})
	})
})
