package sweep_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachetrace/sweep"
	"github.com/sarchlab/cachetrace/trace"
)

func TestSweep(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sweep Suite")
}

var _ = Describe("SweepSpec", func() {
	Describe("DefaultSweepSpec", func() {
		It("builds a C in [12,15], B in [3,6], S in [0,C-B] grid", func() {
			spec := sweep.DefaultSweepSpec()
			Expect(spec.MemoryBudgetKB).To(Equal(48.0))
			Expect(len(spec.Geometries)).To(BeNumerically(">", 0))

			for _, g := range spec.Geometries {
				Expect(g.C).To(BeNumerically(">=", 12))
				Expect(g.C).To(BeNumerically("<=", 15))
				Expect(g.B).To(BeNumerically(">=", 3))
				Expect(g.S).To(BeNumerically("<=", g.C-g.B))
			}
		})
	})

	Describe("Validate", func() {
		It("rejects a spec with no trace path", func() {
			spec := sweep.DefaultSweepSpec()
			Expect(spec.Validate()).To(HaveOccurred())
		})

		It("rejects duplicate geometry names", func() {
			spec := sweep.SweepSpec{
				TracePath: "t.trace",
				Geometries: []sweep.GeometrySpec{
					{Name: "a", C: 10, B: 4, S: 2},
					{Name: "a", C: 10, B: 4, S: 2},
				},
			}
			Expect(spec.Validate()).To(HaveOccurred())
		})

		It("accepts a well-formed spec", func() {
			spec := sweep.SweepSpec{
				TracePath: "t.trace",
				Geometries: []sweep.GeometrySpec{
					{Name: "small", C: 10, B: 4, S: 2, V: 2, K: 1},
				},
			}
			Expect(spec.Validate()).NotTo(HaveOccurred())
		})
	})

	Describe("JSON and YAML round-trip", func() {
		It("saves and loads a spec as JSON", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "spec.json")

			spec := sweep.SweepSpec{
				TracePath: "t.trace",
				Geometries: []sweep.GeometrySpec{
					{Name: "a", C: 10, B: 4, S: 2},
				},
			}
			Expect(spec.Save(path)).To(Succeed())

			loaded, err := sweep.LoadSweepSpec(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(*loaded).To(Equal(spec))
		})

		It("saves and loads a spec as YAML", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "spec.yaml")

			spec := sweep.SweepSpec{
				TracePath: "t.trace",
				Geometries: []sweep.GeometrySpec{
					{Name: "a", C: 10, B: 4, S: 2},
				},
			}
			Expect(spec.Save(path)).To(Succeed())

			loaded, err := sweep.LoadSweepSpec(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(*loaded).To(Equal(spec))
		})
	})
})

var _ = Describe("Harness", func() {
	It("runs every geometry against the same buffered trace", func() {
		refs, errs := trace.ReadAll(strings.NewReader("r 0\nr 4\nw 8\nr 0\n"))
		Expect(errs).To(BeEmpty())

		spec := sweep.SweepSpec{
			TracePath: "inline",
			Geometries: []sweep.GeometrySpec{
				{Name: "direct", C: 4, B: 1, S: 0},
				{Name: "assoc2", C: 4, B: 1, S: 1},
			},
		}

		var buf bytes.Buffer
		h := sweep.NewHarness(spec, refs, &buf)
		results := h.RunAll()
		Expect(results).To(HaveLen(2))
		for _, r := range results {
			Expect(r.Skipped).To(BeFalse())
			Expect(r.Stats.Accesses).To(Equal(uint64(4)))
		}
	})

	It("skips geometries that exceed the memory budget", func() {
		refs, _ := trace.ReadAll(strings.NewReader("r 0\n"))
		spec := sweep.SweepSpec{
			TracePath:      "inline",
			MemoryBudgetKB: 0.001,
			Geometries: []sweep.GeometrySpec{
				{Name: "huge", C: 20, B: 3, S: 4},
			},
		}
		var buf bytes.Buffer
		h := sweep.NewHarness(spec, refs, &buf)
		results := h.RunAll()
		Expect(results[0].Skipped).To(BeTrue())
	})

	It("reports the geometry with the lowest average access time as best", func() {
		refs, _ := trace.ReadAll(strings.NewReader("r 0\nr 4\nr 8\nr 0\n"))
		spec := sweep.SweepSpec{
			TracePath: "inline",
			Geometries: []sweep.GeometrySpec{
				{Name: "direct", C: 4, B: 1, S: 0},
				{Name: "assoc2", C: 4, B: 1, S: 1},
			},
		}
		var buf bytes.Buffer
		h := sweep.NewHarness(spec, refs, &buf)
		results := h.RunAll()
		best := h.Best(results)
		Expect(best).NotTo(BeNil())
		Expect(best.Name).To(Equal("direct"))
	})

	It("writes CSV and JSON without error", func() {
		refs, _ := trace.ReadAll(strings.NewReader("r 0\n"))
		spec := sweep.SweepSpec{
			TracePath:  "inline",
			Geometries: []sweep.GeometrySpec{{Name: "direct", C: 4, B: 1, S: 0}},
		}
		var buf bytes.Buffer
		h := sweep.NewHarness(spec, refs, &buf)
		results := h.RunAll()

		Expect(h.PrintCSV(results)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("direct"))

		buf.Reset()
		Expect(h.PrintJSON(results)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("\"name\": \"direct\""))
	})
})
