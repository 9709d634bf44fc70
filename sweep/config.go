// Package sweep implements the parameter-sweep harness: the collaborator
// named but left unspecified by spec.md §1/§9, which replays one trace
// against several cache geometries and reports comparative statistics.
//
// Its SweepSpec load/save/validate shape is adapted directly from the
// teacher's timing/latency.TimingConfig pattern; its geometry-grid default
// and memory-budget accounting are adapted from the original C++ source's
// own sweep driver (original_source/cachesim_driver_exp.cpp).
package sweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/sarchlab/cachetrace/cache"
)

// GeometrySpec names one geometry entry in a sweep.
type GeometrySpec struct {
	Name string `json:"name" yaml:"name"`
	C    uint64 `json:"c" yaml:"c"`
	B    uint64 `json:"b" yaml:"b"`
	S    uint64 `json:"s" yaml:"s"`
	V    uint64 `json:"v" yaml:"v"`
	K    uint64 `json:"k" yaml:"k"`
}

// Geometry converts the spec entry to a cache.Geometry.
func (g GeometrySpec) Geometry() cache.Geometry {
	return cache.Geometry{C: g.C, B: g.B, S: g.S, V: g.V, K: g.K}
}

// SweepSpec describes one parameter-sweep run: the geometries to try, the
// trace to replay against all of them, and the memory budget (in KB) a
// geometry must stay within to be considered.
type SweepSpec struct {
	TracePath      string         `json:"trace_path" yaml:"trace_path"`
	MemoryBudgetKB float64        `json:"memory_budget_kb" yaml:"memory_budget_kb"`
	Geometries     []GeometrySpec `json:"geometries" yaml:"geometries"`
}

// DefaultSweepSpec reproduces the original source's own sweep driver: a
// grid over C in [12,15], B in [3,6], S in [0, C-B], with V and K held at
// the collaborator's documented defaults, and the same 48KB memory budget
// the original hardcodes.
func DefaultSweepSpec() SweepSpec {
	defaults := cache.DefaultGeometry()
	spec := SweepSpec{MemoryBudgetKB: 48}

	for c := uint64(12); c <= 15; c++ {
		for b := uint64(3); b <= 6; b++ {
			if c < b {
				continue
			}
			for s := uint64(0); s <= c-b; s++ {
				spec.Geometries = append(spec.Geometries, GeometrySpec{
					Name: fmt.Sprintf("C%d-B%d-S%d", c, b, s),
					C:    c, B: b, S: s,
					V: defaults.V, K: defaults.K,
				})
			}
		}
	}

	return spec
}

// LoadSweepSpec loads a SweepSpec from a JSON or YAML file, chosen by
// extension (".yaml"/".yml" for YAML, anything else for JSON), following
// the teacher's TimingConfig.LoadConfig shape.
func LoadSweepSpec(path string) (*SweepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep spec file: %w", err)
	}

	spec := &SweepSpec{}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("failed to parse sweep spec as YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("failed to parse sweep spec as JSON: %w", err)
		}
	}

	return spec, nil
}

// Save writes the SweepSpec to path as JSON or YAML, chosen by extension.
func (s *SweepSpec) Save(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize sweep spec: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sweep spec file: %w", err)
	}
	return nil
}

// Validate checks that the trace path is set, every named geometry is
// internally consistent, and geometry names are unique.
func (s *SweepSpec) Validate() error {
	if s.TracePath == "" {
		return fmt.Errorf("sweep: trace_path must be set")
	}
	if len(s.Geometries) == 0 {
		return fmt.Errorf("sweep: at least one geometry is required")
	}

	seen := make(map[string]bool, len(s.Geometries))
	for _, g := range s.Geometries {
		if seen[g.Name] {
			return fmt.Errorf("sweep: duplicate geometry name %q", g.Name)
		}
		seen[g.Name] = true

		if err := g.Geometry().Validate(); err != nil {
			return fmt.Errorf("sweep: geometry %q: %w", g.Name, err)
		}
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
