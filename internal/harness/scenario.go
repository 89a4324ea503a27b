package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/slpvec/internal/fixture"
)

// Scenario defines one conformance scenario for the pack analysis.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files reuse it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Block is the input block fixture.
	Block fixture.Fixture `yaml:"block"`

	// Expect lists the packs the pipeline must produce, in first-lane
	// block order. An empty list asserts the pipeline produced nothing.
	Expect []ExpectedPack `yaml:"expect"`

	// Golden names a golden file (without extension) holding the DAG's
	// GraphViz rendering. Empty skips the golden comparison.
	Golden string `yaml:"golden,omitempty"`
}

// ExpectedPack describes one expected pack.
type ExpectedPack struct {
	// Lanes are the instruction names, left to right.
	Lanes []string `yaml:"lanes"`

	// Kind is the pack kind ("load", "store", "add").
	Kind string `yaml:"kind"`

	// Seed marks packs that must come from the seeder.
	Seed bool `yaml:"seed"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(s.Block.Insts) == 0 {
		return nil, fmt.Errorf("scenario %s: empty block", path)
	}
	return &s, nil
}

// LoadScenarios loads every .yaml scenario under dir, sorted by filename.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
