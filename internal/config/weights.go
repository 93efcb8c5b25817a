package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// Weights is the crime-type policy: which types are tracked in statistics,
// their risk severity weights, and which primary types multiply by victim
// count. Immutable input to the aggregation engine, not derived data.
type Weights struct {
	TrackedCrimeTypes []string       `yaml:"tracked_crime_types"`
	RiskWeights       map[string]int `yaml:"risk_weights"`
	VictimCountCrimes []string       `yaml:"victim_count_crimes"`

	victimCounted map[string]bool
}

// DefaultWeights returns the embedded policy. The embedded YAML is validated
// by tests, so a parse failure here is a build defect.
func DefaultWeights() *Weights {
	w, err := parseWeights(defaultWeightsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded weights.yaml: %v", err))
	}
	return w
}

// LoadWeights reads the policy from path, or the embedded defaults when path
// is empty.
func LoadWeights(path string) (*Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	w, err := parseWeights(data)
	if err != nil {
		return nil, fmt.Errorf("parse weights %s: %w", path, err)
	}
	return w, nil
}

func parseWeights(data []byte) (*Weights, error) {
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if len(w.TrackedCrimeTypes) == 0 {
		return nil, fmt.Errorf("tracked_crime_types is empty")
	}
	for crimeType, weight := range w.RiskWeights {
		if weight < 1 {
			return nil, fmt.Errorf("risk weight for %q must be >= 1", crimeType)
		}
	}
	w.victimCounted = make(map[string]bool, len(w.VictimCountCrimes))
	for _, crimeType := range w.VictimCountCrimes {
		w.victimCounted[crimeType] = true
	}
	return &w, nil
}

// RiskWeight returns the severity weight for a crime type, defaulting to 1
// for unconfigured types.
func (w *Weights) RiskWeight(crimeType string) int {
	if weight, ok := w.RiskWeights[crimeType]; ok {
		return weight
	}
	return 1
}

// UsesVictimCount reports whether a primary crime type multiplies by victim
// count. Unconfigured types do not.
func (w *Weights) UsesVictimCount(crimeType string) bool {
	return w.victimCounted[crimeType]
}
