package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/geoffreypi/strand-game-sub000/sim/residue"
)

// SignalConfig maps a residue type code or a category name to the
// probability that an off→on transition succeeds. Absent keys mean 1.0.
type SignalConfig map[string]float64

// SignalConfigFile is the YAML layout read by LoadSignalConfig.
type SignalConfigFile struct {
	Probabilities map[string]float64 `yaml:"probabilities"`
}

// Probability returns the activation probability for a residue of type
// code in category cat. The type code takes precedence over the category.
func (c SignalConfig) Probability(code string, cat residue.Category) float64 {
	if p, ok := c[code]; ok {
		return p
	}
	if p, ok := c[cat.String()]; ok {
		return p
	}
	return 1.0
}

// Validate checks that every probability lies in (0, 1].
func (c SignalConfig) Validate() error {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("signal config: empty key")
		}
		p := c[k]
		if math.IsNaN(p) || p <= 0 || p > 1 {
			return fmt.Errorf("signal config: probability for %q must be in (0, 1], got %v", k, p)
		}
	}
	return nil
}

// LoadSignalConfig reads and validates a YAML signal configuration file.
func LoadSignalConfig(path string) (SignalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signal config: %w", err)
	}
	var file SignalConfigFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing signal config: %w", err)
	}
	cfg := SignalConfig(file.Probabilities)
	if cfg == nil {
		cfg = SignalConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
