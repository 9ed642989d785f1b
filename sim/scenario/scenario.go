// Package scenario loads residue layouts and run settings from YAML and
// materializes them into a world plus sim.Options.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/geoffreypi/strand-game-sub000/sim"
	"github.com/geoffreypi/strand-game-sub000/sim/hex"
	"github.com/geoffreypi/strand-game-sub000/sim/residue"
	"github.com/geoffreypi/strand-game-sub000/sim/world"
)

// Scenario is the top-level scenario file.
// Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Version        string                     `yaml:"version"`
	Seed           int64                      `yaml:"seed"`
	Mode           string                     `yaml:"mode,omitempty"`
	Steps          int                        `yaml:"steps,omitempty"` // stepped mode only; 0 = 1
	RefreshSources bool                       `yaml:"refresh_sources,omitempty"`
	MaxIterations  int                        `yaml:"max_iterations,omitempty"` // 0 = default cap
	Residues       []ResidueSpec              `yaml:"residues"`
	BoundPairs     map[int]residue.Nucleotide `yaml:"bound_pairs,omitempty"`
	ATP            []string                   `yaml:"atp,omitempty"`
	RandomATP      int                        `yaml:"random_atp,omitempty"` // tokens placed next to gates
	Probabilities  map[string]float64         `yaml:"probabilities,omitempty"`
}

// ResidueSpec places one residue. Unplaced residues get no Position.
type ResidueSpec struct {
	Index    int    `yaml:"index"`
	Type     string `yaml:"type"`
	Q        int    `yaml:"q"`
	R        int    `yaml:"r"`
	Molecule int    `yaml:"molecule,omitempty"`
	Fold     int8   `yaml:"fold,omitempty"`
	Unplaced bool   `yaml:"unplaced,omitempty"`
}

func (r ResidueSpec) coord() hex.Coord {
	return hex.Coord{Q: r.Q, R: r.R}
}

var validVersions = map[string]bool{"": true, "1": true}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version == "" {
		s.Version = "1"
	}
	return &s, nil
}

// Validate checks the scenario against reg. Residue types must be known
// to reg; overlapping placements are allowed and resolved by the engine.
func (s *Scenario) Validate(reg *residue.Registry) error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unsupported scenario version %q; valid: 1", s.Version)
	}
	if !sim.ValidModes[sim.Mode(s.Mode)] {
		return fmt.Errorf("unknown mode %q; valid: steady, stepped", s.Mode)
	}
	if s.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", s.Steps)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must be non-negative, got %d", s.MaxIterations)
	}
	if s.RandomATP < 0 {
		return fmt.Errorf("random_atp must be non-negative, got %d", s.RandomATP)
	}
	if len(s.Residues) == 0 {
		return fmt.Errorf("at least one residue required")
	}

	known := make(map[string]bool)
	for _, code := range reg.Codes() {
		known[code] = true
	}
	seen := make(map[int]bool, len(s.Residues))
	for i, r := range s.Residues {
		if r.Type == "" {
			return fmt.Errorf("residues[%d]: type is required", i)
		}
		if !known[r.Type] {
			return fmt.Errorf("residues[%d]: unknown residue type %q", i, r.Type)
		}
		if r.Index < 0 {
			return fmt.Errorf("residues[%d]: index must be non-negative, got %d", i, r.Index)
		}
		if seen[r.Index] {
			return fmt.Errorf("residues[%d]: duplicate index %d", i, r.Index)
		}
		seen[r.Index] = true
	}

	for _, idx := range sortedIndices(s.BoundPairs) {
		nt := s.BoundPairs[idx]
		if !residue.ValidNucleotides[nt] {
			return fmt.Errorf("bound_pairs[%d]: invalid nucleotide %q", idx, nt)
		}
		if !seen[idx] {
			logrus.Warnf("bound_pairs[%d]: no residue with that index", idx)
		}
	}
	for i, key := range s.ATP {
		if _, err := hex.ParseKey(key); err != nil {
			return fmt.Errorf("atp[%d]: %w", i, err)
		}
	}
	if err := sim.SignalConfig(s.Probabilities).Validate(); err != nil {
		return err
	}
	return nil
}

// Setup is a scenario materialized for sim.Run.
type Setup struct {
	World *world.World
	// Options carries every per-call setting; the caller reuses it for
	// each stepped call.
	Options sim.Options
	// Steps is the number of Run calls: 1 for steady mode.
	Steps int
	// PlacedATP lists tokens added by random_atp, in placement order.
	PlacedATP []string
}

// Build creates a fresh world holding the scenario's residues and the
// options to run it with. Activation rolls draw from the SubsystemSignal
// stream of rng and random ATP placement from SubsystemATP.
func (s *Scenario) Build(reg *residue.Registry, rng *sim.PartitionedRNG) *Setup {
	w := world.New()
	occupied := make(map[hex.Coord]bool, len(s.Residues))
	for _, r := range s.Residues {
		res := world.Residue{Type: r.Type, Fold: world.FoldState(r.Fold), Index: r.Index}
		if r.Unplaced {
			w.AddUnplacedResidue(res)
			continue
		}
		w.AddResidue(world.Position{Coord: r.coord(), Molecule: r.Molecule}, res)
		occupied[r.coord()] = true
	}

	atp := sim.NewATPSet(s.ATP...)
	var placed []string
	if s.RandomATP > 0 {
		placed = sim.PlaceATP(rng.ForSubsystem(sim.SubsystemATP), atp, s.gateSites(reg, occupied), s.RandomATP)
		if len(placed) < s.RandomATP {
			logrus.Warnf("random_atp: placed %d of %d tokens; no more free hexes next to gates", len(placed), s.RandomATP)
		}
	}

	bound := make(sim.BoundPairs, len(s.BoundPairs))
	for idx, nt := range s.BoundPairs {
		bound[idx] = nt
	}
	cfg := sim.SignalConfig{}
	for k, p := range s.Probabilities {
		cfg[k] = p
	}

	mode := sim.Mode(s.Mode)
	steps := 1
	if mode == sim.ModeStepped && s.Steps > 0 {
		steps = s.Steps
	}
	return &Setup{
		World: w,
		Options: sim.Options{
			BoundPairs:     bound,
			ATP:            atp,
			Config:         cfg,
			Mode:           mode,
			Random:         rng.ForSubsystem(sim.SubsystemSignal),
			Registry:       reg,
			RefreshSources: s.RefreshSources,
			MaxIterations:  s.MaxIterations,
		},
		Steps:     steps,
		PlacedATP: placed,
	}
}

// gateSites lists unoccupied hexes adjacent to gate residues, in residue
// order then neighbor order.
func (s *Scenario) gateSites(reg *residue.Registry, occupied map[hex.Coord]bool) []hex.Coord {
	var sites []hex.Coord
	for _, r := range s.Residues {
		if r.Unplaced || !reg.SignalingCategory(r.Type).IsGate() {
			continue
		}
		for _, n := range hex.Neighbors(r.coord()) {
			if !occupied[n.Coord] {
				sites = append(sites, n.Coord)
			}
		}
	}
	return sites
}

func sortedIndices(m map[int]residue.Nucleotide) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
