// Package residue maps residue type codes to signaling categories and
// binding targets. The table is data-driven: DefaultRegistry carries the
// built-in amino-acid set and LoadRegistry reads an alternative from YAML.
package residue

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category is the signaling role of a residue type.
type Category uint8

const (
	None Category = iota
	Conductor
	InputPort
	OutputPort
	Crossroads
	AndGate
	NotGate
	Actuator
)

var categoryNames = map[Category]string{
	None:       "none",
	Conductor:  "conductor",
	InputPort:  "input_port",
	OutputPort: "output_port",
	Crossroads: "crossroads",
	AndGate:    "and_gate",
	NotGate:    "not_gate",
	Actuator:   "actuator",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// IsGate reports whether activations of this category consume ATP.
func (c Category) IsGate() bool {
	return c == AndGate || c == NotGate
}

// ParseCategory resolves a category name. The empty string maps to None.
func ParseCategory(name string) (Category, error) {
	if name == "" {
		return None, nil
	}
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown signaling category %q", name)
}

// Nucleotide is a single-letter nucleotide code (A, C, G, T, U).
type Nucleotide string

// ValidNucleotides is the set of recognized nucleotide codes.
var ValidNucleotides = map[Nucleotide]bool{"A": true, "C": true, "G": true, "T": true, "U": true}

// Matches reports whether a residue targeting t is satisfied by bound.
// A T-binding residue also accepts U.
func (t Nucleotide) Matches(bound Nucleotide) bool {
	return bound == t || (t == "T" && bound == "U")
}

// Entry describes one residue type.
type Entry struct {
	Code       string     `yaml:"code"`
	Category   string     `yaml:"category,omitempty"`
	BindTarget Nucleotide `yaml:"bind_target,omitempty"`
}

// Registry resolves residue type codes. Lookups are read-only after
// construction.
type Registry struct {
	categories map[string]Category
	targets    map[string]Nucleotide
}

// RegistryFile is the YAML layout read by LoadRegistry.
type RegistryFile struct {
	Residues []Entry `yaml:"residues"`
}

// DefaultEntries is the built-in residue table.
var DefaultEntries = []Entry{
	{Code: "STR"},
	{Code: "L60"},
	{Code: "R60"},
	{Code: "FLX"},
	{Code: "SIG", Category: "conductor"},
	{Code: "INP", Category: "input_port"},
	{Code: "OUT", Category: "output_port"},
	{Code: "SGX", Category: "crossroads"},
	{Code: "AND", Category: "and_gate"},
	{Code: "NOT", Category: "not_gate"},
	{Code: "ACT", Category: "actuator"},
	{Code: "BTA", BindTarget: "A"},
	{Code: "BTC", BindTarget: "C"},
	{Code: "BTG", BindTarget: "G"},
	{Code: "BTT", BindTarget: "T"},
}

// DefaultRegistry returns a registry over DefaultEntries.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultEntries)
	if err != nil {
		panic(fmt.Sprintf("default residue table is invalid: %v", err))
	}
	return r
}

// NewRegistry builds a registry from entries, rejecting unknown category
// names, invalid nucleotides, and duplicate codes.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		categories: make(map[string]Category, len(entries)),
		targets:    make(map[string]Nucleotide),
	}
	for i, e := range entries {
		if e.Code == "" {
			return nil, fmt.Errorf("residues[%d]: code is required", i)
		}
		if _, dup := r.categories[e.Code]; dup {
			return nil, fmt.Errorf("residues[%d]: duplicate code %q", i, e.Code)
		}
		cat, err := ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("residues[%d] (%s): %w", i, e.Code, err)
		}
		if e.BindTarget != "" && !ValidNucleotides[e.BindTarget] {
			return nil, fmt.Errorf("residues[%d] (%s): invalid bind_target %q", i, e.Code, e.BindTarget)
		}
		r.categories[e.Code] = cat
		if e.BindTarget != "" {
			r.targets[e.Code] = e.BindTarget
		}
	}
	return r, nil
}

// LoadRegistry reads a residue table from a YAML file.
// Uses strict field checking so typos surface as errors.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading residue registry: %w", err)
	}
	var file RegistryFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing residue registry: %w", err)
	}
	return NewRegistry(file.Residues)
}

// SignalingCategory returns the category for code; unknown codes are None.
func (r *Registry) SignalingCategory(code string) Category {
	return r.categories[code]
}

// BindingTarget returns the nucleotide code residues of this type bind to.
func (r *Registry) BindingTarget(code string) (Nucleotide, bool) {
	t, ok := r.targets[code]
	return t, ok
}

// SignalCapable reports whether residues of this type carry a Signal.
func (r *Registry) SignalCapable(code string) bool {
	if r.categories[code] != None {
		return true
	}
	_, ok := r.targets[code]
	return ok
}

// Codes returns all registered codes, sorted.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.categories))
	for code := range r.categories {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
