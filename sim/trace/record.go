// Package trace provides transition recording for signal propagation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TransitionRecord captures one entity flipping on or off during a step.
type TransitionRecord struct {
	Run       int
	Iteration int
	Index     int    // residue global index
	Type      string // residue type code
	Category  string
	On        bool   // state after the flip
	ATPKey    string // token consumed by a gate activation; empty otherwise
}

// StarvedRecord captures a gate whose condition held and whose roll
// succeeded, but which found no adjacent ATP token.
type StarvedRecord struct {
	Run       int
	Iteration int
	Index     int
	Type      string
}
