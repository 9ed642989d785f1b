// Package sim provides the signal propagation engine for residue circuits
// laid out on a hex grid.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - engine.go: Run, its Options and Result, and the two run modes
//   - snapshot.go: per-call tables, conductor components, source initialization
//   - propagate.go: the two-phase step and the per-category enabling rules
//
// # Architecture
//
// The sim package holds the engine and its inputs; supporting types live in
// sub-packages:
//   - sim/hex/: axial coordinates and the fixed neighbor order
//   - sim/residue/: residue type registry (signaling category, binding target)
//   - sim/world/: ECS-backed entity store with Position, Residue and Signal components
//   - sim/trace/: transition and starved-gate recording with summaries
//   - sim/scenario/: YAML scenario files materialized into a world and Options
//
// # Determinism
//
// Run performs no I/O and reads randomness only from Options.Random. With the
// same store contents, options and random stream it produces the same result.
// PartitionedRNG derives the activation-roll stream (SubsystemSignal) and the
// ATP placement stream (SubsystemATP) from one SimulationKey so the two never
// perturb each other.
//
// # Ordering
//
// Conductor components update first from the state at step start. All other
// entities then update in ascending residue global index against live state.
// Gates that share an ATP token and ports that chain within one step depend on
// this order.
package sim
