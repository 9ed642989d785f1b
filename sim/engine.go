package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/geoffreypi/strand-game-sub000/sim/residue"
	"github.com/geoffreypi/strand-game-sub000/sim/trace"
	"github.com/geoffreypi/strand-game-sub000/sim/world"
)

// Mode selects the update discipline of a Run call.
type Mode string

const (
	// ModeSteady initializes from bound pairs and steps to a fixpoint.
	ModeSteady Mode = "steady"
	// ModeStepped applies exactly one step to the persisted state.
	ModeStepped Mode = "stepped"
)

// ValidModes is the set of recognized run modes. Empty means steady.
var ValidModes = map[Mode]bool{"": true, ModeSteady: true, ModeStepped: true}

// IterationsPerEntity scales the steady-state iteration cap.
const IterationsPerEntity = 10

// BoundPairs maps a residue global index to the nucleotide bound to it.
type BoundPairs map[int]residue.Nucleotide

// Store is the entity/component store the engine reads and writes.
// *world.World satisfies it.
type Store interface {
	Query(mask world.Kind) []world.Entity
	Position(e world.Entity) (world.Position, bool)
	Residue(e world.Entity) (world.Residue, bool)
	Signal(e world.Entity) (world.Signal, bool)
	SetSignal(e world.Entity, s world.Signal)
}

// Options configures one Run call.
type Options struct {
	BoundPairs BoundPairs
	// ATP is consumed in place. Nil means no tokens.
	ATP    ATPSet
	Config SignalConfig
	Mode   Mode
	// Random is required; pass a PartitionedRNG SubsystemSignal stream for
	// reproducible runs.
	Random RandomSource
	// Registry defaults to residue.DefaultRegistry().
	Registry *residue.Registry
	// Trace, when non-nil, receives every flip and starved gate.
	Trace *trace.SignalTrace
	// RefreshSources re-applies binding initialization in stepped mode.
	RefreshSources bool
	// MaxIterations overrides the steady-state cap of
	// IterationsPerEntity × signal-capable entities. Zero keeps the default.
	MaxIterations int
}

// Result reports the outcome of one Run call. Final Signal values are
// written back to the store.
type Result struct {
	// ConsumedATP lists token keys removed from Options.ATP, in order.
	ConsumedATP []string
	// Changed is true when any entity's on flag differs from its value
	// before the call (an absent Signal counts as off), or when the last
	// step still flipped something (Converged is false).
	Changed    bool
	Iterations int
	// Converged is false when steady-state stopped at the iteration cap,
	// or when the single stepped-mode step flipped something.
	Converged bool
	// Activated and Deactivated list global indices whose on flag changed
	// across the call, ascending.
	Activated   []int
	Deactivated []int
}

var defaultRegistry = residue.DefaultRegistry()

// IterationCap returns the steady-state step limit for n entities.
// Run passes the number of signal-capable entities in its snapshot;
// structural residues and skipped entities never flip and are not counted.
func IterationCap(n int) int {
	return max(1, n*IterationsPerEntity)
}

// Run computes signal propagation over store.
//
// Steady-state mode re-initializes every Signal from BoundPairs and steps
// until nothing flips or the iteration cap is reached; hitting the cap is
// not an error. Stepped mode applies one step to the current Signal values,
// initializing entities that have none.
//
// Phase 2 visits entities in ascending residue global index; results can
// depend on that order when gates compete for one token or ports chain
// within a step.
func Run(store Store, opts Options) Result {
	if opts.Random == nil {
		panic("sim.Run: Options.Random is required")
	}
	reg := opts.Registry
	if reg == nil {
		reg = defaultRegistry
	}
	atp := opts.ATP
	if atp == nil {
		atp = ATPSet{}
	}

	p := &propagator{
		snapshot: newSnapshot(store, reg, opts.Config),
		atp:      atp,
		random:   opts.Random,
		trace:    opts.Trace,
		consumed: make([]string, 0),
	}
	if p.trace != nil {
		p.run = p.trace.BeginRun()
	}

	res := Result{}
	switch opts.Mode {
	case ModeStepped:
		p.initStepped(opts.BoundPairs, opts.RefreshSources)
		res.Iterations = 1
		res.Converged = !p.step(1)
	default:
		p.initSteady(opts.BoundPairs)
		limit := opts.MaxIterations
		if limit <= 0 {
			limit = IterationCap(p.len())
		}
		for res.Iterations < limit {
			res.Iterations++
			if !p.step(res.Iterations) {
				res.Converged = true
				break
			}
		}
		if !res.Converged {
			logrus.Warnf("signal propagation did not converge within %d iterations (%d entities)", limit, p.len())
		}
	}

	p.writeBack(store)

	res.ConsumedATP = p.consumed
	res.Activated = make([]int, 0)
	res.Deactivated = make([]int, 0)
	for i := range p.entities {
		switch {
		case p.on[i] && !p.prior[i]:
			res.Activated = append(res.Activated, p.index[i])
		case !p.on[i] && p.prior[i]:
			res.Deactivated = append(res.Deactivated, p.index[i])
		}
	}
	res.Changed = len(res.Activated)+len(res.Deactivated) > 0 || !res.Converged
	logrus.Debugf("signal run (%s): %d iterations, converged=%v, %d activated, %d deactivated, %d ATP consumed",
		modeName(opts.Mode), res.Iterations, res.Converged, len(res.Activated), len(res.Deactivated), len(res.ConsumedATP))
	return res
}

func modeName(m Mode) Mode {
	if m == "" {
		return ModeSteady
	}
	return m
}
