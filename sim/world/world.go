// Package world is the entity/component store for placed residues.
//
// Entities live in an archetype ECS so each component type is stored in
// dense per-archetype columns; callers address them by Entity handle and
// never hold component pointers across mutations.
package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/geoffreypi/strand-game-sub000/sim/hex"
)

// Entity is an opaque handle to a stored entity.
type Entity = ecs.Entity

// FoldState is the residue's local fold. The signal engine ignores it.
type FoldState int8

// Position places an entity on the hex grid.
type Position struct {
	Coord    hex.Coord
	Molecule int
}

// Residue identifies an entity's residue type and its stable global index.
type Residue struct {
	Type  string
	Fold  FoldState
	Index int
}

// Signal is the on/source state of a signal-capable residue.
// Source implies On.
type Signal struct {
	On     bool
	Source bool
}

// Kind is a bitmask of component types used by Query.
type Kind uint8

const (
	KindPosition Kind = 1 << iota
	KindResidue
	KindSignal
)

// World stores Position, Residue and Signal components.
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type World struct {
	ecs       *ecs.World
	placed    *ecs.Map2[Position, Residue]
	positions *ecs.Map[Position]
	residues  *ecs.Map[Residue]
	signals   *ecs.Map[Signal]

	positionFilter *ecs.Filter1[Position]
	residueFilter  *ecs.Filter1[Residue]
	signalFilter   *ecs.Filter1[Signal]
}

// New creates an empty World.
func New() *World {
	store := ecs.NewWorld()
	w := &store
	return &World{
		ecs:            w,
		placed:         ecs.NewMap2[Position, Residue](w),
		positions:      ecs.NewMap[Position](w),
		residues:       ecs.NewMap[Residue](w),
		signals:        ecs.NewMap[Signal](w),
		positionFilter: ecs.NewFilter1[Position](w),
		residueFilter:  ecs.NewFilter1[Residue](w),
		signalFilter:   ecs.NewFilter1[Signal](w),
	}
}

// AddResidue creates an entity with a Position and a Residue.
func (w *World) AddResidue(pos Position, res Residue) Entity {
	return w.placed.NewEntity(&pos, &res)
}

// AddUnplacedResidue creates an entity with a Residue but no Position.
func (w *World) AddUnplacedResidue(res Residue) Entity {
	return w.residues.NewEntity(&res)
}

// Query returns all live entities holding every component in mask, in
// storage order. An empty mask matches nothing.
func (w *World) Query(mask Kind) []Entity {
	var candidates []Entity
	switch {
	case mask&KindResidue != 0:
		candidates = collect1(w.residueFilter)
	case mask&KindPosition != 0:
		candidates = collect1(w.positionFilter)
	case mask&KindSignal != 0:
		candidates = collect1(w.signalFilter)
	default:
		return nil
	}
	out := candidates[:0]
	for _, e := range candidates {
		if w.HasAll(e, mask) {
			out = append(out, e)
		}
	}
	return out
}

func collect1[T any](f *ecs.Filter1[T]) []Entity {
	var out []Entity
	query := f.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// HasAll reports whether e holds every component in mask.
func (w *World) HasAll(e Entity, mask Kind) bool {
	if !w.ecs.Alive(e) {
		return false
	}
	if mask&KindPosition != 0 && !w.positions.Has(e) {
		return false
	}
	if mask&KindResidue != 0 && !w.residues.Has(e) {
		return false
	}
	if mask&KindSignal != 0 && !w.signals.Has(e) {
		return false
	}
	return true
}

// Position returns e's Position component.
func (w *World) Position(e Entity) (Position, bool) {
	if !w.HasAll(e, KindPosition) {
		return Position{}, false
	}
	return *w.positions.Get(e), true
}

// Residue returns e's Residue component.
func (w *World) Residue(e Entity) (Residue, bool) {
	if !w.HasAll(e, KindResidue) {
		return Residue{}, false
	}
	return *w.residues.Get(e), true
}

// Signal returns e's Signal component.
func (w *World) Signal(e Entity) (Signal, bool) {
	if !w.HasAll(e, KindSignal) {
		return Signal{}, false
	}
	return *w.signals.Get(e), true
}

// SetSignal writes e's Signal component, adding it if absent.
// Must not be called while a query is being iterated.
func (w *World) SetSignal(e Entity, s Signal) {
	if w.signals.Has(e) {
		*w.signals.Get(e) = s
		return
	}
	w.signals.Add(e, &s)
}

// Remove deletes e and all of its components.
func (w *World) Remove(e Entity) {
	if w.ecs.Alive(e) {
		w.ecs.RemoveEntity(e)
	}
}

// FindByIndex returns the entity whose Residue has the given global index.
func (w *World) FindByIndex(index int) (Entity, bool) {
	query := w.residueFilter.Query()
	for query.Next() {
		if query.Get().Index == index {
			e := query.Entity()
			query.Close()
			return e, true
		}
	}
	return Entity{}, false
}

// SignalByIndex returns the Signal of the residue with the given global
// index. Convenience for callers that identify residues by index.
func (w *World) SignalByIndex(index int) (Signal, bool) {
	e, ok := w.FindByIndex(index)
	if !ok {
		return Signal{}, false
	}
	return w.Signal(e)
}
