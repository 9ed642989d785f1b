package sim

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
	"github.com/sirupsen/logrus"

	"github.com/geoffreypi/strand-game-sub000/sim/hex"
	"github.com/geoffreypi/strand-game-sub000/sim/residue"
	"github.com/geoffreypi/strand-game-sub000/sim/world"
)

// snapshot holds one invocation's view of every signal-capable entity as
// parallel tables indexed by slot. Slots are ordered by ascending residue
// global index, which is also the phase-2 processing order.
type snapshot struct {
	entities  []world.Entity
	index     []int
	typ       []string
	coord     []hex.Coord
	category  []residue.Category
	target    []residue.Nucleotide // empty when the type does not bind
	prob      []float64
	hadSignal []bool
	prior     []bool // on before the call
	on        []bool
	source    []bool

	neighbors [][]int // signal-capable neighbor slots, in hex.Neighbors order
	at        map[hex.Coord]int
	wires     [][]int // conductor components, each sorted by slot
}

type placed struct {
	entity world.Entity
	pos    world.Position
	res    world.Residue
}

// newSnapshot reads the store and resolves each entity's category once.
// Entities without Position or Residue, non-signal types, and entities on
// an already occupied hex (higher global index loses) are left out.
func newSnapshot(store Store, reg *residue.Registry, cfg SignalConfig) *snapshot {
	var rows []placed
	for _, e := range store.Query(world.KindPosition | world.KindResidue) {
		pos, ok := store.Position(e)
		if !ok {
			continue
		}
		res, ok := store.Residue(e)
		if !ok {
			continue
		}
		if !reg.SignalCapable(res.Type) {
			continue
		}
		rows = append(rows, placed{entity: e, pos: pos, res: res})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].res.Index < rows[j].res.Index })

	s := &snapshot{at: make(map[hex.Coord]int, len(rows))}
	for _, r := range rows {
		if other, taken := s.at[r.pos.Coord]; taken {
			logrus.Debugf("residue %d at %s overlaps residue %d; skipped", r.res.Index, r.pos.Coord, s.index[other])
			continue
		}
		slot := len(s.entities)
		s.at[r.pos.Coord] = slot

		cat := reg.SignalingCategory(r.res.Type)
		target, _ := reg.BindingTarget(r.res.Type)
		sig, has := store.Signal(r.entity)

		s.entities = append(s.entities, r.entity)
		s.index = append(s.index, r.res.Index)
		s.typ = append(s.typ, r.res.Type)
		s.coord = append(s.coord, r.pos.Coord)
		s.category = append(s.category, cat)
		s.target = append(s.target, target)
		s.prob = append(s.prob, cfg.Probability(r.res.Type, cat))
		s.hadSignal = append(s.hadSignal, has)
		s.prior = append(s.prior, has && sig.On)
		s.on = append(s.on, has && sig.On)
		s.source = append(s.source, has && sig.Source)
	}

	s.neighbors = make([][]int, len(s.entities))
	for i, c := range s.coord {
		for _, n := range hex.Neighbors(c) {
			if j, ok := s.at[n.Coord]; ok {
				s.neighbors[i] = append(s.neighbors[i], j)
			}
		}
	}
	s.wires = s.conductorComponents()
	return s
}

func (s *snapshot) len() int {
	return len(s.entities)
}

// conductorComponents partitions conductors into maximal connected
// components under hex adjacency. Components are emitted in order of their
// lowest slot, members sorted by slot.
//
// The conductor subgraph is built as an undirected lvlath graph keyed by
// slot and each component is read off a breadth-first traversal.
// TODO: maintain components incrementally across stepped calls instead of
// rebuilding the graph on every call.
func (s *snapshot) conductorComponents() [][]int {
	g := core.NewGraph()
	for i := range s.entities {
		if s.category[i] != residue.Conductor {
			continue
		}
		mustGraph(g.AddVertex(slotID(i)))
		for _, j := range s.neighbors[i] {
			if j > i && s.category[j] == residue.Conductor {
				_, err := g.AddEdge(slotID(i), slotID(j), 0)
				mustGraph(err)
			}
		}
	}

	var wires [][]int
	visited := make([]bool, s.len())
	for i := range s.entities {
		if s.category[i] != residue.Conductor || visited[i] {
			continue
		}
		res, err := bfs.BFS(g, slotID(i))
		mustGraph(err)
		comp := make([]int, 0, len(res.Order))
		for _, id := range res.Order {
			j, err := strconv.Atoi(id)
			mustGraph(err)
			visited[j] = true
			comp = append(comp, j)
		}
		sort.Ints(comp)
		wires = append(wires, comp)
	}
	return wires
}

func slotID(slot int) string {
	return strconv.Itoa(slot)
}

// mustGraph panics on a conductor graph error. Vertices are added before
// their edges and traversals start at known vertices, so an error here is
// a programming bug.
func mustGraph(err error) {
	if err != nil {
		panic(fmt.Sprintf("sim: conductor graph: %v", err))
	}
}

// bindSource applies source initialization to slot i, which must have a
// binding target.
func (s *snapshot) bindSource(i int, bound BoundPairs) {
	nt, ok := bound[s.index[i]]
	isSource := ok && s.target[i].Matches(nt)
	s.source[i] = isSource
	s.on[i] = isSource
}

// initSteady resets every entity: binding residues from bound pairs, all
// others off.
func (s *snapshot) initSteady(bound BoundPairs) {
	for i := range s.entities {
		if s.target[i] != "" {
			s.bindSource(i, bound)
			continue
		}
		s.source[i] = false
		s.on[i] = false
	}
}

// initStepped initializes only entities that have never carried a Signal.
// With refresh set, binding residues are re-evaluated against bound too.
func (s *snapshot) initStepped(bound BoundPairs, refresh bool) {
	for i := range s.entities {
		switch {
		case !s.hadSignal[i] && s.target[i] != "":
			s.bindSource(i, bound)
		case !s.hadSignal[i]:
			s.source[i] = false
			s.on[i] = false
		case refresh && s.target[i] != "":
			s.bindSource(i, bound)
		}
	}
}

// writeBack stores the final on/source flags into every snapshot entity.
func (s *snapshot) writeBack(store Store) {
	for i, e := range s.entities {
		store.SetSignal(e, world.Signal{On: s.on[i], Source: s.source[i]})
	}
}
