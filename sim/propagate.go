package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/geoffreypi/strand-game-sub000/sim/hex"
	"github.com/geoffreypi/strand-game-sub000/sim/residue"
	"github.com/geoffreypi/strand-game-sub000/sim/trace"
)

// propagator applies steps to a snapshot. It owns the run's ATP set view,
// random source and trace.
type propagator struct {
	*snapshot
	atp      ATPSet
	random   RandomSource
	trace    *trace.SignalTrace
	run      int
	consumed []string
}

// step applies one two-phase update and reports whether any entity flipped.
//
// Phase 1 sets every conductor component from the state at step start.
// Phase 2 then walks the remaining entities in slot order against the
// live table, so an entity sees updates made earlier in the same phase.
func (p *propagator) step(iter int) bool {
	start := make([]bool, len(p.on))
	copy(start, p.on)

	for _, wire := range p.wires {
		p.updateWire(iter, wire, start)
	}
	for i := range p.entities {
		if p.source[i] || !hasRule(p.category[i]) {
			continue
		}
		p.updateEntity(iter, i)
	}

	flips := 0
	for i := range start {
		if start[i] != p.on[i] {
			flips++
		}
	}
	logrus.Debugf("[iter %04d] %d flips, %d ATP consumed", iter, flips, len(p.consumed))
	return flips > 0
}

// hasRule reports whether phase 2 evaluates entities of category c.
func hasRule(c residue.Category) bool {
	switch c {
	case residue.Actuator, residue.InputPort, residue.OutputPort, residue.AndGate, residue.NotGate:
		return true
	}
	return false
}

// updateWire assigns one value to every member of a conductor component.
// The component is driven iff some non-conductor neighbor was on at step
// start. An already lit component stays lit without a roll; a dark one
// rolls once, using its lowest-index member's probability.
func (p *propagator) updateWire(iter int, wire []int, start []bool) {
	driven, lit := false, false
	for _, m := range wire {
		lit = lit || start[m]
		for _, j := range p.neighbors[m] {
			if p.category[j] != residue.Conductor && start[j] {
				driven = true
			}
		}
	}

	value := false
	switch {
	case !driven:
	case lit:
		value = true
	default:
		value = p.roll(wire[0])
	}
	for _, m := range wire {
		if p.source[m] {
			continue
		}
		p.set(iter, m, value, "")
	}
}

// updateEntity evaluates slot i's enabling condition and applies the
// transition rules: immediate off on loss of condition, roll (and ATP for
// gates) on off→on, no change while on and enabled.
func (p *propagator) updateEntity(iter int, i int) {
	if !p.enabled(i) {
		p.set(iter, i, false, "")
		return
	}
	if p.on[i] {
		return
	}
	if !p.roll(i) {
		return
	}
	key := ""
	if p.category[i].IsGate() {
		k, ok := p.atp.consumeAdjacent(p.coord[i])
		if !ok {
			logrus.Debugf("[iter %04d] %s %d starved: no adjacent ATP", iter, p.typ[i], p.index[i])
			if p.trace != nil {
				p.trace.RecordStarved(trace.StarvedRecord{Run: p.run, Iteration: iter, Index: p.index[i], Type: p.typ[i]})
			}
			return
		}
		key = k
		p.consumed = append(p.consumed, k)
	}
	p.set(iter, i, true, key)
}

// enabled evaluates the category's enabling condition against the live
// state table.
func (p *propagator) enabled(i int) bool {
	switch p.category[i] {
	case residue.Actuator:
		for _, j := range p.neighbors[i] {
			if p.on[j] {
				return true
			}
		}
	case residue.InputPort:
		for _, j := range p.neighbors[i] {
			c := p.category[j]
			if (c == residue.Conductor || c == residue.OutputPort || p.source[j]) && p.on[j] {
				return true
			}
		}
	case residue.OutputPort:
		for _, j := range p.neighbors[i] {
			if p.category[j].IsGate() && p.on[j] {
				return true
			}
			if p.category[j] == residue.Crossroads && p.routed(i, j) {
				return true
			}
		}
	case residue.AndGate:
		inputs := 0
		for _, j := range p.neighbors[i] {
			if p.category[j] != residue.InputPort {
				continue
			}
			inputs++
			if !p.on[j] {
				return false
			}
		}
		return inputs > 0
	case residue.NotGate:
		inputs := 0
		for _, j := range p.neighbors[i] {
			if p.category[j] != residue.InputPort {
				continue
			}
			inputs++
			if p.on[j] {
				return false
			}
		}
		return inputs > 0
	}
	return false
}

// routed reports whether crossroads slot cross carries an on input port
// onto output port slot out. The input must sit diametrically opposite out.
func (p *propagator) routed(out, cross int) bool {
	opp := hex.Opposite(p.coord[cross], p.coord[out])
	j, ok := p.at[opp]
	return ok && p.category[j] == residue.InputPort && p.on[j]
}

// roll draws once from the random source against slot i's probability.
func (p *propagator) roll(i int) bool {
	return p.random.Float64() < p.prob[i]
}

// set writes slot i and records the flip, if any.
func (p *propagator) set(iter int, i int, on bool, atpKey string) {
	if p.on[i] == on {
		return
	}
	p.on[i] = on
	if p.trace != nil {
		p.trace.RecordTransition(trace.TransitionRecord{
			Run:       p.run,
			Iteration: iter,
			Index:     p.index[i],
			Type:      p.typ[i],
			Category:  p.category[i].String(),
			On:        on,
			ATPKey:    atpKey,
		})
	}
}
