package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/geoffreypi/strand-game-sub000/sim"
	"github.com/geoffreypi/strand-game-sub000/sim/residue"
	"github.com/geoffreypi/strand-game-sub000/sim/trace"
	"github.com/geoffreypi/strand-game-sub000/sim/world"
)

// stateRow is one residue line of the state table.
type stateRow struct {
	index    int
	code     string
	category residue.Category
	pos      string
	sig      world.Signal
	hasSig   bool
}

// collectRows reads every residue in w, ordered by global index.
func collectRows(w *world.World, reg *residue.Registry) []stateRow {
	var rows []stateRow
	for _, e := range w.Query(world.KindResidue) {
		res, _ := w.Residue(e)
		row := stateRow{index: res.Index, code: res.Type, category: reg.SignalingCategory(res.Type), pos: "-"}
		if p, ok := w.Position(e); ok {
			row.pos = p.Coord.Key()
		}
		row.sig, row.hasSig = w.Signal(e)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })
	return rows
}

// printStep writes the result header and per-residue state table for one
// Run call.
func printStep(out io.Writer, step int, rows []stateRow, res sim.Result) {
	fmt.Fprintf(out, "=== Step %d ===\n", step)
	fmt.Fprintf(out, "Iterations : %d (converged=%v)\n", res.Iterations, res.Converged)
	fmt.Fprintf(out, "Activated  : %v\n", res.Activated)
	fmt.Fprintf(out, "Deactivated: %v\n", res.Deactivated)
	fmt.Fprintf(out, "ATP used   : %s\n", listOrNone(res.ConsumedATP))
	fmt.Fprintf(out, "%-6s %-4s %-12s %-8s %s\n", "INDEX", "TYPE", "CATEGORY", "POS", "STATE")
	for _, r := range rows {
		fmt.Fprintf(out, "%-6d %-4s %-12s %-8s %s\n", r.index, r.code, r.category, r.pos, stateLabel(r))
	}
}

func stateLabel(r stateRow) string {
	switch {
	case !r.hasSig:
		return "-"
	case r.sig.Source:
		return "ON (source)"
	case r.sig.On:
		return "ON"
	}
	return "off"
}

// printTraceSummary writes aggregate trace statistics. A nil trace prints
// nothing.
func printTraceSummary(out io.Writer, st *trace.SignalTrace) {
	if st == nil {
		return
	}
	s := trace.Summarize(st)
	fmt.Fprintln(out, "=== Trace Summary ===")
	fmt.Fprintf(out, "Runs              : %d\n", s.Runs)
	fmt.Fprintf(out, "Activations       : %d\n", s.TotalActivations)
	fmt.Fprintf(out, "Deactivations     : %d\n", s.TotalDeactivations)
	fmt.Fprintf(out, "Gate activations  : %d\n", s.GateActivations)
	fmt.Fprintf(out, "Starved gates     : %d\n", s.StarvedGates)
	fmt.Fprintf(out, "ATP consumed      : %s\n", listOrNone(s.ConsumedATP))

	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(out, "  %-16s: %d\n", c, s.ByCategory[c])
	}
}

func listOrNone(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, " ")
}
