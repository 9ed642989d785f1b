package trace

// TraceSummary aggregates statistics from a SignalTrace.
type TraceSummary struct {
	Runs               int
	TotalActivations   int
	TotalDeactivations int
	GateActivations    int // activations that consumed ATP
	StarvedGates       int
	ConsumedATP        []string
	ByCategory         map[string]int // category → activation count
}

// Summarize computes aggregate statistics from a SignalTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SignalTrace) *TraceSummary {
	summary := &TraceSummary{
		ByCategory: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.Runs = st.Runs
	for _, r := range st.Transitions {
		if !r.On {
			summary.TotalDeactivations++
			continue
		}
		summary.TotalActivations++
		summary.ByCategory[r.Category]++
		if r.ATPKey != "" {
			summary.GateActivations++
			summary.ConsumedATP = append(summary.ConsumedATP, r.ATPKey)
		}
	}
	summary.StarvedGates = len(st.Starved)

	return summary
}
