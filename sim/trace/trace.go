package trace

// TraceLevel controls the verbosity of transition tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransitions captures every on/off flip and starved gate.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// NewTraceForLevel returns a SignalTrace for level, or nil when tracing is off.
// A nil *SignalTrace is safe to pass to the engine.
func NewTraceForLevel(level TraceLevel) *SignalTrace {
	if level == TraceLevelNone || level == "" {
		return nil
	}
	return NewSignalTrace()
}

// SignalTrace collects transition records during propagation runs.
// Iterations are numbered from 1 within each run; Run counts engine calls
// made against this trace.
type SignalTrace struct {
	Runs        int
	Transitions []TransitionRecord
	Starved     []StarvedRecord
}

// NewSignalTrace creates a SignalTrace ready for recording.
func NewSignalTrace() *SignalTrace {
	return &SignalTrace{
		Transitions: make([]TransitionRecord, 0),
		Starved:     make([]StarvedRecord, 0),
	}
}

// BeginRun marks the start of one engine call and returns its ordinal.
func (st *SignalTrace) BeginRun() int {
	st.Runs++
	return st.Runs
}

// RecordTransition appends an on/off flip.
func (st *SignalTrace) RecordTransition(record TransitionRecord) {
	st.Transitions = append(st.Transitions, record)
}

// RecordStarved appends a gate activation blocked for lack of ATP.
func (st *SignalTrace) RecordStarved(record StarvedRecord) {
	st.Starved = append(st.Starved, record)
}
