package harness

// TraceEvent records the observable effect of one scenario step.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Backend string `json:"backend"`
	Op      string `json:"op"`

	// Status is the outcome status of store, load and clear.
	Status string `json:"status,omitempty"`

	// Has is the presence flag reported by has and raw.
	Has *bool `json:"has,omitempty"`

	// Payload is "null", "single" or "sequence" for load.
	Payload string   `json:"payload,omitempty"`
	Icons   []string `json:"icons,omitempty"`

	// Version is the record version seen by raw, or the new schema version
	// for rev_version.
	Version   string `json:"version,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`

	// Enabled is the offline mode set by an offline step.
	Enabled *bool `json:"enabled,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation matched.
	Pass bool `json:"pass"`

	// Trace holds one event per executed step, across all backends.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addEvent(ev TraceEvent) TraceEvent {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
	return ev
}
