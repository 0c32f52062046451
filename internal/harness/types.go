package harness

import "github.com/roach88/sellbot/internal/engine"

// Trace event types.
const (
	EventInvocation = "invocation"
	EventCompletion = "completion"
	EventNotice     = "notice"
)

// CaseSuccess is the output case of a step that returned no error.
// Failed steps report their engine error code instead.
const CaseSuccess = "Success"

// TraceEvent is one entry of a scenario trace: a step invocation, its
// completion, or a notice the engine delivered while the step ran.
type TraceEvent struct {
	Seq        int64          `json:"seq"`
	Type       string         `json:"type"`
	Op         string         `json:"op,omitempty"`
	Args       map[string]any `json:"args,omitempty"`
	OutputCase string         `json:"output_case,omitempty"`
	Result     map[string]any `json:"result,omitempty"`
	Notice     *engine.Notice `json:"notice,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds invocations, completions and notices in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expect and assertion failures. Empty if Pass is true.
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

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddInvocationTrace adds a step invocation to the trace.
func (r *Result) AddInvocationTrace(op string, args map[string]any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:  seq,
		Type: EventInvocation,
		Op:   op,
		Args: args,
	})
}

// AddCompletionTrace adds a step completion to the trace.
func (r *Result) AddCompletionTrace(op, outputCase string, result map[string]any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:        seq,
		Type:       EventCompletion,
		Op:         op,
		OutputCase: outputCase,
		Result:     result,
	})
}

// AddNoticeTrace adds a delivered notice to the trace.
func (r *Result) AddNoticeTrace(n engine.Notice, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    seq,
		Type:   EventNotice,
		Notice: &n,
	})
}

// Notices returns the notices of the trace in delivery order.
func (r *Result) Notices() []engine.Notice {
	var out []engine.Notice
	for _, ev := range r.Trace {
		if ev.Type == EventNotice && ev.Notice != nil {
			out = append(out, *ev.Notice)
		}
	}
	return out
}
