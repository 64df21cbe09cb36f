package harness

import "github.com/roach88/catalogsync/internal/ir"

// TraceEvent records what one step did.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Step string `json:"step"`

	// Ops and Outline are set by replace and load steps.
	Ops     []string            `json:"ops,omitempty"`
	Outline []ir.SectionOutline `json:"outline,omitempty"`

	// Calls are the surface calls the step caused.
	Calls []string `json:"calls,omitempty"`

	// Selected is the identity a select step published.
	Selected string `json:"selected,omitempty"`

	// Components, Filter and Popped are set when the scenario has a filter.
	Components []string `json:"components,omitempty"`
	Filter     []int64  `json:"filter,omitempty"`
	Popped     int      `json:"popped,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expectation matched and no invariant broke.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations and broken invariants.
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

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// toCanonical converts an event for ir.MarshalCanonical, which only takes
// IR values and plain maps and slices. Empty optional fields are omitted.
func (e TraceEvent) toCanonical() map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"step": e.Step,
	}
	if e.Ops != nil {
		m["ops"] = stringList(e.Ops)
	}
	if e.Outline != nil {
		sections := make([]any, len(e.Outline))
		for i, sec := range e.Outline {
			sections[i] = map[string]any{
				"section": sec.Section,
				"title":   sec.Title,
				"items":   stringList(sec.Items),
			}
		}
		m["outline"] = sections
	}
	if len(e.Calls) > 0 {
		m["calls"] = stringList(e.Calls)
	}
	if e.Selected != "" {
		m["selected"] = e.Selected
	}
	if e.Components != nil {
		m["components"] = stringList(e.Components)
	}
	if e.Filter != nil {
		ids := make([]any, len(e.Filter))
		for i, id := range e.Filter {
			ids[i] = id
		}
		m["filter"] = ids
	}
	if e.Popped > 0 {
		m["popped"] = e.Popped
	}
	return m
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
