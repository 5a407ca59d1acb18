package model

import (
	"fmt"
	"io"
	"strings"
)

// Result is the outcome of one primitive in a batch.
type Result struct {
	// Item describes the primitive, such as "segment 3".
	Item string
	ID   ElementID
	Err  error
}

// Batch collects one Result per geometric primitive so a script can keep
// going after a single element fails.
type Batch struct {
	Results []Result
}

// Add records the outcome of creating or modifying item.
func (b *Batch) Add(item string, id ElementID, err error) {
	b.Results = append(b.Results, Result{Item: item, ID: id, Err: err})
}

// Skip records a primitive that was never attempted.
func (b *Batch) Skip(item string, err error) {
	b.Add(item, "", err)
}

// Succeeded returns the number of results without error.
func (b *Batch) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// IDs returns the IDs of successful results in order.
func (b *Batch) IDs() []ElementID {
	ids := make([]ElementID, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Err == nil && r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Failed returns the results with an error.
func (b *Batch) Failed() []Result {
	var failed []Result
	for _, r := range b.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Report is the human-readable outcome of a script. It always leads with the
// success count, followed by diagnostics.
type Report struct {
	// Action completes "N of M <Action>", such as "walls created".
	Action      string
	Succeeded   int
	Attempted   int
	Notes       []string
	Diagnostics []string
}

// NewReport summarises b.
func NewReport(action string, b *Batch) *Report {
	r := &Report{Action: action, Succeeded: b.Succeeded(), Attempted: len(b.Results)}
	for _, f := range b.Failed() {
		r.Diagnostics = append(r.Diagnostics, fmt.Sprintf("%s: %v", f.Item, f.Err))
	}
	return r
}

// Notef appends an informational line printed after the count.
func (r *Report) Notef(format string, a ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, a...))
}

// Diagnosef appends a diagnostic line.
func (r *Report) Diagnosef(format string, a ...interface{}) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, a...))
}

// String returns the report as WriteTo prints it.
func (r *Report) String() string {
	var sb strings.Builder
	r.WriteTo(&sb)
	return sb.String()
}

// WriteTo prints the success count, the notes, then each diagnostic.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d %s\n", r.Succeeded, r.Attempted, r.Action)
	for _, n := range r.Notes {
		fmt.Fprintf(&sb, "%s\n", n)
	}
	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&sb, "%d issue(s):\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&sb, "  - %s\n", d)
		}
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
