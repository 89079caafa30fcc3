package engine

import "fmt"

// TraceEntry records one place where the engine defaulted a missing or
// malformed detector field instead of failing. The degrade-silently policy
// stays, but every degradation becomes auditable.
type TraceEntry struct {
	Component string `json:"component"`
	Field     string `json:"field"`
	Reason    string `json:"reason"`
}

// Trace accumulates degradation records for one assembly run. A run is
// single-threaded, so no locking is needed; separate runs get separate
// traces.
type Trace struct {
	entries []TraceEntry
}

// Record appends one degradation entry.
func (t *Trace) Record(component, field, reason string) {
	if t == nil {
		return
	}
	t.entries = append(t.entries, TraceEntry{Component: component, Field: field, Reason: reason})
}

// Recordf appends one degradation entry with a formatted reason.
func (t *Trace) Recordf(component, field, format string, args ...any) {
	t.Record(component, field, fmt.Sprintf(format, args...))
}

// Entries returns the recorded degradations in order.
func (t *Trace) Entries() []TraceEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Len reports how many degradations were recorded.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
