package metrics

import (
	"strings"
	"testing"
)

func TestRenderCounters(t *testing.T) {
	IncAssemblyStarted()
	IncAssemblyCompleted()
	AddChangesEmitted(3)
	AddDegradedFields(2)

	out := Render()
	for _, name := range []string{
		"assembly_started_total",
		"assembly_completed_total",
		"assembly_failed_total",
		"changes_emitted_total",
		"degraded_fields_total",
	} {
		if !strings.Contains(out, "# TYPE "+name+" counter") {
			t.Fatalf("expected counter %s in output", name)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("expected one observation per finite bucket, got %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("expected sum 555, got %v", snap.sum)
	}
}
