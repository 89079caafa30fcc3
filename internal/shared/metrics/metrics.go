package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	assemblyStartedTotal   atomic.Uint64
	assemblyCompletedTotal atomic.Uint64
	assemblyFailedTotal    atomic.Uint64
	changesEmittedTotal    atomic.Uint64
	degradedFieldsTotal    atomic.Uint64

	assemblyDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncAssemblyStarted increments the started counter.
func IncAssemblyStarted() {
	assemblyStartedTotal.Add(1)
}

// IncAssemblyCompleted increments the completed counter.
func IncAssemblyCompleted() {
	assemblyCompletedTotal.Add(1)
}

// IncAssemblyFailed increments the failed counter.
func IncAssemblyFailed() {
	assemblyFailedTotal.Add(1)
}

// AddChangesEmitted adds the number of ledger changes one assembly produced.
func AddChangesEmitted(count int) {
	if count > 0 {
		changesEmittedTotal.Add(uint64(count))
	}
}

// AddDegradedFields adds the number of defaulted detector fields one assembly
// recorded.
func AddDegradedFields(count int) {
	if count > 0 {
		degradedFieldsTotal.Add(uint64(count))
	}
}

// ObserveAssemblyDurationMs records an assembly duration in milliseconds.
func ObserveAssemblyDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	assemblyDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "assembly_started_total", "Total assemblies started", assemblyStartedTotal.Load())
	writeCounter(&buf, "assembly_completed_total", "Total assemblies completed", assemblyCompletedTotal.Load())
	writeCounter(&buf, "assembly_failed_total", "Total assemblies failed", assemblyFailedTotal.Load())
	writeCounter(&buf, "changes_emitted_total", "Total ledger changes emitted", changesEmittedTotal.Load())
	writeCounter(&buf, "degraded_fields_total", "Total detector fields defaulted during assembly", degradedFieldsTotal.Load())
	writeHistogram(&buf, "assembly_duration_ms", "Assembly duration in milliseconds", assemblyDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
