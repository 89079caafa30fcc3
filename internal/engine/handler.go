package engine

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trackshift-engine/internal/jobresult"
	"trackshift-engine/internal/shared/metrics"
	"trackshift-engine/internal/shared/server/respond"
	"trackshift-engine/internal/shared/telemetry"
)

// maxDocumentBytes caps accepted job result documents. Pipeline results with
// full region lists run to a few megabytes; anything near this limit is
// malformed input.
const maxDocumentBytes = 64 << 20

// Handler exposes the assembly engine over HTTP.
type Handler struct {
	engine *Engine
}

// NewHandler builds the HTTP handler around an engine.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the assembly endpoint on the given router group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/analyses/assemble", h.Assemble)
}

// Assemble accepts a completed job result document and responds with the
// canonical AnalysisResult. Incomplete jobs get 422 with code JOB_INCOMPLETE.
func (h *Handler) Assemble(c *gin.Context) {
	started := time.Now()
	metrics.IncAssemblyStarted()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes))
	if err != nil {
		metrics.IncAssemblyFailed()
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read request body", nil)
		return
	}
	doc, err := jobresult.Decode(body)
	if err != nil {
		metrics.IncAssemblyFailed()
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		return
	}

	result, trace, err := h.engine.Assemble(doc)
	if err != nil {
		metrics.IncAssemblyFailed()
		var incomplete *JobIncompleteError
		if errors.As(err, &incomplete) {
			respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeJobIncomplete, incomplete.Error(), gin.H{
				"jobId":  incomplete.JobID,
				"status": incomplete.Status,
				"stage":  incomplete.Stage,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, err.Error(), nil)
		return
	}

	logAssembly(c, result, trace, time.Since(started))
	metrics.IncAssemblyCompleted()
	metrics.AddChangesEmitted(len(result.Changes))
	metrics.AddDegradedFields(trace.Len())
	metrics.ObserveAssemblyDurationMs(float64(time.Since(started).Milliseconds()))
	respond.OK(c, result)
}

func logAssembly(c *gin.Context, result *AnalysisResult, trace *Trace, elapsed time.Duration) {
	fields := map[string]any{
		"job_id":      result.JobID,
		"changes":     len(result.Changes),
		"degraded":    trace.Len(),
		"duration_ms": elapsed.Milliseconds(),
		"request_id":  c.GetString("requestId"),
	}
	telemetry.Info("analysis.assembled", fields)
	for _, entry := range trace.Entries() {
		telemetry.Info("analysis.field_degraded", map[string]any{
			"job_id":    result.JobID,
			"component": entry.Component,
			"field":     entry.Field,
			"reason":    entry.Reason,
		})
	}
}
