package jobresult

import "encoding/json"

// Job status values reported by the orchestrator.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Comparison topologies supported by the orchestrator.
const (
	ModeBaseline    = "baseline"
	ModeConsecutive = "consecutive"
)

// JobResult is the completed-job document produced by the pipeline
// orchestrator. The engine consumes it as-is and does not define it; fields
// the orchestrator omits stay at their zero values.
type JobResult struct {
	JobID          string            `json:"jobId"`
	Status         string            `json:"status"`
	StartedAt      string            `json:"startedAt,omitempty"`
	CompletedAt    string            `json:"completedAt,omitempty"`
	DurationMs     int64             `json:"durationMs,omitempty"`
	ComparisonMode string            `json:"comparisonMode"`
	BaselineIndex  int               `json:"baselineIndex"`
	Frames         []Frame           `json:"frames"`
	Timeline       []Comparison      `json:"timeline"`
	Pipeline       map[string]Stage  `json:"pipeline,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Error          *JobError         `json:"error,omitempty"`
}

// Frame is one uploaded image in the ordered input sequence.
type Frame struct {
	Index        int    `json:"index"`
	Path         string `json:"path,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
}

// Comparison is one ordered frame pair the orchestrator actually diffed,
// keyed by detector stage name ("object_diff", "mask_rcnn", "pcb_cd",
// "changeformer_cd", "alignment").
type Comparison struct {
	BeforeIndex    int              `json:"beforeIndex"`
	AfterIndex     int              `json:"afterIndex"`
	BeforePath     string           `json:"beforePath,omitempty"`
	AfterPath      string           `json:"afterPath,omitempty"`
	ComparisonRoot string           `json:"comparisonRoot,omitempty"`
	Pipeline       map[string]Stage `json:"pipeline"`
}

// Stage is one detector's raw output bundle. Summary and Report are kept as
// raw JSON because every detector ships a different shape; the engine decodes
// them into typed payloads. Artifacts is raw for the same reason: values are
// usually path strings but may be null or nested objects.
type Stage struct {
	Summary   json.RawMessage `json:"summary,omitempty"`
	Report    json.RawMessage `json:"report,omitempty"`
	Artifacts json.RawMessage `json:"artifacts,omitempty"`
	ImageSize *ImageSize      `json:"imageSize,omitempty"`
	Skipped   bool            `json:"skipped,omitempty"`
	Logs      string          `json:"logs,omitempty"`
}

// ImageSize is the pixel size of the frame a detector ran against.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// JobError carries the failure detail the orchestrator attaches to
// non-completed jobs.
type JobError struct {
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
}

// Domain returns the normalized analysis domain from job metadata, or ""
// when the job did not declare one.
func (r *JobResult) Domain() string {
	if r == nil || r.Metadata == nil {
		return ""
	}
	return r.Metadata["domain"]
}
