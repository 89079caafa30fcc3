package engine

import "trackshift-engine/internal/engine/recommendations"

// ChangeType classifies the nature of a detected difference.
type ChangeType string

const (
	ChangeStructural ChangeType = "Structural"
	ChangeSurface    ChangeType = "Surface"
	ChangeSpatial    ChangeType = "Spatial"
)

// Impact buckets a change by how urgently it needs attention.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// ComparisonRef ties one change back to the frame pair that produced it.
type ComparisonRef struct {
	BeforeIndex int    `json:"beforeIndex"`
	AfterIndex  int    `json:"afterIndex"`
	Label       string `json:"label"`
}

// Change is one detected difference in the canonical ledger. IDs are unique
// within a result; Box is unit-square [xMin, yMin, xMax, yMax].
type Change struct {
	ID                 string         `json:"id"`
	Description        string         `json:"description"`
	Box                [4]float64     `json:"box"`
	ChangeType         ChangeType     `json:"changeType"`
	Confidence         float64        `json:"confidence"`
	Interpretation     string         `json:"interpretation"`
	Impact             Impact         `json:"impact"`
	Criticality        int            `json:"criticality"`
	EstimatedCost      float64        `json:"estimatedCost"`
	PerformanceGain    string         `json:"performanceGain"`
	SpecialistInsights string         `json:"specialistInsights,omitempty"`
	RedFlags           []string       `json:"redFlags"`
	SuggestedActions   []string       `json:"suggestedActions"`
	SuggestedQuestions []string       `json:"suggestedQuestions"`
	ComparisonRef      *ComparisonRef `json:"comparisonRef,omitempty"`
}

// TimelineFrame is one uploaded image with its display label.
type TimelineFrame struct {
	Index        int    `json:"index"`
	Label        string `json:"label"`
	OriginalName string `json:"originalName,omitempty"`
	Path         string `json:"path,omitempty"`
}

// TimelineComparison retains per-pair diagnostics independent of whether the
// pair produced any change.
type TimelineComparison struct {
	BeforeIndex     int               `json:"beforeIndex"`
	AfterIndex      int               `json:"afterIndex"`
	Label           string            `json:"label"`
	ComparisonRoot  string            `json:"comparisonRoot,omitempty"`
	SSIM            *float64          `json:"ssim,omitempty"`
	AlignmentMethod string            `json:"alignmentMethod,omitempty"`
	AlignmentNote   string            `json:"alignmentNote,omitempty"`
	Coverage        *float64          `json:"coverage,omitempty"`
	RegionCount     int               `json:"regionCount,omitempty"`
	ChangeCount     int               `json:"changeCount"`
	Artifacts       map[string]string `json:"artifacts,omitempty"`
}

// Timeline is the ordered decomposition of a job into frames and the
// comparisons actually run against them.
type Timeline struct {
	Mode        string               `json:"mode"`
	Frames      []TimelineFrame      `json:"frames"`
	Comparisons []TimelineComparison `json:"comparisons"`
}

// AnalysisResult is the engine's sole output: the canonical change ledger
// plus derived summary, recommendations, and timeline metadata.
type AnalysisResult struct {
	Summary         string                           `json:"summary"`
	Changes         []Change                         `json:"changes"`
	Recommendations []recommendations.Recommendation `json:"recommendations"`
	IsDemoMode      bool                             `json:"isDemoMode"`
	JobID           string                           `json:"jobId"`
	Timeline        *Timeline                        `json:"timeline,omitempty"`
}
