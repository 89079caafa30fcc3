package engine

import (
	"encoding/json"
	"fmt"

	"trackshift-engine/internal/jobresult"
)

// Detector stage names as the orchestrator emits them.
const (
	StageObjectDiff   = "object_diff"
	StageMaskRCNN     = "mask_rcnn"
	StageDefectRegion = "pcb_cd"
	StageDrift        = "changeformer_cd"
	StageAlignment    = "alignment"
)

// StagePayload is the closed set of detector outputs the engine understands.
// Builder dispatch type-switches over it exhaustively, so adding a detector
// means adding a variant here and handling it everywhere the compiler points.
type StagePayload interface {
	stageName() string
}

// PairedComponent is one before/after component pairing from the object-diff
// detector. Box is pixel xyxy shared by both frames.
type PairedComponent struct {
	ClassName  string
	Box        [4]float64
	SSIM       float64
	Changed    bool
	Confidence float64
}

// ObjectDiffPayload is the object/component diff detector output.
type ObjectDiffPayload struct {
	Paired    []PairedComponent
	ImageSize *ImageSize
}

func (ObjectDiffPayload) stageName() string { return StageObjectDiff }

// MaskDetection is one class-scored instance detection. Box is pixel yxyx,
// the segmentation model's native row-major ordering.
type MaskDetection struct {
	ClassName string
	Box       [4]float64
	Score     float64
	MaskArea  int
}

// MaskPayload is the instance-segmentation damage detector output.
type MaskPayload struct {
	Detections []MaskDetection
	ImageSize  *ImageSize
}

func (MaskPayload) stageName() string { return StageMaskRCNN }

// Region is one discrete changed region from a region-reporting detector.
// Box is unit-square xyxy when Normalized, pixel xyxy otherwise.
type Region struct {
	ID         string
	Label      string
	Confidence float64
	Box        [4]float64
	Normalized bool
	AreaRatio  float64
	MeanProb   float64
	MaxProb    float64
	PixelCount int
}

// DefectPayload is the defect-region detector output.
type DefectPayload struct {
	Coverage      float64
	PixelsChanged int
	Regions       []Region
	ImageSize     *ImageSize
}

func (DefectPayload) stageName() string { return StageDefectRegion }

// DriftPayload is the structural-drift detector output. Regions may be empty
// while Coverage is positive; that aggregate case gets its own synthetic
// change.
type DriftPayload struct {
	Coverage  float64
	Regions   []Region
	ImageSize *ImageSize
}

func (DriftPayload) stageName() string { return StageDrift }

// AlignmentPayload is diagnostics-only: it contributes SSIM and skip reasons
// to the timeline but never produces a change.
type AlignmentPayload struct {
	SSIM    *float64
	Method  string
	Reason  string
	Skipped bool
}

func (AlignmentPayload) stageName() string { return StageAlignment }

// decodeStage turns one raw stage bundle into its typed payload. Unknown
// stage names and undecodable payloads degrade to (nil, false) with a trace
// entry; they never abort assembly.
func decodeStage(name string, raw jobresult.Stage, component string, tr *Trace) (StagePayload, bool) {
	switch name {
	case StageObjectDiff:
		return decodeObjectDiff(raw, component, tr)
	case StageMaskRCNN:
		return decodeMask(raw, component, tr)
	case StageDefectRegion:
		return decodeDefect(raw, component, tr)
	case StageDrift:
		return decodeDrift(raw, component, tr)
	case StageAlignment:
		return decodeAlignment(raw), true
	default:
		tr.Recordf(component, "stage", "unknown detector stage %q skipped", name)
		return nil, false
	}
}

type rawPaired struct {
	ClassName  string    `json:"class_name"`
	BoxShared  []float64 `json:"box_shared"`
	BoxAfter   []float64 `json:"box_after"`
	BoxBefore  []float64 `json:"box_before"`
	SSIM       float64   `json:"ssim"`
	Changed    bool      `json:"changed"`
	Confidence float64   `json:"confidence"`
}

func decodeObjectDiff(raw jobresult.Stage, component string, tr *Trace) (StagePayload, bool) {
	var report struct {
		Paired []rawPaired `json:"paired"`
		Counts struct {
			Changed int `json:"changed"`
			Stable  int `json:"stable"`
		} `json:"counts"`
	}
	source := raw.Report
	if len(source) == 0 {
		source = raw.Summary
		tr.Record(component, "report", "component report missing, falling back to summary payload")
	}
	if len(source) == 0 {
		tr.Record(component, "report", "no object-diff payload present")
		return nil, false
	}
	if err := json.Unmarshal(source, &report); err != nil {
		tr.Recordf(component, "report", "object-diff payload undecodable: %v", err)
		return nil, false
	}
	payload := ObjectDiffPayload{ImageSize: sizeOf(raw.ImageSize)}
	if payload.ImageSize == nil {
		tr.Record(component, "imageSize", "image size absent, boxes treated as normalized")
	}
	changed, stable := 0, 0
	for i, entry := range report.Paired {
		box, ok := pickBox(entry.BoxShared, entry.BoxAfter, entry.BoxBefore)
		if !ok {
			tr.Recordf(component, fmt.Sprintf("paired[%d].box", i), "pairing dropped: no 4-element box")
			continue
		}
		if entry.Changed {
			changed++
		} else {
			stable++
		}
		payload.Paired = append(payload.Paired, PairedComponent{
			ClassName:  fallback(entry.ClassName, "component"),
			Box:        box,
			SSIM:       entry.SSIM,
			Changed:    entry.Changed,
			Confidence: entry.Confidence,
		})
	}
	if counts := report.Counts; counts.Changed+counts.Stable > 0 &&
		(counts.Changed != changed || counts.Stable != stable) {
		tr.Recordf(component, "counts",
			"reported %d changed/%d stable but %d/%d paired records decoded",
			counts.Changed, counts.Stable, changed, stable)
	}
	return payload, true
}

func decodeMask(raw jobresult.Stage, component string, tr *Trace) (StagePayload, bool) {
	var summary struct {
		Detections []struct {
			ClassName string    `json:"class_name"`
			BBox      []float64 `json:"bbox"`
			Score     *float64  `json:"score"`
			MaskArea  int       `json:"mask_area"`
		} `json:"detections"`
	}
	if len(raw.Summary) == 0 {
		tr.Record(component, "summary", "no detections payload present")
		return nil, false
	}
	if err := json.Unmarshal(raw.Summary, &summary); err != nil {
		tr.Recordf(component, "summary", "detections payload undecodable: %v", err)
		return nil, false
	}
	payload := MaskPayload{ImageSize: sizeOf(raw.ImageSize)}
	if payload.ImageSize == nil {
		tr.Record(component, "imageSize", "image size absent, boxes treated as normalized")
	}
	for i, det := range summary.Detections {
		box, ok := toBox(det.BBox)
		if !ok {
			tr.Recordf(component, fmt.Sprintf("detections[%d].bbox", i), "detection dropped: no 4-element box")
			continue
		}
		score := 0.0
		if det.Score != nil {
			score = *det.Score
		} else {
			tr.Recordf(component, fmt.Sprintf("detections[%d].score", i), "score absent, defaulted to 0")
		}
		payload.Detections = append(payload.Detections, MaskDetection{
			ClassName: fallback(det.ClassName, "damage"),
			Box:       box,
			Score:     score,
			MaskArea:  det.MaskArea,
		})
	}
	return payload, true
}

type rawRegion struct {
	ID             string    `json:"id"`
	Label          string    `json:"label"`
	Confidence     float64   `json:"confidence"`
	BBox           []float64 `json:"bbox"`
	BBoxNormalized []float64 `json:"bboxNormalized"`
	AreaRatio      float64   `json:"areaRatio"`
	MeanProb       float64   `json:"meanProbability"`
	MaxProb        float64   `json:"maxProbability"`
	PixelCount     int       `json:"pixelCount"`
}

type rawRegionSummary struct {
	Coverage      float64              `json:"coverage"`
	PixelsChanged int                  `json:"pixelsChanged"`
	Regions       []rawRegion          `json:"regions"`
	ImageSize     *jobresult.ImageSize `json:"imageSize"`
}

func decodeRegionSummary(raw jobresult.Stage, component string, tr *Trace) (*rawRegionSummary, *ImageSize, bool) {
	source := raw.Summary
	if len(source) == 0 {
		source = raw.Report
		tr.Record(component, "summary", "summary missing, falling back to report payload")
	}
	if len(source) == 0 {
		tr.Record(component, "summary", "no region payload present")
		return nil, nil, false
	}
	var summary rawRegionSummary
	if err := json.Unmarshal(source, &summary); err != nil {
		tr.Recordf(component, "summary", "region payload undecodable: %v", err)
		return nil, nil, false
	}
	size := sizeOf(raw.ImageSize)
	if size == nil {
		size = sizeOf(summary.ImageSize)
	}
	return &summary, size, true
}

func decodeRegions(entries []rawRegion, component string, tr *Trace) []Region {
	var regions []Region
	for i, entry := range entries {
		region := Region{
			ID:         entry.ID,
			Label:      fallback(entry.Label, "region"),
			Confidence: entry.Confidence,
			AreaRatio:  entry.AreaRatio,
			MeanProb:   entry.MeanProb,
			MaxProb:    entry.MaxProb,
			PixelCount: entry.PixelCount,
		}
		if box, ok := toBox(entry.BBoxNormalized); ok {
			region.Box = box
			region.Normalized = true
		} else if box, ok := toBox(entry.BBox); ok {
			region.Box = box
		} else {
			tr.Recordf(component, fmt.Sprintf("regions[%d].bbox", i), "region dropped: no usable box")
			continue
		}
		regions = append(regions, region)
	}
	return regions
}

func decodeDefect(raw jobresult.Stage, component string, tr *Trace) (StagePayload, bool) {
	summary, size, ok := decodeRegionSummary(raw, component, tr)
	if !ok {
		return nil, false
	}
	return DefectPayload{
		Coverage:      summary.Coverage,
		PixelsChanged: summary.PixelsChanged,
		Regions:       decodeRegions(summary.Regions, component, tr),
		ImageSize:     size,
	}, true
}

func decodeDrift(raw jobresult.Stage, component string, tr *Trace) (StagePayload, bool) {
	summary, size, ok := decodeRegionSummary(raw, component, tr)
	if !ok {
		return nil, false
	}
	return DriftPayload{
		Coverage:  summary.Coverage,
		Regions:   decodeRegions(summary.Regions, component, tr),
		ImageSize: size,
	}, true
}

func decodeAlignment(raw jobresult.Stage) AlignmentPayload {
	var summary struct {
		Method string   `json:"alignment_method"`
		SSIM   *float64 `json:"ssim"`
		Reason string   `json:"reason"`
		Status string   `json:"status"`
	}
	if len(raw.Summary) > 0 {
		_ = json.Unmarshal(raw.Summary, &summary)
	} else if len(raw.Report) > 0 {
		_ = json.Unmarshal(raw.Report, &summary)
	}
	method := summary.Method
	if method == "" {
		method = summary.Status
	}
	return AlignmentPayload{
		SSIM:    summary.SSIM,
		Method:  method,
		Reason:  summary.Reason,
		Skipped: raw.Skipped,
	}
}

// decodeArtifacts coerces a raw artifacts bundle to name -> path entries,
// skipping nulls and nested values.
func decodeArtifacts(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil
	}
	out := make(map[string]string, len(generic))
	for key, value := range generic {
		if path, ok := value.(string); ok && path != "" {
			out[key] = path
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toBox(values []float64) ([4]float64, bool) {
	if len(values) != 4 {
		return [4]float64{}, false
	}
	return [4]float64{values[0], values[1], values[2], values[3]}, true
}

func pickBox(candidates ...[]float64) ([4]float64, bool) {
	for _, candidate := range candidates {
		if box, ok := toBox(candidate); ok {
			return box, true
		}
	}
	return [4]float64{}, false
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
