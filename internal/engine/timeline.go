package engine

import (
	"fmt"

	"trackshift-engine/internal/jobresult"
)

// stageOrder fixes the builder execution order per pair so assembled change
// order is deterministic regardless of JSON map iteration.
var stageOrder = []string{StageAlignment, StageObjectDiff, StageMaskRCNN, StageDefectRegion, StageDrift}

// detectorPrefixes key re-written change IDs per detector.
var detectorPrefixes = map[string]string{
	StageObjectDiff:   "od",
	StageMaskRCNN:     "mask",
	StageDefectRegion: "defect",
	StageDrift:        "drift",
}

type timelineAssembler struct {
	rules    Rules
	resolver ArtifactResolver
	trace    *Trace
}

// assemble builds the ordered timeline and the global change ledger from a
// completed job. When the per-pair decomposition yields no changes at all, it
// falls back to the job-level pipeline so a partial backend run still
// produces a usable report.
func (a *timelineAssembler) assemble(doc *jobresult.JobResult) (*Timeline, []Change) {
	timeline := &Timeline{Mode: doc.ComparisonMode}
	for _, frame := range doc.Frames {
		timeline.Frames = append(timeline.Frames, TimelineFrame{
			Index:        frame.Index,
			Label:        fmt.Sprintf("Frame %d", frame.Index+1),
			OriginalName: frame.OriginalName,
			Path:         a.resolver.Resolve(frame.Path, ""),
		})
	}

	var changes []Change
	for _, pair := range doc.Timeline {
		comparison, pairChanges := a.assemblePair(doc.ComparisonMode, pair)
		comparison.ChangeCount = len(pairChanges)
		timeline.Comparisons = append(timeline.Comparisons, comparison)
		changes = append(changes, pairChanges...)
	}

	if len(changes) == 0 && len(doc.Pipeline) > 0 {
		comparison, fallbackChanges := a.assembleFallback(doc)
		if len(fallbackChanges) > 0 {
			comparison.ChangeCount = len(fallbackChanges)
			timeline.Comparisons = append(timeline.Comparisons, comparison)
			changes = fallbackChanges
		}
	}
	return timeline, changes
}

func (a *timelineAssembler) assemblePair(mode string, pair jobresult.Comparison) (TimelineComparison, []Change) {
	label := comparisonLabel(mode, pair.BeforeIndex, pair.AfterIndex)
	comparison := TimelineComparison{
		BeforeIndex:    pair.BeforeIndex,
		AfterIndex:     pair.AfterIndex,
		Label:          label,
		ComparisonRoot: pair.ComparisonRoot,
	}
	ref := &ComparisonRef{BeforeIndex: pair.BeforeIndex, AfterIndex: pair.AfterIndex, Label: label}

	var changes []Change
	for _, stage := range stageOrder {
		raw, ok := pair.Pipeline[stage]
		if !ok {
			continue
		}
		component := fmt.Sprintf("timeline[f%d].%s", pair.AfterIndex, stage)
		// Artifacts resolve regardless of whether the payload decodes:
		// a malformed summary must not discard the stage's other data.
		if resolved := a.resolver.resolveAll(decodeArtifacts(raw.Artifacts), pair.ComparisonRoot); resolved != nil {
			if comparison.Artifacts == nil {
				comparison.Artifacts = map[string]string{}
			}
			for name, resolvedURL := range resolved {
				comparison.Artifacts[stage+"/"+name] = resolvedURL
			}
		}
		payload, ok := decodeStage(stage, raw, component, a.trace)
		if !ok {
			continue
		}
		a.recordDiagnostics(&comparison, payload)
		built := a.buildStageChanges(payload)
		keyed := a.rekey(built, stage, fmt.Sprintf("f%d", pair.AfterIndex), component, ref)
		changes = append(changes, keyed...)
	}
	return comparison, changes
}

// assembleFallback derives one implicit comparison from the job-level
// pipeline summaries. With fewer than two frames no valid pair exists, so
// nothing is emitted: a comparisonRef must only name real frame indices.
func (a *timelineAssembler) assembleFallback(doc *jobresult.JobResult) (TimelineComparison, []Change) {
	if len(doc.Frames) < 2 {
		a.trace.Record("timeline", "comparisons",
			"job-level pipeline present but fewer than two frames, no comparison possible")
		return TimelineComparison{}, nil
	}
	before := doc.BaselineIndex
	if before < 0 || before >= len(doc.Frames) {
		before = 0
	}
	after := len(doc.Frames) - 1
	if before >= after {
		before = after - 1
	}
	label := comparisonLabel(doc.ComparisonMode, before, after)
	comparison := TimelineComparison{BeforeIndex: before, AfterIndex: after, Label: label}
	ref := &ComparisonRef{BeforeIndex: before, AfterIndex: after, Label: label}
	a.trace.Record("timeline", "comparisons", "per-pair decomposition empty, using job-level pipeline summaries")

	var changes []Change
	for _, stage := range stageOrder {
		raw, ok := doc.Pipeline[stage]
		if !ok {
			continue
		}
		component := "pipeline." + stage
		payload, ok := decodeStage(stage, raw, component, a.trace)
		if !ok {
			continue
		}
		a.recordDiagnostics(&comparison, payload)
		built := a.buildStageChanges(payload)
		changes = append(changes, a.rekey(built, stage, "job", component, ref)...)
	}
	return comparison, changes
}

// buildStageChanges dispatches one decoded payload to its builder. The type
// switch is exhaustive over the closed payload set; a new detector variant
// fails compilation here until it is handled.
func (a *timelineAssembler) buildStageChanges(payload StagePayload) []Change {
	switch p := payload.(type) {
	case ObjectDiffPayload:
		return BuildObjectDiffChanges(p)
	case MaskPayload:
		return BuildMaskChanges(p, a.rules.MaskScoreGate)
	case DefectPayload:
		return BuildDefectChanges(p, a.rules)
	case DriftPayload:
		return BuildDriftChanges(p, a.rules)
	case AlignmentPayload:
		return nil
	default:
		panic(fmt.Sprintf("unhandled stage payload %T", payload))
	}
}

func (a *timelineAssembler) recordDiagnostics(comparison *TimelineComparison, payload StagePayload) {
	switch p := payload.(type) {
	case AlignmentPayload:
		comparison.SSIM = p.SSIM
		comparison.AlignmentMethod = p.Method
		comparison.AlignmentNote = p.Reason
	case DefectPayload:
		coverage := p.Coverage
		comparison.Coverage = &coverage
		comparison.RegionCount += len(p.Regions)
	case DriftPayload:
		coverage := p.Coverage
		comparison.Coverage = &coverage
		comparison.RegionCount += len(p.Regions)
	}
}

// rekey guarantees globally unique change IDs across the whole timeline and
// attaches the comparison reference. Detector-supplied region IDs are kept as
// the local part; they are only unique within one pair.
func (a *timelineAssembler) rekey(changes []Change, stage, scope, component string, ref *ComparisonRef) []Change {
	prefix := detectorPrefixes[stage]
	for i := range changes {
		local := fmt.Sprintf("%d", i)
		if changes[i].ID != "" {
			local = changes[i].ID
		}
		changes[i].ID = fmt.Sprintf("%s-%s-%s", prefix, scope, local)
		changes[i].Description = fmt.Sprintf("%s (%s)", changes[i].Description, ref.Label)
		refCopy := *ref
		changes[i].ComparisonRef = &refCopy

		if repaired, dirty := repairBox(changes[i].Box); dirty {
			a.trace.Recordf(component, fmt.Sprintf("changes[%s].box", changes[i].ID),
				"box clamped or reordered from %v", changes[i].Box)
			changes[i].Box = repaired
		}
	}
	return changes
}

// comparisonLabel renders the 1-indexed display label for a frame pair.
func comparisonLabel(mode string, beforeIndex, afterIndex int) string {
	if mode == jobresult.ModeConsecutive {
		return fmt.Sprintf("Frame %d vs Frame %d", afterIndex+1, beforeIndex+1)
	}
	return fmt.Sprintf("Frame %d vs Baseline", afterIndex+1)
}
