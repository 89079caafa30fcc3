package engine

import "fmt"

// BuildObjectDiffChanges maps paired component detections to changes.
// Severity is binary: a changed component is always High/7, a stable one
// Low/3. The SSIM delta against the 1.0 identical-image ideal backs the red
// flag on changed components.
func BuildObjectDiffChanges(payload ObjectDiffPayload) []Change {
	changes := make([]Change, 0, len(payload.Paired))
	for _, pair := range payload.Paired {
		box := NormalizeBox(pair.Box, payload.ImageSize, FormatXYXY)
		change := Change{
			Description:        fmt.Sprintf("Component %q compared across frames", pair.ClassName),
			Box:                box,
			Confidence:         pair.Confidence,
			PerformanceGain:    "N/A",
			RedFlags:           []string{},
			SuggestedActions:   []string{},
			SuggestedQuestions: []string{},
		}
		if pair.Changed {
			change.ChangeType = ChangeStructural
			change.Impact = ImpactHigh
			change.Criticality = 7
			change.EstimatedCost = 5000
			change.Interpretation = fmt.Sprintf(
				"The %s component differs between the two frames and should be inspected.", pair.ClassName)
			change.RedFlags = []string{fmt.Sprintf(
				"Structural similarity dropped to %.3f (delta %.3f from identical)", pair.SSIM, 1-pair.SSIM)}
			change.SuggestedActions = []string{fmt.Sprintf("Inspect the %s component for physical change", pair.ClassName)}
			change.SuggestedQuestions = []string{fmt.Sprintf("What caused the %s component to change?", pair.ClassName)}
		} else {
			change.ChangeType = ChangeSurface
			change.Impact = ImpactLow
			change.Criticality = 3
			change.EstimatedCost = 0
			change.Interpretation = fmt.Sprintf(
				"The %s component is stable across frames (SSIM %.3f).", pair.ClassName, pair.SSIM)
		}
		changes = append(changes, change)
	}
	return changes
}
