package engine

import (
	"fmt"
	"math"
)

// BuildMaskChanges maps instance-segmentation detections to changes.
// Detections below the score gate are excluded entirely, not downgraded: the
// segmentation model over-reports, and a wrong damage claim costs more than a
// missed one.
func BuildMaskChanges(payload MaskPayload, scoreGate float64) []Change {
	changes := make([]Change, 0, len(payload.Detections))
	for _, det := range payload.Detections {
		if det.Score < scoreGate {
			continue
		}
		box := NormalizeBox(det.Box, payload.ImageSize, FormatYXYX)
		change := Change{
			Description:        fmt.Sprintf("Detected %s damage", det.ClassName),
			Box:                box,
			ChangeType:         ChangeSurface,
			Confidence:         det.Score,
			Interpretation:     fmt.Sprintf("Instance segmentation identified %s with %.0f%% confidence.", det.ClassName, det.Score*100),
			Impact:             ImpactMedium,
			Criticality:        int(math.Round(det.Score * 10)),
			EstimatedCost:      2000,
			PerformanceGain:    "N/A",
			RedFlags:           []string{},
			SuggestedActions:   []string{fmt.Sprintf("Verify the flagged %s area on the after frame", det.ClassName)},
			SuggestedQuestions: []string{fmt.Sprintf("How severe is the %s?", det.ClassName)},
		}
		if det.MaskArea > 0 {
			change.SpecialistInsights = fmt.Sprintf("Affected area spans roughly %d pixels.", det.MaskArea)
		}
		changes = append(changes, change)
	}
	return changes
}
