package engine

import (
	"fmt"
	"strings"
)

// BuildDefectChanges maps defect regions to changes. Impact follows the
// area-ratio tiers, then label keywords override upward: some defect classes
// are critical no matter how small the region is.
func BuildDefectChanges(payload DefectPayload, rules Rules) []Change {
	changes := make([]Change, 0, len(payload.Regions))
	for _, region := range payload.Regions {
		impact := areaImpact(region.AreaRatio, rules)
		impact, overridden := applyKeywordOverride(impact, region.Label, rules)

		cost := region.AreaRatio * 50000
		if cost < 1500 {
			cost = 1500
		}
		change := Change{
			ID:              region.ID,
			Description:     fmt.Sprintf("Defect region: %s", region.Label),
			Box:             regionBox(region, payload.ImageSize),
			ChangeType:      defectChangeType(impact),
			Confidence:      region.Confidence,
			Impact:          impact,
			Criticality:     criticalityFor(impact),
			EstimatedCost:   cost,
			PerformanceGain: "N/A",
			Interpretation: fmt.Sprintf("A %s region covering %.2f%% of the image was flagged.",
				region.Label, region.AreaRatio*100),
			RedFlags:           []string{},
			SuggestedActions:   []string{fmt.Sprintf("Review the %s region against the reference frame", region.Label)},
			SuggestedQuestions: []string{fmt.Sprintf("Is the %s within tolerance?", region.Label)},
		}
		if overridden {
			change.RedFlags = append(change.RedFlags,
				fmt.Sprintf("Severity raised: %q matches a critical defect class", region.Label))
		}
		changes = append(changes, change)
	}
	return changes
}

func areaImpact(areaRatio float64, rules Rules) Impact {
	switch {
	case areaRatio > rules.RegionHighAreaRatio:
		return ImpactHigh
	case areaRatio > rules.RegionMediumAreaRatio:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// applyKeywordOverride forces impact up when the label carries a known defect
// token. Overrides never lower an area-derived impact.
func applyKeywordOverride(impact Impact, label string, rules Rules) (Impact, bool) {
	lowered := strings.ToLower(label)
	for _, token := range rules.CriticalDefectTokens {
		if strings.Contains(lowered, token) {
			return ImpactHigh, impact != ImpactHigh
		}
	}
	if impact == ImpactHigh {
		return impact, false
	}
	for _, token := range rules.SecondaryDefectTokens {
		if strings.Contains(lowered, token) {
			return ImpactMedium, impact != ImpactMedium
		}
	}
	return impact, false
}

func defectChangeType(impact Impact) ChangeType {
	if impact == ImpactHigh {
		return ChangeStructural
	}
	return ChangeSurface
}

func criticalityFor(impact Impact) int {
	switch impact {
	case ImpactHigh:
		return 8
	case ImpactMedium:
		return 5
	default:
		return 2
	}
}

// regionBox normalizes a region's box, preferring the detector's own
// normalized coordinates when it supplied them.
func regionBox(region Region, size *ImageSize) [4]float64 {
	if region.Normalized {
		return region.Box
	}
	return NormalizeBox(region.Box, size, FormatXYXY)
}
