package engine

import "fmt"

// BuildDriftChanges maps structural-drift output to changes. With discrete
// regions present, each region becomes one change under the shared area-ratio
// tiers, confidence taken from the region's probabilities. Without regions, a
// positive aggregate coverage becomes a single synthetic change under its own
// coverage tiers: diffuse drift is read differently from localized drift.
func BuildDriftChanges(payload DriftPayload, rules Rules) []Change {
	if len(payload.Regions) == 0 {
		if payload.Coverage > 0 {
			return []Change{coverageChange(payload.Coverage, rules)}
		}
		return nil
	}
	changes := make([]Change, 0, len(payload.Regions))
	for _, region := range payload.Regions {
		impact := areaImpact(region.AreaRatio, rules)
		confidence := region.MaxProb
		if confidence == 0 {
			confidence = region.MeanProb
		}
		change := Change{
			ID:          region.ID,
			Description: fmt.Sprintf("Structural drift: %s", region.Label),
			Box:         regionBox(region, payload.ImageSize),
			ChangeType:  ChangeSpatial,
			Confidence:  confidence,
			Interpretation: fmt.Sprintf("Drift detected over %.2f%% of the image in this region.",
				region.AreaRatio*100),
			Impact:             impact,
			Criticality:        criticalityFor(impact),
			EstimatedCost:      region.AreaRatio * 50000,
			PerformanceGain:    "N/A",
			RedFlags:           []string{},
			SuggestedActions:   []string{"Compare the drifted region against the baseline frame"},
			SuggestedQuestions: []string{"Is this drift expected between these frames?"},
		}
		if region.PixelCount > 0 {
			change.SpecialistInsights = fmt.Sprintf("Region spans %d changed pixels.", region.PixelCount)
		}
		changes = append(changes, change)
	}
	return changes
}

// coverageChange is the synthetic whole-image change emitted when drift is
// diffuse rather than localized.
func coverageChange(coverage float64, rules Rules) Change {
	var impact Impact
	switch {
	case coverage > rules.CoverageHighRatio:
		impact = ImpactHigh
	case coverage > rules.CoverageMediumRatio:
		impact = ImpactMedium
	default:
		impact = ImpactLow
	}
	return Change{
		Description: fmt.Sprintf("Diffuse structural drift across %.2f%% of the image", coverage*100),
		Box:         [4]float64{0, 0, 1, 1},
		ChangeType:  ChangeSpatial,
		Confidence:  coverage,
		Interpretation: "No discrete drift regions were isolated; the change signal is spread " +
			"across the frame.",
		Impact:             impact,
		Criticality:        criticalityFor(impact),
		EstimatedCost:      0,
		PerformanceGain:    "N/A",
		RedFlags:           []string{},
		SuggestedActions:   []string{"Check capture conditions before treating diffuse drift as real change"},
		SuggestedQuestions: []string{"Did lighting or viewpoint shift between these frames?"},
	}
}
