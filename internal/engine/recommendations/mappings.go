package recommendations

import (
	"fmt"
	"strings"
)

const maxPerMapper = 4

func fromHighImpactChanges(changes []ChangeSummary) []Recommendation {
	out := make([]Recommendation, 0, maxPerMapper)
	for _, change := range changes {
		if !strings.EqualFold(change.Impact, "high") {
			continue
		}
		out = append(out, Recommendation{
			ID:       "inspect-" + slugify(change.Label),
			Category: categoryForDetector(change.Detector),
			Severity: severityForCriticality(change.Criticality),
			Title:    fmt.Sprintf("Inspect %s", change.Label),
			Why:      fmt.Sprintf("Flagged as high impact with criticality %d of 10.", change.Criticality),
			Action:   fmt.Sprintf("Review the %s finding against the before frame and confirm or dismiss it.", change.Label),
			Impact:   "high",
		})
		if len(out) == maxPerMapper {
			break
		}
	}
	return out
}

func fromRedFlags(changes []ChangeSummary) []Recommendation {
	out := make([]Recommendation, 0, maxPerMapper)
	for _, change := range changes {
		for _, flag := range change.RedFlags {
			out = append(out, Recommendation{
				ID:       "redflag-" + slugify(change.Label),
				Category: categoryForDetector(change.Detector),
				Severity: "critical",
				Title:    fmt.Sprintf("Resolve red flag on %s", change.Label),
				Why:      flag,
				Action:   "Treat this finding as blocking until a specialist signs it off.",
				Impact:   "high",
			})
			break
		}
		if len(out) == maxPerMapper {
			break
		}
	}
	return out
}

func fromCoverage(in Input) []Recommendation {
	if in.Coverage == nil || *in.Coverage <= 0 {
		return nil
	}
	severity := "info"
	impact := "low"
	if *in.Coverage > 0.03 {
		severity = "warning"
		impact = "high"
	} else if *in.Coverage > 0.01 {
		severity = "warning"
		impact = "medium"
	}
	why := fmt.Sprintf("%.2f%% of the %s area changed", *in.Coverage*100, surfaceForDomain(in.Domain))
	if in.RegionCount > 0 {
		why = fmt.Sprintf("%s across %d region(s)", why, in.RegionCount)
	}
	return []Recommendation{{
		ID:       "review-change-coverage",
		Category: "DRIFT",
		Severity: severity,
		Title:    "Review overall change coverage",
		Why:      why + ".",
		Action:   "Walk the heatmap overlay and decide whether the coverage is expected.",
		Impact:   impact,
	}}
}

func fromQuietLedger(changes []ChangeSummary, comparisonCount int) []Recommendation {
	if len(changes) > 0 || comparisonCount == 0 {
		return nil
	}
	return []Recommendation{{
		ID:       "confirm-clean-result",
		Category: "REVIEW",
		Severity: "info",
		Title:    "Confirm the clean result",
		Why:      fmt.Sprintf("%d comparison(s) ran without producing a single change.", comparisonCount),
		Action:   "Spot-check one frame pair manually to confirm the detectors had usable input.",
		Impact:   "low",
	}}
}

func fromDegradedFields(count int) []Recommendation {
	if count == 0 {
		return nil
	}
	return []Recommendation{{
		ID:       "rerun-incomplete-detectors",
		Category: "PROCESS",
		Severity: "warning",
		Title:    "Re-run detectors with incomplete output",
		Why:      fmt.Sprintf("%d detector field(s) were missing or malformed and had to be defaulted.", count),
		Action:   "Check the pipeline logs for the degraded stages and re-run the job if they failed.",
		Impact:   "medium",
	}}
}

// surfaceForDomain picks the noun the coverage phrasing describes.
func surfaceForDomain(domain string) string {
	switch strings.ToLower(strings.TrimSpace(domain)) {
	case "manufacturing":
		return "board"
	case "infrastructure":
		return "structure"
	default:
		return "frame"
	}
}

func categoryForDetector(detector string) string {
	switch strings.ToLower(strings.TrimSpace(detector)) {
	case "object_diff":
		return "STRUCTURAL"
	case "mask_rcnn":
		return "SURFACE"
	case "pcb_cd":
		return "DEFECT"
	case "changeformer_cd":
		return "DRIFT"
	default:
		return "REVIEW"
	}
}

func severityForCriticality(criticality int) string {
	switch {
	case criticality >= 7:
		return "critical"
	case criticality >= 4:
		return "warning"
	default:
		return "info"
	}
}
