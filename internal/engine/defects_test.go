package engine

import "testing"

func defectPayload(label string, areaRatio float64) DefectPayload {
	return DefectPayload{
		Regions: []Region{{
			ID:         "rf-region-1",
			Label:      label,
			Confidence: 0.9,
			Box:        [4]float64{0.1, 0.1, 0.2, 0.2},
			Normalized: true,
			AreaRatio:  areaRatio,
		}},
	}
}

func TestBuildDefectChangesAreaTiers(t *testing.T) {
	rules := DefaultRules()
	cases := []struct {
		areaRatio float64
		want      Impact
	}{
		{0.03, ImpactHigh},
		{0.01, ImpactMedium},
		{0.001, ImpactLow},
	}
	for _, tc := range cases {
		changes := BuildDefectChanges(defectPayload("pad anomaly", tc.areaRatio), rules)
		if len(changes) != 1 {
			t.Fatalf("areaRatio=%v: expected one change, got %d", tc.areaRatio, len(changes))
		}
		if changes[0].Impact != tc.want {
			t.Fatalf("areaRatio=%v: expected %s, got %s", tc.areaRatio, tc.want, changes[0].Impact)
		}
	}
}

func TestBuildDefectChangesKeywordOverride(t *testing.T) {
	rules := DefaultRules()

	critical := BuildDefectChanges(defectPayload("missing component", 0.001), rules)
	if critical[0].Impact != ImpactHigh {
		t.Fatalf("critical token should force High regardless of area, got %s", critical[0].Impact)
	}
	if len(critical[0].RedFlags) == 0 {
		t.Fatalf("expected a red flag noting the severity override")
	}

	secondary := BuildDefectChanges(defectPayload("surface scratch", 0.001), rules)
	if secondary[0].Impact != ImpactMedium {
		t.Fatalf("secondary token should force Medium, got %s", secondary[0].Impact)
	}
}

func TestBuildDefectChangesCostFloor(t *testing.T) {
	rules := DefaultRules()

	small := BuildDefectChanges(defectPayload("pad anomaly", 0.001), rules)
	if small[0].EstimatedCost != 1500 {
		t.Fatalf("expected cost floor 1500, got %v", small[0].EstimatedCost)
	}

	large := BuildDefectChanges(defectPayload("pad anomaly", 0.1), rules)
	if large[0].EstimatedCost != 5000 {
		t.Fatalf("expected areaRatio*50000=5000, got %v", large[0].EstimatedCost)
	}
}

func TestBuildDefectChangesKeepsRegionID(t *testing.T) {
	changes := BuildDefectChanges(defectPayload("pad anomaly", 0.01), DefaultRules())
	if changes[0].ID != "rf-region-1" {
		t.Fatalf("expected detector-supplied id to survive, got %q", changes[0].ID)
	}
}
