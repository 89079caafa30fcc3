package engine

import "testing"

func TestBuildDriftChangesRegionMode(t *testing.T) {
	payload := DriftPayload{
		Coverage: 0.05,
		Regions: []Region{{
			ID:         "cf-region-1",
			Label:      "ChangeFormer region 1",
			Box:        [4]float64{0.2, 0.2, 0.4, 0.4},
			Normalized: true,
			AreaRatio:  0.025,
			MeanProb:   0.7,
			MaxProb:    0.93,
			PixelCount: 5120,
		}},
	}
	changes := BuildDriftChanges(payload, DefaultRules())
	if len(changes) != 1 {
		t.Fatalf("expected one change per region, got %d", len(changes))
	}
	change := changes[0]
	if change.Impact != ImpactHigh {
		t.Fatalf("areaRatio 0.025 > 2%% should be High, got %s", change.Impact)
	}
	if change.Confidence != 0.93 {
		t.Fatalf("expected max probability as confidence, got %v", change.Confidence)
	}
	if change.ChangeType != ChangeSpatial {
		t.Fatalf("expected Spatial change type, got %s", change.ChangeType)
	}
}

func TestBuildDriftChangesCoverageFallback(t *testing.T) {
	cases := []struct {
		coverage float64
		want     Impact
	}{
		{0.004, ImpactLow},
		{0.02, ImpactMedium},
		{0.05, ImpactHigh},
	}
	for _, tc := range cases {
		changes := BuildDriftChanges(DriftPayload{Coverage: tc.coverage}, DefaultRules())
		if len(changes) != 1 {
			t.Fatalf("coverage=%v: expected one synthetic change, got %d", tc.coverage, len(changes))
		}
		if changes[0].Impact != tc.want {
			t.Fatalf("coverage=%v: expected %s, got %s", tc.coverage, tc.want, changes[0].Impact)
		}
		if changes[0].Box != [4]float64{0, 0, 1, 1} {
			t.Fatalf("synthetic coverage change should span the whole frame, got %v", changes[0].Box)
		}
	}
}

func TestBuildDriftChangesZeroCoverageNoRegions(t *testing.T) {
	if changes := BuildDriftChanges(DriftPayload{}, DefaultRules()); len(changes) != 0 {
		t.Fatalf("expected no changes for empty drift output, got %d", len(changes))
	}
}
