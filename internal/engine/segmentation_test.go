package engine

import "testing"

func TestBuildMaskChangesScoreGate(t *testing.T) {
	gate := DefaultRules().MaskScoreGate

	low := MaskPayload{Detections: []MaskDetection{{ClassName: "dent", Box: [4]float64{0.1, 0.1, 0.3, 0.3}, Score: 0.5}}}
	if got := BuildMaskChanges(low, gate); len(got) != 0 {
		t.Fatalf("expected sub-gate detection to be excluded entirely, got %d change(s)", len(got))
	}

	high := MaskPayload{Detections: []MaskDetection{{ClassName: "scratch", Box: [4]float64{0.1, 0.1, 0.3, 0.3}, Score: 0.9}}}
	got := BuildMaskChanges(high, gate)
	if len(got) != 1 {
		t.Fatalf("expected one change for score 0.9, got %d", len(got))
	}
	if got[0].Impact != ImpactMedium {
		t.Fatalf("expected Medium impact, got %s", got[0].Impact)
	}
	if got[0].Criticality != 9 {
		t.Fatalf("expected criticality round(0.9*10)=9, got %d", got[0].Criticality)
	}
}

func TestBuildMaskChangesSwapsRowMajorBoxes(t *testing.T) {
	payload := MaskPayload{
		Detections: []MaskDetection{{
			ClassName: "crack",
			// [y1, x1, y2, x2] in a 200x100 image
			Box:      [4]float64{10, 20, 50, 100},
			Score:    0.95,
			MaskArea: 840,
		}},
		ImageSize: &ImageSize{Width: 200, Height: 100},
	}
	got := BuildMaskChanges(payload, 0.85)
	if len(got) != 1 {
		t.Fatalf("expected one change, got %d", len(got))
	}
	want := [4]float64{0.1, 0.1, 0.5, 0.5}
	if got[0].Box != want {
		t.Fatalf("expected box %v, got %v", want, got[0].Box)
	}
	if got[0].SpecialistInsights == "" {
		t.Fatalf("expected pixel-area insight for mask_area > 0")
	}
}

func TestBuildMaskChangesConfigurableGate(t *testing.T) {
	payload := MaskPayload{Detections: []MaskDetection{{ClassName: "dent", Box: [4]float64{0, 0, 1, 1}, Score: 0.6}}}
	if got := BuildMaskChanges(payload, 0.5); len(got) != 1 {
		t.Fatalf("expected lowered gate to admit the detection, got %d change(s)", len(got))
	}
}
