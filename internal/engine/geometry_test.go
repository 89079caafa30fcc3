package engine

import "testing"

func TestNormalizeBoxXYXY(t *testing.T) {
	size := &ImageSize{Width: 200, Height: 100}
	got := NormalizeBox([4]float64{20, 10, 100, 50}, size, FormatXYXY)
	want := [4]float64{0.1, 0.1, 0.5, 0.5}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeBoxYXYXSwapsBeforeScaling(t *testing.T) {
	size := &ImageSize{Width: 200, Height: 100}
	// [y1, x1, y2, x2] = [10, 20, 50, 100]
	got := NormalizeBox([4]float64{10, 20, 50, 100}, size, FormatYXYX)
	want := [4]float64{0.1, 0.1, 0.5, 0.5}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeBoxNilSizeTreatsBoxAsNormalized(t *testing.T) {
	box := [4]float64{0.1, 0.2, 0.3, 0.4}
	if got := NormalizeBox(box, nil, FormatXYXY); got != box {
		t.Fatalf("expected %v unchanged, got %v", box, got)
	}
}

func TestNormalizeBoxDoesNotClampOrReorder(t *testing.T) {
	size := &ImageSize{Width: 100, Height: 100}
	got := NormalizeBox([4]float64{90, 10, 30, 150}, size, FormatXYXY)
	want := [4]float64{0.9, 0.1, 0.3, 1.5}
	if got != want {
		t.Fatalf("expected %v (unclamped, unordered), got %v", want, got)
	}
}

func TestRepairBox(t *testing.T) {
	cases := []struct {
		name  string
		in    [4]float64
		want  [4]float64
		dirty bool
	}{
		{"already_valid", [4]float64{0.1, 0.2, 0.3, 0.4}, [4]float64{0.1, 0.2, 0.3, 0.4}, false},
		{"clamped", [4]float64{-0.1, 0.2, 0.3, 1.4}, [4]float64{0, 0.2, 0.3, 1}, true},
		{"inverted_corners", [4]float64{0.9, 0.8, 0.1, 0.2}, [4]float64{0.1, 0.2, 0.9, 0.8}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, dirty := repairBox(tc.in)
			if got != tc.want || dirty != tc.dirty {
				t.Fatalf("repairBox(%v) = %v, %v; want %v, %v", tc.in, got, dirty, tc.want, tc.dirty)
			}
		})
	}
}
