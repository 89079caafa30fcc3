package engine

import "trackshift-engine/internal/jobresult"

// BoxFormat names the corner-ordering convention a detector emits.
type BoxFormat string

const (
	// FormatXYXY is corner-major: [xMin, yMin, xMax, yMax].
	FormatXYXY BoxFormat = "xyxy"
	// FormatYXYX is row/column-major, as emitted by the instance
	// segmentation detector: [yMin, xMin, yMax, xMax].
	FormatYXYX BoxFormat = "yxyx"
)

// ImageSize is the pixel size used to scale detector boxes to the unit
// square.
type ImageSize struct {
	Width  float64
	Height float64
}

func sizeOf(raw *jobresult.ImageSize) *ImageSize {
	if raw == nil || raw.Width <= 0 || raw.Height <= 0 {
		return nil
	}
	return &ImageSize{Width: float64(raw.Width), Height: float64(raw.Height)}
}

// NormalizeBox converts a detector-native box into unit-square xyxy
// coordinates. A nil size means the box is already normalized and only the
// axis swap (for yxyx input) applies. No clamping or corner-ordering
// validation happens here; see repairBox for the repair policy applied before
// changes enter the ledger.
func NormalizeBox(box [4]float64, size *ImageSize, format BoxFormat) [4]float64 {
	if format == FormatYXYX {
		box = [4]float64{box[1], box[0], box[3], box[2]}
	}
	w, h := 1.0, 1.0
	if size != nil {
		if size.Width > 0 {
			w = size.Width
		}
		if size.Height > 0 {
			h = size.Height
		}
	}
	return [4]float64{box[0] / w, box[1] / h, box[2] / w, box[3] / h}
}

// repairBox clamps coordinates to [0,1] and reorders inverted corners so a
// malformed upstream box still renders. Returns the repaired box and whether
// anything had to change, so the repair can be traced.
func repairBox(box [4]float64) ([4]float64, bool) {
	repaired := box
	for i, v := range repaired {
		switch {
		case v != v: // NaN
			repaired[i] = 0
		case v < 0:
			repaired[i] = 0
		case v > 1:
			repaired[i] = 1
		}
	}
	if repaired[0] > repaired[2] {
		repaired[0], repaired[2] = repaired[2], repaired[0]
	}
	if repaired[1] > repaired[3] {
		repaired[1], repaired[3] = repaired[3], repaired[1]
	}
	return repaired, repaired != box
}
