package model

import (
	"fmt"
	"math"
)

// Rect is a PDF rectangle given by its lower-left and upper-right corners,
// in points. It mirrors the four-number array form of /MediaBox.
type Rect struct {
	LLX, LLY float64 // Lower-left corner
	URX, URY float64 // Upper-right corner
}

// NewRect creates a rectangle from the four numbers of a PDF box array
func NewRect(llx, lly, urx, ury float64) Rect {
	return Rect{LLX: llx, LLY: lly, URX: urx, URY: ury}
}

// RectFromBox creates a rectangle from a [llx lly urx ury] slice. The
// corners are kept in the given order; an inverted box has a negative
// width or height and is not Valid.
func RectFromBox(box []float64) (Rect, error) {
	if len(box) != 4 {
		return Rect{}, fmt.Errorf("box must have 4 numbers, got %d", len(box))
	}
	return NewRect(box[0], box[1], box[2], box[3]), nil
}

// Width returns URX - LLX
func (r Rect) Width() float64 {
	return r.URX - r.LLX
}

// Height returns URY - LLY
func (r Rect) Height() float64 {
	return r.URY - r.LLY
}

// IsLandscape reports whether the rectangle is wider than it is tall
func (r Rect) IsLandscape() bool {
	return r.Width() > r.Height()
}

// Valid reports whether the rectangle has finite coordinates and a
// strictly positive area.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.LLX, r.LLY, r.URX, r.URY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width() > 0 && r.Height() > 0
}

// String formats the rectangle as a PDF array
func (r Rect) String() string {
	return fmt.Sprintf("[%g %g %g %g]", r.LLX, r.LLY, r.URX, r.URY)
}
