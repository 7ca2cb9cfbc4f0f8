package volcano

import (
	"math"
)

// Rough glyph metrics of the default chart font, in pixels per point of font
// size.
const (
	glyphWidth  = 0.6
	glyphHeight = 1.4
)

type box struct {
	x0, y0, x1, y1 float64
}

func (a box) intersects(b box) bool {
	return a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
}

// labelBox estimates the pixel area of a label anchored at (px, py), with the
// text starting to the right of the anchor and vertically centred on it.
func labelBox(label string, px, py, fontSize float64) box {
	w := float64(len(label)) * fontSize * glyphWidth
	h := fontSize * glyphHeight

	return box{x0: px, y0: py - h/2, x1: px + w, y1: py + h/2}
}

// overlappingLabels counts the labels whose estimated box intersects at least
// one other label's box.
func overlappingLabels(boxes []box) int {
	overlapping := make([]bool, len(boxes))
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].intersects(boxes[j]) {
				overlapping[i] = true
				overlapping[j] = true
			}
		}
	}

	n := 0
	for _, o := range overlapping {
		if o {
			n++
		}
	}

	return n
}

// toPixels maps a data value within [min, max] onto [0, size).
func toPixels(v, min, max float64, size int) float64 {
	if max <= min {
		return 0
	}

	return math.Round((v - min) / (max - min) * float64(size))
}
