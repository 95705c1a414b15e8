// Package overlay computes on-screen geometry for the correction surfaces:
// the suggestion tooltip and the small status indicator. All routines are
// pure; rendering and measurement stay with the caller.
package overlay

// Rect is an on-screen bounding box in viewport coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a rendered box's dimensions.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the visible document area.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is a resolved tooltip position. Above records which side of the
// anchor was chosen, for the visual arrow direction; ArrowX is the arrow's
// horizontal offset relative to the tooltip's left edge.
type Placement struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Above  bool    `json:"above"`
	ArrowX float64 `json:"arrow_x"`
}

// Defaults for the fixed distances in the placement algorithm.
const (
	DefaultGap     = 8.0
	DefaultPadding = 10.0

	// The arrow glyph must stay inside the tooltip body.
	arrowInset = 20.0
)

// PlaceTooltip resolves where the tooltip goes relative to its anchor.
//
// Below is preferred when the space under the anchor fits the tooltip plus
// gap and padding; above under the symmetric condition; otherwise whichever
// side has strictly more room wins, accepting partial overlap with the
// viewport edge. The horizontal position aligns left edges and clamps into
// the padded viewport, and the vertical value is clamped a second time so
// the tooltip is fully visible whenever the viewport is tall enough.
func PlaceTooltip(anchor Rect, tip Size, vp Viewport, gap, padding float64) Placement {
	spaceBelow := vp.Height - (anchor.Top + anchor.Height)
	spaceAbove := anchor.Top
	need := tip.Height + gap + padding

	var top float64
	var above bool
	switch {
	case spaceBelow >= need:
		top = anchor.Top + anchor.Height + gap
	case spaceAbove >= need:
		top = anchor.Top - tip.Height - gap
		above = true
	case spaceAbove > spaceBelow:
		top = anchor.Top - tip.Height - gap
		above = true
	default:
		top = anchor.Top + anchor.Height + gap
	}

	left := anchor.Left
	if left+tip.Width > vp.Width-padding {
		left = vp.Width - padding - tip.Width
	}
	if left < padding {
		left = padding
	}

	// Final vertical clamp, applied regardless of the branch above.
	if top > vp.Height-tip.Height-padding {
		top = vp.Height - tip.Height - padding
	}
	if top < padding {
		top = padding
	}

	arrowX := anchor.Left + anchor.Width/2 - left
	if arrowX < arrowInset {
		arrowX = arrowInset
	}
	if arrowX > tip.Width-arrowInset {
		arrowX = tip.Width - arrowInset
	}

	return Placement{Top: top, Left: left, Above: above, ArrowX: arrowX}
}

// Point is a resolved indicator position.
type Point struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// indicatorMargin separates the indicator from the anchor's edge.
const indicatorMargin = 4.0

// PlaceIndicator positions the status indicator near the anchor's top-right
// corner. It flips to the left side when the anchor hugs the viewport's
// right edge, drops under the anchor when it hugs the top, and is clamped
// into the padded viewport like the tooltip.
func PlaceIndicator(anchor Rect, ind Size, vp Viewport, padding float64) Point {
	left := anchor.Left + anchor.Width - ind.Width - indicatorMargin
	if anchor.Left+anchor.Width > vp.Width-padding-ind.Width {
		left = anchor.Left + indicatorMargin
	}

	top := anchor.Top - ind.Height - indicatorMargin
	if anchor.Top < ind.Height+indicatorMargin+padding {
		top = anchor.Top + anchor.Height + indicatorMargin
	}

	if left > vp.Width-ind.Width-padding {
		left = vp.Width - ind.Width - padding
	}
	if left < padding {
		left = padding
	}
	if top > vp.Height-ind.Height-padding {
		top = vp.Height - ind.Height - padding
	}
	if top < padding {
		top = padding
	}

	return Point{Top: top, Left: left}
}
