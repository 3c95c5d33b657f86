package badge

import (
	"eventdesk/model"
	"math"
)

const (
	MinScale = 0.1
	MaxScale = 10.0
)

// Apply sets the patched properties of el and returns the result. Properties
// absent from the patch keep their current value. Rotation is normalized to
// [0, 360), scale is clamped to [MinScale, MaxScale] and the position keeps
// the element's origin inside the canvas.
func Apply(canvas model.BadgeCanvas, el model.BadgeElement, patch model.BadgeTransformPatch) model.BadgeElement {
	if patch.X != nil {
		el.X = *patch.X
	}
	if patch.Y != nil {
		el.Y = *patch.Y
	}
	if patch.Rotation != nil {
		el.Rotation = *patch.Rotation
	}
	if patch.ScaleX != nil {
		el.ScaleX = *patch.ScaleX
	}
	if patch.ScaleY != nil {
		el.ScaleY = *patch.ScaleY
	}

	el.Rotation = NormalizeRotation(el.Rotation)
	el.ScaleX = clampScale(el.ScaleX)
	el.ScaleY = clampScale(el.ScaleY)
	el.X = clamp(el.X, 0, canvas.Width)
	el.Y = clamp(el.Y, 0, canvas.Height)

	return el
}

func NormalizeRotation(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

// clampScale treats an unset scale as 1.
func clampScale(s float64) float64 {
	if s == 0 || math.IsNaN(s) {
		return 1
	}
	return clamp(s, MinScale, MaxScale)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}
