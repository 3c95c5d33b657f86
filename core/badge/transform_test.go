package badge

import (
	"eventdesk/model"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 {
	return &v
}

func TestApply(t *testing.T) {
	canvas := model.BadgeCanvas{Width: 400, Height: 600}
	base := model.BadgeElement{ID: "name", X: 50, Y: 80, Width: 120, Height: 40, Rotation: 15, ScaleX: 1, ScaleY: 1}

	tests := []struct {
		name     string
		patch    model.BadgeTransformPatch
		expected model.BadgeElement
	}{
		{
			name:     "empty patch keeps element",
			expected: base,
		},
		{
			name:  "only patched properties change",
			patch: model.BadgeTransformPatch{X: ptr(120), ScaleY: ptr(2)},
			expected: model.BadgeElement{ID: "name", X: 120, Y: 80, Width: 120, Height: 40,
				Rotation: 15, ScaleX: 1, ScaleY: 2},
		},
		{
			name:  "rotation wraps",
			patch: model.BadgeTransformPatch{Rotation: ptr(370)},
			expected: model.BadgeElement{ID: "name", X: 50, Y: 80, Width: 120, Height: 40,
				Rotation: 10, ScaleX: 1, ScaleY: 1},
		},
		{
			name:  "negative rotation",
			patch: model.BadgeTransformPatch{Rotation: ptr(-90)},
			expected: model.BadgeElement{ID: "name", X: 50, Y: 80, Width: 120, Height: 40,
				Rotation: 270, ScaleX: 1, ScaleY: 1},
		},
		{
			name:  "scale clamped",
			patch: model.BadgeTransformPatch{ScaleX: ptr(0.01), ScaleY: ptr(25)},
			expected: model.BadgeElement{ID: "name", X: 50, Y: 80, Width: 120, Height: 40,
				Rotation: 15, ScaleX: MinScale, ScaleY: MaxScale},
		},
		{
			name:  "position clamped to canvas",
			patch: model.BadgeTransformPatch{X: ptr(-20), Y: ptr(900)},
			expected: model.BadgeElement{ID: "name", X: 0, Y: 600, Width: 120, Height: 40,
				Rotation: 15, ScaleX: 1, ScaleY: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Apply(canvas, base, tc.patch))
		})
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		360:  0,
		720:  0,
		-360: 0,
		45:   45,
		-45:  315,
		1085: 5,
	}
	for in, expected := range tests {
		assert.Equal(t, expected, NormalizeRotation(in), in)
	}

	assert.Equal(t, 0.0, NormalizeRotation(math.NaN()))
	assert.Equal(t, 0.0, NormalizeRotation(math.Inf(1)))
}

func TestApplyDefaultsUnsetScale(t *testing.T) {
	el := Apply(model.BadgeCanvas{Width: 100, Height: 100}, model.BadgeElement{ID: "logo"}, model.BadgeTransformPatch{})
	assert.Equal(t, 1.0, el.ScaleX)
	assert.Equal(t, 1.0, el.ScaleY)
}
