package model

type BadgeElement struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scale_x"`
	ScaleY   float64 `json:"scale_y"`
}

// BadgeTransformPatch carries only the properties the operator edited.
type BadgeTransformPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ScaleX   *float64 `json:"scale_x,omitempty"`
	ScaleY   *float64 `json:"scale_y,omitempty"`
}

type BadgeCanvas struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type BadgeTransformRequest struct {
	Canvas  BadgeCanvas         `json:"canvas"`
	Element BadgeElement        `json:"element"`
	Patch   BadgeTransformPatch `json:"patch"`
}

type BadgePreviewResponse struct {
	SubmissionID ID                `json:"submission_id"`
	Values       map[string]string `json:"values"`
}
