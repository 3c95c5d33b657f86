package form

import "eventdesk/model"

// Validate checks the visible fields of a form against values. Hidden fields
// are never required and never validated.
func Validate(fields []model.FormField, values map[string]any) map[string]string {
	visible, _ := VisibleFields(fields, values)

	errors := map[string]string{}
	for _, f := range visible {
		value := values[f.FieldKey]
		if isBlank(value) {
			if f.IsRequired {
				errors[f.FieldKey] = "required"
			}
			continue
		}

		b, ok := BehaviorOf(f.FieldType)
		if !ok || b.Validate == nil {
			continue
		}
		if msg := b.Validate(f, value); msg != "" {
			errors[f.FieldKey] = msg
		}
	}
	return errors
}

func Preview(form model.Form, values map[string]any) model.FormPreviewResponse {
	if values == nil {
		values = map[string]any{}
	}

	visible, hidden := VisibleFields(form.Fields, values)
	errors := Validate(form.Fields, values)

	return model.FormPreviewResponse{
		VisibleFields: visible,
		HiddenFields:  hidden,
		Errors:        errors,
		Valid:         len(errors) == 0,
	}
}
