package form

import (
	"eventdesk/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviorCoversEveryFieldType(t *testing.T) {
	assert.Len(t, behaviors, len(model.FieldTypes))

	for _, ft := range model.FieldTypes {
		b, ok := BehaviorOf(ft)
		require.True(t, ok, "missing behaviour for %s", ft)
		assert.NotEmpty(t, b.Input, ft)
		assert.NotEmpty(t, b.Chart, ft)
		assert.NotNil(t, b.Validate, ft)
	}

	_, ok := BehaviorOf("signature")
	assert.False(t, ok)
}

func TestOptionTypesUseOptionsChart(t *testing.T) {
	for _, ft := range model.FieldTypes {
		b, _ := BehaviorOf(ft)
		assert.Equal(t, b.HasOptions, b.Chart == ChartOptions, ft)
	}
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestValueValidators(t *testing.T) {
	options := model.FieldOptions{{Label: "Red", Value: "red"}, {Label: "Blue", Value: "blue"}}

	tests := []struct {
		name     string
		field    model.FormField
		value    any
		expected string
	}{
		{name: "text ok", field: model.FormField{FieldType: model.FieldTypeText}, value: "hello"},
		{name: "text too short", field: model.FormField{FieldType: model.FieldTypeText, ValidationRules: model.ValidationRules{MinLength: intPtr(3)}}, value: "hi", expected: "min_length=3"},
		{name: "text too long", field: model.FormField{FieldType: model.FieldTypeTextarea, ValidationRules: model.ValidationRules{MaxLength: intPtr(3)}}, value: "hello", expected: "max_length=3"},
		{name: "text counts runes", field: model.FormField{FieldType: model.FieldTypeText, ValidationRules: model.ValidationRules{MaxLength: intPtr(4)}}, value: "ሰላም"},
		{name: "text pattern", field: model.FormField{FieldType: model.FieldTypeText, ValidationRules: model.ValidationRules{Pattern: `^[A-Z]+$`}}, value: "abc", expected: "pattern"},
		{name: "email ok", field: model.FormField{FieldType: model.FieldTypeEmail}, value: "guest@example.com"},
		{name: "email bad", field: model.FormField{FieldType: model.FieldTypeEmail}, value: "guest@", expected: "email"},
		{name: "phone ok", field: model.FormField{FieldType: model.FieldTypePhone}, value: "+251 911 234567"},
		{name: "phone bad", field: model.FormField{FieldType: model.FieldTypePhone}, value: "call me", expected: "phone"},
		{name: "date ok", field: model.FormField{FieldType: model.FieldTypeDate}, value: "2025-06-01"},
		{name: "date bad", field: model.FormField{FieldType: model.FieldTypeDate}, value: "01/06/2025", expected: "date"},
		{name: "datetime ok", field: model.FormField{FieldType: model.FieldTypeDatetime}, value: "2025-06-01T10:00:00Z"},
		{name: "datetime bad", field: model.FormField{FieldType: model.FieldTypeDatetime}, value: "tomorrow", expected: "datetime"},
		{name: "select ok", field: model.FormField{FieldType: model.FieldTypeSelect, Options: options}, value: "red"},
		{name: "radio unknown", field: model.FormField{FieldType: model.FieldTypeRadio, Options: options}, value: "green", expected: "oneof"},
		{name: "checkbox list", field: model.FormField{FieldType: model.FieldTypeCheckbox, Options: options}, value: []any{"red", "blue"}},
		{name: "checkbox csv", field: model.FormField{FieldType: model.FieldTypeCheckbox, Options: options}, value: "red, green", expected: "oneof"},
		{name: "number ok", field: model.FormField{FieldType: model.FieldTypeNumber, ValidationRules: model.ValidationRules{MinValue: floatPtr(1), MaxValue: floatPtr(10)}}, value: "5"},
		{name: "number below", field: model.FormField{FieldType: model.FieldTypeNumber, ValidationRules: model.ValidationRules{MinValue: floatPtr(1)}}, value: 0.0, expected: "min_value=1"},
		{name: "number not numeric", field: model.FormField{FieldType: model.FieldTypeNumber}, value: "five", expected: "number"},
		{name: "payment above", field: model.FormField{FieldType: model.FieldTypePayment, ValidationRules: model.ValidationRules{MaxAmount: floatPtr(500)}}, value: 750.0, expected: "max_amount=500"},
		{name: "file accepted", field: model.FormField{FieldType: model.FieldTypeFile, ValidationRules: model.ValidationRules{AcceptedFileTypes: []string{".pdf", "png"}}}, value: "cv.PDF"},
		{name: "file rejected", field: model.FormField{FieldType: model.FieldTypeFile, ValidationRules: model.ValidationRules{AcceptedFileTypes: []string{"pdf"}}}, value: "cv.exe", expected: "accepted_file_types"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := BehaviorOf(tc.field.FieldType)
			require.True(t, ok)
			assert.Equal(t, tc.expected, b.Validate(tc.field, tc.value))
		})
	}
}
