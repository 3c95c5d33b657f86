package form

import (
	"eventdesk/common/errs"
	"eventdesk/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveFieldKey(t *testing.T) {
	existing := []model.FormField{
		{ID: 1, FieldKey: "full_name"},
		{ID: 2, FieldKey: "full_name_2"},
		{ID: 3, FieldKey: "email"},
	}

	tests := []struct {
		name     string
		label    string
		self     model.ID
		expected string
	}{
		{name: "snake case", label: "  Company Name! ", expected: "company_name"},
		{name: "collision", label: "Full name", expected: "full_name_3"},
		{name: "own key is free", label: "Email", self: 3, expected: "email"},
		{name: "leading digit", label: "2nd choice", expected: "field_2nd_choice"},
		{name: "no usable characters", label: "???", expected: "field"},
		{name: "unicode dropped", label: "ስም Name", expected: "name"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveFieldKey(tc.label, existing, tc.self))
		})
	}
}

func TestNormalizeField(t *testing.T) {
	existing := []model.FormField{{ID: 1, FieldKey: "name", SortOrder: 4}}

	req := NormalizeField(model.FormFieldRequest{
		Label:     " Ticket type ",
		FieldType: model.FieldTypeSelect,
		Options:   model.FieldOptions{{Label: " VIP ", Value: ""}},
	}, existing, 0)
	assert.Equal(t, "Ticket type", req.Label)
	assert.Equal(t, "ticket_type", req.FieldKey)
	assert.Equal(t, model.FieldOptions{{Label: "VIP", Value: "VIP"}}, req.Options)
	assert.Equal(t, 5, req.SortOrder)

	req = NormalizeField(model.FormFieldRequest{
		Label:     "Bio",
		FieldKey:  "about",
		FieldType: model.FieldTypeTextarea,
		Options:   model.FieldOptions{{Label: "x", Value: "x"}},
	}, existing, 0)
	assert.Equal(t, "about", req.FieldKey)
	assert.Nil(t, req.Options)
}

func TestValidateField(t *testing.T) {
	existing := []model.FormField{
		{ID: 1, FieldKey: "attending"},
		{ID: 2, FieldKey: "guests"},
	}

	tests := []struct {
		name     string
		req      model.FormFieldRequest
		self     model.ID
		expected map[string]string
	}{
		{
			name: "valid select",
			req: model.FormFieldRequest{FieldKey: "meal", FieldType: model.FieldTypeSelect,
				Options: model.FieldOptions{{Label: "Fish", Value: "fish"}, {Label: "Veg", Value: "veg"}}},
		},
		{
			name:     "options required",
			req:      model.FormFieldRequest{FieldKey: "meal", FieldType: model.FieldTypeRadio},
			expected: map[string]string{"options": "required"},
		},
		{
			name: "duplicate option",
			req: model.FormFieldRequest{FieldKey: "meal", FieldType: model.FieldTypeCheckbox,
				Options: model.FieldOptions{{Label: "Fish", Value: "fish"}, {Label: "Fish again", Value: "fish"}}},
			expected: map[string]string{"options[1].value": "unique"},
		},
		{
			name:     "duplicate key",
			req:      model.FormFieldRequest{FieldKey: "guests", FieldType: model.FieldTypeNumber},
			expected: map[string]string{"field_key": "unique"},
		},
		{
			name:     "editing keeps own key",
			req:      model.FormFieldRequest{FieldKey: "guests", FieldType: model.FieldTypeNumber},
			self:     2,
			expected: nil,
		},
		{
			name: "min above max",
			req: model.FormFieldRequest{FieldKey: "bio", FieldType: model.FieldTypeText,
				ValidationRules: model.ValidationRules{MinLength: intPtr(10), MaxLength: intPtr(5), MinValue: floatPtr(3), MaxValue: floatPtr(1)}},
			expected: map[string]string{"validation_rules.max_length": "gtefield=min_length", "validation_rules.max_value": "gtefield=min_value"},
		},
		{
			name:     "bad pattern",
			req:      model.FormFieldRequest{FieldKey: "bio", FieldType: model.FieldTypeText, ValidationRules: model.ValidationRules{Pattern: "("}},
			expected: map[string]string{"validation_rules.pattern": "regexp"},
		},
		{
			name: "logic targets unknown field",
			req: model.FormFieldRequest{FieldKey: "reason", FieldType: model.FieldTypeText,
				ConditionalLogic: &model.ConditionalLogic{FieldID: "99", Operator: model.OperatorEquals, Value: "no"}},
			expected: map[string]string{"conditional_logic.field_id": "exists"},
		},
		{
			name: "logic targets itself",
			req: model.FormFieldRequest{FieldKey: "guests", FieldType: model.FieldTypeNumber,
				ConditionalLogic: &model.ConditionalLogic{FieldID: "2", Operator: model.OperatorGreaterThan, Value: 1}},
			self:     2,
			expected: map[string]string{"conditional_logic.field_id": "nefield"},
		},
		{
			name: "logic value required",
			req: model.FormFieldRequest{FieldKey: "reason", FieldType: model.FieldTypeText,
				ConditionalLogic: &model.ConditionalLogic{FieldID: "attending", Operator: model.OperatorEquals}},
			expected: map[string]string{"conditional_logic.value": "required"},
		},
		{
			name: "is_empty needs no value",
			req: model.FormFieldRequest{FieldKey: "reason", FieldType: model.FieldTypeText,
				ConditionalLogic: &model.ConditionalLogic{FieldID: "1", Operator: model.OperatorIsEmpty}},
		},
		{
			name: "unknown operator",
			req: model.FormFieldRequest{FieldKey: "reason", FieldType: model.FieldTypeText,
				ConditionalLogic: &model.ConditionalLogic{FieldID: "attending", Operator: "between", Value: 1}},
			expected: map[string]string{"conditional_logic.operator": "oneof"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateField(tc.req, existing, tc.self)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.expected, errs.FieldErrors(err))
		})
	}
}

func TestReorder(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldKey: "a", SortOrder: 1},
		{ID: 2, FieldKey: "b", SortOrder: 2},
		{ID: 3, FieldKey: "c", SortOrder: 3},
	}

	reordered, err := Reorder(fields, []model.ID{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, keys(reordered))
	assert.Equal(t, []int{1, 2, 3}, []int{reordered[0].SortOrder, reordered[1].SortOrder, reordered[2].SortOrder})
	assert.Equal(t, 1, fields[0].SortOrder, "input is not modified")

	for _, ids := range [][]model.ID{{1, 2}, {1, 2, 4}, {1, 1, 2}} {
		_, err := Reorder(fields, ids)
		assert.Equal(t, map[string]string{"field_ids": "permutation"}, errs.FieldErrors(err), ids)
	}
}
