package form

import (
	"eventdesk/model"
	"reflect"
	"strings"
)

// ResolveFieldKey maps a conditional_logic.field_id onto the key used in the
// values map. A reference naming a field key wins over one naming a field id.
func ResolveFieldKey(fields []model.FormField, ref model.FieldRef) string {
	raw := strings.TrimSpace(string(ref))
	if raw == "" {
		return ""
	}

	for _, f := range fields {
		if f.FieldKey == raw {
			return f.FieldKey
		}
	}

	if id, err := model.ParseID(raw); err == nil {
		for _, f := range fields {
			if f.ID == id && f.FieldKey != "" {
				return f.FieldKey
			}
		}
	}

	return raw
}

func findField(fields []model.FormField, ref model.FieldRef) (model.FormField, bool) {
	key := ResolveFieldKey(fields, ref)
	for _, f := range fields {
		if f.FieldKey == key {
			return f, true
		}
	}
	return model.FormField{}, false
}

// Evaluate reports whether a field guarded by logic is shown. logic.FieldID
// must already be a key of values; VisibleFields resolves ids first.
func Evaluate(logic *model.ConditionalLogic, values map[string]any) bool {
	if logic == nil || strings.TrimSpace(string(logic.FieldID)) == "" {
		return true
	}

	actual := values[string(logic.FieldID)]

	switch logic.Operator {
	case model.OperatorEquals:
		return strictEqual(actual, logic.Value)
	case model.OperatorNotEquals:
		return !strictEqual(actual, logic.Value)
	case model.OperatorContains:
		return strings.Contains(strings.ToLower(Stringify(actual)), strings.ToLower(Stringify(logic.Value)))
	case model.OperatorGreaterThan:
		return toNumber(actual) > toNumber(logic.Value)
	case model.OperatorLessThan:
		return toNumber(actual) < toNumber(logic.Value)
	case model.OperatorIsEmpty:
		return isEmpty(actual)
	case model.OperatorIsNotEmpty:
		return !isEmpty(actual)
	default:
		return true
	}
}

// strictEqual never coerces across types: 5 and "5" differ.
func strictEqual(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// VisibleFields splits the form fields, in display order, into the ones shown
// for values and the keys of the ones hidden by their conditional logic.
func VisibleFields(fields []model.FormField, values map[string]any) ([]model.FormField, []string) {
	if values == nil {
		values = map[string]any{}
	}

	visible := make([]model.FormField, 0, len(fields))
	hidden := make([]string, 0)

	for _, f := range Ordered(fields) {
		if f.ConditionalLogic == nil {
			visible = append(visible, f)
			continue
		}

		logic := *f.ConditionalLogic
		logic.FieldID = model.FieldRef(ResolveFieldKey(fields, logic.FieldID))

		if Evaluate(&logic, values) {
			visible = append(visible, f)
		} else {
			hidden = append(hidden, f.FieldKey)
		}
	}

	return visible, hidden
}
