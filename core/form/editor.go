package form

import (
	"eventdesk/common/errs"
	"eventdesk/model"
	"fmt"
	"regexp"
	"strings"
)

const maxFieldKeyLength = 64

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveFieldKey builds a snake_case key from label that no other field of
// the form uses. self is the id of the field being edited, 0 when new.
func DeriveFieldKey(label string, fields []model.FormField, self model.ID) string {
	base := nonKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "field"
	}
	if base[0] >= '0' && base[0] <= '9' {
		base = "field_" + base
	}
	if len(base) > maxFieldKeyLength {
		base = strings.TrimRight(base[:maxFieldKeyLength], "_")
	}

	key := base
	for n := 2; keyTaken(fields, key, self); n++ {
		suffix := fmt.Sprintf("_%d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxFieldKeyLength {
			trimmed = trimmed[:maxFieldKeyLength-len(suffix)]
		}
		key = trimmed + suffix
	}
	return key
}

func keyTaken(fields []model.FormField, key string, self model.ID) bool {
	for _, f := range fields {
		if f.FieldKey == key && (self == 0 || f.ID != self) {
			return true
		}
	}
	return false
}

// NormalizeField trims the request, derives a missing field_key and drops
// options from types that have none.
func NormalizeField(req model.FormFieldRequest, fields []model.FormField, self model.ID) model.FormFieldRequest {
	req.Label = strings.TrimSpace(req.Label)
	req.FieldKey = strings.TrimSpace(req.FieldKey)
	if req.FieldKey == "" {
		req.FieldKey = DeriveFieldKey(req.Label, fields, self)
	}

	b, _ := BehaviorOf(req.FieldType)
	if !b.HasOptions {
		req.Options = nil
	}

	for i := range req.Options {
		req.Options[i].Label = strings.TrimSpace(req.Options[i].Label)
		req.Options[i].Value = strings.TrimSpace(req.Options[i].Value)
		if req.Options[i].Value == "" {
			req.Options[i].Value = req.Options[i].Label
		}
	}

	if req.SortOrder == 0 && self == 0 {
		req.SortOrder = nextSortOrder(fields)
	}

	return req
}

func nextSortOrder(fields []model.FormField) int {
	next := 1
	for _, f := range fields {
		if f.SortOrder >= next {
			next = f.SortOrder + 1
		}
	}
	return next
}

// ValidateField applies the editor rules the struct tags cannot express.
// fields is the current field list of the form.
func ValidateField(req model.FormFieldRequest, fields []model.FormField, self model.ID) error {
	problems := map[string]string{}

	if req.FieldKey != "" && keyTaken(fields, req.FieldKey, self) {
		problems["field_key"] = "unique"
	}

	if b, ok := BehaviorOf(req.FieldType); ok && b.HasOptions {
		validateOptions(req.Options, problems)
	}

	validateRules(req.ValidationRules, problems)

	if req.ConditionalLogic != nil {
		validateLogic(*req.ConditionalLogic, req.FieldKey, fields, self, problems)
	}

	if len(problems) > 0 {
		return errs.Validation(problems)
	}
	return nil
}

func validateOptions(options model.FieldOptions, problems map[string]string) {
	if len(options) == 0 {
		problems["options"] = "required"
		return
	}

	seen := map[string]struct{}{}
	for i, o := range options {
		if strings.TrimSpace(o.Label) == "" {
			problems[fmt.Sprintf("options[%d].label", i)] = "required"
		}
		if _, ok := seen[o.Value]; ok {
			problems[fmt.Sprintf("options[%d].value", i)] = "unique"
		}
		seen[o.Value] = struct{}{}
	}
}

func validateRules(r model.ValidationRules, problems map[string]string) {
	if r.MinLength != nil && *r.MinLength < 0 {
		problems["validation_rules.min_length"] = "gte=0"
	}
	if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
		problems["validation_rules.max_length"] = "gtefield=min_length"
	}
	if r.MinValue != nil && r.MaxValue != nil && *r.MinValue > *r.MaxValue {
		problems["validation_rules.max_value"] = "gtefield=min_value"
	}
	if r.MinAmount != nil && r.MaxAmount != nil && *r.MinAmount > *r.MaxAmount {
		problems["validation_rules.max_amount"] = "gtefield=min_amount"
	}
	if r.MaxFileSizeMB != nil && *r.MaxFileSizeMB <= 0 {
		problems["validation_rules.max_file_size_mb"] = "gt=0"
	}
	if r.Pattern != "" {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			problems["validation_rules.pattern"] = "regexp"
		}
	}
}

func validateLogic(logic model.ConditionalLogic, key string, fields []model.FormField, self model.ID, problems map[string]string) {
	if strings.TrimSpace(string(logic.FieldID)) == "" {
		problems["conditional_logic.field_id"] = "required"
	} else if target, ok := findField(fields, logic.FieldID); !ok {
		problems["conditional_logic.field_id"] = "exists"
	} else if (self != 0 && target.ID == self) || (key != "" && target.FieldKey == key) {
		problems["conditional_logic.field_id"] = "nefield"
	}

	if !logic.Operator.Valid() {
		problems["conditional_logic.operator"] = "oneof"
		return
	}

	if logic.Operator.NeedsValue() && isBlank(logic.Value) {
		problems["conditional_logic.value"] = "required"
	}
}

// Reorder applies an ordered id list to the fields. ids must be a permutation
// of the current field ids; sort_order is renumbered from 1.
func Reorder(fields []model.FormField, ids []model.ID) ([]model.FormField, error) {
	byID := make(map[model.ID]model.FormField, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	if len(ids) != len(fields) {
		return nil, errs.Validation(map[string]string{"field_ids": "permutation"})
	}

	out := make([]model.FormField, 0, len(ids))
	seen := make(map[model.ID]struct{}, len(ids))
	for i, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, errs.Validation(map[string]string{"field_ids": "permutation"})
		}
		if _, dup := seen[id]; dup {
			return nil, errs.Validation(map[string]string{"field_ids": "permutation"})
		}
		seen[id] = struct{}{}

		f.SortOrder = i + 1
		out = append(out, f)
	}

	return out, nil
}
