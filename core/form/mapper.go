package form

import (
	"eventdesk/common/errs"
	"eventdesk/model"
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`^\{\{[a-z0-9_]+\}\}$`)

func DefaultToken(fieldKey string) string {
	return "{{" + fieldKey + "}}"
}

// DefaultMappings maps every printable field to its default token.
func DefaultMappings(fields []model.FormField) []model.BadgeFieldMapping {
	out := make([]model.BadgeFieldMapping, 0, len(fields))
	for _, f := range Ordered(fields) {
		if f.FieldType == model.FieldTypeFile || f.FieldKey == "" {
			continue
		}
		out = append(out, model.BadgeFieldMapping{
			FormID:      f.FormID,
			FieldID:     f.ID,
			FieldKey:    f.FieldKey,
			Placeholder: DefaultToken(f.FieldKey),
		})
	}
	return out
}

// NormalizeMappings resolves each mapping to its field and fills the default
// token where none was chosen. Mappings to unknown fields are kept untouched
// so ValidateMappings can report them.
func NormalizeMappings(fields []model.FormField, mappings []model.BadgeFieldMapping) []model.BadgeFieldMapping {
	out := make([]model.BadgeFieldMapping, len(mappings))
	for i, m := range mappings {
		m.Placeholder = strings.TrimSpace(m.Placeholder)
		if f, ok := mappedField(fields, m); ok {
			m.FieldID = f.ID
			m.FieldKey = f.FieldKey
			if m.FormID == 0 {
				m.FormID = f.FormID
			}
			if m.Placeholder == "" {
				m.Placeholder = DefaultToken(f.FieldKey)
			}
		}
		out[i] = m
	}
	return out
}

func mappedField(fields []model.FormField, m model.BadgeFieldMapping) (model.FormField, bool) {
	for _, f := range fields {
		if m.FieldID != 0 && f.ID == m.FieldID {
			return f, true
		}
	}
	for _, f := range fields {
		if m.FieldKey != "" && f.FieldKey == m.FieldKey {
			return f, true
		}
	}
	return model.FormField{}, false
}

// ValidateMappings enforces the token format and one token per form.
func ValidateMappings(fields []model.FormField, mappings []model.BadgeFieldMapping) error {
	problems := map[string]string{}
	seen := map[string]int{}

	for i, m := range mappings {
		if _, ok := mappedField(fields, m); !ok {
			problems[fmt.Sprintf("mappings[%d].field_id", i)] = "exists"
		}

		key := fmt.Sprintf("mappings[%d].badge_placeholder", i)
		if !tokenPattern.MatchString(m.Placeholder) {
			problems[key] = "format"
			continue
		}
		if _, dup := seen[m.Placeholder]; dup {
			problems[key] = "unique"
			continue
		}
		seen[m.Placeholder] = i
	}

	if len(problems) > 0 {
		return errs.Validation(problems)
	}
	return nil
}

// RenderBadge resolves every mapped token against one submission. Tokens
// whose field has no answer render as "".
func RenderBadge(mappings []model.BadgeFieldMapping, submission model.FormSubmission) map[string]string {
	out := make(map[string]string, len(mappings))
	for _, m := range mappings {
		out[m.Placeholder] = Stringify(submission.SubmissionData[m.FieldKey])
	}
	return out
}
