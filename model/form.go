package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeDate     FieldType = "date"
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeNumber   FieldType = "number"
	FieldTypeAddress  FieldType = "address"
	FieldTypeFile     FieldType = "file"
	FieldTypePayment  FieldType = "payment"
	FieldTypeHidden   FieldType = "hidden"
)

// FieldTypes lists every supported field type in palette order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextarea,
	FieldTypeEmail,
	FieldTypePhone,
	FieldTypeDate,
	FieldTypeDatetime,
	FieldTypeSelect,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeNumber,
	FieldTypeAddress,
	FieldTypeFile,
	FieldTypePayment,
	FieldTypeHidden,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIsEmpty     ConditionOperator = "is_empty"
	OperatorIsNotEmpty  ConditionOperator = "is_not_empty"
)

func (o ConditionOperator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorGreaterThan,
		OperatorLessThan, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	}
	return false
}

// NeedsValue reports whether the operator compares against a value.
func (o ConditionOperator) NeedsValue() bool {
	return o != OperatorIsEmpty && o != OperatorIsNotEmpty
}

type FormStatus string

const (
	FormStatusDraft    FormStatus = "draft"
	FormStatusActive   FormStatus = "active"
	FormStatusInactive FormStatus = "inactive"
)

// FieldRef references another field either by numeric id or by field key.
// Numbers are kept in their decimal string form.
type FieldRef string

func (r *FieldRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = FieldRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parse field reference: %w", err)
	}
	*r = FieldRef(n.String())
	return nil
}

type ConditionalLogic struct {
	FieldID  FieldRef          `json:"field_id"`
	Operator ConditionOperator `json:"operator"`
	Value    any               `json:"value,omitempty"`
}

type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldOptions accepts either ["A","B"] or [{"label":"A","value":"a"}].
type FieldOptions []FieldOption

func (o *FieldOptions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*o = nil
		return nil
	}

	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		if raw == "" {
			*o = nil
			return nil
		}
		b = []byte(raw)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("parse field options: %w", err)
	}

	out := make(FieldOptions, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var opt FieldOption
			if err := json.Unmarshal(item, &opt); err != nil {
				return fmt.Errorf("parse field option: %w", err)
			}
			if opt.Value == "" {
				opt.Value = opt.Label
			}
			out = append(out, opt)
			continue
		}

		var scalar any
		if err := json.Unmarshal(item, &scalar); err != nil {
			return fmt.Errorf("parse field option: %w", err)
		}
		s := scalarString(scalar)
		out = append(out, FieldOption{Label: s, Value: s})
	}

	*o = out
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

type ValidationRules struct {
	MinLength         *int     `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength         *int     `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	MinValue          *float64 `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue          *float64 `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Pattern           string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	AcceptedFileTypes []string `json:"accepted_file_types,omitempty" yaml:"accepted_file_types,omitempty"`
	MaxFileSizeMB     *float64 `json:"max_file_size_mb,omitempty" yaml:"max_file_size_mb,omitempty"`
	MinAmount         *float64 `json:"min_amount,omitempty" yaml:"min_amount,omitempty"`
	MaxAmount         *float64 `json:"max_amount,omitempty" yaml:"max_amount,omitempty"`
	Currency          string   `json:"currency,omitempty" yaml:"currency,omitempty"`
}

type FormField struct {
	ID               ID                `json:"id"`
	FormID           ID                `json:"form_id,omitempty"`
	FieldKey         string            `json:"field_key"`
	Label            string            `json:"label"`
	FieldType        FieldType         `json:"field_type"`
	Placeholder      string            `json:"placeholder,omitempty"`
	HelpText         string            `json:"help_text,omitempty"`
	IsRequired       bool              `json:"is_required"`
	Options          FieldOptions      `json:"options,omitempty"`
	ValidationRules  ValidationRules   `json:"validation_rules"`
	ConditionalLogic *ConditionalLogic `json:"conditional_logic,omitempty"`
	DefaultValue     any               `json:"default_value,omitempty"`
	SortOrder        int               `json:"sort_order"`
}

type Form struct {
	ID          ID          `json:"id"`
	EventID     ID          `json:"event_id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      FormStatus  `json:"status"`
	Fields      []FormField `json:"fields"`
	CreatedAt   string      `json:"created_at,omitempty"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

type FormQuery struct {
	ListQuery
	EventID ID     `json:"event_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type FormRequest struct {
	EventID     ID         `json:"event_id,omitempty"`
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	Status      FormStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active inactive"`
}

type FormFieldRequest struct {
	FieldKey         string            `json:"field_key,omitempty" validate:"omitempty,max=64,field_key"`
	Label            string            `json:"label" validate:"required,max=255"`
	FieldType        FieldType         `json:"field_type" validate:"required,field_type"`
	Placeholder      string            `json:"placeholder,omitempty" validate:"max=255"`
	HelpText         string            `json:"help_text,omitempty" validate:"max=1000"`
	IsRequired       bool              `json:"is_required"`
	Options          FieldOptions      `json:"options,omitempty" validate:"dive"`
	ValidationRules  ValidationRules   `json:"validation_rules"`
	ConditionalLogic *ConditionalLogic `json:"conditional_logic,omitempty"`
	DefaultValue     any               `json:"default_value,omitempty"`
	SortOrder        int               `json:"sort_order"`
}

type ReorderFieldsRequest struct {
	FieldIDs []ID `json:"field_ids" validate:"required,min=1"`
}

type FormPreviewRequest struct {
	Values map[string]any `json:"values"`
}

type FormPreviewResponse struct {
	VisibleFields []FormField       `json:"visible_fields"`
	HiddenFields  []string          `json:"hidden_fields"`
	Errors        map[string]string `json:"errors"`
	Valid         bool              `json:"valid"`
}

type PaletteItem struct {
	FieldType       FieldType       `json:"field_type" yaml:"field_type"`
	Label           string          `json:"label" yaml:"label"`
	Icon            string          `json:"icon" yaml:"icon"`
	Description     string          `json:"description" yaml:"description"`
	Category        string          `json:"category" yaml:"category"`
	DefaultOptions  []FieldOption   `json:"default_options,omitempty" yaml:"default_options"`
	DefaultRules    ValidationRules `json:"default_rules" yaml:"default_rules"`
	DefaultRequired bool            `json:"default_required" yaml:"default_required"`
}

type BadgePlaceholder struct {
	Key         string `json:"key"`
	Token       string `json:"token"`
	Description string `json:"description,omitempty"`
}

type BadgeFieldMapping struct {
	ID          ID     `json:"id,omitempty"`
	FormID      ID     `json:"form_id,omitempty"`
	FieldID     ID     `json:"field_id"`
	FieldKey    string `json:"field_key"`
	Placeholder string `json:"badge_placeholder"`
}

type BadgeMappingRequest struct {
	Mappings []BadgeFieldMapping `json:"mappings" validate:"dive"`
}
