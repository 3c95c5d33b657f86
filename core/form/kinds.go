package form

import (
	"eventdesk/model"
	"fmt"
	"math"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type InputKind string

const (
	InputText      InputKind = "text"
	InputMultiline InputKind = "multiline"
	InputEmail     InputKind = "email"
	InputTel       InputKind = "tel"
	InputDate      InputKind = "date"
	InputDatetime  InputKind = "datetime"
	InputSelect    InputKind = "select"
	InputRadio     InputKind = "radio"
	InputCheckbox  InputKind = "checkbox"
	InputNumber    InputKind = "number"
	InputAddress   InputKind = "address"
	InputFile      InputKind = "file"
	InputPayment   InputKind = "payment"
	InputHidden    InputKind = "hidden"
)

type ChartKind string

const (
	ChartOptions   ChartKind = "options"
	ChartNumeric   ChartKind = "numeric"
	ChartTimeline  ChartKind = "timeline"
	ChartResponses ChartKind = "responses"
	ChartNone      ChartKind = "none"
)

// ValueValidator checks a non-blank answer and returns the failing rule, or
// "" when the value is acceptable.
type ValueValidator func(field model.FormField, value any) string

type Behavior struct {
	Input      InputKind
	Chart      ChartKind
	HasOptions bool
	Validate   ValueValidator
}

var behaviors = map[model.FieldType]Behavior{
	model.FieldTypeText:     {Input: InputText, Chart: ChartResponses, Validate: validateText},
	model.FieldTypeTextarea: {Input: InputMultiline, Chart: ChartResponses, Validate: validateText},
	model.FieldTypeEmail:    {Input: InputEmail, Chart: ChartResponses, Validate: validateEmail},
	model.FieldTypePhone:    {Input: InputTel, Chart: ChartResponses, Validate: validatePhone},
	model.FieldTypeDate:     {Input: InputDate, Chart: ChartTimeline, Validate: validateDate},
	model.FieldTypeDatetime: {Input: InputDatetime, Chart: ChartTimeline, Validate: validateDatetime},
	model.FieldTypeSelect:   {Input: InputSelect, Chart: ChartOptions, HasOptions: true, Validate: validateChoice},
	model.FieldTypeRadio:    {Input: InputRadio, Chart: ChartOptions, HasOptions: true, Validate: validateChoice},
	model.FieldTypeCheckbox: {Input: InputCheckbox, Chart: ChartOptions, HasOptions: true, Validate: validateChoices},
	model.FieldTypeNumber:   {Input: InputNumber, Chart: ChartNumeric, Validate: validateNumber},
	model.FieldTypeAddress:  {Input: InputAddress, Chart: ChartResponses, Validate: validateText},
	model.FieldTypeFile:     {Input: InputFile, Chart: ChartNone, Validate: validateFile},
	model.FieldTypePayment:  {Input: InputPayment, Chart: ChartNumeric, Validate: validatePayment},
	model.FieldTypeHidden:   {Input: InputHidden, Chart: ChartNone, Validate: validateText},
}

// BehaviorOf returns the per-type behaviour. ok is false for unknown types.
func BehaviorOf(t model.FieldType) (Behavior, bool) {
	b, ok := behaviors[t]
	return b, ok
}

var (
	validate     = validator.New()
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)
)

func validateText(field model.FormField, value any) string {
	s := Stringify(value)
	rules := field.ValidationRules
	length := len([]rune(s))

	if rules.MinLength != nil && length < *rules.MinLength {
		return fmt.Sprintf("min_length=%d", *rules.MinLength)
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return fmt.Sprintf("max_length=%d", *rules.MaxLength)
	}
	if rules.Pattern != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err == nil && !re.MatchString(s) {
			return "pattern"
		}
	}
	return ""
}

func validateEmail(field model.FormField, value any) string {
	if err := validate.Var(Stringify(value), "email"); err != nil {
		return "email"
	}
	return validateText(field, value)
}

func validatePhone(field model.FormField, value any) string {
	if !phonePattern.MatchString(strings.TrimSpace(Stringify(value))) {
		return "phone"
	}
	return validateText(field, value)
}

func validateDate(_ model.FormField, value any) string {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(Stringify(value))); err != nil {
		return "date"
	}
	return ""
}

func validateDatetime(_ model.FormField, value any) string {
	if _, ok := model.ParseTime(Stringify(value)); !ok {
		return "datetime"
	}
	return ""
}

func optionValues(field model.FormField) []string {
	out := make([]string, 0, len(field.Options))
	for _, o := range field.Options {
		out = append(out, o.Value)
	}
	return out
}

func validateChoice(field model.FormField, value any) string {
	if !slices.Contains(optionValues(field), Stringify(value)) {
		return "oneof"
	}
	return ""
}

func validateChoices(field model.FormField, value any) string {
	allowed := optionValues(field)
	for _, v := range listOf(value) {
		if !slices.Contains(allowed, v) {
			return "oneof"
		}
	}
	return ""
}

func validateRange(value any, lo, hi *float64, loTag, hiTag string) string {
	n := toNumber(value)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "number"
	}
	if lo != nil && n < *lo {
		return fmt.Sprintf("%s=%s", loTag, Stringify(*lo))
	}
	if hi != nil && n > *hi {
		return fmt.Sprintf("%s=%s", hiTag, Stringify(*hi))
	}
	return ""
}

func validateNumber(field model.FormField, value any) string {
	return validateRange(value, field.ValidationRules.MinValue, field.ValidationRules.MaxValue, "min_value", "max_value")
}

func validatePayment(field model.FormField, value any) string {
	return validateRange(value, field.ValidationRules.MinAmount, field.ValidationRules.MaxAmount, "min_amount", "max_amount")
}

func validateFile(field model.FormField, value any) string {
	accepted := field.ValidationRules.AcceptedFileTypes
	if len(accepted) == 0 {
		return ""
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(Stringify(value)), "."))
	for _, a := range accepted {
		if strings.ToLower(strings.TrimPrefix(strings.TrimSpace(a), ".")) == ext {
			return ""
		}
	}
	return "accepted_file_types"
}
