// Package validate checks a single field value against its declared
// kind and constraints. Pure functions, safe to call on every change.
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/contratos/contracts-service/internal/model"
)

// Field validates value against field. Returns nil when valid. Rules
// run in order and the first failure wins: required, numeric bounds,
// pattern.
func Field(field model.TemplateField, value any) *model.FieldError {
	if IsEmpty(value) {
		if field.Required {
			return &model.FieldError{FieldID: field.ID, Message: "field is required"}
		}
		return nil
	}

	if field.Kind.IsNumeric() {
		number, ok := ToNumber(value)
		if !ok {
			return &model.FieldError{FieldID: field.ID, Message: "value must be a number"}
		}
		if c := field.Constraints; c != nil {
			if c.Min != nil && number < *c.Min {
				return &model.FieldError{FieldID: field.ID, Message: fmt.Sprintf("value must be at least %s", formatBound(*c.Min))}
			}
			if c.Max != nil && number > *c.Max {
				return &model.FieldError{FieldID: field.ID, Message: fmt.Sprintf("value must be at most %s", formatBound(*c.Max))}
			}
		}
		return nil
	}

	if field.Kind.IsTextLike() && field.Constraints != nil && field.Constraints.Pattern != "" {
		re, err := regexp.Compile(anchored(field.Constraints.Pattern))
		if err != nil {
			// Malformed patterns are caught at template load; a field
			// that slips through must not pass bad input silently.
			return patternError(field)
		}
		if !re.MatchString(fmt.Sprint(value)) {
			return patternError(field)
		}
	}

	return nil
}

// All validates every field of the template against form, returning
// one error per failing field in template field order.
func All(template *model.ContractTemplate, form model.FormData) []model.FieldError {
	var errs []model.FieldError
	for _, field := range template.Fields {
		if fe := Field(field, form[field.ID]); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// IsEmpty reports whether value counts as unset: nil or an
// empty/blank string. A boolean false is a value, not an absence.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ToNumber coerces the value shapes that reach the engine (JSON
// numbers, typed ints, numeric strings) to float64.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// patternError uses the template author's message when one is set.
func patternError(field model.TemplateField) *model.FieldError {
	message := "invalid format"
	if field.Constraints.Message != "" {
		message = field.Constraints.Message
	}
	return &model.FieldError{FieldID: field.ID, Message: message}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// anchored forces a full match. Patterns authored for the form layer
// historically assumed whole-value semantics.
func anchored(pattern string) string {
	return `\A(?:` + pattern + `)\z`
}
