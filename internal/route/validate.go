package route

import "fmt"

type Field struct {
	Name     string
	Required bool
	// When makes the field required only if the condition holds.
	When    *Condition
	Message string
}

type Condition struct {
	Field  string
	Equals string
}

func (c *Condition) holds(body map[string]any) bool {
	v, ok := body[c.Field].(string)
	return ok && v == c.Equals
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate performs presence checks only. Values are never checked against
// provider enums.
func Validate(fields []Field, body map[string]any) error {
	for _, f := range fields {
		required := f.Required
		if f.When != nil {
			required = f.When.holds(body)
		}
		if !required {
			continue
		}

		if v, ok := body[f.Name]; ok && present(v) {
			continue
		}

		msg := f.Message
		if msg == "" {
			msg = fmt.Sprintf("%s is required.", f.Name)
		}
		return &ValidationError{Field: f.Name, Message: msg}
	}
	return nil
}

// present treats null and the empty string as missing. Zero is a value.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	default:
		return true
	}
}
