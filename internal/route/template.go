package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Expand fills {name} placeholders in an upstream path template. Values are
// path-escaped so a parameter can never add segments to the upstream path.
func Expand(template string, params map[string]string) (string, error) {
	var b strings.Builder
	rest := template

	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in template: %s", template)
		}

		name := rest[start+1 : start+end]
		value := params[name]
		if value == "" {
			return "", fmt.Errorf("missing path parameter %q for template: %s", name, template)
		}

		b.WriteString(rest[:start])
		b.WriteString(url.PathEscape(value))
		rest = rest[start+end+1:]
	}

	return b.String(), nil
}

// Placeholders lists the {name} parameters of a template in order.
func Placeholders(template string) []string {
	var names []string
	for _, part := range strings.Split(template, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			names = append(names, strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}"))
		}
	}
	return names
}
