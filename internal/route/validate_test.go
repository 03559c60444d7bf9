package route

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	fields := []Field{
		{Name: "type", Required: true},
		{Name: "name", Required: true},
		{Name: "content", Required: true},
		{
			Name:    "priority",
			When:    &Condition{Field: "type", Equals: "MX"},
			Message: "Priority is required for MX record.",
		},
	}

	tests := []struct {
		name      string
		body      map[string]any
		wantField string
		wantMsg   string
	}{
		{
			name: "A record without priority",
			body: map[string]any{"type": "A", "name": "www", "content": "192.0.2.1"},
		},
		{
			name:      "MX record without priority",
			body:      map[string]any{"type": "MX", "name": "@", "content": "mail.example.com"},
			wantField: "priority",
			wantMsg:   "Priority is required for MX record.",
		},
		{
			name:      "MX record with null priority",
			body:      map[string]any{"type": "MX", "name": "@", "content": "mail.example.com", "priority": nil},
			wantField: "priority",
			wantMsg:   "Priority is required for MX record.",
		},
		{
			name: "MX record with priority",
			body: map[string]any{"type": "MX", "name": "@", "content": "mail.example.com", "priority": json.Number("10")},
		},
		{
			name: "MX record with zero priority",
			body: map[string]any{"type": "MX", "name": "@", "content": "mail.example.com", "priority": json.Number("0")},
		},
		{
			name:      "missing content",
			body:      map[string]any{"type": "A", "name": "www"},
			wantField: "content",
			wantMsg:   "content is required.",
		},
		{
			name:      "empty string counts as missing",
			body:      map[string]any{"type": "", "name": "www", "content": "x"},
			wantField: "type",
			wantMsg:   "type is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(fields, tt.body)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMsg, vErr.Error())
		})
	}
}

func TestPick(t *testing.T) {
	call := &Call{Body: map[string]any{
		"type":     "A",
		"name":     "www",
		"content":  "",
		"priority": nil,
		"extra":    "ignored",
	}}

	got := Pick("type", "name", "content", "priority", "ttl")(call)
	assert.Equal(t, map[string]any{"type": "A", "name": "www"}, got)
}
