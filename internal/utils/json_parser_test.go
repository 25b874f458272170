package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"key_differences": "a", "rooms": 3}`,
			want: map[string]interface{}{
				"key_differences": "a",
				"rooms":           float64(3),
			},
		},
		{
			name:  "JSON in markdown code block",
			input: "```json\n" + `{"value_analysis": "cheaper per m²"}` + "\n```",
			want: map[string]interface{}{
				"value_analysis": "cheaper per m²",
			},
		},
		{
			name:  "JSON with surrounding text",
			input: `Here is the analysis: {"pros_and_cons": "large {garden}"} Hope it helps.`,
			want: map[string]interface{}{
				"pros_and_cons": "large {garden}",
			},
		},
		{
			name:  "JSON with trailing comma and prose",
			input: `Sure! {"recommendations": "buy", "rooms": 4,}`,
			want: map[string]interface{}{
				"recommendations": "buy",
				"rooms":           float64(4),
			},
		},
		{
			name:  "JSON with unquoted keys",
			input: `{recommendations: "wait", rooms: 2}`,
			want: map[string]interface{}{
				"recommendations": "wait",
				"rooms":           float64(2),
			},
		},
		{
			name:    "Empty string",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Invalid JSON",
			input:   "not json at all",
			wantErr: true,
		},
		{
			name:    "Unbalanced object",
			input:   `{"key_differences": "a"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	schema := MustCompileSchema(`{
		"type": "object",
		"required": ["title"],
		"properties": {"title": {"type": "string", "minLength": 1}}
	}`)

	assert.NoError(t, schema.Validate(map[string]interface{}{"title": "ok"}))

	err := schema.Validate(map[string]interface{}{"title": 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	assert.Error(t, schema.Validate(map[string]interface{}{}))
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
}
