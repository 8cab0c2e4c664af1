package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "fenced json block",
			input: "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "fenced block without language tag",
			input: "```\n{\"b\": true}\n```",
			want:  `{"b": true}`,
			ok:    true,
		},
		{
			name:  "bare object",
			input: `{"sentiment": "negative"}`,
			want:  `{"sentiment": "negative"}`,
			ok:    true,
		},
		{
			name:  "object with surrounding prose",
			input: `Sure! {"x": [1, 2]} hope that helps`,
			want:  `{"x": [1, 2]}`,
			ok:    true,
		},
		{
			name:  "nested braces",
			input: `reply: {"outer": {"inner": {"deep": 3}}}`,
			want:  `{"outer": {"inner": {"deep": 3}}}`,
			ok:    true,
		},
		{
			name:  "braces inside string values",
			input: `{"note": "a } b { c", "n": 1}`,
			want:  `{"note": "a } b { c", "n": 1}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"note": "say \"}\"", "n": 2}`,
			want:  `{"note": "say \"}\"", "n": 2}`,
			ok:    true,
		},
		{
			name:  "no object at all",
			input: "I cannot answer that.",
			ok:    false,
		},
		{
			name:  "unbalanced object",
			input: `{"a": 1`,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractJSON() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
