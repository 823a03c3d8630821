package debug

import (
	"testing"

	"lynxssr/css"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "page", nil, "page\n"},
		{"depth 2", 2, "view", nil, "    view\n"},
		{"with formatting", 1, "Element[%d] tag=%q", []any{3, "text"}, "  Element[3] tag=\"text\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "css", "", "css: \n"},
		{"indented", 1, "at-rules", "@media screen{}", "  at-rules: \"@media screen{}\"\n"},
		{"control characters", 0, "style", "a:\"b\"\nc", "style: \"a:\\\"b\\\"\\nc\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Declarations(t *testing.T) {
	tw := NewTreeWriter()
	tw.Declarations(1, []css.Declaration{
		{Name: "color", Value: "red"},
		{Name: "--flex-grow", Value: "1", Important: true},
	})

	want := "  color:red;\n  --flex-grow:1 !important;\n"
	if got := tw.String(); got != want {
		t.Errorf("Declarations() = %q, want %q", got, want)
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"hello", `"hello"`},
		{"col1\tcol2", `"col1\tcol2"`},
		{`path\to\file`, `"path\\to\\file"`},
	}

	for _, tt := range tests {
		if got := encodeText(tt.input); got != tt.want {
			t.Errorf("encodeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
