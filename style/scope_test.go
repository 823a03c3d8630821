package style_test

import (
	"strings"
	"testing"

	"lynxssr/css"
	"lynxssr/style"
)

func TestScopeSelector(t *testing.T) {
	divHover := css.Selector{{Plain: []string{"div"}, PseudoClasses: []string{":hover"}}}
	childFocus := css.Selector{
		{Plain: []string{"div"}, Combinators: []string{" > "}},
		{Plain: []string{"span"}, PseudoClasses: []string{":focus"}},
	}
	before := css.Selector{{Plain: []string{".a", ".b"}, PseudoElements: []string{"::before"}}}

	tests := []struct {
		name   string
		cssID  int
		sel    css.Selector
		remove bool
		entry  string
		want   string
	}{
		{"scoped by id", 1, divHover, false, "", `div[l-css-id="1"]:not([l-e-name]):hover`},
		{"scope removed", 1, divHover, true, "", `div[lynx-tag]:not([l-e-name]):hover`},
		{"entry name", 1, divHover, false, "app", `div[l-css-id="1"][l-e-name="app"]:hover`},
		{"only last compound", 2, childFocus, false, "", `div > span[l-css-id="2"]:not([l-e-name]):focus`},
		{"pseudo element", 3, before, true, "x", `.a.b[lynx-tag][l-e-name="x"]::before`},
		{"quoted entry", 1, css.Selector{{Plain: []string{"p"}}}, false, `a"b`, `p[l-css-id="1"][l-e-name="a\"b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(style.ScopeSelector(tt.cssID, tt.sel, tt.remove, tt.entry), "")
			if got != tt.want {
				t.Errorf("ScopeSelector() = %q, want %q", got, tt.want)
			}
		})
	}
}
