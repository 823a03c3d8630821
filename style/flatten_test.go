package style_test

import (
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"lynxssr/css"
	"lynxssr/style"
)

func importedBy(sheets []style.FlattenedStyleSheet) map[int][]int {
	res := make(map[int][]int, len(sheets))
	for _, s := range sheets {
		res[s.ID] = s.ImportedBy
	}
	return res
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		info css.StyleInfo
		want map[int][]int
	}{
		{
			name: "empty",
			info: css.StyleInfo{},
			want: map[int][]int{},
		},
		{
			name: "chain",
			info: css.StyleInfo{
				1: {Imports: []int{2}},
				2: {Imports: []int{3}},
				3: {},
			},
			want: map[int][]int{1: {1}, 2: {1, 2}, 3: {1, 2, 3}},
		},
		{
			name: "independent",
			info: css.StyleInfo{1: {}, 2: {}},
			want: map[int][]int{1: {1}, 2: {2}},
		},
		{
			name: "diamond",
			info: css.StyleInfo{
				1: {Imports: []int{2, 3}},
				2: {Imports: []int{4}},
				3: {Imports: []int{4}},
				4: {},
			},
			want: map[int][]int{1: {1}, 2: {1, 2}, 3: {1, 3}, 4: {1, 2, 3, 4}},
		},
		{
			name: "shared import",
			info: css.StyleInfo{
				1: {Imports: []int{3}},
				2: {Imports: []int{3}},
				3: {},
			},
			want: map[int][]int{1: {1}, 2: {2}, 3: {1, 2, 3}},
		},
		{
			name: "undeclared import",
			info: css.StyleInfo{
				1: {Imports: []int{2, 9}},
				2: {},
			},
			want: map[int][]int{1: {1}, 2: {1, 2}},
		},
		{
			name: "nil sheet",
			info: css.StyleInfo{1: nil},
			want: map[int][]int{1: {1}},
		},
		{
			name: "nil imported sheet",
			info: css.StyleInfo{
				1: {Imports: []int{2}},
				2: nil,
			},
			want: map[int][]int{1: {1}, 2: {1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := importedBy(style.Flatten(tt.info, zaptest.NewLogger(t)))
			if len(got) != len(tt.want) {
				t.Fatalf("Flatten() emitted %v, want %v", got, tt.want)
			}
			for id, want := range tt.want {
				if !slices.Equal(got[id], want) {
					t.Errorf("imported-by[%d] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestFlatten_TopologicalOrder(t *testing.T) {
	info := css.StyleInfo{
		3: {},
		2: {Imports: []int{3}},
		1: {Imports: []int{2}},
		5: {Imports: []int{3}},
	}

	sheets := style.Flatten(info, nil)

	pos := make(map[int]int, len(sheets))
	for i, s := range sheets {
		pos[s.ID] = i
	}
	for id, sheet := range info {
		for _, imp := range sheet.Imports {
			if pos[id] > pos[imp] {
				t.Errorf("sheet %d emitted after imported sheet %d", id, imp)
			}
		}
	}
	// roots are seeded in ascending order
	if sheets[0].ID != 1 || sheets[1].ID != 5 {
		t.Errorf("unexpected order: %v", sheets)
	}
}

func TestFlatten_PreservesContent(t *testing.T) {
	rule := css.Rule{
		Selectors:    []css.Selector{{{Plain: []string{"div"}, PseudoClasses: []string{":hover"}}}},
		Declarations: []css.Declaration{{Name: "color", Value: "red"}},
	}
	info := css.StyleInfo{1: {Rules: []css.Rule{rule}, AtRules: "@media screen { }"}}

	sheets := style.Flatten(info, nil)

	if len(sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(sheets))
	}
	s := sheets[0]
	if s.AtRules != "@media screen { }" {
		t.Errorf("AtRules = %q", s.AtRules)
	}
	if len(s.Rules) != 1 || s.Rules[0].Selectors[0].String() != "div:hover" || s.Rules[0].Declarations[0] != rule.Declarations[0] {
		t.Errorf("rules changed: %+v", s.Rules)
	}
	if !slices.Equal(s.ImportedBy, []int{1}) {
		t.Errorf("ImportedBy = %v, want [1]", s.ImportedBy)
	}
}
