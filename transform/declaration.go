package transform

import (
	"slices"
	"strings"

	"lynxssr/css"
)

// Transform rewrites a single declaration. Primary declarations replace the
// source declaration on the element, children declarations apply to direct
// children of the element. Both are empty when no rule matches and the
// declaration has to be kept as is.
func Transform(name, value string) (primary, children []css.Declaration) {
	switch {
	case renameRules[name] != "":
		primary = []css.Declaration{{Name: renameRules[name], Value: value}}
	case replaceRules[replaceKey{name, value}] != nil:
		primary = slices.Clone(replaceRules[replaceKey{name, value}])
	case name == "color":
		primary = transformColor(value)
	case name == "flex":
		primary = transformFlex(value)
	}

	if name == linearWeightSum {
		if value == "0" {
			// zero weight sum would make all children weights meaningless
			value = "1"
		}
		children = []css.Declaration{{Name: LinearWeightSumVar, Value: value}}
	}
	return primary, children
}

// TransformAll rewrites declaration list keeping source order. Declarations
// without matching rule are copied, importance of the source declaration is
// propagated to every declaration it produced.
func TransformAll(in []css.Declaration) (primary, children []css.Declaration) {
	for _, d := range in {
		p, c := Transform(d.Name, d.Value)
		if len(p) == 0 {
			primary = append(primary, d)
		}
		for _, pd := range p {
			pd.Important = d.Important
			primary = append(primary, pd)
		}
		for _, cd := range c {
			cd.Important = d.Important
			children = append(children, cd)
		}
	}
	return primary, children
}

func transformColor(value string) []css.Declaration {
	if strings.HasPrefix(value, linearGradient) {
		return append(slices.Clone(colorForGradient), css.Declaration{Name: TextBgColorVar, Value: value})
	}
	return append(slices.Clone(colorForNormal), css.Declaration{Name: "color", Value: value})
}

func transformFlex(value string) []css.Declaration {
	fields := strings.Fields(value)

	switch len(fields) {
	case 1:
		switch v := fields[0]; {
		case v == "none":
			return slices.Clone(flexNone)
		case v == "auto":
			return slices.Clone(flexAuto)
		case isDigits(v):
			return append(slices.Clone(flexGrowOnly), css.Declaration{Name: FlexGrowVar, Value: v})
		default:
			return append(slices.Clone(flexBasis), css.Declaration{Name: FlexBasisVar, Value: v})
		}
	case 2:
		grow := css.Declaration{Name: FlexGrowVar, Value: fields[0]}
		if isDigits(fields[1]) {
			return []css.Declaration{
				grow,
				{Name: FlexBasisVar, Value: "0%"},
				{Name: FlexShrinkVar, Value: fields[1]},
			}
		}
		return []css.Declaration{
			grow,
			{Name: FlexShrinkVar, Value: "1"},
			{Name: FlexBasisVar, Value: fields[1]},
		}
	case 3:
		return []css.Declaration{
			{Name: FlexGrowVar, Value: fields[0]},
			{Name: FlexShrinkVar, Value: fields[1]},
			{Name: FlexBasisVar, Value: fields[2]},
		}
	}
	// empty value or more than three fields
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
