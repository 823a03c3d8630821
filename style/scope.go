package style

import (
	"strconv"

	"lynxssr/css"
)

// Attributes used to scope generated selectors.
const (
	CSSIDAttribute     = "l-css-id"
	EntryNameAttribute = "l-e-name"
	TagAttribute       = "lynx-tag"
)

// scopeSuffix returns attribute selectors attached to the last compound.
func scopeSuffix(cssID int, removeCSSScope bool, entryName string) string {
	var suffix string
	if removeCSSScope {
		suffix = "[" + TagAttribute + "]"
	} else {
		suffix = "[" + CSSIDAttribute + `="` + strconv.Itoa(cssID) + `"]`
	}
	if entryName != "" {
		suffix += "[" + EntryNameAttribute + `="` + css.EscapeDoubleQuoted(entryName) + `"]`
	} else {
		suffix += ":not([" + EntryNameAttribute + "])"
	}
	return suffix
}

// ScopeSelector returns fragments of selector text scoped to the sheet
// cssID. Scope is attached right after plain tokens of the last compound so
// pseudo-classes and pseudo-elements still follow it. Empty entryName means
// elements which do not belong to any named entry.
func ScopeSelector(cssID int, sel css.Selector, removeCSSScope bool, entryName string) []string {
	suffix := scopeSuffix(cssID, removeCSSScope, entryName)

	var fragments []string
	for i, c := range sel {
		fragments = append(fragments, c.Plain...)
		if i == len(sel)-1 {
			fragments = append(fragments, suffix)
		}
		fragments = append(fragments, c.PseudoClasses...)
		fragments = append(fragments, c.PseudoElements...)
		fragments = append(fragments, c.Combinators...)
	}
	return fragments
}
