package css

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// EscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func EscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Compound is a single compound selector segment. Token order inside every
// list is the source order, lists are written back in field order.
type Compound struct {
	Plain          []string // tag, class, id and attribute tokens: "div", ".a", "#b", "[x=y]"
	PseudoClasses  []string // ":hover", ":not(.a)"
	PseudoElements []string // "::before"
	Combinators    []string // trailing combinator: " > ", " + ", " ~ ", " "
}

// Selector is a complex selector split into compound segments.
type Selector []Compound

// IsSimple reports whether selector is a single plain token without any
// pseudo-classes, pseudo-elements or combinators (".item", "view").
func (s Selector) IsSimple() bool {
	return len(s) == 1 &&
		len(s[0].Plain) == 1 &&
		len(s[0].PseudoClasses) == 0 &&
		len(s[0].PseudoElements) == 0 &&
		len(s[0].Combinators) == 0
}

// String returns selector text as it was tokenized.
func (s Selector) String() string {
	var sb strings.Builder
	for _, c := range s {
		for _, list := range [][]string{c.Plain, c.PseudoClasses, c.PseudoElements, c.Combinators} {
			for _, t := range list {
				sb.WriteString(t)
			}
		}
	}
	return sb.String()
}

// Declaration is a single property: value pair.
type Declaration struct {
	Name      string
	Value     string
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Name + ":" + d.Value + " !important"
	}
	return d.Name + ":" + d.Value
}

// Rule is a style rule: comma separated selector alternatives with
// declarations in source order. Declarations with the same name are never
// merged, cascade is left to the browser.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// StyleSheet is a single css source unit identified by css-id.
type StyleSheet struct {
	Rules    []Rule
	AtRules  string   // opaque, written verbatim before rules
	Imports  []int    // css-ids this sheet imports
	Warnings []string // things parser decided to skip
}

// StyleInfo maps css-id to stylesheet. Import relation is expected to be
// acyclic.
type StyleInfo map[int]*StyleSheet

// IDs returns sheet ids in ascending order.
func (si StyleInfo) IDs() []int {
	return slices.Sorted(maps.Keys(si))
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *StyleSheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(format string, args ...any) error {
		n, err := fmt.Fprintf(w, format, args...)
		total += int64(n)
		return err
	}

	for _, id := range s.Imports {
		if err := write("@import \"%d\";\n", id); err != nil {
			return total, err
		}
	}
	if s.AtRules != "" {
		if err := write("%s\n", s.AtRules); err != nil {
			return total, err
		}
	}
	for _, rule := range s.Rules {
		sels := make([]string, 0, len(rule.Selectors))
		for _, sel := range rule.Selectors {
			sels = append(sels, sel.String())
		}
		if err := write("%s {\n", strings.Join(sels, ", ")); err != nil {
			return total, err
		}
		for _, d := range rule.Declarations {
			if err := write("  %s;\n", d); err != nil {
				return total, err
			}
		}
		if err := write("}\n"); err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *StyleSheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
