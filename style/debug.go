package style

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"lynxssr/utils/debug"
)

// String returns readable dump of all pushed stylesheets and resolve maps.
// It exists solely for manual inspection during debugging.
func (m *Manager) String() string {
	if m == nil {
		return "<nil Manager>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Style manager: selectors[%t] remove-scope[%t] batches[%d]", m.enableCSSSelector, m.removeCSSScope, len(m.batches))

	for i, b := range m.batches {
		tw.Line(1, "Batch[%d] entry=%q sheets=%d css=%d bytes", i, b.EntryName, len(b.Sheets), len(b.CSS))
		for _, sheet := range b.Sheets {
			tw.Line(2, "Sheet[%d] imported-by=%v rules=%d", sheet.ID, sheet.ImportedBy, len(sheet.Rules))
			if sheet.AtRules != "" {
				tw.TextBlock(3, "At-rules", sheet.AtRules)
			}
			for j, rule := range sheet.Rules {
				sels := make([]string, 0, len(rule.Selectors))
				for _, sel := range rule.Selectors {
					sels = append(sels, sel.String())
				}
				tw.Line(3, "Rule[%d] %q", j, sels)
				tw.Declarations(4, rule.Declarations)
			}
		}
	}

	entries := slices.Collect(maps.Keys(m.resolve))
	sort.Sort(natural.StringSlice(entries))
	for _, entry := range entries {
		rm := m.resolve[entry]
		tw.Line(1, "Resolve map entry=%q (%d css-ids)", entry, len(rm))

		ids := slices.Sorted(maps.Keys(rm))
		for _, id := range ids {
			tw.Line(2, "CSS-ID=%d", id)
			plains := slices.Collect(maps.Keys(rm[id]))
			sort.Sort(natural.StringSlice(plains))
			for _, plain := range plains {
				tw.Line(3, "%s", plain)
				tw.Declarations(4, rm[id][plain].Declarations())
			}
		}
	}
	return tw.String()
}
