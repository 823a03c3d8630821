package style

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"lynxssr/css"
)

// FlattenedStyleSheet is a stylesheet annotated with ids of all sheets which
// include it directly or through imports, sheet itself included.
type FlattenedStyleSheet struct {
	ID         int
	Rules      []css.Rule
	AtRules    string
	ImportedBy []int // ascending
}

// Flatten orders sheets topologically (importers before imported sheets) and
// computes imported-by closure for every declared sheet. Import targets which
// were never declared are dropped. Import graph is expected to be acyclic,
// sheets on a cycle are never emitted.
func Flatten(info css.StyleInfo, log *zap.Logger) []FlattenedStyleSheet {
	if log == nil {
		log = zap.NewNop()
	}

	ids := info.IDs()

	// nil sheet is declared but empty
	imports := func(id int) []int {
		if sheet := info[id]; sheet != nil {
			return sheet.Imports
		}
		return nil
	}

	inDegree := make(map[int]int, len(ids))
	for _, id := range ids {
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
		}
		for _, imp := range imports(id) {
			inDegree[imp]++
		}
	}

	// Kahn's algorithm, queue is processed in place
	queue := make([]int, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	order := make([]int, 0, len(ids))
	for i := 0; i < len(queue); i++ {
		id := queue[i]
		if _, ok := info[id]; !ok {
			log.Debug("Import of undeclared stylesheet ignored", zap.Int("css-id", id))
			continue
		}
		order = append(order, id)
		for _, imp := range imports(id) {
			inDegree[imp]--
			if inDegree[imp] == 0 {
				queue = append(queue, imp)
			}
		}
	}
	if len(order) < len(ids) {
		log.Debug("Stylesheets on import cycle ignored", zap.Int("declared", len(ids)), zap.Int("ordered", len(order)))
	}

	importedBy := make(map[int]map[int]struct{}, len(order))
	closure := func(id int) map[int]struct{} {
		set, ok := importedBy[id]
		if !ok {
			set = make(map[int]struct{})
			importedBy[id] = set
		}
		return set
	}
	for _, id := range order {
		self := closure(id)
		self[id] = struct{}{}
		for _, imp := range imports(id) {
			maps.Copy(closure(imp), self)
		}
	}

	result := make([]FlattenedStyleSheet, 0, len(order))
	for _, id := range order {
		fs := FlattenedStyleSheet{ID: id, ImportedBy: slices.Sorted(maps.Keys(importedBy[id]))}
		if sheet := info[id]; sheet != nil {
			fs.Rules, fs.AtRules = sheet.Rules, sheet.AtRules
		}
		result = append(result, fs)
	}
	return result
}
