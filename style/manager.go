package style

import (
	"strings"

	"go.uber.org/zap"

	"lynxssr/css"
)

// Batch is a result of a single stylesheet push.
type Batch struct {
	EntryName string
	Sheets    []FlattenedStyleSheet
	Result
}

// Manager collects styles of a page. Every pushed StyleInfo is flattened and
// generated once, output is immutable afterwards. Manager is not safe for
// concurrent use.
type Manager struct {
	log               *zap.Logger
	enableCSSSelector bool
	removeCSSScope    bool

	batches []Batch
	css     strings.Builder
	resolve map[string]ResolveMap // entry name → resolve map
}

func NewManager(enableCSSSelector, removeCSSScope bool, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:               log.Named("style"),
		enableCSSSelector: enableCSSSelector,
		removeCSSScope:    removeCSSScope,
		resolve:           make(map[string]ResolveMap),
	}
}

// EnableCSSSelector reports whether classes are matched by browser CSS.
func (m *Manager) EnableCSSSelector() bool {
	return m.enableCSSSelector
}

// Push flattens and generates CSS for stylesheets of an entry. Empty entry
// name stands for the main page.
func (m *Manager) Push(info css.StyleInfo, entryName string) Batch {
	sheets := Flatten(info, m.log)
	gen := NewGenerator(Options{
		EnableCSSSelector: m.enableCSSSelector,
		RemoveCSSScope:    m.removeCSSScope,
		EntryName:         entryName,
	}, m.log)
	res := gen.Generate(sheets)

	m.css.WriteString(res.CSS)
	if res.Resolve != nil {
		dst, ok := m.resolve[entryName]
		if !ok {
			dst = make(ResolveMap)
			m.resolve[entryName] = dst
		}
		for id, byPlain := range res.Resolve {
			for plain, decls := range byPlain {
				dst.add(id, plain, decls.Declarations())
			}
		}
	}

	batch := Batch{EntryName: entryName, Sheets: sheets, Result: res}
	m.batches = append(m.batches, batch)
	m.log.Debug("Stylesheets pushed",
		zap.String("entry", entryName),
		zap.Int("declared", len(info)),
		zap.Int("flattened", len(sheets)))
	return batch
}

// CSS returns accumulated page CSS.
func (m *Manager) CSS() string {
	return m.css.String()
}

// Batches returns pushed batches in push order.
func (m *Manager) Batches() []Batch {
	return m.batches
}

// Resolve merges declarations resolved for classes in class order, later
// classes winning. Nil is returned when selectors are enabled or nothing
// matched.
func (m *Manager) Resolve(cssID int, entryName string, classes []string) *css.DeclarationMap {
	rm, ok := m.resolve[entryName]
	if !ok {
		return nil
	}
	var res *css.DeclarationMap
	for _, class := range classes {
		decls := rm.Lookup(cssID, "."+class)
		if decls == nil {
			continue
		}
		if res == nil {
			res = css.NewDeclarationMap()
		}
		res.Merge(decls)
	}
	return res
}
