package style

import (
	"strings"

	"go.uber.org/zap"

	"lynxssr/css"
	"lynxssr/transform"
)

// ResolveMap is used when selector support is disabled: css-id → simple
// selector text (".item") → transformed declarations, later declarations
// replacing earlier ones with the same property name.
type ResolveMap map[int]map[string]*css.DeclarationMap

func (rm ResolveMap) add(cssID int, plain string, decls []css.Declaration) {
	byPlain, ok := rm[cssID]
	if !ok {
		byPlain = make(map[string]*css.DeclarationMap)
		rm[cssID] = byPlain
	}
	m, ok := byPlain[plain]
	if !ok {
		m = css.NewDeclarationMap()
		byPlain[plain] = m
	}
	for _, d := range decls {
		m.Set(d)
	}
}

// Lookup returns resolved declarations for simple selector, nil if there
// are none.
func (rm ResolveMap) Lookup(cssID int, plain string) *css.DeclarationMap {
	return rm[cssID][plain]
}

// Result of css generation. Resolve is nil when selectors are enabled.
type Result struct {
	CSS     string
	Resolve ResolveMap
}

// Options control how flattened stylesheets are turned into browser CSS.
type Options struct {
	EnableCSSSelector bool
	RemoveCSSScope    bool
	EntryName         string
}

// Generator converts flattened stylesheets into CSS text.
type Generator interface {
	Generate(sheets []FlattenedStyleSheet) Result
}

// NewGenerator returns generator for requested mode. With selectors enabled
// every rule is written as CSS, otherwise rules with single plain selector
// go to resolve map and only the rest is written as CSS.
func NewGenerator(opts Options, log *zap.Logger) Generator {
	if log == nil {
		log = zap.NewNop()
	}
	base := generator{opts: opts}
	if opts.EnableCSSSelector {
		base.log = log.Named("css-ng")
		return &ngGenerator{base}
	}
	base.log = log.Named("css-og")
	return &ogGenerator{base}
}

type generator struct {
	opts Options
	log  *zap.Logger
}

// scope expands selectors for every sheet in importedBy.
func (g *generator) scope(importedBy []int, sels []css.Selector) [][]string {
	res := make([][]string, 0, len(importedBy)*len(sels))
	for _, id := range importedBy {
		for _, sel := range sels {
			res = append(res, ScopeSelector(id, sel, g.opts.RemoveCSSScope, g.opts.EntryName))
		}
	}
	return res
}

func writeSelectors(sb *strings.Builder, selectors [][]string, children bool) {
	for i, fragments := range selectors {
		if i > 0 {
			sb.WriteByte(',')
		}
		for _, f := range fragments {
			sb.WriteString(f)
		}
		if children {
			sb.WriteString(" > *")
		}
	}
}

func writeBlock(sb *strings.Builder, decls []css.Declaration) {
	sb.WriteByte('{')
	for _, d := range decls {
		sb.WriteString(d.String())
		sb.WriteByte(';')
	}
	sb.WriteByte('}')
}

type ngGenerator struct {
	generator
}

func (g *ngGenerator) Generate(sheets []FlattenedStyleSheet) Result {
	var sb strings.Builder

	for _, sheet := range sheets {
		sb.WriteString(sheet.AtRules)
		for _, rule := range sheet.Rules {
			selectors := g.scope(sheet.ImportedBy, rule.Selectors)
			primary, children := transform.TransformAll(rule.Declarations)

			writeSelectors(&sb, selectors, false)
			writeBlock(&sb, primary)

			if len(children) > 0 {
				writeSelectors(&sb, selectors, true)
				writeBlock(&sb, children)
			}
		}
	}

	g.log.Debug("CSS generated", zap.Int("sheets", len(sheets)), zap.Int("bytes", sb.Len()))
	return Result{CSS: sb.String()}
}

type ogGenerator struct {
	generator
}

func (g *ogGenerator) Generate(sheets []FlattenedStyleSheet) Result {
	var sb strings.Builder
	resolve := make(ResolveMap)

	for _, sheet := range sheets {
		sb.WriteString(sheet.AtRules)
		for _, rule := range sheet.Rules {
			var simple, nested []css.Selector
			for _, sel := range rule.Selectors {
				if sel.IsSimple() {
					simple = append(simple, sel)
				} else {
					nested = append(nested, sel)
				}
			}

			primary, children := transform.TransformAll(rule.Declarations)

			var scopedSimple, scopedComplex [][]string
			for _, id := range sheet.ImportedBy {
				for _, sel := range simple {
					resolve.add(id, sel[0].Plain[0], primary)
					if len(children) > 0 {
						scopedSimple = append(scopedSimple, ScopeSelector(id, sel, g.opts.RemoveCSSScope, g.opts.EntryName))
					}
				}
				for _, sel := range nested {
					scopedComplex = append(scopedComplex, ScopeSelector(id, sel, g.opts.RemoveCSSScope, g.opts.EntryName))
				}
			}

			if len(scopedComplex) > 0 {
				writeSelectors(&sb, scopedComplex, false)
				writeBlock(&sb, primary)
			}
			// resolve map does not cover children, so simple selectors
			// need CSS rule here
			if len(children) > 0 {
				writeSelectors(&sb, append(scopedSimple, scopedComplex...), true)
				writeBlock(&sb, children)
			}
		}
	}

	g.log.Debug("CSS generated", zap.Int("sheets", len(sheets)), zap.Int("bytes", sb.Len()), zap.Int("resolvable", len(resolve)))
	return Result{CSS: sb.String(), Resolve: resolve}
}
