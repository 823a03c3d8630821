package page

import (
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"lynxssr/css"
	"lynxssr/ssr"
)

// StyleInfo parses page stylesheets. Imports listed in description are
// added to those found in CSS text.
func (d *Description) StyleInfo(p *css.Parser) css.StyleInfo {
	info := make(css.StyleInfo, len(d.StyleSheets))
	for _, s := range d.StyleSheets {
		source := s.File
		if source == "" {
			source = d.Name
		}
		sheet := p.Parse([]byte(s.CSS), source)
		for _, id := range s.Imports {
			if !slices.Contains(sheet.Imports, id) {
				sheet.Imports = append(sheet.Imports, id)
			}
		}
		info[s.ID] = sheet
	}
	return info
}

// Builder replays page construction on a server context the same way
// template code does it at runtime.
type Builder struct {
	log    *zap.Logger
	parser *css.Parser
}

func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		log:    log.Named("page"),
		parser: css.NewParser(log),
	}
}

// Build pushes page stylesheets and creates page elements in document order.
// entryName overrides entry of the description when not empty. It returns
// id of the page element.
func (b *Builder) Build(c *ssr.Context, d *Description, entryName string) int {
	if entryName == "" {
		entryName = d.EntryName
	}

	c.PushStyleSheet(d.StyleInfo(b.parser), entryName)

	page := c.CreatePage(d.Page.ComponentID, d.Page.CSSID)
	if entryName != "" {
		c.SetCSSID([]int{page}, d.Page.CSSID, entryName)
	}
	if d.Tree == nil {
		return page
	}

	type item struct {
		node      *Node
		parent    int // element to append to
		component int // element of the nearest enclosing component
	}

	stack := []item{{d.Tree, page, page}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := b.create(c, it.node, it.component, entryName)
		c.AppendChild(it.parent, id)

		component := it.component
		if it.node.ComponentID != "" {
			component = id
		}
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], id, component})
		}
	}

	b.log.Debug("Page built",
		zap.String("name", d.Name),
		zap.String("entry", entryName),
		zap.Int("elements", c.Len()))
	return page
}

func (b *Builder) create(c *ssr.Context, n *Node, component int, entryName string) int {
	id := c.CreateElement(n.Tag, component, n.CSSID, n.ComponentID)

	for _, key := range slices.Sorted(maps.Keys(n.Attributes)) {
		switch key {
		case "class":
			for _, name := range strings.Fields(n.Attributes[key]) {
				c.AddClass(id, name)
			}
		case "style":
			// style is applied after classes
		default:
			c.SetAttribute(id, key, n.Attributes[key])
		}
	}
	if len(n.Dataset) > 0 {
		c.SetDataset(id, n.Dataset)
	}

	style := n.Style
	if style == "" {
		style = n.Attributes["style"]
	}
	if style != "" {
		c.SetAttribute(id, "style", style)
	}

	c.SetCSSID([]int{id}, c.Element(id).CSSID, entryName)
	return id
}
