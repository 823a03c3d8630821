package ssr

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"lynxssr/css"
	"lynxssr/style"
	"lynxssr/transform"
)

// Attributes the web runtime understands.
const (
	UniqueIDAttribute               = "l-uid"
	CSSIDAttribute                  = style.CSSIDAttribute
	ComponentIDAttribute            = "l-comp-id"
	EntryNameAttribute              = style.EntryNameAttribute
	TagAttribute                    = style.TagAttribute
	DefaultDisplayLinearAttribute   = "lynx-default-display-linear"
	DefaultOverflowVisibleAttribute = "lynx-default-overflow-visible"
)

// Options are page wide settings of a server context.
type Options struct {
	// ViewAttributes are written verbatim into <lynx-view> opening tag.
	ViewAttributes         string
	EnableCSSSelector      bool
	RemoveCSSScope         bool
	DefaultDisplayLinear   bool
	DefaultOverflowVisible bool
}

// Context owns element arena and page styles of a single server render.
// Elements are addressed by ids which are allocated sequentially starting
// from 0 and never reused. Operations on unknown ids are ignored. Context is
// not safe for concurrent use.
type Context struct {
	log        *zap.Logger
	opts       Options
	elements   []*Element
	styles     *style.Manager
	components map[string]int // component id → element id
	page       int
}

func NewContext(opts Options, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		log:        log.Named("ssr"),
		opts:       opts,
		styles:     style.NewManager(opts.EnableCSSSelector, opts.RemoveCSSScope, log),
		components: make(map[string]int),
		page:       -1,
	}
}

func (c *Context) element(id int) *Element {
	if id < 0 || id >= len(c.elements) {
		c.log.Debug("Unknown element", zap.Int("id", id))
		return nil
	}
	return c.elements[id]
}

// Element returns arena record, nil for unknown id.
func (c *Context) Element(id int) *Element {
	return c.element(id)
}

// Len returns number of created elements.
func (c *Context) Len() int {
	return len(c.elements)
}

// Styles returns page style manager.
func (c *Context) Styles() *style.Manager {
	return c.styles
}

// CreateElement adds element to the arena and returns its id. When cssID is
// nil element inherits css-id of its parent component.
func (c *Context) CreateElement(tag string, parentComponentID int, cssID *int, componentID string) int {
	id := len(c.elements)

	var scope int
	switch {
	case cssID != nil:
		scope = *cssID
	case parentComponentID >= 0 && parentComponentID < len(c.elements):
		scope = c.elements[parentComponentID].CSSID
	}

	el := newElement(id, tag, scope, parentComponentID, componentID)
	el.Attrs.Set(TagAttribute, tag)
	el.Attrs.Set(UniqueIDAttribute, strconv.Itoa(id))
	if scope != 0 {
		el.Attrs.Set(CSSIDAttribute, strconv.Itoa(scope))
	}
	c.elements = append(c.elements, el)
	if componentID != "" {
		c.components[componentID] = id
	}
	return id
}

// CreatePage creates page root element for component.
func (c *Context) CreatePage(componentID string, cssID int) int {
	id := c.CreateElement("page", 0, &cssID, componentID)
	el := c.elements[id]

	el.Attrs.Set("part", "page")
	el.Attrs.Set(CSSIDAttribute, strconv.Itoa(cssID))
	el.Attrs.Set(ComponentIDAttribute, componentID)
	if !c.opts.DefaultDisplayLinear {
		el.Attrs.Set(DefaultDisplayLinearAttribute, "false")
	}
	if c.opts.DefaultOverflowVisible {
		el.Attrs.Set(DefaultOverflowVisibleAttribute, "true")
	}
	c.page = id
	return id
}

// Page returns id of the page element, -1 if page was not created.
func (c *Context) Page() int {
	return c.page
}

// ElementByComponentID returns id of the element created for component.
func (c *Context) ElementByComponentID(componentID string) (int, bool) {
	id, ok := c.components[componentID]
	return id, ok
}

func (c *Context) AppendChild(parentID, childID int) {
	parent := c.element(parentID)
	if parent == nil || c.element(childID) == nil {
		return
	}
	parent.Children = append(parent.Children, childID)
}

// SetAttribute sets attribute value, style is rewritten on the way.
func (c *Context) SetAttribute(id int, key, value string) {
	el := c.element(id)
	if el == nil {
		return
	}
	if key == "style" {
		text, _ := transform.TransformInline(value)
		el.setStyleText(text)
		return
	}
	el.Attrs.Set(key, value)
}

func (c *Context) RemoveAttribute(id int, key string) {
	el := c.element(id)
	if el == nil {
		return
	}
	if key == "style" {
		// class styles resolved from stylesheets stay
		el.setStyleText("")
		return
	}
	el.Attrs.Delete(key)
}

func (c *Context) GetAttribute(id int, key string) (string, bool) {
	el := c.element(id)
	if el == nil {
		return "", false
	}
	return el.Attrs.Get(key)
}

// GetAttributes returns copy of element attributes.
func (c *Context) GetAttributes(id int) map[string]string {
	el := c.element(id)
	if el == nil {
		return map[string]string{}
	}
	return maps.Collect(el.Attrs.All())
}

func (c *Context) GetTag(id int) (string, bool) {
	el := c.element(id)
	if el == nil {
		return "", false
	}
	return el.Tag, true
}

// AddClass appends class name unless element already has it.
func (c *Context) AddClass(id int, name string) {
	el := c.element(id)
	if el == nil || name == "" {
		return
	}
	el.addClass(name)
}

// SetCSSID moves elements into stylesheet scope. Zero cssID removes the
// scope, empty entryName leaves entry attribute as is.
func (c *Context) SetCSSID(ids []int, cssID int, entryName string) {
	for _, id := range ids {
		el := c.element(id)
		if el == nil {
			continue
		}
		if entryName != "" {
			el.Attrs.Set(EntryNameAttribute, entryName)
			el.EntryName = entryName
		}
		if cssID != 0 {
			el.Attrs.Set(CSSIDAttribute, strconv.Itoa(cssID))
		} else {
			el.Attrs.Delete(CSSIDAttribute)
		}
		el.CSSID = cssID
		if !c.opts.EnableCSSSelector {
			c.updateResolvedStyle(el, entryName)
		}
	}
}

// updateResolvedStyle applies class declarations from the resolve map.
func (c *Context) updateResolvedStyle(el *Element, entryName string) {
	el.resolved = c.styles.Resolve(el.CSSID, entryName, el.Classes())
	el.syncStyle()
	if el.resolved != nil {
		c.log.Debug("Class styles resolved",
			zap.Int("id", el.ID),
			zap.Int("css-id", el.CSSID),
			zap.Strings("classes", el.Classes()),
			zap.Int("declarations", el.resolved.Len()))
	}
}

// AddInlineStyle sets single inline style property. Empty value is ignored.
func (c *Context) AddInlineStyle(id int, key, value string) {
	el := c.element(id)
	if el == nil || value == "" {
		return
	}
	primary, _ := transform.Transform(key, value)
	if len(primary) == 0 {
		el.setStyleProperty(css.Declaration{Name: key, Value: value})
		return
	}
	for _, d := range primary {
		el.inline.Set(d)
	}
	el.syncStyle()
}

// SetInlineStyles replaces inline style with rewritten text. It returns false
// and leaves element untouched when text has nothing to rewrite.
func (c *Context) SetInlineStyles(id int, text string) bool {
	transformed, _ := transform.TransformInline(text)
	if transformed == text {
		return false
	}
	if el := c.element(id); el != nil {
		el.setStyleText(transformed)
	}
	return true
}

// SetInlineStyleKeyValues replaces inline style with property/value pairs.
func (c *Context) SetInlineStyleKeyValues(id int, kv []string) {
	if el := c.element(id); el != nil {
		el.setStyleText(transform.TransformKeyValues(kv))
	}
}

// PushStyleSheet adds stylesheets of an entry to the page.
func (c *Context) PushStyleSheet(info css.StyleInfo, entryName string) {
	c.styles.Push(info, entryName)
}

// PageCSS returns CSS of all pushed stylesheets.
func (c *Context) PageCSS() string {
	return c.styles.CSS()
}

func (c *Context) GetComponentID(id int) (string, bool) {
	el := c.element(id)
	if el == nil || el.ComponentID == "" {
		return "", false
	}
	return el.ComponentID, true
}

func (c *Context) UpdateComponentID(id int, componentID string) {
	el := c.element(id)
	if el == nil {
		return
	}
	if el.ComponentID != "" && c.components[el.ComponentID] == id {
		delete(c.components, el.ComponentID)
	}
	el.ComponentID = componentID
	if componentID != "" {
		c.components[componentID] = id
	}
}

// SetConfig replaces component config of element.
func (c *Context) SetConfig(id int, config map[string]string) {
	if el := c.element(id); el != nil {
		el.Config = maps.Clone(config)
	}
}

// GetConfig returns component config, nil when it was never set.
func (c *Context) GetConfig(id int) map[string]string {
	el := c.element(id)
	if el == nil {
		return nil
	}
	return maps.Clone(el.Config)
}

// SetDataset writes dataset as data-* attributes in key order.
func (c *Context) SetDataset(id int, dataset map[string]string) {
	el := c.element(id)
	if el == nil {
		return
	}
	for _, key := range slices.Sorted(maps.Keys(dataset)) {
		el.Attrs.Set("data-"+strings.ToLower(key), dataset[key])
	}
}
