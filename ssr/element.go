package ssr

import (
	"iter"
	"slices"
	"strings"

	"lynxssr/css"
)

// Attributes keeps element attributes in insertion order.
type Attributes struct {
	names  []string
	values map[string]string
}

func (a *Attributes) Set(name, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[name]
	return v, ok
}

func (a *Attributes) Delete(name string) {
	if _, ok := a.values[name]; !ok {
		return
	}
	delete(a.values, name)
	a.names = slices.DeleteFunc(a.names, func(n string) bool { return n == name })
}

func (a *Attributes) Len() int {
	return len(a.names)
}

// All iterates over attributes in insertion order.
func (a *Attributes) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range a.names {
			if !yield(name, a.values[name]) {
				return
			}
		}
	}
}

// Element is a single record of the element arena. Children and parent
// component are referenced by element id.
type Element struct {
	ID                int
	Tag               string
	CSSID             int
	ParentComponentID int
	ComponentID       string
	EntryName         string
	Attrs             Attributes
	Children          []int
	Config            map[string]string

	// style attribute is assembled from these
	styleText string              // transformed text set as a whole
	inline    *css.DeclarationMap // individually set properties
	resolved  *css.DeclarationMap // class declarations resolved without selectors
}

func newElement(id int, tag string, cssID, parentComponentID int, componentID string) *Element {
	return &Element{
		ID:                id,
		Tag:               tag,
		CSSID:             cssID,
		ParentComponentID: parentComponentID,
		ComponentID:       componentID,
		inline:            css.NewDeclarationMap(),
	}
}

// Classes returns class names in attribute order.
func (e *Element) Classes() []string {
	v, _ := e.Attrs.Get("class")
	return strings.Fields(v)
}

func (e *Element) addClass(name string) {
	classes := e.Classes()
	if slices.Contains(classes, name) {
		return
	}
	e.Attrs.Set("class", strings.Join(append(classes, name), " "))
}

// setStyleText replaces the whole inline style.
func (e *Element) setStyleText(text string) {
	e.styleText = text
	e.inline = css.NewDeclarationMap()
	e.syncStyle()
}

func (e *Element) setStyleProperty(d css.Declaration) {
	e.inline.Set(d)
	e.syncStyle()
}

// syncStyle rebuilds style attribute. Resolved class declarations go first
// so inline style overrides them.
func (e *Element) syncStyle() {
	var sb strings.Builder
	if e.resolved.Len() > 0 {
		sb.WriteString(e.resolved.String())
	}
	if e.styleText != "" {
		sb.WriteString(e.styleText)
		if e.inline.Len() > 0 && !strings.HasSuffix(strings.TrimSpace(e.styleText), ";") {
			sb.WriteByte(';')
		}
	}
	if e.inline.Len() > 0 {
		sb.WriteString(e.inline.String())
	}
	if sb.Len() == 0 {
		e.Attrs.Delete("style")
		return
	}
	e.Attrs.Set("style", sb.String())
}
