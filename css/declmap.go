package css

import (
	"iter"
	"slices"
	"strings"
)

// DeclarationMap holds at most one declaration per property. Properties keep
// the position of their first insertion, setting an existing property
// replaces its value in place.
type DeclarationMap struct {
	names  []string
	values map[string]Declaration
}

// NewDeclarationMap creates map with initial declarations applied in order.
func NewDeclarationMap(decls ...Declaration) *DeclarationMap {
	m := &DeclarationMap{values: make(map[string]Declaration, len(decls))}
	for _, d := range decls {
		m.Set(d)
	}
	return m
}

func (m *DeclarationMap) Set(d Declaration) {
	if m.values == nil {
		m.values = make(map[string]Declaration)
	}
	if _, ok := m.values[d.Name]; !ok {
		m.names = append(m.names, d.Name)
	}
	m.values[d.Name] = d
}

func (m *DeclarationMap) Get(name string) (Declaration, bool) {
	d, ok := m.values[name]
	return d, ok
}

func (m *DeclarationMap) Delete(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == name })
}

func (m *DeclarationMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Merge sets every declaration of other in its order.
func (m *DeclarationMap) Merge(other *DeclarationMap) {
	for _, d := range other.All() {
		m.Set(d)
	}
}

// All iterates over declarations in insertion order.
func (m *DeclarationMap) All() iter.Seq2[string, Declaration] {
	return func(yield func(string, Declaration) bool) {
		if m == nil {
			return
		}
		for _, name := range m.names {
			if !yield(name, m.values[name]) {
				return
			}
		}
	}
}

// Declarations returns copy of declarations in insertion order.
func (m *DeclarationMap) Declarations() []Declaration {
	res := make([]Declaration, 0, m.Len())
	for _, d := range m.All() {
		res = append(res, d)
	}
	return res
}

// String renders declarations as style attribute text, every declaration
// terminated with semicolon.
func (m *DeclarationMap) String() string {
	var sb strings.Builder
	for _, d := range m.All() {
		sb.WriteString(d.String())
		sb.WriteByte(';')
	}
	return sb.String()
}
