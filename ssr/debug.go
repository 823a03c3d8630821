package ssr

import (
	"fmt"
	"strings"

	tp "github.com/xlab/treeprint"
)

func (e *Element) label() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s> id=%d css-id=%d", e.Tag, e.ID, e.CSSID)
	if e.ComponentID != "" {
		fmt.Fprintf(&sb, " component=%q", e.ComponentID)
	}
	for name, value := range e.Attrs.All() {
		switch name {
		case TagAttribute, UniqueIDAttribute, CSSIDAttribute:
			continue
		}
		fmt.Fprintf(&sb, " %s=%q", name, value)
	}
	return sb.String()
}

// Dump returns readable element tree starting at rootID.
// It exists solely for manual inspection during debugging.
func (c *Context) Dump(rootID int) string {
	root := c.element(rootID)
	if root == nil {
		return fmt.Sprintf("<unknown element %d>", rootID)
	}

	type item struct {
		branch tp.Tree
		id     int
	}

	printer := tp.New()
	printer.SetValue(fmt.Sprintf("Elements(total=%d)", len(c.elements)))

	stack := []item{{printer, rootID}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		el := c.element(it.id)
		if el == nil {
			continue
		}
		if len(el.Children) == 0 {
			it.branch.AddNode(el.label())
			continue
		}
		branch := it.branch.AddBranch(el.label())
		for i := len(el.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{branch, el.Children[i]})
		}
	}
	return printer.String()
}
