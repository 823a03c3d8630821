package page

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// XML attributes with special meaning, everything else becomes element
// attribute as is.
const (
	xmlStyleAttr       = "style"
	xmlCSSIDAttr       = "css-id"
	xmlComponentIDAttr = "component-id"
	xmlDatasetPrefix   = "data-"
)

// parseTreeXML converts XML element tree into page nodes. Text content is
// ignored, there must be exactly one root element.
func parseTreeXML(text string) (*Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("unable to parse tree XML: %w", err)
	}

	elements := doc.ChildElements()
	switch len(elements) {
	case 0:
		return nil, errors.New("tree XML has no root element")
	case 1:
	default:
		return nil, fmt.Errorf("tree XML has %d root elements, expected one", len(elements))
	}

	type item struct {
		el   *etree.Element
		node *Node
	}

	root := &Node{}
	stack := []item{{elements[0], root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fillNode(it.node, it.el); err != nil {
			return nil, err
		}
		children := it.el.ChildElements()
		it.node.Children = make([]*Node, len(children))
		for i, child := range children {
			it.node.Children[i] = &Node{}
			stack = append(stack, item{child, it.node.Children[i]})
		}
	}
	return root, nil
}

func fillNode(n *Node, el *etree.Element) error {
	n.Tag = el.FullTag()
	for _, a := range el.Attr {
		key := a.FullKey()
		switch {
		case key == xmlStyleAttr:
			n.Style = a.Value
		case key == xmlComponentIDAttr:
			n.ComponentID = a.Value
		case key == xmlCSSIDAttr:
			id, err := strconv.Atoi(strings.TrimSpace(a.Value))
			if err != nil || id < 0 {
				return fmt.Errorf("element <%s> has bad %s %q", n.Tag, xmlCSSIDAttr, a.Value)
			}
			n.CSSID = &id
		case strings.HasPrefix(key, xmlDatasetPrefix):
			if n.Dataset == nil {
				n.Dataset = make(map[string]string)
			}
			n.Dataset[strings.TrimPrefix(key, xmlDatasetPrefix)] = a.Value
		default:
			if n.Attributes == nil {
				n.Attributes = make(map[string]string)
			}
			n.Attributes[key] = a.Value
		}
	}
	return nil
}
