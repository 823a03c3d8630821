package ssr

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var attrEscaper = strings.NewReplacer(
	`"`, "&quot;",
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&#39;",
)

// EscapeAttribute escapes attribute value for double quoted HTML attribute.
func EscapeAttribute(value string) string {
	return attrEscaper.Replace(value)
}

type actionKind int

const (
	openElement actionKind = iota
	closeElement
)

type action struct {
	kind actionKind
	id   int
}

// GenerateHTML renders subtree of rootID inside <lynx-view> shell together
// with page CSS. Elements whose shadow template could not be produced are
// rendered without it, all such failures are returned combined alongside
// the otherwise complete document.
func (c *Context) GenerateHTML(rootID int) (string, error) {
	if c.element(rootID) == nil {
		return "", fmt.Errorf("unable to render element %d: element does not exist", rootID)
	}

	var sb strings.Builder
	sb.Grow(4096)

	sb.WriteString("<lynx-view")
	if c.opts.ViewAttributes != "" {
		sb.WriteByte(' ')
		sb.WriteString(c.opts.ViewAttributes)
	}
	sb.WriteString(`><template shadowrootmode="open"><style>`)
	sb.WriteString(c.styles.CSS())
	sb.WriteString("</style>")

	err := c.renderElement(&sb, rootID)

	sb.WriteString("</template></lynx-view>")
	return sb.String(), err
}

// renderElement walks the tree with explicit stack so tree depth is not
// limited by goroutine stack.
func (c *Context) renderElement(sb *strings.Builder, rootID int) error {
	var errs error

	stack := make([]action, 0, 64)
	stack = append(stack, action{openElement, rootID})

	for len(stack) > 0 {
		act := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		el := c.element(act.id)
		if el == nil {
			continue
		}

		if act.kind == closeElement {
			sb.WriteString("</")
			sb.WriteString(el.Tag)
			sb.WriteByte('>')
			continue
		}

		sb.WriteByte('<')
		sb.WriteString(el.Tag)
		for name, value := range el.Attrs.All() {
			sb.WriteByte(' ')
			sb.WriteString(name)
			sb.WriteString(`="`)
			sb.WriteString(EscapeAttribute(value))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')

		content, ok, err := ShadowTemplate(el.Tag, &el.Attrs)
		switch {
		case err != nil:
			c.log.Warn("Shadow template skipped", zap.Int("id", el.ID), zap.String("tag", el.Tag), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("element %d <%s>: %w", el.ID, el.Tag, err))
		case ok:
			sb.WriteString(`<template shadowrootmode="open">`)
			sb.WriteString(content)
			sb.WriteString("</template>")
		}

		stack = append(stack, action{closeElement, el.ID})
		for i := len(el.Children) - 1; i >= 0; i-- {
			stack = append(stack, action{openElement, el.Children[i]})
		}
	}
	return errs
}
