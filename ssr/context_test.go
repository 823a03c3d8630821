package ssr_test

import (
	"maps"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"lynxssr/css"
	"lynxssr/ssr"
)

func newContext(t *testing.T, opts ssr.Options) *ssr.Context {
	t.Helper()
	return ssr.NewContext(opts, zaptest.NewLogger(t))
}

func intPtr(v int) *int { return &v }

func TestContext_CreateElement(t *testing.T) {
	c := newContext(t, ssr.Options{EnableCSSSelector: true})

	page := c.CreatePage("0", 7)
	view := c.CreateElement("view", page, nil, "")
	text := c.CreateElement("text", page, intPtr(3), "")
	orphan := c.CreateElement("view", 100, nil, "")

	if page != 0 || view != 1 || text != 2 || orphan != 3 {
		t.Fatalf("ids are expected to be allocated sequentially from 0, got %d %d %d %d", page, view, text, orphan)
	}
	if got := c.Element(view).CSSID; got != 7 {
		t.Errorf("view css-id = %d, want inherited 7", got)
	}
	if got := c.Element(text).CSSID; got != 3 {
		t.Errorf("text css-id = %d, want 3", got)
	}
	if got := c.Element(orphan).CSSID; got != 0 {
		t.Errorf("orphan css-id = %d, want 0", got)
	}
	if _, ok := c.GetAttribute(orphan, ssr.CSSIDAttribute); ok {
		t.Error("element without scope must not carry css-id attribute")
	}
	if tag, ok := c.GetTag(text); !ok || tag != "text" {
		t.Errorf("GetTag() = %q, %v", tag, ok)
	}
	if _, ok := c.GetTag(42); ok {
		t.Error("GetTag() of unknown element is expected to fail")
	}
}

func TestContext_CreatePage(t *testing.T) {
	tests := []struct {
		name    string
		opts    ssr.Options
		want    map[string]string
		missing []string
	}{
		{
			name: "defaults",
			opts: ssr.Options{},
			want: map[string]string{
				"part":                            "page",
				ssr.CSSIDAttribute:                "1",
				ssr.ComponentIDAttribute:          "0",
				ssr.DefaultDisplayLinearAttribute: "false",
			},
			missing: []string{ssr.DefaultOverflowVisibleAttribute},
		},
		{
			name: "display linear, overflow visible",
			opts: ssr.Options{DefaultDisplayLinear: true, DefaultOverflowVisible: true},
			want: map[string]string{
				ssr.DefaultOverflowVisibleAttribute: "true",
			},
			missing: []string{ssr.DefaultDisplayLinearAttribute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(t, tt.opts)
			page := c.CreatePage("0", 1)

			attrs := c.GetAttributes(page)
			for k, v := range tt.want {
				if attrs[k] != v {
					t.Errorf("attribute %s = %q, want %q", k, attrs[k], v)
				}
			}
			for _, k := range tt.missing {
				if _, ok := attrs[k]; ok {
					t.Errorf("unexpected attribute %s", k)
				}
			}
			if c.Page() != page {
				t.Errorf("Page() = %d, want %d", c.Page(), page)
			}
			if id, ok := c.ElementByComponentID("0"); !ok || id != page {
				t.Errorf("ElementByComponentID() = %d, %v", id, ok)
			}
		})
	}
}

func TestContext_Attributes(t *testing.T) {
	c := newContext(t, ssr.Options{EnableCSSSelector: true})
	id := c.CreateElement("view", -1, nil, "")

	c.SetAttribute(id, "id", "container")
	c.SetAttribute(id, "style", "display:linear;width:1px")
	if v, _ := c.GetAttribute(id, "style"); v != "--lynx-display-toggle:var(--lynx-display-linear);--lynx-display:linear;display:flex;width:1px" {
		t.Errorf("style = %q", v)
	}

	c.RemoveAttribute(id, "id")
	if _, ok := c.GetAttribute(id, "id"); ok {
		t.Error("attribute was not removed")
	}
	c.RemoveAttribute(id, "style")
	if _, ok := c.GetAttribute(id, "style"); ok {
		t.Error("style was not removed")
	}

	attrs := c.GetAttributes(id)
	attrs["injected"] = "x"
	if _, ok := c.GetAttribute(id, "injected"); ok {
		t.Error("GetAttributes() must return a copy")
	}
}

func TestContext_AddClass(t *testing.T) {
	c := newContext(t, ssr.Options{EnableCSSSelector: true})
	id := c.CreateElement("view", -1, nil, "")

	for _, name := range []string{"a", "b", "a", "", "c"} {
		c.AddClass(id, name)
	}
	if v, _ := c.GetAttribute(id, "class"); v != "a b c" {
		t.Errorf("class = %q, want %q", v, "a b c")
	}
}

func TestContext_InlineStyles(t *testing.T) {
	c := newContext(t, ssr.Options{EnableCSSSelector: true})
	id := c.CreateElement("view", -1, nil, "")

	c.AddInlineStyle(id, "color", "red")
	c.AddInlineStyle(id, "background-color", "")
	c.AddInlineStyle(id, "flex-direction", "row")
	c.AddInlineStyle(id, "width", "1px")
	c.AddInlineStyle(id, "width", "2px")

	style, _ := c.GetAttribute(id, "style")
	if !strings.Contains(style, "color:red;") {
		t.Errorf("style %q does not contain color", style)
	}
	if strings.Contains(style, "background-color") {
		t.Errorf("empty value must be ignored: %q", style)
	}
	if !strings.Contains(style, "--flex-direction:row;") || strings.Contains(style, ";flex-direction") {
		t.Errorf("property was not transformed: %q", style)
	}
	if !strings.HasSuffix(style, "width:2px;") || strings.Count(style, "width:") != 1 {
		t.Errorf("property was not replaced: %q", style)
	}

	if c.SetInlineStyles(id, "height:1px") {
		t.Error("SetInlineStyles() reported change for text without rules")
	}
	if !c.SetInlineStyles(id, "flex:1") {
		t.Error("SetInlineStyles() reported no change")
	}
	if v, _ := c.GetAttribute(id, "style"); v != "--flex-shrink:1;--flex-basis:0%;--flex-grow:1" {
		t.Errorf("style = %q", v)
	}

	c.SetInlineStyleKeyValues(id, []string{"display", "flex", "height", "3px"})
	if v, _ := c.GetAttribute(id, "style"); v != "--lynx-display-toggle:var(--lynx-display-flex);--lynx-display:flex;display:flex;height:3px;" {
		t.Errorf("style = %q", v)
	}

	c.SetAttribute(id, "style", "top:0")
	c.AddInlineStyle(id, "left", "0")
	if v, _ := c.GetAttribute(id, "style"); v != "top:0;left:0;" {
		t.Errorf("style = %q", v)
	}
}

func TestContext_SetCSSID(t *testing.T) {
	c := newContext(t, ssr.Options{EnableCSSSelector: true})
	a := c.CreateElement("view", -1, nil, "")
	b := c.CreateElement("view", -1, intPtr(2), "")

	c.SetCSSID([]int{a, b}, 5, "card")
	for _, id := range []int{a, b} {
		if v, _ := c.GetAttribute(id, ssr.CSSIDAttribute); v != "5" {
			t.Errorf("element %d css-id attribute = %q", id, v)
		}
		if v, _ := c.GetAttribute(id, ssr.EntryNameAttribute); v != "card" {
			t.Errorf("element %d entry attribute = %q", id, v)
		}
		if c.Element(id).CSSID != 5 {
			t.Errorf("element %d css-id = %d", id, c.Element(id).CSSID)
		}
	}

	c.SetCSSID([]int{b}, 0, "")
	if _, ok := c.GetAttribute(b, ssr.CSSIDAttribute); ok {
		t.Error("zero css-id must remove attribute")
	}
	if v, _ := c.GetAttribute(b, ssr.EntryNameAttribute); v != "card" {
		t.Errorf("entry attribute changed to %q", v)
	}
}

func TestContext_ResolvedClassStyles(t *testing.T) {
	c := newContext(t, ssr.Options{})

	p := css.NewParser(zaptest.NewLogger(t))
	c.PushStyleSheet(css.StyleInfo{
		1: p.Parse([]byte(`.a { display: linear; } .b { width: 1px; } .b:hover { width: 2px; }`)),
	}, "")

	id := c.CreateElement("view", -1, nil, "")
	c.AddClass(id, "a")
	c.AddClass(id, "b")
	c.SetAttribute(id, "style", "height:1px")
	c.SetCSSID([]int{id}, 1, "")

	want := "--lynx-display-toggle:var(--lynx-display-linear);--lynx-display:linear;display:flex;width:1px;height:1px"
	if v, _ := c.GetAttribute(id, "style"); v != want {
		t.Errorf("style = %q, want %q", v, want)
	}
	if pageCSS := c.PageCSS(); strings.Contains(pageCSS, ".a[") || !strings.Contains(pageCSS, `.b[l-css-id="1"]:not([l-e-name]):hover`) {
		t.Errorf("unexpected page CSS %q", pageCSS)
	}

	// only inline part goes away
	c.RemoveAttribute(id, "style")
	want = "--lynx-display-toggle:var(--lynx-display-linear);--lynx-display:linear;display:flex;width:1px;"
	if v, _ := c.GetAttribute(id, "style"); v != want {
		t.Errorf("style after removal = %q, want %q", v, want)
	}
	c.SetAttribute(id, "style", "height:3px")
	if v, _ := c.GetAttribute(id, "style"); v != want+"height:3px" {
		t.Errorf("style after reset = %q", v)
	}
}

func TestContext_Components(t *testing.T) {
	c := newContext(t, ssr.Options{})
	page := c.CreatePage("0", 1)
	comp := c.CreateElement("view", page, nil, "c1")

	if v, ok := c.GetComponentID(comp); !ok || v != "c1" {
		t.Errorf("GetComponentID() = %q, %v", v, ok)
	}
	c.UpdateComponentID(comp, "c2")
	if v, _ := c.GetComponentID(comp); v != "c2" {
		t.Errorf("GetComponentID() after update = %q", v)
	}
	if _, ok := c.ElementByComponentID("c1"); ok {
		t.Error("old component id is still registered")
	}
	if _, ok := c.GetComponentID(c.CreateElement("view", page, nil, "")); ok {
		t.Error("plain element is not expected to have component id")
	}

	cfg := map[string]string{"mode": "dark"}
	c.SetConfig(comp, cfg)
	cfg["mode"] = "light"
	if got := c.GetConfig(comp); !maps.Equal(got, map[string]string{"mode": "dark"}) {
		t.Errorf("GetConfig() = %v", got)
	}
	if got := c.GetConfig(page); got != nil {
		t.Errorf("GetConfig() of element without config = %v", got)
	}

	c.SetDataset(comp, map[string]string{"b": "2", "itemId": "1"})
	attrs := c.GetAttributes(comp)
	if attrs["data-b"] != "2" || attrs["data-itemid"] != "1" {
		t.Errorf("dataset attributes = %v", attrs)
	}
}
