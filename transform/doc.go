// Package transform rewrites Lynx CSS declarations into declarations a
// browser understands.
//
// Rewriting is a pure function of property name and value text. Rules are
// evaluated in fixed order, first match wins for the element itself:
//
//   - rename: property renamed, value untouched (flex-direction → --flex-direction)
//   - replace: (name, value) pair expands into fixed declarations (display:linear)
//   - color: gradient text emulation through background clipping
//   - flex: shorthand expanded into --flex-grow, --flex-shrink, --flex-basis
//
// Independently linear-weight-sum produces a declaration for direct children
// of the element (--lynx-linear-weight-sum).
//
// Properties without a rule are left to the caller to pass through verbatim.
//
// # Inline styles
//
// TransformInline scans raw style attribute text, rewrites declarations
// which have a rule and keeps everything else byte for byte:
//
//	style, children := transform.TransformInline("width:1px; flex:none")
//	// style:    "width:1px; --flex-shrink:0;--flex-grow:0;--flex-basis:auto"
//	// children: ""
package transform
