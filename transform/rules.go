package transform

import "lynxssr/css"

// Names of custom properties used by the web runtime.
const (
	FlexGrowVar        = "--flex-grow"
	FlexShrinkVar      = "--flex-shrink"
	FlexBasisVar       = "--flex-basis"
	TextBgColorVar     = "--lynx-text-bg-color"
	LinearWeightSumVar = "--lynx-linear-weight-sum"

	linearGradient  = "linear-gradient"
	linearWeightSum = "linear-weight-sum"
)

// renameRules maps Lynx property names to their custom property equivalents.
// Values are never changed.
var renameRules = map[string]string{
	"linear-weight":       "--lynx-linear-weight",
	"flex-direction":      "--flex-direction",
	"flex-wrap":           "--flex-wrap",
	"flex-grow":           "--flex-grow",
	"flex-shrink":         "--flex-shrink",
	"flex-basis":          "--flex-basis",
	"list-main-axis-gap":  "--list-main-axis-gap",
	"list-cross-axis-gap": "--list-cross-axis-gap",
}

type replaceKey struct {
	name, value string
}

func decls(pairs ...string) []css.Declaration {
	res := make([]css.Declaration, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		res = append(res, css.Declaration{Name: pairs[i], Value: pairs[i+1]})
	}
	return res
}

func orientation(canonical string) []css.Declaration {
	return decls(
		"--lynx-linear-orientation", canonical,
		"--lynx-linear-orientation-toggle", "var(--lynx-linear-orientation-"+canonical+")",
	)
}

func justify(value string) []css.Declaration {
	return decls(
		"--justify-content-column", value,
		"--justify-content-row", value,
	)
}

func alignSelf(value string) []css.Declaration {
	return decls(
		"--align-self-row", value,
		"--align-self-column", value,
	)
}

// replaceRules expands exact (name, value) pairs into fixed declaration lists.
var replaceRules = func() map[replaceKey][]css.Declaration {
	m := map[replaceKey][]css.Declaration{
		{"display", "linear"}: decls(
			"--lynx-display-toggle", "var(--lynx-display-linear)",
			"--lynx-display", "linear",
			"display", "flex",
		),
		{"display", "flex"}: decls(
			"--lynx-display-toggle", "var(--lynx-display-flex)",
			"--lynx-display", "flex",
			"display", "flex",
		),
		{"direction", "lynx-rtl"}: decls("direction", "rtl"),

		{"linear-gravity", "start"}:         justify("flex-start"),
		{"linear-gravity", "end"}:           justify("flex-end"),
		{"linear-gravity", "center"}:        justify("center"),
		{"linear-gravity", "space-between"}: justify("space-between"),

		{"linear-cross-gravity", "start"}:   decls("align-items", "flex-start"),
		{"linear-cross-gravity", "end"}:     decls("align-items", "flex-end"),
		{"linear-cross-gravity", "center"}:  decls("align-items", "center"),
		{"linear-cross-gravity", "stretch"}: decls("align-items", "stretch"),

		{"linear-layout-gravity", "start"}:   alignSelf("flex-start"),
		{"linear-layout-gravity", "end"}:     alignSelf("flex-end"),
		{"linear-layout-gravity", "center"}:  alignSelf("center"),
		{"linear-layout-gravity", "stretch"}: alignSelf("stretch"),
	}
	for _, name := range []string{"linear-orientation", "linear-direction"} {
		for value, canonical := range map[string]string{
			"horizontal":         "horizontal",
			"vertical":           "vertical",
			"horizontal-reverse": "horizontal-reverse",
			"vertical-reverse":   "vertical-reverse",
			"row":                "horizontal",
			"column":             "vertical",
			"row-reverse":        "horizontal-reverse",
			"column-reverse":     "vertical-reverse",
		} {
			m[replaceKey{name, value}] = orientation(canonical)
		}
	}
	return m
}()

// flex shorthand canonical forms
var (
	flexNone     = decls(FlexShrinkVar, "0", FlexGrowVar, "0", FlexBasisVar, "auto")
	flexAuto     = decls(FlexShrinkVar, "1", FlexGrowVar, "1", FlexBasisVar, "auto")
	flexGrowOnly = decls(FlexShrinkVar, "1", FlexBasisVar, "0%")
	flexBasis    = decls(FlexShrinkVar, "1", FlexGrowVar, "1")

	colorForGradient = decls("color", "transparent", "-webkit-background-clip", "text", "background-clip", "text")
	colorForNormal   = decls(TextBgColorVar, "initial", "-webkit-background-clip", "initial", "background-clip", "initial")
)
